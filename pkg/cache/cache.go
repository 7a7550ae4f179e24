// Package cache stores per-repository histograms between runs.
//
// Walking every commit of a large repository dominates a trophy build. The
// histogram of one repository only changes when its references move, so the
// aggregator keys a cached histogram on the repository fingerprint (sorted
// reference names and hashes) together with the year and committer filters.
//
// Two backends are provided: [FileCache] for CLI use (one JSON file per
// entry under the XDG cache directory) and [NullCache] when caching is
// disabled. Keys are produced by a [Keyer]; [ScopedKeyer] prefixes them so a
// change of the cached format never reads stale entries.
package cache

import (
	"context"
	"time"
)

// TTLHistogram bounds how long a histogram entry is trusted even when the
// repository fingerprint is unchanged.
const TTLHistogram = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with per-entry expiration.
type Cache interface {
	// Get returns the value for key. hit is false on a miss or expired entry.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// HistogramKeyOpts are the aggregation filters that change a histogram.
type HistogramKeyOpts struct {
	Year  *int     `json:"year,omitempty"`
	Names []string `json:"names,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// HistogramKey returns the key for one repository's histogram.
	HistogramKey(repo, fingerprint string, opts HistogramKeyOpts) string
}

// DefaultKeyer hashes key components into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a keyer with no prefix.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// HistogramKey returns "histogram:<sha256>" over the repository path,
// fingerprint and filters.
func (DefaultKeyer) HistogramKey(repo, fingerprint string, opts HistogramKeyOpts) string {
	return hashKey("histogram", repo, fingerprint, opts)
}
