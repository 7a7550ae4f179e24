package cache

// ScopedKeyer wraps a Keyer with a prefix. The CLI scopes keys with the
// cache format version so entries written by an older layout are ignored
// rather than misread.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "v1:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// HistogramKey generates a prefixed key for histogram caching.
func (k *ScopedKeyer) HistogramKey(repo, fingerprint string, opts HistogramKeyOpts) string {
	return k.prefix + k.inner.HistogramKey(repo, fingerprint, opts)
}
