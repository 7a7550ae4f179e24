package history

import (
	"context"
	"encoding/json"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/gittrophy/pkg/cache"
	"github.com/matzehuels/gittrophy/pkg/observability"
)

const cacheKeyType = "histogram"

// Aggregator combines the histograms of several repositories.
//
// Repositories are walked concurrently. Each per-repository histogram is
// clipped before the elementwise sum, so the result does not depend on the
// order of the input. The first failing repository cancels the rest.
type Aggregator struct {
	Cache       cache.Cache
	Keyer       cache.Keyer
	Logger      *log.Logger
	Concurrency int // maximum parallel walks. Zero means GOMAXPROCS.
}

// NewAggregator creates an aggregator. Nil arguments select a NullCache,
// the default keyer and a discarding logger.
func NewAggregator(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Aggregator {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Aggregator{Cache: c, Keyer: keyer, Logger: logger}
}

// Summary describes an aggregation run.
type Summary struct {
	Repos     int
	Commits   int
	CacheHits int
	Duration  time.Duration
	PerRepo   []Stats
}

type cachedHistogram struct {
	Histogram Histogram `json:"histogram"`
	Stats     Stats     `json:"stats"`
}

// Aggregate walks repos and returns the combined histogram. A non-nil clip
// limits every day of every repository before summation.
func (a *Aggregator) Aggregate(ctx context.Context, repos []Repository, f Filter, clip *int) (Histogram, Summary, error) {
	start := time.Now()
	hooks := observability.Pipeline()
	hooks.OnAggregateStart(ctx, len(repos))

	hists := make([]Histogram, len(repos))
	stats := make([]Stats, len(repos))
	hits := make([]bool, len(repos))

	limit := a.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, repo := range repos {
		g.Go(func() error {
			h, st, hit, err := a.one(gctx, repo, f)
			if err != nil {
				return err
			}
			hists[i], stats[i], hits[i] = h, st, hit
			return nil
		})
	}

	summary := Summary{Repos: len(repos), PerRepo: stats}
	if err := g.Wait(); err != nil {
		summary.Duration = time.Since(start)
		hooks.OnAggregateComplete(ctx, len(repos), 0, summary.Duration, err)
		return Histogram{}, summary, err
	}

	var total Histogram
	for i, h := range hists {
		if clip != nil {
			h = h.Clip(*clip)
		}
		total.Add(h)
		summary.Commits += stats[i].Commits
		if hits[i] {
			summary.CacheHits++
		}
	}
	summary.Duration = time.Since(start)
	hooks.OnAggregateComplete(ctx, len(repos), summary.Commits, summary.Duration, nil)
	return total, summary, nil
}

func (a *Aggregator) one(ctx context.Context, repo Repository, f Filter) (Histogram, Stats, bool, error) {
	id, cacheable := repo.(Identifiable)
	var key string
	if cacheable {
		fp, err := id.Fingerprint(ctx)
		if err != nil {
			a.Logger.Warn("fingerprint failed, walking without cache", "repo", id.Path(), "err", err)
			cacheable = false
		} else {
			key = a.Keyer.HistogramKey(id.Path(), fp, cache.HistogramKeyOpts{Year: f.Year, Names: f.Names})
			if h, st, ok := a.lookup(ctx, key); ok {
				a.Logger.Debug("histogram cache hit", "repo", id.Path())
				return h, st, true, nil
			}
		}
	}

	h, st, err := Build(ctx, repo, f)
	if err != nil {
		return Histogram{}, st, false, err
	}
	if cacheable {
		a.store(ctx, key, h, st)
		a.Logger.Debug("walked repository", "repo", id.Path(), "commits", st.Commits, "years", len(st.Years))
	}
	return h, st, false, nil
}

func (a *Aggregator) lookup(ctx context.Context, key string) (Histogram, Stats, bool) {
	data, hit, err := a.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return Histogram{}, Stats{}, false
	}
	var c cachedHistogram
	if err := json.Unmarshal(data, &c); err != nil {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return Histogram{}, Stats{}, false
	}
	observability.Cache().OnCacheHit(ctx, cacheKeyType)
	return c.Histogram, c.Stats, true
}

func (a *Aggregator) store(ctx context.Context, key string, h Histogram, st Stats) {
	data, err := json.Marshal(cachedHistogram{Histogram: h, Stats: st})
	if err != nil {
		return
	}
	if err := a.Cache.Set(ctx, key, data, cache.TTLHistogram); err != nil {
		a.Logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
}
