// Package history aggregates commit history into a day-of-year histogram.
//
// A [Histogram] has one slot per day of a non-leap year. Commits are mapped
// to their UTC committer date; the zero-based day of year selects the slot.
// Day 365 (December 31 of a leap year) has no slot and is dropped.
//
// [Build] walks one [Repository]. An [Aggregator] walks many repositories
// concurrently, clips each per-repository histogram and sums the results:
//
//	agg := history.NewAggregator(cache.NewNullCache(), nil, logger)
//	hist, summary, err := agg.Aggregate(ctx, repos, history.Filter{}, nil)
package history

// Days is the number of histogram slots.
const Days = 365

// Histogram holds per-day commit counts indexed by zero-based day of year.
type Histogram [Days]int

// Max returns the largest day count, or 0 for an empty histogram.
func (h Histogram) Max() int {
	m := 0
	for _, c := range h {
		if c > m {
			m = c
		}
	}
	return m
}

// NonZero returns how many days have at least one commit.
func (h Histogram) NonZero() int {
	n := 0
	for _, c := range h {
		if c > 0 {
			n++
		}
	}
	return n
}

// Total returns the sum of all day counts.
func (h Histogram) Total() int {
	n := 0
	for _, c := range h {
		n += c
	}
	return n
}

// Clip returns a copy with every day limited to ceiling.
func (h Histogram) Clip(ceiling int) Histogram {
	for d, c := range h {
		if c > ceiling {
			h[d] = ceiling
		}
	}
	return h
}

// Add sums o into h elementwise.
func (h *Histogram) Add(o Histogram) {
	for d, c := range o {
		h[d] += c
	}
}

// Sum returns the elementwise sum of hs.
func Sum(hs ...Histogram) Histogram {
	var out Histogram
	for _, h := range hs {
		out.Add(h)
	}
	return out
}
