package history

import (
	"context"
	"sort"
)

// Stats describes one repository walk.
type Stats struct {
	Commits  int   `json:"commits"`   // commits visited
	Counted  int   `json:"counted"`   // commits added to the histogram
	LeapDays int   `json:"leap_days"` // commits dropped on day 365
	Years    []int `json:"years"`     // observed years, ascending
}

// Build walks repo and returns its histogram.
//
// Counts are bucketed per (year, day); the histogram sums the buckets of
// every observed year. With a year filter only that year is observed.
func Build(ctx context.Context, repo Repository, f Filter) (Histogram, Stats, error) {
	buckets := make(map[int]*Histogram)
	var st Stats

	err := repo.WalkCommits(ctx, func(c Commit) error {
		st.Commits++
		year, day, err := DayOfYear(c.When)
		if err != nil {
			return err
		}
		if day >= Days {
			st.LeapDays++
			return nil
		}
		if !f.acceptsName(c.Committer) {
			return nil
		}
		b, ok := buckets[year]
		if !ok {
			b = new(Histogram)
			buckets[year] = b
		}
		b[day]++
		return nil
	})
	if err != nil {
		return Histogram{}, st, err
	}

	var h Histogram
	for year, b := range buckets {
		if !f.observes(year) {
			continue
		}
		st.Years = append(st.Years, year)
		h.Add(*b)
	}
	sort.Ints(st.Years)
	st.Counted = h.Total()
	return h, st, nil
}
