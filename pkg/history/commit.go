package history

import (
	"context"
	"slices"
	"time"

	"github.com/matzehuels/gittrophy/pkg/errors"
)

// Commit is the part of a commit the histogram needs.
type Commit struct {
	When      time.Time // committer timestamp
	Committer string    // committer name, empty if unknown
}

// Repository walks every commit reachable from any reference.
//
// WalkCommits stops and returns the first error returned by fn.
type Repository interface {
	WalkCommits(ctx context.Context, fn func(Commit) error) error
}

// Identifiable is implemented by repositories whose histogram can be cached.
// Fingerprint changes whenever any reference moves.
type Identifiable interface {
	Path() string
	Fingerprint(ctx context.Context) (string, error)
}

// Filter restricts which commits are counted.
type Filter struct {
	// Year keeps only commits of one calendar year. Nil keeps all years.
	Year *int
	// Names keeps only commits whose committer name is listed exactly.
	// Nil or empty disables the filter.
	Names []string
}

func (f Filter) acceptsName(name string) bool {
	if len(f.Names) == 0 {
		return true
	}
	if name == "" {
		return false
	}
	return slices.Contains(f.Names, name)
}

func (f Filter) observes(year int) bool {
	return f.Year == nil || *f.Year == year
}

// DayOfYear maps t to its UTC calendar year and zero-based day of year.
// Zero timestamps and years outside 1..9999 fail with TIMESTAMP.
func DayOfYear(t time.Time) (year, day int, err error) {
	if t.IsZero() {
		return 0, 0, errors.New(errors.ErrCodeTimestamp, "commit has no timestamp")
	}
	u := t.UTC()
	if u.Year() < 1 || u.Year() > 9999 {
		return 0, 0, errors.New(errors.ErrCodeTimestamp, "timestamp %d is outside the calendar range", t.Unix())
	}
	return u.Year(), u.YearDay() - 1, nil
}
