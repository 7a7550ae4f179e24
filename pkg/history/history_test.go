package history

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/gittrophy/pkg/cache"
	"github.com/matzehuels/gittrophy/pkg/errors"
)

type memRepo struct {
	path    string
	fp      string
	commits []Commit
	walks   atomic.Int32
}

func (r *memRepo) WalkCommits(ctx context.Context, fn func(Commit) error) error {
	r.walks.Add(1)
	for _, c := range r.commits {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
	}
	return nil
}

type cachedRepo struct{ *memRepo }

func (r cachedRepo) Path() string                                { return r.path }
func (r cachedRepo) Fingerprint(context.Context) (string, error) { return r.fp, nil }

func day(year, yday int, name string) Commit {
	return Commit{
		When:      time.Date(year, 1, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, yday),
		Committer: name,
	}
}

func repeat(c Commit, n int) []Commit {
	out := make([]Commit, n)
	for i := range out {
		out[i] = c
	}
	return out
}

func ptr(v int) *int { return &v }

func TestBuildEmptyRepository(t *testing.T) {
	h, st, err := Build(context.Background(), &memRepo{}, Filter{})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if len(h) != Days {
		t.Errorf("len = %d, want %d", len(h), Days)
	}
	if h.Total() != 0 || st.Commits != 0 {
		t.Errorf("empty repo: total=%d commits=%d", h.Total(), st.Commits)
	}
}

func TestDayOfYear(t *testing.T) {
	tests := []struct {
		name     string
		when     time.Time
		wantYear int
		wantDay  int
	}{
		{"jan 1", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), 2023, 0},
		{"dec 31 non-leap", time.Date(2023, 12, 31, 23, 59, 0, 0, time.UTC), 2023, 364},
		{"dec 31 leap", time.Date(2024, 12, 31, 8, 0, 0, 0, time.UTC), 2024, 365},
		{"offset crosses year", time.Date(2024, 1, 1, 1, 0, 0, 0, time.FixedZone("EAT", 3*3600)), 2023, 364},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			y, d, err := DayOfYear(tt.when)
			if err != nil {
				t.Fatalf("DayOfYear error: %v", err)
			}
			if y != tt.wantYear || d != tt.wantDay {
				t.Errorf("DayOfYear = (%d, %d), want (%d, %d)", y, d, tt.wantYear, tt.wantDay)
			}
		})
	}
}

func TestDayOfYearInvalid(t *testing.T) {
	for _, when := range []time.Time{
		{},
		time.Date(10000, 1, 1, 0, 0, 0, 0, time.UTC),
	} {
		if _, _, err := DayOfYear(when); !errors.Is(err, errors.ErrCodeTimestamp) {
			t.Errorf("DayOfYear(%v) error = %v, want TIMESTAMP", when, err)
		}
	}
}

func TestBuildDropsLeapDay(t *testing.T) {
	repo := &memRepo{commits: []Commit{
		day(2024, 365, "a"),
		day(2023, 364, "a"),
	}}
	h, st, err := Build(context.Background(), repo, Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if h[364] != 1 {
		t.Errorf("h[364] = %d, want 1", h[364])
	}
	if h.Total() != 1 || st.LeapDays != 1 {
		t.Errorf("total=%d leapDays=%d, want 1 and 1", h.Total(), st.LeapDays)
	}
}

func TestBuildSumsYears(t *testing.T) {
	repo := &memRepo{commits: []Commit{
		day(2021, 10, "a"),
		day(2022, 10, "a"),
		day(2022, 11, "a"),
	}}
	h, st, err := Build(context.Background(), repo, Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if h[10] != 2 || h[11] != 1 {
		t.Errorf("h[10]=%d h[11]=%d, want 2 and 1", h[10], h[11])
	}
	if fmt.Sprint(st.Years) != "[2021 2022]" {
		t.Errorf("Years = %v", st.Years)
	}
}

func TestBuildYearFilter(t *testing.T) {
	repo := &memRepo{commits: []Commit{
		day(2021, 10, "a"),
		day(2022, 10, "a"),
		day(2022, 11, "a"),
	}}
	h, _, err := Build(context.Background(), repo, Filter{Year: ptr(2021)})
	if err != nil {
		t.Fatal(err)
	}
	if h[10] != 1 || h[11] != 0 {
		t.Errorf("h[10]=%d h[11]=%d, want 1 and 0", h[10], h[11])
	}

	h, _, _ = Build(context.Background(), repo, Filter{Year: ptr(1999)})
	if h.Total() != 0 {
		t.Errorf("unseen year should produce empty histogram, total=%d", h.Total())
	}
}

func TestBuildNameFilter(t *testing.T) {
	repo := &memRepo{commits: []Commit{
		day(2022, 0, "Alice"),
		day(2022, 0, "alice"),
		day(2022, 0, ""),
		day(2022, 1, "Bob"),
	}}

	tests := []struct {
		name  string
		names []string
		want0 int
		want1 int
	}{
		{"no filter", nil, 3, 1},
		{"exact case", []string{"Alice"}, 1, 0},
		{"two names", []string{"alice", "Bob"}, 1, 1},
		{"no match", []string{"Carol"}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, err := Build(context.Background(), repo, Filter{Names: tt.names})
			if err != nil {
				t.Fatal(err)
			}
			if h[0] != tt.want0 || h[1] != tt.want1 {
				t.Errorf("h[0]=%d h[1]=%d, want %d and %d", h[0], h[1], tt.want0, tt.want1)
			}
		})
	}
}

func TestClipIdempotent(t *testing.T) {
	var h Histogram
	h[0], h[1], h[2] = 1, 5, 9
	once := h.Clip(4)
	twice := once.Clip(4)
	if once != twice {
		t.Error("Clip should be idempotent")
	}
	if once[0] != 1 || once[1] != 4 || once[2] != 4 {
		t.Errorf("Clip(4) = %v", once[:3])
	}
	if h[2] != 9 {
		t.Error("Clip should not modify the receiver")
	}
}

func TestAggregateClipBeforeSum(t *testing.T) {
	repos := []Repository{
		&memRepo{commits: repeat(day(2022, 0, "a"), 3)},
		&memRepo{commits: repeat(day(2022, 0, "a"), 4)},
	}
	agg := NewAggregator(nil, nil, nil)

	h, _, err := agg.Aggregate(context.Background(), repos, Filter{}, ptr(2))
	if err != nil {
		t.Fatal(err)
	}
	if h[0] != 4 {
		t.Errorf("clipped day 0 = %d, want 4", h[0])
	}

	h, summary, err := agg.Aggregate(context.Background(), repos, Filter{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if h[0] != 7 {
		t.Errorf("unclipped day 0 = %d, want 7", h[0])
	}
	if summary.Repos != 2 || summary.Commits != 7 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestAggregatePermutationInvariant(t *testing.T) {
	a := &memRepo{commits: []Commit{day(2022, 0, "a"), day(2022, 5, "a"), day(2022, 5, "a")}}
	b := &memRepo{commits: []Commit{day(2021, 5, "b"), day(2021, 100, "b")}}
	c := &memRepo{commits: repeat(day(2020, 200, "c"), 6)}

	agg := NewAggregator(nil, nil, nil)
	agg.Concurrency = 2
	orders := [][]Repository{{a, b, c}, {c, b, a}, {b, a, c}}

	var first Histogram
	for i, repos := range orders {
		h, _, err := agg.Aggregate(context.Background(), repos, Filter{}, ptr(3))
		if err != nil {
			t.Fatal(err)
		}
		if i == 0 {
			first = h
			continue
		}
		if h != first {
			t.Errorf("order %d produced a different histogram", i)
		}
	}
}

func TestAggregateTimestampAborts(t *testing.T) {
	repos := []Repository{
		&memRepo{commits: []Commit{day(2022, 0, "a")}},
		&memRepo{commits: []Commit{{Committer: "b"}}},
	}
	_, _, err := NewAggregator(nil, nil, nil).Aggregate(context.Background(), repos, Filter{}, nil)
	if !errors.Is(err, errors.ErrCodeTimestamp) {
		t.Errorf("error = %v, want TIMESTAMP", err)
	}
}

func TestAggregateCacheHit(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	inner := &memRepo{path: "/src/r", fp: "refs/heads/main=abc", commits: repeat(day(2022, 3, "a"), 5)}
	repos := []Repository{cachedRepo{inner}}
	agg := NewAggregator(c, nil, nil)

	fresh, s1, err := agg.Aggregate(ctx, repos, Filter{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	cached, s2, err := agg.Aggregate(ctx, repos, Filter{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if fresh != cached {
		t.Error("cache hit should return the same histogram")
	}
	if inner.walks.Load() != 1 {
		t.Errorf("walks = %d, want 1", inner.walks.Load())
	}
	if s1.CacheHits != 0 || s2.CacheHits != 1 {
		t.Errorf("cache hits = %d, %d, want 0, 1", s1.CacheHits, s2.CacheHits)
	}

	// A different filter must not reuse the entry.
	if _, _, err := agg.Aggregate(ctx, repos, Filter{Year: ptr(2022)}, nil); err != nil {
		t.Fatal(err)
	}
	if inner.walks.Load() != 2 {
		t.Errorf("walks after filter change = %d, want 2", inner.walks.Load())
	}

	// Moving a ref invalidates.
	inner.fp = "refs/heads/main=def"
	if _, _, err := agg.Aggregate(ctx, repos, Filter{}, nil); err != nil {
		t.Fatal(err)
	}
	if inner.walks.Load() != 3 {
		t.Errorf("walks after ref move = %d, want 3", inner.walks.Load())
	}
}

func TestHeightmapJSON(t *testing.T) {
	var h Histogram
	h[0], h[364] = 2, 7

	var buf bytes.Buffer
	if err := WriteJSON(&buf, h, ptr(2023)); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"year": 2023`) {
		t.Errorf("missing year in %s", buf.String())
	}

	got, year, err := ReadJSON(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got != h || year == nil || *year != 2023 {
		t.Errorf("ReadJSON = %v, %v", got[:2], year)
	}
}

func TestHeightmapJSONInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", "{"},
		{"short", `{"year": null, "commits": [1, 2, 3]}`},
		{"negative", `{"year": null, "commits": [` + strings.Repeat("0,", Days-1) + `-1]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadJSON(strings.NewReader(tt.input))
			if !errors.Is(err, errors.ErrCodeConfig) {
				t.Errorf("error = %v, want CONFIG", err)
			}
		})
	}
}

func TestHeightmapFile(t *testing.T) {
	path := t.TempDir() + "/heightmap.json"
	var h Histogram
	h[42] = 1
	if err := WriteFile(path, h, nil); err != nil {
		t.Fatal(err)
	}
	got, year, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != h || year != nil {
		t.Errorf("ReadFile = %v, year %v", got[42], year)
	}
}
