package trophy

import (
	"math"
	"testing"

	"github.com/ungerik/go3d/float64/vec3"

	"github.com/matzehuels/gittrophy/pkg/errors"
	"github.com/matzehuels/gittrophy/pkg/geometry"
	"github.com/matzehuels/gittrophy/pkg/history"
	"github.com/matzehuels/gittrophy/pkg/mesh"
)

func TestBuildEmptyHistogram(t *testing.T) {
	m := mesh.New()
	res, err := Build(history.Histogram{}, geometry.Default(), m)
	if err != nil {
		t.Fatal(err)
	}
	if m.Len() != 12 || res.Bricks != 0 {
		t.Errorf("faces=%d bricks=%d, want 12 and 0", m.Len(), res.Bricks)
	}
	if res.MaxCommits != 1 {
		t.Errorf("MaxCommits = %d, want floor of 1", res.MaxCommits)
	}
}

func TestBuildFaceCount(t *testing.T) {
	tests := []struct {
		name    string
		days    map[int]int
		nonzero int
	}{
		{"single", map[int]int{0: 5}, 1},
		{"spread", map[int]int{0: 1, 7: 2, 100: 3, 363: 4}, 4},
		{"last day skipped", map[int]int{10: 1, 364: 9}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var h history.Histogram
			for d, c := range tt.days {
				h[d] = c
			}
			m := mesh.New()
			res, err := Build(h, geometry.Default(), m)
			if err != nil {
				t.Fatal(err)
			}
			if want := 12 + 12*tt.nonzero; m.Len() != want || res.Faces != want {
				t.Errorf("faces = %d (result %d), want %d", m.Len(), res.Faces, want)
			}
		})
	}
}

func TestBuildSingleBrickReachesMax(t *testing.T) {
	var h history.Histogram
	h[0] = 5
	cfg := geometry.Default()
	m := mesh.New()
	if _, err := Build(h, cfg, m); err != nil {
		t.Fatal(err)
	}

	brick := m.Faces()[12:]
	lo, hi, ok := mesh.BoundsOf(brick)
	if !ok {
		t.Fatal("no brick faces")
	}
	if got := hi[2] - lo[2]; math.Abs(got-10) > 1e-12 {
		t.Errorf("brick height = %v, want 10", got)
	}
	if lo[2] != cfg.PlinthHeight/2 {
		t.Errorf("brick base z = %v, want plinth top %v", lo[2], cfg.PlinthHeight/2)
	}
	want := vec3.T{-26, -3.5, 1}
	if lo != want {
		t.Errorf("brick min corner = %v, want %v", lo, want)
	}
}

func TestBrickHeightProportional(t *testing.T) {
	cfg := geometry.Default()
	if got := BrickHeight(2, 8, cfg); got != 2.5 {
		t.Errorf("BrickHeight(2, 8) = %v, want 2.5", got)
	}
}

func TestBrickCenter(t *testing.T) {
	cfg := geometry.Default()
	tests := []struct {
		day  int
		want vec3.T
	}{
		{0, vec3.T{-25.5, -3, 2}},
		{6, vec3.T{-25.5, 3, 2}},
		{7, vec3.T{-24.5, -3, 2}},
		{363, vec3.T{25.5, 3, 2}},
	}
	for _, tt := range tests {
		if got := BrickCenter(tt.day, 2, cfg); got != tt.want {
			t.Errorf("BrickCenter(%d) = %v, want %v", tt.day, got, tt.want)
		}
	}
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	cfg := geometry.Default()
	cfg.BottomMargin = cfg.TopMargin
	m := mesh.New()
	if _, err := Build(history.Histogram{}, cfg, m); !errors.Is(err, errors.ErrCodeConfig) {
		t.Errorf("error = %v, want CONFIG", err)
	}
	if !m.IsEmpty() {
		t.Error("invalid config should leave the mesh untouched")
	}
}

func TestBricksStayOnPlinth(t *testing.T) {
	var h history.Histogram
	for d := range h {
		h[d] = d%5 + 1
	}
	cfg := geometry.Default()
	m := mesh.New()
	if _, err := Build(h, cfg, m); err != nil {
		t.Fatal(err)
	}
	lo, hi, _ := mesh.BoundsOf(m.Faces()[12:])
	if lo[0] < -cfg.TopLength/2 || hi[0] > cfg.TopLength/2 ||
		lo[1] < -cfg.TopWidth/2 || hi[1] > cfg.TopWidth/2 {
		t.Errorf("bricks exceed top face: %v..%v", lo, hi)
	}
}
