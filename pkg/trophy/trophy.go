// Package trophy turns a commit histogram into plinth and brick geometry.
//
// The plinth is a frustum centered on the origin. Bricks stand on its top
// face in a 52 x 7 grid: day d sits in row d/7 (along X) and column d%7
// (along Y). Brick heights are proportional to the day count, with the
// busiest day reaching MaxBrickHeight.
package trophy

import (
	"github.com/ungerik/go3d/float64/vec3"

	"github.com/matzehuels/gittrophy/pkg/geometry"
	"github.com/matzehuels/gittrophy/pkg/history"
	"github.com/matzehuels/gittrophy/pkg/mesh"
)

// GridDays is the number of days that get a brick slot. Day 364 falls
// outside the 52-week grid and is never drawn.
const GridDays = 364

// Result summarizes a build.
type Result struct {
	Bricks     int // bricks emitted
	MaxCommits int // normalization divisor, at least 1
	Faces      int // faces appended to the mesh
}

// Build appends the plinth and one brick per nonzero day to m.
//
// The plinth always comes first, so the face count is 12 plus 12 per brick.
// Only days 0..GridDays-1 are considered. An invalid cfg fails with CONFIG
// before anything is appended.
//
// Example:
//
//	m := mesh.New()
//	res, err := trophy.Build(hist, geometry.Default(), m)
//	// res.Faces == 12 + 12*res.Bricks
func Build(h history.Histogram, cfg geometry.Config, m *mesh.Mesh) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	before := m.Len()

	res := Result{MaxCommits: max(h.Max(), 1)}
	m.Append(Plinth(cfg)...)

	for d := 0; d < GridDays; d++ {
		if h[d] == 0 {
			continue
		}
		bh := BrickHeight(h[d], res.MaxCommits, cfg)
		m.Append(mesh.Box(BrickCenter(d, bh, cfg), 1, 1, bh)...)
		res.Bricks++
	}
	res.Faces = m.Len() - before
	return res, nil
}

// Plinth returns the 12 faces of the sloped base.
func Plinth(cfg geometry.Config) []mesh.Triangle {
	return mesh.Frustum(vec3.Zero,
		cfg.PlinthTopLength(), cfg.PlinthTopWidth(),
		cfg.BottomLength(), cfg.BottomWidth(),
		cfg.PlinthHeight)
}

// BrickHeight scales count so that maxCommits maps to MaxBrickHeight.
// maxCommits must be at least 1; Build floors it there.
func BrickHeight(count, maxCommits int, cfg geometry.Config) float64 {
	return float64(count) * cfg.MaxBrickHeight / float64(maxCommits)
}

// BrickCenter returns the center of the brick for day d with height h.
func BrickCenter(d int, h float64, cfg geometry.Config) vec3.T {
	row, col := d/7, d%7
	return vec3.T{
		float64(row) - cfg.TopLength/2 + 0.5,
		float64(col) - cfg.TopWidth/2 + 0.5,
		h/2 + cfg.PlinthHeight/2,
	}
}
