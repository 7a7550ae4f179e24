// Package text places extruded glyphs on the front wall of the plinth.
//
// Glyphs arrive from a [Font] in glyph-local coordinates: the outline lies in
// the XY plane with x along the reading direction and y pointing up, and the
// extrusion is centered on z. Placement rotates that frame about the X axis so
// glyph up follows the wall's up-slope and the extrusion axis follows the
// outward wall normal, scales it to the configured text height and moves it
// onto the wall.
package text

import (
	"math"

	"github.com/ungerik/go3d/float64/mat3"
	"github.com/ungerik/go3d/float64/vec3"

	"github.com/matzehuels/gittrophy/pkg/errors"
	"github.com/matzehuels/gittrophy/pkg/geometry"
	"github.com/matzehuels/gittrophy/pkg/mesh"
)

// Font produces glyph meshes.
type Font interface {
	// Glyph returns the extruded mesh of r with the given depth. quality is
	// the tessellation resolution. ok is false when the font has no visible
	// glyph for r; that character is skipped but keeps its slot.
	Glyph(r rune, depth float64, quality int) (faces []mesh.Triangle, ok bool)
}

// Result summarizes a placement.
type Result struct {
	Glyphs  int     // characters that produced geometry
	Missing int     // characters without a glyph
	Faces   int     // faces appended
	Scale   float64 // glyph-local to model units
}

// Placement is the transform shared by every glyph of one string.
type Placement struct {
	// Rotation about the X axis by the wall angle. Glyph up (+y) maps onto
	// the wall's up-slope and the extrusion axis (+z) onto its outward normal.
	Rotation mat3.T

	// Scale converts glyph-local units so the text band is TextHeight tall.
	Scale float64

	// Translation places the first character. The text band is centered on
	// the wall midpoint and the back of the extrusion rests on the wall.
	Translation vec3.T

	// Advance is the X offset between consecutive characters.
	Advance float64
}

// Apply maps a glyph-local point of character i to model coordinates.
// The point is rotated, then scaled, then translated.
func (p *Placement) Apply(v vec3.T, i int) vec3.T {
	r := p.Rotation.MulVec3(&v)
	r.Scale(p.Scale)
	r.Add(&p.Translation)
	r[0] += float64(i) * p.Advance
	return r
}

// NewPlacement computes the transform for glyphs whose up coordinate spans
// [minY, maxY] across the whole string. minY is negative when a glyph has a
// descender; the band center then sits above the baseline, which keeps the
// visible text centered on the wall. maxY must exceed minY.
func NewPlacement(cfg geometry.Config, minY, maxY float64) Placement {
	s := cfg.TextHeight / (maxY - minY)
	theta := cfg.WallAngle()

	var rot mat3.T
	rot.AssignXRotation(theta)
	up := vec3.T{0, math.Cos(theta), math.Sin(theta)}
	normal := vec3.T{0, -math.Sin(theta), math.Cos(theta)}

	// Wall midpoint halfway between the bottom and top edges of the front face.
	mid := vec3.T{0, -(2*cfg.TopWidth + cfg.BottomMargin + cfg.TopMargin) / 4, 0}

	band := up.Scaled(s * (minY + maxY) / 2)
	push := normal.Scaled(s * cfg.TextDepth / 2)
	t := vec3.Sub(&mid, &band)
	t.Add(&push)
	t[0] -= cfg.TopLength / 2

	return Placement{Rotation: rot, Scale: s, Translation: t, Advance: s * 0.5}
}

// Place appends the glyphs of s to m. Either every glyph is placed or the
// mesh is left untouched.
//
// An empty s is a no-op. A nil font fails with CONFIG. A string in which no
// character has a glyph, or whose transformed geometry is not finite, fails
// with FONT.
func Place(s string, font Font, cfg geometry.Config, m *mesh.Mesh) (Result, error) {
	if s == "" {
		return Result{}, nil
	}
	if font == nil {
		return Result{}, errors.New(errors.ErrCodeConfig, "text requires a font")
	}
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	runes := []rune(s)
	glyphs := make([][]mesh.Triangle, len(runes))
	var res Result
	var all []mesh.Triangle
	for i, r := range runes {
		faces, ok := font.Glyph(r, cfg.TextDepth, cfg.GlyphQuality)
		if !ok || len(faces) == 0 {
			res.Missing++
			continue
		}
		glyphs[i] = faces
		all = append(all, faces...)
		res.Glyphs++
	}

	lo, hi, ok := mesh.BoundsOf(all)
	if !ok || hi[1] <= lo[1] {
		return Result{}, errors.New(errors.ErrCodeFont, "font has no usable glyphs for %q", s)
	}
	p := NewPlacement(cfg, lo[1], hi[1])
	res.Scale = p.Scale

	staged := make([]mesh.Triangle, 0, len(all))
	for i, faces := range glyphs {
		for _, tri := range faces {
			staged = append(staged, mesh.Triangle{
				p.Apply(tri[0], i),
				p.Apply(tri[1], i),
				p.Apply(tri[2], i),
			})
		}
	}
	for _, tri := range staged {
		for _, v := range tri {
			if !finite(v) {
				return Result{}, errors.New(errors.ErrCodeFont, "glyph geometry is not finite")
			}
		}
	}

	m.Append(staged...)
	res.Faces = len(staged)
	return res, nil
}

func finite(v vec3.T) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
