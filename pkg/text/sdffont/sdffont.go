// Package sdffont tessellates TrueType glyphs with sdfx.
//
// Each glyph outline becomes a 2D signed distance field, is extruded along Z
// and tessellated with uniform marching cubes. The result is in glyph-local
// coordinates at unit cap height, ready for text placement.
package sdffont

import (
	"sync"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	"github.com/golang/freetype/truetype"
	"github.com/ungerik/go3d/float64/vec3"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/gittrophy/pkg/errors"
	"github.com/matzehuels/gittrophy/pkg/mesh"
	"github.com/matzehuels/gittrophy/pkg/text"
)

type glyphKey struct {
	r       rune
	depth   float64
	quality int
}

// Font is a loaded TrueType font. Tessellated glyphs are memoized, so
// repeated characters are rendered once. Safe for concurrent use.
type Font struct {
	ttf *truetype.Font

	mu     sync.Mutex
	glyphs map[glyphKey][]mesh.Triangle
}

// Load reads a TrueType font from path.
// An unreadable or unparsable file fails with FONT.
func Load(path string) (*Font, error) {
	f, err := sdf.LoadFont(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFont, err, "load font %s", path)
	}
	return newFont(f), nil
}

// Parse reads a TrueType font from memory.
func Parse(data []byte) (*Font, error) {
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFont, err, "parse font")
	}
	return newFont(f), nil
}

func newFont(f *truetype.Font) *Font {
	return &Font{ttf: f, glyphs: make(map[glyphKey][]mesh.Triangle)}
}

// HasGlyph reports whether r maps to a glyph with at least one contour.
// Index 0 is the font's .notdef glyph, which fonts use for unmapped runes;
// whitespace maps to a real index but has no contours.
func (f *Font) HasGlyph(r rune) bool {
	idx := f.ttf.Index(r)
	if idx == 0 {
		return false
	}
	var gb truetype.GlyphBuf
	scale := fixed.Int26_6(f.ttf.FUnitsPerEm())
	if err := gb.Load(f.ttf, scale, idx, font.HintingNone); err != nil {
		return false
	}
	return len(gb.Ends) > 0
}

// Glyph tessellates r. Characters without contours, such as spaces, and
// glyphs sdfx cannot outline report ok=false.
func (f *Font) Glyph(r rune, depth float64, quality int) ([]mesh.Triangle, bool) {
	key := glyphKey{r, depth, quality}
	f.mu.Lock()
	faces, cached := f.glyphs[key]
	f.mu.Unlock()
	if cached {
		return faces, faces != nil
	}

	faces = f.tessellate(r, depth, quality)
	f.mu.Lock()
	f.glyphs[key] = faces
	f.mu.Unlock()
	return faces, faces != nil
}

func (f *Font) tessellate(r rune, depth float64, quality int) []mesh.Triangle {
	if !f.HasGlyph(r) {
		return nil
	}
	outline, err := sdf.Text2D(f.ttf, sdf.NewText(string(r)), 1)
	if err != nil || outline == nil {
		return nil
	}
	solid := sdf.Extrude3D(outline, depth)

	tris := render.ToTriangles(solid, render.NewMarchingCubesUniform(quality))
	if len(tris) == 0 {
		return nil
	}
	faces := make([]mesh.Triangle, len(tris))
	for i, t := range tris {
		for j := range 3 {
			faces[i][j] = vec3.T{t[j].X, t[j].Y, t[j].Z}
		}
	}
	return faces
}

var _ text.Font = (*Font)(nil)
