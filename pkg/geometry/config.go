// Package geometry defines the immutable parameter set of the trophy model.
//
// All brick, plinth and text math reads its dimensions from a [Config]; no
// component carries hidden defaults of its own. [Default] returns the
// canonical 52-week trophy, and [LoadFile] overlays a TOML file on top of it:
//
//	# trophy.toml
//	max_brick_height = 15.0
//	bottom_margin    = 4.0
//
// Units are arbitrary model units; one brick footprint is 1 x 1.
package geometry

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/gittrophy/pkg/errors"
)

// Default dimensions of the canonical trophy.
const (
	DefaultTopLength      = 52.0
	DefaultTopWidth       = 7.0
	DefaultPlinthHeight   = 2.0
	DefaultTopMargin      = 1.0
	DefaultBottomMargin   = 3.0
	DefaultMaxBrickHeight = 10.0
	DefaultTextDepth      = 0.2
	DefaultTextHeight     = 1.0
	DefaultGlyphQuality   = 64
)

// Config is the geometry of one trophy. Values are copied, never shared, so a
// Config passed into a build cannot change underneath it.
type Config struct {
	TopLength      float64 `toml:"top_length" json:"top_length"`
	TopWidth       float64 `toml:"top_width" json:"top_width"`
	PlinthHeight   float64 `toml:"plinth_height" json:"plinth_height"`
	TopMargin      float64 `toml:"top_margin" json:"top_margin"`
	BottomMargin   float64 `toml:"bottom_margin" json:"bottom_margin"`
	MaxBrickHeight float64 `toml:"max_brick_height" json:"max_brick_height"`
	TextDepth      float64 `toml:"text_depth" json:"text_depth"`
	TextHeight     float64 `toml:"text_height" json:"text_height"`

	// GlyphQuality is the marching-cubes resolution used when a font
	// tessellates a glyph (cells along the longest glyph axis).
	GlyphQuality int `toml:"glyph_quality" json:"glyph_quality"`
}

// Default returns the canonical trophy geometry.
func Default() Config {
	return Config{
		TopLength:      DefaultTopLength,
		TopWidth:       DefaultTopWidth,
		PlinthHeight:   DefaultPlinthHeight,
		TopMargin:      DefaultTopMargin,
		BottomMargin:   DefaultBottomMargin,
		MaxBrickHeight: DefaultMaxBrickHeight,
		TextDepth:      DefaultTextDepth,
		TextHeight:     DefaultTextHeight,
		GlyphQuality:   DefaultGlyphQuality,
	}
}

// Validate checks that every dimension is finite and positive and that the
// bottom margin exceeds the top margin, which gives the plinth its outward
// slope.
func (c Config) Validate() error {
	dims := []struct {
		name  string
		value float64
	}{
		{"top_length", c.TopLength},
		{"top_width", c.TopWidth},
		{"plinth_height", c.PlinthHeight},
		{"top_margin", c.TopMargin},
		{"bottom_margin", c.BottomMargin},
		{"max_brick_height", c.MaxBrickHeight},
		{"text_depth", c.TextDepth},
		{"text_height", c.TextHeight},
	}
	for _, d := range dims {
		if math.IsNaN(d.value) || math.IsInf(d.value, 0) {
			return errors.New(errors.ErrCodeConfig, "%s must be finite, got %v", d.name, d.value)
		}
		if d.value < 0 || (d.value == 0 && d.name != "top_margin") {
			return errors.New(errors.ErrCodeConfig, "%s must be positive, got %v", d.name, d.value)
		}
	}
	if c.BottomMargin <= c.TopMargin {
		return errors.New(errors.ErrCodeConfig,
			"bottom_margin (%v) must exceed top_margin (%v)", c.BottomMargin, c.TopMargin)
	}
	if c.GlyphQuality < 8 {
		return errors.New(errors.ErrCodeConfig, "glyph_quality must be at least 8, got %d", c.GlyphQuality)
	}
	return nil
}

// BottomLength is the plinth length at its base.
func (c Config) BottomLength() float64 { return c.TopLength + c.BottomMargin }

// BottomWidth is the plinth width at its base.
func (c Config) BottomWidth() float64 { return c.TopWidth + c.BottomMargin }

// PlinthTopLength is the plinth length at its top face.
func (c Config) PlinthTopLength() float64 { return c.TopLength + c.TopMargin }

// PlinthTopWidth is the plinth width at its top face.
func (c Config) PlinthTopWidth() float64 { return c.TopWidth + c.TopMargin }

// WallRun is the horizontal inset of the sloped wall from bottom to top.
func (c Config) WallRun() float64 { return (c.BottomMargin - c.TopMargin) / 2 }

// WallAngle is the inclination of the plinth side wall,
// atan2(plinth_height, wall_run).
func (c Config) WallAngle() float64 { return math.Atan2(c.PlinthHeight, c.WallRun()) }

// Decode overlays TOML data on top of base and validates the result.
// Unknown keys are rejected so a typo does not silently fall back to a default.
func Decode(data []byte, base Config) (Config, error) {
	cfg := base
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeConfig, err, "parse geometry")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeConfig, "unknown geometry keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile reads a TOML geometry file over the defaults.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeConfig, err, "read geometry %s", path)
	}
	cfg, err := Decode(data, Default())
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
