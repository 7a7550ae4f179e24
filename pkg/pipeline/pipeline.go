// Package pipeline runs the complete trophy build.
//
// The pipeline consists of four stages:
//
//  1. Aggregate: walk repositories (or read a heightmap) into a histogram
//  2. Build: plinth and bricks from the histogram
//  3. Text: optional glyphs on the front wall of the plinth
//  4. Export: PLY and STL files next to each other
//
// Every stage aborts the run on error. Nothing is built before the options
// are valid and the histogram is complete.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Repos: []string{"."},
//	    Year:  "2024",
//	    Clip:  "20",
//	})
//	fmt.Println(result.Files) // [trophy.ply trophy.stl]
package pipeline

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gittrophy/pkg/errors"
	"github.com/matzehuels/gittrophy/pkg/geometry"
	"github.com/matzehuels/gittrophy/pkg/history"
	"github.com/matzehuels/gittrophy/pkg/text"
)

// DefaultOutput is the output stem when none is given.
const DefaultOutput = "trophy"

// Options contains all configuration for one trophy build.
type Options struct {
	// Input. Exactly one of Repos and Heightmap is set.
	Repos     []string `json:"repos,omitempty"`
	Heightmap string   `json:"heightmap,omitempty"` // histogram JSON to build from

	// Aggregation. Year and Clip are raw command-line values.
	Year  string   `json:"year,omitempty"`
	Names []string `json:"names,omitempty"`
	Clip  string   `json:"clip,omitempty"`

	// Side text. Text requires FontPath (or FontFace).
	FontPath string `json:"font,omitempty"`
	Text     string `json:"text,omitempty"`

	// Output
	Output       string           `json:"output,omitempty"`
	HeightmapOut string           `json:"heightmap_out,omitempty"` // also write the histogram here
	GeometryFile string           `json:"geometry_file,omitempty"` // TOML overrides
	Geometry     *geometry.Config `json:"geometry,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger `json:"-"`
	FontFace text.Font   `json:"-"` // preloaded font, takes precedence over FontPath

	year      *int
	clip      *int
	validated bool
}

// Result contains the outputs of a run.
type Result struct {
	Histogram history.Histogram
	Files     []string // written paths, PLY first
	Stats     Stats
}

// Stats contains execution statistics.
// Repository counters stay zero when the histogram came from a heightmap file.
type Stats struct {
	Repos         int // repositories walked or served from cache
	Commits       int // commits seen across all repositories
	CacheHits     int // repositories whose histogram came from the cache
	ActiveDays    int // nonzero days of the combined histogram
	MaxCommits    int // brick height divisor
	Bricks        int
	Glyphs        int
	MissingGlyphs int // characters skipped for lack of a glyph
	Faces         int // total faces written

	AggregateTime time.Duration
	BuildTime     time.Duration
	TextTime      time.Duration
	ExportTime    time.Duration
}

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.validateInput(); err != nil {
		return err
	}
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

func (o *Options) validateInput() error {
	switch {
	case len(o.Repos) == 0 && o.Heightmap == "":
		return errors.New(errors.ErrCodeConfig, "at least one repository is required")
	case len(o.Repos) > 0 && o.Heightmap != "":
		return errors.New(errors.ErrCodeConfig, "repositories and a heightmap are mutually exclusive")
	}
	for i, r := range o.Repos {
		if strings.TrimSpace(r) == "" {
			return errors.New(errors.ErrCodeConfig, "repository path at position %d is empty", i+1)
		}
	}
	if err := errors.ValidateCommitterNames(o.Names); err != nil {
		return err
	}

	year, err := parseYear(o.Year)
	if err != nil {
		return err
	}
	clip, err := parseClip(o.Clip)
	if err != nil {
		return err
	}
	o.year, o.clip = year, clip
	return nil
}

// ValidateForBuild checks the geometry, text and output options.
func (o *Options) ValidateForBuild() error {
	if o.Text != "" {
		if o.FontPath == "" && o.FontFace == nil {
			return errors.New(errors.ErrCodeConfig, "--text requires --font")
		}
		if err := errors.ValidateText(o.Text); err != nil {
			return err
		}
	}

	if o.Output == "" {
		o.Output = DefaultOutput
	}
	if err := errors.ValidateOutputStem(o.Output); err != nil {
		return err
	}

	if o.Geometry == nil {
		cfg := geometry.Default()
		if o.GeometryFile != "" {
			loaded, err := geometry.LoadFile(o.GeometryFile)
			if err != nil {
				return err
			}
			cfg = loaded
		}
		o.Geometry = &cfg
	}
	if err := o.Geometry.Validate(); err != nil {
		return err
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// Filter returns the aggregation filter. Valid after ValidateAndSetDefaults.
func (o *Options) Filter() history.Filter {
	return history.Filter{Year: o.year, Names: o.Names}
}

// ClipCeiling returns the parsed clip value, or nil when unset.
func (o *Options) ClipCeiling() *int { return o.clip }

// YearFilter returns the parsed year, or nil when unset.
func (o *Options) YearFilter() *int { return o.year }

// parseYear parses the --year argument. An empty string means no filter.
// Years outside 1..9999 have no calendar date and are rejected with CONFIG.
func parseYear(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	y, err := strconv.Atoi(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfig, err, "unparsable year argument %q", s)
	}
	if y < 1 || y > 9999 {
		return nil, errors.New(errors.ErrCodeConfig, "year %d is outside 1..9999", y)
	}
	return &y, nil
}

// parseClip parses the --clip argument. Zero is allowed and flattens every
// repository to an empty histogram.
func parseClip(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	c, err := strconv.Atoi(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfig, err, "unparsable clip argument %q", s)
	}
	if c < 0 {
		return nil, errors.New(errors.ErrCodeConfig, "clip must not be negative, got %d", c)
	}
	return &c, nil
}
