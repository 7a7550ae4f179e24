package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gittrophy/pkg/cache"
	"github.com/matzehuels/gittrophy/pkg/export"
	"github.com/matzehuels/gittrophy/pkg/history"
	"github.com/matzehuels/gittrophy/pkg/history/gitrepo"
	"github.com/matzehuels/gittrophy/pkg/mesh"
	"github.com/matzehuels/gittrophy/pkg/observability"
	"github.com/matzehuels/gittrophy/pkg/text"
	"github.com/matzehuels/gittrophy/pkg/text/sdffont"
	"github.com/matzehuels/gittrophy/pkg/trophy"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can use the same Runner with different options; each build
// owns its own mesh.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// OpenRepos and LoadFont default to the git and sdfx backends.
	OpenRepos func(paths []string) ([]history.Repository, error)
	LoadFont  func(path string) (text.Font, error)
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:     c,
		Keyer:     keyer,
		Logger:    logger,
		OpenRepos: gitrepo.OpenAll,
		LoadFont:  loadSDFFont,
	}
}

func loadSDFFont(path string) (text.Font, error) {
	return sdffont.Load(path)
}

// Execute runs aggregate → build → text → export.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	result := &Result{}

	if err := r.prepareFont(&opts); err != nil {
		return nil, err
	}

	// Stage 1: Aggregate
	start := time.Now()
	hist, summary, err := r.Aggregate(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Histogram = hist
	result.Stats.AggregateTime = time.Since(start)
	result.Stats.Repos = summary.Repos
	result.Stats.Commits = summary.Commits
	result.Stats.CacheHits = summary.CacheHits
	result.Stats.ActiveDays = hist.NonZero()

	r.Logger.Info("aggregated history",
		"repos", summary.Repos,
		"commits", summary.Commits,
		"days", result.Stats.ActiveDays,
		"duration", result.Stats.AggregateTime)

	if opts.HeightmapOut != "" {
		if err := history.WriteFile(opts.HeightmapOut, hist, opts.YearFilter()); err != nil {
			return nil, err
		}
		r.Logger.Debug("wrote heightmap", "path", opts.HeightmapOut)
	}

	// Stage 2 and 3: Build
	m, built, placed, err := r.BuildMesh(ctx, hist, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.MaxCommits = built.MaxCommits
	result.Stats.Bricks = built.Bricks
	result.Stats.Glyphs = placed.Glyphs
	result.Stats.MissingGlyphs = placed.Missing
	result.Stats.Faces = m.Len()
	result.Stats.BuildTime = built.Duration
	result.Stats.TextTime = placed.Duration

	r.Logger.Info("built trophy",
		"bricks", built.Bricks,
		"glyphs", placed.Glyphs,
		"faces", m.Len(),
		"duration", built.Duration+placed.Duration)

	// Stage 4: Export
	start = time.Now()
	files, err := r.Export(ctx, m, opts)
	if err != nil {
		return nil, err
	}
	result.Files = files
	result.Stats.ExportTime = time.Since(start)

	r.Logger.Info("exported mesh",
		"files", files,
		"duration", result.Stats.ExportTime)

	return result, nil
}

// prepareFont loads the font before any history is walked so an unreadable
// font fails fast.
func (r *Runner) prepareFont(opts *Options) error {
	if opts.Text == "" || opts.FontFace != nil {
		return nil
	}
	f, err := r.LoadFont(opts.FontPath)
	if err != nil {
		return err
	}
	opts.FontFace = f
	return nil
}

// Aggregate produces the histogram, either by walking repositories or by
// reading a heightmap file.
func (r *Runner) Aggregate(ctx context.Context, opts Options) (history.Histogram, history.Summary, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return history.Histogram{}, history.Summary{}, err
	}

	if opts.Heightmap != "" {
		start := time.Now()
		h, _, err := history.ReadFile(opts.Heightmap)
		if err != nil {
			return history.Histogram{}, history.Summary{}, err
		}
		return h, history.Summary{Duration: time.Since(start)}, nil
	}

	repos, err := r.OpenRepos(opts.Repos)
	if err != nil {
		return history.Histogram{}, history.Summary{}, err
	}
	for _, p := range opts.Repos {
		r.Logger.Debug("opened repository", "path", p)
	}

	agg := history.NewAggregator(r.Cache, r.Keyer, r.Logger)
	return agg.Aggregate(ctx, repos, opts.Filter(), opts.ClipCeiling())
}

// BuildResult is a trophy build with its duration.
type BuildResult struct {
	trophy.Result
	Duration time.Duration
}

// TextResult is a text placement with its duration.
type TextResult struct {
	text.Result
	Duration time.Duration
}

// BuildMesh creates the trophy mesh for hist, including side text when set.
func (r *Runner) BuildMesh(ctx context.Context, hist history.Histogram, opts Options) (*mesh.Mesh, BuildResult, TextResult, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForBuild(); err != nil {
		return nil, BuildResult{}, TextResult{}, err
	}
	if err := r.prepareFont(&opts); err != nil {
		return nil, BuildResult{}, TextResult{}, err
	}

	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, hist.NonZero())

	start := time.Now()
	m := mesh.New()
	built, err := trophy.Build(hist, *opts.Geometry, m)
	br := BuildResult{Result: built, Duration: time.Since(start)}
	if err != nil {
		hooks.OnBuildComplete(ctx, m.Len(), br.Duration, err)
		return nil, br, TextResult{}, err
	}

	var tr TextResult
	if opts.Text != "" {
		start = time.Now()
		placed, err := text.Place(opts.Text, opts.FontFace, *opts.Geometry, m)
		tr = TextResult{Result: placed, Duration: time.Since(start)}
		if err != nil {
			hooks.OnBuildComplete(ctx, m.Len(), br.Duration+tr.Duration, err)
			return nil, br, tr, fmt.Errorf("place text: %w", err)
		}
		if placed.Missing > 0 {
			r.Logger.Debug("skipped characters without glyph", "missing", placed.Missing)
		}
	}
	hooks.OnBuildComplete(ctx, m.Len(), br.Duration+tr.Duration, nil)
	return m, br, tr, nil
}

// Export writes m to the PLY and STL files of the output stem.
func (r *Runner) Export(ctx context.Context, m *mesh.Mesh, opts Options) ([]string, error) {
	if err := opts.ValidateForBuild(); err != nil {
		return nil, err
	}
	formats := make([]string, len(export.Formats))
	for i, f := range export.Formats {
		formats[i] = string(f)
	}

	hooks := observability.Pipeline()
	hooks.OnExportStart(ctx, formats)
	start := time.Now()
	files, err := export.WriteFiles(m, opts.Output)
	hooks.OnExportComplete(ctx, formats, time.Since(start), err)
	return files, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
