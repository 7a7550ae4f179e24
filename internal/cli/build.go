package cli

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gittrophy/pkg/observability"
	"github.com/matzehuels/gittrophy/pkg/pipeline"
)

// outputFlags are shared by the build and render commands.
type outputFlags struct {
	font    string
	text    string
	output  string
	config  string
	noCache bool
}

func (f *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.font, "font", "", "TTF font for --text (default $GITTROPHY_FONT)")
	cmd.Flags().StringVar(&f.text, "text", "", "text to extrude onto the front of the plinth")
	cmd.Flags().StringVarP(&f.output, "output", "o", pipeline.DefaultOutput, "output stem, writes <stem>.ply and <stem>.stl")
	cmd.Flags().StringVar(&f.config, "config", "", "TOML file with geometry overrides")
}

func (f *outputFlags) apply(c *CLI, opts *pipeline.Options) {
	opts.FontPath = f.font
	if opts.FontPath == "" {
		opts.FontPath = c.Env.Font
	}
	opts.Text = f.text
	opts.Output = f.output
	opts.GeometryFile = f.config
}

// buildCommand creates the root command that builds a trophy from repositories.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		out       outputFlags
		year      string
		clip      string
		names     []string
		heightmap string
	)

	cmd := &cobra.Command{
		Use:   "gittrophy [repository...]",
		Short: "Turn git commit history into a 3D-printable trophy",
		Long: `Gittrophy counts commits per day of the year across one or more git
repositories and builds a trophy: a sloped plinth carrying one brick per day,
with brick heights proportional to activity. The model is written as binary
PLY and ASCII STL.

With several repositories the daily counts are summed. --clip limits each
repository's daily count before the sum, so a single noisy repository cannot
dominate the trophy.`,
		Example: `  gittrophy .
  gittrophy ~/src/api ~/src/web --year 2024 --names "Ada Lovelace" --clip 20
  gittrophy . --text "2024" --font FiraCode-Medium.ttf -o trophy-2024`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{
				Repos:        args,
				Year:         year,
				Clip:         clip,
				Names:        names,
				HeightmapOut: heightmap,
			}
			out.apply(c, &opts)
			return c.runPipeline(cmd.Context(), opts, out.noCache)
		},
	}

	out.register(cmd)
	cmd.Flags().StringVar(&year, "year", "", "only count commits of this calendar year")
	cmd.Flags().StringVar(&clip, "clip", "", "per-repository ceiling on commits per day")
	cmd.Flags().StringArrayVar(&names, "names", nil, "only count commits by this committer name, exact match (repeatable)")
	cmd.Flags().StringVar(&heightmap, "heightmap", "", "also write the day histogram as JSON to this path")
	cmd.Flags().BoolVar(&out.noCache, "no-cache", false, "walk every repository even if a cached histogram exists")

	return cmd
}

// runPipeline executes opts and prints the summary.
func (c *CLI) runPipeline(ctx context.Context, opts pipeline.Options, noCache bool) error {
	logger := loggerFromContext(ctx)
	runner, err := c.newRunner(noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	stop := func() {}
	if verbose(logger) {
		hooks := observability.NewLogHooks(logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
	} else {
		// The spinner owns the terminal line; only warnings get through.
		runner.Logger = newLogger(os.Stderr, log.WarnLevel)
		spinner := newSpinnerWithContext(ctx, "Starting...")
		observability.SetPipelineHooks(spinnerHooks{s: spinner})
		spinner.Start()
		stop = spinner.Stop
	}
	defer observability.Reset()

	result, err := runner.Execute(ctx, opts)
	stop()
	if err != nil {
		return err
	}

	printSuccess("Built trophy")
	printStats(result.Stats)
	for _, f := range result.Files {
		printFile(f)
	}
	if result.Stats.MissingGlyphs > 0 {
		printWarning("%s skipped, the font has no glyph for them", plural(result.Stats.MissingGlyphs, "character", "characters"))
	}
	if opts.HeightmapOut != "" {
		printFile(opts.HeightmapOut)
		printNextStep("Rebuild without walking history", "gittrophy render "+opts.HeightmapOut)
	}
	if verbose(logger) {
		prog.done("finished")
	}
	return nil
}
