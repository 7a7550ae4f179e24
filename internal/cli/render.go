package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/gittrophy/pkg/pipeline"
)

// renderCommand builds a trophy from a heightmap written with --heightmap.
func (c *CLI) renderCommand() *cobra.Command {
	var out outputFlags

	cmd := &cobra.Command{
		Use:   "render <heightmap.json>",
		Short: "Build a trophy from a saved heightmap",
		Long: `Render builds the trophy mesh from a heightmap JSON file instead of walking
repository history. The file holds the 365 daily commit counts:

  {"year": 2024, "commits": [0, 3, 1, ...]}

Use it to iterate on text, font and geometry without re-reading history.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{Heightmap: args[0]}
			out.apply(c, &opts)
			return c.runPipeline(cmd.Context(), opts, true)
		},
	}

	out.register(cmd)
	return cmd
}
