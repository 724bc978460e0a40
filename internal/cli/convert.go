package cli

import (
	"github.com/spf13/cobra"

	graphio "github.com/martialmarel/linkrank/pkg/io"
	"github.com/martialmarel/linkrank/pkg/pipeline"
)

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert a graph between JSON and TOML",
		Long: `Convert reads a graph file (or URL) and writes it in the format implied by
the output extension. Adjacency-list documents are written back with names.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner := pipeline.NewRunner(nil, c.Logger)

			n, err := runner.Load(ctx, args[0])
			if err != nil {
				return err
			}
			if err := graphio.ExportFile(n, args[1]); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			printSuccess(w, "Converted %d nodes", n.NodeCount())
			printFile(w, args[1])
			return nil
		},
	}
}
