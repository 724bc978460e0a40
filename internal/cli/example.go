package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/martialmarel/linkrank/pkg/graph"
	"github.com/martialmarel/linkrank/pkg/pipeline"
	"github.com/martialmarel/linkrank/pkg/rank"
)

const pagerankExplanation = "PageRank is a link analysis algorithm used by Google that uses the " +
	"hyperlink structure of the web to determine a quality ranking for each web page. " +
	"It works by counting the number and quality of links to a page to determine a " +
	"rough estimate of how important the website is."

// sportsSites is a five-site graph of sports websites. ESPN links to NFL
// and NBA, NBA links to ESPN and UFC, and every other site links back to
// ESPN.
func sportsSites() graph.Named {
	return graph.NewNamed(
		graph.Graph{{1, 2}, {0}, {0, 3}, {0}, {0, 1}},
		[]string{"ESPN", "NFL", "NBA", "UFC", "MLB"},
	)
}

// exampleCommand ranks the built-in sports graph.
func (c *CLI) exampleCommand() *cobra.Command {
	var showTable bool

	cmd := &cobra.Command{
		Use:   "example",
		Short: "Rank a built-in graph of five sports websites",
		Long: `Example ranks a small built-in graph of sports websites with a damping
factor of 0.85 and 100 iterations, then prints a short description of PageRank.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := pipeline.NewRunner(nil, c.Logger)
			res, err := runner.Rank(cmd.Context(), sportsSites(), rank.DefaultOptions())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for i, name := range res.Names {
				fmt.Fprintf(w, "The PageRank of %s is %v\n", name, res.Scores[i])
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, wrap(pagerankExplanation))

			if showTable {
				fmt.Fprintln(w)
				fmt.Fprintln(w, rankTable(res.Ranked()))
				printStats(w, res.Stats, res.Iterations)
				printNextStep(w, "Rank your own graph", appName+" rank sites.json")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showTable, "table", false, "also print the ranking as a table")
	return cmd
}
