package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/martialmarel/linkrank/pkg/pipeline"
)

// centralityCommand creates the centrality command.
func (c *CLI) centralityCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "centrality <file>",
		Short: "Compute degree and closeness centrality",
		Long: `Centrality treats every link as an undirected edge and reports, for each node,
its degree, the inverse of its degree, its closeness centrality and its
betweenness centrality.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				format = c.Config.Format
			}
			if err := validateOutput(format); err != nil {
				return err
			}

			ctx := cmd.Context()
			runner := pipeline.NewRunner(nil, c.Logger)
			prog := newProgress(loggerFromContext(ctx))

			n, err := runner.Load(ctx, args[0])
			if err != nil {
				return err
			}
			res, err := runner.Centrality(ctx, n)
			if err != nil {
				return err
			}
			prog.done("Computed centrality", "nodes", len(res.Names))

			return writeCentrality(cmd.OutOrStdout(), res, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", outputTable, "output format: table, json, csv")
	return cmd
}

type centralityRow struct {
	Name          string  `json:"name"`
	Degree        int     `json:"degree"`
	InverseDegree float64 `json:"inverse_degree"`
	Closeness     float64 `json:"closeness"`
	Betweenness   float64 `json:"betweenness"`
}

// writeCentrality prints res in the given format.
func writeCentrality(w io.Writer, res *pipeline.CentralityResult, format string) error {
	switch format {
	case outputJSON:
		rows := make([]centralityRow, len(res.Names))
		for i, name := range res.Names {
			rows[i] = centralityRow{name, res.Degree[i], res.InverseDegree[i], res.Closeness[i], res.Betweenness[i]}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)

	case outputCSV:
		cw := csv.NewWriter(w)
		_ = cw.Write([]string{"name", "degree", "inverse_degree", "closeness", "betweenness"})
		for i, name := range res.Names {
			_ = cw.Write([]string{
				name,
				strconv.Itoa(res.Degree[i]),
				strconv.FormatFloat(res.InverseDegree[i], 'g', -1, 64),
				strconv.FormatFloat(res.Closeness[i], 'g', -1, 64),
				strconv.FormatFloat(res.Betweenness[i], 'g', -1, 64),
			})
		}
		cw.Flush()
		return cw.Error()
	}

	fmt.Fprintln(w, StyleTitle.Render("Centrality"))
	fmt.Fprintln(w, centralityTable(res))
	return nil
}
