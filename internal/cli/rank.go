package cli

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/martialmarel/linkrank/pkg/pipeline"
	"github.com/martialmarel/linkrank/pkg/rank"
)

// rankFlags holds the command-line flags shared by rank and watch. A flag
// only overrides the config when it was set explicitly.
type rankFlags struct {
	damping    float64
	iterations int
	workers    int
	dangling   string
	tolerance  float64
	top        int
	format     string
}

// register adds the rank flags to cmd with the built-in defaults.
func (f *rankFlags) register(cmd *cobra.Command) {
	d := defaultConfig()
	cmd.Flags().Float64VarP(&f.damping, "damping", "d", d.Damping, "damping factor in [0, 1]")
	cmd.Flags().IntVarP(&f.iterations, "iterations", "n", d.Iterations, "maximum number of iterations")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", d.Workers, "parallel workers (0 or 1 runs serially)")
	cmd.Flags().StringVar(&f.dangling, "dangling", d.Dangling, "dangling node policy: drop, uniform")
	cmd.Flags().Float64Var(&f.tolerance, "tolerance", d.Tolerance, "stop early once the L1 change falls below this value (0 disables)")
	cmd.Flags().IntVarP(&f.top, "top", "k", d.Top, "show only the k highest-ranked nodes (0 shows all)")
	cmd.Flags().StringVarP(&f.format, "format", "f", d.Format, "output format: table, json, csv")
}

// resolve merges explicitly set flags over cfg.
func (f *rankFlags) resolve(cmd *cobra.Command, cfg Config) (Config, error) {
	flags := cmd.Flags()
	if flags.Changed("damping") {
		cfg.Damping = f.damping
	}
	if flags.Changed("iterations") {
		cfg.Iterations = f.iterations
	}
	if flags.Changed("workers") {
		cfg.Workers = f.workers
	}
	if flags.Changed("dangling") {
		cfg.Dangling = f.dangling
	}
	if flags.Changed("tolerance") {
		cfg.Tolerance = f.tolerance
	}
	if flags.Changed("top") {
		cfg.Top = f.top
	}
	if flags.Changed("format") {
		cfg.Format = f.format
	}
	if err := validateOutput(cfg.Format); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// rankCommand creates the rank command.
func (c *CLI) rankCommand() *cobra.Command {
	var (
		flags       rankFlags
		noCache     bool
		interactive bool
		watch       bool
		explain     bool
	)

	cmd := &cobra.Command{
		Use:   "rank <file>",
		Short: "Compute PageRank scores for a graph file",
		Long: `Rank computes the PageRank score of every node in a JSON or TOML graph file.

Scores are propagated for a fixed number of iterations with the given damping
factor. Mass held by nodes without outgoing links is dropped unless
--dangling=uniform is set, in which case it is spread over all nodes.`,
		Example: `  linkrank rank sites.json
  linkrank rank sites.toml --damping 0.9 --iterations 50 --top 10
  linkrank rank sites.json --format json --workers 8
  linkrank rank sites.json --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd, c.Config)
			if err != nil {
				return err
			}
			opts, err := cfg.rankOptions()
			if err != nil {
				return err
			}

			if watch {
				return c.watchRank(cmd.Context(), cmd.OutOrStdout(), args[0], opts, cfg)
			}

			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			res, err := rankFile(cmd.Context(), runner, args[0], opts)
			if err != nil {
				return err
			}

			if interactive {
				return browseRanking(cmd.Context(), res)
			}

			w := cmd.OutOrStdout()
			if err := writeRanking(w, res, cfg.Top, cfg.Format); err != nil {
				return err
			}
			if explain && cfg.Format == outputTable {
				fmt.Fprintln(w)
				fmt.Fprintln(w, wrap(pagerankExplanation))
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable result caching")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse the ranking in a terminal UI")
	cmd.Flags().BoolVar(&watch, "watch", false, "re-rank whenever the file changes")
	cmd.Flags().BoolVar(&explain, "explain", false, "print a short description of PageRank")
	cmd.MarkFlagsMutuallyExclusive("interactive", "watch")

	return cmd
}

// rankFile loads path and ranks it, logging a completion line.
func rankFile(ctx context.Context, runner *pipeline.Runner, path string, opts rank.Options) (*pipeline.Result, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	n, err := runner.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	res, err := runner.Rank(ctx, n, opts)
	if err != nil {
		return nil, err
	}

	prog.done("Ranked "+path,
		"nodes", res.Stats.NodeCount,
		"iterations", res.Iterations,
		"cached", res.Stats.CacheHit)
	return res, nil
}

// rankingDoc is the JSON form of a ranking.
type rankingDoc struct {
	RunID      string           `json:"run_id"`
	Nodes      int              `json:"nodes"`
	Edges      int              `json:"edges"`
	Iterations int              `json:"iterations"`
	Delta      float64          `json:"delta"`
	Sum        float64          `json:"sum"`
	Scores     []float64        `json:"scores"`
	Ranking    []pipeline.Entry `json:"ranking"`
}

// writeRanking prints res in the given format, limited to the top entries
// when top > 0.
func writeRanking(w io.Writer, res *pipeline.Result, top int, format string) error {
	entries := res.Ranked()
	if top > 0 && top < len(entries) {
		entries = entries[:top]
	}

	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rankingDoc{
			RunID:      res.RunID.String(),
			Nodes:      res.Stats.NodeCount,
			Edges:      res.Stats.EdgeCount,
			Iterations: res.Iterations,
			Delta:      res.Delta,
			Sum:        res.Sum(),
			Scores:     res.Scores,
			Ranking:    entries,
		})

	case outputCSV:
		cw := csv.NewWriter(w)
		_ = cw.Write([]string{"position", "index", "name", "score"})
		for _, e := range entries {
			_ = cw.Write([]string{
				strconv.Itoa(e.Position),
				strconv.Itoa(e.Index),
				e.Name,
				strconv.FormatFloat(e.Score, 'g', -1, 64),
			})
		}
		cw.Flush()
		return cw.Error()
	}

	fmt.Fprintln(w, StyleTitle.Render("PageRank"))
	fmt.Fprintln(w, rankTable(entries))
	printStats(w, res.Stats, res.Iterations)
	printKeyValue(w, "sum", formatScore(res.Sum()))
	return nil
}
