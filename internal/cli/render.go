package cli

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	apperr "github.com/martialmarel/linkrank/pkg/errors"
	"github.com/martialmarel/linkrank/pkg/httputil"
	"github.com/martialmarel/linkrank/pkg/pipeline"
	"github.com/martialmarel/linkrank/pkg/render/nodelink"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string // output file path; "-" writes to stdout
	format  string // dot, svg or png; inferred from output when empty
	scores  bool   // rank first and size nodes by score
	top     int    // highlight the k highest-ranked nodes
	rankDir string // Graphviz rankdir
	noCache bool
}

// renderCommand creates the render command for generating diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{scores: true, rankDir: "LR"}

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a graph as a node-link diagram",
		Long: `Render draws the graph with Graphviz. By default the graph is ranked first and
each node is labelled with its score, with heavier borders for higher scores.

The output format is taken from --format, or else from the extension of
--output (.dot, .gv, .svg, .png). Without --output the diagram is written next
to the input file as SVG.`,
		Example: `  linkrank render sites.json
  linkrank render sites.json -o sites.png --top 3
  linkrank render sites.json -f dot -o - | dot -Tpdf > sites.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (\"-\" for stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: dot, svg, png")
	cmd.Flags().BoolVar(&opts.scores, "scores", opts.scores, "label and size nodes by PageRank score")
	cmd.Flags().IntVarP(&opts.top, "top", "k", 0, "highlight the k highest-ranked nodes")
	cmd.Flags().StringVar(&opts.rankDir, "rankdir", opts.rankDir, "layout direction: LR, TB, RL, BT")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable result caching")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts renderOpts) error {
	format, output, err := resolveRenderTarget(input, opts.output, opts.format)
	if err != nil {
		return err
	}
	if err := nodelink.ValidateRankDir(opts.rankDir); err != nil {
		return err
	}

	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	n, err := runner.Load(ctx, input)
	if err != nil {
		return err
	}

	var scores []float64
	if opts.scores {
		rankOpts, err := c.Config.rankOptions()
		if err != nil {
			return err
		}
		res, err := runner.Rank(ctx, n, rankOpts)
		if err != nil {
			return err
		}
		scores = res.Scores
	}

	spin := newSpinner(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Rendering %s...", format))
	spin.Start()
	data, err := runner.Render(ctx, n, scores, format, nodelink.Options{
		Top:        opts.top,
		RankDir:    opts.rankDir,
		HideScores: !opts.scores,
	})
	spin.Stop()
	if err != nil {
		return err
	}
	logger.Debug("generated diagram", "format", format, "bytes", len(data))

	if output == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return apperr.Wrap(apperr.ErrCodeInvalidPath, err, "write %s", output)
	}

	w := cmd.OutOrStdout()
	printSuccess(w, "Rendered %d nodes", n.NodeCount())
	printFile(w, output)
	return nil
}

// remoteBase returns the last path element of a URL, or "graph" when the
// path is empty. The diagram is then written to the working directory.
func remoteBase(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "graph"
	}
	switch base := path.Base(u.Path); base {
	case ".", "/":
		return "graph"
	default:
		return base
	}
}

// resolveRenderTarget settles the format and the output path. An explicit
// format wins over the output extension; a missing output is derived from
// the input path, or from the last element of a URL path.
func resolveRenderTarget(input, output, format string) (string, string, error) {
	if format == "" && output != "" && output != "-" {
		format = formatFromExt(output)
	}
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		return "", "", apperr.Wrap(apperr.ErrCodeInvalidInput, err, "render")
	}

	if output == "" {
		base := input
		if httputil.IsURL(input) {
			base = remoteBase(input)
		}
		output = strings.TrimSuffix(base, filepath.Ext(base)) + "." + format
	}
	if output != "-" {
		if err := apperr.ValidateOutputPath(output); err != nil {
			return "", "", err
		}
	}
	return format, output, nil
}

// formatFromExt maps a file extension to a diagram format, or "" when the
// extension is unknown.
func formatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dot", ".gv":
		return pipeline.FormatDOT
	case ".svg":
		return pipeline.FormatSVG
	case ".png":
		return pipeline.FormatPNG
	}
	return ""
}
