package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tanzeel291994/HGT-BioGuard/pkg/diagram"
)

// diagramCommand creates the diagram command with render/report/list
// subcommands.
func (c *CLI) diagramCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diagram",
		Short: "Render the system's architecture diagrams",
		Long: `Diagram renders the pipeline's architecture figures (system overview,
data pipeline, graph structure, model architecture, training workflow)
from their built-in Graphviz descriptions. Rendered figures are cached
and reused until they expire.

Examples:
  bioguard diagram list
  bioguard diagram render --format svg --out-dir figures/
  bioguard diagram render --figure pipeline --format dot
  bioguard diagram report -o architecture.pdf`,
	}

	cmd.AddCommand(c.diagramRenderCommand())
	cmd.AddCommand(c.diagramReportCommand())
	cmd.AddCommand(c.diagramListCommand())

	return cmd
}

// newDiagramRenderer builds a figure renderer backed by the configured
// cache.
func (c *CLI) newDiagramRenderer(cmd *cobra.Command, noCache, refresh bool) (*diagram.Renderer, error) {
	store, err := c.newCache(cmd.Context(), noCache)
	if err != nil {
		return nil, err
	}
	r := diagram.NewRenderer(store, nil)
	r.Refresh = refresh
	return r, nil
}

// diagramRenderCommand creates the "diagram render" subcommand.
func (c *CLI) diagramRenderCommand() *cobra.Command {
	var (
		figure  string
		format  string
		outDir  string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render diagrams as SVG, PNG, or DOT",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f := diagram.Format(format)

			renderer, err := c.newDiagramRenderer(cmd, noCache, refresh)
			if err != nil {
				return err
			}
			defer renderer.Cache.Close()

			if figure != "" {
				fig, err := diagram.ByName(figure)
				if err != nil {
					return fmt.Errorf("%w (available: %s)", err, strings.Join(diagram.FigureNames(), ", "))
				}
				data, err := renderer.Render(ctx, fig, f)
				if err != nil {
					return err
				}
				_, err = os.Stdout.Write(data)
				return err
			}

			prog := newProgress(c.Logger)
			paths, err := renderer.RenderAll(ctx, outDir, f)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Rendered %d figures", len(paths)))
			for _, path := range paths {
				printFile(path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&figure, "figure", "", "render a single figure to stdout ("+strings.Join(diagram.FigureNames(), "|")+")")
	cmd.Flags().StringVar(&format, "format", string(diagram.FormatSVG), "output format (svg|png|dot)")
	cmd.Flags().StringVar(&outDir, "out-dir", "figures", "output directory")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable figure caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "re-render even when cached")

	return cmd
}

// diagramReportCommand creates the "diagram report" subcommand.
func (c *CLI) diagramReportCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render all diagrams into a single PDF report",
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := c.newDiagramRenderer(cmd, noCache, refresh)
			if err != nil {
				return err
			}
			defer renderer.Cache.Close()

			prog := newProgress(c.Logger)
			if err := renderer.Report(cmd.Context(), output); err != nil {
				return err
			}
			prog.done("Rendered architecture report")
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "architecture.pdf", "output file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable figure caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "re-render even when cached")

	return cmd
}

// diagramListCommand creates the "diagram list" subcommand.
func (c *CLI) diagramListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available figures",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, f := range diagram.Figures() {
				printKeyValue(f.Name, f.Title)
			}
			return nil
		},
	}
}
