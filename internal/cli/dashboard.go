package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tanzeel291994/HGT-BioGuard/pkg/dashboard"
	"github.com/tanzeel291994/HGT-BioGuard/pkg/openflights"
)

// dashboardOpts holds the command-line flags shared by the dashboard
// subcommands.
type dashboardOpts struct {
	airports     string
	flights      []string
	flightGlob   string
	focusCountry string
	title        string
	minFlights   int
	scale        string
	topRoutes    int
	refresh      bool
	noCache      bool
}

// dashboardCommand creates the dashboard command with serve/html/histogram
// subcommands.
func (c *CLI) dashboardCommand() *cobra.Command {
	opts := dashboardOpts{}

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Serve or export the flight-routes dashboard",
		Long: `Dashboard aggregates flight lists into per-route counts and renders
them as an interactive page: a world map of airport traffic, the route
network, and the busiest routes.

Examples:
  bioguard dashboard serve --airports airports.dat --flights jan.csv.gz
  bioguard dashboard html -o dashboard.html --min-flights 50
  bioguard dashboard histogram -o routes.png`,
	}

	cmd.PersistentFlags().StringVar(&opts.airports, "airports", "", "path to airports.dat")
	cmd.PersistentFlags().StringSliceVar(&opts.flights, "flights", nil, "flight-list CSV files (repeatable)")
	cmd.PersistentFlags().StringVar(&opts.flightGlob, "flight-glob", "", "glob for flight lists when --flights is not set")
	cmd.PersistentFlags().StringVar(&opts.focusCountry, "focus-country", "", "keep only cross-border routes touching this country")
	cmd.PersistentFlags().StringVar(&opts.title, "title", "", "page title")
	cmd.PersistentFlags().IntVar(&opts.minFlights, "min-flights", 0, "hide routes with fewer flights")
	cmd.PersistentFlags().StringVar(&opts.scale, "scale", "", "color scale ("+scalesList()+")")
	cmd.PersistentFlags().IntVar(&opts.topRoutes, "top", 0, "number of routes in the bar chart")
	cmd.PersistentFlags().BoolVar(&opts.refresh, "refresh", false, "bypass cache")
	cmd.PersistentFlags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	cmd.AddCommand(c.dashboardServeCommand(&opts))
	cmd.AddCommand(c.dashboardHTMLCommand(&opts))
	cmd.AddCommand(c.dashboardHistogramCommand(&opts))

	return cmd
}

// dashboardServeCommand creates the "dashboard serve" subcommand.
func (c *CLI) dashboardServeCommand(opts *dashboardOpts) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			routes, dashOpts, err := c.loadDashboard(ctx, opts)
			if err != nil {
				return err
			}

			srv, err := dashboard.NewServer(routes, dashOpts, c.Logger)
			if err != nil {
				return err
			}

			listen := addr
			if listen == "" {
				listen = c.config().Dashboard.Addr
			}
			if listen == "" {
				listen = ":8080"
			}
			printInfo("Serving dashboard on %s", listen)
			printDetail("%d routes loaded", len(routes))
			return srv.ListenAndServe(ctx, listen)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")
	return cmd
}

// dashboardHTMLCommand creates the "dashboard html" subcommand.
func (c *CLI) dashboardHTMLCommand(opts *dashboardOpts) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "html",
		Short: "Write the dashboard as a standalone HTML page",
		RunE: func(cmd *cobra.Command, args []string) error {
			routes, dashOpts, err := c.loadDashboard(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if output == "" {
				return dashboard.WritePage(routes, dashOpts, os.Stdout)
			}
			if err := dashboard.ExportHTML(routes, dashOpts, output); err != nil {
				return err
			}
			printSuccess("Wrote dashboard")
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}

// dashboardHistogramCommand creates the "dashboard histogram" subcommand.
func (c *CLI) dashboardHistogramCommand(opts *dashboardOpts) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "histogram",
		Short: "Write the route-traffic histogram as PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			routes, dashOpts, err := c.loadDashboard(cmd.Context(), opts)
			if err != nil {
				return err
			}
			png, err := dashboard.Histogram(openflights.FilterRoutes(routes, dashOpts.MinFlights))
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(output, png, 0o644); err != nil {
				return err
			}
			printSuccess("Wrote histogram")
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "routes_histogram.png", "output file")
	return cmd
}

// loadDashboard runs the load stage and resolves the display options.
func (c *CLI) loadDashboard(ctx context.Context, opts *dashboardOpts) ([]openflights.Route, dashboard.Options, error) {
	cfg := c.config()

	pipeOpts, err := c.pipelineOptions(&exportOpts{
		airports:     opts.airports,
		flights:      opts.flights,
		flightGlob:   opts.flightGlob,
		focusCountry: opts.focusCountry,
		refresh:      opts.refresh,
	})
	if err != nil {
		return nil, dashboard.Options{}, err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return nil, dashboard.Options{}, err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spin := newSpinner(ctx, "Aggregating routes...")
	spin.Start()
	routes, err := runner.LoadRoutes(ctx, pipeOpts)
	spin.Stop()
	if err != nil {
		return nil, dashboard.Options{}, err
	}
	prog.done(fmt.Sprintf("Aggregated %d routes", len(routes)))

	dashOpts := dashboard.Options{
		Title:      firstNonEmpty(opts.title, cfg.Dashboard.Title),
		MinFlights: opts.minFlights,
		TopRoutes:  opts.topRoutes,
	}
	if dashOpts.MinFlights == 0 {
		dashOpts.MinFlights = cfg.Dashboard.MinFlights
	}
	if dashOpts.TopRoutes == 0 {
		dashOpts.TopRoutes = cfg.Dashboard.TopRoutes
	}
	scale, err := dashboard.ParseScale(firstNonEmpty(opts.scale, cfg.Dashboard.Scale))
	if err != nil {
		return nil, dashboard.Options{}, err
	}
	dashOpts.Scale = scale

	return routes, dashOpts, nil
}

func scalesList() string {
	list := ""
	for i, s := range dashboard.Scales() {
		if i > 0 {
			list += "|"
		}
		list += s
	}
	return list
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
