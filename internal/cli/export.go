package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tanzeel291994/HGT-BioGuard/pkg/archive"
	"github.com/tanzeel291994/HGT-BioGuard/pkg/export"
	"github.com/tanzeel291994/HGT-BioGuard/pkg/pipeline"
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	airports     string   // airports.dat path
	flights      []string // flight-list CSVs (plain or gzip)
	flightGlob   string   // glob used when no flight list is named
	focusCountry string   // keep only cross-border routes touching this country
	maxAirports  int      // airport sample cap (0 = no cap)
	maxLineages  int      // lineage sample cap (0 = no cap)
	maxEdges     int      // per-relation edge sample cap (0 = no cap)
	seed         uint64   // sampling seed
	output       string   // output file path (stdout if empty)
	refresh      bool     // bypass cache
	noCache      bool     // disable caching entirely
	archiveLabel string   // archive the document under this label
	mongoURI     string   // archive backend
}

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	opts := exportOpts{
		maxAirports: pipeline.DefaultMaxAirports,
		maxEdges:    pipeline.DefaultMaxEdges,
		seed:        pipeline.DefaultSeed,
	}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the flight graph as node/link JSON",
		Long: `Export builds the heterogeneous flight graph from OpenFlights data and
flattens it into the node/link JSON document consumed by the web renderers.

Sampling caps keep the output browser-sized; the fixed seed makes repeated
runs byte-identical on identical input.

Examples:
  bioguard export --airports airports.dat --flights flightlist_202001.csv.gz
  bioguard export -o graph.json --max-airports 300 --max-edges 2000
  bioguard export --focus-country "United Kingdom" --archive jan-uk`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.airports, "airports", "", "path to airports.dat")
	cmd.Flags().StringSliceVar(&opts.flights, "flights", nil, "flight-list CSV files (repeatable)")
	cmd.Flags().StringVar(&opts.flightGlob, "flight-glob", "", "glob for flight lists when --flights is not set")
	cmd.Flags().StringVar(&opts.focusCountry, "focus-country", "", "keep only cross-border routes touching this country")
	cmd.Flags().IntVar(&opts.maxAirports, "max-airports", opts.maxAirports, "airport sample cap (0 disables)")
	cmd.Flags().IntVar(&opts.maxLineages, "max-lineages", 0, "lineage sample cap (0 disables)")
	cmd.Flags().IntVar(&opts.maxEdges, "max-edges", opts.maxEdges, "per-relation edge sample cap (0 disables)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", opts.seed, "sampling seed")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&opts.archiveLabel, "archive", "", "archive the document in MongoDB under this label")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", "", "MongoDB connection string for --archive")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, opts *exportOpts) error {
	pipeOpts, err := c.pipelineOptions(opts)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spin := newSpinner(ctx, "Building export document...")
	spin.Start()
	result, err := runner.Execute(ctx, pipeOpts)
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Exported %d nodes with %d links", result.Stats.Nodes, result.Stats.Links))

	if err := c.writeDocument(result.Document, opts.output); err != nil {
		return err
	}
	// Keep stdout clean when the document itself goes there.
	if opts.output != "" {
		printStats(result.Stats.Nodes, result.Stats.Links, result.CacheInfo.ExportHit)
		if result.Document.Metadata.Sampled {
			printDetail("sampled with seed %d", pipeOpts.Seed)
		}
	}

	if opts.archiveLabel != "" {
		return c.archiveDocument(ctx, opts, result.Document)
	}
	return nil
}

// pipelineOptions merges flags with config-file defaults and resolves the
// flight lists, interactively when several candidates are found.
func (c *CLI) pipelineOptions(opts *exportOpts) (pipeline.Options, error) {
	cfg := c.config()

	airports := opts.airports
	if airports == "" {
		airports = cfg.AirportsPath
	}

	flights := opts.flights
	if len(flights) == 0 {
		flights = cfg.FlightPaths
	}
	if len(flights) == 0 {
		glob := opts.flightGlob
		if glob == "" {
			glob = cfg.FlightGlob
		}
		picked, err := pickFlightFiles(glob)
		if err != nil {
			return pipeline.Options{}, err
		}
		flights = picked
	}

	focus := opts.focusCountry
	if focus == "" {
		focus = cfg.FocusCountry
	}

	return pipeline.Options{
		AirportsPath: airports,
		FlightPaths:  flights,
		FocusCountry: focus,
		MaxAirports:  opts.maxAirports,
		MaxLineages:  opts.maxLineages,
		MaxEdges:     opts.maxEdges,
		Seed:         opts.seed,
		Refresh:      opts.refresh,
		Logger:       c.Logger,
	}, nil
}

// writeDocument serializes doc to path, or stdout when path is empty.
func (c *CLI) writeDocument(doc *export.Document, path string) error {
	if path == "" {
		data, err := export.Marshal(doc)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}
	if err := export.ExportJSON(doc, path); err != nil {
		return err
	}
	printFile(path)
	return nil
}

// archiveDocument stores the document in the configured MongoDB archive.
func (c *CLI) archiveDocument(ctx context.Context, opts *exportOpts, doc *export.Document) error {
	uri := opts.mongoURI
	if uri == "" {
		uri = c.config().MongoURI
	}
	if uri == "" {
		return fmt.Errorf("--archive requires --mongo-uri or mongo_uri in %s", configFileName)
	}

	store, err := archive.Connect(ctx, uri, archive.DefaultDatabase, archive.DefaultCollection)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	id, err := store.Put(ctx, opts.archiveLabel, doc)
	if err != nil {
		return err
	}
	printSuccess("Archived as %s", id)
	printDetail("label: %s", opts.archiveLabel)
	return nil
}
