// Package pipeline provides the core load → build → export pipeline.
//
// The pipeline turns raw OpenFlights data into the node/link JSON document
// consumed by the web renderers, with content-addressed caching between
// stages. CLI and service entry points share it so defaults and caching
// behave identically everywhere.
//
// # Usage
//
//	runner := pipeline.NewRunner(fileCache, nil, logger)
//	opts := pipeline.Options{
//	    AirportsPath: "airports.dat",
//	    FlightPaths:  []string{"flightlist_20200101_20200131.csv.gz"},
//	    MaxAirports:  500,
//	    MaxEdges:     5000,
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	doc := result.Document
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tanzeel291994/HGT-BioGuard/pkg/cache"
	apperrors "github.com/tanzeel291994/HGT-BioGuard/pkg/errors"
	"github.com/tanzeel291994/HGT-BioGuard/pkg/export"
	"github.com/tanzeel291994/HGT-BioGuard/pkg/openflights"
)

// Default values shared by every entry point.
const (
	// DefaultSeed is the default random seed for reproducible sampling.
	DefaultSeed = export.DefaultSeed

	// DefaultMaxAirports caps airport sampling for interactive use. Zero
	// in Options means no cap; this value is only the CLI flag default.
	DefaultMaxAirports = 500

	// DefaultMaxEdges caps per-relation edge sampling for interactive use.
	DefaultMaxEdges = 5000
)

// Options configures a pipeline run. The zero value of the sampling fields
// means no sampling.
type Options struct {
	// Load options
	AirportsPath string   `json:"airports_path"`
	FlightPaths  []string `json:"flight_paths"`
	FocusCountry string   `json:"focus_country,omitempty"`

	// Export options
	MaxAirports int    `json:"max_airports,omitempty"`
	MaxLineages int    `json:"max_lineages,omitempty"`
	MaxEdges    int    `json:"max_edges,omitempty"`
	Seed        uint64 `json:"seed,omitempty"`

	// Refresh bypasses the cache and overwrites it with fresh results.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// The method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.AirportsPath == "" {
		return apperrors.New(apperrors.ErrCodeMissingInput, "airports path is required")
	}
	if len(o.FlightPaths) == 0 {
		return apperrors.New(apperrors.ErrCodeMissingInput, "at least one flight list is required")
	}
	if o.MaxAirports < 0 || o.MaxLineages < 0 || o.MaxEdges < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidSample, "sample sizes must not be negative")
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Sampled reports whether any sampling cap is set.
func (o *Options) Sampled() bool {
	return o.MaxAirports > 0 || o.MaxLineages > 0 || o.MaxEdges > 0
}

// exportOptions translates the sampling fields into exporter options.
func (o *Options) exportOptions(info map[string]export.AirportInfo) []export.Option {
	opts := []export.Option{
		export.WithSeed(o.Seed),
		export.WithAirportInfo(info),
	}
	if o.MaxAirports > 0 {
		opts = append(opts, export.WithMaxAirports(o.MaxAirports))
	}
	if o.MaxLineages > 0 {
		opts = append(opts, export.WithMaxLineages(o.MaxLineages))
	}
	if o.MaxEdges > 0 {
		opts = append(opts, export.WithMaxEdges(o.MaxEdges))
	}
	return opts
}

// exportKeyOpts returns the cache key options for the export document.
func (o *Options) exportKeyOpts() cache.ExportKeyOpts {
	return cache.ExportKeyOpts{
		MaxAirports: o.MaxAirports,
		MaxLineages: o.MaxLineages,
		MaxEdges:    o.MaxEdges,
		Seed:        o.Seed,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the export document ready for serialization.
	Document *export.Document

	// Routes is the aggregated route list for the dashboard.
	Routes []openflights.Route

	// InputHash is the combined content hash of all input files.
	InputHash string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Routes     int
	Nodes      int
	Links      int
	LoadTime   time.Duration
	ExportTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	RoutesHit bool // Whether the route aggregation came from cache
	ExportHit bool // Whether the export document came from cache
}
