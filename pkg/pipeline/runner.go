package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tanzeel291994/HGT-BioGuard/pkg/cache"
	apperrors "github.com/tanzeel291994/HGT-BioGuard/pkg/errors"
	"github.com/tanzeel291994/HGT-BioGuard/pkg/export"
	"github.com/tanzeel291994/HGT-BioGuard/pkg/observability"
	"github.com/tanzeel291994/HGT-BioGuard/pkg/openflights"
)

// Runner executes the pipeline with caching. It is stateless apart from
// the cache and logger, so one Runner can serve concurrent runs with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer falls back to the default keyer,
// a nil cache disables caching, a nil logger uses the default logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs the complete load → build → export pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	hashes, err := r.inputHashes(opts)
	if err != nil {
		return nil, err
	}

	result := &Result{InputHash: hashes.combined}

	loadStart := time.Now()
	observability.Pipeline().OnStageStart(ctx, "load")
	routes, routesHit, err := r.loadRoutes(ctx, opts, hashes)
	observability.Pipeline().OnStageComplete(ctx, "load", time.Since(loadStart), err)
	if err != nil {
		return nil, err
	}
	result.Routes = routes
	result.Stats.Routes = len(routes)
	result.Stats.LoadTime = time.Since(loadStart)
	result.CacheInfo.RoutesHit = routesHit

	r.Logger.Info("aggregated routes",
		"routes", len(routes),
		"cached", routesHit,
		"duration", result.Stats.LoadTime)

	exportStart := time.Now()
	observability.Pipeline().OnStageStart(ctx, "export")
	doc, exportHit, err := r.buildDocument(ctx, opts, hashes)
	observability.Pipeline().OnStageComplete(ctx, "export", time.Since(exportStart), err)
	if err != nil {
		return nil, err
	}
	result.Document = doc
	result.Stats.Nodes = len(doc.Nodes)
	result.Stats.Links = len(doc.Links)
	result.Stats.ExportTime = time.Since(exportStart)
	result.CacheInfo.ExportHit = exportHit

	observability.Pipeline().OnDocumentBuilt(ctx, len(doc.Nodes), len(doc.Links), doc.Metadata.Sampled)
	r.Logger.Info("built export document",
		"nodes", len(doc.Nodes),
		"links", len(doc.Links),
		"cached", exportHit,
		"duration", result.Stats.ExportTime)

	return result, nil
}

// LoadRoutes runs only the load stage with caching. Used by the dashboard
// command, which has no need for the export document.
func (r *Runner) LoadRoutes(ctx context.Context, opts Options) ([]openflights.Route, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	hashes, err := r.inputHashes(opts)
	if err != nil {
		return nil, err
	}
	routes, _, err := r.loadRoutes(ctx, opts, hashes)
	return routes, err
}

// inputHashes content-hashes every input file once per run.
type hashedInputs struct {
	airports string
	flights  []string
	combined string
}

func (r *Runner) inputHashes(opts Options) (hashedInputs, error) {
	h := hashedInputs{flights: make([]string, 0, len(opts.FlightPaths))}

	airportsHash, err := cache.HashFile(opts.AirportsPath)
	if err != nil {
		return h, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "failed to hash airports file")
	}
	h.airports = airportsHash

	all := airportsHash
	for _, path := range opts.FlightPaths {
		fh, err := cache.HashFile(path)
		if err != nil {
			return h, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "failed to hash flight list")
		}
		h.flights = append(h.flights, fh)
		all += fh
	}
	h.combined = cache.Hash([]byte(all + opts.FocusCountry))
	return h, nil
}

func (r *Runner) loadRoutes(ctx context.Context, opts Options, hashes hashedInputs) ([]openflights.Route, bool, error) {
	key := r.Keyer.RoutesKey(cache.RoutesKeyOpts{
		InputHashes:  hashes.flights,
		AirportsHash: hashes.airports,
		FocusCountry: opts.FocusCountry,
	})

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var routes []openflights.Route
			if err := json.Unmarshal(data, &routes); err == nil {
				observability.Cache().OnCacheHit(ctx, "routes")
				return routes, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "routes")
	}

	airports, err := openflights.LoadAirports(opts.AirportsPath)
	if err != nil {
		return nil, false, err
	}

	var aggOpts []openflights.AggregatorOption
	if opts.FocusCountry != "" {
		aggOpts = append(aggOpts, openflights.WithFocusCountry(opts.FocusCountry))
	}
	agg := openflights.NewAggregator(airports, aggOpts...)
	if err := openflights.LoadFlightFiles(opts.FlightPaths, agg.Add); err != nil {
		return nil, false, err
	}
	observability.Pipeline().OnFlightsLoaded(ctx, opts.AirportsPath, agg.Total())

	routes := agg.Routes()
	if data, err := json.Marshal(routes); err == nil {
		r.cacheSet(ctx, key, "routes", data, cache.RoutesTTL)
	}
	return routes, false, nil
}

func (r *Runner) buildDocument(ctx context.Context, opts Options, hashes hashedInputs) (*export.Document, bool, error) {
	key := r.Keyer.ExportKey(hashes.combined, opts.exportKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var doc export.Document
			if err := json.Unmarshal(data, &doc); err == nil {
				observability.Cache().OnCacheHit(ctx, "export")
				return &doc, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "export")
	}

	airports, err := openflights.LoadAirports(opts.AirportsPath)
	if err != nil {
		return nil, false, err
	}
	builder := openflights.NewGraphBuilder(airports)
	if err := openflights.LoadFlightFiles(opts.FlightPaths, builder.Add); err != nil {
		return nil, false, err
	}
	g, err := builder.Build()
	if err != nil {
		return nil, false, err
	}

	doc, err := export.Export(g, opts.exportOptions(builder.Info())...)
	if err != nil {
		return nil, false, err
	}

	if data, err := export.Marshal(doc); err == nil {
		r.cacheSet(ctx, key, "export", data, cache.GraphTTL)
	}
	return doc, false, nil
}

// cacheSet writes through the cache with retries, so one transient backend
// failure does not drop a freshly computed result.
func (r *Runner) cacheSet(ctx context.Context, key, keyType string, data []byte, ttl time.Duration) {
	err := cache.RetryWithBackoff(ctx, func() error {
		return r.Cache.Set(ctx, key, data, ttl)
	})
	if err != nil {
		r.Logger.Warn("failed to cache result", "kind", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases the runner's cache resources.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
