// Package cache provides content-addressed caching for aggregated route
// data, exported graph documents, and rendered figures. Backends cover local files,
// Redis for shared deployments, and a no-op cache for disabling caching.
package cache

import (
	"context"
	"time"
)

// Default TTLs per cached content kind. Route aggregates are expensive to
// recompute but the underlying flight dumps never change, so they keep the
// longest lifetime.
const (
	RoutesTTL   = 30 * 24 * time.Hour
	GraphTTL    = 7 * 24 * time.Hour
	ArtifactTTL = 24 * time.Hour
)

// Cache is the storage interface shared by all backends. Implementations
// must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl stores it without expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any backend resources.
	Close() error
}

// RoutesKeyOpts identifies one route aggregation.
type RoutesKeyOpts struct {
	// InputHashes are the content hashes of the flight-list files, in
	// load order.
	InputHashes []string
	// AirportsHash is the content hash of the airports file.
	AirportsHash string
	// FocusCountry is the cross-border filter, empty for none.
	FocusCountry string
}

// ExportKeyOpts identifies one graph export.
type ExportKeyOpts struct {
	MaxAirports int
	MaxLineages int
	MaxEdges    int
	Seed        uint64
}

// Keyer generates cache keys for the cached content kinds.
type Keyer interface {
	// RoutesKey keys an aggregated route list.
	RoutesKey(opts RoutesKeyOpts) string

	// ExportKey keys an export document by graph hash and sampling options.
	ExportKey(graphHash string, opts ExportKeyOpts) string

	// FigureKey keys a rendered figure by name and format.
	FigureKey(name, format string) string
}

// DefaultKeyer generates hash-based keys with kind prefixes.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// RoutesKey generates a key for route aggregation caching.
func (k *DefaultKeyer) RoutesKey(opts RoutesKeyOpts) string {
	return hashKey("routes", opts.InputHashes, opts.AirportsHash, opts.FocusCountry)
}

// ExportKey generates a key for export-document caching.
func (k *DefaultKeyer) ExportKey(graphHash string, opts ExportKeyOpts) string {
	return hashKey("export", graphHash, opts.MaxAirports, opts.MaxLineages, opts.MaxEdges, opts.Seed)
}

// FigureKey generates a key for rendered-figure caching.
func (k *DefaultKeyer) FigureKey(name, format string) string {
	return hashKey("figure", name, format)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
