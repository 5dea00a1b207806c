package openflights

import "sort"

// Route is one aggregated city-pair with its flight count and the
// coordinates of the endpoint airports.
type Route struct {
	OriginCity    string  `json:"origin_city"`
	OriginCountry string  `json:"origin_country"`
	OriginLat     float64 `json:"origin_lat"`
	OriginLon     float64 `json:"origin_lon"`
	DestCity      string  `json:"dest_city"`
	DestCountry   string  `json:"dest_country"`
	DestLat       float64 `json:"dest_lat"`
	DestLon       float64 `json:"dest_lon"`
	Flights       int     `json:"flights"`
}

// AggregatorOption configures route aggregation.
type AggregatorOption func(*Aggregator)

// WithFocusCountry keeps only cross-border routes touching the given
// country. Empty (the default) keeps every route.
func WithFocusCountry(country string) AggregatorOption {
	return func(a *Aggregator) { a.focusCountry = country }
}

type routeKey struct {
	originCity, originCountry string
	destCity, destCountry     string
}

// Aggregator joins streamed flights against airport metadata and counts
// flights per city pair. Flights whose endpoints are unknown, lack
// coordinates, or lack city/country are dropped, as are domestic or
// out-of-focus routes when a focus country is set.
//
// Aggregator is not safe for concurrent use.
type Aggregator struct {
	byICAO       map[string]Airport
	focusCountry string
	counts       map[routeKey]*Route
	dropped      int
	total        int
}

// NewAggregator builds an Aggregator over the given airports.
func NewAggregator(airports []Airport, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		byICAO: IndexByICAO(airports),
		counts: make(map[routeKey]*Route),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Add joins one flight against the airport metadata and counts it. It is a
// FlightFunc and never returns an error; unjoinable flights are dropped and
// reported by Dropped.
func (a *Aggregator) Add(f Flight) error {
	a.total++

	origin, ok := a.byICAO[f.Origin]
	if !ok || !a.usable(origin) {
		a.dropped++
		return nil
	}
	dest, ok := a.byICAO[f.Destination]
	if !ok || !a.usable(dest) {
		a.dropped++
		return nil
	}

	if a.focusCountry != "" {
		touches := origin.Country == a.focusCountry || dest.Country == a.focusCountry
		if !touches || origin.Country == dest.Country {
			a.dropped++
			return nil
		}
	}

	key := routeKey{
		originCity: origin.City, originCountry: origin.Country,
		destCity: dest.City, destCountry: dest.Country,
	}
	r, ok := a.counts[key]
	if !ok {
		r = &Route{
			OriginCity:    origin.City,
			OriginCountry: origin.Country,
			OriginLat:     origin.Lat,
			OriginLon:     origin.Lon,
			DestCity:      dest.City,
			DestCountry:   dest.Country,
			DestLat:       dest.Lat,
			DestLon:       dest.Lon,
		}
		a.counts[key] = r
	}
	r.Flights++
	return nil
}

func (a *Aggregator) usable(ap Airport) bool {
	return ap.HasCoords() && ap.City != "" && ap.Country != ""
}

// Routes returns the aggregated routes sorted by flight count descending,
// with city names breaking ties so the order is stable.
func (a *Aggregator) Routes() []Route {
	routes := make([]Route, 0, len(a.counts))
	for _, r := range a.counts {
		routes = append(routes, *r)
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Flights != routes[j].Flights {
			return routes[i].Flights > routes[j].Flights
		}
		if routes[i].OriginCity != routes[j].OriginCity {
			return routes[i].OriginCity < routes[j].OriginCity
		}
		return routes[i].DestCity < routes[j].DestCity
	})
	return routes
}

// Dropped reports how many flights were discarded during joining.
func (a *Aggregator) Dropped() int { return a.dropped }

// Total reports how many flights were offered to Add.
func (a *Aggregator) Total() int { return a.total }

// FilterRoutes keeps routes with at least minFlights flights, preserving
// order.
func FilterRoutes(routes []Route, minFlights int) []Route {
	filtered := make([]Route, 0, len(routes))
	for _, r := range routes {
		if r.Flights >= minFlights {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// TopRoutes returns the first n routes of an already-sorted route list.
func TopRoutes(routes []Route, n int) []Route {
	if n <= 0 || n >= len(routes) {
		return routes
	}
	return routes[:n]
}
