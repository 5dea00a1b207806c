package dashboard

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	apperrors "github.com/tanzeel291994/HGT-BioGuard/pkg/errors"
	"github.com/tanzeel291994/HGT-BioGuard/pkg/openflights"
)

// DefaultTopRoutes is how many of the busiest routes the bar chart shows.
const DefaultTopRoutes = 20

// Options configures a dashboard build.
type Options struct {
	// Title heads the HTML page.
	Title string
	// MinFlights drops routes with fewer flights before charting.
	MinFlights int
	// Scale picks the traffic-intensity color ramp.
	Scale ColorScale
	// TopRoutes caps the bar chart. Zero means DefaultTopRoutes.
	TopRoutes int
}

// ValidateAndSetDefaults normalizes o in place.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Title == "" {
		o.Title = "International Flight Routes Dashboard"
	}
	if o.MinFlights < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "minimum flights must not be negative")
	}
	if o.Scale == "" {
		o.Scale = DefaultScale
	}
	if _, ok := scaleStops[o.Scale]; !ok {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "unknown color scale %q", o.Scale)
	}
	if o.TopRoutes <= 0 {
		o.TopRoutes = DefaultTopRoutes
	}
	return nil
}

// Stats summarizes the routes that survived the threshold filter.
type Stats struct {
	Routes       int     `json:"routes"`
	TotalFlights int     `json:"total_flights"`
	AvgPerRoute  float64 `json:"avg_per_route"`
	MaxPerRoute  int     `json:"max_per_route"`
}

// Summarize computes the sidebar statistics over a route list.
func Summarize(routes []openflights.Route) Stats {
	s := Stats{Routes: len(routes)}
	for _, r := range routes {
		s.TotalFlights += r.Flights
		if r.Flights > s.MaxPerRoute {
			s.MaxPerRoute = r.Flights
		}
	}
	if s.Routes > 0 {
		s.AvgPerRoute = float64(s.TotalFlights) / float64(s.Routes)
	}
	return s
}

// BuildPage assembles the dashboard page from sorted routes: a world-map
// airport scatter, a force-directed route network, and the busiest-routes
// bar chart.
func BuildPage(routes []openflights.Route, o Options) (*components.Page, error) {
	if err := o.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	filtered := openflights.FilterRoutes(routes, o.MinFlights)

	page := components.NewPage()
	page.PageTitle = o.Title
	page.AddCharts(
		airportScatter(filtered, o),
		routeNetwork(filtered, o),
		topRoutesBar(filtered, o),
	)
	return page, nil
}

// WritePage renders the dashboard page to w as a standalone HTML document.
func WritePage(routes []openflights.Route, o Options, w io.Writer) error {
	page, err := BuildPage(routes, o)
	if err != nil {
		return err
	}
	if err := page.Render(w); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, err, "failed to render dashboard page")
	}
	return nil
}

// ExportHTML writes the dashboard page to path.
func ExportHTML(routes []openflights.Route, o Options, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, err, "failed to create dashboard file")
	}
	defer f.Close()
	return WritePage(routes, o, f)
}

// cityTraffic sums flights per city across both route endpoints.
type cityTraffic struct {
	city    string
	lat     float64
	lon     float64
	flights int
}

func aggregateCities(routes []openflights.Route) []cityTraffic {
	byCity := make(map[string]*cityTraffic)
	add := func(city string, lat, lon float64, flights int) {
		c, ok := byCity[city]
		if !ok {
			c = &cityTraffic{city: city, lat: lat, lon: lon}
			byCity[city] = c
		}
		c.flights += flights
	}
	for _, r := range routes {
		add(r.OriginCity, r.OriginLat, r.OriginLon, r.Flights)
		add(r.DestCity, r.DestLat, r.DestLon, r.Flights)
	}

	cities := make([]cityTraffic, 0, len(byCity))
	for _, c := range byCity {
		cities = append(cities, *c)
	}
	sort.Slice(cities, func(i, j int) bool {
		if cities[i].flights != cities[j].flights {
			return cities[i].flights > cities[j].flights
		}
		return cities[i].city < cities[j].city
	})
	return cities
}

func airportScatter(routes []openflights.Route, o Options) *charts.Geo {
	cities := aggregateCities(routes)

	maxFlights := 1
	for _, c := range cities {
		if c.flights > maxFlights {
			maxFlights = c.flights
		}
	}

	data := make([]opts.GeoData, 0, len(cities))
	for _, c := range cities {
		data = append(data, opts.GeoData{
			Name:  c.city,
			Value: []interface{}{c.lon, c.lat, c.flights},
		})
	}

	geo := charts.NewGeo()
	geo.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Airport Traffic"}),
		charts.WithGeoComponentOpts(opts.GeoComponent{Map: "world"}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Max:        float32(maxFlights),
			InRange:    &opts.VisualMapInRange{Color: o.Scale.Stops()},
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	geo.AddSeries("traffic", types.ChartEffectScatter, data)
	return geo
}

func routeNetwork(routes []openflights.Route, o Options) *charts.Graph {
	cities := aggregateCities(routes)

	maxFlights := 1
	for _, c := range cities {
		if c.flights > maxFlights {
			maxFlights = c.flights
		}
	}

	nodes := make([]opts.GraphNode, 0, len(cities))
	for _, c := range cities {
		t := float64(c.flights) / float64(maxFlights)
		nodes = append(nodes, opts.GraphNode{
			Name:       c.city,
			SymbolSize: float32(8 + t*32),
			ItemStyle:  &opts.ItemStyle{Color: o.Scale.At(t)},
		})
	}

	links := make([]opts.GraphLink, 0, len(routes))
	for _, r := range routes {
		links = append(links, opts.GraphLink{
			Source: r.OriginCity,
			Target: r.DestCity,
			Value:  float32(r.Flights),
		})
	}

	graph := charts.NewGraph()
	graph.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Route Network"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	graph.AddSeries(
		"routes",
		nodes,
		links,
		charts.WithGraphChartOpts(opts.GraphChart{
			Draggable: opts.Bool(true),
			Roam:      opts.Bool(true),
			Force:     &opts.GraphForce{Repulsion: 400},
		}),
		charts.WithLabelOpts(opts.Label{
			Show:     opts.Bool(true),
			Position: "top",
		}),
	)
	return graph
}

func topRoutesBar(routes []openflights.Route, o Options) *charts.Bar {
	top := openflights.TopRoutes(routes, o.TopRoutes)

	labels := make([]string, 0, len(top))
	data := make([]opts.BarData, 0, len(top))
	maxFlights := 1
	for _, r := range top {
		if r.Flights > maxFlights {
			maxFlights = r.Flights
		}
	}
	for _, r := range top {
		labels = append(labels, fmt.Sprintf("%s - %s", r.OriginCity, r.DestCity))
		t := float64(r.Flights) / float64(maxFlights)
		data = append(data, opts.BarData{
			Value:     r.Flights,
			ItemStyle: &opts.ItemStyle{Color: o.Scale.At(t)},
		})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("Top %d Busiest Routes", len(top))}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Rotate: 45, Show: opts.Bool(true)}}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels).AddSeries("flights", data)
	return bar
}
