// Package dashboard renders the flight-routes dashboard: an HTML page with
// an airport scatter over a world map, a force-directed route network and a
// top-routes bar chart, plus a static histogram of per-route flight counts.
//
// The page is built with go-echarts and can be written to a file or served
// over HTTP together with the filtered route data as JSON.
package dashboard
