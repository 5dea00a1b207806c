package dashboard

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tanzeel291994/HGT-BioGuard/pkg/openflights"
)

func testRoutes() []openflights.Route {
	return []openflights.Route{
		{OriginCity: "London", OriginCountry: "United Kingdom", OriginLat: 51.47, OriginLon: -0.46,
			DestCity: "New York", DestCountry: "United States", DestLat: 40.64, DestLon: -73.78, Flights: 120},
		{OriginCity: "New York", OriginCountry: "United States", OriginLat: 40.64, OriginLon: -73.78,
			DestCity: "London", DestCountry: "United Kingdom", DestLat: 51.47, DestLon: -0.46, Flights: 90},
		{OriginCity: "Tokyo", OriginCountry: "Japan", OriginLat: 35.55, OriginLon: 139.78,
			DestCity: "Los Angeles", DestCountry: "United States", DestLat: 33.94, DestLon: -118.41, Flights: 15},
	}
}

func TestOptionsDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("defaults failed: %v", err)
	}
	if o.Scale != ScaleViridis || o.TopRoutes != DefaultTopRoutes || o.Title == "" {
		t.Errorf("unexpected defaults: %+v", o)
	}

	bad := Options{MinFlights: -1}
	if err := bad.ValidateAndSetDefaults(); err == nil {
		t.Error("negative threshold should fail validation")
	}
	badScale := Options{Scale: "neon"}
	if err := badScale.ValidateAndSetDefaults(); err == nil {
		t.Error("unknown scale should fail validation")
	}
}

func TestParseScale(t *testing.T) {
	tests := []struct {
		in      string
		want    ColorScale
		wantErr bool
	}{
		{"", DefaultScale, false},
		{"viridis", ScaleViridis, false},
		{"Plasma", ScalePlasma, false},
		{"TURBO", ScaleTurbo, false},
		{"neon", "", true},
	}
	for _, tt := range tests {
		got, err := ParseScale(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseScale(%q) should fail", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseScale(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestScaleAt(t *testing.T) {
	stops := ScaleViridis.Stops()
	if got := ScaleViridis.At(0); got != stops[0] {
		t.Errorf("At(0) = %s, want %s", got, stops[0])
	}
	if got := ScaleViridis.At(1); got != stops[len(stops)-1] {
		t.Errorf("At(1) = %s, want %s", got, stops[len(stops)-1])
	}
	if got := ScaleViridis.At(-5); got != stops[0] {
		t.Errorf("At(-5) = %s, want clamped %s", got, stops[0])
	}
	if got := ScaleViridis.At(5); got != stops[len(stops)-1] {
		t.Errorf("At(5) = %s, want clamped %s", got, stops[len(stops)-1])
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(testRoutes())
	if s.Routes != 3 || s.TotalFlights != 225 || s.MaxPerRoute != 120 {
		t.Errorf("unexpected stats: %+v", s)
	}
	if s.AvgPerRoute != 75 {
		t.Errorf("avg = %v, want 75", s.AvgPerRoute)
	}

	empty := Summarize(nil)
	if empty.Routes != 0 || empty.AvgPerRoute != 0 {
		t.Errorf("empty stats should be zero: %+v", empty)
	}
}

func TestAggregateCities(t *testing.T) {
	cities := aggregateCities(testRoutes())
	if len(cities) != 4 {
		t.Fatalf("expected 4 cities, got %d", len(cities))
	}
	// London and New York both sit on the two transatlantic routes.
	if cities[0].flights != 210 {
		t.Errorf("busiest city has %d flights, want 210", cities[0].flights)
	}
	if cities[0].city != "London" && cities[0].city != "New York" {
		t.Errorf("unexpected busiest city %s", cities[0].city)
	}
}

func TestWritePage(t *testing.T) {
	var buf bytes.Buffer
	err := WritePage(testRoutes(), Options{MinFlights: 50, Scale: ScalePlasma}, &buf)
	if err != nil {
		t.Fatalf("WritePage failed: %v", err)
	}

	html := buf.String()
	for _, want := range []string{"Airport Traffic", "Route Network", "Busiest Routes", "London"} {
		if !strings.Contains(html, want) {
			t.Errorf("page is missing %q", want)
		}
	}
	// The Tokyo route sits below the threshold.
	if strings.Contains(html, "Tokyo") {
		t.Error("routes below the threshold should not appear")
	}
}

func TestHistogram(t *testing.T) {
	png, err := Histogram(testRoutes())
	if err != nil {
		t.Fatalf("Histogram failed: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}

	if _, err := Histogram(nil); err == nil {
		t.Error("empty route list should fail")
	}
}

func TestServerRoutes(t *testing.T) {
	srv, err := NewServer(testRoutes(), Options{}, nil)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/routes?min_flights=50")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var routes []openflights.Route
	if err := json.NewDecoder(resp.Body).Decode(&routes); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(routes) != 2 {
		t.Errorf("expected 2 routes over threshold, got %d", len(routes))
	}
}

func TestServerBadParams(t *testing.T) {
	srv, err := NewServer(testRoutes(), Options{}, nil)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	for _, path := range []string{"/api/routes?min_flights=-1", "/api/routes?min_flights=abc", "/?scale=neon"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, resp.StatusCode)
		}
	}
}

func TestServerStats(t *testing.T) {
	srv, err := NewServer(testRoutes(), Options{}, nil)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/stats")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var stats Stats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if stats.Routes != 3 || stats.TotalFlights != 225 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}
