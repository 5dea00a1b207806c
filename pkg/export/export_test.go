package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/tanzeel291994/HGT-BioGuard/pkg/errors"
	"github.com/tanzeel291994/HGT-BioGuard/pkg/hetero"
)

func mustIndex(t *testing.T, keys ...string) *hetero.Index {
	t.Helper()
	ix, err := hetero.NewIndex(keys)
	if err != nil {
		t.Fatalf("NewIndex(%v) failed: %v", keys, err)
	}
	return ix
}

func mustEdges(t *testing.T, g *hetero.Graph, rel string, src, dst []int, attr [][]float64) {
	t.Helper()
	es, err := hetero.NewEdgeSet(src, dst, attr)
	if err != nil {
		t.Fatalf("NewEdgeSet(%s) failed: %v", rel, err)
	}
	if err := g.SetEdges(rel, es); err != nil {
		t.Fatalf("SetEdges(%s) failed: %v", rel, err)
	}
}

func TestExportBasic(t *testing.T) {
	g := hetero.New(mustIndex(t, "JFK", "LAX"), mustIndex(t))
	mustEdges(t, g, hetero.RelFlight, []int{0}, []int{1}, [][]float64{{42}})

	doc, err := Export(g)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if len(doc.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(doc.Nodes))
	}
	jfk, ok := doc.Nodes[0].(AirportRecord)
	if !ok {
		t.Fatalf("expected AirportRecord, got %T", doc.Nodes[0])
	}
	if jfk.ID != "airport_0" || jfk.Code != "JFK" || jfk.Index != 0 || jfk.Type != "airport" {
		t.Errorf("unexpected airport record: %+v", jfk)
	}

	if len(doc.Links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(doc.Links))
	}
	link := doc.Links[0]
	if link.Source != "airport_0" || link.Target != "airport_1" {
		t.Errorf("unexpected endpoints: %s -> %s", link.Source, link.Target)
	}
	if link.Type != "flight" || link.Weight != 42.0 {
		t.Errorf("unexpected link type/weight: %s %v", link.Type, link.Weight)
	}
	if link.Week != nil || link.TimeStart != nil || link.TimeEnd != nil {
		t.Errorf("flight link should carry no temporal fields: %+v", link)
	}

	meta := doc.Metadata
	if meta.NumAirports != 2 || meta.NumLineages != 0 || meta.NumEdges != 1 {
		t.Errorf("unexpected metadata counts: %+v", meta)
	}
	if len(meta.EdgeTypes) != 1 || meta.EdgeTypes[0] != "flight" {
		t.Errorf("unexpected edge types: %v", meta.EdgeTypes)
	}
	if meta.Sampled {
		t.Error("sampled flag should be false without sampling options")
	}
}

func TestExportAirportInfo(t *testing.T) {
	g := hetero.New(mustIndex(t, "JFK", "LAX"), mustIndex(t))

	info := map[string]AirportInfo{
		"JFK": {Lat: 40.64, Lon: -73.78, City: "New York", Country: "United States"},
	}
	doc, err := Export(g, WithAirportInfo(info))
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if doc.Metadata.Sampled {
		t.Error("airport info should not flip the sampled flag")
	}

	jfk := doc.Nodes[0].(AirportRecord)
	if jfk.Lat != 40.64 || jfk.City != "New York" {
		t.Errorf("info not applied: %+v", jfk)
	}
	lax := doc.Nodes[1].(AirportRecord)
	if lax.Lat != 0 || lax.City != "" || lax.Country != "" {
		t.Errorf("missing info entry should leave zero values: %+v", lax)
	}
}

func TestExportAttributeDefaults(t *testing.T) {
	week3 := 3
	tests := []struct {
		name  string
		rel   string
		attr  [][]float64
		check func(t *testing.T, link Link)
	}{
		{
			name: "flight without attrs defaults weight 1",
			rel:  hetero.RelFlight,
			attr: nil,
			check: func(t *testing.T, link Link) {
				if link.Weight != 1.0 {
					t.Errorf("weight = %v, want 1.0", link.Weight)
				}
			},
		},
		{
			name: "evolves_from without attrs defaults weight 1",
			rel:  hetero.RelEvolvesFrom,
			attr: nil,
			check: func(t *testing.T, link Link) {
				if link.Weight != 1.0 {
					t.Errorf("weight = %v, want 1.0", link.Weight)
				}
			},
		},
		{
			name: "evolves_from reads weight from attrs",
			rel:  hetero.RelEvolvesFrom,
			attr: [][]float64{{0.25}},
			check: func(t *testing.T, link Link) {
				if link.Weight != 0.25 {
					t.Errorf("weight = %v, want 0.25", link.Weight)
				}
			},
		},
		{
			name: "sampled_at without attrs defaults weight 0 week 0",
			rel:  hetero.RelSampledAt,
			attr: nil,
			check: func(t *testing.T, link Link) {
				if link.Weight != 0.0 {
					t.Errorf("weight = %v, want 0.0", link.Weight)
				}
				if link.Week == nil || *link.Week != 0 {
					t.Errorf("week = %v, want 0", link.Week)
				}
			},
		},
		{
			name: "sampled_at reads weight and week",
			rel:  hetero.RelSampledAt,
			attr: [][]float64{{5, float64(week3)}},
			check: func(t *testing.T, link Link) {
				if link.Weight != 5.0 {
					t.Errorf("weight = %v, want 5.0", link.Weight)
				}
				if link.Week == nil || *link.Week != week3 {
					t.Errorf("week = %v, want %d", link.Week, week3)
				}
			},
		},
		{
			name: "sampled_at short attr falls back per field",
			rel:  hetero.RelSampledAt,
			attr: [][]float64{{}},
			check: func(t *testing.T, link Link) {
				if link.Weight != 1.0 {
					t.Errorf("weight = %v, want 1.0", link.Weight)
				}
				if link.Week == nil || *link.Week != 0 {
					t.Errorf("week = %v, want 0", link.Week)
				}
			},
		},
		{
			name: "temporal without attrs defaults everything to 0",
			rel:  hetero.RelTemporal,
			attr: nil,
			check: func(t *testing.T, link Link) {
				if link.Weight != 0.0 {
					t.Errorf("weight = %v, want 0.0", link.Weight)
				}
				if link.TimeStart == nil || *link.TimeStart != 0 {
					t.Errorf("time_start = %v, want 0", link.TimeStart)
				}
				if link.TimeEnd == nil || *link.TimeEnd != 0 {
					t.Errorf("time_end = %v, want 0", link.TimeEnd)
				}
			},
		},
		{
			name: "temporal reads start end weight",
			rel:  hetero.RelTemporal,
			attr: [][]float64{{2, 7, 0.5}},
			check: func(t *testing.T, link Link) {
				if link.Weight != 0.5 {
					t.Errorf("weight = %v, want 0.5", link.Weight)
				}
				if link.TimeStart == nil || *link.TimeStart != 2 {
					t.Errorf("time_start = %v, want 2", link.TimeStart)
				}
				if link.TimeEnd == nil || *link.TimeEnd != 7 {
					t.Errorf("time_end = %v, want 7", link.TimeEnd)
				}
			},
		},
		{
			name: "temporal short attr defaults weight to 1",
			rel:  hetero.RelTemporal,
			attr: [][]float64{{2, 7}},
			check: func(t *testing.T, link Link) {
				if link.Weight != 1.0 {
					t.Errorf("weight = %v, want 1.0", link.Weight)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := hetero.New(mustIndex(t, "JFK", "LAX"), mustIndex(t, "B.1.1.7", "BA.2"))
			schema := hetero.Relations[tt.rel]
			src, dst := []int{0}, []int{1}
			if schema.Src == hetero.NodeLineage && schema.Dst == hetero.NodeAirport {
				dst = []int{0}
			}
			mustEdges(t, g, tt.rel, src, dst, tt.attr)

			doc, err := Export(g)
			if err != nil {
				t.Fatalf("Export failed: %v", err)
			}
			if len(doc.Links) != 1 {
				t.Fatalf("expected 1 link, got %d", len(doc.Links))
			}
			if doc.Links[0].Type != tt.rel {
				t.Fatalf("link type = %s, want %s", doc.Links[0].Type, tt.rel)
			}
			tt.check(t, doc.Links[0])
		})
	}
}

func TestExportSamplingClamp(t *testing.T) {
	g := hetero.New(mustIndex(t, "JFK", "LAX", "ORD"), mustIndex(t, "B.1.1.7"))

	doc, err := Export(g, WithMaxAirports(100), WithMaxLineages(100))
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if doc.Metadata.NumAirports != 3 || doc.Metadata.NumLineages != 1 {
		t.Errorf("clamped sample should keep everything: %+v", doc.Metadata)
	}
	if !doc.Metadata.Sampled {
		t.Error("sampled flag should be true when limits were requested")
	}
}

func TestExportSampleSize(t *testing.T) {
	codes := make([]string, 50)
	for i := range codes {
		codes[i] = "AP" + string(rune('A'+i/26)) + string(rune('A'+i%26))
	}
	g := hetero.New(mustIndex(t, codes...), mustIndex(t))

	doc, err := Export(g, WithMaxAirports(10))
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if doc.Metadata.NumAirports != 10 {
		t.Errorf("num_airports = %d, want 10", doc.Metadata.NumAirports)
	}
	if len(doc.Nodes) != 10 {
		t.Errorf("node count = %d, want 10", len(doc.Nodes))
	}

	// Sampled nodes keep their original index and emit in ascending order.
	prev := -1
	for _, n := range doc.Nodes {
		rec := n.(AirportRecord)
		if rec.Index <= prev {
			t.Fatalf("node indices not strictly ascending: %d after %d", rec.Index, prev)
		}
		if rec.Code != codes[rec.Index] {
			t.Errorf("index %d maps to code %s, want %s", rec.Index, rec.Code, codes[rec.Index])
		}
		prev = rec.Index
	}
}

func TestExportNoDanglingEndpoints(t *testing.T) {
	codes := make([]string, 30)
	for i := range codes {
		codes[i] = "A" + string(rune('A'+i/26)) + string(rune('A'+i%26))
	}
	names := []string{"B.1.1.7", "BA.2", "XBB.1.5"}
	g := hetero.New(mustIndex(t, codes...), mustIndex(t, names...))

	var src, dst []int
	for i := 0; i < len(codes); i++ {
		src = append(src, i)
		dst = append(dst, (i+1)%len(codes))
	}
	mustEdges(t, g, hetero.RelFlight, src, dst, nil)
	mustEdges(t, g, hetero.RelSampledAt, []int{0, 1, 2}, []int{0, 10, 20}, nil)

	doc, err := Export(g, WithMaxAirports(8), WithMaxLineages(2))
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	ids := make(map[string]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		switch rec := n.(type) {
		case AirportRecord:
			ids[rec.ID] = true
		case LineageRecord:
			ids[rec.ID] = true
		}
	}
	for _, l := range doc.Links {
		if !ids[l.Source] {
			t.Errorf("link source %s has no node record", l.Source)
		}
		if !ids[l.Target] {
			t.Errorf("link target %s has no node record", l.Target)
		}
	}
	if doc.Metadata.NumEdges != len(doc.Links) {
		t.Errorf("num_edges = %d, want %d", doc.Metadata.NumEdges, len(doc.Links))
	}
}

func TestExportEdgeCap(t *testing.T) {
	codes := make([]string, 20)
	for i := range codes {
		codes[i] = "B" + string(rune('A'+i/26)) + string(rune('A'+i%26))
	}
	g := hetero.New(mustIndex(t, codes...), mustIndex(t))

	var src, dst []int
	for i := 0; i < len(codes); i++ {
		src = append(src, i)
		dst = append(dst, (i+1)%len(codes))
	}
	mustEdges(t, g, hetero.RelFlight, src, dst, nil)

	doc, err := Export(g, WithMaxEdges(5))
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if len(doc.Links) != 5 {
		t.Errorf("link count = %d, want 5", len(doc.Links))
	}
	if !doc.Metadata.Sampled {
		t.Error("sampled flag should be true with an edge cap")
	}
}

func TestExportEmptyRelationOmitted(t *testing.T) {
	g := hetero.New(mustIndex(t, "JFK", "LAX"), mustIndex(t, "B.1.1.7"))
	mustEdges(t, g, hetero.RelFlight, []int{0}, []int{1}, nil)
	mustEdges(t, g, hetero.RelSampledAt, nil, nil, nil)

	doc, err := Export(g)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if len(doc.Metadata.EdgeTypes) != 1 || doc.Metadata.EdgeTypes[0] != "flight" {
		t.Errorf("edge types = %v, want [flight]", doc.Metadata.EdgeTypes)
	}
}

func TestExportEdgeTypesSorted(t *testing.T) {
	g := hetero.New(mustIndex(t, "JFK", "LAX"), mustIndex(t, "B.1.1.7", "BA.2"))
	mustEdges(t, g, hetero.RelTemporal, []int{0}, []int{1}, nil)
	mustEdges(t, g, hetero.RelFlight, []int{0}, []int{1}, nil)
	mustEdges(t, g, hetero.RelSampledAt, []int{0}, []int{0}, nil)

	doc, err := Export(g)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	want := []string{"flight", "sampled_at", "temporal"}
	if len(doc.Metadata.EdgeTypes) != len(want) {
		t.Fatalf("edge types = %v, want %v", doc.Metadata.EdgeTypes, want)
	}
	for i, typ := range want {
		if doc.Metadata.EdgeTypes[i] != typ {
			t.Errorf("edge types = %v, want %v", doc.Metadata.EdgeTypes, want)
			break
		}
	}
}

func TestExportOutOfRangeEndpointDropped(t *testing.T) {
	g := hetero.New(mustIndex(t, "JFK", "LAX"), mustIndex(t))
	mustEdges(t, g, hetero.RelFlight, []int{0, 0}, []int{1, 99}, nil)

	doc, err := Export(g)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if len(doc.Links) != 1 {
		t.Errorf("link count = %d, want 1 (out-of-range endpoint dropped)", len(doc.Links))
	}
}

func TestExportDeterministic(t *testing.T) {
	build := func() *hetero.Graph {
		codes := make([]string, 40)
		for i := range codes {
			codes[i] = "C" + string(rune('A'+i/26)) + string(rune('A'+i%26))
		}
		g := hetero.New(mustIndex(t, codes...), mustIndex(t, "B.1.1.7", "BA.2"))
		var src, dst []int
		for i := 0; i < len(codes); i++ {
			src = append(src, i)
			dst = append(dst, (i+7)%len(codes))
		}
		mustEdges(t, g, hetero.RelFlight, src, dst, nil)
		return g
	}

	first, err := Export(build(), WithMaxAirports(15), WithMaxEdges(10), WithSeed(7))
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	second, err := Export(build(), WithMaxAirports(15), WithMaxEdges(10), WithSeed(7))
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	a, err := Marshal(first)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	b, err := Marshal(second)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("same seed and input should produce byte-identical output")
	}

	third, err := Export(build(), WithMaxAirports(15), WithMaxEdges(10), WithSeed(8))
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if third.Metadata.NumAirports != 15 {
		t.Errorf("num_airports = %d, want 15", third.Metadata.NumAirports)
	}
}

func TestExportMissingIndex(t *testing.T) {
	if _, err := Export(nil); apperrors.GetCode(err) != apperrors.ErrCodeMissingMapping {
		t.Errorf("nil graph: code = %v, want missing mapping", apperrors.GetCode(err))
	}
	g := hetero.New(mustIndex(t, "JFK"), nil)
	if _, err := Export(g); apperrors.GetCode(err) != apperrors.ErrCodeMissingMapping {
		t.Errorf("nil lineage index: code = %v, want missing mapping", apperrors.GetCode(err))
	}
}

func TestDocumentUnmarshal(t *testing.T) {
	g := hetero.New(mustIndex(t, "JFK", "LAX"), mustIndex(t, "B.1.1.7"))
	mustEdges(t, g, hetero.RelFlight, []int{0}, []int{1}, [][]float64{{7}})

	doc, err := Export(g)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	data, err := Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var got Document
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(got.Nodes) != 3 || len(got.Links) != 1 {
		t.Fatalf("decoded %d nodes %d links, want 3 and 1", len(got.Nodes), len(got.Links))
	}
	if _, ok := got.Nodes[0].(AirportRecord); !ok {
		t.Errorf("node 0 decoded as %T, want AirportRecord", got.Nodes[0])
	}
	if lin, ok := got.Nodes[2].(LineageRecord); !ok || lin.Name != "B.1.1.7" {
		t.Errorf("node 2 decoded as %T %+v, want lineage B.1.1.7", got.Nodes[2], got.Nodes[2])
	}
	if got.Links[0].Weight != 7.0 {
		t.Errorf("link weight = %v, want 7", got.Links[0].Weight)
	}

	if err := json.Unmarshal([]byte(`{"nodes":[{"type":"mystery"}]}`), &got); err == nil {
		t.Error("unknown node type should fail to decode")
	}
}

func TestExportJSONRoundTrip(t *testing.T) {
	g := hetero.New(mustIndex(t, "JFK", "LAX"), mustIndex(t, "B.1.1.7"))
	mustEdges(t, g, hetero.RelSampledAt, []int{0}, []int{1}, [][]float64{{3, 12}})

	doc, err := Export(g)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "out", "graph_data.json")
	if err := ExportJSON(doc, path); err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}

	var decoded struct {
		Nodes []map[string]any `json:"nodes"`
		Links []map[string]any `json:"links"`
		Meta  Metadata         `json:"metadata"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded.Nodes) != 3 || len(decoded.Links) != 1 {
		t.Fatalf("decoded %d nodes %d links, want 3 and 1", len(decoded.Nodes), len(decoded.Links))
	}
	if decoded.Links[0]["week"] != float64(12) {
		t.Errorf("week = %v, want 12", decoded.Links[0]["week"])
	}
	if _, ok := decoded.Links[0]["time_start"]; ok {
		t.Error("sampled_at link should omit time_start")
	}
	if decoded.Meta.NumEdges != 1 {
		t.Errorf("metadata num_edges = %d, want 1", decoded.Meta.NumEdges)
	}
}
