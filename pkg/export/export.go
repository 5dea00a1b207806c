package export

import (
	"math/rand/v2"
	"slices"
	"sort"
	"strconv"

	apperrors "github.com/tanzeel291994/HGT-BioGuard/pkg/errors"
	"github.com/tanzeel291994/HGT-BioGuard/pkg/hetero"
)

// DefaultSeed is the default random seed for reproducible sampling.
const DefaultSeed = uint64(42)

// AirportInfo carries display attributes for one airport, keyed by its code
// in the lookup passed to [WithAirportInfo]. Missing entries default to
// zero coordinates and empty city/country strings.
type AirportInfo struct {
	Lat     float64
	Lon     float64
	City    string
	Country string
}

// =============================================================================
// Output document types
// =============================================================================

// Node is the sealed interface over the two node record variants.
// It exists so a Document can hold airports and lineages in one slice while
// each variant keeps its own field set.
type Node interface {
	nodeRecord()
}

// AirportRecord is the flattened output record for one airport node.
type AirportRecord struct {
	ID      string  `json:"id" bson:"id"`
	Index   int     `json:"index" bson:"index"`
	Code    string  `json:"code" bson:"code"`
	Type    string  `json:"type" bson:"type"`
	Lat     float64 `json:"lat" bson:"lat"`
	Lon     float64 `json:"lon" bson:"lon"`
	City    string  `json:"city" bson:"city"`
	Country string  `json:"country" bson:"country"`
}

func (AirportRecord) nodeRecord() {}

// LineageRecord is the flattened output record for one lineage node.
type LineageRecord struct {
	ID    string `json:"id" bson:"id"`
	Index int    `json:"index" bson:"index"`
	Name  string `json:"name" bson:"name"`
	Type  string `json:"type" bson:"type"`
}

func (LineageRecord) nodeRecord() {}

// Link is the flattened output record for one retained edge. Week is set
// only for sampled_at links; TimeStart/TimeEnd only for temporal links.
type Link struct {
	Source    string  `json:"source" bson:"source"`
	Target    string  `json:"target" bson:"target"`
	Type      string  `json:"type" bson:"type"`
	Weight    float64 `json:"weight" bson:"weight"`
	Week      *int    `json:"week,omitempty" bson:"week,omitempty"`
	TimeStart *int    `json:"time_start,omitempty" bson:"time_start,omitempty"`
	TimeEnd   *int    `json:"time_end,omitempty" bson:"time_end,omitempty"`
}

// Metadata is the summary block of an export document.
type Metadata struct {
	NumAirports int      `json:"num_airports" bson:"num_airports"`
	NumLineages int      `json:"num_lineages" bson:"num_lineages"`
	NumEdges    int      `json:"num_edges" bson:"num_edges"`
	EdgeTypes   []string `json:"edge_types" bson:"edge_types"`
	Sampled     bool     `json:"sampled" bson:"sampled"`
}

// Document is the complete export output: all node records, all retained
// links, and the summary block.
type Document struct {
	Nodes    []Node   `json:"nodes" bson:"nodes"`
	Links    []Link   `json:"links" bson:"links"`
	Metadata Metadata `json:"metadata" bson:"metadata"`
}

// =============================================================================
// Options
// =============================================================================

// Option configures an export run.
type Option func(*exporter)

type exporter struct {
	maxAirports int
	maxLineages int
	maxEdges    int
	seed        uint64
	info        map[string]AirportInfo
	sampled     bool
}

// WithMaxAirports caps the number of airport nodes, sampled uniformly
// without replacement. Requests exceeding the population are clamped.
func WithMaxAirports(n int) Option {
	return func(e *exporter) { e.maxAirports = n; e.sampled = true }
}

// WithMaxLineages caps the number of lineage nodes, sampled uniformly
// without replacement. Requests exceeding the population are clamped.
func WithMaxLineages(n int) Option {
	return func(e *exporter) { e.maxLineages = n; e.sampled = true }
}

// WithMaxEdges caps the edge count of each relation before the membership
// filter, sampled uniformly without replacement.
func WithMaxEdges(n int) Option {
	return func(e *exporter) { e.maxEdges = n; e.sampled = true }
}

// WithSeed sets the random seed used for all sampling in one export run.
// Fixed seed plus identical input produces byte-identical output.
func WithSeed(seed uint64) Option {
	return func(e *exporter) { e.seed = seed }
}

// WithAirportInfo attaches the display-attribute lookup keyed by airport
// code. Airports without an entry get zero coordinates and empty strings.
func WithAirportInfo(info map[string]AirportInfo) Option {
	return func(e *exporter) { e.info = info }
}

// =============================================================================
// Export
// =============================================================================

// Export flattens g into a node/link document, applying any sampling
// options. Both node indices must be present on the graph; a missing index
// aborts before any output is assembled.
//
// Export does not modify g and is safe to call concurrently on the same
// graph.
func Export(g *hetero.Graph, opts ...Option) (*Document, error) {
	e := exporter{seed: DefaultSeed}
	for _, opt := range opts {
		opt(&e)
	}

	if g == nil || g.Airports == nil {
		return nil, apperrors.New(apperrors.ErrCodeMissingMapping, "airport index mapping is required")
	}
	if g.Lineages == nil {
		return nil, apperrors.New(apperrors.ErrCodeMissingMapping, "lineage index mapping is required")
	}

	rng := rand.New(rand.NewPCG(e.seed, e.seed^0xdeadbeef))

	airportSet := sampleIndices(rng, g.Airports.Len(), e.maxAirports)
	lineageSet := sampleIndices(rng, g.Lineages.Len(), e.maxLineages)

	doc := &Document{
		Nodes: make([]Node, 0, countSelected(airportSet)+countSelected(lineageSet)),
		Links: []Link{},
	}

	numAirports := e.buildAirportNodes(doc, g, airportSet)
	numLineages := e.buildLineageNodes(doc, g, lineageSet)

	membership := map[string][]bool{
		hetero.NodeAirport: airportSet,
		hetero.NodeLineage: lineageSet,
	}
	for _, rel := range hetero.RelationNames() {
		es, ok := g.Edges(rel)
		if !ok {
			continue
		}
		e.buildLinks(doc, rng, rel, es, membership)
	}

	doc.Metadata = Metadata{
		NumAirports: numAirports,
		NumLineages: numLineages,
		NumEdges:    len(doc.Links),
		EdgeTypes:   distinctLinkTypes(doc.Links),
		Sampled:     e.sampled,
	}

	return doc, nil
}

// sampleIndices returns a membership vector over [0, n) with up to limit
// entries selected uniformly without replacement. A limit of zero (or one
// covering the whole population) selects everything.
func sampleIndices(rng *rand.Rand, n, limit int) []bool {
	selected := make([]bool, n)
	if limit <= 0 || limit >= n {
		for i := range selected {
			selected[i] = true
		}
		return selected
	}
	for _, idx := range rng.Perm(n)[:limit] {
		selected[idx] = true
	}
	return selected
}

func countSelected(set []bool) int {
	count := 0
	for _, ok := range set {
		if ok {
			count++
		}
	}
	return count
}

func (e *exporter) buildAirportNodes(doc *Document, g *hetero.Graph, selected []bool) int {
	count := 0
	for idx := range selected {
		if !selected[idx] {
			continue
		}
		code, _ := g.Airports.Key(idx)
		rec := AirportRecord{
			ID:    nodeID(hetero.NodeAirport, idx),
			Index: idx,
			Code:  code,
			Type:  hetero.NodeAirport,
		}
		if info, ok := e.info[code]; ok {
			rec.Lat = info.Lat
			rec.Lon = info.Lon
			rec.City = info.City
			rec.Country = info.Country
		}
		doc.Nodes = append(doc.Nodes, rec)
		count++
	}
	return count
}

func (e *exporter) buildLineageNodes(doc *Document, g *hetero.Graph, selected []bool) int {
	count := 0
	for idx := range selected {
		if !selected[idx] {
			continue
		}
		name, _ := g.Lineages.Key(idx)
		doc.Nodes = append(doc.Nodes, LineageRecord{
			ID:    nodeID(hetero.NodeLineage, idx),
			Index: idx,
			Name:  name,
			Type:  hetero.NodeLineage,
		})
		count++
	}
	return count
}

// buildLinks subsamples one relation's edge list to the global cap, applies
// the membership filter to both endpoints, and appends the surviving links.
// Out-of-range indices fail the membership test and are dropped silently.
func (e *exporter) buildLinks(doc *Document, rng *rand.Rand, rel string, es *hetero.EdgeSet, membership map[string][]bool) {
	schema := hetero.Relations[rel]
	srcSet := membership[schema.Src]
	dstSet := membership[schema.Dst]

	for _, i := range sampleEdgePositions(rng, es.Len(), e.maxEdges) {
		src, dst := es.Src[i], es.Dst[i]
		if !inSet(srcSet, src) || !inSet(dstSet, dst) {
			continue
		}

		link := Link{
			Source: nodeID(schema.Src, src),
			Target: nodeID(schema.Dst, dst),
			Type:   rel,
		}
		fillLinkAttrs(&link, rel, es, i)
		doc.Links = append(doc.Links, link)
	}
}

// fillLinkAttrs sets the attribute-derived link fields for one relation.
// A relation with no attribute array at all defaults every numeric field to
// zero except the plain-weight relations (flight, evolves_from), which
// default to weight 1.
func fillLinkAttrs(link *Link, rel string, es *hetero.EdgeSet, i int) {
	attr := es.AttrAt(i)
	hasAttr := es.Attr != nil

	switch rel {
	case hetero.RelFlight, hetero.RelEvolvesFrom:
		link.Weight = floatAt(attr, 0, 1.0)

	case hetero.RelSampledAt:
		if !hasAttr {
			attr = []float64{0, 0}
		}
		link.Weight = floatAt(attr, 0, 1.0)
		link.Week = intPtr(intAt(attr, 1, 0))

	case hetero.RelTemporal:
		if !hasAttr {
			attr = []float64{0, 0, 0}
		}
		link.Weight = floatAt(attr, 2, 1.0)
		link.TimeStart = intPtr(intAt(attr, 0, 0))
		link.TimeEnd = intPtr(intAt(attr, 1, 0))
	}
}

// sampleEdgePositions returns the edge positions to visit for a relation,
// in ascending order. With no cap (or a cap covering every edge) all
// positions are returned.
func sampleEdgePositions(rng *rand.Rand, n, limit int) []int {
	if limit <= 0 || limit >= n {
		positions := make([]int, n)
		for i := range positions {
			positions[i] = i
		}
		return positions
	}
	positions := rng.Perm(n)[:limit]
	slices.Sort(positions)
	return positions
}

func inSet(set []bool, idx int) bool {
	return idx >= 0 && idx < len(set) && set[idx]
}

func nodeID(nodeType string, idx int) string {
	// Stable string id "<type>_<index>" referenced by link endpoints.
	return nodeType + "_" + strconv.Itoa(idx)
}

func floatAt(attr []float64, i int, fallback float64) float64 {
	if i < len(attr) {
		return attr[i]
	}
	return fallback
}

func intAt(attr []float64, i, fallback int) int {
	if i < len(attr) {
		return int(attr[i])
	}
	return fallback
}

func intPtr(v int) *int { return &v }

// distinctLinkTypes returns the sorted set of relation tags that produced
// at least one link. Sorting keeps the document deterministic.
func distinctLinkTypes(links []Link) []string {
	seen := make(map[string]struct{})
	for _, l := range links {
		seen[l.Type] = struct{}{}
	}
	types := make([]string, 0, len(seen))
	for t := range seen {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
