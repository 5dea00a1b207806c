package hetero

import (
	"errors"
	"slices"
)

var (
	// ErrEmptyKey is returned by [NewIndex] when a key is empty.
	// All node identifiers must be non-empty strings.
	ErrEmptyKey = errors.New("index key must not be empty")

	// ErrDuplicateKey is returned by [NewIndex] when a key appears twice.
	// The identifier ↔ index mapping must be a bijection.
	ErrDuplicateKey = errors.New("duplicate index key")

	// ErrLengthMismatch is returned by [NewEdgeSet] when the source and
	// destination slices (or the attribute rows) differ in length.
	ErrLengthMismatch = errors.New("edge slices must have equal length")

	// ErrUnknownRelation is returned by [Graph.SetEdges] for a relation
	// name outside the known schema.
	ErrUnknownRelation = errors.New("unknown relation type")
)

// Node types.
const (
	NodeAirport = "airport"
	NodeLineage = "lineage"
)

// Relation names.
const (
	RelFlight      = "flight"
	RelSampledAt   = "sampled_at"
	RelEvolvesFrom = "evolves_from"
	RelTemporal    = "temporal"
)

// Relation describes a named edge category and its endpoint node types.
type Relation struct {
	Name string // relation tag, e.g. "flight"
	Src  string // source node type
	Dst  string // destination node type
}

// Relations is the known relation schema, keyed by relation name.
var Relations = map[string]Relation{
	RelFlight:      {Name: RelFlight, Src: NodeAirport, Dst: NodeAirport},
	RelSampledAt:   {Name: RelSampledAt, Src: NodeLineage, Dst: NodeAirport},
	RelEvolvesFrom: {Name: RelEvolvesFrom, Src: NodeLineage, Dst: NodeLineage},
	RelTemporal:    {Name: RelTemporal, Src: NodeLineage, Dst: NodeLineage},
}

// RelationNames returns the known relation names in a fixed order.
// The order matches the original export sequence: flights first, then
// sampling, evolution, and temporal edges.
func RelationNames() []string {
	return []string{RelFlight, RelSampledAt, RelEvolvesFrom, RelTemporal}
}

// =============================================================================
// Index - identifier ↔ dense index bijection
// =============================================================================

// Index is a bijection between a domain identifier (airport code, lineage
// name) and a dense integer index in [0, Len). Indices are assigned in key
// order at construction and never change afterwards.
type Index struct {
	keys  []string
	toIdx map[string]int
}

// NewIndex builds an Index assigning dense indices 0..len(keys)-1 in order.
// Returns [ErrEmptyKey] or [ErrDuplicateKey] for invalid inputs.
func NewIndex(keys []string) (*Index, error) {
	ix := &Index{
		keys:  make([]string, len(keys)),
		toIdx: make(map[string]int, len(keys)),
	}
	for i, k := range keys {
		if k == "" {
			return nil, ErrEmptyKey
		}
		if _, exists := ix.toIdx[k]; exists {
			return nil, ErrDuplicateKey
		}
		ix.keys[i] = k
		ix.toIdx[k] = i
	}
	return ix, nil
}

// Len returns the number of entries in the index.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.keys)
}

// Key returns the identifier for idx, and whether idx is in range.
func (ix *Index) Key(idx int) (string, bool) {
	if ix == nil || idx < 0 || idx >= len(ix.keys) {
		return "", false
	}
	return ix.keys[idx], true
}

// Idx returns the dense index for key, and whether the key is present.
func (ix *Index) Idx(key string) (int, bool) {
	if ix == nil {
		return 0, false
	}
	i, ok := ix.toIdx[key]
	return i, ok
}

// Keys returns a copy of all identifiers in index order.
func (ix *Index) Keys() []string {
	if ix == nil {
		return nil
	}
	return slices.Clone(ix.keys)
}

// =============================================================================
// EdgeSet - per-relation edge index and attribute arrays
// =============================================================================

// EdgeSet holds the edges of one relation as parallel source/destination
// index slices, plus an optional attribute row per edge (weights, time
// markers). Attr is nil when the relation carries no attributes.
//
// Index values are not validated against any Index here; the exporter
// drops edges whose endpoints fail the membership test (out-of-range
// indices included).
type EdgeSet struct {
	Src  []int
	Dst  []int
	Attr [][]float64
}

// NewEdgeSet builds an EdgeSet, validating that src and dst (and attr, when
// non-nil) have equal lengths. Returns [ErrLengthMismatch] otherwise.
func NewEdgeSet(src, dst []int, attr [][]float64) (*EdgeSet, error) {
	if len(src) != len(dst) {
		return nil, ErrLengthMismatch
	}
	if attr != nil && len(attr) != len(src) {
		return nil, ErrLengthMismatch
	}
	return &EdgeSet{Src: src, Dst: dst, Attr: attr}, nil
}

// Len returns the number of edges in the set.
func (e *EdgeSet) Len() int {
	if e == nil {
		return 0
	}
	return len(e.Src)
}

// AttrAt returns the attribute row for edge i, or nil when the set carries
// no attributes.
func (e *EdgeSet) AttrAt(i int) []float64 {
	if e == nil || e.Attr == nil || i < 0 || i >= len(e.Attr) {
		return nil
	}
	return e.Attr[i]
}

// =============================================================================
// Graph - node indices plus per-relation edge sets
// =============================================================================

// Graph is a heterogeneous graph over airports and lineages. It is
// constructed once by an upstream builder and read by the exporter; it is
// never mutated after construction.
type Graph struct {
	Airports *Index
	Lineages *Index

	edges map[string]*EdgeSet
}

// New creates an empty graph with the given node indices.
// Either index may be nil; the exporter rejects graphs with nil indices.
func New(airports, lineages *Index) *Graph {
	return &Graph{
		Airports: airports,
		Lineages: lineages,
		edges:    make(map[string]*EdgeSet),
	}
}

// SetEdges attaches the edge set for a relation, replacing any previous set.
// Returns [ErrUnknownRelation] for names outside the schema.
func (g *Graph) SetEdges(relation string, es *EdgeSet) error {
	if _, ok := Relations[relation]; !ok {
		return ErrUnknownRelation
	}
	g.edges[relation] = es
	return nil
}

// Edges returns the edge set for a relation, and whether it is present.
func (g *Graph) Edges(relation string) (*EdgeSet, bool) {
	es, ok := g.edges[relation]
	return es, ok
}

// HasRelation reports whether the graph carries edges for the relation.
func (g *Graph) HasRelation(relation string) bool {
	_, ok := g.edges[relation]
	return ok
}

// EdgeCount returns the total number of edges across all relations.
func (g *Graph) EdgeCount() int {
	total := 0
	for _, es := range g.edges {
		total += es.Len()
	}
	return total
}
