// Package hetero provides the heterogeneous graph model for viral lineage
// spread over an international flight network.
//
// # Overview
//
// The graph has two node types (airports and viral lineages) and four
// relation types connecting them:
//
//   - flight: airport → airport, weighted by flight count
//   - sampled_at: lineage → airport, carrying sample weight and week index
//   - evolves_from: lineage → lineage, weighted by genetic distance
//   - temporal: lineage → lineage, carrying week span and growth rate
//
// Node identities are held in an [Index], a bijection between a domain
// identifier (ICAO airport code, Pango lineage name) and a dense integer
// index. Edges are held per relation in an [EdgeSet]: parallel source and
// destination index slices plus an optional attribute row per edge.
//
// # Basic Usage
//
// Build indices with [NewIndex], edge sets with [NewEdgeSet], and combine
// them in a [Graph]:
//
//	airports, _ := hetero.NewIndex([]string{"JFK", "LAX"})
//	lineages, _ := hetero.NewIndex([]string{"B.1.1.7"})
//	g := hetero.New(airports, lineages)
//	flights, _ := hetero.NewEdgeSet([]int{0}, []int{1}, [][]float64{{42}})
//	g.SetEdges(hetero.RelFlight, flights)
//
// # Concurrency
//
// Graph instances are not safe for concurrent mutation. Read-only access
// (as performed by the exporter) can safely run in parallel.
package hetero
