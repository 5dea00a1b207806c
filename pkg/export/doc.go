// Package export flattens a heterogeneous lineage/flight graph into the
// node/link JSON document consumed by force-directed web renderers.
//
// # Overview
//
// The exporter reads a [hetero.Graph], optionally subsamples nodes per type
// and edges per relation, filters edges to the retained node sets, and emits
// a flat document:
//
//	{
//	  "nodes": [ {"id": "airport_0", "index": 0, "code": "JFK", ...}, ... ],
//	  "links": [ {"source": "airport_0", "target": "airport_1",
//	              "type": "flight", "weight": 42}, ... ],
//	  "metadata": {"num_airports": 1, "num_lineages": 0, ...}
//	}
//
// Node ids are stable strings of the form "<type>_<index>". A link survives
// only when both endpoints are in the sampled node sets; edges referencing
// out-of-range or unsampled indices are dropped, not repaired.
//
// # Sampling
//
// Node and edge sampling is uniform without replacement, clamped to the
// population size. The random source is seeded ([WithSeed]) so that
// identical inputs and seed produce byte-identical output. Selected node
// indices are emitted in ascending order; subsampled edges keep their
// original relative order.
//
// # Usage
//
//	doc, err := export.Export(g,
//	    export.WithMaxAirports(500),
//	    export.WithMaxEdges(5000),
//	    export.WithAirportInfo(info),
//	    export.WithSeed(7),
//	)
//	if err != nil {
//	    return err
//	}
//	err = export.ExportJSON(doc, "graph_data.json")
package export
