// Package diagram generates the paper figures for the viral spread
// prediction system: architecture overview, data pipeline, graph structure,
// model architecture, and training workflow.
//
// Each figure is built as a Graphviz DOT digraph and rendered to SVG or PNG
// through goccy/go-graphviz. The report helper assembles all rendered
// figures into a single PDF at one figure per page.
package diagram
