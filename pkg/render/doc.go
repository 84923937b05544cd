// Package render exports module dependency graphs.
//
// # DOT
//
// [ToDOT] converts a [dag.DAG] built by the resolver into Graphviz DOT
// source. Nodes appear as rounded boxes, edges point from a module to its
// dependencies and the requested root modules are highlighted:
//
//	g, err := deps.Graph(session, []string{"sale"})
//	dot := render.ToDOT(g, render.Options{Detailed: true})
//
// When the graph has been layered with [transform.Normalize], nodes sharing
// a row are pinned to the same rank so the picture follows the layering.
//
// # SVG
//
// [RenderSVG] lays out DOT source in-process with
// [github.com/goccy/go-graphviz], so no Graphviz installation is needed.
//
// The output is a pure function of the graph: node and edge order, labels
// and attributes are sorted.
//
// [transform.Normalize]: github.com/mt-software-de/wodoo/pkg/dag/transform
package render
