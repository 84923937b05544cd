// Package dag provides the directed graph used to export module dependency
// graphs.
//
// # Overview
//
// Nodes are modules and an edge points from a module to one of its
// dependencies. Nodes carry a Row (layer) so exporters can rank modules by
// depth: row 0 holds the modules nothing depends on, and every dependency
// sits at least one row below its dependents.
//
// # Basic Usage
//
// Create a new graph with [New], add nodes with [DAG.AddNode], and edges with
// [DAG.AddEdge]:
//
//	g := dag.New()
//	g.AddNode(dag.Node{ID: "sale_extra"})
//	g.AddNode(dag.Node{ID: "sale"})
//	g.AddEdge(dag.Edge{From: "sale_extra", To: "sale"})
//
// Query the graph structure with [DAG.Children] and [DAG.InDegree]. Use
// [DAG.Validate] or [DAG.FindCycle] to reject cyclic dependency
// declarations, and [DAG.TopologicalOrder] for an install order.
//
// # Determinism
//
// Every accessor that returns several nodes sorts them by ID, and edges keep
// insertion order. Exported graphs are therefore byte-identical across runs.
//
// # Related Packages
//
// The [transform] subpackage assigns rows and removes redundant edges.
//
// [transform]: github.com/mt-software-de/wodoo/pkg/dag/transform
package dag
