package transform

import "github.com/mt-software-de/wodoo/pkg/dag"

// Normalize optionally removes transitive edges and then assigns layers.
func Normalize(g *dag.DAG, reduce bool) *dag.DAG {
	if reduce {
		TransitiveReduction(g)
	}
	AssignLayers(g)
	return g
}
