package transform_test

import (
	"fmt"

	"github.com/mt-software-de/wodoo/pkg/dag"
	"github.com/mt-software-de/wodoo/pkg/dag/transform"
)

func ExampleNormalize() {
	g := dag.New()
	for _, id := range []string{"sale_stock", "sale", "stock", "product"} {
		_ = g.AddNode(dag.Node{ID: id})
	}
	_ = g.AddEdge(dag.Edge{From: "sale_stock", To: "sale"})
	_ = g.AddEdge(dag.Edge{From: "sale_stock", To: "stock"})
	_ = g.AddEdge(dag.Edge{From: "sale_stock", To: "product"}) // implied by sale
	_ = g.AddEdge(dag.Edge{From: "sale", To: "product"})
	_ = g.AddEdge(dag.Edge{From: "stock", To: "product"})

	transform.Normalize(g, true)

	fmt.Println("Edges:", g.EdgeCount())
	for _, n := range g.Nodes() {
		fmt.Println(n.ID, n.Row)
	}
	// Output:
	// Edges: 4
	// product 2
	// sale 1
	// sale_stock 0
	// stock 1
}

func ExampleTransitiveReduction() {
	// A → B → C with transitive edge A → C
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "A"})
	_ = g.AddNode(dag.Node{ID: "B"})
	_ = g.AddNode(dag.Node{ID: "C"})
	_ = g.AddEdge(dag.Edge{From: "A", To: "B"})
	_ = g.AddEdge(dag.Edge{From: "B", To: "C"})
	_ = g.AddEdge(dag.Edge{From: "A", To: "C"}) // Redundant

	fmt.Println("Before reduction:", g.EdgeCount(), "edges")
	transform.TransitiveReduction(g)
	fmt.Println("After reduction:", g.EdgeCount(), "edges")
	// Output:
	// Before reduction: 3 edges
	// After reduction: 2 edges
}

func ExampleAssignLayers() {
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "app"})
	_ = g.AddNode(dag.Node{ID: "lib"})
	_ = g.AddNode(dag.Node{ID: "core"})
	_ = g.AddEdge(dag.Edge{From: "app", To: "lib"})
	_ = g.AddEdge(dag.Edge{From: "app", To: "core"})
	_ = g.AddEdge(dag.Edge{From: "lib", To: "core"})

	transform.AssignLayers(g)
	for _, id := range []string{"app", "lib", "core"} {
		n, _ := g.Node(id)
		fmt.Println(id, n.Row)
	}
	// Output:
	// app 0
	// lib 1
	// core 2
}
