package dag_test

import (
	"fmt"

	"github.com/mt-software-de/wodoo/pkg/dag"
)

func ExampleDAG_basic() {
	// sale_extra → sale → account
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "sale_extra"})
	_ = g.AddNode(dag.Node{ID: "sale"})
	_ = g.AddNode(dag.Node{ID: "account"})
	_ = g.AddEdge(dag.Edge{From: "sale_extra", To: "sale"})
	_ = g.AddEdge(dag.Edge{From: "sale", To: "account"})

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Children of sale:", g.Children("sale"))
	// Output:
	// Nodes: 3
	// Edges: 2
	// Children of sale: [account]
}

func ExampleDAG_TopologicalOrder() {
	g := dag.New()
	for _, id := range []string{"sale", "stock", "sale_stock", "product"} {
		_ = g.AddNode(dag.Node{ID: id})
	}
	_ = g.AddEdge(dag.Edge{From: "sale_stock", To: "sale"})
	_ = g.AddEdge(dag.Edge{From: "sale_stock", To: "stock"})
	_ = g.AddEdge(dag.Edge{From: "sale", To: "product"})
	_ = g.AddEdge(dag.Edge{From: "stock", To: "product"})

	order, _ := g.TopologicalOrder()
	fmt.Println(order)
	// Output:
	// [product sale stock sale_stock]
}

func ExampleDAG_FindCycle() {
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "a"})
	_ = g.AddNode(dag.Node{ID: "b"})
	_ = g.AddEdge(dag.Edge{From: "a", To: "b"})
	_ = g.AddEdge(dag.Edge{From: "b", To: "a"})

	fmt.Println(g.FindCycle())
	// Output:
	// [a b a]
}
