package dag

import (
	"errors"
	"reflect"
	"testing"
)

func build(t *testing.T, nodes []string, edges [][2]string) *DAG {
	t.Helper()
	g := New()
	for _, id := range nodes {
		if err := g.AddNode(Node{ID: id}); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(Edge{From: e[0], To: e[1]}); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestAddNode(t *testing.T) {
	g := New()
	if err := g.AddNode(Node{}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("AddNode(empty) = %v, want ErrInvalidNodeID", err)
	}
	if err := g.AddNode(Node{ID: "a"}); err != nil {
		t.Fatal(err)
	}
	if err := g.AddNode(Node{ID: "a"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("AddNode(dup) = %v, want ErrDuplicateNodeID", err)
	}
	n, _ := g.Node("a")
	if n.Meta == nil {
		t.Error("Meta not initialized")
	}
}

func TestAddEdge(t *testing.T) {
	g := build(t, []string{"a", "b"}, nil)

	if err := g.AddEdge(Edge{From: "x", To: "b"}); !errors.Is(err, ErrUnknownSourceNode) {
		t.Errorf("AddEdge(unknown from) = %v", err)
	}
	if err := g.AddEdge(Edge{From: "a", To: "x"}); !errors.Is(err, ErrUnknownTargetNode) {
		t.Errorf("AddEdge(unknown to) = %v", err)
	}
	_ = g.AddEdge(Edge{From: "a", To: "b"})
	_ = g.AddEdge(Edge{From: "a", To: "b"})
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, duplicate edges must be ignored", g.EdgeCount())
	}

	g.RemoveEdge("a", "b")
	if g.EdgeCount() != 0 || len(g.Children("a")) != 0 || g.InDegree("b") != 0 {
		t.Error("RemoveEdge left the edge behind")
	}
}

func TestNodesSorted(t *testing.T) {
	g := build(t, []string{"c", "b", "a"}, [][2]string{{"a", "b"}, {"c", "b"}})

	if g.InDegree("b") != 2 || g.InDegree("a") != 0 {
		t.Errorf("InDegree(b) = %d, InDegree(a) = %d", g.InDegree("b"), g.InDegree("a"))
	}
	if got := NodeIDs(g.Nodes()); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("Nodes() = %v, want sorted", got)
	}
}

func TestFindCycle(t *testing.T) {
	tests := []struct {
		name  string
		nodes []string
		edges [][2]string
		want  []string
	}{
		{"acyclic", []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}}, nil},
		{"diamond", []string{"a", "b", "c", "d"}, [][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}}, nil},
		{"self loop", []string{"a"}, [][2]string{{"a", "a"}}, []string{"a", "a"}},
		{"triangle", []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}}, []string{"a", "b", "c", "a"}},
		{"cycle below entry", []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "b"}}, []string{"b", "c", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := build(t, tt.nodes, tt.edges)
			if got := g.FindCycle(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FindCycle() = %v, want %v", got, tt.want)
			}
			err := g.Validate()
			if (tt.want != nil) != errors.Is(err, ErrGraphHasCycle) {
				t.Errorf("Validate() = %v", err)
			}
		})
	}
}

func TestTopologicalOrder(t *testing.T) {
	g := build(t, []string{"app", "lib", "core"}, [][2]string{{"app", "lib"}, {"lib", "core"}, {"app", "core"}})
	order, err := g.TopologicalOrder()
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"core", "lib", "app"}; !reflect.DeepEqual(order, want) {
		t.Errorf("TopologicalOrder() = %v, want %v", order, want)
	}

	cyclic := build(t, []string{"a", "b"}, [][2]string{{"a", "b"}, {"b", "a"}})
	if _, err := cyclic.TopologicalOrder(); !errors.Is(err, ErrGraphHasCycle) {
		t.Errorf("TopologicalOrder() on cycle = %v", err)
	}
}

func TestRows(t *testing.T) {
	g := build(t, []string{"a", "b", "c"}, nil)
	g.SetRows(map[string]int{"b": 1, "c": 2, "missing": 5})
	if g.MaxRow() != 2 {
		t.Errorf("MaxRow() = %d", g.MaxRow())
	}
	if got := NodeIDs(g.NodesInRow(1)); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("NodesInRow(1) = %v", got)
	}
}
