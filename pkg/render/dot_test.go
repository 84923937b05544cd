package render

import (
	"context"
	"strings"
	"testing"

	"github.com/mt-software-de/wodoo/pkg/dag"
	"github.com/mt-software-de/wodoo/pkg/dag/transform"
)

func saleGraph(t *testing.T) *dag.DAG {
	t.Helper()
	g := dag.New()
	nodes := []dag.Node{
		{ID: "sale", Meta: dag.Metadata{"root": true, "version": "14.0.1.0.0", "path": "/addons/sale"}},
		{ID: "product", Meta: dag.Metadata{"path": "/addons/product"}},
		{ID: "mail"},
	}
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range []dag.Edge{{From: "sale", To: "product"}, {From: "sale", To: "mail"}, {From: "product", To: "mail"}} {
		if err := g.AddEdge(e); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestToDOT(t *testing.T) {
	g := transform.Normalize(saleGraph(t), true)

	got := ToDOT(g, Options{Ranks: true})
	want := `digraph modules {
  rankdir=TB;
  bgcolor="transparent";
  node [shape=box, style="rounded,filled", fillcolor=white, fontsize=14, margin="0.2,0.1"];
  ranksep=0.5;
  nodesep=0.3;

  "mail" [label="mail"];
  "product" [label="product"];
  "sale" [label="sale", fillcolor=lightblue, penwidth=2];

  "product" -> "mail";
  "sale" -> "product";

  { rank=same; "sale"; }
  { rank=same; "product"; }
  { rank=same; "mail"; }
}
`
	if got != want {
		t.Errorf("ToDOT() =\n%s\nwant\n%s", got, want)
	}
}

func TestToDOTDetailed(t *testing.T) {
	got := ToDOT(saleGraph(t), Options{Detailed: true})

	tests := []struct {
		name string
		want string
	}{
		{"metadata sorted", `"sale" [label="sale\npath: /addons/sale\nversion: 14.0.1.0.0"`},
		{"plain node", `"mail" [label="mail"]`},
		{"unreduced edge kept", `"sale" -> "mail";`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(got, tt.want) {
				t.Errorf("DOT lacks %s:\n%s", tt.want, got)
			}
		})
	}
	if strings.Contains(got, "rank=same") {
		t.Error("ranks must only be emitted on request")
	}
}

func TestToDOTDeterministic(t *testing.T) {
	first := ToDOT(saleGraph(t), Options{Detailed: true, Ranks: true})
	for range 5 {
		if got := ToDOT(saleGraph(t), Options{Detailed: true, Ranks: true}); got != first {
			t.Fatalf("ToDOT() not deterministic:\n%s\nvs\n%s", got, first)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(saleGraph(t), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	out := string(svg)
	if !strings.Contains(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `) {
		t.Errorf("svg header not normalized:\n%.300s", out)
	}
	if !strings.Contains(out, ">product<") {
		t.Error("svg lacks the product node")
	}
}

func TestRenderSVGInvalid(t *testing.T) {
	if _, err := RenderSVG(context.Background(), "digraph {"); err == nil {
		t.Error("RenderSVG accepted broken DOT")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"rewritten",
			`<svg width="62pt" height="44pt" viewBox="0.00 0.00 62.00 44.00"><g/></svg>`,
			`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 44.00" width="62" height="44"><g/></svg>`,
		},
		{"no viewBox", `<svg><g/></svg>`, `<svg><g/></svg>`},
		{"zero size", `<svg viewBox="0 0 0 10"></svg>`, `<svg viewBox="0 0 0 10"></svg>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(normalizeViewBox([]byte(tt.in))); got != tt.want {
				t.Errorf("normalizeViewBox() = %s, want %s", got, tt.want)
			}
		})
	}
}
