package graph

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func triangle(t *testing.T) *Graph {
	t.Helper()
	g, err := Build(
		[]Node{{ID: "A", Lat: 32.0, Lon: 34.0}, {ID: "B", Lat: 32.1, Lon: 34.1}, {ID: "C", Lat: 32.2, Lon: 34.2}},
		[]Link{{Source: "A", Target: "B", Length: 1}, {Source: "B", Target: "C", Length: 1}, {Source: "A", Target: "C", Length: 5}},
	)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	return g
}

func TestBuildUndirected(t *testing.T) {
	g := triangle(t)

	if g.Len() != 3 {
		t.Errorf("expected 3 nodes, got %d", g.Len())
	}
	if g.EdgeCount() != 3 {
		t.Errorf("expected 3 links, got %d", g.EdgeCount())
	}

	b := g.Neighbors("B")
	if len(b) != 2 || b[0] != (Neighbor{ID: "A", Weight: 1}) || b[1] != (Neighbor{ID: "C", Weight: 1}) {
		t.Errorf("unexpected neighbors of B: %v", b)
	}
	c := g.Neighbors("C")
	if len(c) != 2 || c[0].ID != "B" || c[1].ID != "A" || c[1].Weight != 5 {
		t.Errorf("unexpected neighbors of C: %v", c)
	}
}

func TestNeighborsUnknownNode(t *testing.T) {
	g := triangle(t)
	if nb := g.Neighbors("nope"); len(nb) != 0 {
		t.Errorf("expected no neighbors, got %v", nb)
	}
	if g.Has("nope") {
		t.Error("unknown node reported as present")
	}
}

func TestBuildLinkOnlyNodeIsKey(t *testing.T) {
	g, err := Build([]Node{{ID: "A"}}, []Link{{Source: "A", Target: "Z", Length: 2}})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if !g.Has("Z") {
		t.Fatal("node referenced only by a link must be an adjacency key")
	}
	if _, ok := g.Node("Z"); ok {
		t.Error("link-only node should have no record")
	}
	if got := g.NodeIDs(); strings.Join(got, ",") != "A,Z" {
		t.Errorf("unexpected ids %v", got)
	}
}

func TestBuildRejectsBadLinks(t *testing.T) {
	cases := []struct {
		name  string
		link  Link
		field string
	}{
		{"negative", Link{Source: "A", Target: "B", Length: -1}, "length"},
		{"nan", Link{Source: "A", Target: "B", Length: math.NaN()}, "length"},
		{"inf", Link{Source: "A", Target: "B", Length: math.Inf(1)}, "length"},
		{"no source", Link{Target: "B", Length: 1}, "source"},
		{"no target", Link{Source: "A", Length: 1}, "target"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			links := []Link{{Source: "A", Target: "B", Length: 1}, tc.link}
			g, err := Build(nil, links)
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if g != nil {
				t.Error("a failed build must not return a graph")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if verr.Index != 1 || verr.Field != tc.field {
				t.Errorf("unexpected error details: %+v", verr)
			}
		})
	}
}

func TestBuildZeroWeightIsLegal(t *testing.T) {
	if _, err := Build(nil, []Link{{Source: "A", Target: "B", Length: 0}}); err != nil {
		t.Fatalf("zero weight rejected: %v", err)
	}
}

func TestBuildDuplicateNode(t *testing.T) {
	_, err := Build([]Node{{ID: "A"}, {ID: "A"}}, nil)
	if err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestComponents(t *testing.T) {
	g, err := Build(nil, []Link{
		{Source: "x", Target: "y", Length: 1},
		{Source: "A", Target: "B", Length: 1},
		{Source: "B", Target: "C", Length: 1},
	})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	comps := g.Components()
	if len(comps) != 2 {
		t.Fatalf("expected 2 components, got %d", len(comps))
	}
	if strings.Join(g.LargestComponent(), ",") != "A,B,C" {
		t.Errorf("unexpected largest component %v", g.LargestComponent())
	}

	sub := g.Subgraph(g.LargestComponent())
	if sub.Len() != 3 || sub.EdgeCount() != 2 || sub.Has("x") {
		t.Errorf("unexpected subgraph: %d nodes, %d links", sub.Len(), sub.EdgeCount())
	}
}

func TestString(t *testing.T) {
	out := triangle(t).String()
	if !strings.Contains(out, "Nodes: 3 | Links: 3") {
		t.Errorf("summary missing counts:\n%s", out)
	}
}
