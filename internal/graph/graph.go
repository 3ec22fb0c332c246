package graph

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Graph is an undirected weighted road network. It is never mutated after
// Build returns, so one instance can be shared by any number of goroutines.
type Graph struct {
	nodes map[string]Node
	adj   map[string][]Neighbor
	links []Link
	order []string // adjacency keys in first-seen order
}

// Build validates the input and constructs the adjacency structure. Every
// link is inserted in both directions. A node referenced only by a link
// still becomes an adjacency key, it just has no coordinates.
//
// Any malformed record fails the whole build: the returned error joins one
// *ValidationError per bad record and the graph is nil.
func Build(nodes []Node, links []Link) (*Graph, error) {
	var errs []error

	g := &Graph{
		nodes: make(map[string]Node, len(nodes)),
		adj:   make(map[string][]Neighbor, len(nodes)),
	}

	for i, n := range nodes {
		if n.ID == "" {
			errs = append(errs, &ValidationError{Kind: "node", Index: i, Field: "id", Reason: "is required"})
			continue
		}
		if !finite(n.Lat) || !finite(n.Lon) {
			errs = append(errs, &ValidationError{Kind: "node", Index: i, Field: "x/y", Reason: "must be finite"})
			continue
		}
		if _, dup := g.nodes[n.ID]; dup {
			errs = append(errs, &ValidationError{Kind: "node", Index: i, Field: "id", Reason: fmt.Sprintf("%q is duplicated", n.ID)})
			continue
		}
		g.nodes[n.ID] = n
		g.touch(n.ID)
	}

	for i, l := range links {
		switch {
		case l.Source == "":
			errs = append(errs, &ValidationError{Kind: "link", Index: i, Field: "source", Reason: "is required"})
			continue
		case l.Target == "":
			errs = append(errs, &ValidationError{Kind: "link", Index: i, Field: "target", Reason: "is required"})
			continue
		case !finite(l.Length):
			errs = append(errs, &ValidationError{Kind: "link", Index: i, Field: "length", Reason: "must be finite"})
			continue
		case l.Length < 0:
			errs = append(errs, &ValidationError{Kind: "link", Index: i, Field: "length", Reason: "must not be negative"})
			continue
		}
		g.touch(l.Source)
		g.touch(l.Target)
		g.adj[l.Source] = append(g.adj[l.Source], Neighbor{ID: l.Target, Weight: l.Length})
		g.adj[l.Target] = append(g.adj[l.Target], Neighbor{ID: l.Source, Weight: l.Length})
		g.links = append(g.links, l)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return g, nil
}

func (g *Graph) touch(id string) {
	if _, ok := g.adj[id]; ok {
		return
	}
	g.adj[id] = nil
	g.order = append(g.order, id)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Neighbors returns the adjacency list of id, or nil for an unknown id.
// The returned slice must not be modified.
func (g *Graph) Neighbors(id string) []Neighbor {
	return g.adj[id]
}

// Has reports whether id is an adjacency key.
func (g *Graph) Has(id string) bool {
	_, ok := g.adj[id]
	return ok
}

// Node returns the node record for id. Nodes that only appear in links
// have no record.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all node records in load order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.nodes))
	for _, id := range g.order {
		if n, ok := g.nodes[id]; ok {
			out = append(out, n)
		}
	}
	return out
}

// NodeIDs returns every adjacency key, sorted.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, len(g.order))
	copy(ids, g.order)
	sort.Strings(ids)
	return ids
}

// Len is the number of adjacency keys.
func (g *Graph) Len() int { return len(g.adj) }

// EdgeCount is the number of undirected links.
func (g *Graph) EdgeCount() int { return len(g.links) }

// Links returns each undirected link once, in load order.
func (g *Graph) Links() []Link {
	out := make([]Link, len(g.links))
	copy(out, g.links)
	return out
}

func (g *Graph) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "=== Graph Summary ===\n")
	fmt.Fprintf(&sb, "Nodes: %d | Links: %d\n", g.Len(), len(g.links))
	sb.WriteString("-------------------\n")

	for _, id := range g.NodeIDs() {
		if n, ok := g.nodes[id]; ok {
			fmt.Fprintf(&sb, "[Node %s] (Lat: %.5f, Lon: %.5f)\n", id, n.Lat, n.Lon)
		} else {
			fmt.Fprintf(&sb, "[Node %s] (no coordinates)\n", id)
		}
		neighbors := g.adj[id]
		if len(neighbors) == 0 {
			sb.WriteString("    (No roads)\n")
			continue
		}
		for _, nb := range neighbors {
			fmt.Fprintf(&sb, "    --> %s | Len: %.2f\n", nb.ID, nb.Weight)
		}
	}

	return sb.String()
}
