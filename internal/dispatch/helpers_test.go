package dispatch

import (
	"fmt"
	"math"
	"testing"

	"ridepool/internal/geo"
	"ridepool/internal/graph"
)

// lon for the q-th hex column of a unit HexGrid along the equator
func col(q int) float64 { return float64(q) * math.Sqrt(3) }

type fixture struct {
	g  *graph.Graph
	ix *geo.Index
	m  *Matcher
}

func newFixture(t *testing.T, nodes []graph.Node, links []graph.Link) *fixture {
	t.Helper()
	g, err := graph.Build(nodes, links)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	ix := geo.NewIndex(g, geo.HexGrid{Size: 1})
	return &fixture{g: g, ix: ix, m: &Matcher{Graph: g, Index: ix, MaxRadius: 10, Workers: 2}}
}

func (f *fixture) driver(t *testing.T, id, node string) Driver {
	t.Helper()
	d, err := NewDriver(f.g, f.ix, id, node)
	if err != nil {
		t.Fatalf("NewDriver returned error: %v", err)
	}
	return d
}

func (f *fixture) rider(t *testing.T, id, node string) Rider {
	t.Helper()
	r, err := NewRider(f.g, f.ix, id, node)
	if err != nil {
		t.Fatalf("NewRider returned error: %v", err)
	}
	return r
}

// lineFixture is D - A - B - X - E on one hex row, unit weights.
func lineFixture(t *testing.T) *fixture {
	names := []string{"D", "A", "B", "X", "E"}
	var nodes []graph.Node
	var links []graph.Link
	for i, n := range names {
		nodes = append(nodes, graph.Node{ID: n, Lat: 0, Lon: col(i)})
		if i > 0 {
			links = append(links, graph.Link{Source: names[i-1], Target: n, Length: 1})
		}
	}
	return newFixture(t, nodes, links)
}

// gridFixture is an n x n lattice with varied weights.
func gridFixture(t *testing.T, n int) *fixture {
	var nodes []graph.Node
	var links []graph.Link
	id := func(r, c int) string { return fmt.Sprintf("%d-%d", r, c) }
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			nodes = append(nodes, graph.Node{ID: id(r, c), Lat: float64(r) * 1.5, Lon: col(c)})
			if c+1 < n {
				links = append(links, graph.Link{Source: id(r, c), Target: id(r, c+1), Length: float64(1 + (r*7+c*3)%5)})
			}
			if r+1 < n {
				links = append(links, graph.Link{Source: id(r, c), Target: id(r+1, c), Length: float64(1 + (r*2+c*5)%4)})
			}
		}
	}
	return newFixture(t, nodes, links)
}
