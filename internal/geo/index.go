package geo

import (
	"errors"
	"fmt"
	"log"

	"ridepool/internal/graph"
)

// ErrNoCandidates is returned when a radius search comes up empty and no
// fallback is configured.
var ErrNoCandidates = errors.New("no candidates within search radius")

// Index maps every graph node with coordinates to its cell. It is built
// once and only read afterwards.
type Index struct {
	grid  Grid
	cells map[string]CellID
}

// NewIndex computes the cell of every node record in g.
func NewIndex(g *graph.Graph, grid Grid) *Index {
	nodes := g.Nodes()
	ix := &Index{grid: grid, cells: make(map[string]CellID, len(nodes))}
	for _, n := range nodes {
		ix.cells[n.ID] = grid.CellFor(n.Lat, n.Lon)
	}
	return ix
}

// CellOf returns the precomputed cell of a node. Nodes without
// coordinates have no cell.
func (ix *Index) CellOf(nodeID string) (CellID, bool) {
	c, ok := ix.cells[nodeID]
	return c, ok
}

// Ring returns the disk of cells within radius steps of cell.
func (ix *Index) Ring(cell CellID, radius int) CellSet {
	return NewCellSet(ix.grid.Disk(cell, radius))
}

// Len is the number of indexed nodes.
func (ix *Index) Len() int { return len(ix.cells) }

// Located is anything that sits in a cell.
type Located interface {
	Cell() CellID
}

// Candidates is the outcome of FindCandidates. Fallback is set when Items
// is the whole pool rather than the members of the Radius disk.
type Candidates[T Located] struct {
	Items    []T
	Radius   int
	Fallback bool
}

// FindCandidates widens the disk around ref one step at a time, starting
// at radius 0, and returns the pool members whose cell is inside the first
// disk that contains any. Pool order is kept.
func FindCandidates[T Located](ix *Index, ref CellID, pool []T, maxRadius int, policy FallbackPolicy) (Candidates[T], error) {
	if maxRadius < 0 {
		return Candidates[T]{}, fmt.Errorf("max radius must not be negative, got %d", maxRadius)
	}

	for radius := 0; radius <= maxRadius; radius++ {
		ring := ix.Ring(ref, radius)
		var found []T
		for _, e := range pool {
			if ring.Contains(e.Cell()) {
				found = append(found, e)
			}
		}
		if len(found) > 0 {
			return Candidates[T]{Items: found, Radius: radius}, nil
		}
	}

	if policy == FallbackAll && len(pool) > 0 {
		log.Printf("geo: no candidates around cell %s within radius %d, falling back to all %d entities", ref, maxRadius, len(pool))
		items := make([]T, len(pool))
		copy(items, pool)
		return Candidates[T]{Items: items, Radius: maxRadius, Fallback: true}, nil
	}
	return Candidates[T]{Radius: maxRadius}, fmt.Errorf("cell %s radius %d: %w", ref, maxRadius, ErrNoCandidates)
}
