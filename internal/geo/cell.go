// Package geo buckets graph nodes into spatial cells and searches outward
// from a reference cell for nearby entities.
package geo

import (
	"fmt"
	"strings"
)

// CellID is an opaque cell token produced by a Grid.
type CellID uint64

func (c CellID) String() string { return fmt.Sprintf("%x", uint64(c)) }

// Grid is the hierarchical cell primitive. Both methods must be pure: the
// same inputs always give the same output.
type Grid interface {
	// CellFor returns the cell that contains the coordinate.
	CellFor(lat, lon float64) CellID
	// Disk returns every cell within k steps of cell, cell included.
	Disk(cell CellID, k int) []CellID
}

// CellSet is a set of cells with an explicit membership test.
type CellSet map[CellID]struct{}

func NewCellSet(cells []CellID) CellSet {
	s := make(CellSet, len(cells))
	for _, c := range cells {
		s[c] = struct{}{}
	}
	return s
}

// Contains reports whether c is a member of the set.
func (s CellSet) Contains(c CellID) bool {
	_, ok := s[c]
	return ok
}

// FallbackPolicy decides what happens when the radius search finds nothing.
type FallbackPolicy int

const (
	// FallbackNone reports ErrNoCandidates.
	FallbackNone FallbackPolicy = iota
	// FallbackAll returns the whole pool and flags the result.
	FallbackAll
)

func (p FallbackPolicy) String() string {
	if p == FallbackAll {
		return "all"
	}
	return "none"
}

// ParseFallback reads a policy name as used in config files.
func ParseFallback(s string) (FallbackPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return FallbackNone, nil
	case "all":
		return FallbackAll, nil
	}
	return FallbackNone, fmt.Errorf("unknown fallback policy %q", s)
}
