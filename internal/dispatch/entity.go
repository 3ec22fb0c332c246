package dispatch

import (
	"fmt"

	"ridepool/internal/geo"
	"ridepool/internal/graph"
)

// Driver is a vehicle parked on a graph node.
type Driver struct {
	ID       string     `json:"id"`
	Location string     `json:"node"`
	CellID   geo.CellID `json:"cell"`
}

func (d Driver) Cell() geo.CellID { return d.CellID }

// Rider is a pickup request on a graph node.
type Rider struct {
	ID       string     `json:"id"`
	Location string     `json:"node"`
	CellID   geo.CellID `json:"cell"`
}

func (r Rider) Cell() geo.CellID { return r.CellID }

func locate(g *graph.Graph, ix *geo.Index, nodeID string) (geo.CellID, error) {
	if !g.Has(nodeID) {
		return 0, fmt.Errorf("%w: %q", ErrUnknownNode, nodeID)
	}
	cell, ok := ix.CellOf(nodeID)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNoCell, nodeID)
	}
	return cell, nil
}

// NewDriver places a driver on nodeID and derives its cell.
func NewDriver(g *graph.Graph, ix *geo.Index, id, nodeID string) (Driver, error) {
	cell, err := locate(g, ix, nodeID)
	if err != nil {
		return Driver{}, fmt.Errorf("driver %s: %w", id, err)
	}
	return Driver{ID: id, Location: nodeID, CellID: cell}, nil
}

// NewRider places a rider on nodeID and derives its cell.
func NewRider(g *graph.Graph, ix *geo.Index, id, nodeID string) (Rider, error) {
	cell, err := locate(g, ix, nodeID)
	if err != nil {
		return Rider{}, fmt.Errorf("rider %s: %w", id, err)
	}
	return Rider{ID: id, Location: nodeID, CellID: cell}, nil
}
