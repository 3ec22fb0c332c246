package dispatch

import (
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"ridepool/internal/geo"
	"ridepool/internal/graph"
)

// Session owns the drivers and riders placed on one loaded map. The graph
// and index are shared read-only; only the entity lists are guarded.
type Session struct {
	Graph *graph.Graph
	Index *geo.Index

	mu      sync.RWMutex
	drivers []Driver
	riders  []Rider
}

func NewSession(g *graph.Graph, ix *geo.Index) *Session {
	return &Session{Graph: g, Index: ix}
}

// PlaceDriver adds a driver. An empty id gets a generated one.
func (s *Session) PlaceDriver(id, nodeID string) (Driver, error) {
	if id == "" {
		id = uuid.NewString()
	}
	d, err := NewDriver(s.Graph, s.Index, id, nodeID)
	if err != nil {
		return Driver{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.ContainsFunc(s.drivers, func(x Driver) bool { return x.ID == id }) {
		return Driver{}, fmt.Errorf("driver %s: %w", id, ErrDuplicateID)
	}
	s.drivers = append(s.drivers, d)
	return d, nil
}

// PlaceRider adds a rider. An empty id gets a generated one.
func (s *Session) PlaceRider(id, nodeID string) (Rider, error) {
	if id == "" {
		id = uuid.NewString()
	}
	r, err := NewRider(s.Graph, s.Index, id, nodeID)
	if err != nil {
		return Rider{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.ContainsFunc(s.riders, func(x Rider) bool { return x.ID == id }) {
		return Rider{}, fmt.Errorf("rider %s: %w", id, ErrDuplicateID)
	}
	s.riders = append(s.riders, r)
	return r, nil
}

// Drivers returns a snapshot in placement order.
func (s *Session) Drivers() []Driver {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.drivers)
}

// Riders returns a snapshot in placement order.
func (s *Session) Riders() []Rider {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.riders)
}

func (s *Session) Rider(id string) (Rider, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.riders, func(r Rider) bool { return r.ID == id })
	if i < 0 {
		return Rider{}, false
	}
	return s.riders[i], true
}

// RemoveDriver takes a driver off the map. It reports whether the id was
// placed.
func (s *Session) RemoveDriver(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.drivers)
	s.drivers = slices.DeleteFunc(s.drivers, func(d Driver) bool { return d.ID == id })
	return len(s.drivers) < n
}

func (s *Session) RemoveRider(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.riders)
	s.riders = slices.DeleteFunc(s.riders, func(r Rider) bool { return r.ID == id })
	return len(s.riders) < n
}

// Reset clears every placed driver and rider.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drivers = nil
	s.riders = nil
}
