package dispatch

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"ridepool/internal/graph"
)

func TestSessionPlaceAndReset(t *testing.T) {
	f := lineFixture(t)
	s := NewSession(f.g, f.ix)

	d, err := s.PlaceDriver("d1", "A")
	if err != nil {
		t.Fatalf("PlaceDriver returned error: %v", err)
	}
	if cell, _ := f.ix.CellOf("A"); d.CellID != cell {
		t.Errorf("driver cell %s, node cell %s", d.CellID, cell)
	}
	if _, err := s.PlaceDriver("d1", "B"); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID, got %v", err)
	}
	if _, err := s.PlaceDriver("d2", "nowhere"); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("expected ErrUnknownNode, got %v", err)
	}

	r, err := s.PlaceRider("", "B")
	if err != nil {
		t.Fatalf("PlaceRider returned error: %v", err)
	}
	if r.ID == "" {
		t.Error("expected a generated rider id")
	}
	if got, ok := s.Rider(r.ID); !ok || got != r {
		t.Errorf("Rider lookup returned %+v, %v", got, ok)
	}

	s.Reset()
	if len(s.Drivers()) != 0 || len(s.Riders()) != 0 {
		t.Error("reset left entities behind")
	}
}

func TestSessionRemove(t *testing.T) {
	f := lineFixture(t)
	s := NewSession(f.g, f.ix)
	for _, id := range []string{"d1", "d2", "d3"} {
		if _, err := s.PlaceDriver(id, "A"); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := s.PlaceRider("r1", "B"); err != nil {
		t.Fatal(err)
	}

	if !s.RemoveDriver("d2") {
		t.Error("RemoveDriver(d2) = false")
	}
	if s.RemoveDriver("d2") {
		t.Error("second RemoveDriver(d2) = true")
	}
	ds := s.Drivers()
	if len(ds) != 2 || ds[0].ID != "d1" || ds[1].ID != "d3" {
		t.Errorf("drivers = %+v, want d1, d3 in order", ds)
	}

	if !s.RemoveRider("r1") || len(s.Riders()) != 0 {
		t.Error("rider not removed")
	}
}

func TestSessionNodeWithoutCoordinates(t *testing.T) {
	f := newFixture(t, []graph.Node{{ID: "a"}}, []graph.Link{{Source: "a", Target: "ghost", Length: 1}})
	s := NewSession(f.g, f.ix)
	if _, err := s.PlaceRider("r", "ghost"); !errors.Is(err, ErrNoCell) {
		t.Fatalf("expected ErrNoCell, got %v", err)
	}
}

func TestSessionConcurrentPlacement(t *testing.T) {
	f := lineFixture(t)
	s := NewSession(f.g, f.ix)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.PlaceDriver("", "D"); err != nil {
				t.Errorf("PlaceDriver returned error: %v", err)
			}
		}()
	}
	wg.Wait()
	if n := len(s.Drivers()); n != 50 {
		t.Errorf("expected 50 drivers, got %d", n)
	}
}

func TestPlacementErrorNamesNode(t *testing.T) {
	f := lineFixture(t)
	_, err := NewDriver(f.g, f.ix, "d1", "nowhere")
	if !errors.Is(err, ErrUnknownNode) {
		t.Fatalf("expected ErrUnknownNode, got %v", err)
	}
	if want := ErrUnknownNode.Error() + `: "nowhere"`; !strings.Contains(err.Error(), want) {
		t.Errorf("error %q does not contain %q", err, want)
	}
}
