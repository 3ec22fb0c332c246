// Package scenario reads a fixed set of drivers and riders from YAML so a
// dispatch can be replayed from the command line.
package scenario

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"ridepool/internal/dispatch"
)

type Placement struct {
	ID   string `yaml:"id"`
	Node string `yaml:"node"`
}

// Scenario is a snapshot of who stands where.
//
//	drivers:
//	  - {id: d1, node: "12"}
//	riders:
//	  - {id: r1, node: "40"}
//	destination: "77"
type Scenario struct {
	Drivers     []Placement `yaml:"drivers"`
	Riders      []Placement `yaml:"riders"`
	Destination string      `yaml:"destination"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	for i, p := range sc.Drivers {
		if p.Node == "" {
			return nil, fmt.Errorf("drivers[%d]: node is required", i)
		}
	}
	for i, p := range sc.Riders {
		if p.Node == "" {
			return nil, fmt.Errorf("riders[%d]: node is required", i)
		}
	}
	return &sc, nil
}

// Apply places every driver and rider on the session. All placement
// errors are reported together.
func (sc *Scenario) Apply(s *dispatch.Session) error {
	var errs []error
	for _, p := range sc.Drivers {
		if _, err := s.PlaceDriver(p.ID, p.Node); err != nil {
			errs = append(errs, err)
		}
	}
	for _, p := range sc.Riders {
		if _, err := s.PlaceRider(p.ID, p.Node); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
