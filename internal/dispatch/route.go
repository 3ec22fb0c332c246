package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"

	"ridepool/internal/navigation"
)

// MaxPickups caps the riders of one route. The search tries every pickup
// order for every candidate driver, which stops being cheap past three.
const MaxPickups = 3

// Route is a driver's trip through every pickup to the shared destination.
type Route struct {
	Driver      Driver
	Order       []Rider // pickup order
	Destination string
	Path        []string                // full node sequence, junctions not repeated
	Cost        float64                 // sum of segment distances
	Segments    []navigation.PathResult // driver->first pickup, ..., last pickup->destination
}

// Visited concatenates the visitation traces of every segment, in route
// order.
func (r Route) Visited() []string {
	var out []string
	for _, s := range r.Segments {
		out = append(out, s.Visited...)
	}
	return out
}

// OptimizePool routes two riders to a shared destination.
func (m *Matcher) OptimizePool(ctx context.Context, a, b Rider, destination string, drivers []Driver) (Route, error) {
	return m.OptimizeRoute(ctx, []Rider{a, b}, destination, drivers)
}

// OptimizeRoute picks the driver and pickup order with the lowest total
// road distance. Candidate drivers are the closest driver of each rider;
// every ordering of the pickups is tried for each of them and orderings
// with an unreachable leg are dropped. Equal costs keep the first
// evaluated: drivers in rider order, orderings in lexicographic order.
func (m *Matcher) OptimizeRoute(ctx context.Context, riders []Rider, destination string, drivers []Driver) (Route, error) {
	switch {
	case len(riders) == 0:
		return Route{}, ErrNoPickups
	case len(riders) > MaxPickups:
		return Route{}, fmt.Errorf("%d riders, at most %d: %w", len(riders), MaxPickups, ErrTooManyPickups)
	}
	for i, r := range riders {
		if r.Location == destination {
			return Route{}, fmt.Errorf("rider %s at %s: %w", r.ID, destination, ErrPickupAtDestination)
		}
		if slices.ContainsFunc(riders[:i], func(o Rider) bool { return o.ID == r.ID }) {
			return Route{}, fmt.Errorf("rider %s: %w", r.ID, ErrDuplicateID)
		}
	}

	table := make(map[segment]navigation.PathResult)
	var candidates []Driver
	for _, r := range riders {
		match, err := m.MatchDriver(ctx, r, drivers)
		if errors.Is(err, ErrNoMatch) {
			log.Printf("dispatch: %v", err)
			continue
		}
		if err != nil {
			return Route{}, err
		}
		table[segment{match.Driver.Location, r.Location}] = match.Path
		if !containsDriver(candidates, match.Driver.ID) {
			candidates = append(candidates, match.Driver)
		}
	}
	if len(candidates) == 0 {
		return Route{}, fmt.Errorf("no driver reaches any of %d riders: %w", len(riders), ErrNoMatch)
	}

	orders := permutations(len(riders))

	var pending []segment
	need := func(s segment) {
		if _, ok := table[s]; ok {
			return
		}
		table[s] = navigation.PathResult{}
		pending = append(pending, s)
	}
	for _, d := range candidates {
		for _, r := range riders {
			need(segment{d.Location, r.Location})
		}
	}
	for i, a := range riders {
		for j, b := range riders {
			if i != j {
				need(segment{a.Location, b.Location})
			}
		}
		need(segment{a.Location, destination})
	}

	paths, err := m.solve(ctx, pending)
	if err != nil {
		return Route{}, err
	}
	for i, s := range pending {
		table[s] = paths[i]
	}

	var best *Route
	for _, d := range candidates {
		for _, order := range orders {
			route, ok := assemble(table, d, riders, order, destination)
			if !ok {
				continue
			}
			if best == nil || route.Cost < best.Cost {
				best = &route
			}
		}
	}
	if best == nil {
		return Route{}, fmt.Errorf("%d drivers x %d orderings: %w", len(candidates), len(orders), ErrInfeasiblePool)
	}
	return *best, nil
}

// assemble builds one candidate route. It reports false if any leg is
// unreachable or was never computed.
func assemble(table map[segment]navigation.PathResult, d Driver, riders []Rider, order []int, destination string) (Route, bool) {
	route := Route{Driver: d, Destination: destination}

	stops := make([]string, 0, len(order)+2)
	stops = append(stops, d.Location)
	for _, i := range order {
		route.Order = append(route.Order, riders[i])
		stops = append(stops, riders[i].Location)
	}
	stops = append(stops, destination)

	for i := 0; i+1 < len(stops); i++ {
		leg, ok := table[segment{stops[i], stops[i+1]}]
		if !ok || !leg.Reachable() {
			return Route{}, false
		}
		route.Segments = append(route.Segments, leg)
		route.Cost += leg.Distance
	}
	route.Path = joinPaths(route.Segments)
	return route, true
}

// joinPaths concatenates segment paths, dropping the first node of every
// segment after the first since it repeats the previous segment's end.
func joinPaths(segs []navigation.PathResult) []string {
	var path []string
	for i, s := range segs {
		if i == 0 {
			path = append(path, s.Path...)
			continue
		}
		if len(s.Path) > 1 {
			path = append(path, s.Path[1:]...)
		}
	}
	return path
}

// permutations lists every ordering of 0..n-1 in lexicographic order.
func permutations(n int) [][]int {
	var out [][]int
	used := make([]bool, n)
	cur := make([]int, 0, n)
	var walk func()
	walk = func() {
		if len(cur) == n {
			out = append(out, append([]int(nil), cur...))
			return
		}
		for i := 0; i < n; i++ {
			if used[i] {
				continue
			}
			used[i] = true
			cur = append(cur, i)
			walk()
			cur = cur[:len(cur)-1]
			used[i] = false
		}
	}
	walk()
	return out
}

func containsDriver(ds []Driver, id string) bool {
	for _, d := range ds {
		if d.ID == id {
			return true
		}
	}
	return false
}
