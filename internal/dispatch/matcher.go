// Package dispatch assigns drivers to riders: the closest reachable driver
// for a single pickup, and the cheapest driver plus pickup order when riders
// share a destination.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"ridepool/internal/geo"
	"ridepool/internal/graph"
	"ridepool/internal/navigation"
)

// Matcher runs matching over one immutable graph snapshot. It holds no
// mutable state, so a single Matcher may serve concurrent requests.
type Matcher struct {
	Graph     *graph.Graph
	Index     *geo.Index
	MaxRadius int
	Fallback  geo.FallbackPolicy
	// Workers bounds the parallel shortest-path computations of one call.
	// Zero means runtime.NumCPU().
	Workers int
}

// Match is the closest driver for one rider.
type Match struct {
	Rider    Rider
	Driver   Driver
	Path     navigation.PathResult // driver location to rider pickup
	Radius   int                   // disk radius the driver was found in
	Fallback bool                  // shortlist came from the fallback policy
}

// MatchDriver shortlists drivers around the rider's cell and picks the one
// with the shortest road distance to the pickup. Equal distances go to the
// earlier driver in the shortlist.
func (m *Matcher) MatchDriver(ctx context.Context, rider Rider, drivers []Driver) (Match, error) {
	cands, err := geo.FindCandidates(m.Index, rider.CellID, drivers, m.MaxRadius, m.Fallback)
	if err != nil {
		if errors.Is(err, geo.ErrNoCandidates) {
			return Match{}, fmt.Errorf("rider %s: %w: %w", rider.ID, ErrNoMatch, err)
		}
		return Match{}, err
	}

	segs := make([]segment, len(cands.Items))
	for i, d := range cands.Items {
		segs[i] = segment{from: d.Location, to: rider.Location}
	}
	paths, err := m.solve(ctx, segs)
	if err != nil {
		return Match{}, err
	}

	best := -1
	for i, p := range paths {
		if !p.Reachable() {
			continue
		}
		if best < 0 || p.Distance < paths[best].Distance {
			best = i
		}
	}
	if best < 0 {
		return Match{}, fmt.Errorf("rider %s: all %d candidates unreachable: %w", rider.ID, len(paths), ErrNoMatch)
	}

	return Match{
		Rider:    rider,
		Driver:   cands.Items[best],
		Path:     paths[best],
		Radius:   cands.Radius,
		Fallback: cands.Fallback,
	}, nil
}

type segment struct {
	from, to string
}

func (m *Matcher) workers() int {
	if m.Workers > 0 {
		return m.Workers
	}
	return runtime.NumCPU()
}

// solve computes every segment on a bounded set of goroutines. The context
// is checked before each computation; a cancelled call returns ctx.Err().
func (m *Matcher) solve(ctx context.Context, segs []segment) ([]navigation.PathResult, error) {
	results := make([]navigation.PathResult, len(segs))
	if len(segs) == 0 {
		return results, ctx.Err()
	}

	numWorkers := min(m.workers(), len(segs))
	jobs := make(chan int)

	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for range numWorkers {
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					continue
				}
				results[i] = navigation.ShortestPath(m.Graph, segs[i].from, segs[i].to)
			}
		}()
	}

feed:
	for i := range segs {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
