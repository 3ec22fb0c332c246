package sim

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"ridepool/internal/types"
)

// Stats counts the outcome of every request in a run.
type Stats struct {
	Routed   atomic.Int64
	NotFound atomic.Int64
	Failed   atomic.Int64
	Cost     atomic.Int64 // sum of route costs, rounded
}

func (s *Stats) String() string {
	return fmt.Sprintf("routed %d | not found %d | failed %d | total cost %d",
		s.Routed.Load(), s.NotFound.Load(), s.Failed.Load(), s.Cost.Load())
}

type tripChunk struct {
	trips []PoolTrip
	first int // index of trips[0] in the run
}

const chunkSize = 25

// RunPool fires the trips at the server from concurrency workers, in
// chunks, and returns the outcome counts.
func (world *World) RunPool(trips []PoolTrip, concurrency int) *Stats {
	if concurrency < 1 {
		concurrency = 1
	}
	stats := &Stats{}
	queue := make(chan tripChunk, concurrency)

	var wg sync.WaitGroup
	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for chunk := range queue {
				world.runChunk(chunk, stats)
			}
		}()
	}

	start := time.Now()
	for i := 0; i < len(trips); i += chunkSize {
		end := min(i+chunkSize, len(trips))
		queue <- tripChunk{trips: trips[i:end], first: i}
	}
	close(queue)
	wg.Wait()

	log.Printf("sim: %d pool requests in %s: %s", len(trips), time.Since(start), stats)
	return stats
}

func (world *World) runChunk(chunk tripChunk, stats *Stats) {
	for i, trip := range chunk.trips {
		riders := make([]types.PlaceRequest, len(trip.Pickups))
		for j, node := range trip.Pickups {
			riders[j] = types.PlaceRequest{ID: fmt.Sprintf("rider-%d-%d", chunk.first+i, j), Node: node}
		}

		route, err := world.Client.RequestPool(riders, trip.Destination)
		switch {
		case err == nil:
			stats.Routed.Add(1)
			stats.Cost.Add(int64(route.Cost + 0.5))
		case errors.Is(err, ErrNotFound):
			stats.NotFound.Add(1)
		default:
			stats.Failed.Add(1)
			log.Printf("sim: pool request failed: %v", err)
		}
	}
}
