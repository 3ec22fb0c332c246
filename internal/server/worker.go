package server

import (
	"context"
	"log"
)

// job is one unit of matching work. run gets the request's context so a
// disconnected client stops the computation between paths.
type job struct {
	ctx  context.Context
	run  func(ctx context.Context) (any, error)
	resp chan jobResult
}

type jobResult struct {
	value any
	err   error
}

// WakeWorkers starts numWorkers goroutines taking jobs from the queue.
// They exit when ctx is cancelled.
func (s *Server) WakeWorkers(ctx context.Context, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go s.worker(ctx)
	}
	log.Printf("job queue started with %d workers", numWorkers)
}

func (s *Server) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.jobs:
			if err := j.ctx.Err(); err != nil {
				j.resp <- jobResult{err: err}
				continue
			}
			v, err := j.run(j.ctx)
			j.resp <- jobResult{value: v, err: err}
		}
	}
}

// submit queues fn and waits for its result or for ctx to end.
func (s *Server) submit(ctx context.Context, fn func(ctx context.Context) (any, error)) (any, error) {
	j := job{ctx: ctx, run: fn, resp: make(chan jobResult, 1)}
	select {
	case s.jobs <- j:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case res := <-j.resp:
		return res.value, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
