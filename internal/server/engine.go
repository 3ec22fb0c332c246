package server

import (
	"log"
	"runtime"
	"time"

	"ridepool/internal/config"
	"ridepool/internal/dispatch"
	"ridepool/internal/geo"
	"ridepool/internal/graph"
)

// Engine is the read-only routing state built once from the map file,
// plus the session of placed drivers and riders.
type Engine struct {
	Graph   *graph.Graph
	Index   *geo.Index
	Session *dispatch.Session
	Matcher *dispatch.Matcher
}

// LoadEngine reads the map file named in cfg and indexes every node.
func LoadEngine(cfg config.Config) (*Engine, error) {
	defer config.TimeTrack(time.Now(), "loading engine")

	g, err := graph.LoadFile(cfg.Server.MapFile)
	if err != nil {
		return nil, err
	}
	return NewEngine(g, cfg)
}

func NewEngine(g *graph.Graph, cfg config.Config) (*Engine, error) {
	grid, err := geo.NewGrid(cfg.Dispatch.Grid, cfg.Dispatch.Resolution, cfg.Dispatch.HexSize)
	if err != nil {
		return nil, err
	}
	policy, err := geo.ParseFallback(cfg.Dispatch.Fallback)
	if err != nil {
		return nil, err
	}
	workers := cfg.Server.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	ix := geo.NewIndex(g, grid)
	if missing := g.Len() - ix.Len(); missing > 0 {
		log.Printf("warning: %d nodes have no coordinates and cannot host drivers or riders", missing)
	}
	log.Printf("engine ready: %d nodes, %d links, %s grid, max radius %d, fallback %s",
		g.Len(), g.EdgeCount(), cfg.Dispatch.Grid, cfg.Dispatch.MaxRadius, policy)

	return &Engine{
		Graph:   g,
		Index:   ix,
		Session: dispatch.NewSession(g, ix),
		Matcher: &dispatch.Matcher{
			Graph:     g,
			Index:     ix,
			MaxRadius: cfg.Dispatch.MaxRadius,
			Fallback:  policy,
			Workers:   workers,
		},
	}, nil
}
