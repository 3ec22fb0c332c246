package sim

import (
	"fmt"
	"log"
	"math/rand/v2"

	"ridepool/internal/graph"
	"ridepool/internal/types"
)

// World is the client side view of the map: the nodes a simulated driver
// or rider may stand on, and the API to talk to.
type World struct {
	Graph  *graph.Graph
	Nodes  []string // placeable nodes of the largest connected component
	Client *Client

	rng *rand.Rand
}

func NewWorld(mapFile, serverURL string, seed uint64) (*World, error) {
	g, err := graph.LoadFile(mapFile)
	if err != nil {
		return nil, err
	}
	return newWorld(g, NewClient(serverURL), seed), nil
}

func newWorld(g *graph.Graph, client *Client, seed uint64) *World {
	// requests between components would only measure failures
	var nodes []string
	for _, id := range g.LargestComponent() {
		if _, ok := g.Node(id); ok {
			nodes = append(nodes, id)
		}
	}
	log.Printf("sim: %d of %d nodes in the largest component", len(nodes), g.Len())
	return &World{
		Graph:  g,
		Nodes:  nodes,
		Client: client,
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// SpawnDrivers places n drivers on random distinct nodes.
func (world *World) SpawnDrivers(n int) error {
	nodes, err := pickDistinct(world.rng, world.Nodes, n)
	if err != nil {
		return err
	}
	reqs := make([]types.PlaceRequest, n)
	for i, node := range nodes {
		reqs[i] = types.PlaceRequest{ID: fmt.Sprintf("driver-%d", i), Node: node}
	}
	return world.Client.PlaceDrivers(reqs)
}

// Trips draws n random pool requests of riders each.
func (world *World) Trips(n, riders int) ([]PoolTrip, error) {
	trips := make([]PoolTrip, 0, n)
	for range n {
		t, err := RandomTrip(world.rng, world.Nodes, riders)
		if err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	return trips, nil
}
