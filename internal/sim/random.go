package sim

import (
	"fmt"
	"math/rand/v2"
)

// pickDistinct returns k different entries of nodes.
func pickDistinct(rng *rand.Rand, nodes []string, k int) ([]string, error) {
	if k > len(nodes) {
		return nil, fmt.Errorf("need %d distinct nodes, map has %d", k, len(nodes))
	}
	perm := rng.Perm(len(nodes))[:k]
	out := make([]string, k)
	for i, p := range perm {
		out[i] = nodes[p]
	}
	return out, nil
}

// PoolTrip is one random shared ride request.
type PoolTrip struct {
	Pickups     []string
	Destination string
}

// RandomTrip draws riders pickups and a destination, all distinct.
func RandomTrip(rng *rand.Rand, nodes []string, riders int) (PoolTrip, error) {
	picked, err := pickDistinct(rng, nodes, riders+1)
	if err != nil {
		return PoolTrip{}, err
	}
	return PoolTrip{Pickups: picked[:riders], Destination: picked[riders]}, nil
}
