package navigation

import (
	"slices"

	"ridepool/internal/graph"
)

// ShortestPath runs Dijkstra from source to target using a binary heap
// frontier. The search stops as soon as target is finalized.
func ShortestPath(g *graph.Graph, source, target string) PathResult {
	return ShortestPathWith(g, source, target, NewPriorityQueue())
}

// ShortestPathWith is ShortestPath with a caller supplied, empty frontier.
// Any Frontier that honors the ordering contract yields the same result.
func ShortestPathWith(g *graph.Graph, source, target string, pq Frontier) PathResult {
	if !g.Has(source) || !g.Has(target) {
		return newPathResult(nil, nil, unreachable)
	}

	dist := map[string]float64{source: 0}
	cameFrom := make(map[string]string)
	closed := make(map[string]bool)
	visited := make([]string, 0)

	pq.Push(source, 0)

	for pq.Len() > 0 {
		u, _ := pq.Pop()

		// stale duplicate of a finalized node
		if closed[u] {
			continue
		}
		closed[u] = true
		visited = append(visited, u)

		if u == target {
			break
		}

		du := dist[u]
		for _, nb := range g.Neighbors(u) {
			alt := du + nb.Weight
			if old, seen := dist[nb.ID]; !seen || alt < old {
				dist[nb.ID] = alt
				cameFrom[nb.ID] = u
				pq.Push(nb.ID, alt)
			}
		}
	}

	if !closed[target] {
		return newPathResult(nil, visited, unreachable)
	}
	return newPathResult(reconstructPath(cameFrom, source, target), visited, dist[target])
}

func reconstructPath(cameFrom map[string]string, source, target string) []string {
	path := []string{target}
	for current := target; current != source; {
		prev, ok := cameFrom[current]
		if !ok {
			break
		}
		path = append(path, prev)
		current = prev
	}
	slices.Reverse(path)
	return path
}
