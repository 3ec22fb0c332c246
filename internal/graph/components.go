package graph

import "sort"

// Components groups the adjacency keys into connected components. The
// result is ordered by size, largest first, ties by first-seen node.
func (g *Graph) Components() [][]string {
	visited := make(map[string]bool, len(g.adj))
	var components [][]string

	for _, start := range g.order {
		if visited[start] {
			continue
		}
		visited[start] = true
		component := []string{start}
		for i := 0; i < len(component); i++ {
			for _, nb := range g.adj[component[i]] {
				if !visited[nb.ID] {
					visited[nb.ID] = true
					component = append(component, nb.ID)
				}
			}
		}
		components = append(components, component)
	}

	sort.SliceStable(components, func(i, j int) bool {
		return len(components[i]) > len(components[j])
	})
	return components
}

// LargestComponent returns the node ids of the biggest connected component.
func (g *Graph) LargestComponent() []string {
	components := g.Components()
	if len(components) == 0 {
		return nil
	}
	return components[0]
}

// Subgraph keeps the given nodes and every link whose endpoints are both
// kept.
func (g *Graph) Subgraph(keep []string) *Graph {
	set := make(map[string]bool, len(keep))
	for _, id := range keep {
		set[id] = true
	}

	var nodes []Node
	for _, n := range g.Nodes() {
		if set[n.ID] {
			nodes = append(nodes, n)
		}
	}
	var links []Link
	for _, l := range g.links {
		if set[l.Source] && set[l.Target] {
			links = append(links, l)
		}
	}

	// inputs already passed validation
	sub, _ := Build(nodes, links)
	return sub
}
