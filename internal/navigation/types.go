package navigation

import (
	"iter"
	"math"
)

// unreachable is the distance reported when no path exists.
var unreachable = math.Inf(1)

// PathResult is the outcome of one source/target search.
type PathResult struct {
	Path     []string // source..target, empty when unreachable
	Visited  []string // nodes in the order they were finalized
	Distance float64  // +Inf when there is no path

	members map[string]struct{}
}

func newPathResult(path, visited []string, dist float64) PathResult {
	members := make(map[string]struct{}, len(path))
	for _, id := range path {
		members[id] = struct{}{}
	}
	return PathResult{Path: path, Visited: visited, Distance: dist, members: members}
}

// Reachable reports whether a path was found. The zero PathResult is not
// reachable; a found path always holds at least the source.
func (r PathResult) Reachable() bool {
	return len(r.Path) > 0 && !math.IsInf(r.Distance, 1)
}

// Contains reports whether id lies on the path.
func (r PathResult) Contains(id string) bool {
	_, ok := r.members[id]
	return ok
}

// Trace yields the visitation order. The sequence can be ranged over any
// number of times.
func (r PathResult) Trace() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, id := range r.Visited {
			if !yield(id) {
				return
			}
		}
	}
}
