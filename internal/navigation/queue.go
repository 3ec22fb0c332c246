package navigation

import (
	"container/heap"
	"sort"
)

// Frontier is the priority structure of the search. Pop returns the entry
// with the lowest distance; equal distances come out in push order so the
// visitation trace is reproducible.
type Frontier interface {
	Push(nodeID string, dist float64)
	Pop() (nodeID string, dist float64)
	Len() int
}

type queueItem struct {
	NodeId   string
	Priority float64
	seq      uint64
}

// PriorityQueue is a binary heap frontier. Stale entries are not removed
// when a node gets a better distance; the search skips them on pop.
type PriorityQueue struct {
	items []*queueItem
	next  uint64
}

// NewPriorityQueue returns an empty heap frontier.
func NewPriorityQueue() *PriorityQueue {
	return &PriorityQueue{items: []*queueItem{}}
}

func (pq *PriorityQueue) Push(nodeID string, dist float64) {
	heap.Push((*queueHeap)(pq), &queueItem{NodeId: nodeID, Priority: dist, seq: pq.next})
	pq.next++
}

func (pq *PriorityQueue) Pop() (string, float64) {
	item := heap.Pop((*queueHeap)(pq)).(*queueItem)
	return item.NodeId, item.Priority
}

// return number of items in the queue
func (pq *PriorityQueue) Len() int { return len(pq.items) }

// queueHeap adapts PriorityQueue to container/heap without exposing the
// heap methods on the frontier itself.
type queueHeap PriorityQueue

func (h *queueHeap) Len() int { return len(h.items) }

// lowest priority first, then push order
func (h *queueHeap) Less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	return a.seq < b.seq
}

func (h *queueHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *queueHeap) Push(x any) {
	h.items = append(h.items, x.(*queueItem))
}

func (h *queueHeap) Pop() any {
	n := len(h.items)
	old := h.items[n-1]
	h.items[n-1] = nil
	h.items = h.items[:n-1]
	return old
}

// SortedQueue keeps its entries in a sorted slice. Inserts are O(n); it is
// only meant for small graphs and for checking the heap against.
type SortedQueue struct {
	items []queueItem
}

// NewSortedQueue returns an empty sorted-list frontier.
func NewSortedQueue() *SortedQueue {
	return &SortedQueue{}
}

func (q *SortedQueue) Push(nodeID string, dist float64) {
	// insert after every entry with the same priority
	i := sort.Search(len(q.items), func(i int) bool { return q.items[i].Priority > dist })
	q.items = append(q.items, queueItem{})
	copy(q.items[i+1:], q.items[i:])
	q.items[i] = queueItem{NodeId: nodeID, Priority: dist}
}

func (q *SortedQueue) Pop() (string, float64) {
	item := q.items[0]
	q.items = q.items[1:]
	return item.NodeId, item.Priority
}

func (q *SortedQueue) Len() int { return len(q.items) }
