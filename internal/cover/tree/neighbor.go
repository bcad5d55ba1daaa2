package tree

import (
	"container/heap"
	"math"
)

// Neighbor is a query result: the index of the point in the input set, the
// point itself and its distance to the query.
type Neighbor[P any] struct {
	Index    int
	Point    P
	Distance float64
}

// neighbors implements heap.Interface sorted by descending distance (max-heap).
type neighbors[P any] []Neighbor[P]

func (h neighbors[P]) Len() int           { return len(h) }
func (h neighbors[P]) Less(i, j int) bool { return h[i].Distance > h[j].Distance }
func (h neighbors[P]) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *neighbors[P]) Push(x any) {
	*h = append(*h, x.(Neighbor[P]))
}

func (h *neighbors[P]) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// collector keeps the k best neighbors seen so far.
type collector[P any] struct {
	k    int
	heap neighbors[P]
}

func newCollector[P any](k int) *collector[P] {
	return &collector[P]{k: k, heap: make(neighbors[P], 0, min(k, 64))}
}

// bound returns the distance of the k-th best neighbor, or +Inf while fewer
// than k are known.
func (c *collector[P]) bound() float64 {
	if len(c.heap) < c.k {
		return math.Inf(1)
	}
	return c.heap[0].Distance
}

// insert offers a neighbor and returns the updated bound.
func (c *collector[P]) insert(n Neighbor[P]) float64 {
	switch {
	case len(c.heap) < c.k:
		heap.Push(&c.heap, n)
	case n.Distance < c.heap[0].Distance:
		c.heap[0] = n
		heap.Fix(&c.heap, 0)
	}
	return c.bound()
}

// sorted drains the collector in ascending distance order.
func (c *collector[P]) sorted() []Neighbor[P] {
	result := make([]Neighbor[P], c.heap.Len())
	for i := len(result) - 1; i >= 0; i-- {
		result[i] = heap.Pop(&c.heap).(Neighbor[P])
	}
	return result
}
