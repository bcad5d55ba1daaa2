package tree

import (
	"container/heap"
	"fmt"
	"math"
)

type nodeItem struct {
	node int32
	// lb is a lower bound on the distance from the query to the subtree.
	lb float64
	// dist is the distance from the query to the node's routing point.
	dist float64
}

// nodeQueue is a min-heap of nodes ordered by lower bound.
type nodeQueue []nodeItem

func (q nodeQueue) Len() int            { return len(q) }
func (q nodeQueue) Less(i, j int) bool  { return q[i].lb < q[j].lb }
func (q nodeQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *nodeQueue) Push(x interface{}) { *q = append(*q, x.(nodeItem)) }
func (q *nodeQueue) Pop() interface{} {
	old := *q
	n := len(old)
	x := old[n-1]
	*q = old[:n-1]
	return x
}

// KNN returns the k points closest to query in ascending distance order.
// Fewer are returned when the tree holds fewer than k points. Ties are
// broken arbitrarily.
func (t *Tree[P]) KNN(query P, k int) ([]Neighbor[P], error) {
	if k < 1 {
		return nil, fmt.Errorf("cover: %w: k must be at least 1, got %d", ErrInvalidArgument, k)
	}
	if len(t.nodes) == 0 {
		return nil, nil
	}
	result := newCollector[P](k)
	dk := math.Inf(1)
	pq := &nodeQueue{}
	rootDist := t.queryDistance(query, t.routing(0))
	heap.Push(pq, nodeItem{node: 0, lb: rootDist - t.nodes[0].maxDist, dist: rootDist})

	for pq.Len() > 0 {
		top := heap.Pop(pq).(nodeItem)
		// Everything left in the queue is at least as far.
		if top.lb > dk {
			break
		}
		d := top.dist
		routing := t.routing(top.node)
		for _, c := range t.childIDs(top.node) {
			if t.childBound(c, d) > dk {
				continue
			}
			cd := d
			if cr := t.routing(c); cr != routing {
				cd = t.queryDistance(query, cr)
			}
			if lb := cd - t.nodes[c].maxDist; lb <= dk {
				heap.Push(pq, nodeItem{node: c, lb: lb, dist: cd})
			}
		}
		if !t.routedByChild(top.node) && d <= dk {
			dk = result.insert(t.neighbor(routing, d))
		}
		m := t.nodes[top.node].members
		for i := m.off + 1; i < m.off+m.n; i++ {
			if t.memberBound(top.node, i, d) > dk {
				continue
			}
			if d2 := t.queryDistance(query, t.members[i]); d2 <= dk {
				dk = result.insert(t.neighbor(t.members[i], d2))
			}
		}
	}
	return result.sorted(), nil
}
