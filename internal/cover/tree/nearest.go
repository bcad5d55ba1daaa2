package tree

import (
	"container/heap"
	"iter"
	"math"
)

// searchItem is either a node to expand, a point with a lower bound only, or
// a point with its exact distance.
type searchItem struct {
	key    float64
	node   int32
	member int32
	dist   float64
	exact  bool
}

func (s searchItem) isNode() bool { return s.node >= 0 }

type searchQueue []searchItem

func (q searchQueue) Len() int            { return len(q) }
func (q searchQueue) Less(i, j int) bool  { return q[i].key < q[j].key }
func (q searchQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *searchQueue) Push(x interface{}) { *q = append(*q, x.(searchItem)) }
func (q *searchQueue) Pop() interface{} {
	old := *q
	n := len(old)
	x := old[n-1]
	*q = old[:n-1]
	return x
}

// Nearest yields the points within maxDist of query in ascending distance
// order. Distances are computed lazily, so stopping early saves work; pass
// math.Inf(1) to enumerate the whole tree. A negative or NaN maxDist yields
// nothing.
func (t *Tree[P]) Nearest(query P, maxDist float64) iter.Seq[Neighbor[P]] {
	return func(yield func(Neighbor[P]) bool) {
		if len(t.nodes) == 0 || math.IsNaN(maxDist) || maxDist < 0 {
			return
		}
		pq := &searchQueue{}
		rootDist := t.queryDistance(query, t.routing(0))
		heap.Push(pq, searchItem{key: rootDist - t.nodes[0].maxDist, node: 0, dist: rootDist})
		for pq.Len() > 0 {
			top := heap.Pop(pq).(searchItem)
			if top.key > maxDist {
				return
			}
			switch {
			case top.isNode():
				t.expand(pq, query, top, maxDist)
			case top.exact:
				if !yield(t.neighbor(t.members[top.member], top.key)) {
					return
				}
			default:
				if d := t.queryDistance(query, t.members[top.member]); d <= maxDist {
					heap.Push(pq, searchItem{key: d, node: -1, member: top.member, exact: true})
				}
			}
		}
	}
}

func (t *Tree[P]) expand(pq *searchQueue, query P, cur searchItem, maxDist float64) {
	d := cur.dist
	routing := t.routing(cur.node)
	for _, c := range t.childIDs(cur.node) {
		if t.childBound(c, d) > maxDist {
			continue
		}
		cd := d
		if cr := t.routing(c); cr != routing {
			cd = t.queryDistance(query, cr)
		}
		if lb := cd - t.nodes[c].maxDist; lb <= maxDist {
			heap.Push(pq, searchItem{key: lb, node: c, dist: cd})
		}
	}
	m := t.nodes[cur.node].members
	if !t.routedByChild(cur.node) && d <= maxDist {
		heap.Push(pq, searchItem{key: d, node: -1, member: m.off, exact: true})
	}
	for i := m.off + 1; i < m.off+m.n; i++ {
		if lb := t.memberBound(cur.node, i, d); lb <= maxDist {
			heap.Push(pq, searchItem{key: lb, node: -1, member: i})
		}
	}
}
