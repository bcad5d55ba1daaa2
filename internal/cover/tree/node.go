package tree

import "math"

// span addresses a contiguous run of an arena slice.
type span struct {
	off int32
	n   int32
}

// node is a cover-tree node stored in the tree arena. Its members are the
// routing point followed by its singletons; its children are node ids.
type node struct {
	maxDist  float64
	members  span
	children span
}

// alloc reserves a node id; spans are filled in by finish once the node's
// children have been built.
func (t *Tree[P]) alloc() int32 {
	id := int32(len(t.nodes))
	t.nodes = append(t.nodes, node{})
	if t.full() {
		t.parentDist = append(t.parentDist, 0)
	}
	return id
}

func (t *Tree[P]) finish(id, routing int32, maxDist, parentDist float64, singletons []entry, children []int32) {
	n := &t.nodes[id]
	n.maxDist = maxDist
	n.members = span{off: int32(len(t.members)), n: int32(len(singletons) + 1)}
	n.children = span{off: int32(len(t.edges)), n: int32(len(children))}
	t.members = append(t.members, routing)
	for _, s := range singletons {
		t.members = append(t.members, s.idx)
	}
	t.edges = append(t.edges, children...)
	if t.full() {
		t.parentDist[id] = parentDist
		t.memberDist = append(t.memberDist, 0)
		for _, s := range singletons {
			t.memberDist = append(t.memberDist, s.dist)
		}
	}
}

func (t *Tree[P]) full() bool { return t.cfg.Variant == VariantFull }

// routing returns the point index of the node's routing point.
func (t *Tree[P]) routing(id int32) int32 {
	return t.members[t.nodes[id].members.off]
}

func (t *Tree[P]) childIDs(id int32) []int32 {
	c := t.nodes[id].children
	return t.edges[c.off : c.off+c.n]
}

// routedByChild reports whether the node's routing point is carried down by
// its first child. Otherwise queries report the routing point at this node.
func (t *Tree[P]) routedByChild(id int32) bool {
	c := t.nodes[id].children
	return c.n > 0 && t.routing(t.edges[c.off]) == t.routing(id)
}

// memberBound returns a lower bound on the distance to a member of node id,
// given the distance d to the node's routing point.
func (t *Tree[P]) memberBound(id int32, member int32, d float64) float64 {
	if t.full() {
		return d - t.memberDist[member]
	}
	return d - t.nodes[id].maxDist
}

// childBound returns a lower bound on the distance to anything below child c
// of a node whose routing point is at distance d, without evaluating the
// distance to c's routing point. Only the full variant can tighten it.
func (t *Tree[P]) childBound(c int32, d float64) float64 {
	if t.full() {
		return d - t.nodes[c].maxDist - t.parentDist[c]
	}
	return math.Inf(-1)
}
