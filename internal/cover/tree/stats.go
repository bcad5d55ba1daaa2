package tree

// Stats describes the shape of a tree.
type Stats struct {
	Points int
	Nodes  int
	// MaxDepth is the depth of the deepest node; the root has depth 0.
	MaxDepth int
	AvgDepth float64
	// Singletons counts points stored in nodes besides the routing points.
	Singletons int
	// Entries counts the points reported by nodes; it equals Points.
	Entries              int
	DistanceComputations int64
}

// Stats walks the tree and returns its statistics.
func (t *Tree[P]) Stats() Stats {
	s := Stats{Points: len(t.points), DistanceComputations: t.DistanceComputations()}
	if len(t.nodes) == 0 {
		return s
	}
	type item struct {
		node  int32
		depth int
	}
	sumDepth := 0
	open := []item{{node: 0}}
	for len(open) > 0 {
		cur := open[len(open)-1]
		open = open[:len(open)-1]
		n := t.nodes[cur.node]
		s.Nodes++
		sumDepth += cur.depth
		s.MaxDepth = max(s.MaxDepth, cur.depth)
		s.Singletons += int(n.members.n) - 1
		s.Entries += int(n.members.n)
		if t.routedByChild(cur.node) {
			s.Entries--
		}
		for _, c := range t.childIDs(cur.node) {
			open = append(open, item{node: c, depth: cur.depth + 1})
		}
	}
	s.AvgDepth = float64(sumDepth) / float64(s.Nodes)
	return s
}
