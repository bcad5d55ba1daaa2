package tree

import (
	"fmt"
	"math"
)

type stackItem struct {
	node int32
	// dist is the distance to the routing point when known from the parent.
	dist  float64
	known bool
}

// Range returns every point within radius of query, in no particular order.
func (t *Tree[P]) Range(query P, radius float64) ([]Neighbor[P], error) {
	if math.IsNaN(radius) || radius < 0 {
		return nil, fmt.Errorf("cover: %w: radius must be >= 0, got %v", ErrInvalidArgument, radius)
	}
	if len(t.nodes) == 0 {
		return nil, nil
	}
	var result []Neighbor[P]
	open := []stackItem{{node: 0}}
	for len(open) > 0 {
		cur := open[len(open)-1]
		open = open[:len(open)-1]
		routing := t.routing(cur.node)
		d := cur.dist
		if !cur.known {
			d = t.queryDistance(query, routing)
		}
		// Covered area not in range (metric assumption).
		if d-t.nodes[cur.node].maxDist > radius {
			continue
		}
		for _, c := range t.childIDs(cur.node) {
			if t.childBound(c, d) > radius {
				continue
			}
			same := t.routing(c) == routing
			open = append(open, stackItem{node: c, dist: d, known: same})
		}
		if !t.routedByChild(cur.node) && d <= radius {
			result = append(result, t.neighbor(routing, d))
		}
		m := t.nodes[cur.node].members
		for i := m.off + 1; i < m.off+m.n; i++ {
			if t.memberBound(cur.node, i, d) > radius {
				continue
			}
			if d2 := t.queryDistance(query, t.members[i]); d2 <= radius {
				result = append(result, t.neighbor(t.members[i], d2))
			}
		}
	}
	return result, nil
}
