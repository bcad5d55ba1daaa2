package tree

import "math"

// entry is a candidate point with its distance to the current routing point.
type entry struct {
	idx  int32
	dist float64
}

func (t *Tree[P]) bulkLoad() {
	if len(t.points) == 0 {
		return
	}
	first := t.points[0]
	elems := make([]entry, 0, len(t.points)-1)
	for i := 1; i < len(t.points); i++ {
		elems = append(elems, entry{idx: int32(i), dist: t.dist.distance(first, t.points[i])})
	}
	t.construct(0, math.MaxInt, 0, elems)
}

// construct builds the subtree routed at cur over elems and returns its node
// id. elems holds distances to cur and is consumed: its backing array is
// reused as scratch space.
//
// Unlike the bulk load of the cover tree paper, candidates that are far from
// cur are never handed back to an ancestor.
func (t *Tree[P]) construct(cur int32, maxScale int, parentDist float64, elems []entry) int32 {
	max := maxDistance(elems)
	// Points coincide, or too few remain to be worth refining.
	if max <= 0 || len(elems) < t.cfg.Truncate {
		return t.leaf(cur, max, parentDist, elems)
	}
	scale := min(t.scale.distToScale(max)-1, maxScale)
	var far []entry
	for {
		if scale <= t.scale.bottom {
			return t.leaf(cur, max, parentDist, elems)
		}
		elems, far = excludeNotCovered(elems, t.scale.scaleToDist(scale), far[:0])
		if len(far) > 0 {
			break
		}
		// Rounding near a scale boundary; descend instead of adding a
		// node with a single child.
		t.logger.Warn().Float64("max", max).Float64("radius", t.scale.scaleToDist(scale)).
			Msg("cover: scale not chosen appropriately")
		scale--
	}
	nextScale := scale - 1
	id := t.alloc()
	var children []int32
	var singletons []entry
	if len(elems) > 0 {
		// Fast path: cur continues one level down with everything it covers.
		children = append(children, t.construct(cur, nextScale, 0, elems))
	}
	fmax := t.scale.scaleToDist(nextScale)
	collected := elems[:0]
	for len(far) > 0 {
		head := far[0]
		collected, far = t.collectByCover(head.idx, far, fmax, collected[:0])
		if len(collected) == 0 {
			singletons = append(singletons, head)
		} else {
			children = append(children, t.construct(head.idx, nextScale, head.dist, collected))
		}
		last := len(far) - 1
		far[0] = far[last]
		far = far[:last]
	}
	t.finish(id, cur, max, parentDist, singletons, children)
	return id
}

func (t *Tree[P]) leaf(cur int32, max, parentDist float64, elems []entry) int32 {
	id := t.alloc()
	t.finish(id, cur, max, parentDist, elems, nil)
	return id
}

// excludeNotCovered moves every element farther than fmax from elems to far.
func excludeNotCovered(elems []entry, fmax float64, far []entry) ([]entry, []entry) {
	for i := 0; i < len(elems); {
		if elems[i].dist > fmax {
			far = append(far, elems[i])
			last := len(elems) - 1
			elems[i] = elems[last]
			elems = elems[:last]
			continue
		}
		i++
	}
	return elems, far
}

// collectByCover moves every candidate within fmax of head out of far and
// into collected, recording its distance to head. far[0] must be head and is
// left in place.
func (t *Tree[P]) collectByCover(head int32, far []entry, fmax float64, collected []entry) ([]entry, []entry) {
	p := t.points[head]
	for i := 1; i < len(far); {
		d := t.dist.distance(p, t.points[far[i].idx])
		if d <= fmax {
			collected = append(collected, entry{idx: far[i].idx, dist: d})
			last := len(far) - 1
			far[i] = far[last]
			far = far[:last]
			continue
		}
		i++
	}
	return collected, far
}

func maxDistance(elems []entry) float64 {
	max := 0.0
	for _, e := range elems {
		if e.dist > max {
			max = e.dist
		}
	}
	return max
}
