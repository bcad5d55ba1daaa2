package tree

import "sync/atomic"

// Distance computes the distance between two points. The tree assumes, but
// cannot verify, that it is a metric: non-negative, symmetric and satisfying
// the triangle inequality.
type Distance[P any] func(a, b P) float64

// counter wraps a Distance and counts invocations. Safe for concurrent use.
type counter[P any] struct {
	fn    Distance[P]
	calls atomic.Int64
}

func (c *counter[P]) distance(a, b P) float64 {
	c.calls.Add(1)
	return c.fn(a, b)
}
