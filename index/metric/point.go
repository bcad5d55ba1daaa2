package metric

import "github.com/viant/vec/search"

// Point is a vector with its cached magnitude.
type Point struct {
	Magnitude float32
	Vector    []float32
}

// NewPoint constructs a point for the given vector, caching its magnitude.
func NewPoint(vector []float32) *Point {
	return &Point{Vector: vector, Magnitude: search.Float32s(vector).Magnitude()}
}

// NewPoints wraps every vector in a point.
func NewPoints(vectors [][]float32) []*Point {
	points := make([]*Point, len(vectors))
	for i, v := range vectors {
		points[i] = NewPoint(v)
	}
	return points
}

func (p *Point) magnitude() float32 {
	if p.Magnitude == 0 && len(p.Vector) > 0 {
		return search.Float32s(p.Vector).Magnitude()
	}
	return p.Magnitude
}
