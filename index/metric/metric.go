package metric

import (
	"fmt"
	"math"
	"strings"

	"github.com/viant/vec/search"
)

// Metric enumerates supported distances between vectors.
type Metric string

const (
	Euclidean Metric = "euclidean"
	// Cosine is 1 - cosine similarity. It violates the triangle inequality.
	Cosine    Metric = "cosine"
	Angular   Metric = "angular"
	Manhattan Metric = "manhattan"
	Chebyshev Metric = "chebyshev"
)

// Default is used when no metric is configured.
const Default = Euclidean

// Func computes the distance between two points.
type Func func(a, b *Point) float64

// Parse resolves a metric by name; the empty name resolves to Default.
func Parse(name string) (Metric, error) {
	m := Metric(strings.ToLower(strings.TrimSpace(name)))
	if m == "" {
		return Default, nil
	}
	if m == "l2" {
		return Euclidean, nil
	}
	if m == "l1" {
		return Manhattan, nil
	}
	if m.Function() == nil {
		return "", fmt.Errorf("metric: unsupported metric %q", name)
	}
	return m, nil
}

// Function resolves the callable distance implementation, nil for unknown metrics.
func (m Metric) Function() Func {
	switch m {
	case Euclidean:
		return EuclideanDistance
	case Cosine:
		return CosineDistance
	case Angular:
		return AngularDistance
	case Manhattan:
		return ManhattanDistance
	case Chebyshev:
		return ChebyshevDistance
	default:
		return nil
	}
}

// IsMetric reports whether the distance satisfies the triangle inequality,
// which tree pruning relies on.
func (m Metric) IsMetric() bool {
	return m != Cosine
}

// CosineDistance returns the cosine distance (1 - cosine similarity). Zero
// vectors are at distance 1 from everything.
func CosineDistance(p1, p2 *Point) float64 {
	m1, m2 := p1.magnitude(), p2.magnitude()
	if m1 == 0 || m2 == 0 {
		return 1
	}
	return float64(search.Float32s(p1.Vector).CosineDistanceWithMagnitude(p2.Vector, m1, m2))
}

// AngularDistance returns the angle between two vectors normalized to [0, 1].
func AngularDistance(p1, p2 *Point) float64 {
	sim := 1 - CosineDistance(p1, p2)
	sim = math.Max(-1, math.Min(1, sim))
	return math.Acos(sim) / math.Pi
}

// EuclideanDistance returns the Euclidean distance between two points.
func EuclideanDistance(p1, p2 *Point) float64 {
	return float64(search.Float32s(p1.Vector).EuclideanDistance(p2.Vector))
}

// ManhattanDistance returns the L1 distance between two points.
func ManhattanDistance(p1, p2 *Point) float64 {
	var s float64
	for i, v := range p1.Vector {
		s += math.Abs(float64(v) - float64(p2.Vector[i]))
	}
	return s
}

// ChebyshevDistance returns the L-infinity distance between two points.
func ChebyshevDistance(p1, p2 *Point) float64 {
	var s float64
	for i, v := range p1.Vector {
		s = math.Max(s, math.Abs(float64(v)-float64(p2.Vector[i])))
	}
	return s
}
