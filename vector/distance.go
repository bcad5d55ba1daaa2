package vector

import (
	"fmt"

	"github.com/viant/covertree/index/metric"
)

// Distance computes the distance between two embeddings under m. It returns
// an error if the vectors have different or zero lengths.
func Distance(m metric.Metric, a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector: %s dimension mismatch: %d vs %d", m, len(a), len(b))
	}
	if len(a) == 0 {
		return 0, fmt.Errorf("vector: %s on empty vectors", m)
	}
	fn := m.Function()
	if fn == nil {
		return 0, fmt.Errorf("vector: unsupported metric %q", m)
	}
	return fn(metric.NewPoint(a), metric.NewPoint(b)), nil
}

// CosineSimilarity computes the cosine similarity between two vectors. It
// returns an error if the vectors have different lengths or if either vector
// has zero magnitude.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) == len(b) && len(a) > 0 && (metric.NewPoint(a).Magnitude == 0 || metric.NewPoint(b).Magnitude == 0) {
		return 0, fmt.Errorf("vector: cosine similarity with zero-magnitude vector")
	}
	d, err := Distance(metric.Cosine, a, b)
	if err != nil {
		return 0, err
	}
	return 1 - d, nil
}

// L2Distance computes the Euclidean (L2) distance between two vectors. It
// returns an error if the vectors have different lengths.
func L2Distance(a, b []float32) (float64, error) {
	return Distance(metric.Euclidean, a, b)
}
