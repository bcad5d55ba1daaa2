package metric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetric_Function(t *testing.T) {
	a := NewPoint([]float32{1, 0})
	b := NewPoint([]float32{0, 1})
	c := NewPoint([]float32{3, 4})
	var testCases = []struct {
		metric Metric
		p1, p2 *Point
		want   float64
	}{
		{metric: Euclidean, p1: a, p2: b, want: math.Sqrt2},
		{metric: Manhattan, p1: a, p2: c, want: 6},
		{metric: Chebyshev, p1: a, p2: c, want: 4},
		{metric: Cosine, p1: a, p2: b, want: 1},
		{metric: Cosine, p1: a, p2: a, want: 0},
		{metric: Angular, p1: a, p2: b, want: 0.5},
	}
	for _, testCase := range testCases {
		fn := testCase.metric.Function()
		require.NotNil(t, fn, testCase.metric)
		assert.InDelta(t, testCase.want, fn(testCase.p1, testCase.p2), 1e-5, testCase.metric)
	}
}

func TestCosineDistance_ZeroVector(t *testing.T) {
	zero := NewPoint([]float32{0, 0})
	assert.Equal(t, 1.0, CosineDistance(zero, NewPoint([]float32{1, 1})))
}

func TestParse(t *testing.T) {
	m, err := Parse("")
	require.NoError(t, err)
	assert.Equal(t, Euclidean, m)
	m, err = Parse(" L1 ")
	require.NoError(t, err)
	assert.Equal(t, Manhattan, m)
	m, err = Parse("Cosine")
	require.NoError(t, err)
	assert.False(t, m.IsMetric())
	_, err = Parse("hamming")
	assert.Error(t, err)
}
