package bruteforce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/covertree/index/metric"
)

func TestIndex_Query(t *testing.T) {
	idx := &Index{}
	require.NoError(t, idx.Build(
		[]string{"a", "b", "c", "d"},
		[][]float32{{0, 0}, {1, 0}, {0, 2}, {10, 10}},
	))
	ids, dists, err := idx.Query([]float32{0, 0}, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids)
	assert.InDeltaSlice(t, []float64{0, 1, 2}, dists, 1e-6)

	ids, _, err = idx.Range([]float32{0, 0}, 1.5)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	_, _, err = idx.Query([]float32{0}, 1)
	assert.Error(t, err)
	_, _, err = idx.Range([]float32{0, 0}, -1)
	assert.Error(t, err)
}

func TestIndex_Metric(t *testing.T) {
	idx, err := New(metric.Manhattan)
	require.NoError(t, err)
	require.NoError(t, idx.Build([]string{"x", "y"}, [][]float32{{1, 1}, {3, 0}}))
	ids, dists, err := idx.Query([]float32{0, 0}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, ids)
	assert.InDeltaSlice(t, []float64{2, 3}, dists, 1e-9)

	_, err = New("hamming")
	assert.Error(t, err)
}

func TestIndex_Binary(t *testing.T) {
	var testCases = []struct {
		description string
		ids         []string
		vecs        [][]float32
	}{
		{description: "empty"},
		{description: "vectors", ids: []string{"1", "doc-2"}, vecs: [][]float32{{0.5, -1, 2}, {3, 4, 5}}},
	}
	for _, testCase := range testCases {
		src := &Index{}
		require.NoError(t, src.Build(testCase.ids, testCase.vecs), testCase.description)
		data, err := src.MarshalBinary()
		require.NoError(t, err, testCase.description)
		dst := &Index{}
		require.NoError(t, dst.UnmarshalBinary(data), testCase.description)
		ids, vecs := dst.Vectors()
		assert.Equal(t, len(testCase.ids), dst.Len(), testCase.description)
		if len(testCase.ids) > 0 {
			assert.Equal(t, testCase.ids, ids, testCase.description)
			assert.Equal(t, testCase.vecs, vecs, testCase.description)
		}
	}

	_, _, err := Decode([]byte{1, 0, 0, 0, 1, 0, 0, 0, 4})
	assert.Error(t, err)
}
