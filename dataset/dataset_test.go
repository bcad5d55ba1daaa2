package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/covertree/vector"
)

func TestReadCSV(t *testing.T) {
	var testCases = []struct {
		description string
		input       string
		skipHeader  bool
		expectIDs   []string
		expectVecs  [][]float32
		expectErr   bool
	}{
		{
			description: "numeric rows",
			input:       "1,2\n3,4\n",
			expectIDs:   []string{"0", "1"},
			expectVecs:  [][]float32{{1, 2}, {3, 4}},
		},
		{
			description: "id column with header",
			input:       "name,x,y\na, 1, 2\nb, 3, 4\n",
			skipHeader:  true,
			expectIDs:   []string{"a", "b"},
			expectVecs:  [][]float32{{1, 2}, {3, 4}},
		},
		{
			description: "ragged",
			input:       "1,2\n3\n",
			expectErr:   true,
		},
		{
			description: "not a number",
			input:       "a,1,x\n",
			expectErr:   true,
		},
	}
	for _, testCase := range testCases {
		ids, vecs, err := ReadCSV(strings.NewReader(testCase.input), testCase.skipHeader)
		if testCase.expectErr {
			assert.Error(t, err, testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expectIDs, ids, testCase.description)
		assert.Equal(t, testCase.expectVecs, vecs, testCase.description)
	}
}

func TestParquet_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "points.parquet")
	f, err := os.Create(path)
	require.NoError(t, err)
	ids := []string{"p1", "p2", "p3"}
	vecs := [][]float32{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}
	require.NoError(t, WriteParquet(f, ids, vecs))
	require.NoError(t, f.Close())

	gotIDs, gotVecs, err := LoadParquet(path)
	require.NoError(t, err)
	assert.Equal(t, ids, gotIDs)
	assert.Equal(t, vecs, gotVecs)
}

type fakeLoader []vector.Document

func (f fakeLoader) LoadDocuments(context.Context) ([]vector.Document, error) { return f, nil }

func TestLoadStore(t *testing.T) {
	ids, vecs, err := LoadStore(context.Background(), fakeLoader{
		{ID: "a", Embedding: []float32{1}},
		{ID: "b"},
		{ID: "c", Embedding: []float32{2}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, ids)
	assert.Equal(t, [][]float32{{1}, {2}}, vecs)
}
