package vector

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/covertree/engine"
	"github.com/viant/covertree/index/cover"
	"github.com/viant/covertree/index/metric"
)

// TestSQLiteStore_AddSearchRemove exercises inserting documents, a kNN
// search over their embeddings, and removing a document.
func TestSQLiteStore_AddSearchRemove(t *testing.T) {
	db, err := engine.Open(":memory:")
	if err != nil {
		t.Fatalf("engine.Open(:memory:) failed: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	store, err := NewSQLiteStore(db)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}

	docs := []Document{
		{ID: "d1", Content: "first", Metadata: "{}", Embedding: []float32{0, 0}},
		{ID: "d2", Content: "second", Metadata: "{}", Embedding: []float32{1, 0}},
		{ID: "d3", Content: "third", Metadata: "{}", Embedding: []float32{5, 5}},
		{Content: "no embedding"},
	}

	ids, err := store.AddDocuments(context.Background(), docs)
	if err != nil {
		t.Fatalf("AddDocuments failed: %v", err)
	}
	if len(ids) != len(docs) {
		t.Fatalf("AddDocuments returned %d ids, want %d", len(ids), len(docs))
	}
	if ids[3] == "" {
		t.Fatalf("expected a generated id for the document without ID")
	}

	out, err := store.SimilaritySearch(context.Background(), []float32{0.1, 0}, 2)
	if err != nil {
		t.Fatalf("SimilaritySearch failed: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("SimilaritySearch returned %d docs, want 2", len(out))
	}
	if out[0].ID != "d1" || out[1].ID != "d2" {
		t.Errorf("SimilaritySearch order = [%s, %s], want [d1, d2]", out[0].ID, out[1].ID)
	}
	assert.Equal(t, "first", out[0].Content)
	assert.Equal(t, []float32{0, 0}, out[0].Embedding)
	assert.InDelta(t, 0.1, out[0].Distance, 1e-6)

	// Remove a document and ensure it no longer appears in results.
	if err := store.Remove(context.Background(), "d2"); err != nil {
		t.Fatalf("Remove(d2) failed: %v", err)
	}
	out, err = store.SimilaritySearch(context.Background(), []float32{1, 0}, 10)
	if err != nil {
		t.Fatalf("SimilaritySearch after remove failed: %v", err)
	}
	require.Len(t, out, 2)
	for _, d := range out {
		if d.ID == "d2" {
			t.Fatalf("expected d2 to be removed, but found in results")
		}
	}

	all, err := store.LoadDocuments(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = store.SimilaritySearch(context.Background(), []float32{1}, 1)
	assert.Error(t, err)
}

func TestSQLiteStore_RangeSearch(t *testing.T) {
	db, err := engine.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)

	store, err := NewSQLiteStore(db, WithIndexKind(IndexCover), WithMetric(metric.Manhattan),
		WithCoverOptions(cover.WithTruncate(2)))
	require.NoError(t, err)
	r := rand.New(rand.NewPCG(1, 2))
	var docs []Document
	for i := 0; i < 300; i++ {
		docs = append(docs, Document{ID: fmt.Sprintf("doc-%03d", i), Embedding: []float32{r.Float32() * 10, r.Float32() * 10}})
	}
	_, err = store.AddDocuments(context.Background(), docs)
	require.NoError(t, err)

	q := []float32{5, 5}
	got, err := store.RangeSearch(context.Background(), q, 2)
	require.NoError(t, err)
	want := 0
	for _, d := range docs {
		if dist, _ := Distance(metric.Manhattan, q, d.Embedding); dist <= 2 {
			want++
		}
	}
	assert.Len(t, got, want)
	for n := 1; n < len(got); n++ {
		assert.LessOrEqual(t, got[n-1].Distance, got[n].Distance)
	}

	_, err = store.RangeSearch(context.Background(), q, -1)
	assert.Error(t, err)
}

func TestSQLiteStore_ScanSearchMatchesIndex(t *testing.T) {
	if err := engine.RegisterVectorFunctions(nil); err != nil {
		t.Fatalf("RegisterVectorFunctions: %v", err)
	}
	db, err := engine.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)

	store, err := NewSQLiteStore(db, WithIndexKind(IndexCover))
	require.NoError(t, err)
	r := rand.New(rand.NewPCG(5, 6))
	var docs []Document
	for i := 0; i < 200; i++ {
		docs = append(docs, Document{Embedding: []float32{r.Float32(), r.Float32(), r.Float32()}})
	}
	_, err = store.AddDocuments(context.Background(), docs)
	require.NoError(t, err)

	q := []float32{0.5, 0.5, 0.5}
	viaIndex, err := store.SimilaritySearch(context.Background(), q, 5)
	require.NoError(t, err)
	viaSQL, err := store.ScanSearch(context.Background(), q, 5)
	require.NoError(t, err)
	require.Len(t, viaSQL, 5)
	for n := range viaSQL {
		assert.Equal(t, viaSQL[n].ID, viaIndex[n].ID)
		assert.InDelta(t, viaSQL[n].Distance, viaIndex[n].Distance, 1e-5)
	}
}

func TestSQLiteStore_Empty(t *testing.T) {
	db, err := engine.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)
	store, err := NewSQLiteStore(db)
	require.NoError(t, err)
	out, err := store.SimilaritySearch(context.Background(), []float32{1}, 3)
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = NewSQLiteStore(db, WithMetric("hamming"))
	assert.Error(t, err)
	_, err = NewSQLiteStore(nil)
	assert.Error(t, err)
}
