package dataset

import (
	"context"

	"github.com/viant/covertree/vector"
)

// Loader returns every stored document.
type Loader interface {
	LoadDocuments(ctx context.Context) ([]vector.Document, error)
}

// LoadStore reads the embeddings of a document store, skipping documents
// without one.
func LoadStore(ctx context.Context, store Loader) ([]string, [][]float32, error) {
	docs, err := store.LoadDocuments(ctx)
	if err != nil {
		return nil, nil, err
	}
	var ids []string
	var vecs [][]float32
	for _, d := range docs {
		if len(d.Embedding) == 0 {
			continue
		}
		ids = append(ids, d.ID)
		vecs = append(vecs, d.Embedding)
	}
	return ids, vecs, nil
}
