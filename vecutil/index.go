package vecutil

import (
	"context"
	"fmt"

	"github.com/viant/covertree/vector"
)

// Index provides a higher-level, text-in text-out API on top of a
// vector.Store. It remains embedding-agnostic by requiring an EmbedFunc
// supplied by the caller.
type Index struct {
	Store vector.Store
	Embed EmbedFunc
}

// NewIndex constructs an Index over store.
func NewIndex(store vector.Store, embed EmbedFunc) (*Index, error) {
	if store == nil {
		return nil, fmt.Errorf("vecutil: store is nil")
	}
	if embed == nil {
		return nil, fmt.Errorf("vecutil: EmbedFunc is nil")
	}
	return &Index{Store: store, Embed: embed}, nil
}

// Document represents a logical text document. Metadata is modeled as a raw
// JSON (or other encoding) string for maximum flexibility.
type Document struct {
	ID      string
	Content string
	Meta    string
}

// Match represents a single similarity search hit.
type Match struct {
	ID       string
	Distance float64
	Content  string
	Meta     string
}

// UpsertDocumentsText embeds the Content of every document and stores it,
// replacing documents that already exist under the same ID. It returns the
// stored ids, generated for documents without one.
func (ix *Index) UpsertDocumentsText(ctx context.Context, docs []Document) ([]string, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	batch := make([]vector.Document, 0, len(docs))
	for _, d := range docs {
		vec, err := ix.Embed(ctx, d.Content)
		if err != nil {
			return nil, fmt.Errorf("vecutil: embed %q: %w", d.ID, err)
		}
		if d.ID != "" {
			if err := ix.Store.Remove(ctx, d.ID); err != nil {
				return nil, err
			}
		}
		batch = append(batch, vector.Document{ID: d.ID, Content: d.Content, Metadata: d.Meta, Embedding: vec})
	}
	return ix.Store.AddDocuments(ctx, batch)
}

// DeleteDocuments removes documents with the given ids from the store.
func (ix *Index) DeleteDocuments(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if err := ix.Store.Remove(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// QueryText embeds query and returns the k closest documents, closest first.
func (ix *Index) QueryText(ctx context.Context, query string, k int) ([]Match, error) {
	qVec, err := ix.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	docs, err := ix.Store.SimilaritySearch(ctx, qVec, k)
	if err != nil {
		return nil, err
	}
	return matches(docs), nil
}

// QueryTextWithin embeds query and returns every document within radius.
func (ix *Index) QueryTextWithin(ctx context.Context, query string, radius float64) ([]Match, error) {
	qVec, err := ix.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	docs, err := ix.Store.RangeSearch(ctx, qVec, radius)
	if err != nil {
		return nil, err
	}
	return matches(docs), nil
}

func matches(docs []vector.Document) []Match {
	out := make([]Match, len(docs))
	for i, d := range docs {
		out[i] = Match{ID: d.ID, Distance: d.Distance, Content: d.Content, Meta: d.Metadata}
	}
	return out
}
