package vector

import (
	"context"
)

// Document represents a logical document stored in the vector store.
type Document struct {
	// ID is the logical identifier of the document. When empty on insert, the
	// store generates one.
	ID string

	// Content holds the main text/body of the document.
	Content string

	// Metadata is an opaque JSON or structured payload associated with the
	// document, stored as a raw string.
	Metadata string

	// Embedding is the vector representation of the document content.
	Embedding []float32

	// Distance is set by searches to the distance from the query embedding.
	Distance float64
}

// Store defines the application-level vector store API. Implementations in
// this module use SQLite for durable storage and a cover tree index for
// exact kNN and range search.
type Store interface {
	// AddDocuments inserts documents into the store and returns their assigned
	// IDs. If a Document has ID set, implementations should attempt to honor it
	// (subject to uniqueness constraints).
	AddDocuments(ctx context.Context, docs []Document) ([]string, error)

	// SimilaritySearch performs a k-nearest-neighbour search using the provided
	// embedding as the query vector and returns up to k matching documents,
	// closest first.
	SimilaritySearch(ctx context.Context, queryEmbedding []float32, k int) ([]Document, error)

	// RangeSearch returns every document whose embedding lies within radius
	// of the query embedding, closest first.
	RangeSearch(ctx context.Context, queryEmbedding []float32, radius float64) ([]Document, error)

	// Remove deletes the document with the given ID from both the underlying
	// SQLite tables and the vector index.
	Remove(ctx context.Context, id string) error
}
