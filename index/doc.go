// Package index defines a minimal abstraction for vector indexes that can be
// built from embeddings, queried for kNN or within a radius, and serialized
// for persistence. Implementations in this module include a brute-force
// baseline and a cover tree.
package index
