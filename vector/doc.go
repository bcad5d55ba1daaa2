// Package vector defines a lightweight vector-store API and SQLite-backed
// utilities used by this project. It includes:
//   - Document model and Store interface
//   - SQLiteStore: durable storage for documents with an index that is
//     bulk-rebuilt from the stored embeddings after writes
//   - Schema helpers to create a docs table
//   - Embedding encoding (BLOB) and distance functions
package vector
