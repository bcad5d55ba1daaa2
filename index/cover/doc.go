// Package cover provides a vector index backed by an immutable, bulk-loaded
// cover tree. The index answers exact kNN and range queries under any metric
// distance and persists itself in the brute-force binary format, rebuilding
// the tree on load.
//
// Tree, Build and Config expose the underlying tree for arbitrary metric
// spaces; the tree only needs a distance function over the point type.
package cover
