// Package bruteforce provides a simple vector index that answers kNN and
// range queries by scanning all vectors with a selectable metric. It is the
// reference the tree index is checked against, and its compact binary format
// is shared by every index in this module.
package bruteforce
