// Package dataset loads (id, vector) point sets from CSV files, Parquet
// files and vector stores.
package dataset
