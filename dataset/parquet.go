package dataset

import (
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"
)

// Record is a single row of a Parquet point set.
type Record struct {
	ID     string    `parquet:"id"`
	Vector []float32 `parquet:"vector"`
}

// LoadParquet reads a Parquet file with an id and a vector column.
func LoadParquet(path string) ([]string, [][]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	stat, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, nil, fmt.Errorf("dataset: parquet: %w", err)
	}
	pr := parquet.NewGenericReader[Record](pf)
	defer pr.Close()
	rows := make([]Record, pr.NumRows())
	n, err := pr.Read(rows)
	if err != nil && err != io.EOF {
		return nil, nil, fmt.Errorf("dataset: parquet: %w", err)
	}
	rows = rows[:n]
	ids := make([]string, len(rows))
	vecs := make([][]float32, len(rows))
	for i, row := range rows {
		ids[i], vecs[i] = row.ID, row.Vector
	}
	return ids, vecs, nil
}

// WriteParquet writes ids and vectors as Records.
func WriteParquet(w io.Writer, ids []string, vecs [][]float32) error {
	if len(ids) != len(vecs) {
		return fmt.Errorf("dataset: ids and vectors length mismatch: %d != %d", len(ids), len(vecs))
	}
	pw := parquet.NewGenericWriter[Record](w, parquet.Compression(&parquet.Zstd))
	rows := make([]Record, len(ids))
	for i := range ids {
		rows[i] = Record{ID: ids[i], Vector: vecs[i]}
	}
	if _, err := pw.Write(rows); err != nil {
		_ = pw.Close()
		return fmt.Errorf("dataset: parquet: %w", err)
	}
	return pw.Close()
}
