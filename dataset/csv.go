package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadCSV reads one point per row. When the first column does not parse as
// a number it is taken as the id; otherwise ids are the zero-based row
// numbers. skipHeader drops the first row.
func LoadCSV(path string, skipHeader bool) ([]string, [][]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return ReadCSV(f, skipHeader)
}

// ReadCSV is LoadCSV over a reader.
func ReadCSV(r io.Reader, skipHeader bool) ([]string, [][]float32, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true
	var ids []string
	var vecs [][]float32
	dim := -1
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("dataset: csv: %w", err)
		}
		if skipHeader && line == 1 {
			continue
		}
		id := strconv.Itoa(len(ids))
		fields := record
		if len(fields) > 0 {
			if _, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 32); err != nil {
				id, fields = fields[0], fields[1:]
			}
		}
		vec, err := ParseVector(fields)
		if err != nil {
			return nil, nil, fmt.Errorf("dataset: csv line %d: %w", line, err)
		}
		if dim == -1 {
			dim = len(vec)
		}
		if len(vec) != dim {
			return nil, nil, fmt.Errorf("dataset: csv line %d: dim %d != %d", line, len(vec), dim)
		}
		ids = append(ids, id)
		vecs = append(vecs, vec)
	}
	return ids, vecs, nil
}

// ParseVector parses numeric fields into a vector.
func ParseVector(fields []string) ([]float32, error) {
	if len(fields) == 0 {
		return nil, errors.New("empty vector")
	}
	vec := make([]float32, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 32)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i+1, err)
		}
		vec[i] = float32(v)
	}
	return vec, nil
}
