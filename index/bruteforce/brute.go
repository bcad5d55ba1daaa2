package bruteforce

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/viant/covertree/index/metric"
)

// Index is a simple brute-force vector index.
type Index struct {
	ids    []string
	points []*metric.Point
	dim    int
	metric metric.Metric
	fn     metric.Func
}

// New creates an index scoring with m; the empty metric selects metric.Default.
func New(m metric.Metric) (*Index, error) {
	if m == "" {
		m = metric.Default
	}
	fn := m.Function()
	if fn == nil {
		return nil, fmt.Errorf("bruteforce: unsupported metric %q", m)
	}
	return &Index{metric: m, fn: fn}, nil
}

// Metric returns the metric the index scores with.
func (i *Index) Metric() metric.Metric {
	if i.metric == "" {
		return metric.Default
	}
	return i.metric
}

func (i *Index) distance() metric.Func {
	if i.fn == nil {
		i.fn = i.Metric().Function()
	}
	return i.fn
}

// Len returns the number of indexed vectors.
func (i *Index) Len() int { return len(i.ids) }

// Dim returns the vector dimension, 0 for an empty index.
func (i *Index) Dim() int { return i.dim }

// Build loads ids and vectors and precomputes magnitudes.
func (i *Index) Build(ids []string, vectors [][]float32) error {
	if len(ids) != len(vectors) {
		return fmt.Errorf("bruteforce: ids and vectors length mismatch: %d != %d", len(ids), len(vectors))
	}
	if len(ids) == 0 {
		i.ids, i.points, i.dim = nil, nil, 0
		return nil
	}
	dim := len(vectors[0])
	for j := range vectors {
		if len(vectors[j]) != dim {
			return fmt.Errorf("bruteforce: inconsistent vector dims %d vs %d", len(vectors[j]), dim)
		}
	}
	i.ids = append([]string(nil), ids...)
	i.points = metric.NewPoints(vectors)
	i.dim = dim
	return nil
}

type scored struct {
	idx  int
	dist float64
}

func (i *Index) scan(query []float32, keep func(d float64) bool) ([]scored, error) {
	if i.dim == 0 || len(i.points) == 0 {
		return nil, nil
	}
	if len(query) != i.dim {
		return nil, fmt.Errorf("bruteforce: query dim %d != index dim %d", len(query), i.dim)
	}
	q := metric.NewPoint(query)
	fn := i.distance()
	var out []scored
	for j, p := range i.points {
		d := fn(q, p)
		if math.IsNaN(d) || !keep(d) {
			continue
		}
		out = append(out, scored{idx: j, dist: d})
	}
	return out, nil
}

func (i *Index) result(scoreds []scored) ([]string, []float64) {
	outIDs := make([]string, len(scoreds))
	outDists := make([]float64, len(scoreds))
	for n, s := range scoreds {
		outIDs[n] = i.ids[s.idx]
		outDists[n] = s.dist
	}
	return outIDs, outDists
}

// Query returns the k closest vectors, closest first. k <= 0 returns all.
func (i *Index) Query(query []float32, k int) ([]string, []float64, error) {
	scoreds, err := i.scan(query, func(float64) bool { return true })
	if err != nil || len(scoreds) == 0 {
		return nil, nil, err
	}
	sort.SliceStable(scoreds, func(a, b int) bool { return scoreds[a].dist < scoreds[b].dist })
	if k <= 0 || k > len(scoreds) {
		k = len(scoreds)
	}
	ids, dists := i.result(scoreds[:k])
	return ids, dists, nil
}

// Range returns every vector within radius of query, in index order.
func (i *Index) Range(query []float32, radius float64) ([]string, []float64, error) {
	if math.IsNaN(radius) || radius < 0 {
		return nil, nil, fmt.Errorf("bruteforce: invalid radius %v", radius)
	}
	scoreds, err := i.scan(query, func(d float64) bool { return d <= radius })
	if err != nil || len(scoreds) == 0 {
		return nil, nil, err
	}
	ids, dists := i.result(scoreds)
	return ids, dists, nil
}

// Vectors returns the indexed ids and vectors. The slices must not be modified.
func (i *Index) Vectors() ([]string, [][]float32) {
	vecs := make([][]float32, len(i.points))
	for j, p := range i.points {
		vecs[j] = p.Vector
	}
	return i.ids, vecs
}

// MarshalBinary stores: dim(uint32), n(uint32), then for each item:
// idLen(uint32), id bytes, vec(float32[dim]).
func (i *Index) MarshalBinary() ([]byte, error) {
	if i.dim == 0 || len(i.points) == 0 {
		// encode empty
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint32(buf[0:4], uint32(0))
		binary.LittleEndian.PutUint32(buf[4:8], uint32(0))
		return buf, nil
	}
	size := 8
	for _, id := range i.ids {
		size += 4 + len(id) + 4*i.dim
	}
	out := make([]byte, 0, size)
	out = binary.LittleEndian.AppendUint32(out, uint32(i.dim))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(i.ids)))
	for idx, id := range i.ids {
		out = binary.LittleEndian.AppendUint32(out, uint32(len(id)))
		out = append(out, id...)
		for _, v := range i.points[idx].Vector {
			out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
		}
	}
	return out, nil
}

// UnmarshalBinary restores the index from bytes.
func (i *Index) UnmarshalBinary(data []byte) error {
	ids, vecs, err := Decode(data)
	if err != nil {
		return err
	}
	return i.Build(ids, vecs)
}

// Decode parses the binary format written by MarshalBinary.
func Decode(data []byte) ([]string, [][]float32, error) {
	if len(data) < 8 {
		return nil, nil, errors.New("bruteforce: invalid data")
	}
	off := 0
	getU32 := func() uint32 { v := binary.LittleEndian.Uint32(data[off : off+4]); off += 4; return v }
	dim := int(getU32())
	n := int(getU32())
	ids := make([]string, n)
	vecs := make([][]float32, n)
	for idx := 0; idx < n; idx++ {
		if off+4 > len(data) {
			return nil, nil, errors.New("bruteforce: truncated")
		}
		idlen := int(getU32())
		if off+idlen > len(data) {
			return nil, nil, errors.New("bruteforce: truncated id")
		}
		ids[idx] = string(data[off : off+idlen])
		off += idlen
		if off+4*dim > len(data) {
			return nil, nil, errors.New("bruteforce: truncated vec")
		}
		vec := make([]float32, dim)
		for j := range vec {
			vec[j] = math.Float32frombits(getU32())
		}
		vecs[idx] = vec
	}
	return ids, vecs, nil
}
