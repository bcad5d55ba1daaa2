package cover

import (
	"fmt"
	"iter"
	"math"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/viant/covertree/index/bruteforce"
	"github.com/viant/covertree/index/metric"
	"github.com/viant/covertree/internal/cover/tree"
	"github.com/viant/covertree/internal/metrics"
	"golang.org/x/sync/errgroup"
)

// Index implements an exact vector index on a bulk-loaded cover tree.
// It serializes/deserializes using the brute-force encoding for compatibility.
// Queries are safe for concurrent use; Build and UnmarshalBinary are not.
type Index struct {
	ids         []string
	points      []*metric.Point
	dim         int
	metric      metric.Metric
	config      Config
	parallelism int
	tree        *tree.Tree[*metric.Point]
}

// Result is a single match.
type Result struct {
	ID       string
	Distance float64
}

// New creates an empty index with the supplied options.
func New(opts ...Option) *Index {
	i := &Index{
		metric:      metric.Default,
		config:      tree.DefaultConfig(),
		parallelism: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(i)
		}
	}
	return i
}

// Metric returns the configured distance metric.
func (i *Index) Metric() metric.Metric { return i.metric }

// Len returns the number of indexed vectors.
func (i *Index) Len() int { return len(i.ids) }

// Dim returns the vector dimension, 0 for an empty index.
func (i *Index) Dim() int { return i.dim }

// Build validates the vectors and bulk-loads the tree.
func (i *Index) Build(ids []string, vectors [][]float32) error {
	if len(ids) != len(vectors) {
		return fmt.Errorf("cover: %w: ids and vectors length mismatch: %d != %d", ErrInvalidArgument, len(ids), len(vectors))
	}
	fn := i.metric.Function()
	if fn == nil {
		return fmt.Errorf("cover: %w: unsupported metric %q", ErrInvalidConfig, i.metric)
	}
	dim := 0
	if len(vectors) > 0 {
		dim = len(vectors[0])
	}
	for j := range vectors {
		if vectors[j] == nil {
			return fmt.Errorf("cover: %w: nil vector for id %q", ErrInvalidArgument, ids[j])
		}
		if len(vectors[j]) != dim {
			return fmt.Errorf("cover: %w: inconsistent vector dims %d vs %d", ErrInvalidArgument, len(vectors[j]), dim)
		}
	}
	cfg := i.config
	cfg.NonMetric = !i.metric.IsMetric()
	points := metric.NewPoints(vectors)

	started := time.Now()
	t, err := tree.Build(points, tree.Distance[*metric.Point](fn), cfg)
	if err != nil {
		return err
	}
	metrics.TreeBuildsTotal.Inc()
	metrics.TreeBuildDuration.Observe(time.Since(started).Seconds())
	metrics.TreeNodes.Set(float64(t.Stats().Nodes))
	metrics.DistanceComputationsTotal.WithLabelValues("build").Add(float64(t.DistanceComputations()))

	i.ids = append([]string(nil), ids...)
	i.points = points
	i.dim = dim
	i.tree = t
	return nil
}

func (i *Index) query(query []float32) (*metric.Point, error) {
	if len(query) != i.dim {
		return nil, fmt.Errorf("cover: %w: query dim %d != index dim %d", ErrInvalidArgument, len(query), i.dim)
	}
	return metric.NewPoint(query), nil
}

// observe records latency and the distance evaluations a query made.
func observe(kind string, started time.Time, before, after int64) {
	metrics.QueriesTotal.WithLabelValues(kind).Inc()
	metrics.QueryDuration.WithLabelValues(kind).Observe(time.Since(started).Seconds())
	if after > before {
		metrics.DistanceComputationsTotal.WithLabelValues("query").Add(float64(after - before))
	}
}

// Query returns up to k ids ordered by increasing distance.
func (i *Index) Query(query []float32, k int) ([]string, []float64, error) {
	if k < 1 {
		return nil, nil, fmt.Errorf("cover: %w: k must be at least 1, got %d", ErrInvalidArgument, k)
	}
	if i.tree == nil || len(i.ids) == 0 {
		return nil, nil, nil
	}
	q, err := i.query(query)
	if err != nil {
		return nil, nil, err
	}
	started, before := time.Now(), i.tree.DistanceComputations()
	found, err := i.tree.KNN(q, k)
	if err != nil {
		return nil, nil, err
	}
	observe("knn", started, before, i.tree.DistanceComputations())
	ids, dists := i.unzip(found)
	return ids, dists, nil
}

// Range returns every id within radius of query, in no particular order.
func (i *Index) Range(query []float32, radius float64) ([]string, []float64, error) {
	if math.IsNaN(radius) || radius < 0 {
		return nil, nil, fmt.Errorf("cover: %w: radius must be >= 0, got %v", ErrInvalidArgument, radius)
	}
	if i.tree == nil || len(i.ids) == 0 {
		return nil, nil, nil
	}
	q, err := i.query(query)
	if err != nil {
		return nil, nil, err
	}
	started, before := time.Now(), i.tree.DistanceComputations()
	found, err := i.tree.Range(q, radius)
	if err != nil {
		return nil, nil, err
	}
	observe("range", started, before, i.tree.DistanceComputations())
	ids, dists := i.unzip(found)
	return ids, dists, nil
}

// QueryBatch runs Query for every query concurrently and returns the
// results in query order. The first error cancels the batch.
func (i *Index) QueryBatch(queries [][]float32, k int) ([][]Result, error) {
	out := make([][]Result, len(queries))
	var g errgroup.Group
	g.SetLimit(i.parallelism)
	for n, q := range queries {
		g.Go(func() error {
			ids, dists, err := i.Query(q, k)
			if err != nil {
				return fmt.Errorf("cover: batch query %d: %w", n, err)
			}
			results := make([]Result, len(ids))
			for j := range ids {
				results[j] = Result{ID: ids[j], Distance: dists[j]}
			}
			out[n] = results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Nearest yields the indexed vectors within maxDist of query in increasing
// distance order, computing distances lazily. A dimension mismatch yields
// nothing and is logged.
func (i *Index) Nearest(query []float32, maxDist float64) iter.Seq[Result] {
	return func(yield func(Result) bool) {
		if i.tree == nil || len(i.ids) == 0 {
			return
		}
		q, err := i.query(query)
		if err != nil {
			log.Warn().Err(err).Msg("cover: nearest")
			return
		}
		metrics.QueriesTotal.WithLabelValues("nearest").Inc()
		for n := range i.tree.Nearest(q, maxDist) {
			if !yield(Result{ID: i.ids[n.Index], Distance: n.Distance}) {
				return
			}
		}
	}
}

// Stats returns the shape of the underlying tree.
func (i *Index) Stats() Stats {
	if i.tree == nil {
		return Stats{}
	}
	return i.tree.Stats()
}

// DistanceComputations returns the distance evaluations made since the last
// build or reset.
func (i *Index) DistanceComputations() int64 {
	if i.tree == nil {
		return 0
	}
	return i.tree.DistanceComputations()
}

// ResetDistanceComputations zeroes the distance counter.
func (i *Index) ResetDistanceComputations() {
	if i.tree != nil {
		i.tree.ResetDistanceComputations()
	}
}

func (i *Index) unzip(found []tree.Neighbor[*metric.Point]) ([]string, []float64) {
	ids := make([]string, len(found))
	dists := make([]float64, len(found))
	for n, f := range found {
		ids[n] = i.ids[f.Index]
		dists[n] = f.Distance
	}
	return ids, dists
}

// MarshalBinary uses the brute-force format for persistence.
func (i *Index) MarshalBinary() ([]byte, error) {
	vecs := make([][]float32, len(i.points))
	for j, p := range i.points {
		vecs[j] = p.Vector
	}
	bf := &bruteforce.Index{}
	if err := bf.Build(i.ids, vecs); err != nil {
		return nil, err
	}
	return bf.MarshalBinary()
}

// UnmarshalBinary loads brute-force format and rebuilds the tree.
func (i *Index) UnmarshalBinary(data []byte) error {
	ids, vecs, err := bruteforce.Decode(data)
	if err != nil {
		return err
	}
	return i.Build(ids, vecs)
}
