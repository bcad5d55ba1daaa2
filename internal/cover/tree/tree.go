package tree

// The bulk-loaded layout follows the cover tree of Beygelzimer, Kakade and
// Langford (ICML 2006), without insertions or removals after construction.

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Tree is an immutable cover tree over a fixed point set. Queries may run
// concurrently once Build has returned.
type Tree[P any] struct {
	points []P
	dist   counter[P]
	cfg    Config
	scale  scaler
	logger *zerolog.Logger

	nodes   []node
	edges   []int32
	members []int32
	// Full variant only, indexed by node id and member position.
	parentDist []float64
	memberDist []float64
}

// Build bulk-loads a tree over points. The first point becomes the root
// routing point. points is retained and must not be modified afterwards.
func Build[P any](points []P, distance Distance[P], cfg Config) (*Tree[P], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if distance == nil {
		return nil, fmt.Errorf("cover: %w: distance function is nil", ErrInvalidConfig)
	}
	if len(points) > math.MaxInt32 {
		return nil, fmt.Errorf("cover: %w: %d points exceed the index capacity", ErrInvalidArgument, len(points))
	}
	logger := cfg.Logger
	if logger == nil {
		logger = &log.Logger
	}
	t := &Tree[P]{
		points: points,
		cfg:    cfg,
		scale:  newScaler(cfg.Expansion),
		logger: logger,
	}
	t.dist.fn = distance
	if cfg.NonMetric {
		logger.Warn().Msg("cover: distance is not a metric, query results may be incomplete")
	}
	t.bulkLoad()
	if e := logger.Debug(); e.Enabled() {
		s := t.Stats()
		e.Int("points", s.Points).
			Int("nodes", s.Nodes).
			Int("maxDepth", s.MaxDepth).
			Float64("avgDepth", s.AvgDepth).
			Int("singletons", s.Singletons).
			Int("entries", s.Entries).
			Int64("distances", s.DistanceComputations).
			Str("variant", cfg.Variant.String()).
			Msg("cover: tree built")
	}
	return t, nil
}

// Len returns the number of indexed points.
func (t *Tree[P]) Len() int { return len(t.points) }

// Point returns the point stored at index i of the input set.
func (t *Tree[P]) Point(i int) P { return t.points[i] }

// Config returns the construction parameters.
func (t *Tree[P]) Config() Config { return t.cfg }

// DistanceComputations returns the number of distance evaluations made by
// construction and all queries so far.
func (t *Tree[P]) DistanceComputations() int64 { return t.dist.calls.Load() }

// ResetDistanceComputations zeroes the distance counter.
func (t *Tree[P]) ResetDistanceComputations() { t.dist.calls.Store(0) }

func (t *Tree[P]) queryDistance(query P, idx int32) float64 {
	return t.dist.distance(query, t.points[idx])
}

func (t *Tree[P]) neighbor(idx int32, d float64) Neighbor[P] {
	return Neighbor[P]{Index: int(idx), Point: t.points[idx], Distance: d}
}
