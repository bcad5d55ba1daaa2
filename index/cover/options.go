package cover

import (
	"github.com/rs/zerolog"
	"github.com/viant/covertree/index/metric"
	"github.com/viant/covertree/internal/cover/tree"
)

// Option configures an Index.
type Option func(*Index)

// WithBase sets the expansion base of the tree scales. Values <= 1 are
// rejected by Build.
func WithBase(base float64) Option {
	return func(i *Index) { i.config.Expansion = base }
}

// WithTruncate sets the subtree size below which points are stored in leaves.
func WithTruncate(truncate int) Option {
	return func(i *Index) { i.config.Truncate = truncate }
}

// WithVariant selects the node layout.
func WithVariant(variant Variant) Option {
	return func(i *Index) { i.config.Variant = variant }
}

// WithDistance selects the distance metric.
func WithDistance(m metric.Metric) Option {
	return func(i *Index) { i.metric = m }
}

// WithLogger sets the logger receiving build warnings and statistics.
func WithLogger(logger *zerolog.Logger) Option {
	return func(i *Index) { i.config.Logger = logger }
}

// WithQueryParallelism bounds the number of goroutines QueryBatch uses.
func WithQueryParallelism(n int) Option {
	return func(i *Index) {
		if n > 0 {
			i.parallelism = n
		}
	}
}

// Re-exported tree types, so callers need not import the internal package.
type (
	Variant = tree.Variant
	Config  = tree.Config
	Stats   = tree.Stats
	// Tree is a cover tree over an arbitrary point type.
	Tree[P any] = tree.Tree[P]
	// Neighbor is a tree query result.
	Neighbor[P any] = tree.Neighbor[P]
	// Distance is a metric over P.
	Distance[P any] = tree.Distance[P]
)

const (
	VariantFull       = tree.VariantFull
	VariantSimplified = tree.VariantSimplified
)

var (
	ErrInvalidConfig   = tree.ErrInvalidConfig
	ErrInvalidArgument = tree.ErrInvalidArgument
)

// DefaultConfig returns the default tree construction parameters.
func DefaultConfig() Config { return tree.DefaultConfig() }

// ParseVariant resolves a variant by name ("full" or "simplified").
func ParseVariant(name string) (Variant, error) { return tree.ParseVariant(name) }

// Build bulk-loads a cover tree over points of any type.
func Build[P any](points []P, distance Distance[P], cfg Config) (*Tree[P], error) {
	return tree.Build(points, distance, cfg)
}
