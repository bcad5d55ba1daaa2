package tree

import (
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"
)

var (
	// ErrInvalidConfig is returned by Build for unusable construction parameters.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrInvalidArgument is returned by queries called with unusable arguments.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Variant selects the node layout of a tree.
type Variant int

const (
	// VariantFull keeps parent and singleton distances, trading memory for
	// fewer distance computations at query time.
	VariantFull Variant = iota
	// VariantSimplified keeps only the routing bound of every node.
	VariantSimplified
)

// String returns the variant name.
func (v Variant) String() string {
	switch v {
	case VariantFull:
		return "full"
	case VariantSimplified:
		return "simplified"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// ParseVariant resolves a variant by name.
func ParseVariant(name string) (Variant, error) {
	switch name {
	case "", "full":
		return VariantFull, nil
	case "simplified", "simple":
		return VariantSimplified, nil
	}
	return 0, fmt.Errorf("cover: %w: unknown variant %q", ErrInvalidConfig, name)
}

const (
	// DefaultExpansion matches the expansion rate of the reference cover tree
	// implementation. 2 is the textbook value; any value above 1 is valid.
	DefaultExpansion = 1.3
	// DefaultTruncate is the subtree size below which construction stops
	// refining and stores the remaining points in a leaf.
	DefaultTruncate = 10
)

// Config holds the construction parameters of a tree.
type Config struct {
	// Expansion is the base of the scale arithmetic; must be > 1.
	Expansion float64
	// Truncate is the minimum candidate count for further refinement; must be >= 1.
	Truncate int
	// Variant selects the node layout.
	Variant Variant
	// NonMetric marks a distance known to violate the metric axioms. The tree
	// is still built, but query results may be incomplete.
	NonMetric bool
	// Logger receives warnings and build statistics. Nil uses the global
	// zerolog logger.
	Logger *zerolog.Logger
}

// DefaultConfig returns the default construction parameters.
func DefaultConfig() Config {
	return Config{
		Expansion: DefaultExpansion,
		Truncate:  DefaultTruncate,
		Variant:   VariantFull,
	}
}

// Validate reports whether the configuration can be used to build a tree.
func (c Config) Validate() error {
	if math.IsNaN(c.Expansion) || math.IsInf(c.Expansion, 0) || c.Expansion <= 1 {
		return fmt.Errorf("cover: %w: expansion must be a finite value > 1, got %v", ErrInvalidConfig, c.Expansion)
	}
	if c.Truncate < 1 {
		return fmt.Errorf("cover: %w: truncate must be >= 1, got %d", ErrInvalidConfig, c.Truncate)
	}
	if c.Variant != VariantFull && c.Variant != VariantSimplified {
		return fmt.Errorf("cover: %w: unknown variant %d", ErrInvalidConfig, int(c.Variant))
	}
	return nil
}
