package engine

import (
	"database/sql"
	"database/sql/driver"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/viant/covertree/index/metric"
	sqlite "modernc.org/sqlite"
)

// RegisterVectorFunctions registers vec_cosine, vec_l2 and vec_l1 with the
// driver so they are available on new connections opened after this call.
// Note: existing open connections will not see new functions.
func RegisterVectorFunctions(_ *sql.DB) error {
	// Idempotent registration; driver rejects duplicates but we ignore errors silently here.
	_ = sqlite.RegisterDeterministicScalarFunction("vec_cosine", 2, pairFunction("vec_cosine", cosine))
	_ = sqlite.RegisterDeterministicScalarFunction("vec_l2", 2, pairFunction("vec_l2", metric.EuclideanDistance))
	_ = sqlite.RegisterDeterministicScalarFunction("vec_l1", 2, pairFunction("vec_l1", metric.ManhattanDistance))
	return nil
}

type pairFunc func(a, b *metric.Point) float64

// pairFunction adapts a distance over two embeddings to a SQL scalar
// function. NULL arguments yield NULL.
func pairFunction(name string, fn pairFunc) func(*sqlite.FunctionContext, []driver.Value) (driver.Value, error) {
	return func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("%s: expected 2 arguments, got %d", name, len(args))
		}
		a, err := asEmbedding(args[0])
		if err != nil {
			return nil, err
		}
		b, err := asEmbedding(args[1])
		if err != nil {
			return nil, err
		}
		if a == nil || b == nil {
			return nil, nil
		}
		if len(a) != len(b) {
			return nil, fmt.Errorf("%s: dim mismatch %d vs %d", name, len(a), len(b))
		}
		pa, pb := metric.NewPoint(a), metric.NewPoint(b)
		if name == "vec_cosine" && (pa.Magnitude == 0 || pb.Magnitude == 0) {
			return nil, fmt.Errorf("vec_cosine: zero-magnitude vector")
		}
		return fn(pa, pb), nil
	}
}

// cosine returns the cosine similarity, higher is more similar.
func cosine(a, b *metric.Point) float64 {
	return 1 - metric.CosineDistance(a, b)
}

func asEmbedding(arg driver.Value) ([]float32, error) {
	switch v := arg.(type) {
	case nil:
		return nil, nil
	case []byte:
		return decodeEmbedding(v)
	default:
		return nil, fmt.Errorf("vec: unsupported argument type %T for embedding; want BLOB", arg)
	}
}

// Local minimal helper to avoid import cycles in tests.
func decodeEmbedding(b []byte) ([]float32, error) {
	if len(b) == 0 {
		return nil, nil
	}
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("vec: invalid embedding blob length %d", len(b))
	}
	n := len(b) / 4
	v := make([]float32, n)
	for i := 0; i < n; i++ {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, nil
}
