package vector

import (
	"github.com/rs/zerolog"
	"github.com/viant/covertree/index/cover"
	"github.com/viant/covertree/index/metric"
)

// Index kinds accepted by WithIndexKind.
const (
	IndexAuto  = "auto"
	IndexBrute = "brute"
	IndexCover = "cover"
)

const (
	autoCoverMinDocs            = 256
	autoCoverMinDensity float64 = 16
)

// StoreOption configures a SQLiteStore.
type StoreOption func(*SQLiteStore)

// WithIndexKind selects the search index: "cover", "brute" or "auto"
// (cover once the collection is large and dense enough to benefit).
func WithIndexKind(kind string) StoreOption {
	return func(s *SQLiteStore) { s.indexKind = kind }
}

// WithMetric selects the distance metric used by searches.
func WithMetric(m metric.Metric) StoreOption {
	return func(s *SQLiteStore) { s.metric = m }
}

// WithCoverOptions passes options to the cover tree index.
func WithCoverOptions(opts ...cover.Option) StoreOption {
	return func(s *SQLiteStore) { s.coverOpts = append(s.coverOpts, opts...) }
}

// WithLogger sets the logger receiving index rebuild events.
func WithLogger(logger *zerolog.Logger) StoreOption {
	return func(s *SQLiteStore) { s.logger = logger }
}

func (s *SQLiteStore) resolveIndexKind(docCount, dim int) string {
	switch s.indexKind {
	case IndexCover, IndexBrute:
		return s.indexKind
	}
	if docCount >= autoCoverMinDocs && dim > 0 {
		if density := float64(docCount) / float64(dim); density >= autoCoverMinDensity {
			return IndexCover
		}
	}
	return IndexBrute
}
