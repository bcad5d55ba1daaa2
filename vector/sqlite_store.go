package vector

import (
	"cmp"
	"context"
	"database/sql"
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/viant/covertree/index"
	"github.com/viant/covertree/index/bruteforce"
	"github.com/viant/covertree/index/cover"
	"github.com/viant/covertree/index/metric"
	"github.com/viant/covertree/internal/metrics"
)

// SQLiteStore is an implementation of Store that uses a SQLite database for
// durable storage. Searches run on an in-memory index built in bulk from all
// stored embeddings; any write marks the index stale and the next search
// rebuilds it. Documents without an embedding are stored but never returned
// by searches.
type SQLiteStore struct {
	db        *sql.DB
	indexKind string
	metric    metric.Metric
	coverOpts []cover.Option
	logger    *zerolog.Logger

	mu    sync.RWMutex
	dirty bool
	idx   index.Index
	dim   int
}

// NewSQLiteStore creates a new SQLite-backed Store. It ensures the base docs
// schema exists in the provided database.
func NewSQLiteStore(db *sql.DB, opts ...StoreOption) (*SQLiteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("vector: db is nil")
	}
	if err := EnsureSchema(db); err != nil {
		return nil, err
	}
	s := &SQLiteStore{db: db, indexKind: IndexAuto, metric: metric.Default, dirty: true}
	for _, opt := range opts {
		opt(s)
	}
	if s.metric.Function() == nil {
		return nil, fmt.Errorf("vector: unsupported metric %q", s.metric)
	}
	if s.logger == nil {
		s.logger = &log.Logger
	}
	return s, nil
}

// AddDocuments inserts documents into the docs table. Documents without an
// ID get a random UUID.
func (s *SQLiteStore) AddDocuments(ctx context.Context, docs []Document) ([]string, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO docs(id, content, meta, embedding) VALUES(?, ?, ?, ?)`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		id := d.ID
		if id == "" {
			id = uuid.NewString()
		}
		// Encode embedding (if present) into a BLOB.
		emb, err := EncodeEmbedding(d.Embedding)
		if err != nil {
			return nil, err
		}
		if _, err := stmt.ExecContext(ctx, id, d.Content, d.Metadata, emb); err != nil {
			return nil, fmt.Errorf("vector: insert %q: %w", id, err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	s.invalidate()
	return ids, nil
}

// Remove deletes a document by ID from the docs table; the index drops it on
// the next rebuild.
func (s *SQLiteStore) Remove(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("vector: Remove called with empty id")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM docs WHERE id = ?`, id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// Invalidate marks the index stale, for writes made to the docs table
// outside of the store.
func (s *SQLiteStore) Invalidate() { s.invalidate() }

func (s *SQLiteStore) invalidate() {
	s.mu.Lock()
	s.dirty = true
	s.mu.Unlock()
}

// SimilaritySearch returns up to k documents closest to queryEmbedding.
func (s *SQLiteStore) SimilaritySearch(ctx context.Context, queryEmbedding []float32, k int) ([]Document, error) {
	if k <= 0 {
		return nil, nil
	}
	return s.search(ctx, queryEmbedding, func(idx index.Index) ([]string, []float64, error) {
		return idx.Query(queryEmbedding, k)
	})
}

// RangeSearch returns the documents within radius of queryEmbedding, closest
// first.
func (s *SQLiteStore) RangeSearch(ctx context.Context, queryEmbedding []float32, radius float64) ([]Document, error) {
	if math.IsNaN(radius) || radius < 0 {
		return nil, fmt.Errorf("vector: invalid radius %v", radius)
	}
	docs, err := s.search(ctx, queryEmbedding, func(idx index.Index) ([]string, []float64, error) {
		return idx.Range(queryEmbedding, radius)
	})
	if err != nil {
		return nil, err
	}
	sortByDistance(docs)
	return docs, nil
}

func (s *SQLiteStore) search(ctx context.Context, query []float32, run func(index.Index) ([]string, []float64, error)) ([]Document, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	idx, dim, err := s.index(ctx)
	if err != nil {
		return nil, err
	}
	if idx == nil {
		return nil, nil
	}
	if len(query) != dim {
		return nil, fmt.Errorf("vector: query dim %d != index dim %d", len(query), dim)
	}
	ids, dists, err := run(idx)
	if err != nil || len(ids) == 0 {
		return nil, err
	}
	docs, err := s.fetch(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]Document, 0, len(ids))
	for n, id := range ids {
		d, ok := docs[id]
		if !ok {
			continue // removed since the rebuild
		}
		d.Distance = dists[n]
		out = append(out, d)
	}
	return out, nil
}

// index returns the current index, rebuilding it if writes happened since
// the last build.
func (s *SQLiteStore) index(ctx context.Context) (index.Index, int, error) {
	s.mu.RLock()
	if !s.dirty {
		idx, dim := s.idx, s.dim
		s.mu.RUnlock()
		return idx, dim, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return s.idx, s.dim, nil
	}
	if err := s.rebuild(ctx); err != nil {
		return nil, 0, err
	}
	s.dirty = false
	return s.idx, s.dim, nil
}

func (s *SQLiteStore) rebuild(ctx context.Context) error {
	started := time.Now()
	rows, err := s.db.QueryContext(ctx, `SELECT id, embedding FROM docs WHERE embedding IS NOT NULL AND length(embedding) > 0 ORDER BY rowid`)
	if err != nil {
		return err
	}
	defer rows.Close()
	var ids []string
	var vecs [][]float32
	for rows.Next() {
		var id string
		var blob []byte
		if err := rows.Scan(&id, &blob); err != nil {
			return err
		}
		vec, err := DecodeEmbedding(blob)
		if err != nil {
			return fmt.Errorf("vector: document %q: %w", id, err)
		}
		ids = append(ids, id)
		vecs = append(vecs, vec)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if len(ids) == 0 {
		s.idx, s.dim = nil, 0
		return nil
	}
	dim := len(vecs[0])
	kind := s.resolveIndexKind(len(ids), dim)
	var idx index.Index
	if kind == IndexCover {
		opts := append([]cover.Option{cover.WithDistance(s.metric), cover.WithLogger(s.logger)}, s.coverOpts...)
		idx = cover.New(opts...)
	} else {
		bf, err := bruteforce.New(s.metric)
		if err != nil {
			return err
		}
		idx = bf
	}
	if err := idx.Build(ids, vecs); err != nil {
		return fmt.Errorf("vector: rebuild %s index: %w", kind, err)
	}
	s.idx, s.dim = idx, dim
	metrics.StoreRebuildsTotal.Inc()
	s.logger.Debug().Str("kind", kind).Int("docs", len(ids)).Int("dim", dim).
		Dur("elapsed", time.Since(started)).Msg("vector: index rebuilt")
	return nil
}

// fetch loads the documents with the given ids.
func (s *SQLiteStore) fetch(ctx context.Context, ids []string) (map[string]Document, error) {
	out := make(map[string]Document, len(ids))
	const batch = 500
	for start := 0; start < len(ids); start += batch {
		chunk := ids[start:min(start+batch, len(ids))]
		args := make([]any, len(chunk))
		for i, id := range chunk {
			args[i] = id
		}
		query := `SELECT id, content, meta, embedding FROM docs WHERE id IN (?` + strings.Repeat(",?", len(chunk)-1) + `)`
		docs, err := s.query(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		for _, d := range docs {
			out[d.ID] = d
		}
	}
	return out, nil
}

// LoadDocuments returns every stored document, including embeddings, in
// insertion order.
func (s *SQLiteStore) LoadDocuments(ctx context.Context) ([]Document, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	return s.query(ctx, `SELECT id, content, meta, embedding FROM docs ORDER BY rowid`)
}

// ScanSearch ranks documents by vec_l2 inside SQLite with a linear scan.
// engine.RegisterVectorFunctions must have been called before the database
// connection was opened.
func (s *SQLiteStore) ScanSearch(ctx context.Context, queryEmbedding []float32, k int) ([]Document, error) {
	if k <= 0 {
		return nil, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	q, err := EncodeEmbedding(queryEmbedding)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, content, meta, embedding, vec_l2(embedding, ?) AS dist
		FROM docs WHERE embedding IS NOT NULL AND length(embedding) > 0 ORDER BY dist LIMIT ?`, q, k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Document
	for rows.Next() {
		var d Document
		var content, meta sql.NullString
		var blob []byte
		if err := rows.Scan(&d.ID, &content, &meta, &blob, &d.Distance); err != nil {
			return nil, err
		}
		d.Content, d.Metadata = content.String, meta.String
		if d.Embedding, err = DecodeEmbedding(blob); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) query(ctx context.Context, query string, args ...any) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var d Document
		var content, meta sql.NullString
		var blob []byte
		if err := rows.Scan(&d.ID, &content, &meta, &blob); err != nil {
			return nil, err
		}
		d.Content, d.Metadata = content.String, meta.String
		if d.Embedding, err = DecodeEmbedding(blob); err != nil {
			return nil, fmt.Errorf("vector: document %q: %w", d.ID, err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func sortByDistance(docs []Document) {
	slices.SortStableFunc(docs, func(a, b Document) int { return cmp.Compare(a.Distance, b.Distance) })
}

// Ensure SQLiteStore satisfies the Store interface.
var _ Store = (*SQLiteStore)(nil)
