package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"

	"github.com/viant/covertree/dataset"
	"github.com/viant/covertree/engine"
	"github.com/viant/covertree/index/cover"
	"github.com/viant/covertree/internal/config"
	"github.com/viant/covertree/vector"
)

func loadDataset(ctx context.Context, cfg config.Dataset) ([]string, [][]float32, error) {
	if cfg.Path == "" {
		return nil, nil, fmt.Errorf("dataset.path is not set")
	}
	format := cfg.Format
	if format == "" {
		switch strings.ToLower(filepath.Ext(cfg.Path)) {
		case ".parquet":
			format = "parquet"
		case ".db", ".sqlite", ".sqlite3":
			format = "sqlite"
		default:
			format = "csv"
		}
	}
	switch format {
	case "parquet":
		return dataset.LoadParquet(cfg.Path)
	case "sqlite":
		db, err := engine.Open(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		defer db.Close()
		store, err := vector.NewSQLiteStore(db)
		if err != nil {
			return nil, nil, err
		}
		return dataset.LoadStore(ctx, store)
	default:
		return dataset.LoadCSV(cfg.Path, cfg.SkipHeader)
	}
}

// buildIndex loads the configured dataset and bulk-loads a tree over it.
func buildIndex(ctx context.Context, cfg *config.Config) (*cover.Index, [][]float32, error) {
	ids, vecs, err := loadDataset(ctx, cfg.Dataset)
	if err != nil {
		return nil, nil, err
	}
	treeCfg, m, err := cfg.TreeConfig()
	if err != nil {
		return nil, nil, err
	}
	idx := cover.New(
		cover.WithBase(treeCfg.Expansion),
		cover.WithTruncate(treeCfg.Truncate),
		cover.WithVariant(treeCfg.Variant),
		cover.WithDistance(m),
	)
	started := time.Now()
	if err := idx.Build(ids, vecs); err != nil {
		return nil, nil, err
	}
	log.Info().Int("points", idx.Len()).Int("dim", idx.Dim()).Str("metric", string(m)).
		Dur("elapsed", time.Since(started)).Msg("tree built")
	return idx, vecs, nil
}

func runKNN(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("knn", flag.ContinueOnError)
	query := fs.String("q", "", "comma separated query vector")
	k := fs.Int("k", 10, "number of neighbors")
	if err := fs.Parse(args); err != nil {
		return err
	}
	q, err := dataset.ParseVector(strings.Split(*query, ","))
	if err != nil {
		return fmt.Errorf("knn: -q: %w", err)
	}
	idx, _, err := buildIndex(ctx, cfg)
	if err != nil {
		return err
	}
	ids, dists, err := idx.Query(q, *k)
	if err != nil {
		return err
	}
	printMatches(stdout, ids, dists)
	return nil
}

func runRange(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("range", flag.ContinueOnError)
	query := fs.String("q", "", "comma separated query vector")
	radius := fs.Float64("r", 0, "search radius")
	if err := fs.Parse(args); err != nil {
		return err
	}
	q, err := dataset.ParseVector(strings.Split(*query, ","))
	if err != nil {
		return fmt.Errorf("range: -q: %w", err)
	}
	if *radius < 0 {
		return fmt.Errorf("range: -r must be >= 0, got %v", *radius)
	}
	idx, _, err := buildIndex(ctx, cfg)
	if err != nil {
		return err
	}
	var ids []string
	var dists []float64
	// Nearest yields in distance order, so the output is sorted.
	for r := range idx.Nearest(q, *radius) {
		ids = append(ids, r.ID)
		dists = append(dists, r.Distance)
	}
	printMatches(stdout, ids, dists)
	return nil
}

func runStats(ctx context.Context, cfg *config.Config, stdout io.Writer) error {
	idx, _, err := buildIndex(ctx, cfg)
	if err != nil {
		return err
	}
	s := idx.Stats()
	fmt.Fprintf(stdout, "points\t%s\n", humanize.Comma(int64(s.Points)))
	fmt.Fprintf(stdout, "nodes\t%s\n", humanize.Comma(int64(s.Nodes)))
	fmt.Fprintf(stdout, "singletons\t%s\n", humanize.Comma(int64(s.Singletons)))
	fmt.Fprintf(stdout, "entries\t%s\n", humanize.Comma(int64(s.Entries)))
	fmt.Fprintf(stdout, "max depth\t%d\n", s.MaxDepth)
	fmt.Fprintf(stdout, "avg depth\t%.2f\n", s.AvgDepth)
	fmt.Fprintf(stdout, "build distances\t%s\n", humanize.Comma(s.DistanceComputations))
	return nil
}

func printMatches(w io.Writer, ids []string, dists []float64) {
	for i := range ids {
		fmt.Fprintf(w, "%s\t%g\n", ids[i], dists[i])
	}
}
