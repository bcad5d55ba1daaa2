package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"gonum.org/v1/gonum/stat"

	"github.com/viant/covertree/index/bruteforce"
	"github.com/viant/covertree/internal/config"
)

// benchResult summarizes a bench run.
type benchResult struct {
	Queries       int
	Recall        float64
	MeanDistances float64
	StdDistances  float64
	Points        int
}

func runBench(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	queries := fs.Int("queries", 100, "number of queries")
	k := fs.Int("k", 10, "number of neighbors")
	seed := fs.Uint64("seed", 1, "query sampling seed")
	quiet := fs.Bool("quiet", false, "hide the progress bar")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *queries < 1 || *k < 1 {
		return fmt.Errorf("bench: -queries and -k must be positive")
	}
	res, err := bench(ctx, cfg, *queries, *k, *seed, !*quiet)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "queries\t%d\n", res.Queries)
	fmt.Fprintf(stdout, "recall@%d\t%.4f\n", *k, res.Recall)
	fmt.Fprintf(stdout, "distances/query\t%s ± %.1f (brute force %s)\n",
		humanize.CommafWithDigits(res.MeanDistances, 1), res.StdDistances, humanize.Comma(int64(res.Points)))
	return nil
}

// bench queries perturbed dataset points against the tree and a brute-force
// scan and reports recall and distance evaluations per query.
func bench(ctx context.Context, cfg *config.Config, queries, k int, seed uint64, progress bool) (*benchResult, error) {
	idx, vecs, err := buildIndex(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("bench: dataset is empty")
	}
	ref, err := bruteforce.New(idx.Metric())
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(vecs))
	for i := range ids {
		ids[i] = fmt.Sprint(i)
	}
	if err := ref.Build(ids, vecs); err != nil {
		return nil, err
	}

	var bar *progressbar.ProgressBar
	if progress {
		bar = progressbar.Default(int64(queries), "bench")
	}
	r := rand.New(rand.NewPCG(seed, seed+1))
	counts := make([]float64, 0, queries)
	var recall float64
	for n := 0; n < queries; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		base := vecs[r.IntN(len(vecs))]
		q := make([]float32, len(base))
		for j, v := range base {
			q[j] = v + float32(r.NormFloat64()*0.01)
		}
		idx.ResetDistanceComputations()
		_, got, err := idx.Query(q, k)
		if err != nil {
			return nil, err
		}
		counts = append(counts, float64(idx.DistanceComputations()))
		_, want, err := ref.Query(q, k)
		if err != nil {
			return nil, err
		}
		recall += recallAt(got, want)
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	mean, std := stat.MeanStdDev(counts, nil)
	return &benchResult{
		Queries:       queries,
		Recall:        recall / float64(queries),
		MeanDistances: mean,
		StdDistances:  std,
		Points:        len(vecs),
	}, nil
}

// recallAt compares result distances, so ties between equidistant points
// do not count as misses.
func recallAt(got, want []float64) float64 {
	if len(want) == 0 {
		return 1
	}
	bound := want[len(want)-1]
	hits := 0
	for _, d := range got {
		if d <= bound+1e-9 {
			hits++
		}
	}
	return float64(min(hits, len(want))) / float64(len(want))
}
