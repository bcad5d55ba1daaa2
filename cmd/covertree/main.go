// Command covertree builds a cover tree over a point set and queries it.
//
//	covertree [-config file] knn   -q "x,y,..." [-k N]
//	covertree [-config file] range -q "x,y,..." -r R
//	covertree [-config file] stats
//	covertree [-config file] bench [-queries N] [-k K] [-seed S]
//
// The dataset and tree parameters come from the config file, a .env file and
// COVERTREE_* environment variables.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/viant/covertree/internal/config"
)

var errUsage = errors.New("usage: covertree [-config file] <knn|range|stats|bench> [flags]")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		log.Error().Err(err).Msg("covertree")
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("covertree", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errUsage
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	setupLogging(cfg.Log)
	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr)
	}

	cmd, cmdArgs := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "knn":
		return runKNN(ctx, &cfg, cmdArgs, stdout)
	case "range":
		return runRange(ctx, &cfg, cmdArgs, stdout)
	case "stats":
		return runStats(ctx, &cfg, stdout)
	case "bench":
		return runBench(ctx, &cfg, cmdArgs, stdout)
	default:
		return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
	}
}

func setupLogging(cfg config.Log) {
	if cfg.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

func serveMetrics(addr string) {
	log.Info().Str("address", addr).Msg("starting metrics server")
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Msg("metrics server failed")
	}
}
