package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/viant/covertree/index/metric"
	"github.com/viant/covertree/internal/cover/tree"
)

// EnvPrefix prefixes every environment override, e.g. COVERTREE_TREE_EXPANSION.
const EnvPrefix = "COVERTREE"

// Config validation errors
var (
	ErrInvalidExpansion = errors.New("tree.expansion must be a finite value > 1")
	ErrInvalidTruncate  = errors.New("tree.truncate must be >= 1")
	ErrInvalidVariant   = errors.New("tree.variant must be 'full' or 'simplified'")
	ErrInvalidMetric    = errors.New("tree.metric is not a supported metric")
	ErrInvalidFormat    = errors.New("dataset.format must be csv, parquet or sqlite")
	ErrInvalidLogLevel  = errors.New("log.level must be debug, info, warn, or error")
)

// Config is the CLI configuration.
type Config struct {
	Dataset Dataset `yaml:"dataset"`
	Tree    Tree    `yaml:"tree"`
	Log     Log     `yaml:"log"`

	// MetricsAddr serves Prometheus metrics when set.
	MetricsAddr string `yaml:"metricsAddr" split_words:"true"`
}

type Dataset struct {
	Path string `yaml:"path"`

	// Format is csv, parquet or sqlite; empty infers it from the path extension.
	Format     string `yaml:"format"`
	SkipHeader bool   `yaml:"skipHeader" split_words:"true"`
}

type Tree struct {
	Expansion float64 `yaml:"expansion"`
	Truncate  int     `yaml:"truncate"`
	Variant   string  `yaml:"variant"`
	Metric    string  `yaml:"metric"`
}

type Log struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() Config {
	return Config{
		Tree: Tree{
			Expansion: tree.DefaultExpansion,
			Truncate:  tree.DefaultTruncate,
			Variant:   tree.VariantFull.String(),
			Metric:    string(metric.Default),
		},
		Log: Log{Level: "info", Pretty: true},
	}
}

// Load layers the defaults, the YAML file at path (optional), a .env file in
// the working directory (optional) and COVERTREE_* environment variables,
// then validates the result.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: %s: %w", path, err)
		}
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("config: .env: %w", err)
	}
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := ValidateConfig(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ValidateConfig validates the configuration and returns an error if invalid
func ValidateConfig(cfg *Config) error {
	if math.IsNaN(cfg.Tree.Expansion) || math.IsInf(cfg.Tree.Expansion, 0) || cfg.Tree.Expansion <= 1 {
		return ErrInvalidExpansion
	}
	if cfg.Tree.Truncate < 1 {
		return ErrInvalidTruncate
	}
	if _, err := tree.ParseVariant(cfg.Tree.Variant); err != nil {
		return ErrInvalidVariant
	}
	if _, err := metric.Parse(cfg.Tree.Metric); err != nil {
		return ErrInvalidMetric
	}
	switch cfg.Dataset.Format {
	case "", "csv", "parquet", "sqlite":
	default:
		return ErrInvalidFormat
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}
	return nil
}

// TreeConfig converts the tree section into construction parameters.
func (c *Config) TreeConfig() (tree.Config, metric.Metric, error) {
	variant, err := tree.ParseVariant(c.Tree.Variant)
	if err != nil {
		return tree.Config{}, "", err
	}
	m, err := metric.Parse(c.Tree.Metric)
	if err != nil {
		return tree.Config{}, "", err
	}
	cfg := tree.Config{
		Expansion: c.Tree.Expansion,
		Truncate:  c.Tree.Truncate,
		Variant:   variant,
		NonMetric: !m.IsMetric(),
	}
	return cfg, m, nil
}
