// Package config defines engine configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with deployment defaults.
// - Layer file and env overrides on top via Load.
// - External errors must be wrapped via this package's sentinel kinds.
package config

import (
	"runtime"

	"github.com/felthound/felthound/internal/domain/cluster"
	"github.com/felthound/felthound/internal/domain/signal"
	"github.com/felthound/felthound/internal/domain/verdict"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// DatabasePath points at the analytics SQLite database.
	DatabasePath string `koanf:"database_path"`

	// MetricsAddr configures the Prometheus listen address, e.g. ":9090".
	// Empty disables the listener.
	MetricsAddr string `koanf:"metrics_addr"`

	// QueueSize bounds the in-memory evaluation queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of evaluation workers.
	WorkerCount int `koanf:"worker_count"`

	// ShardCount configures the number of shards in the verdict index.
	ShardCount int `koanf:"shard_count"`

	// TopN caps the ranked suspect report length.
	TopN int `koanf:"top_n"`

	// Population filter applied when listing players for a batch run.
	FilterMinHands   int    `koanf:"filter_min_hands"`
	FilterSitePrefix string `koanf:"filter_site_prefix"`
	FilterLimit      int    `koanf:"filter_limit"`

	// Scoring carries the per-category signal tunables.
	Scoring signal.Config `koanf:"scoring"`

	// Verdict carries the tier table and evidence floors.
	Verdict verdict.Config `koanf:"verdict"`

	// Cluster carries the cohort clustering tunables.
	Cluster cluster.Config `koanf:"cluster"`
}

// New creates a Config with deployment defaults.
func New() *Config {
	return &Config{
		LogLevel:     "info",
		DatabasePath: "poker_analytics.db",
		MetricsAddr:  "",
		QueueSize:    10_000,
		WorkerCount:  runtime.NumCPU() * 2,
		ShardCount:   8,
		TopN:         20,

		FilterMinHands:   0,
		FilterSitePrefix: "",
		FilterLimit:      0,

		Scoring: signal.DefaultConfig(),
		Verdict: verdict.DefaultConfig(),
		Cluster: cluster.DefaultConfig(),
	}
}
