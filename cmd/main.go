package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/felthound/felthound/internal/adapters/store"
	"github.com/felthound/felthound/internal/app"
	"github.com/felthound/felthound/internal/config"
	"github.com/felthound/felthound/internal/report"
	"github.com/felthound/felthound/pkg/logger"
	"github.com/felthound/felthound/pkg/metrics"
)

// Metrics server timeout constants.
const (
	readHeaderTimeout = 5 * time.Second
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		playerID    = flag.String("player", "", "Evaluate a single player and print the full signal breakdown")
		clusters    = flag.Bool("clusters", true, "Run cohort clustering after the batch")
		topN        = flag.Int("top", 0, "Override the ranked report length")
		dbPath      = flag.String("db", "", "Override the analytics database path")
		metricsAddr = flag.String("metrics", "", "Override the Prometheus listen address")
	)
	flag.Parse()

	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return 1
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return 1
	}
	if *dbPath != "" {
		cfg.DatabasePath = *dbPath
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}
	if *topN > 0 {
		cfg.TopN = *topN
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Optional Prometheus listener.
	if cfg.MetricsAddr != "" {
		go serveMetrics(ctx, cfg.MetricsAddr, log)
	}

	st, err := store.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		log.Error(ctx, "failed to open analytics database",
			logger.String("path", cfg.DatabasePath), logger.Error(err))
		return 1
	}
	defer st.Close()

	engine, err := app.New(st,
		app.WithLogger(log.Named("engine")),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithShardCount(cfg.ShardCount),
		app.WithScoringConfig(cfg.Scoring),
		app.WithVerdictConfig(cfg.Verdict),
		app.WithClusterConfig(cfg.Cluster),
	)
	if err != nil {
		log.Error(ctx, "failed to build engine", logger.Error(err))
		return 1
	}

	if *playerID != "" {
		return runPlayer(ctx, engine, *playerID, log)
	}
	return runBatch(ctx, engine, cfg, *clusters, log)
}

// runPlayer evaluates one player and prints the full breakdown.
func runPlayer(ctx context.Context, engine *app.Engine, playerID string, log logger.Logger) int {
	v, err := engine.ComputeVerdict(ctx, playerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			os.Stderr.WriteString("unknown player: " + playerID + "\n")
			return 1
		}
		log.Error(ctx, "evaluation failed",
			logger.String("playerID", playerID), logger.Error(err))
		return 1
	}
	if err := report.WritePlayer(os.Stdout, v); err != nil {
		log.Error(ctx, "report write failed", logger.Error(err))
		return 1
	}
	return 0
}

// runBatch evaluates the filtered population and prints the ranked report,
// optionally followed by the cohort report.
func runBatch(ctx context.Context, engine *app.Engine, cfg *config.Config, withClusters bool, log logger.Logger) int {
	filter := store.Filter{
		MinHands:   cfg.FilterMinHands,
		SitePrefix: cfg.FilterSitePrefix,
		Limit:      cfg.FilterLimit,
	}

	res, err := engine.BatchCompute(ctx, filter)
	if err != nil && len(res.Verdicts) == 0 {
		log.Error(ctx, "batch run failed", logger.Error(err))
		return 1
	}
	if err != nil {
		// Partial result: report what completed, note the interruption.
		log.Warn(ctx, "batch run interrupted; reporting partial results", logger.Error(err))
	}

	if werr := report.WriteBatch(os.Stdout, res, cfg.TopN); werr != nil {
		log.Error(ctx, "report write failed", logger.Error(werr))
		return 1
	}

	if withClusters {
		cohorts, cerr := engine.ComputeClusters(ctx, filter)
		if cerr != nil {
			log.Error(ctx, "clustering failed", logger.Error(cerr))
			return 1
		}
		os.Stdout.WriteString("\n")
		if werr := report.WriteClusters(os.Stdout, cohorts); werr != nil {
			log.Error(ctx, "report write failed", logger.Error(werr))
			return 1
		}
	}

	if err != nil {
		return 1
	}
	return 0
}

// serveMetrics exposes the custom registry until the context ends.
func serveMetrics(ctx context.Context, addr string, log logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	log.Info(ctx, "serving metrics", logger.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error(ctx, "metrics server failed", logger.Error(err))
	}
}
