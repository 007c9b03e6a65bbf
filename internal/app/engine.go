// Package app wires the evaluation pipeline: store reads, feature
// extraction, signal scoring, composite aggregation, cohort clustering, and
// the ranked verdict index. The Engine is the one entry point the binaries
// talk to.
package app

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/felthound/felthound/internal/adapters/mq/queue"
	"github.com/felthound/felthound/internal/adapters/mq/worker"
	"github.com/felthound/felthound/internal/adapters/repository"
	"github.com/felthound/felthound/internal/adapters/store"
	"github.com/felthound/felthound/internal/domain/cluster"
	"github.com/felthound/felthound/internal/domain/features"
	"github.com/felthound/felthound/internal/domain/model"
	"github.com/felthound/felthound/internal/domain/signal"
	"github.com/felthound/felthound/internal/domain/verdict"
	"github.com/felthound/felthound/pkg/logger"
	"github.com/felthound/felthound/pkg/metrics"
)

// Default engine configuration constants.
const (
	defaultQueueSize = 10_000
	defaultCacheSize = 50_000
)

// Engine runs the full behavioral evaluation pipeline over an analytics
// store. All exported methods are safe for concurrent use.
type Engine struct {
	store store.Store
	index repository.Index
	cache *verdictCache
	group singleflight.Group

	scoring     signal.Config
	verdictCfg  verdict.Config
	clusterCfg  cluster.Config
	workerCount int
	queueSize   int
	cacheSize   int
	shardCount  int

	logger logger.Logger
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithWorkerCount sets the number of evaluation workers per batch.
func WithWorkerCount(count int) Option {
	return func(e *Engine) {
		if count > 0 {
			e.workerCount = count
		}
	}
}

// WithQueueSize sets the evaluation queue capacity.
func WithQueueSize(size int) Option {
	return func(e *Engine) {
		if size > 0 {
			e.queueSize = size
		}
	}
}

// WithCacheSize bounds the verdict cache. Non-positive disables eviction.
func WithCacheSize(size int) Option {
	return func(e *Engine) {
		e.cacheSize = size
	}
}

// WithShardCount sets the number of verdict index shards.
func WithShardCount(count int) Option {
	return func(e *Engine) {
		if count > 0 {
			e.shardCount = count
		}
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithScoringConfig overrides the signal scorer tunables.
func WithScoringConfig(cfg signal.Config) Option {
	return func(e *Engine) {
		e.scoring = cfg
	}
}

// WithVerdictConfig overrides the tier table and evidence floors.
func WithVerdictConfig(cfg verdict.Config) Option {
	return func(e *Engine) {
		e.verdictCfg = cfg
	}
}

// WithClusterConfig overrides the cohort clustering tunables.
func WithClusterConfig(cfg cluster.Config) Option {
	return func(e *Engine) {
		e.clusterCfg = cfg
	}
}

// New constructs an Engine over the given analytics store.
func New(st store.Store, opts ...Option) (*Engine, error) {
	if st == nil {
		return nil, ErrNilStore
	}

	e := &Engine{
		store:       st,
		scoring:     signal.DefaultConfig(),
		verdictCfg:  verdict.DefaultConfig(),
		clusterCfg:  cluster.DefaultConfig(),
		workerCount: runtime.NumCPU() * 2,
		queueSize:   defaultQueueSize,
		cacheSize:   defaultCacheSize,
		shardCount:  0, // repository default
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = logger.Get().Named("engine")
	}
	e.cache = newVerdictCache(e.cacheSize)
	var idxOpts []repository.Option
	if e.shardCount > 0 {
		idxOpts = append(idxOpts, repository.WithShardCount(e.shardCount))
	}
	e.index = repository.NewShardedIndex(idxOpts...)

	return e, nil
}

// cacheKey builds the memoization key for one profile snapshot.
func cacheKey(playerID string, version int64) string {
	return fmt.Sprintf("%s@%d", playerID, version)
}

// Evaluate runs the full pipeline for one profile snapshot: telemetry fetch,
// feature extraction, signal scoring, aggregation. Results are memoized on
// (PlayerID, ProfileVersion) and concurrent evaluations of the same snapshot
// collapse into one.
func (e *Engine) Evaluate(ctx context.Context, p model.PlayerProfile) (verdict.Verdict, error) {
	key := cacheKey(p.PlayerID, p.ProfileVersion)
	if v, ok := e.cache.get(key); ok {
		metrics.RecordCacheHit()
		return v, nil
	}
	metrics.RecordCacheMiss()

	res, err, _ := e.group.Do(key, func() (interface{}, error) {
		if v, ok := e.cache.get(key); ok {
			return v, nil
		}
		v, err := e.evaluate(ctx, p)
		if err != nil {
			return nil, err
		}
		e.cache.put(key, v)
		return v, nil
	})
	if err != nil {
		return verdict.Verdict{}, err
	}
	return res.(verdict.Verdict), nil
}

// evaluate is the uncached pipeline body.
func (e *Engine) evaluate(ctx context.Context, p model.PlayerProfile) (verdict.Verdict, error) {
	telemetry, err := store.FetchTelemetry(ctx, e.store, p.PlayerID)
	if err != nil {
		metrics.RecordErrorByComponent("engine", "telemetry_fetch")
		return verdict.Verdict{}, tagCategory(CategoryTelemetryFetch,
			fmt.Errorf("fetch telemetry for %s: %w", p.PlayerID, err))
	}

	fv := features.Extract(p, telemetry)
	scores := signal.Evaluate(fv, e.scoring)
	return verdict.Aggregate(p.PlayerID, p.ProfileVersion, scores, e.verdictCfg), nil
}

// ComputeVerdict evaluates a single player by ID and records the verdict in
// the ranked index.
func (e *Engine) ComputeVerdict(ctx context.Context, playerID string) (verdict.Verdict, error) {
	p, err := e.store.GetPlayerProfile(ctx, playerID)
	if err != nil {
		return verdict.Verdict{}, err
	}
	v, err := e.Evaluate(ctx, p)
	if err != nil {
		return verdict.Verdict{}, err
	}
	if err := e.index.Upsert(ctx, v); err != nil {
		return verdict.Verdict{}, err
	}
	return v, nil
}

// BatchResult is the outcome of one population run. Verdicts are ordered
// most suspicious first; Errors lists the players that could not be
// evaluated. A partially failed batch is still a valid result.
type BatchResult struct {
	RunID    uuid.UUID
	Verdicts []verdict.Verdict
	Errors   []PlayerError
	Summary  Summary
}

// Summary aggregates one batch run for the report header.
type Summary struct {
	Population       int
	Evaluated        int
	Failed           int
	MeanBotScore     float64
	MaxBotScore      float64
	ByClassification map[string]int
	Duration         time.Duration
}

// BatchCompute evaluates every player matching the filter through the worker
// pool. Cancellation is cooperative: on ctx expiry the jobs in flight finish,
// the rest are abandoned, and the partial result is returned with ctx's
// error.
func (e *Engine) BatchCompute(ctx context.Context, f store.Filter) (BatchResult, error) {
	start := time.Now()
	runID := uuid.New()
	metrics.RecordBatchRun()

	players, err := e.store.ListPlayers(ctx, f)
	if err != nil {
		metrics.RecordErrorByComponent("engine", "list_players")
		return BatchResult{RunID: runID}, fmt.Errorf("list players: %w", err)
	}
	metrics.UpdatePopulationSize(len(players))

	e.logger.Info(ctx, "batch run starting",
		logger.String("runID", runID.String()),
		logger.Int("population", len(players)),
		logger.Int("workers", e.workerCount),
	)

	capacity := e.queueSize
	if len(players) > capacity {
		capacity = len(players)
	}
	q := queue.NewInMemoryQueue(queue.WithCapacity(capacity))
	sink := newCollector(len(players))
	pool := worker.NewPool(e.workerCount, q, e, sink)
	pool.Start(ctx)

	for _, p := range players {
		if ctx.Err() != nil {
			break
		}
		if !q.Enqueue(ctx, p) {
			sink.Reject(p.PlayerID, tagCategory(CategoryEnqueue, ErrEnqueueFailed))
		}
	}
	_ = q.Close()

	waitErr := pool.Wait(ctx)

	verdicts, playerErrors := sink.drain()
	for _, v := range verdicts {
		_ = e.index.Upsert(ctx, v)
	}
	sort.Slice(verdicts, func(i, j int) bool {
		if verdicts[i].BotScore != verdicts[j].BotScore {
			return verdicts[i].BotScore > verdicts[j].BotScore
		}
		return verdicts[i].PlayerID < verdicts[j].PlayerID
	})

	res := BatchResult{
		RunID:    runID,
		Verdicts: verdicts,
		Errors:   playerErrors,
		Summary:  summarize(len(players), verdicts, playerErrors, time.Since(start)),
	}
	metrics.ObserveBatchDuration(float64(res.Summary.Duration.Milliseconds()))

	e.logger.Info(ctx, "batch run finished",
		logger.String("runID", runID.String()),
		logger.Int("evaluated", res.Summary.Evaluated),
		logger.Int("failed", res.Summary.Failed),
		logger.Duration("took", res.Summary.Duration),
	)
	return res, waitErr
}

// summarize folds a batch outcome into the report header aggregates.
func summarize(population int, verdicts []verdict.Verdict, errs []PlayerError, took time.Duration) Summary {
	s := Summary{
		Population:       population,
		Evaluated:        len(verdicts),
		Failed:           len(errs),
		ByClassification: make(map[string]int),
		Duration:         took,
	}
	var sum float64
	for _, v := range verdicts {
		sum += v.BotScore
		if v.BotScore > s.MaxBotScore {
			s.MaxBotScore = v.BotScore
		}
		s.ByClassification[v.Classification]++
	}
	if len(verdicts) > 0 {
		s.MeanBotScore = sum / float64(len(verdicts))
	}
	return s
}

// ComputeClusters projects the evaluated population into behavior space and
// groups it into cohorts. X is preflop tightness (PFR/VPIP), Y is showdown
// win rate; a farm of accounts sharing one strategy lands close on both.
// Players without an indexed verdict are skipped.
func (e *Engine) ComputeClusters(ctx context.Context, f store.Filter) ([]cluster.Cluster, error) {
	players, err := e.store.ListPlayers(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	points := make([]cluster.Point, 0, len(players))
	for _, p := range players {
		v, err := e.index.Get(ctx, p.PlayerID)
		if err != nil {
			continue
		}
		ratio := 0.0
		if p.VPIP > 0 {
			ratio = p.PFR / p.VPIP
		}
		points = append(points, cluster.Point{
			PlayerID: p.PlayerID,
			X:        ratio,
			Y:        p.WSD,
			BotScore: v.BotScore,
		})
	}

	clusters := cluster.Run(points, e.clusterCfg)
	metrics.RecordClusterRun()
	metrics.UpdateClusterCount(len(clusters))
	return clusters, nil
}

// TopSuspects returns the n highest-scoring indexed verdicts.
func (e *Engine) TopSuspects(ctx context.Context, n int) ([]verdict.Verdict, error) {
	return e.index.TopN(ctx, n)
}

// PlayerVerdict returns the indexed verdict for one player.
// Returns repository.ErrNotFound if the player has not been evaluated.
func (e *Engine) PlayerVerdict(ctx context.Context, playerID string) (verdict.Verdict, error) {
	return e.index.Get(ctx, playerID)
}

// EvaluatedCount returns the number of players in the verdict index.
func (e *Engine) EvaluatedCount(ctx context.Context) int {
	return e.index.Count(ctx)
}

// CacheSize returns the current number of memoized verdicts.
func (e *Engine) CacheSize() int {
	return e.cache.size()
}
