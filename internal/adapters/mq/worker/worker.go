// Package worker runs the per-player evaluation fan-out. Each worker pulls a
// profile snapshot off the queue, runs the full evaluation, and hands the
// verdict (or the per-player error) to a sink. Players are independent, so
// no ordering is guaranteed between them.
package worker

import (
	"context"
	"runtime"
	"strconv"
	"time"

	"github.com/felthound/felthound/internal/adapters/mq/queue"
	"github.com/felthound/felthound/internal/domain/model"
	"github.com/felthound/felthound/internal/domain/verdict"
	"github.com/felthound/felthound/pkg/logger"
	"github.com/felthound/felthound/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 4 // multiplier for runtime.NumCPU()
)

// Evaluator computes one player's composite verdict.
type Evaluator interface {
	Evaluate(ctx context.Context, p model.PlayerProfile) (verdict.Verdict, error)
}

// Sink receives completed evaluations. Implementations must be safe for
// concurrent use by all workers.
type Sink interface {
	Accept(v verdict.Verdict)
	Reject(playerID string, err error)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker processes jobs until the queue drains or the context is canceled.
type Worker struct {
	queue     Queue
	evaluator Evaluator
	sink      Sink
	name      string
	done      chan struct{}
	logger    logger.Logger
}

// Option applies a configuration option to the Worker.
type Option func(*Worker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *Worker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *Worker) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWorker creates a new worker with configuration options.
func NewWorker(q Queue, e Evaluator, s Sink, opts ...Option) *Worker {
	w := &Worker{
		queue:     q,
		evaluator: e,
		sink:      s,
		name:      "worker",
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run consumes jobs until the dequeue channel closes or ctx is canceled.
// Cancellation is cooperative: the job in flight finishes, everything still
// queued is abandoned, and partial results already sunk remain valid.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			w.process(ctx, job)
		}
	}
}

// process evaluates a single player snapshot.
func (w *Worker) process(ctx context.Context, job queue.Job) {
	start := time.Now()
	v, err := w.evaluator.Evaluate(ctx, job)
	metrics.ObserveEvalLatency(float64(time.Since(start).Milliseconds()))

	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "evaluate_error")
		w.logger.Error(ctx, "evaluation failed",
			logger.String("playerID", job.PlayerID),
			logger.Error(err),
		)
		w.sink.Reject(job.PlayerID, err)
		return
	}

	metrics.RecordVerdictComputed()
	w.sink.Accept(v)
}

// Pool manages the evaluation workers for one batch run.
type Pool struct {
	workers []*Worker
	logger  logger.Logger
}

// NewPool creates a worker pool. A non-positive count defaults to a multiple
// of the CPU count.
func NewPool(workerCount int, q Queue, e Evaluator, s Sink) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers: make([]*Worker, workerCount),
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewWorker(q, e, s, WithName("worker-"+strconv.Itoa(i)))
	}

	metrics.UpdateWorkerActiveCount(workerCount)
	return pool
}

// Start launches all workers.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Wait blocks until every worker has finished or ctx expires.
func (p *Pool) Wait(ctx context.Context) error {
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-ctx.Done():
			p.logger.Warn(ctx, "worker pool wait aborted", logger.Error(ctx.Err()))
			return ctx.Err()
		}
	}
	metrics.UpdateWorkerActiveCount(0)
	return nil
}
