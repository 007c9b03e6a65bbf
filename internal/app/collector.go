package app

import (
	"errors"
	"sync"

	"github.com/felthound/felthound/internal/domain/verdict"
	"github.com/felthound/felthound/pkg/metrics"
)

// Pipeline stages a player evaluation can fail in. Auditors correlate
// failures by stage, so every rejected player carries one.
const (
	CategoryTelemetryFetch = "telemetry_fetch"
	CategoryEnqueue        = "enqueue"
	CategoryEvaluate       = "evaluate"
)

// PlayerError carries one player's evaluation failure out of a batch run.
// Batches never abort on a single player: failures are reported alongside
// the verdicts that did complete.
type PlayerError struct {
	PlayerID string
	Category string
	Err      error
}

// categoryError tags an error with the pipeline stage that produced it.
// Reject unwraps the tag into PlayerError.Category.
type categoryError struct {
	category string
	err      error
}

func (e *categoryError) Error() string { return e.err.Error() }
func (e *categoryError) Unwrap() error { return e.err }

// tagCategory wraps err with its originating pipeline stage.
func tagCategory(category string, err error) error {
	return &categoryError{category: category, err: err}
}

// collector is the sink the worker pool feeds during a batch run.
type collector struct {
	mu       sync.Mutex
	verdicts []verdict.Verdict
	errors   []PlayerError
}

func newCollector(capacity int) *collector {
	return &collector{
		verdicts: make([]verdict.Verdict, 0, capacity),
	}
}

// Accept records a completed verdict.
func (c *collector) Accept(v verdict.Verdict) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.verdicts = append(c.verdicts, v)
}

// Reject records a per-player failure with its originating stage.
func (c *collector) Reject(playerID string, err error) {
	metrics.RecordBatchPlayerError()

	category := CategoryEvaluate
	var ce *categoryError
	if errors.As(err, &ce) {
		category = ce.category
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = append(c.errors, PlayerError{PlayerID: playerID, Category: category, Err: err})
}

// drain returns the collected results. Safe to call once workers stopped.
func (c *collector) drain() ([]verdict.Verdict, []PlayerError) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.verdicts, c.errors
}
