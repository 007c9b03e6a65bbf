package config

import (
	"fmt"

	"github.com/felthound/felthound/internal/domain/signal"
)

// Validate checks the loaded configuration and fails fast on anything the
// engine cannot run with. A partially valid config never reaches the scorers;
// it reports the first invalid setting found.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("%w: database_path must not be empty", ErrInvalidConfig)
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("%w: queue_size must be positive, got %d", ErrInvalidConfig, c.QueueSize)
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf("%w: worker_count must be positive, got %d", ErrInvalidConfig, c.WorkerCount)
	}
	if c.ShardCount <= 0 {
		return fmt.Errorf("%w: shard_count must be positive, got %d", ErrInvalidConfig, c.ShardCount)
	}
	if c.TopN <= 0 {
		return fmt.Errorf("%w: top_n must be positive, got %d", ErrInvalidConfig, c.TopN)
	}

	// Every scoring category needs a positive weight: a zero or missing
	// weight silently erases a category from the composite.
	for _, cat := range signal.Categories() {
		w, ok := c.Scoring.Weights[string(cat)]
		if !ok {
			return fmt.Errorf("%w: missing weight for category %q", ErrInvalidConfig, cat)
		}
		if w <= 0 {
			return fmt.Errorf("%w: weight for category %q must be positive, got %g", ErrInvalidConfig, cat, w)
		}
	}
	if len(c.Scoring.Weights) != len(signal.Categories()) {
		return fmt.Errorf("%w: unknown categories in weight table", ErrInvalidConfig)
	}
	if c.Scoring.MinHands < 0 || c.Scoring.MinSessions < 0 ||
		c.Scoring.MinActions < 0 || c.Scoring.MinReactionSamples < 0 {
		return fmt.Errorf("%w: minimum-sample gates must not be negative", ErrInvalidConfig)
	}

	// Tier table: non-empty and strictly increasing upper bounds.
	if len(c.Verdict.Tiers) == 0 {
		return fmt.Errorf("%w: verdict tier table must not be empty", ErrInvalidConfig)
	}
	prev := -1.0
	for i, t := range c.Verdict.Tiers {
		if t.Max <= prev {
			return fmt.Errorf("%w: tier %d bound %g not strictly increasing", ErrInvalidConfig, i, t.Max)
		}
		if t.Classification == "" {
			return fmt.Errorf("%w: tier %d missing classification", ErrInvalidConfig, i)
		}
		prev = t.Max
	}

	if c.Cluster.K < 1 {
		return fmt.Errorf("%w: cluster k must be at least 1, got %d", ErrInvalidConfig, c.Cluster.K)
	}
	if c.Cluster.MaxIterations < 1 {
		return fmt.Errorf("%w: cluster max_iterations must be at least 1, got %d", ErrInvalidConfig, c.Cluster.MaxIterations)
	}
	if c.Cluster.SuspiciousScore <= 0 || c.Cluster.SuspiciousScore >= 100 {
		return fmt.Errorf("%w: cluster suspicious_score must be in (0, 100), got %g", ErrInvalidConfig, c.Cluster.SuspiciousScore)
	}
	return nil
}
