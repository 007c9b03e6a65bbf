// Package repository defines the verdict index and errors. The index keeps
// the latest verdict per player and answers ranked "most suspicious first"
// queries for review tooling. It is a cache over the current batch, not
// authoritative state.
package repository

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"sync"

	"github.com/felthound/felthound/internal/domain/verdict"
)

// Default index configuration constants.
const (
	defaultShardCount = 8
)

// Index provides read/write access to per-player verdicts.
type Index interface {
	// Upsert records the latest verdict for a player, replacing any prior
	// one.
	Upsert(ctx context.Context, v verdict.Verdict) error

	// Get returns the stored verdict for a player.
	// Returns ErrNotFound if the player has not been evaluated.
	Get(ctx context.Context, playerID string) (verdict.Verdict, error)

	// TopN returns the n highest-scoring verdicts, most suspicious first.
	TopN(ctx context.Context, n int) ([]verdict.Verdict, error)

	// Count returns the number of players in the index.
	Count(ctx context.Context) int
}

// shard holds one partition of the index.
type shard struct {
	mu       sync.RWMutex
	verdicts map[string]verdict.Verdict
}

// ShardedIndex implements Index with hash-partitioned maps so concurrent
// workers never contend on a single lock.
type ShardedIndex struct {
	shards []*shard
}

// Option applies a configuration option to the ShardedIndex.
type Option func(*indexConfig)

type indexConfig struct {
	shardCount int
}

// WithShardCount sets the number of partitions.
func WithShardCount(n int) Option {
	return func(c *indexConfig) {
		if n > 0 {
			c.shardCount = n
		}
	}
}

// NewShardedIndex creates an empty index.
func NewShardedIndex(opts ...Option) *ShardedIndex {
	cfg := indexConfig{shardCount: defaultShardCount}
	for _, opt := range opts {
		opt(&cfg)
	}
	shards := make([]*shard, cfg.shardCount)
	for i := range shards {
		shards[i] = &shard{verdicts: make(map[string]verdict.Verdict)}
	}
	return &ShardedIndex{shards: shards}
}

func (x *ShardedIndex) shardFor(playerID string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(playerID))
	return x.shards[h.Sum32()%uint32(len(x.shards))]
}

// Upsert records the latest verdict for a player.
func (x *ShardedIndex) Upsert(_ context.Context, v verdict.Verdict) error {
	s := x.shardFor(v.PlayerID)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verdicts[v.PlayerID] = v
	return nil
}

// Get returns the stored verdict for a player.
func (x *ShardedIndex) Get(_ context.Context, playerID string) (verdict.Verdict, error) {
	s := x.shardFor(playerID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.verdicts[playerID]
	if !ok {
		return verdict.Verdict{}, fmt.Errorf("%w: %s", ErrNotFound, playerID)
	}
	return v, nil
}

// TopN returns the n highest-scoring verdicts. Ties break on player ID so
// the ranking is deterministic.
func (x *ShardedIndex) TopN(_ context.Context, n int) ([]verdict.Verdict, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, n)
	}

	var all []verdict.Verdict
	for _, s := range x.shards {
		s.mu.RLock()
		for _, v := range s.verdicts {
			all = append(all, v)
		}
		s.mu.RUnlock()
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].BotScore != all[j].BotScore {
			return all[i].BotScore > all[j].BotScore
		}
		return all[i].PlayerID < all[j].PlayerID
	})
	if n < len(all) {
		all = all[:n]
	}
	return all, nil
}

// Count returns the number of players in the index.
func (x *ShardedIndex) Count(_ context.Context) int {
	total := 0
	for _, s := range x.shards {
		s.mu.RLock()
		total += len(s.verdicts)
		s.mu.RUnlock()
	}
	return total
}
