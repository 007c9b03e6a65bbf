package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/felthound/felthound/internal/domain/model"
)

// MemoryStore is an in-memory Store used by tests and the synthetic
// population tooling. Safe for concurrent readers and writers.
type MemoryStore struct {
	mu        sync.RWMutex
	profiles  map[string]model.PlayerProfile
	telemetry map[string]model.Telemetry
	closed    bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles:  make(map[string]model.PlayerProfile),
		telemetry: make(map[string]model.Telemetry),
	}
}

// Put registers or replaces a player's profile and telemetry.
func (s *MemoryStore) Put(p model.PlayerProfile, t model.Telemetry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.PlayerID] = p
	s.telemetry[p.PlayerID] = t
}

// GetPlayerProfile fetches one player's aggregate snapshot.
func (s *MemoryStore) GetPlayerProfile(_ context.Context, playerID string) (model.PlayerProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return model.PlayerProfile{}, ErrClosed
	}
	p, ok := s.profiles[playerID]
	if !ok {
		return model.PlayerProfile{}, fmt.Errorf("%w: %s", ErrNotFound, playerID)
	}
	return p, nil
}

// ListPlayers returns profiles matching the filter, largest samples first.
func (s *MemoryStore) ListPlayers(_ context.Context, f Filter) ([]model.PlayerProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	var profiles []model.PlayerProfile
	for _, p := range s.profiles {
		if p.TotalHands < f.MinHands {
			continue
		}
		if f.SitePrefix != "" && !strings.HasPrefix(p.PlayerID, f.SitePrefix) {
			continue
		}
		profiles = append(profiles, p)
	}
	sort.Slice(profiles, func(i, j int) bool {
		if profiles[i].TotalHands != profiles[j].TotalHands {
			return profiles[i].TotalHands > profiles[j].TotalHands
		}
		return profiles[i].PlayerID < profiles[j].PlayerID
	})
	if f.Limit > 0 && len(profiles) > f.Limit {
		profiles = profiles[:f.Limit]
	}
	return profiles, nil
}

// GetSessionLog returns the player's session records.
func (s *MemoryStore) GetSessionLog(_ context.Context, playerID string) ([]model.SessionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	return s.telemetry[playerID].Sessions, nil
}

// GetActionTimestamps returns the player's raw action timestamps.
func (s *MemoryStore) GetActionTimestamps(_ context.Context, playerID string) ([]time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	return s.telemetry[playerID].Actions, nil
}

// GetTiltEvents returns the player's recorded tilt events.
func (s *MemoryStore) GetTiltEvents(_ context.Context, playerID string) ([]model.TiltEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	return s.telemetry[playerID].TiltEvents, nil
}

// GetVarianceWindows returns the player's bankroll variance windows.
func (s *MemoryStore) GetVarianceWindows(_ context.Context, playerID string) ([]model.VarianceWindow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	return s.telemetry[playerID].VarianceWindows, nil
}

// Close marks the store closed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
