// Package store defines the analytics-store contract the engine reads from.
// The engine never owns the backing connection: callers construct a Store
// once per batch or process lifetime and pass it in.
package store

import (
	"context"
	"time"

	"github.com/felthound/felthound/internal/domain/model"
)

// Filter narrows a population listing.
type Filter struct {
	// MinHands excludes players below a hand-count floor.
	MinHands int
	// SitePrefix restricts to player IDs with the given prefix, e.g.
	// "coinpoker/".
	SitePrefix string
	// Limit caps the number of returned profiles; 0 means no cap.
	Limit int
}

// Store is the read-only analytics contract. Telemetry getters return a nil
// slice with a nil error when that telemetry was never collected for the
// player; the caller must not treat absence as failure.
type Store interface {
	// GetPlayerProfile fetches one player's aggregate snapshot.
	// Returns ErrNotFound for unknown players.
	GetPlayerProfile(ctx context.Context, playerID string) (model.PlayerProfile, error)

	// ListPlayers returns the profiles matching the filter, ordered by
	// total hands descending.
	ListPlayers(ctx context.Context, f Filter) ([]model.PlayerProfile, error)

	// GetSessionLog returns the player's session records, oldest first.
	GetSessionLog(ctx context.Context, playerID string) ([]model.SessionRecord, error)

	// GetActionTimestamps returns the player's raw action timestamps.
	GetActionTimestamps(ctx context.Context, playerID string) ([]time.Time, error)

	// GetTiltEvents returns recorded aggression spikes after losing pots.
	GetTiltEvents(ctx context.Context, playerID string) ([]model.TiltEvent, error)

	// GetVarianceWindows returns the player's bankroll variance windows.
	GetVarianceWindows(ctx context.Context, playerID string) ([]model.VarianceWindow, error)

	// Close releases the underlying handle.
	Close() error
}

// FetchTelemetry gathers every optional log for one player with a single
// round of up-front calls. Missing telemetry kinds stay nil in the result;
// only transport-level failures are returned.
func FetchTelemetry(ctx context.Context, s Store, playerID string) (model.Telemetry, error) {
	var t model.Telemetry
	var err error

	if t.Sessions, err = s.GetSessionLog(ctx, playerID); err != nil {
		return model.Telemetry{}, err
	}
	if t.Actions, err = s.GetActionTimestamps(ctx, playerID); err != nil {
		return model.Telemetry{}, err
	}
	if t.TiltEvents, err = s.GetTiltEvents(ctx, playerID); err != nil {
		return model.Telemetry{}, err
	}
	if t.VarianceWindows, err = s.GetVarianceWindows(ctx, playerID); err != nil {
		return model.Telemetry{}, err
	}
	return t, nil
}
