package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // pure-Go sqlite driver

	"github.com/felthound/felthound/internal/domain/model"
	"github.com/felthound/felthound/pkg/metrics"
)

// Default SQLite configuration constants.
const (
	driverName         = "sqlite"
	defaultMaxOpenConn = 4
	minutesPerHour     = 60
)

// SQLiteStore reads the analytics database produced by the import pipeline.
// The handle is opened once and reused for the store's whole lifetime; the
// original dashboard re-opened the file per request, which this replaces.
type SQLiteStore struct {
	db *sql.DB
}

// SQLiteOption applies a configuration option to the SQLiteStore.
type SQLiteOption func(*sqliteConfig)

type sqliteConfig struct {
	maxOpenConns int
}

// WithMaxOpenConns caps the connection pool size.
func WithMaxOpenConns(n int) SQLiteOption {
	return func(c *sqliteConfig) {
		if n > 0 {
			c.maxOpenConns = n
		}
	}
}

// NewSQLiteStore opens the analytics database read-only.
func NewSQLiteStore(path string, opts ...SQLiteOption) (*SQLiteStore, error) {
	cfg := sqliteConfig{maxOpenConns: defaultMaxOpenConn}
	for _, opt := range opts {
		opt(&cfg)
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrUnavailable, path, err)
	}
	db.SetMaxOpenConns(cfg.maxOpenConns)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping %s: %w", ErrUnavailable, path, err)
	}
	return &SQLiteStore{db: db}, nil
}

// GetPlayerProfile fetches one player's aggregate snapshot.
func (s *SQLiteStore) GetPlayerProfile(ctx context.Context, playerID string) (model.PlayerProfile, error) {
	defer observe("get_player_profile")()

	row := s.db.QueryRowContext(ctx, `
		SELECT player_id,
		       COALESCE(strftime('%s', updated_at), 0),
		       total_hands,
		       COALESCE(total_sessions, 0),
		       COALESCE(total_playtime_hours, 0),
		       COALESCE(vpip, 0), COALESCE(pfr, 0),
		       COALESCE(aggression_factor, 0),
		       COALESCE(cbet_flop, 0), COALESCE(cbet_turn, 0), COALESCE(cbet_river, 0),
		       COALESCE(avg_bet_size_flop, 0), COALESCE(avg_bet_size_turn, 0), COALESCE(avg_bet_size_river, 0),
		       COALESCE(wtsd, 0), COALESCE(w_sd, 0),
		       COALESCE(net_win_bb, 0)
		FROM player_stats
		WHERE player_id = ?`, playerID)

	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.PlayerProfile{}, fmt.Errorf("%w: %s", ErrNotFound, playerID)
	}
	if err != nil {
		return model.PlayerProfile{}, fmt.Errorf("%w: profile %s: %w", ErrUnavailable, playerID, err)
	}
	return p, nil
}

// ListPlayers returns profiles matching the filter, largest samples first.
func (s *SQLiteStore) ListPlayers(ctx context.Context, f Filter) ([]model.PlayerProfile, error) {
	defer observe("list_players")()

	query := `
		SELECT player_id,
		       COALESCE(strftime('%s', updated_at), 0),
		       total_hands,
		       COALESCE(total_sessions, 0),
		       COALESCE(total_playtime_hours, 0),
		       COALESCE(vpip, 0), COALESCE(pfr, 0),
		       COALESCE(aggression_factor, 0),
		       COALESCE(cbet_flop, 0), COALESCE(cbet_turn, 0), COALESCE(cbet_river, 0),
		       COALESCE(avg_bet_size_flop, 0), COALESCE(avg_bet_size_turn, 0), COALESCE(avg_bet_size_river, 0),
		       COALESCE(wtsd, 0), COALESCE(w_sd, 0),
		       COALESCE(net_win_bb, 0)
		FROM player_stats
		WHERE total_hands >= ? AND player_id LIKE ?
		ORDER BY total_hands DESC`
	args := []any{f.MinHands, f.SitePrefix + "%"}
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list players: %w", ErrUnavailable, err)
	}
	defer rows.Close()

	var profiles []model.PlayerProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: list players: %w", ErrUnavailable, err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list players: %w", ErrUnavailable, err)
	}
	return profiles, nil
}

// GetSessionLog returns session records, oldest first. A missing
// session_analysis table means the telemetry was never collected.
func (s *SQLiteStore) GetSessionLog(ctx context.Context, playerID string) ([]model.SessionRecord, error) {
	defer observe("get_session_log")()

	rows, err := s.db.QueryContext(ctx, `
		SELECT session_start, duration_minutes,
		       COALESCE(hands_played, 0), COALESCE(fatigue_score, 0)
		FROM session_analysis
		WHERE player_id = ?
		ORDER BY session_start`, playerID)
	if err != nil {
		if isMissingTable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: session log %s: %w", ErrUnavailable, playerID, err)
	}
	defer rows.Close()

	var sessions []model.SessionRecord
	for rows.Next() {
		var start string
		var minutes, fatigue float64
		var hands int
		if err := rows.Scan(&start, &minutes, &hands, &fatigue); err != nil {
			return nil, fmt.Errorf("%w: session log %s: %w", ErrUnavailable, playerID, err)
		}
		ts, err := parseSQLiteTime(start)
		if err != nil {
			return nil, fmt.Errorf("%w: session log %s: %w", ErrUnavailable, playerID, err)
		}
		sessions = append(sessions, model.SessionRecord{
			Start:        ts,
			Duration:     time.Duration(minutes * float64(time.Minute)),
			HandsPlayed:  hands,
			FatigueScore: fatigue,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: session log %s: %w", ErrUnavailable, playerID, err)
	}
	if sessions == nil {
		return nil, nil
	}
	return sessions, nil
}

// GetActionTimestamps returns raw per-action timestamps from the detailed
// action log when present.
func (s *SQLiteStore) GetActionTimestamps(ctx context.Context, playerID string) ([]time.Time, error) {
	defer observe("get_action_timestamps")()

	rows, err := s.db.QueryContext(ctx, `
		SELECT created_at
		FROM detailed_actions
		WHERE player_id = ? AND created_at IS NOT NULL
		ORDER BY created_at`, playerID)
	if err != nil {
		if isMissingTable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: action log %s: %w", ErrUnavailable, playerID, err)
	}
	defer rows.Close()

	var actions []time.Time
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("%w: action log %s: %w", ErrUnavailable, playerID, err)
		}
		ts, err := parseSQLiteTime(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: action log %s: %w", ErrUnavailable, playerID, err)
		}
		actions = append(actions, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: action log %s: %w", ErrUnavailable, playerID, err)
	}
	return actions, nil
}

// GetTiltEvents returns recorded tilt events when the table exists.
func (s *SQLiteStore) GetTiltEvents(ctx context.Context, playerID string) ([]model.TiltEvent, error) {
	defer observe("get_tilt_events")()

	rows, err := s.db.QueryContext(ctx, `
		SELECT occurred_at, COALESCE(aggression_increase, 0)
		FROM tilt_events
		WHERE player_id = ?
		ORDER BY occurred_at`, playerID)
	if err != nil {
		if isMissingTable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: tilt events %s: %w", ErrUnavailable, playerID, err)
	}
	defer rows.Close()

	events := []model.TiltEvent{}
	for rows.Next() {
		var raw string
		var inc float64
		if err := rows.Scan(&raw, &inc); err != nil {
			return nil, fmt.Errorf("%w: tilt events %s: %w", ErrUnavailable, playerID, err)
		}
		ts, err := parseSQLiteTime(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: tilt events %s: %w", ErrUnavailable, playerID, err)
		}
		events = append(events, model.TiltEvent{At: ts, AggressionIncrease: inc})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: tilt events %s: %w", ErrUnavailable, playerID, err)
	}
	return events, nil
}

// GetVarianceWindows returns bankroll variance windows when the table exists.
func (s *SQLiteStore) GetVarianceWindows(ctx context.Context, playerID string) ([]model.VarianceWindow, error) {
	defer observe("get_variance_windows")()

	rows, err := s.db.QueryContext(ctx, `
		SELECT COALESCE(variance_bb, 0), COALESCE(is_downswing, 0)
		FROM player_variance_windows
		WHERE player_id = ?`, playerID)
	if err != nil {
		if isMissingTable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: variance windows %s: %w", ErrUnavailable, playerID, err)
	}
	defer rows.Close()

	windows := []model.VarianceWindow{}
	for rows.Next() {
		var variance float64
		var down int
		if err := rows.Scan(&variance, &down); err != nil {
			return nil, fmt.Errorf("%w: variance windows %s: %w", ErrUnavailable, playerID, err)
		}
		windows = append(windows, model.VarianceWindow{VarianceBB: variance, Downswing: down != 0})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: variance windows %s: %w", ErrUnavailable, playerID, err)
	}
	return windows, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// scanner abstracts *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(sc scanner) (model.PlayerProfile, error) {
	var p model.PlayerProfile
	var playtimeHours float64
	err := sc.Scan(
		&p.PlayerID, &p.ProfileVersion,
		&p.TotalHands, &p.SessionCount, &playtimeHours,
		&p.VPIP, &p.PFR,
		&p.AggressionFactor,
		&p.CBetFlop, &p.CBetTurn, &p.CBetRiver,
		&p.AvgBetFlop, &p.AvgBetTurn, &p.AvgBetRiver,
		&p.WTSD, &p.WSD,
		&p.NetWinBB,
	)
	if err != nil {
		return model.PlayerProfile{}, err
	}
	p.TotalPlaytime = time.Duration(playtimeHours * minutesPerHour * float64(time.Minute))
	return p, nil
}

// parseSQLiteTime handles the two timestamp shapes the import pipeline
// writes: RFC3339 and the bare "2006-01-02 15:04:05" form.
func parseSQLiteTime(raw string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02 15:04:05", raw)
}

// isMissingTable detects the driver's "no such table" error, which marks a
// telemetry kind that was never imported rather than a failure.
func isMissingTable(err error) bool {
	return err != nil && strings.Contains(err.Error(), "no such table")
}

// observe times one store query for the metrics pipeline.
func observe(query string) func() {
	start := time.Now()
	return func() {
		metrics.ObserveStoreQueryLatency(query, float64(time.Since(start).Milliseconds()))
	}
}
