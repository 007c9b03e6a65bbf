package synthpop

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // pure-Go sqlite driver
)

const sqliteTimeLayout = "2006-01-02 15:04:05"

// schema mirrors the tables the import pipeline writes and the engine's
// store reads. Every telemetry table is created even when a member carries
// no rows for it: an existing empty table means "collected, nothing found",
// a missing table means "never collected".
const schema = `
CREATE TABLE IF NOT EXISTS player_stats (
	player_id            TEXT PRIMARY KEY,
	updated_at           TEXT,
	total_hands          INTEGER NOT NULL,
	total_sessions       INTEGER,
	total_playtime_hours REAL,
	vpip REAL, pfr REAL,
	aggression_factor REAL,
	cbet_flop REAL, cbet_turn REAL, cbet_river REAL,
	avg_bet_size_flop REAL, avg_bet_size_turn REAL, avg_bet_size_river REAL,
	wtsd REAL, w_sd REAL,
	net_win_bb REAL
);
CREATE TABLE IF NOT EXISTS session_analysis (
	player_id        TEXT NOT NULL,
	session_start    TEXT NOT NULL,
	duration_minutes REAL NOT NULL,
	hands_played     INTEGER,
	fatigue_score    REAL
);
CREATE TABLE IF NOT EXISTS detailed_actions (
	player_id  TEXT NOT NULL,
	created_at TEXT
);
CREATE TABLE IF NOT EXISTS tilt_events (
	player_id           TEXT NOT NULL,
	occurred_at         TEXT NOT NULL,
	aggression_increase REAL
);
CREATE TABLE IF NOT EXISTS player_variance_windows (
	player_id    TEXT NOT NULL,
	variance_bb  REAL,
	is_downswing INTEGER
);
CREATE INDEX IF NOT EXISTS idx_sessions_player ON session_analysis(player_id);
CREATE INDEX IF NOT EXISTS idx_actions_player  ON detailed_actions(player_id);
`

// SeedSQLite writes a generated population into a fresh analytics database
// at path, in the exact shape the engine's SQLite store reads back.
func SeedSQLite(ctx context.Context, path string, members []Member) error {
	db, err := sql.Open("sqlite", "file:"+path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for _, m := range members {
		if err := insertMember(ctx, tx, m); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func insertMember(ctx context.Context, tx *sql.Tx, m Member) error {
	p := m.Profile
	updatedAt := time.Unix(p.ProfileVersion, 0).UTC().Format(time.RFC3339)
	_, err := tx.ExecContext(ctx, `
		INSERT INTO player_stats (
			player_id, updated_at, total_hands, total_sessions,
			total_playtime_hours, vpip, pfr, aggression_factor,
			cbet_flop, cbet_turn, cbet_river,
			avg_bet_size_flop, avg_bet_size_turn, avg_bet_size_river,
			wtsd, w_sd, net_win_bb
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.PlayerID, updatedAt, p.TotalHands, p.SessionCount,
		p.TotalPlaytime.Hours(), p.VPIP, p.PFR, p.AggressionFactor,
		p.CBetFlop, p.CBetTurn, p.CBetRiver,
		p.AvgBetFlop, p.AvgBetTurn, p.AvgBetRiver,
		p.WTSD, p.WSD, p.NetWinBB,
	)
	if err != nil {
		return fmt.Errorf("insert stats %s: %w", p.PlayerID, err)
	}

	for _, s := range m.Telemetry.Sessions {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO session_analysis
				(player_id, session_start, duration_minutes, hands_played, fatigue_score)
			VALUES (?, ?, ?, ?, ?)`,
			p.PlayerID, s.Start.UTC().Format(sqliteTimeLayout),
			s.Duration.Minutes(), s.HandsPlayed, s.FatigueScore,
		); err != nil {
			return fmt.Errorf("insert session %s: %w", p.PlayerID, err)
		}
	}

	for _, at := range m.Telemetry.Actions {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO detailed_actions (player_id, created_at) VALUES (?, ?)`,
			p.PlayerID, at.UTC().Format(sqliteTimeLayout),
		); err != nil {
			return fmt.Errorf("insert action %s: %w", p.PlayerID, err)
		}
	}

	for _, t := range m.Telemetry.TiltEvents {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO tilt_events (player_id, occurred_at, aggression_increase)
			VALUES (?, ?, ?)`,
			p.PlayerID, t.At.UTC().Format(sqliteTimeLayout), t.AggressionIncrease,
		); err != nil {
			return fmt.Errorf("insert tilt %s: %w", p.PlayerID, err)
		}
	}

	for _, w := range m.Telemetry.VarianceWindows {
		down := 0
		if w.Downswing {
			down = 1
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO player_variance_windows (player_id, variance_bb, is_downswing)
			VALUES (?, ?, ?)`,
			p.PlayerID, w.VarianceBB, down,
		); err != nil {
			return fmt.Errorf("insert variance %s: %w", p.PlayerID, err)
		}
	}
	return nil
}
