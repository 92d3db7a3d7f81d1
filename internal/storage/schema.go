package storage

import (
	"context"
	"database/sql"
	"fmt"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS player (
			key TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			level INTEGER DEFAULT 1,
			total_xp INTEGER DEFAULT 0,
			gold INTEGER DEFAULT 0,
			current_hp INTEGER DEFAULT 100,
			max_hp INTEGER DEFAULT 100,
			current_streak INTEGER DEFAULT 0,
			longest_streak INTEGER DEFAULT 0,
			last_active_date TEXT DEFAULT '',
			penalty_count INTEGER DEFAULT 0,
			in_penalty_zone INTEGER DEFAULT 0,
			stats TEXT,
			titles TEXT,
			soldiers TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS quests (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			status TEXT NOT NULL,
			tracking TEXT NOT NULL,
			recurrence TEXT NOT NULL,
			target_stats TEXT,
			target_value REAL DEFAULT 0,
			unit TEXT,
			progress REAL DEFAULT 0,
			required INTEGER DEFAULT 0,
			expires_at DATETIME NOT NULL,
			boss_id TEXT,
			created_at DATETIME NOT NULL,
			completed_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS bosses (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			max_hp INTEGER NOT NULL,
			current_hp INTEGER NOT NULL,
			status TEXT NOT NULL,
			micro_tasks TEXT,
			linked_quests TEXT,
			goal TEXT,
			deadline DATETIME,
			total_damage INTEGER DEFAULT 0,
			quest_damage INTEGER DEFAULT 0,
			task_damage INTEGER DEFAULT 0,
			created_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS activity_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			kind TEXT NOT NULL,
			message TEXT NOT NULL,
			at DATETIME NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_quests_status ON quests(status);`,
		`CREATE INDEX IF NOT EXISTS idx_activity_log_at ON activity_log(at);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
