package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"habitforge/internal/engine"
	"habitforge/internal/formula"
)

type QuestRepo struct {
	db *sql.DB
}

func NewQuestRepo(db *sql.DB) *QuestRepo {
	return &QuestRepo{db: db}
}

// LoadAll reads every quest in stored position order.
func (r *QuestRepo) LoadAll(ctx context.Context) ([]*engine.Quest, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, difficulty, status, tracking, recurrence,
			target_stats, target_value, unit, progress, required,
			expires_at, boss_id, created_at, completed_at
		FROM quests
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("quest list: %w", err)
	}
	defer rows.Close()

	var out []*engine.Quest
	for rows.Next() {
		q, err := scanQuest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("quest list rows: %w", err)
	}
	return out, nil
}

func scanQuest(rows *sql.Rows) (*engine.Quest, error) {
	var q engine.Quest
	var id string
	var required int
	var targetStatsJSON, unit, bossID sql.NullString
	var completedAt sql.NullTime

	err := rows.Scan(&id, &q.Title, &q.Difficulty, &q.Status, &q.Tracking, &q.Recurrence,
		&targetStatsJSON, &q.TargetValue, &unit, &q.Progress, &required,
		&q.ExpiresAt, &bossID, &q.CreatedAt, &completedAt)
	if err != nil {
		return nil, fmt.Errorf("quest scan: %w", err)
	}

	q.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("quest id parse: %w", err)
	}
	q.Required = required != 0
	q.Unit = unit.String
	if targetStatsJSON.Valid && targetStatsJSON.String != "" {
		if err := json.Unmarshal([]byte(targetStatsJSON.String), &q.TargetStats); err != nil {
			return nil, fmt.Errorf("quest target stats unmarshal: %w", err)
		}
	}
	if bossID.Valid && bossID.String != "" {
		bid, err := uuid.Parse(bossID.String)
		if err != nil {
			return nil, fmt.Errorf("quest boss id parse: %w", err)
		}
		q.BossID = &bid
	}
	if completedAt.Valid {
		t := completedAt.Time
		q.CompletedAt = &t
	}
	if !q.Difficulty.IsValid() {
		q.Difficulty = formula.DefaultDifficulty
	}
	return &q, nil
}

// SaveAll rewrites the quest collection inside the given transaction.
func (r *QuestRepo) SaveAll(ctx context.Context, tx *sql.Tx, quests []*engine.Quest) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM quests`); err != nil {
		return fmt.Errorf("quest clear: %w", err)
	}

	for i, q := range quests {
		targetStatsJSON, err := json.Marshal(q.TargetStats)
		if err != nil {
			return fmt.Errorf("quest target stats marshal: %w", err)
		}
		var bossID *string
		if q.BossID != nil {
			s := q.BossID.String()
			bossID = &s
		}
		var completedAt *time.Time
		if q.CompletedAt != nil {
			completedAt = q.CompletedAt
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO quests (
				id, position, title, difficulty, status, tracking, recurrence,
				target_stats, target_value, unit, progress, required,
				expires_at, boss_id, created_at, completed_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, q.ID.String(), i, q.Title, string(q.Difficulty), string(q.Status), string(q.Tracking), string(q.Recurrence),
			string(targetStatsJSON), q.TargetValue, q.Unit, q.Progress, boolToInt(q.Required),
			q.ExpiresAt, bossID, q.CreatedAt, completedAt)
		if err != nil {
			return fmt.Errorf("quest insert: %w", err)
		}
	}
	return nil
}
