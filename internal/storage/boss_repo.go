package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"habitforge/internal/engine"
)

type BossRepo struct {
	db *sql.DB
}

func NewBossRepo(db *sql.DB) *BossRepo {
	return &BossRepo{db: db}
}

// LoadAll reads every boss fight in stored position order.
func (r *BossRepo) LoadAll(ctx context.Context) ([]*engine.BossFight, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, max_hp, current_hp, status, micro_tasks,
			linked_quests, goal, deadline, total_damage, quest_damage,
			task_damage, created_at
		FROM bosses
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("boss list: %w", err)
	}
	defer rows.Close()

	var out []*engine.BossFight
	for rows.Next() {
		b, err := scanBoss(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("boss list rows: %w", err)
	}
	return out, nil
}

func scanBoss(rows *sql.Rows) (*engine.BossFight, error) {
	var b engine.BossFight
	var id string
	var tasksJSON, linkedJSON, goalJSON sql.NullString
	var deadline sql.NullTime

	err := rows.Scan(&id, &b.Title, &b.MaxHP, &b.CurrentHP, &b.Status, &tasksJSON,
		&linkedJSON, &goalJSON, &deadline, &b.TotalDamage, &b.QuestDamage,
		&b.TaskDamage, &b.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("boss scan: %w", err)
	}

	b.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("boss id parse: %w", err)
	}
	if tasksJSON.Valid && tasksJSON.String != "" {
		if err := json.Unmarshal([]byte(tasksJSON.String), &b.MicroTasks); err != nil {
			return nil, fmt.Errorf("boss micro tasks unmarshal: %w", err)
		}
	}
	if linkedJSON.Valid && linkedJSON.String != "" {
		if err := json.Unmarshal([]byte(linkedJSON.String), &b.LinkedQuestIDs); err != nil {
			return nil, fmt.Errorf("boss linked quests unmarshal: %w", err)
		}
	}
	if goalJSON.Valid && goalJSON.String != "" {
		var g engine.DynamicBossGoal
		if err := json.Unmarshal([]byte(goalJSON.String), &g); err != nil {
			return nil, fmt.Errorf("boss goal unmarshal: %w", err)
		}
		b.Goal = &g
	}
	if deadline.Valid {
		t := deadline.Time
		b.Deadline = &t
	}
	return &b, nil
}

// SaveAll rewrites the boss collection inside the given transaction.
func (r *BossRepo) SaveAll(ctx context.Context, tx *sql.Tx, bosses []*engine.BossFight) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM bosses`); err != nil {
		return fmt.Errorf("boss clear: %w", err)
	}

	for i, b := range bosses {
		tasksJSON, err := json.Marshal(b.MicroTasks)
		if err != nil {
			return fmt.Errorf("boss micro tasks marshal: %w", err)
		}
		linkedJSON, err := json.Marshal(b.LinkedQuestIDs)
		if err != nil {
			return fmt.Errorf("boss linked quests marshal: %w", err)
		}
		var goalJSON *string
		if b.Goal != nil {
			data, err := json.Marshal(b.Goal)
			if err != nil {
				return fmt.Errorf("boss goal marshal: %w", err)
			}
			s := string(data)
			goalJSON = &s
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO bosses (
				id, position, title, max_hp, current_hp, status, micro_tasks,
				linked_quests, goal, deadline, total_damage, quest_damage,
				task_damage, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, b.ID.String(), i, b.Title, b.MaxHP, b.CurrentHP, string(b.Status), string(tasksJSON),
			string(linkedJSON), goalJSON, b.Deadline, b.TotalDamage, b.QuestDamage,
			b.TaskDamage, b.CreatedAt)
		if err != nil {
			return fmt.Errorf("boss insert: %w", err)
		}
	}
	return nil
}
