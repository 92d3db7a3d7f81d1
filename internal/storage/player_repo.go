package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"habitforge/internal/engine"
)

const mainPlayerKey = "main"

type PlayerRepo struct {
	db *sql.DB
}

func NewPlayerRepo(db *sql.DB) *PlayerRepo {
	return &PlayerRepo{db: db}
}

// Load reads the player document. sql.ErrNoRows bubbles up so the
// store can default-construct; corrupt JSON columns also surface as
// errors for the same fallback.
func (r *PlayerRepo) Load(ctx context.Context) (*engine.Player, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT name, level, total_xp, gold, current_hp, max_hp,
			current_streak, longest_streak, last_active_date,
			penalty_count, in_penalty_zone, stats, titles, soldiers
		FROM player WHERE key = ?
	`, mainPlayerKey)

	var p engine.Player
	var inPenaltyZone int
	var statsJSON, titlesJSON, soldiersJSON sql.NullString
	err := row.Scan(&p.Name, &p.Level, &p.TotalXP, &p.Gold, &p.CurrentHP, &p.MaxHP,
		&p.CurrentStreak, &p.LongestStreak, &p.LastActiveDate,
		&p.PenaltyCount, &inPenaltyZone, &statsJSON, &titlesJSON, &soldiersJSON)
	if err != nil {
		return nil, err
	}
	p.InPenaltyZone = inPenaltyZone != 0

	p.Stats = make(map[engine.StatKind]*engine.Stat, len(engine.AllStatKinds))
	if statsJSON.Valid && statsJSON.String != "" {
		if err := json.Unmarshal([]byte(statsJSON.String), &p.Stats); err != nil {
			return nil, fmt.Errorf("player stats unmarshal: %w", err)
		}
	}
	for _, k := range engine.AllStatKinds {
		if p.Stats[k] == nil {
			p.Stats[k] = &engine.Stat{}
		}
	}
	if titlesJSON.Valid && titlesJSON.String != "" {
		if err := json.Unmarshal([]byte(titlesJSON.String), &p.Titles); err != nil {
			return nil, fmt.Errorf("player titles unmarshal: %w", err)
		}
	}
	if soldiersJSON.Valid && soldiersJSON.String != "" {
		if err := json.Unmarshal([]byte(soldiersJSON.String), &p.Soldiers); err != nil {
			return nil, fmt.Errorf("player soldiers unmarshal: %w", err)
		}
	}
	return &p, nil
}

// Save upserts the player document inside the given transaction.
func (r *PlayerRepo) Save(ctx context.Context, tx *sql.Tx, p *engine.Player) error {
	statsJSON, err := json.Marshal(p.Stats)
	if err != nil {
		return fmt.Errorf("player stats marshal: %w", err)
	}
	titlesJSON, err := json.Marshal(p.Titles)
	if err != nil {
		return fmt.Errorf("player titles marshal: %w", err)
	}
	soldiersJSON, err := json.Marshal(p.Soldiers)
	if err != nil {
		return fmt.Errorf("player soldiers marshal: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO player (
			key, name, level, total_xp, gold, current_hp, max_hp,
			current_streak, longest_streak, last_active_date,
			penalty_count, in_penalty_zone, stats, titles, soldiers
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, mainPlayerKey, p.Name, p.Level, p.TotalXP, p.Gold, p.CurrentHP, p.MaxHP,
		p.CurrentStreak, p.LongestStreak, p.LastActiveDate,
		p.PenaltyCount, boolToInt(p.InPenaltyZone), string(statsJSON), string(titlesJSON), string(soldiersJSON))
	if err != nil {
		return fmt.Errorf("player save: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
