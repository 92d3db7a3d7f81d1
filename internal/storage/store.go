package storage

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"habitforge/internal/engine"
)

// Store bundles the document repos behind the engine's Persister
// contract.
type Store struct {
	db       *sql.DB
	player   *PlayerRepo
	quests   *QuestRepo
	bosses   *BossRepo
	activity *ActivityRepo
	logger   *slog.Logger
}

func NewStore(db *sql.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		db:       db,
		player:   NewPlayerRepo(db),
		quests:   NewQuestRepo(db),
		bosses:   NewBossRepo(db),
		activity: NewActivityRepo(db),
		logger:   logger,
	}
}

func (s *Store) ActivityRepo() *ActivityRepo { return s.activity }

// LoadState reads every document, falling back per piece: a missing
// or corrupt player, quest list or boss list default-constructs
// without blocking the others.
func (s *Store) LoadState(ctx context.Context, playerName string) *engine.State {
	state := &engine.State{}

	p, err := s.player.Load(ctx)
	switch {
	case err == nil:
		state.Player = p
	case errors.Is(err, sql.ErrNoRows):
		state.Player = engine.NewPlayer(playerName)
	default:
		s.logger.Warn("player document unreadable, starting fresh", "error", err)
		state.Player = engine.NewPlayer(playerName)
	}
	if state.Player.Name == "" {
		state.Player.Name = playerName
	}

	quests, err := s.quests.LoadAll(ctx)
	if err != nil {
		s.logger.Warn("quest list unreadable, starting empty", "error", err)
	} else {
		state.Quests = quests
	}

	bosses, err := s.bosses.LoadAll(ctx)
	if err != nil {
		s.logger.Warn("boss list unreadable, starting empty", "error", err)
	} else {
		state.Bosses = bosses
	}

	activity, err := s.activity.Recent(ctx, 100)
	if err != nil {
		s.logger.Warn("activity log unreadable, starting empty", "error", err)
	} else {
		state.Activity = activity
	}

	return state
}

// SaveState writes all documents in one transaction.
func (s *Store) SaveState(ctx context.Context, player *engine.Player, quests []*engine.Quest, bosses []*engine.BossFight) error {
	return WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.player.Save(ctx, tx, player); err != nil {
			return err
		}
		if err := s.quests.SaveAll(ctx, tx, quests); err != nil {
			return err
		}
		return s.bosses.SaveAll(ctx, tx, bosses)
	})
}

// AppendActivity implements the engine's Persister contract.
func (s *Store) AppendActivity(ctx context.Context, entries []engine.ActivityLogEntry) error {
	return s.activity.Append(ctx, entries)
}
