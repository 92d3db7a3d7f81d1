package engine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Expected-condition sentinels. Callers branch on these with
// errors.Is; none of them indicates a bug.
var (
	ErrQuestNotFound    = errors.New("quest not found")
	ErrBossNotFound     = errors.New("boss not found")
	ErrTaskNotFound     = errors.New("micro-task not found")
	ErrAlreadyCompleted = errors.New("already completed")
	ErrQuestExpired     = errors.New("quest expired")
	ErrNotDynamic       = errors.New("boss has no dynamic goal")
	ErrDynamicBoss      = errors.New("boss is driven by a dynamic goal")
)

// NotFoundError wraps a sentinel with the id that missed.
type NotFoundError struct {
	Kind string
	ID   uuid.UUID
	Err  error
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e NotFoundError) Unwrap() error { return e.Err }

func questNotFound(id uuid.UUID) error {
	return NotFoundError{Kind: "quest", ID: id, Err: ErrQuestNotFound}
}

func bossNotFound(id uuid.UUID) error {
	return NotFoundError{Kind: "boss", ID: id, Err: ErrBossNotFound}
}
