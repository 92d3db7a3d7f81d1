package engine

import (
	"math"
	"testing"
	"time"
)

func testQuest(target float64) *Quest {
	return &Quest{
		Title:       "walk",
		Status:      StatusAvailable,
		TargetValue: target,
		ExpiresAt:   time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
	}
}

func TestApplyQuestProgressClamps(t *testing.T) {
	at := time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)

	q := testQuest(10000)
	if done := applyQuestProgress(q, -50, at); done {
		t.Fatalf("negative progress completed the quest")
	}
	if q.Progress != 0 {
		t.Fatalf("progress=%v, want 0", q.Progress)
	}

	if done := applyQuestProgress(q, math.NaN(), at); done || q.Progress != 0 {
		t.Fatalf("NaN progress leaked: done=%v progress=%v", done, q.Progress)
	}
	if done := applyQuestProgress(q, math.Inf(1), at); done || q.Progress != 0 {
		t.Fatalf("Inf progress leaked: done=%v progress=%v", done, q.Progress)
	}

	if done := applyQuestProgress(q, 4000, at); done {
		t.Fatalf("partial progress completed the quest")
	}
	if q.Status != StatusInProgress {
		t.Fatalf("status=%s, want inProgress", q.Status)
	}
	if got := q.NormalizedProgress(); got != 0.4 {
		t.Fatalf("normalized=%v, want 0.4", got)
	}

	// Overshoot clamps to the target and completes.
	if done := applyQuestProgress(q, 250000, at); !done {
		t.Fatalf("overshoot did not complete")
	}
	if q.Progress != 10000 {
		t.Fatalf("progress=%v, want clamped 10000", q.Progress)
	}
	if got := q.NormalizedProgress(); got != 1 {
		t.Fatalf("normalized=%v, want 1", got)
	}
}

func TestApplyQuestProgressBinary(t *testing.T) {
	at := time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)
	q := testQuest(0)

	if done := applyQuestProgress(q, 0, at); done {
		t.Fatalf("zero signal completed a binary quest")
	}
	if done := applyQuestProgress(q, 1, at); !done {
		t.Fatalf("positive signal did not complete a binary quest")
	}
	if q.CompletedAt == nil || !q.CompletedAt.Equal(at) {
		t.Fatalf("completedAt=%v, want %v", q.CompletedAt, at)
	}
}

func TestCompleteQuestEdgeTriggered(t *testing.T) {
	at := time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)
	q := testQuest(0)

	if !completeQuest(q, at) {
		t.Fatalf("first completion should fire")
	}
	if completeQuest(q, at.Add(time.Minute)) {
		t.Fatalf("second completion should be a no-op")
	}
	// Progress on a completed quest is ignored.
	if done := applyQuestProgress(q, 5, at); done {
		t.Fatalf("progress re-completed a completed quest")
	}
}
