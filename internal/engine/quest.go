package engine

import (
	"math"
	"time"
)

// applyQuestProgress sets a quest's raw progress to value at the given
// instant and reports whether the completion edge fired. Values are
// clamped: negative or non-finite input counts as zero, anything past
// the target counts as the target. Completed and expired quests are
// left untouched.
func applyQuestProgress(q *Quest, value float64, at time.Time) (completed bool) {
	if q.Status == StatusCompleted || q.Status == StatusExpired || q.Status == StatusFailed {
		return false
	}

	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		value = 0
	}

	if q.TargetValue <= 0 {
		// Binary quest: any positive signal completes it.
		if value > 0 {
			return completeQuest(q, at)
		}
		return false
	}

	if value > q.TargetValue {
		value = q.TargetValue
	}
	q.Progress = value

	if q.Status == StatusAvailable && value > 0 {
		q.Status = StatusInProgress
	}
	if value >= q.TargetValue {
		return completeQuest(q, at)
	}
	return false
}

// completeQuest flips the quest to completed. Edge-triggered: returns
// false if it already was, so rewards can never be granted twice.
func completeQuest(q *Quest, at time.Time) bool {
	if q.Status == StatusCompleted {
		return false
	}
	q.Status = StatusCompleted
	if q.TargetValue > 0 {
		q.Progress = q.TargetValue
	} else {
		q.Progress = 1
	}
	t := at
	q.CompletedAt = &t
	return true
}
