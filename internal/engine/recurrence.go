package engine

import (
	"fmt"
	"strings"
	"time"
)

// Recurrence is the reset rhythm of a quest. Boundaries are
// calendar-aligned: a daily quest resets at local midnight, not 24h
// after creation.
type Recurrence string

const (
	RecurHourly     Recurrence = "hourly"
	RecurDaily      Recurrence = "daily"
	RecurSemiWeekly Recurrence = "semiWeekly"
	RecurWeekly     Recurrence = "weekly"
	RecurMonthly    Recurrence = "monthly"
)

func (r Recurrence) IsValid() bool {
	switch r {
	case RecurHourly, RecurDaily, RecurSemiWeekly, RecurWeekly, RecurMonthly:
		return true
	default:
		return false
	}
}

func ParseRecurrence(input string) (Recurrence, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	switch s {
	case "hourly":
		return RecurHourly, nil
	case "daily", "":
		return RecurDaily, nil
	case "semiweekly", "semi-weekly":
		return RecurSemiWeekly, nil
	case "weekly":
		return RecurWeekly, nil
	case "monthly":
		return RecurMonthly, nil
	default:
		return "", fmt.Errorf("invalid recurrence: %q", input)
	}
}

// NextReset returns the first boundary of the recurrence kind strictly
// after the reference instant, in the instant's location.
func NextReset(r Recurrence, from time.Time) time.Time {
	loc := from.Location()
	y, m, d := from.Date()

	switch r {
	case RecurHourly:
		return time.Date(y, m, d, from.Hour()+1, 0, 0, 0, loc)
	case RecurDaily:
		return time.Date(y, m, d+1, 0, 0, 0, 0, loc)
	case RecurSemiWeekly:
		// Boundaries fall on Monday and Thursday midnight.
		next := time.Date(y, m, d+1, 0, 0, 0, 0, loc)
		for next.Weekday() != time.Monday && next.Weekday() != time.Thursday {
			next = next.AddDate(0, 0, 1)
		}
		return next
	case RecurWeekly:
		next := time.Date(y, m, d+1, 0, 0, 0, 0, loc)
		for next.Weekday() != time.Monday {
			next = next.AddDate(0, 0, 1)
		}
		return next
	case RecurMonthly:
		return time.Date(y, m+1, 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(y, m, d+1, 0, 0, 0, 0, loc)
	}
}

// rollover resets an elapsed quest window. ExpiresAt only ever moves
// forward; repeated calls converge on the first boundary after now.
func rolloverQuest(q *Quest, now time.Time) {
	if !q.ExpiredAt(now) {
		return
	}
	next := NextReset(q.Recurrence, now)
	if next.After(q.ExpiresAt) {
		q.ExpiresAt = next
	}
	q.Status = StatusAvailable
	q.Progress = 0
	q.CompletedAt = nil
}

// dateKey renders a local calendar date as the streak bookkeeping key.
func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
