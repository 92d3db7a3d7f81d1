package engine

import (
	"testing"
	"time"
)

func TestParseRecurrence(t *testing.T) {
	cases := []struct {
		in   string
		want Recurrence
	}{
		{"hourly", RecurHourly},
		{"", RecurDaily},
		{"DAILY", RecurDaily},
		{"semiweekly", RecurSemiWeekly},
		{"semi-weekly", RecurSemiWeekly},
		{"weekly", RecurWeekly},
		{"monthly", RecurMonthly},
	}
	for _, c := range cases {
		got, err := ParseRecurrence(c.in)
		if err != nil {
			t.Fatalf("ParseRecurrence(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseRecurrence(%q)=%s, want %s", c.in, got, c.want)
		}
	}
	if _, err := ParseRecurrence("fortnightly"); err == nil {
		t.Fatalf("expected error for unknown recurrence")
	}
}

func TestNextResetBoundaries(t *testing.T) {
	// Tuesday, March 3rd 2026, 10:30 local.
	from := time.Date(2026, 3, 3, 10, 30, 0, 0, time.UTC)

	cases := []struct {
		r    Recurrence
		want time.Time
	}{
		{RecurHourly, time.Date(2026, 3, 3, 11, 0, 0, 0, time.UTC)},
		{RecurDaily, time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)},
		{RecurSemiWeekly, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)}, // Thursday
		{RecurWeekly, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)},     // next Monday
		{RecurMonthly, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		got := NextReset(c.r, from)
		if !got.Equal(c.want) {
			t.Fatalf("NextReset(%s)=%v, want %v", c.r, got, c.want)
		}
		if !got.After(from) {
			t.Fatalf("NextReset(%s) not strictly after reference", c.r)
		}
	}
}

func TestNextResetOrdering(t *testing.T) {
	from := time.Date(2026, 3, 3, 10, 30, 0, 0, time.UTC)
	hourly := NextReset(RecurHourly, from)
	daily := NextReset(RecurDaily, from)
	weekly := NextReset(RecurWeekly, from)
	monthly := NextReset(RecurMonthly, from)

	if !hourly.Before(daily) {
		t.Fatalf("hourly %v should precede daily %v", hourly, daily)
	}
	if !daily.Before(weekly) {
		t.Fatalf("daily %v should precede weekly %v", daily, weekly)
	}
	if !weekly.Before(monthly) {
		t.Fatalf("weekly %v should precede monthly %v", weekly, monthly)
	}
}

func TestRolloverQuestMonotonic(t *testing.T) {
	created := time.Date(2026, 3, 3, 10, 30, 0, 0, time.UTC)
	q := &Quest{
		Title:      "stretch",
		Status:     StatusCompleted,
		Recurrence: RecurDaily,
		Progress:   1,
		ExpiresAt:  NextReset(RecurDaily, created),
	}
	done := created.Add(time.Hour)
	q.CompletedAt = &done

	// Three days later the quest rolls over exactly once, to the first
	// boundary after now.
	now := created.AddDate(0, 0, 3)
	first := q.ExpiresAt
	rolloverQuest(q, now)

	if q.Status != StatusAvailable {
		t.Fatalf("status=%s, want available", q.Status)
	}
	if q.Progress != 0 {
		t.Fatalf("progress=%v, want 0", q.Progress)
	}
	if q.CompletedAt != nil {
		t.Fatalf("completedAt should reset")
	}
	if !q.ExpiresAt.After(first) {
		t.Fatalf("expiresAt did not advance")
	}
	want := NextReset(RecurDaily, now)
	if !q.ExpiresAt.Equal(want) {
		t.Fatalf("expiresAt=%v, want %v", q.ExpiresAt, want)
	}

	// Re-running at the same instant must not move the window again.
	again := q.ExpiresAt
	rolloverQuest(q, now)
	if !q.ExpiresAt.Equal(again) {
		t.Fatalf("rollover is not idempotent")
	}
}
