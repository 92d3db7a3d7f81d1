package formula

import (
	"math/rand"
	"testing"
)

func TestXPRequired(t *testing.T) {
	if got := XPRequired(1); got != 0 {
		t.Fatalf("XPRequired(1)=%d, want 0", got)
	}
	if got := XPRequired(0); got != 0 {
		t.Fatalf("XPRequired(0)=%d, want 0", got)
	}
	// floor(2 * 100 * 1.5^0.2)
	if got := XPRequired(2); got != 216 {
		t.Fatalf("XPRequired(2)=%d, want 216", got)
	}
	// floor(10 * 100 * 1.5^1)
	if got := XPRequired(10); got != 1500 {
		t.Fatalf("XPRequired(10)=%d, want 1500", got)
	}
	// Monotonic over a broad range.
	prev := 0
	for l := 2; l <= 200; l++ {
		req := XPRequired(l)
		if req <= prev {
			t.Fatalf("XPRequired(%d)=%d not greater than XPRequired(%d)=%d", l, req, l-1, prev)
		}
		prev = req
	}
}

func TestLevelForTotalXPBoundaries(t *testing.T) {
	if got := LevelForTotalXP(0); got != 1 {
		t.Fatalf("LevelForTotalXP(0)=%d, want 1", got)
	}
	if got := LevelForTotalXP(-5); got != 1 {
		t.Fatalf("LevelForTotalXP(-5)=%d, want 1", got)
	}

	for _, level := range []int{2, 5, 10, 37, 80} {
		threshold := TotalXPForLevel(level)
		if got := LevelForTotalXP(threshold - 1); got != level-1 {
			t.Fatalf("LevelForTotalXP(threshold-1)=%d, want %d", got, level-1)
		}
		if got := LevelForTotalXP(threshold); got != level {
			t.Fatalf("LevelForTotalXP(threshold)=%d, want %d", got, level)
		}
	}
}

func TestQuestRewardTables(t *testing.T) {
	cases := []struct {
		d    Difficulty
		xp   int
		gold int
	}{
		{DifficultyTrivial, 5, 1},
		{DifficultyEasy, 15, 3},
		{DifficultyNormal, 30, 5},
		{DifficultyHard, 60, 10},
		{DifficultyExtreme, 100, 20},
		{DifficultyLegendary, 200, 50},
	}
	for _, c := range cases {
		if got := QuestXP(c.d, 1); got != c.xp {
			t.Fatalf("QuestXP(%s)=%d, want %d", c.d, got, c.xp)
		}
		if got := QuestGold(c.d); got != c.gold {
			t.Fatalf("QuestGold(%s)=%d, want %d", c.d, got, c.gold)
		}
	}
}

func TestQuestXPFloorsOnce(t *testing.T) {
	// 30 * 1.35 = 40.5; a single floor gives 40.
	if got := QuestXP(DifficultyNormal, StreakMultiplier(7)); got != 40 {
		t.Fatalf("QuestXP(normal, x1.35)=%d, want 40", got)
	}
	if got := QuestXP(DifficultyNormal, -1); got != 0 {
		t.Fatalf("QuestXP with negative multiplier=%d, want 0", got)
	}
}

func TestStreakMultiplier(t *testing.T) {
	if got := StreakMultiplier(0); got != 1.0 {
		t.Fatalf("StreakMultiplier(0)=%v, want 1.0", got)
	}
	if got := StreakMultiplier(7); got != 1.35 {
		t.Fatalf("StreakMultiplier(7)=%v, want 1.35", got)
	}
	if got := StreakMultiplier(20); got != 2.0 {
		t.Fatalf("StreakMultiplier(20)=%v, want 2.0", got)
	}
	if got := StreakMultiplier(500); got != 2.0 {
		t.Fatalf("StreakMultiplier(500)=%v, want cap 2.0", got)
	}
	if got := StreakMultiplier(-3); got != 1.0 {
		t.Fatalf("StreakMultiplier(-3)=%v, want 1.0", got)
	}
}

func TestBossDamage(t *testing.T) {
	// 30 * 1.01 floors to 30.
	if got := BossDamage(DifficultyNormal, 1); got != 30 {
		t.Fatalf("BossDamage(normal, lvl1)=%d, want 30", got)
	}
	// 60 * 1.05 = 63.
	if got := BossDamage(DifficultyHard, 5); got != 63 {
		t.Fatalf("BossDamage(hard, lvl5)=%d, want 63", got)
	}
	if got := BossDamage(DifficultyNormal, -10); got != 30 {
		t.Fatalf("BossDamage with negative level=%d, want 30", got)
	}
}

func TestLinkedQuestDamage(t *testing.T) {
	// floor(63 * 0.8) = 50.
	if got := LinkedQuestDamage(DifficultyHard, 5); got != 50 {
		t.Fatalf("LinkedQuestDamage(hard, lvl5)=%d, want 50", got)
	}
	// floor(5 * 1.0 * 0.8) = 4, still positive.
	if got := LinkedQuestDamage(DifficultyTrivial, 0); got < 1 {
		t.Fatalf("LinkedQuestDamage(trivial, lvl0)=%d, want >= 1", got)
	}
}

func TestPenaltyDamage(t *testing.T) {
	if got := PenaltyDamage(0); got != 0 {
		t.Fatalf("PenaltyDamage(0)=%d, want 0", got)
	}
	if got := PenaltyDamage(3); got != 15 {
		t.Fatalf("PenaltyDamage(3)=%d, want 15", got)
	}
	if got := PenaltyDamage(-2); got != 0 {
		t.Fatalf("PenaltyDamage(-2)=%d, want 0", got)
	}
}

func TestRollCriticalRate(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	hits := 0
	const trials = 100_000
	for i := 0; i < trials; i++ {
		if RollCritical(rng) {
			hits++
		}
	}
	rate := float64(hits) / trials
	if rate < 0.08 || rate > 0.12 {
		t.Fatalf("critical rate=%v, want ~0.10", rate)
	}
}

func TestParseDifficulty(t *testing.T) {
	if d, err := ParseDifficulty(""); err != nil || d != DefaultDifficulty {
		t.Fatalf("ParseDifficulty(\"\")=%v,%v", d, err)
	}
	if d, err := ParseDifficulty(" Hard "); err != nil || d != DifficultyHard {
		t.Fatalf("ParseDifficulty(\" Hard \")=%v,%v", d, err)
	}
	if _, err := ParseDifficulty("impossible"); err == nil {
		t.Fatalf("expected error for unknown difficulty")
	}
}
