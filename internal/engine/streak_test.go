package engine

import (
	"testing"

	"habitforge/internal/formula"
)

func TestEvaluateStreakDayExtends(t *testing.T) {
	p := NewPlayer("Hunter")
	p.CurrentStreak = 3
	p.LongestStreak = 3
	p.InPenaltyZone = true

	sum := evaluateStreakDay(p, "2026-03-03", 0)
	if sum != nil {
		t.Fatalf("clean day produced a penalty: %+v", sum)
	}
	if p.CurrentStreak != 4 || p.LongestStreak != 4 {
		t.Fatalf("streak=%d/%d, want 4/4", p.CurrentStreak, p.LongestStreak)
	}
	if p.InPenaltyZone {
		t.Fatalf("penalty zone should clear on a clean day")
	}
}

func TestEvaluateStreakDayPenalty(t *testing.T) {
	p := NewPlayer("Hunter")
	p.CurrentStreak = 10
	p.LongestStreak = 12

	sum := evaluateStreakDay(p, "2026-03-03", 2)
	if sum == nil {
		t.Fatalf("missed day produced no summary")
	}
	if !sum.StreakBroken {
		t.Fatalf("expected broken streak")
	}
	if sum.DamageTaken != formula.PenaltyDamage(2) {
		t.Fatalf("damage=%d, want %d", sum.DamageTaken, formula.PenaltyDamage(2))
	}
	if p.CurrentStreak != 0 {
		t.Fatalf("streak=%d, want 0", p.CurrentStreak)
	}
	if p.LongestStreak != 12 {
		t.Fatalf("longest streak should survive a break")
	}
	if p.CurrentHP != 90 {
		t.Fatalf("HP=%d, want 90", p.CurrentHP)
	}
	if p.PenaltyCount != 1 {
		t.Fatalf("penalty count=%d, want 1", p.PenaltyCount)
	}
	if p.InPenaltyZone {
		t.Fatalf("penalty zone entered without HP exhaustion")
	}
	if sum.Defeated {
		t.Fatalf("should not be defeated at 90 HP")
	}
}

func TestEvaluateStreakDayDefeat(t *testing.T) {
	p := NewPlayer("Hunter")
	p.CurrentHP = 5
	p.Gold = 100
	p.TotalXP = formula.TotalXPForLevel(10)
	p.Level = 10
	p.Stats[StatStrength].Base = 10
	p.Stats[StatStrength].Experience = 50

	sum := evaluateStreakDay(p, "2026-03-03", 1)
	if sum == nil || !sum.Defeated {
		t.Fatalf("expected defeat, got %+v", sum)
	}

	// Defeat heals the player back to full and enters the penalty zone.
	if p.CurrentHP != p.MaxHP {
		t.Fatalf("HP=%d, want full %d", p.CurrentHP, p.MaxHP)
	}
	if !p.InPenaltyZone {
		t.Fatalf("defeat should enter the penalty zone")
	}
	if sum.GoldLost != 10 || p.Gold != 90 {
		t.Fatalf("gold: lost=%d remaining=%d, want 10/90", sum.GoldLost, p.Gold)
	}
	if p.Stats[StatStrength].Base != 9 {
		t.Fatalf("strength base=%d, want 9", p.Stats[StatStrength].Base)
	}
	if p.Stats[StatStrength].Experience != 45 {
		t.Fatalf("strength xp=%d, want 45", p.Stats[StatStrength].Experience)
	}

	// The XP deduction dropped the player below the level-10 threshold,
	// so level and rank both regress.
	if sum.LevelBefore != 10 || sum.LevelAfter >= 10 {
		t.Fatalf("level %d -> %d, want a drop below 10", sum.LevelBefore, sum.LevelAfter)
	}
	if sum.RankBefore != formula.RankD || sum.RankAfter != formula.RankE {
		t.Fatalf("rank %s -> %s, want D -> E", sum.RankBefore, sum.RankAfter)
	}
	if p.Level != sum.LevelAfter {
		t.Fatalf("player level %d does not match summary %d", p.Level, sum.LevelAfter)
	}
}

func TestStatAddExperienceConversion(t *testing.T) {
	s := &Stat{}
	s.AddExperience(250)
	if s.Base != 2 || s.Experience != 50 {
		t.Fatalf("base=%d xp=%d, want 2/50", s.Base, s.Experience)
	}
	s.AddExperience(-100)
	if s.Base != 2 || s.Experience != 50 {
		t.Fatalf("negative experience should be ignored")
	}
}

func TestFreshPlayerStartsAtZero(t *testing.T) {
	p := NewPlayer("Hunter")
	if p.Level != 1 || p.TotalXP != 0 || p.Gold != 0 {
		t.Fatalf("fresh player not zeroed: %+v", p)
	}
	if p.Rank() != formula.RankE {
		t.Fatalf("rank=%s, want E", p.Rank())
	}
	for _, k := range AllStatKinds {
		if p.Stats[k].TotalValue() != 0 {
			t.Fatalf("stat %s starts at %d, want 0", k, p.Stats[k].TotalValue())
		}
	}
	if p.CurrentHP != p.MaxHP || p.MaxHP != 100 {
		t.Fatalf("HP=%d/%d, want 100/100", p.CurrentHP, p.MaxHP)
	}
}
