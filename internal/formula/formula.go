package formula

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
)

// Difficulty grades a quest or micro-task. The grade drives every
// reward table in this package.
type Difficulty string

const (
	DifficultyTrivial   Difficulty = "trivial"
	DifficultyEasy      Difficulty = "easy"
	DifficultyNormal    Difficulty = "normal"
	DifficultyHard      Difficulty = "hard"
	DifficultyExtreme   Difficulty = "extreme"
	DifficultyLegendary Difficulty = "legendary"
)

func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyTrivial, DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyExtreme, DifficultyLegendary:
		return true
	default:
		return false
	}
}

// DefaultDifficulty is used when user input is missing/invalid.
const DefaultDifficulty = DifficultyNormal

// ParseDifficulty parses user input; empty input means the default.
func ParseDifficulty(input string) (Difficulty, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	if s == "" {
		return DefaultDifficulty, nil
	}
	d := Difficulty(s)
	if !d.IsValid() {
		return "", fmt.Errorf("invalid difficulty: %q", input)
	}
	return d, nil
}

var baseXP = map[Difficulty]int{
	DifficultyTrivial:   5,
	DifficultyEasy:      15,
	DifficultyNormal:    30,
	DifficultyHard:      60,
	DifficultyExtreme:   100,
	DifficultyLegendary: 200,
}

var baseGold = map[Difficulty]int{
	DifficultyTrivial:   1,
	DifficultyEasy:      3,
	DifficultyNormal:    5,
	DifficultyHard:      10,
	DifficultyExtreme:   20,
	DifficultyLegendary: 50,
}

var baseStatXP = map[Difficulty]int{
	DifficultyTrivial:   2,
	DifficultyEasy:      5,
	DifficultyNormal:    10,
	DifficultyHard:      20,
	DifficultyExtreme:   35,
	DifficultyLegendary: 60,
}

const (
	// CriticalChance is the probability that a micro-task hit doubles.
	CriticalChance = 0.10

	// StreakBonusRate is the per-day XP bonus applied to quest rewards.
	StreakBonusRate = 0.05

	// StreakBonusCap caps the streak multiplier.
	StreakBonusCap = 2.0

	// LinkedQuestDamageRate scales quest damage relative to a direct
	// micro-task hit of the same difficulty.
	LinkedQuestDamageRate = 0.8

	// HPPerMissedQuest is the player HP damage per missed required quest.
	HPPerMissedQuest = 5
)

// Defeat deductions, applied when penalty damage exhausts player HP.
const (
	DefeatGoldLossRate = 0.10
	DefeatStatLossRate = 0.10
	DefeatXPLossRate   = 0.05
)

// XPRequired returns the XP needed to advance from level-1 to level.
// Levels at or below 1 require nothing.
func XPRequired(level int) int {
	if level <= 1 {
		return 0
	}
	return int(math.Floor(float64(level) * 100 * math.Pow(1.5, float64(level)/10)))
}

// TotalXPForLevel is the cumulative XP threshold to hold the given level.
func TotalXPForLevel(level int) int {
	total := 0
	for l := 2; l <= level; l++ {
		total += XPRequired(l)
	}
	return total
}

// LevelForTotalXP returns the highest level L such that
// totalXP >= TotalXPForLevel(L). The floor is level 1.
func LevelForTotalXP(totalXP int) int {
	if totalXP <= 0 {
		return 1
	}

	// Exponential search upper bound, then binary search.
	low := 1
	high := 2
	for TotalXPForLevel(high) <= totalXP {
		low = high
		high *= 2
		if high > 10_000 {
			break
		}
	}

	for low+1 < high {
		mid := low + (high-low)/2
		if TotalXPForLevel(mid) <= totalXP {
			low = mid
		} else {
			high = mid
		}
	}
	return low
}

// QuestXP returns the XP reward for completing a quest of the given
// difficulty. The bonus multiplier (streak, events) is applied before
// truncation so the whole reward floors once.
func QuestXP(d Difficulty, bonusMultiplier float64) int {
	if bonusMultiplier < 0 {
		bonusMultiplier = 0
	}
	return int(math.Floor(float64(baseXP[d]) * bonusMultiplier))
}

// QuestGold returns the gold reward for the given difficulty.
func QuestGold(d Difficulty) int {
	return baseGold[d]
}

// StatXP returns the stat experience pool granted by the given
// difficulty, to be split across the quest's target stats.
func StatXP(d Difficulty) int {
	return baseStatXP[d]
}

// StreakMultiplier converts a daily streak into an XP multiplier.
func StreakMultiplier(streak int) float64 {
	if streak < 0 {
		streak = 0
	}
	m := 1 + float64(streak)*StreakBonusRate
	if m > StreakBonusCap {
		m = StreakBonusCap
	}
	return m
}

// BossDamage is the damage a completed micro-task deals to its boss.
func BossDamage(d Difficulty, playerLevel int) int {
	if playerLevel < 0 {
		playerLevel = 0
	}
	return int(math.Floor(float64(QuestXP(d, 1)) * (1 + float64(playerLevel)/100)))
}

// LinkedQuestDamage is the reduced damage dealt when a linked quest
// (rather than a micro-task) completes. Always at least 1 so a linked
// quest can never be a no-op against its boss.
func LinkedQuestDamage(d Difficulty, playerLevel int) int {
	dmg := int(math.Floor(float64(BossDamage(d, playerLevel)) * LinkedQuestDamageRate))
	if dmg < 1 {
		dmg = 1
	}
	return dmg
}

// PenaltyDamage is the player HP loss for missing required quests.
func PenaltyDamage(missedQuests int) int {
	if missedQuests < 0 {
		missedQuests = 0
	}
	return missedQuests * HPPerMissedQuest
}

// RollCritical performs one critical-hit trial. The caller supplies
// the random source so tests can force either outcome.
func RollCritical(rng *rand.Rand) bool {
	return rng.Float64() < CriticalChance
}
