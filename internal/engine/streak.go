package engine

import (
	"math"

	"habitforge/internal/formula"
)

// PenaltySummary is an inert notification payload describing one day's
// streak evaluation. It has no behavior; callers display it.
type PenaltySummary struct {
	Date          string           `json:"date"`
	MissedQuests  int              `json:"missedQuests"`
	DamageTaken   int              `json:"damageTaken"`
	StreakBroken  bool             `json:"streakBroken"`
	Defeated      bool             `json:"defeated"`
	RankBefore    formula.Rank     `json:"rankBefore"`
	RankAfter     formula.Rank     `json:"rankAfter"`
	LevelBefore   int              `json:"levelBefore"`
	LevelAfter    int              `json:"levelAfter"`
	GoldLost      int              `json:"goldLost"`
	GoldRemaining int              `json:"goldRemaining"`
	StatLosses    map[StatKind]int `json:"statLosses,omitempty"`
}

// evaluateStreakDay scores one elapsed day. missed is the number of
// required quests that did not reach completed before the boundary.
// The summary is nil when the streak simply advanced.
func evaluateStreakDay(p *Player, date string, missed int) *PenaltySummary {
	if missed == 0 {
		p.CurrentStreak++
		if p.CurrentStreak > p.LongestStreak {
			p.LongestStreak = p.CurrentStreak
		}
		p.InPenaltyZone = false
		return nil
	}

	sum := &PenaltySummary{
		Date:         date,
		MissedQuests: missed,
		StreakBroken: p.CurrentStreak > 0,
		RankBefore:   p.Rank(),
		RankAfter:    p.Rank(),
		LevelBefore:  p.Level,
		LevelAfter:   p.Level,
	}

	p.CurrentStreak = 0
	p.PenaltyCount++

	dmg := formula.PenaltyDamage(missed)
	sum.DamageTaken = dmg
	p.CurrentHP -= dmg
	if p.CurrentHP > 0 {
		sum.GoldRemaining = p.Gold
		return sum
	}

	// Defeat: HP exhausted. Heal back up and take the stat/gold/XP hit.
	// The penalty zone marks this state until the next fully-met day.
	p.CurrentHP = p.MaxHP
	p.InPenaltyZone = true
	sum.Defeated = true

	sum.GoldLost = int(math.Floor(float64(p.Gold) * formula.DefeatGoldLossRate))
	p.Gold -= sum.GoldLost
	sum.GoldRemaining = p.Gold

	sum.StatLosses = make(map[StatKind]int, len(p.Stats))
	for kind, st := range p.Stats {
		baseLoss := int(math.Floor(float64(st.Base) * formula.DefeatStatLossRate))
		expLoss := int(math.Floor(float64(st.Experience) * formula.DefeatStatLossRate))
		st.Base -= baseLoss
		st.Experience -= expLoss
		if baseLoss > 0 {
			sum.StatLosses[kind] = baseLoss
		}
	}

	xpLoss := int(math.Floor(float64(p.TotalXP) * formula.DefeatXPLossRate))
	p.TotalXP -= xpLoss
	p.Level = formula.LevelForTotalXP(p.TotalXP)

	// Rank is re-derived from the post-loss level; it can only drop or
	// hold here since XP never rises during a penalty.
	sum.LevelAfter = p.Level
	sum.RankAfter = p.Rank()
	return sum
}
