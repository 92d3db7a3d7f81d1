package engine

import "habitforge/internal/formula"

// TitleDef is a derived unlock. Titles are checked after every
// state-changing action; newly earned ones are appended to the player
// and the activity log.
type TitleDef struct {
	Name        string
	Description string
	Unlock      func(p *Player, bossesDefeated int) bool
}

func builtinTitles() []TitleDef {
	return []TitleDef{
		{
			Name:        "Novice Hunter",
			Description: "Reach level 5",
			Unlock: func(p *Player, _ int) bool {
				return p.Level >= 5
			},
		},
		{
			Name:        "Seasoned Hunter",
			Description: "Reach level 20",
			Unlock: func(p *Player, _ int) bool {
				return p.Level >= 20
			},
		},
		{
			Name:        "D-Rank Licensed",
			Description: "Reach rank D",
			Unlock: func(p *Player, _ int) bool {
				return formula.MinLevelForRank(p.Rank()) >= formula.MinLevelForRank(formula.RankD)
			},
		},
		{
			Name:        "Week One",
			Description: "Hold a 7-day streak",
			Unlock: func(p *Player, _ int) bool {
				return p.LongestStreak >= 7
			},
		},
		{
			Name:        "Iron Discipline",
			Description: "Hold a 30-day streak",
			Unlock: func(p *Player, _ int) bool {
				return p.LongestStreak >= 30
			},
		},
		{
			Name:        "Giant Slayer",
			Description: "Defeat a boss",
			Unlock: func(_ *Player, bossesDefeated int) bool {
				return bossesDefeated >= 1
			},
		},
		{
			Name:        "Boss Breaker",
			Description: "Defeat five bosses",
			Unlock: func(_ *Player, bossesDefeated int) bool {
				return bossesDefeated >= 5
			},
		},
		{
			Name:        "Back From the Brink",
			Description: "Survive a defeat in the penalty zone",
			Unlock: func(p *Player, _ int) bool {
				return p.PenaltyCount >= 1 && p.LongestStreak >= 1
			},
		},
	}
}

// newlyEarnedTitles returns titles unlocked by the current state that
// the player does not hold yet.
func newlyEarnedTitles(p *Player, bossesDefeated int) []string {
	var out []string
	for _, def := range builtinTitles() {
		if p.HasTitle(def.Name) {
			continue
		}
		if def.Unlock(p, bossesDefeated) {
			out = append(out, def.Name)
		}
	}
	return out
}
