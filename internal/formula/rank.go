package formula

// Rank is a derived tier label. It is never stored; callers recompute
// it from the player level whenever they need it.
type Rank string

const (
	RankE Rank = "E"
	RankD Rank = "D"
	RankC Rank = "C"
	RankB Rank = "B"
	RankA Rank = "A"
	RankS Rank = "S"
)

type rankThreshold struct {
	rank     Rank
	minLevel int
}

// Ordered low to high; RankForLevel walks it front to back.
var rankThresholds = []rankThreshold{
	{RankE, 1},
	{RankD, 10},
	{RankC, 20},
	{RankB, 35},
	{RankA, 50},
	{RankS, 70},
}

// RankForLevel returns the highest rank whose minimum level is at or
// below the given level.
func RankForLevel(level int) Rank {
	out := RankE
	for _, t := range rankThresholds {
		if level >= t.minLevel {
			out = t.rank
		}
	}
	return out
}

// MinLevelForRank returns the level at which the rank unlocks, or 0
// for an unknown rank.
func MinLevelForRank(r Rank) int {
	for _, t := range rankThresholds {
		if t.rank == r {
			return t.minLevel
		}
	}
	return 0
}
