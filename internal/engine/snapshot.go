package engine

import (
	"time"

	"github.com/google/uuid"

	"habitforge/internal/formula"
)

// Snapshot is the read-only state document served to companion
// displays. It is a plain, versionless JSON-compatible structure; the
// consumer only ever reads it.
type Snapshot struct {
	PlayerName             string          `json:"playerName"`
	Level                  int             `json:"level"`
	Rank                   string          `json:"rank"`
	CurrentXP              int             `json:"currentXP"`
	XPRequiredForNextLevel int             `json:"xpRequiredForNextLevel"`
	Gold                   int             `json:"gold"`
	CurrentHP              int             `json:"currentHP"`
	MaxHP                  int             `json:"maxHP"`
	CurrentStreak          int             `json:"currentStreak"`
	Quests                 []QuestSnapshot `json:"quests"`
	Bosses                 []BossSnapshot  `json:"bosses"`
	GeneratedAt            time.Time       `json:"generatedAt"`
}

// QuestSnapshot is the per-quest slice of the companion contract.
type QuestSnapshot struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Status      Status       `json:"status"`
	Tracking    TrackingKind `json:"trackingKind"`
	Progress    float64      `json:"progress"`
	TargetValue float64      `json:"targetValue"`
	Unit        string       `json:"unit,omitempty"`
	XPReward    int          `json:"xpReward"`
	GoldReward  int          `json:"goldReward"`
}

// BossSnapshot is the per-boss slice of the companion contract.
type BossSnapshot struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	CurrentHP    int       `json:"currentHP"`
	MaxHP        int       `json:"maxHP"`
	HPPercentage float64   `json:"hpPercentage"`
	Status       Status    `json:"status"`
	Dynamic      bool      `json:"dynamic"`
}

// Snapshot builds the companion document from current state.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.catchUp(now)
	p := c.player

	out := Snapshot{
		PlayerName:             p.Name,
		Level:                  p.Level,
		Rank:                   string(p.Rank()),
		CurrentXP:              p.CurrentXP(),
		XPRequiredForNextLevel: formula.XPRequired(p.Level + 1),
		Gold:                   p.Gold,
		CurrentHP:              p.CurrentHP,
		MaxHP:                  p.MaxHP,
		CurrentStreak:          p.CurrentStreak,
		Quests:                 make([]QuestSnapshot, 0, len(c.questOrder)),
		Bosses:                 make([]BossSnapshot, 0, len(c.bossOrder)),
		GeneratedAt:            now,
	}

	for _, id := range c.questOrder {
		q := c.quests[id]
		out.Quests = append(out.Quests, QuestSnapshot{
			ID:          q.ID,
			Title:       q.Title,
			Status:      q.Status,
			Tracking:    q.Tracking,
			Progress:    q.NormalizedProgress(),
			TargetValue: q.TargetValue,
			Unit:        q.Unit,
			XPReward:    formula.QuestXP(q.Difficulty, 1),
			GoldReward:  formula.QuestGold(q.Difficulty),
		})
	}
	for _, id := range c.bossOrder {
		b := c.bosses[id]
		out.Bosses = append(out.Bosses, BossSnapshot{
			ID:           b.ID,
			Title:        b.Title,
			CurrentHP:    b.CurrentHP,
			MaxHP:        b.MaxHP,
			HPPercentage: b.HPPercentage(),
			Status:       b.Status,
			Dynamic:      b.Dynamic(),
		})
	}
	return out
}
