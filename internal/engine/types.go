package engine

import (
	"time"

	"github.com/google/uuid"

	"habitforge/internal/formula"
)

// StatKind names one of the six player stats.
type StatKind string

const (
	StatStrength     StatKind = "strength"
	StatVitality     StatKind = "vitality"
	StatAgility      StatKind = "agility"
	StatIntelligence StatKind = "intelligence"
	StatPerception   StatKind = "perception"
	StatCharisma     StatKind = "charisma"
)

// AllStatKinds is the canonical display/iteration order.
var AllStatKinds = []StatKind{
	StatStrength, StatVitality, StatAgility,
	StatIntelligence, StatPerception, StatCharisma,
}

func (k StatKind) IsValid() bool {
	for _, s := range AllStatKinds {
		if s == k {
			return true
		}
	}
	return false
}

// Stat accumulates experience toward base points. Every 100 units of
// experience converts into one base point.
type Stat struct {
	Base       int `json:"base"`
	Bonus      int `json:"bonus"`
	Experience int `json:"experience"`
}

const (
	statXPPerPoint = 100
	statValueCap   = 999
)

// TotalValue is the effective stat value, capped at 999.
func (s *Stat) TotalValue() int {
	v := s.Base + s.Bonus
	if v > statValueCap {
		v = statValueCap
	}
	return v
}

// AddExperience accrues stat experience, converting overflow into base
// points. Negative amounts are ignored; only penalties deduct.
func (s *Stat) AddExperience(xp int) {
	if xp <= 0 {
		return
	}
	s.Experience += xp
	s.Base += s.Experience / statXPPerPoint
	s.Experience %= statXPPerPoint
}

// Soldier is a collectible awarded for defeating a boss.
type Soldier struct {
	Name     string    `json:"name"`
	BossID   uuid.UUID `json:"bossId"`
	EarnedAt time.Time `json:"earnedAt"`
}

const defaultMaxHP = 100

// Player is the single progression subject. The coordinator is its
// only mutator.
type Player struct {
	Name          string             `json:"name"`
	Level         int                `json:"level"`
	TotalXP       int                `json:"totalXP"`
	Gold          int                `json:"gold"`
	Stats         map[StatKind]*Stat `json:"stats"`
	CurrentStreak int                `json:"currentStreak"`
	LongestStreak int                `json:"longestStreak"`
	// LastActiveDate is a local calendar date key ("2006-01-02").
	LastActiveDate string    `json:"lastActiveDate"`
	CurrentHP      int       `json:"currentHP"`
	MaxHP          int       `json:"maxHP"`
	PenaltyCount   int       `json:"penaltyCount"`
	InPenaltyZone  bool      `json:"inPenaltyZone"`
	Titles         []string  `json:"titles"`
	Soldiers       []Soldier `json:"soldiers"`
}

// NewPlayer returns a level-1 player with zeroed stats and full HP.
func NewPlayer(name string) *Player {
	stats := make(map[StatKind]*Stat, len(AllStatKinds))
	for _, k := range AllStatKinds {
		stats[k] = &Stat{}
	}
	return &Player{
		Name:      name,
		Level:     1,
		Stats:     stats,
		CurrentHP: defaultMaxHP,
		MaxHP:     defaultMaxHP,
	}
}

// CurrentXP is the XP accumulated into the current level.
func (p *Player) CurrentXP() int {
	cur := p.TotalXP - formula.TotalXPForLevel(p.Level)
	if cur < 0 {
		cur = 0
	}
	return cur
}

// XPProgress is the fraction of the next level threshold reached,
// always within [0, 1].
func (p *Player) XPProgress() float64 {
	req := formula.XPRequired(p.Level + 1)
	if req <= 0 {
		return 0
	}
	f := float64(p.CurrentXP()) / float64(req)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// HPProgress is current HP as a fraction of max, within [0, 1].
func (p *Player) HPProgress() float64 {
	if p.MaxHP <= 0 {
		return 0
	}
	f := float64(p.CurrentHP) / float64(p.MaxHP)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// Rank is derived from level, never stored.
func (p *Player) Rank() formula.Rank {
	return formula.RankForLevel(p.Level)
}

// HasTitle reports whether the title has already been unlocked.
func (p *Player) HasTitle(name string) bool {
	for _, t := range p.Titles {
		if t == name {
			return true
		}
	}
	return false
}

// Status is shared by quests and bosses; bosses only ever use the
// inProgress/completed subset.
type Status string

const (
	StatusAvailable  Status = "available"
	StatusInProgress Status = "inProgress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusExpired    Status = "expired"
)

// TrackingKind says where a quest's progress signal comes from.
// Absence of a permission for an automatic source never blocks manual
// completion of the same quest.
type TrackingKind string

const (
	TrackManual     TrackingKind = "manual"
	TrackSteps      TrackingKind = "steps"
	TrackScreenTime TrackingKind = "screenTime"
	TrackLocation   TrackingKind = "location"
)

func (k TrackingKind) IsValid() bool {
	switch k {
	case TrackManual, TrackSteps, TrackScreenTime, TrackLocation:
		return true
	default:
		return false
	}
}

// Quest is a recurring, trackable unit of habit completion.
type Quest struct {
	ID         uuid.UUID          `json:"id"`
	Title      string             `json:"title"`
	Difficulty formula.Difficulty `json:"difficulty"`
	Status     Status             `json:"status"`
	Tracking   TrackingKind       `json:"tracking"`
	Recurrence Recurrence         `json:"recurrence"`
	// TargetStats receive the quest's stat XP pool on completion.
	TargetStats []StatKind `json:"targetStats"`
	// TargetValue is the raw goal (steps, minutes, ...). Zero means the
	// quest is binary: any positive signal completes it.
	TargetValue float64 `json:"targetValue"`
	Unit        string  `json:"unit,omitempty"`
	Progress    float64 `json:"progress"`
	// Required quests count toward the daily streak evaluation.
	Required    bool       `json:"required"`
	ExpiresAt   time.Time  `json:"expiresAt"`
	BossID      *uuid.UUID `json:"bossId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// NormalizedProgress maps raw progress into [0, 1].
func (q *Quest) NormalizedProgress() float64 {
	if q.Status == StatusCompleted {
		return 1
	}
	if q.TargetValue <= 0 {
		if q.Progress > 0 {
			return 1
		}
		return 0
	}
	f := q.Progress / q.TargetValue
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// ExpiredAt reports whether the quest's recurrence window has elapsed,
// regardless of stored status.
func (q *Quest) ExpiredAt(now time.Time) bool {
	return now.After(q.ExpiresAt)
}

// MicroTask is a one-shot damage source attached to a boss.
type MicroTask struct {
	ID         uuid.UUID          `json:"id"`
	Title      string             `json:"title"`
	Difficulty formula.Difficulty `json:"difficulty"`
	Completed  bool               `json:"completed"`
}

// MetricKind names the external measurement driving a dynamic goal.
type MetricKind string

const (
	MetricSteps      MetricKind = "steps"
	MetricWorkouts   MetricKind = "workouts"
	MetricWeight     MetricKind = "weight"
	MetricScreenTime MetricKind = "screenTime"
)

// GoalCadence is the reporting rhythm of a dynamic goal.
type GoalCadence string

const (
	CadenceDaily  GoalCadence = "daily"
	CadenceWeekly GoalCadence = "weekly"
)

// DynamicBossGoal drives boss HP from the distance between a metric's
// current value and its target. Direction-agnostic: the target may sit
// above or below the start value.
type DynamicBossGoal struct {
	Metric        MetricKind  `json:"metric"`
	StartValue    float64     `json:"startValue"`
	TargetValue   float64     `json:"targetValue"`
	CurrentValue  float64     `json:"currentValue"`
	Cadence       GoalCadence `json:"cadence,omitempty"`
	CadenceTarget float64     `json:"cadenceTarget,omitempty"`
}

// NormalizedProgress is 0 at the start value, 1 at the target, clamped
// in between. The degenerate start==target case is 1 exactly at the
// target and 0 elsewhere, never NaN.
func (g *DynamicBossGoal) NormalizedProgress() float64 {
	if g.TargetValue == g.StartValue {
		if g.CurrentValue == g.TargetValue {
			return 1
		}
		return 0
	}
	f := (g.CurrentValue - g.StartValue) / (g.TargetValue - g.StartValue)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// BossFight is a long-term goal modeled as an HP pool.
type BossFight struct {
	ID             uuid.UUID        `json:"id"`
	Title          string           `json:"title"`
	MaxHP          int              `json:"maxHP"`
	CurrentHP      int              `json:"currentHP"`
	Status         Status           `json:"status"`
	MicroTasks     []MicroTask      `json:"microTasks"`
	LinkedQuestIDs []uuid.UUID      `json:"linkedQuestIds"`
	Goal           *DynamicBossGoal `json:"goal,omitempty"`
	Deadline       *time.Time       `json:"deadline,omitempty"`
	TotalDamage    int              `json:"totalDamage"`
	QuestDamage    int              `json:"questDamage"`
	TaskDamage     int              `json:"taskDamage"`
	CreatedAt      time.Time        `json:"createdAt"`
}

// Dynamic reports whether the boss is in dynamic-goal mode. A boss is
// never in both modes at once.
func (b *BossFight) Dynamic() bool {
	return b.Goal != nil
}

// HPPercentage is remaining HP as a fraction of max, within [0, 1].
func (b *BossFight) HPPercentage() float64 {
	if b.MaxHP <= 0 {
		return 0
	}
	f := float64(b.CurrentHP) / float64(b.MaxHP)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// DamageDealtPercentage is the inverse of HPPercentage.
func (b *BossFight) DamageDealtPercentage() float64 {
	return 1 - b.HPPercentage()
}

// Task returns the micro-task with the given id, or nil.
func (b *BossFight) Task(id uuid.UUID) *MicroTask {
	for i := range b.MicroTasks {
		if b.MicroTasks[i].ID == id {
			return &b.MicroTasks[i]
		}
	}
	return nil
}

// ActivityKind tags an activity-log entry.
type ActivityKind string

const (
	ActivityQuestCreated   ActivityKind = "quest_created"
	ActivityQuestCompleted ActivityKind = "quest_completed"
	ActivityQuestLinked    ActivityKind = "quest_linked"
	ActivityBossCreated    ActivityKind = "boss_created"
	ActivityTaskAdded      ActivityKind = "task_added"
	ActivityBossDamaged    ActivityKind = "boss_damaged"
	ActivityBossDefeated   ActivityKind = "boss_defeated"
	ActivityGoalUpdated    ActivityKind = "goal_updated"
	ActivityLevelUp        ActivityKind = "level_up"
	ActivityTitleEarned    ActivityKind = "title_earned"
	ActivityStreak         ActivityKind = "streak"
	ActivityPenalty        ActivityKind = "penalty"
	ActivityDefeat         ActivityKind = "defeat"
)

// ActivityLogEntry is an append-only record of a notable event.
type ActivityLogEntry struct {
	Kind    ActivityKind `json:"kind"`
	Message string       `json:"message"`
	At      time.Time    `json:"at"`
}
