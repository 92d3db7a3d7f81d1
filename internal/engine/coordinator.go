package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"habitforge/internal/formula"
)

// Persister saves the coordinator's documents. Saves are
// fire-and-forget from the coordinator's point of view; implementations
// must tolerate being handed a fresh copy on every call.
type Persister interface {
	SaveState(ctx context.Context, player *Player, quests []*Quest, bosses []*BossFight) error
	AppendActivity(ctx context.Context, entries []ActivityLogEntry) error
}

// State is the loaded world handed to New. Missing pieces
// default-construct.
type State struct {
	Player   *Player
	Quests   []*Quest
	Bosses   []*BossFight
	Activity []ActivityLogEntry
}

// Coordinator is the single owner and sole mutator of player, quest
// and boss state. External signal sources may call it from any
// goroutine; one mutex serializes every mutation.
type Coordinator struct {
	mu sync.Mutex

	player     *Player
	quests     map[uuid.UUID]*Quest
	questOrder []uuid.UUID
	bosses     map[uuid.UUID]*BossFight
	bossOrder  []uuid.UUID

	activity        []ActivityLogEntry
	pendingActivity []ActivityLogEntry
	pendingPenalty  []PenaltySummary

	rng       *rand.Rand
	now       func() time.Time
	persister Persister
	logger    *slog.Logger
	notify    chan struct{}
	onChange  func()
	changed   bool
}

// Option configures a Coordinator at construction time.
type Option func(*Coordinator)

// WithClock injects the time source. Tests use a fixed clock.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithRand injects the random source used for critical rolls.
func WithRand(rng *rand.Rand) Option {
	return func(c *Coordinator) { c.rng = rng }
}

// WithPersister attaches the storage backend.
func WithPersister(p Persister) Option {
	return func(c *Coordinator) { c.persister = p }
}

// WithLogger attaches a structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// WithOnChange registers a callback fired after every mutation batch,
// outside the state lock. The companion server uses it to push fresh
// snapshots.
func WithOnChange(fn func()) Option {
	return func(c *Coordinator) { c.onChange = fn }
}

// New builds a coordinator around the loaded state. A nil state or a
// nil player default-constructs.
func New(state *State, opts ...Option) *Coordinator {
	if state == nil {
		state = &State{}
	}
	if state.Player == nil {
		state.Player = NewPlayer("Hunter")
	}

	c := &Coordinator{
		player: state.Player,
		quests: make(map[uuid.UUID]*Quest, len(state.Quests)),
		bosses: make(map[uuid.UUID]*BossFight, len(state.Bosses)),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		now:    time.Now,
		logger: slog.Default(),
		notify: make(chan struct{}, 1),
	}
	for _, q := range state.Quests {
		c.quests[q.ID] = q
		c.questOrder = append(c.questOrder, q.ID)
	}
	for _, b := range state.Bosses {
		c.bosses[b.ID] = b
		c.bossOrder = append(c.bossOrder, b.ID)
	}
	c.activity = append(c.activity, state.Activity...)

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start launches the background persist loop. Saves coalesce: rapid
// mutation bursts collapse into one write of the then-current state.
func (c *Coordinator) Start(ctx context.Context) {
	if c.persister == nil {
		return
	}
	go func() {
		for {
			select {
			case <-ctx.Done():
				c.Flush(context.Background())
				return
			case <-c.notify:
				c.Flush(ctx)
			}
		}
	}()
}

// Flush writes the current state synchronously. One-shot CLI commands
// call it before exiting; the persist loop calls it on every signal.
func (c *Coordinator) Flush(ctx context.Context) {
	if c.persister == nil {
		return
	}

	c.mu.Lock()
	player := copyPlayer(c.player)
	quests := make([]*Quest, 0, len(c.questOrder))
	for _, id := range c.questOrder {
		q := copyQuest(c.quests[id])
		quests = append(quests, &q)
	}
	bosses := make([]*BossFight, 0, len(c.bossOrder))
	for _, id := range c.bossOrder {
		b := copyBoss(c.bosses[id])
		bosses = append(bosses, &b)
	}
	pending := c.pendingActivity
	c.pendingActivity = nil
	c.mu.Unlock()

	if len(pending) > 0 {
		if err := c.persister.AppendActivity(ctx, pending); err != nil {
			c.logger.Error("append activity failed", "error", err)
		}
	}
	if err := c.persister.SaveState(ctx, player, quests, bosses); err != nil {
		c.logger.Error("save state failed", "error", err)
	}
}

// signal requests a save and marks the batch changed. Never blocks; a
// dropped notify is safe because the next flush reads live state.
// Callers hold the lock.
func (c *Coordinator) signal() {
	select {
	case c.notify <- struct{}{}:
	default:
	}
	c.changed = true
}

// notifyChanged fires the change callback once the state lock has been
// released, so listeners are free to call back into the coordinator.
// Mutators defer it before deferring the unlock.
func (c *Coordinator) notifyChanged() {
	c.mu.Lock()
	fired := c.changed
	c.changed = false
	c.mu.Unlock()
	if fired && c.onChange != nil {
		c.onChange()
	}
}

func (c *Coordinator) appendLog(kind ActivityKind, at time.Time, format string, args ...any) {
	e := ActivityLogEntry{Kind: kind, Message: fmt.Sprintf(format, args...), At: at}
	c.activity = append(c.activity, e)
	c.pendingActivity = append(c.pendingActivity, e)
}

// CreateQuestInput describes a new quest. Zero-value fields fall back
// to sensible defaults.
type CreateQuestInput struct {
	Title       string
	Difficulty  formula.Difficulty
	Tracking    TrackingKind
	Recurrence  Recurrence
	TargetStats []StatKind
	TargetValue float64
	Unit        string
	Required    bool
	BossID      *uuid.UUID
}

// CreateQuest registers a quest and returns a copy of it.
func (c *Coordinator) CreateQuest(in CreateQuestInput) (Quest, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Quest{}, fmt.Errorf("quest title is required")
	}
	if !in.Difficulty.IsValid() {
		in.Difficulty = formula.DefaultDifficulty
	}
	if !in.Tracking.IsValid() {
		in.Tracking = TrackManual
	}
	if !in.Recurrence.IsValid() {
		in.Recurrence = RecurDaily
	}
	stats := make([]StatKind, 0, len(in.TargetStats))
	for _, k := range in.TargetStats {
		if k.IsValid() {
			stats = append(stats, k)
		}
	}
	if len(stats) == 0 {
		stats = []StatKind{StatVitality}
	}

	c.mu.Lock()
	defer c.notifyChanged()
	defer c.mu.Unlock()

	now := c.now()
	c.catchUp(now)

	if in.BossID != nil {
		if _, ok := c.bosses[*in.BossID]; !ok {
			return Quest{}, bossNotFound(*in.BossID)
		}
	}

	q := &Quest{
		ID:          uuid.New(),
		Title:       title,
		Difficulty:  in.Difficulty,
		Status:      StatusAvailable,
		Tracking:    in.Tracking,
		Recurrence:  in.Recurrence,
		TargetStats: stats,
		TargetValue: in.TargetValue,
		Unit:        strings.TrimSpace(in.Unit),
		Required:    in.Required,
		ExpiresAt:   NextReset(in.Recurrence, now),
		BossID:      in.BossID,
		CreatedAt:   now,
	}
	c.quests[q.ID] = q
	c.questOrder = append(c.questOrder, q.ID)

	if in.BossID != nil {
		b := c.bosses[*in.BossID]
		b.LinkedQuestIDs = append(b.LinkedQuestIDs, q.ID)
	}

	c.appendLog(ActivityQuestCreated, now, "Accepted quest %q (%s, %s)", q.Title, q.Difficulty, q.Recurrence)
	c.signal()
	return copyQuest(q), nil
}

// CreateBossInput describes a new boss fight. A non-nil Goal puts the
// boss in dynamic mode; otherwise it takes accumulated damage.
type CreateBossInput struct {
	Title    string
	MaxHP    int
	Deadline *time.Time
	Goal     *DynamicBossGoal
}

// CreateBoss registers a boss fight and returns a copy of it.
func (c *Coordinator) CreateBoss(in CreateBossInput) (BossFight, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return BossFight{}, fmt.Errorf("boss title is required")
	}
	if in.MaxHP <= 0 {
		in.MaxHP = defaultMaxHP
	}

	c.mu.Lock()
	defer c.notifyChanged()
	defer c.mu.Unlock()

	now := c.now()
	c.catchUp(now)

	b := &BossFight{
		ID:        uuid.New(),
		Title:     title,
		MaxHP:     in.MaxHP,
		CurrentHP: in.MaxHP,
		Status:    StatusInProgress,
		Deadline:  in.Deadline,
		CreatedAt: now,
	}
	if in.Goal != nil {
		goal := *in.Goal
		if goal.CurrentValue == 0 {
			goal.CurrentValue = goal.StartValue
		}
		b.Goal = &goal
		recomputeDynamicHP(b, goal.CurrentValue)
	}

	c.bosses[b.ID] = b
	c.bossOrder = append(c.bossOrder, b.ID)

	c.appendLog(ActivityBossCreated, now, "Boss fight %q begins (%d HP)", b.Title, b.MaxHP)
	c.signal()
	return copyBoss(b), nil
}

// AddMicroTask attaches a one-shot damage source to an
// accumulated-damage boss.
func (c *Coordinator) AddMicroTask(bossID uuid.UUID, title string, d formula.Difficulty) (MicroTask, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return MicroTask{}, fmt.Errorf("micro-task title is required")
	}
	if !d.IsValid() {
		d = formula.DefaultDifficulty
	}

	c.mu.Lock()
	defer c.notifyChanged()
	defer c.mu.Unlock()

	b, ok := c.bosses[bossID]
	if !ok {
		return MicroTask{}, bossNotFound(bossID)
	}
	if b.Dynamic() {
		return MicroTask{}, ErrDynamicBoss
	}

	t := MicroTask{ID: uuid.New(), Title: title, Difficulty: d}
	b.MicroTasks = append(b.MicroTasks, t)
	c.appendLog(ActivityTaskAdded, c.now(), "Micro-task %q added to boss %q", t.Title, b.Title)
	c.signal()
	return t, nil
}

// LinkQuest links an existing quest to a boss so its completions deal
// damage. A quest links to at most one boss.
func (c *Coordinator) LinkQuest(bossID, questID uuid.UUID) error {
	c.mu.Lock()
	defer c.notifyChanged()
	defer c.mu.Unlock()

	b, ok := c.bosses[bossID]
	if !ok {
		return bossNotFound(bossID)
	}
	q, ok := c.quests[questID]
	if !ok {
		return questNotFound(questID)
	}
	if q.BossID != nil {
		if *q.BossID == bossID {
			return nil
		}
		return fmt.Errorf("quest %q is already linked to another boss", q.Title)
	}

	id := bossID
	q.BossID = &id
	b.LinkedQuestIDs = append(b.LinkedQuestIDs, q.ID)
	c.appendLog(ActivityQuestLinked, c.now(), "Quest %q linked to boss %q", q.Title, b.Title)
	c.signal()
	return nil
}

// RewardSummary describes everything a single quest completion
// granted.
type RewardSummary struct {
	QuestID     uuid.UUID        `json:"questId"`
	QuestTitle  string           `json:"questTitle"`
	XPAwarded   int              `json:"xpAwarded"`
	GoldAwarded int              `json:"goldAwarded"`
	StatXP      map[StatKind]int `json:"statXP"`
	LevelBefore int              `json:"levelBefore"`
	LevelAfter  int              `json:"levelAfter"`
	LevelUp     bool             `json:"levelUp"`
	RankBefore  formula.Rank     `json:"rankBefore"`
	RankAfter   formula.Rank     `json:"rankAfter"`
	NewTitles   []string         `json:"newTitles,omitempty"`
	BossID      *uuid.UUID       `json:"bossId,omitempty"`
	Boss        *DamageResult    `json:"boss,omitempty"`
}

// CompleteQuest marks the quest completed as a user action and grants
// rewards. Completing an already-completed quest is an expected
// condition, reported as ErrAlreadyCompleted.
func (c *Coordinator) CompleteQuest(id uuid.UUID) (*RewardSummary, error) {
	c.mu.Lock()
	defer c.notifyChanged()
	defer c.mu.Unlock()

	now := c.now()
	c.catchUp(now)

	q, ok := c.quests[id]
	if !ok {
		return nil, questNotFound(id)
	}
	if q.Status == StatusCompleted {
		return nil, ErrAlreadyCompleted
	}
	if q.Status == StatusExpired || q.ExpiredAt(now) {
		return nil, ErrQuestExpired
	}

	if !completeQuest(q, now) {
		return nil, ErrAlreadyCompleted
	}
	sum := c.grantQuestRewards(q, now)
	c.signal()
	return sum, nil
}

// CompleteMicroTask completes a boss micro-task, dealing damage with a
// chance of a critical double hit.
func (c *Coordinator) CompleteMicroTask(bossID, taskID uuid.UUID) (*DamageResult, error) {
	c.mu.Lock()
	defer c.notifyChanged()
	defer c.mu.Unlock()

	now := c.now()
	c.catchUp(now)

	b, ok := c.bosses[bossID]
	if !ok {
		return nil, bossNotFound(bossID)
	}
	if b.Dynamic() {
		return nil, ErrDynamicBoss
	}
	if b.Status == StatusCompleted {
		return nil, ErrAlreadyCompleted
	}
	t := b.Task(taskID)
	if t == nil {
		return nil, NotFoundError{Kind: "micro-task", ID: taskID, Err: ErrTaskNotFound}
	}
	if t.Completed {
		return nil, ErrAlreadyCompleted
	}

	t.Completed = true
	dmg := formula.BossDamage(t.Difficulty, c.player.Level)
	crit := formula.RollCritical(c.rng)
	if crit {
		dmg *= 2
	}

	res := applyBossDamage(b, dmg, crit, false)
	if crit {
		c.appendLog(ActivityBossDamaged, now, "Critical hit! %q took %d damage (%d HP left)", b.Title, res.Damage, res.RemainingHP)
	} else {
		c.appendLog(ActivityBossDamaged, now, "%q took %d damage (%d HP left)", b.Title, res.Damage, res.RemainingHP)
	}
	if res.BossDefeated {
		c.onBossDefeated(b, now)
	}
	c.checkTitles(now)
	c.signal()
	return &res, nil
}

// UpdateDynamicGoal reports a fresh metric value for a dynamic-goal
// boss and recomputes its HP from scratch.
func (c *Coordinator) UpdateDynamicGoal(bossID uuid.UUID, value float64) (*DamageResult, error) {
	c.mu.Lock()
	defer c.notifyChanged()
	defer c.mu.Unlock()

	now := c.now()
	c.catchUp(now)

	b, ok := c.bosses[bossID]
	if !ok {
		return nil, bossNotFound(bossID)
	}
	if !b.Dynamic() {
		return nil, ErrNotDynamic
	}

	wasDefeated := b.Status == StatusCompleted
	res := recomputeDynamicHP(b, value)

	c.appendLog(ActivityGoalUpdated, now, "%q %s now %v (boss at %d/%d HP)", b.Title, b.Goal.Metric, value, b.CurrentHP, b.MaxHP)
	if res.BossDefeated && !wasDefeated {
		c.onBossDefeated(b, now)
	}
	c.checkTitles(now)
	c.signal()
	return &res, nil
}

// ProgressUpdate is the result of an external metric report. At most
// one of Quest and Boss is set.
type ProgressUpdate struct {
	Applied bool           `json:"applied"`
	Quest   *RewardSummary `json:"quest,omitempty"`
	Boss    *DamageResult  `json:"boss,omitempty"`
}

// ReportProgress is the single entry point for external metric
// sources: "update progress/value for quest or goal X to V at time T."
// Unknown targets and already-settled quests are logged no-ops, never
// errors; out-of-range values clamp.
func (c *Coordinator) ReportProgress(targetID uuid.UUID, value float64, at time.Time) ProgressUpdate {
	c.mu.Lock()
	defer c.notifyChanged()
	defer c.mu.Unlock()

	if at.IsZero() {
		at = c.now()
	}
	c.catchUp(at)

	if q, ok := c.quests[targetID]; ok {
		if q.Status == StatusCompleted || q.Status == StatusExpired {
			c.logger.Debug("progress ignored", "quest", q.Title, "status", q.Status)
			return ProgressUpdate{}
		}
		completed := applyQuestProgress(q, value, at)
		out := ProgressUpdate{Applied: true}
		if completed {
			out.Quest = c.grantQuestRewards(q, at)
		}
		c.signal()
		return out
	}

	if b, ok := c.bosses[targetID]; ok && b.Dynamic() {
		wasDefeated := b.Status == StatusCompleted
		res := recomputeDynamicHP(b, value)
		c.appendLog(ActivityGoalUpdated, at, "%q %s now %v (boss at %d/%d HP)", b.Title, b.Goal.Metric, value, b.CurrentHP, b.MaxHP)
		if res.BossDefeated && !wasDefeated {
			c.onBossDefeated(b, at)
		}
		c.checkTitles(at)
		c.signal()
		return ProgressUpdate{Applied: true, Boss: &res}
	}

	c.logger.Debug("progress ignored: unknown target", "target", targetID)
	return ProgressUpdate{}
}

// grantQuestRewards applies the one-time completion rewards. Callers
// guarantee the completion edge fired exactly once for this window.
func (c *Coordinator) grantQuestRewards(q *Quest, at time.Time) *RewardSummary {
	p := c.player

	sum := &RewardSummary{
		QuestID:     q.ID,
		QuestTitle:  q.Title,
		LevelBefore: p.Level,
		RankBefore:  p.Rank(),
		StatXP:      make(map[StatKind]int, len(q.TargetStats)),
	}

	xp := formula.QuestXP(q.Difficulty, formula.StreakMultiplier(p.CurrentStreak))
	gold := formula.QuestGold(q.Difficulty)
	p.TotalXP += xp
	p.Gold += gold
	sum.XPAwarded = xp
	sum.GoldAwarded = gold

	// Split the stat pool evenly; the remainder goes to the last stat.
	pool := formula.StatXP(q.Difficulty)
	if n := len(q.TargetStats); n > 0 {
		share := pool / n
		given := 0
		for _, kind := range q.TargetStats {
			st, ok := p.Stats[kind]
			if !ok {
				st = &Stat{}
				p.Stats[kind] = st
			}
			amount := share
			given += amount
			st.AddExperience(amount)
			sum.StatXP[kind] += amount
		}
		if rem := pool - given; rem > 0 {
			last := q.TargetStats[len(q.TargetStats)-1]
			p.Stats[last].AddExperience(rem)
			sum.StatXP[last] += rem
		}
	}

	p.Level = formula.LevelForTotalXP(p.TotalXP)
	sum.LevelAfter = p.Level
	sum.LevelUp = p.Level > sum.LevelBefore
	sum.RankAfter = p.Rank()

	c.appendLog(ActivityQuestCompleted, at, "Completed quest %q: +%d XP, +%d gold", q.Title, xp, gold)
	if sum.LevelUp {
		c.appendLog(ActivityLevelUp, at, "Reached level %d (was %d)", sum.LevelAfter, sum.LevelBefore)
	}

	if q.BossID != nil {
		if b, ok := c.bosses[*q.BossID]; ok {
			sum.BossID = q.BossID
			wasDefeated := b.Status == StatusCompleted
			var res DamageResult
			if b.Dynamic() {
				// Dynamic bosses never take accumulated damage; the
				// completion just re-derives HP from the current metric.
				res = recomputeDynamicHP(b, b.Goal.CurrentValue)
			} else {
				dmg := formula.LinkedQuestDamage(q.Difficulty, p.Level)
				res = applyBossDamage(b, dmg, false, true)
				c.appendLog(ActivityBossDamaged, at, "%q took %d damage from quest %q (%d HP left)", b.Title, res.Damage, q.Title, res.RemainingHP)
			}
			if res.BossDefeated && !wasDefeated {
				c.onBossDefeated(b, at)
			}
			sum.Boss = &res
		}
	}

	sum.NewTitles = c.checkTitles(at)
	return sum
}

// onBossDefeated handles the first crossing to zero HP: log entry plus
// the collectible soldier award, once per boss.
func (c *Coordinator) onBossDefeated(b *BossFight, at time.Time) {
	c.appendLog(ActivityBossDefeated, at, "Boss %q defeated!", b.Title)
	for _, s := range c.player.Soldiers {
		if s.BossID == b.ID {
			return
		}
	}
	c.player.Soldiers = append(c.player.Soldiers, Soldier{
		Name:     "Shadow of " + b.Title,
		BossID:   b.ID,
		EarnedAt: at,
	})
}

func (c *Coordinator) bossesDefeated() int {
	n := 0
	for _, b := range c.bosses {
		if b.Status == StatusCompleted {
			n++
		}
	}
	return n
}

func (c *Coordinator) checkTitles(at time.Time) []string {
	earned := newlyEarnedTitles(c.player, c.bossesDefeated())
	for _, name := range earned {
		c.player.Titles = append(c.player.Titles, name)
		c.appendLog(ActivityTitleEarned, at, "Title earned: %s", name)
	}
	return earned
}

// catchUp advances time-dependent state: it scores any elapsed days
// against required quests, then rolls elapsed recurrence windows.
// Streak evaluation runs before rollover so it sees the statuses the
// prior day ended with. Callers hold the lock.
func (c *Coordinator) catchUp(now time.Time) {
	today := dateKey(now)
	if c.player.LastActiveDate == "" {
		c.player.LastActiveDate = today
	} else if c.player.LastActiveDate != today {
		c.evaluateElapsedDays(now)
		c.player.LastActiveDate = today
	}

	for _, id := range c.questOrder {
		q := c.quests[id]
		if q.ExpiredAt(now) {
			rolloverQuest(q, now)
		}
	}
}

func (c *Coordinator) evaluateElapsedDays(now time.Time) {
	loc := now.Location()
	last, err := time.ParseInLocation("2006-01-02", c.player.LastActiveDate, loc)
	if err != nil {
		c.logger.Warn("bad last-active date, resetting", "value", c.player.LastActiveDate)
		return
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	// Round rather than truncate: a spring-forward day is only 23 hours
	// long and still counts as one elapsed day.
	elapsed := int(today.Sub(last).Hours()/24 + 0.5)
	if elapsed <= 0 {
		return
	}

	required := 0
	missedFirst := 0
	for _, id := range c.questOrder {
		q := c.quests[id]
		if !q.Required {
			continue
		}
		required++
		if q.Status != StatusCompleted {
			missedFirst++
		}
	}
	if required == 0 {
		// Nothing was owed; the streak neither advances nor breaks.
		return
	}

	for day := 0; day < elapsed; day++ {
		date := dateKey(last.AddDate(0, 0, day))
		missed := required
		if day == 0 {
			missed = missedFirst
		}
		sum := evaluateStreakDay(c.player, date, missed)
		if sum == nil {
			c.appendLog(ActivityStreak, now, "Streak extended to %d day(s)", c.player.CurrentStreak)
			continue
		}
		c.pendingPenalty = append(c.pendingPenalty, *sum)
		if sum.Defeated {
			c.appendLog(ActivityDefeat, now, "Defeated by neglect on %s: lost %d gold, rank %s -> %s", sum.Date, sum.GoldLost, sum.RankBefore, sum.RankAfter)
		} else {
			c.appendLog(ActivityPenalty, now, "Missed %d required quest(s) on %s: -%d HP", sum.MissedQuests, sum.Date, sum.DamageTaken)
		}
	}
}

// DrainPenaltySummaries returns and clears penalty payloads produced
// by day-boundary evaluation since the last drain. The UI displays
// them; the engine never reads them back.
func (c *Coordinator) DrainPenaltySummaries() []PenaltySummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.pendingPenalty
	c.pendingPenalty = nil
	return out
}

// PlayerView returns a copy of the player for display.
func (c *Coordinator) PlayerView() Player {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.catchUp(c.now())
	return *copyPlayer(c.player)
}

// QuestList returns copies of all quests in creation order.
func (c *Coordinator) QuestList() []Quest {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.catchUp(c.now())
	out := make([]Quest, 0, len(c.questOrder))
	for _, id := range c.questOrder {
		out = append(out, copyQuest(c.quests[id]))
	}
	return out
}

// BossList returns copies of all bosses in creation order.
func (c *Coordinator) BossList() []BossFight {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.catchUp(c.now())
	out := make([]BossFight, 0, len(c.bossOrder))
	for _, id := range c.bossOrder {
		out = append(out, copyBoss(c.bosses[id]))
	}
	return out
}

// RecentActivity returns up to limit most-recent log entries, newest
// first.
func (c *Coordinator) RecentActivity(limit int) []ActivityLogEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	if limit <= 0 || limit > len(c.activity) {
		limit = len(c.activity)
	}
	out := make([]ActivityLogEntry, 0, limit)
	for i := len(c.activity) - 1; i >= len(c.activity)-limit; i-- {
		out = append(out, c.activity[i])
	}
	return out
}

func copyPlayer(p *Player) *Player {
	out := *p
	out.Stats = make(map[StatKind]*Stat, len(p.Stats))
	for k, v := range p.Stats {
		st := *v
		out.Stats[k] = &st
	}
	out.Titles = append([]string(nil), p.Titles...)
	out.Soldiers = append([]Soldier(nil), p.Soldiers...)
	return &out
}

func copyQuest(q *Quest) Quest {
	out := *q
	out.TargetStats = append([]StatKind(nil), q.TargetStats...)
	if q.BossID != nil {
		id := *q.BossID
		out.BossID = &id
	}
	if q.CompletedAt != nil {
		t := *q.CompletedAt
		out.CompletedAt = &t
	}
	return out
}

func copyBoss(b *BossFight) BossFight {
	out := *b
	out.MicroTasks = append([]MicroTask(nil), b.MicroTasks...)
	out.LinkedQuestIDs = append([]uuid.UUID(nil), b.LinkedQuestIDs...)
	if b.Goal != nil {
		g := *b.Goal
		out.Goal = &g
	}
	if b.Deadline != nil {
		t := *b.Deadline
		out.Deadline = &t
	}
	return out
}
