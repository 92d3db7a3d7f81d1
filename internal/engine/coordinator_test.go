package engine

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"

	"habitforge/internal/formula"
)

// testClock is a mutable time source shared with the coordinator.
type testClock struct {
	t time.Time
}

func (c *testClock) now() time.Time          { return c.t }
func (c *testClock) advance(d time.Duration) { c.t = c.t.Add(d) }
func (c *testClock) advanceDays(n int)       { c.t = c.t.AddDate(0, 0, n) }

func newTestCoordinator(t *testing.T, state *State) (*Coordinator, *testClock) {
	t.Helper()
	clock := &testClock{t: time.Date(2026, 3, 3, 10, 30, 0, 0, time.UTC)}
	c := New(state,
		WithClock(clock.now),
		WithRand(rand.New(rand.NewSource(42))),
	)
	return c, clock
}

func TestCompleteQuestRewards(t *testing.T) {
	c, _ := newTestCoordinator(t, nil)

	q, err := c.CreateQuest(CreateQuestInput{Title: "Morning run", Difficulty: formula.DifficultyNormal})
	if err != nil {
		t.Fatalf("CreateQuest: %v", err)
	}

	sum, err := c.CompleteQuest(q.ID)
	if err != nil {
		t.Fatalf("CompleteQuest: %v", err)
	}
	if sum.XPAwarded != 30 {
		t.Fatalf("xp=%d, want 30", sum.XPAwarded)
	}
	if sum.GoldAwarded != 5 {
		t.Fatalf("gold=%d, want 5", sum.GoldAwarded)
	}
	// 30 XP is well short of the level-2 threshold.
	if sum.LevelUp || sum.LevelAfter != 1 {
		t.Fatalf("unexpected level-up: %+v", sum)
	}

	p := c.PlayerView()
	if p.TotalXP != 30 || p.Gold != 5 {
		t.Fatalf("player totals xp=%d gold=%d, want 30/5", p.TotalXP, p.Gold)
	}

	// Default target stat receives the full pool.
	if got := sum.StatXP[StatVitality]; got != formula.StatXP(formula.DifficultyNormal) {
		t.Fatalf("vitality xp=%d, want %d", got, formula.StatXP(formula.DifficultyNormal))
	}
}

func TestCompleteQuestIdempotent(t *testing.T) {
	c, _ := newTestCoordinator(t, nil)

	q, _ := c.CreateQuest(CreateQuestInput{Title: "Meditate"})
	if _, err := c.CompleteQuest(q.ID); err != nil {
		t.Fatalf("first completion: %v", err)
	}
	if _, err := c.CompleteQuest(q.ID); !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("second completion err=%v, want ErrAlreadyCompleted", err)
	}

	p := c.PlayerView()
	if p.TotalXP != 30 {
		t.Fatalf("double rewards granted: xp=%d", p.TotalXP)
	}
}

func TestCompleteQuestUnknown(t *testing.T) {
	c, _ := newTestCoordinator(t, nil)
	_, err := c.CompleteQuest(uuid.New())
	if !errors.Is(err, ErrQuestNotFound) {
		t.Fatalf("err=%v, want ErrQuestNotFound", err)
	}
}

func TestQuestRecurrenceWindowReopens(t *testing.T) {
	c, clock := newTestCoordinator(t, nil)

	q, _ := c.CreateQuest(CreateQuestInput{Title: "Stretch", Recurrence: RecurDaily})
	if _, err := c.CompleteQuest(q.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	clock.advanceDays(1)
	quests := c.QuestList()
	if len(quests) != 1 {
		t.Fatalf("quest count=%d", len(quests))
	}
	if quests[0].Status != StatusAvailable {
		t.Fatalf("status=%s, want available after rollover", quests[0].Status)
	}

	// The reopened window can be completed again.
	if _, err := c.CompleteQuest(q.ID); err != nil {
		t.Fatalf("complete after rollover: %v", err)
	}
}

func TestReportProgressSoftNoOp(t *testing.T) {
	c, _ := newTestCoordinator(t, nil)

	update := c.ReportProgress(uuid.New(), 500, time.Time{})
	if update.Applied {
		t.Fatalf("unknown target should be a no-op")
	}

	q, _ := c.CreateQuest(CreateQuestInput{Title: "Walk", TargetValue: 10000, Tracking: TrackSteps})
	if _, err := c.CompleteQuest(q.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	update = c.ReportProgress(q.ID, 2000, time.Time{})
	if update.Applied {
		t.Fatalf("progress on a completed quest should be a no-op")
	}
}

func TestReportProgressCompletesQuest(t *testing.T) {
	c, clock := newTestCoordinator(t, nil)

	q, _ := c.CreateQuest(CreateQuestInput{Title: "Walk", TargetValue: 10000, Tracking: TrackSteps})

	update := c.ReportProgress(q.ID, 4000, clock.now())
	if !update.Applied || update.Quest != nil {
		t.Fatalf("partial progress: %+v", update)
	}

	update = c.ReportProgress(q.ID, 10000, clock.now())
	if update.Quest == nil {
		t.Fatalf("target reached but no rewards")
	}
	if update.Quest.XPAwarded != 30 {
		t.Fatalf("xp=%d, want 30", update.Quest.XPAwarded)
	}
}

func TestMicroTaskDamage(t *testing.T) {
	c, _ := newTestCoordinator(t, nil)

	b, err := c.CreateBoss(CreateBossInput{Title: "Demon", MaxHP: 100})
	if err != nil {
		t.Fatalf("CreateBoss: %v", err)
	}
	task, err := c.AddMicroTask(b.ID, "Outline chapter", formula.DifficultyHard)
	if err != nil {
		t.Fatalf("AddMicroTask: %v", err)
	}

	res, err := c.CompleteMicroTask(b.ID, task.ID)
	if err != nil {
		t.Fatalf("CompleteMicroTask: %v", err)
	}
	base := formula.BossDamage(formula.DifficultyHard, 1)
	want := base
	if res.IsCritical {
		want = base * 2
	}
	if res.Damage != want {
		t.Fatalf("damage=%d, want %d (crit=%v)", res.Damage, want, res.IsCritical)
	}

	// A micro-task fires once.
	if _, err := c.CompleteMicroTask(b.ID, task.ID); !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("err=%v, want ErrAlreadyCompleted", err)
	}
}

func TestLinkedQuestDamageIsReducedAndNeverCritical(t *testing.T) {
	player := NewPlayer("Hunter")
	player.TotalXP = formula.TotalXPForLevel(5)
	player.Level = 5
	c, _ := newTestCoordinator(t, &State{Player: player})

	b, _ := c.CreateBoss(CreateBossInput{Title: "Demon", MaxHP: 100})
	q, _ := c.CreateQuest(CreateQuestInput{Title: "Write 500 words", Difficulty: formula.DifficultyHard, BossID: &b.ID})

	sum, err := c.CompleteQuest(q.ID)
	if err != nil {
		t.Fatalf("CompleteQuest: %v", err)
	}
	if sum.Boss == nil {
		t.Fatalf("linked quest dealt no damage")
	}
	if sum.Boss.Damage != 50 {
		t.Fatalf("damage=%d, want 50", sum.Boss.Damage)
	}
	if sum.Boss.IsCritical {
		t.Fatalf("linked quest damage must never be critical")
	}
	if sum.Boss.RemainingHP != 50 {
		t.Fatalf("boss HP=%d, want 50", sum.Boss.RemainingHP)
	}
}

func TestBossDefeatAwardsSoldierAndTitle(t *testing.T) {
	c, _ := newTestCoordinator(t, nil)

	b, _ := c.CreateBoss(CreateBossInput{Title: "Sloth King", MaxHP: 10})
	task, _ := c.AddMicroTask(b.ID, "One push-up", formula.DifficultyNormal)

	res, err := c.CompleteMicroTask(b.ID, task.ID)
	if err != nil {
		t.Fatalf("CompleteMicroTask: %v", err)
	}
	if !res.BossDefeated {
		t.Fatalf("boss survived %d damage against 10 HP", res.Damage)
	}

	p := c.PlayerView()
	if len(p.Soldiers) != 1 {
		t.Fatalf("soldiers=%d, want 1", len(p.Soldiers))
	}
	if p.Soldiers[0].Name != "Shadow of Sloth King" {
		t.Fatalf("soldier name=%q", p.Soldiers[0].Name)
	}
	if !p.HasTitle("Giant Slayer") {
		t.Fatalf("Giant Slayer not earned; titles=%v", p.Titles)
	}
}

func TestDynamicBossLifecycle(t *testing.T) {
	c, _ := newTestCoordinator(t, nil)

	b, err := c.CreateBoss(CreateBossInput{
		Title: "Couch Potato",
		MaxHP: 100,
		Goal:  &DynamicBossGoal{Metric: MetricWorkouts, StartValue: 0, TargetValue: 4},
	})
	if err != nil {
		t.Fatalf("CreateBoss: %v", err)
	}
	if b.CurrentHP != 100 {
		t.Fatalf("initial HP=%d, want 100", b.CurrentHP)
	}

	// Dynamic bosses reject micro-tasks.
	if _, err := c.AddMicroTask(b.ID, "nope", formula.DifficultyEasy); !errors.Is(err, ErrDynamicBoss) {
		t.Fatalf("err=%v, want ErrDynamicBoss", err)
	}

	res, err := c.UpdateDynamicGoal(b.ID, 2)
	if err != nil {
		t.Fatalf("UpdateDynamicGoal: %v", err)
	}
	if res.RemainingHP != 50 {
		t.Fatalf("HP=%d, want 50", res.RemainingHP)
	}

	res, _ = c.UpdateDynamicGoal(b.ID, 4)
	if !res.BossDefeated {
		t.Fatalf("goal reached but boss alive at %d HP", res.RemainingHP)
	}

	p := c.PlayerView()
	if len(p.Soldiers) != 1 {
		t.Fatalf("soldier missing after dynamic defeat")
	}
}

func TestUpdateDynamicGoalOnRegularBoss(t *testing.T) {
	c, _ := newTestCoordinator(t, nil)
	b, _ := c.CreateBoss(CreateBossInput{Title: "Demon", MaxHP: 100})
	if _, err := c.UpdateDynamicGoal(b.ID, 3); !errors.Is(err, ErrNotDynamic) {
		t.Fatalf("err=%v, want ErrNotDynamic", err)
	}
}

func TestLinkedDynamicQuestRoutesThroughRecompute(t *testing.T) {
	c, _ := newTestCoordinator(t, nil)

	b, _ := c.CreateBoss(CreateBossInput{
		Title: "Step Tyrant",
		MaxHP: 100,
		Goal:  &DynamicBossGoal{Metric: MetricSteps, StartValue: 0, TargetValue: 100000},
	})
	q, _ := c.CreateQuest(CreateQuestInput{Title: "Daily walk", BossID: &b.ID})

	sum, err := c.CompleteQuest(q.ID)
	if err != nil {
		t.Fatalf("CompleteQuest: %v", err)
	}
	// HP stays metric-derived: the completion itself deals nothing.
	if sum.Boss == nil || sum.Boss.Damage != 0 {
		t.Fatalf("dynamic boss took accumulated damage: %+v", sum.Boss)
	}
	bosses := c.BossList()
	if bosses[0].CurrentHP != 100 {
		t.Fatalf("HP=%d, want untouched 100", bosses[0].CurrentHP)
	}
}

func TestLinkQuestOneBossOnly(t *testing.T) {
	c, _ := newTestCoordinator(t, nil)

	b1, _ := c.CreateBoss(CreateBossInput{Title: "First", MaxHP: 100})
	b2, _ := c.CreateBoss(CreateBossInput{Title: "Second", MaxHP: 100})
	q, _ := c.CreateQuest(CreateQuestInput{Title: "Train"})

	if err := c.LinkQuest(b1.ID, q.ID); err != nil {
		t.Fatalf("first link: %v", err)
	}
	// Relinking to the same boss is fine, a different one is not.
	if err := c.LinkQuest(b1.ID, q.ID); err != nil {
		t.Fatalf("same-boss relink: %v", err)
	}
	if err := c.LinkQuest(b2.ID, q.ID); err == nil {
		t.Fatalf("expected error linking to a second boss")
	}
}

func TestDayBoundaryPenalty(t *testing.T) {
	c, clock := newTestCoordinator(t, nil)

	if _, err := c.CreateQuest(CreateQuestInput{Title: "Core habit", Required: true}); err != nil {
		t.Fatalf("CreateQuest: %v", err)
	}

	clock.advanceDays(1)
	p := c.PlayerView()
	if p.CurrentHP != 95 {
		t.Fatalf("HP=%d, want 95 after one missed required quest", p.CurrentHP)
	}
	if p.CurrentStreak != 0 {
		t.Fatalf("streak=%d, want 0", p.CurrentStreak)
	}
	// A survivable miss does not enter the penalty zone; only HP
	// exhaustion does.
	if p.InPenaltyZone {
		t.Fatalf("penalty zone entered at %d HP", p.CurrentHP)
	}

	sums := c.DrainPenaltySummaries()
	if len(sums) != 1 {
		t.Fatalf("summaries=%d, want 1", len(sums))
	}
	if sums[0].MissedQuests != 1 || sums[0].DamageTaken != 5 {
		t.Fatalf("summary=%+v", sums[0])
	}
	if got := c.DrainPenaltySummaries(); len(got) != 0 {
		t.Fatalf("drain not idempotent")
	}
}

func TestDayBoundaryStreakExtends(t *testing.T) {
	c, clock := newTestCoordinator(t, nil)

	q, _ := c.CreateQuest(CreateQuestInput{Title: "Core habit", Required: true})
	if _, err := c.CompleteQuest(q.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	clock.advanceDays(1)
	p := c.PlayerView()
	if p.CurrentStreak != 1 {
		t.Fatalf("streak=%d, want 1", p.CurrentStreak)
	}
	if len(c.DrainPenaltySummaries()) != 0 {
		t.Fatalf("clean day produced penalties")
	}
	if p.CurrentHP != p.MaxHP {
		t.Fatalf("HP=%d, want untouched", p.CurrentHP)
	}
}

func TestMultiDayGapCountsEveryDay(t *testing.T) {
	c, clock := newTestCoordinator(t, nil)

	c.CreateQuest(CreateQuestInput{Title: "Core habit", Required: true})

	clock.advanceDays(3)
	p := c.PlayerView()
	if p.CurrentHP != 85 {
		t.Fatalf("HP=%d, want 85 after three missed days", p.CurrentHP)
	}
	if got := len(c.DrainPenaltySummaries()); got != 3 {
		t.Fatalf("summaries=%d, want 3", got)
	}
}

func TestNoRequiredQuestsLeavesStreakUntouched(t *testing.T) {
	c, clock := newTestCoordinator(t, nil)

	c.CreateQuest(CreateQuestInput{Title: "Optional extra"})

	clock.advanceDays(2)
	p := c.PlayerView()
	if p.CurrentStreak != 0 || p.CurrentHP != p.MaxHP || p.InPenaltyZone {
		t.Fatalf("idle days changed state: %+v", p)
	}
}

func TestStreakMultiplierAppliesToRewards(t *testing.T) {
	player := NewPlayer("Hunter")
	player.CurrentStreak = 7
	c, _ := newTestCoordinator(t, &State{Player: player})

	q, _ := c.CreateQuest(CreateQuestInput{Title: "Run", Difficulty: formula.DifficultyNormal})
	sum, err := c.CompleteQuest(q.ID)
	if err != nil {
		t.Fatalf("CompleteQuest: %v", err)
	}
	// floor(30 * 1.35) = 40.
	if sum.XPAwarded != 40 {
		t.Fatalf("xp=%d, want 40", sum.XPAwarded)
	}
}

func TestStatPoolSplitAcrossTargets(t *testing.T) {
	c, _ := newTestCoordinator(t, nil)

	q, _ := c.CreateQuest(CreateQuestInput{
		Title:       "Sparring",
		Difficulty:  formula.DifficultyHard,
		TargetStats: []StatKind{StatStrength, StatAgility, StatVitality},
	})
	sum, err := c.CompleteQuest(q.ID)
	if err != nil {
		t.Fatalf("CompleteQuest: %v", err)
	}

	pool := formula.StatXP(formula.DifficultyHard)
	total := 0
	for _, v := range sum.StatXP {
		total += v
	}
	if total != pool {
		t.Fatalf("distributed %d, want the full pool %d", total, pool)
	}
	// Remainder lands on the last target stat.
	if sum.StatXP[StatVitality] < sum.StatXP[StatStrength] {
		t.Fatalf("remainder allocation wrong: %+v", sum.StatXP)
	}
}

func TestSnapshotContract(t *testing.T) {
	c, _ := newTestCoordinator(t, nil)

	q, _ := c.CreateQuest(CreateQuestInput{Title: "Walk", TargetValue: 10000, Unit: "steps", Tracking: TrackSteps})
	c.ReportProgress(q.ID, 2500, time.Time{})
	c.CreateBoss(CreateBossInput{Title: "Demon", MaxHP: 200})

	snap := c.Snapshot()
	if snap.PlayerName != "Hunter" || snap.Level != 1 || snap.Rank != "E" {
		t.Fatalf("player header wrong: %+v", snap)
	}
	if snap.XPRequiredForNextLevel != formula.XPRequired(2) {
		t.Fatalf("next-level XP=%d, want %d", snap.XPRequiredForNextLevel, formula.XPRequired(2))
	}
	if len(snap.Quests) != 1 || len(snap.Bosses) != 1 {
		t.Fatalf("snapshot counts: %d quests, %d bosses", len(snap.Quests), len(snap.Bosses))
	}
	if snap.Quests[0].Progress != 0.25 {
		t.Fatalf("quest progress=%v, want 0.25", snap.Quests[0].Progress)
	}
	if snap.Bosses[0].HPPercentage != 1 {
		t.Fatalf("boss hp%%=%v, want 1", snap.Bosses[0].HPPercentage)
	}
}

func TestOnChangeFiresOutsideLock(t *testing.T) {
	clock := &testClock{t: time.Date(2026, 3, 3, 10, 30, 0, 0, time.UTC)}
	var c *Coordinator
	fired := 0
	c = New(nil,
		WithClock(clock.now),
		WithRand(rand.New(rand.NewSource(42))),
		WithOnChange(func() {
			// Listeners read back through the public API, the way the
			// companion server pushes a fresh snapshot.
			c.Snapshot()
			fired++
		}),
	)

	done := make(chan struct{})
	go func() {
		defer close(done)
		q, err := c.CreateQuest(CreateQuestInput{Title: "Run"})
		if err != nil {
			return
		}
		c.CompleteQuest(q.ID)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("mutation blocked: change callback cannot re-enter the coordinator")
	}
	if fired != 2 {
		t.Fatalf("callback fired %d times, want 2", fired)
	}
}

func TestFailedMutationSkipsOnChange(t *testing.T) {
	clock := &testClock{t: time.Date(2026, 3, 3, 10, 30, 0, 0, time.UTC)}
	fired := 0
	c := New(nil,
		WithClock(clock.now),
		WithOnChange(func() { fired++ }),
	)

	if _, err := c.CompleteQuest(uuid.New()); !errors.Is(err, ErrQuestNotFound) {
		t.Fatalf("err=%v, want ErrQuestNotFound", err)
	}
	if fired != 0 {
		t.Fatalf("callback fired %d times for a rejected mutation", fired)
	}
}

func TestDayBoundarySpansSpringForward(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tz database unavailable")
	}

	// US DST starts 2026-03-08, so midnight March 8 to midnight
	// March 9 is only 23 hours.
	clock := &testClock{t: time.Date(2026, 3, 8, 10, 0, 0, 0, loc)}
	c := New(nil, WithClock(clock.now), WithRand(rand.New(rand.NewSource(42))))
	if _, err := c.CreateQuest(CreateQuestInput{Title: "Core habit", Required: true}); err != nil {
		t.Fatalf("CreateQuest: %v", err)
	}

	clock.t = time.Date(2026, 3, 9, 10, 0, 0, 0, loc)
	p := c.PlayerView()
	if p.CurrentHP != 95 {
		t.Fatalf("HP=%d, want 95: the short day still counts", p.CurrentHP)
	}
	if got := len(c.DrainPenaltySummaries()); got != 1 {
		t.Fatalf("summaries=%d, want 1", got)
	}
}

func TestMicroTaskAndLinkAppendActivity(t *testing.T) {
	c, _ := newTestCoordinator(t, nil)

	b, _ := c.CreateBoss(CreateBossInput{Title: "Demon", MaxHP: 100})
	if _, err := c.AddMicroTask(b.ID, "Outline", formula.DifficultyEasy); err != nil {
		t.Fatalf("AddMicroTask: %v", err)
	}
	q, _ := c.CreateQuest(CreateQuestInput{Title: "Train"})
	if err := c.LinkQuest(b.ID, q.ID); err != nil {
		t.Fatalf("LinkQuest: %v", err)
	}

	kinds := make(map[ActivityKind]int)
	for _, e := range c.RecentActivity(0) {
		kinds[e.Kind]++
	}
	if kinds[ActivityTaskAdded] != 1 {
		t.Fatalf("task_added entries=%d, want 1", kinds[ActivityTaskAdded])
	}
	if kinds[ActivityQuestLinked] != 1 {
		t.Fatalf("quest_linked entries=%d, want 1", kinds[ActivityQuestLinked])
	}
}

func TestRecentActivityNewestFirst(t *testing.T) {
	c, clock := newTestCoordinator(t, nil)

	q, _ := c.CreateQuest(CreateQuestInput{Title: "First"})
	clock.advance(time.Minute)
	c.CompleteQuest(q.ID)

	entries := c.RecentActivity(10)
	if len(entries) < 2 {
		t.Fatalf("entries=%d, want at least 2", len(entries))
	}
	if entries[0].Kind != ActivityQuestCompleted {
		t.Fatalf("newest entry kind=%s, want quest_completed", entries[0].Kind)
	}
	if entries[0].At.Before(entries[1].At) {
		t.Fatalf("entries not newest-first")
	}
}
