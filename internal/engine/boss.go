package engine

import "math"

// DamageResult describes the outcome of any damage-causing call. The
// coordinator uses it to drive reward granting and activity-log text.
type DamageResult struct {
	// Damage is the HP delta applied. Negative means the boss healed,
	// which only dynamic-goal bosses can do.
	Damage       int  `json:"damage"`
	IsCritical   bool `json:"isCritical"`
	BossDefeated bool `json:"bossDefeated"`
	RemainingHP  int  `json:"remainingHP"`
}

// applyBossDamage reduces an accumulated-damage boss's HP. HP clamps
// at zero; the first crossing flips the boss to completed and further
// calls are no-ops.
func applyBossDamage(b *BossFight, amount int, critical bool, fromQuest bool) DamageResult {
	if b.Status == StatusCompleted {
		return DamageResult{BossDefeated: true, RemainingHP: b.CurrentHP}
	}
	if amount < 0 {
		amount = 0
	}

	applied := amount
	if applied > b.CurrentHP {
		applied = b.CurrentHP
	}
	b.CurrentHP -= applied
	b.TotalDamage += applied
	if fromQuest {
		b.QuestDamage += applied
	} else {
		b.TaskDamage += applied
	}

	defeated := b.CurrentHP == 0
	if defeated {
		b.Status = StatusCompleted
	} else if b.Status == StatusAvailable {
		b.Status = StatusInProgress
	}

	return DamageResult{
		Damage:       amount,
		IsCritical:   critical,
		BossDefeated: defeated,
		RemainingHP:  b.CurrentHP,
	}
}

// recomputeDynamicHP re-derives a dynamic boss's HP from its goal
// metric. HP is not accumulated: every update maps the normalized
// progress straight onto the HP pool, so a regressing metric heals the
// boss and reverts it to inProgress.
func recomputeDynamicHP(b *BossFight, newValue float64) DamageResult {
	if math.IsNaN(newValue) || math.IsInf(newValue, 0) {
		newValue = b.Goal.CurrentValue
	}
	b.Goal.CurrentValue = newValue

	progress := b.Goal.NormalizedProgress()
	newHP := int(math.Round((1 - progress) * float64(b.MaxHP)))
	if newHP < 0 {
		newHP = 0
	}
	if newHP > b.MaxHP {
		newHP = b.MaxHP
	}

	delta := b.CurrentHP - newHP
	b.CurrentHP = newHP
	if delta > 0 {
		b.TotalDamage += delta
	}

	if newHP == 0 {
		b.Status = StatusCompleted
	} else {
		b.Status = StatusInProgress
	}

	return DamageResult{
		Damage:       delta,
		BossDefeated: newHP == 0,
		RemainingHP:  newHP,
	}
}
