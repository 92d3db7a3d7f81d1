package root

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"habitforge/internal/engine"
	"habitforge/internal/ui"
)

func newDoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "do <quest-id>",
		Short: "Complete a quest",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("quest id is required")
			}
			if _, err := uuid.Parse(args[0]); err != nil {
				return errors.New("quest id must be a UUID")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			coord, _, cleanup, err := openCoordinator(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			id, _ := uuid.Parse(args[0])
			reward, err := coord.CompleteQuest(id)
			if err != nil {
				return err
			}

			printReward(cmd, reward)
			printPenalties(cmd, coord)
			return nil
		},
	}

	return cmd
}

func printReward(cmd *cobra.Command, r *engine.RewardSummary) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.Heading(ui.IconDone, "Quest complete: "+r.QuestTitle))
	fmt.Fprintf(out, "%s %s\n", ui.Good.Render(fmt.Sprintf("+%d XP", r.XPAwarded)), ui.Gold.Render(fmt.Sprintf("+%d gold", r.GoldAwarded)))

	kinds := make([]engine.StatKind, 0, len(r.StatXP))
	for k := range r.StatXP {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	for _, k := range kinds {
		fmt.Fprintf(out, "- %s +%d stat XP\n", k, r.StatXP[k])
	}

	if r.LevelUp {
		fmt.Fprintf(out, "%s level %d → %d\n", ui.BadgeLevelUp, r.LevelBefore, r.LevelAfter)
	}
	if r.RankAfter != r.RankBefore {
		fmt.Fprintf(out, "%s rank %s → %s\n", ui.IconTrophy, r.RankBefore, r.RankAfter)
	}
	if r.Boss != nil && r.Boss.Damage > 0 {
		fmt.Fprintf(out, "%s boss took %d damage (%d HP left)\n", ui.IconSword, r.Boss.Damage, r.Boss.RemainingHP)
	}
	if r.Boss != nil && r.Boss.BossDefeated {
		fmt.Fprintln(out, ui.BadgeDefeated)
	}
	for _, t := range r.NewTitles {
		fmt.Fprintf(out, "%s title earned: %s\n", ui.IconSparkle, t)
	}
}

func printPenalties(cmd *cobra.Command, coord *engine.Coordinator) {
	out := cmd.OutOrStdout()
	for _, p := range coord.DrainPenaltySummaries() {
		if p.Defeated {
			fmt.Fprintf(out, "%s %s\n", ui.IconSkull, ui.Bad.Render(fmt.Sprintf(
				"Defeated on %s: lost %d gold, level %d → %d, rank %s → %s",
				p.Date, p.GoldLost, p.LevelBefore, p.LevelAfter, p.RankBefore, p.RankAfter)))
			continue
		}
		fmt.Fprintf(out, "%s %s\n", ui.IconWarn, ui.Warn.Render(fmt.Sprintf(
			"Missed %d required quest(s) on %s: -%d HP", p.MissedQuests, p.Date, p.DamageTaken)))
		if p.StreakBroken {
			fmt.Fprintln(out, ui.Warn.Render("Streak broken."))
		}
	}
}
