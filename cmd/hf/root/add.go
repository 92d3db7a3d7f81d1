package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"habitforge/internal/engine"
	"habitforge/internal/formula"
	"habitforge/internal/ui"
)

func newAddCmd() *cobra.Command {
	var diff string
	var tracking string
	var recurrence string
	var stats []string
	var target float64
	var unit string
	var required bool
	var bossID string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a quest",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("title is required")
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

			d, err := formula.ParseDifficulty(diff)
			if err != nil {
				return err
			}
			rec, err := engine.ParseRecurrence(recurrence)
			if err != nil {
				return err
			}
			targetStats := make([]engine.StatKind, 0, len(stats))
			for _, s := range stats {
				k := engine.StatKind(s)
				if !k.IsValid() {
					return fmt.Errorf("invalid stat: %q", s)
				}
				targetStats = append(targetStats, k)
			}

			in := engine.CreateQuestInput{
				Title:       args[0],
				Difficulty:  d,
				Tracking:    engine.TrackingKind(tracking),
				Recurrence:  rec,
				TargetStats: targetStats,
				TargetValue: target,
				Unit:        unit,
				Required:    required,
			}
			if bossID != "" {
				id, err := uuid.Parse(bossID)
				if err != nil {
					return fmt.Errorf("invalid boss id: %w", err)
				}
				in.BossID = &id
			}

			q, err := coord.CreateQuest(in)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconPlus, "Quest accepted"))
			fmt.Fprintln(out, ui.LabelValue("ID", q.ID))
			fmt.Fprintln(out, ui.LabelValue("Title", q.Title))
			fmt.Fprintln(out, ui.LabelValue("Difficulty", q.Difficulty))
			fmt.Fprintln(out, ui.LabelValue("Recurrence", q.Recurrence))
			if q.TargetValue > 0 {
				fmt.Fprintln(out, ui.LabelValue("Target", fmt.Sprintf("%v %s", q.TargetValue, q.Unit)))
			}
			fmt.Fprintln(out, ui.LabelValue("Resets", q.ExpiresAt.Format("Mon Jan 2 15:04")))
			return nil
		},
	}

	cmd.Flags().StringVarP(&diff, "diff", "d", "normal", "Difficulty (trivial|easy|normal|hard|extreme|legendary)")
	cmd.Flags().StringVarP(&tracking, "tracking", "t", "manual", "Tracking source (manual|steps|screenTime|location)")
	cmd.Flags().StringVarP(&recurrence, "recurrence", "r", "daily", "Recurrence (hourly|daily|semiweekly|weekly|monthly)")
	cmd.Flags().StringSliceVarP(&stats, "stat", "s", nil, "Target stat(s) for stat XP (repeatable)")
	cmd.Flags().Float64Var(&target, "target", 0, "Numeric goal for tracked quests (0 = binary)")
	cmd.Flags().StringVar(&unit, "unit", "", "Unit of the numeric goal (steps, minutes, ...)")
	cmd.Flags().BoolVar(&required, "required", false, "Count this quest toward the daily streak")
	cmd.Flags().StringVar(&bossID, "boss", "", "Link the new quest to a boss fight")

	return cmd
}
