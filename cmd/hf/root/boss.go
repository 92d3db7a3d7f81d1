package root

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"habitforge/internal/engine"
	"habitforge/internal/ui"
)

func newBossCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "boss",
		Short: "Manage boss fights",
	}
	cmd.AddCommand(
		newBossAddCmd(),
		newBossListCmd(),
		newBossLinkCmd(),
	)
	return cmd
}

func newBossAddCmd() *cobra.Command {
	var maxHP int
	var deadline string
	var metric string
	var start, target float64
	var cadence string
	var cadenceTarget float64

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Start a boss fight",
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

			in := engine.CreateBossInput{Title: args[0], MaxHP: maxHP}
			if deadline != "" {
				t, err := time.ParseInLocation("2006-01-02", deadline, time.Local)
				if err != nil {
					return fmt.Errorf("invalid deadline (want YYYY-MM-DD): %w", err)
				}
				in.Deadline = &t
			}
			if metric != "" {
				in.Goal = &engine.DynamicBossGoal{
					Metric:        engine.MetricKind(metric),
					StartValue:    start,
					TargetValue:   target,
					Cadence:       engine.GoalCadence(cadence),
					CadenceTarget: cadenceTarget,
				}
			}

			b, err := coord.CreateBoss(in)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconSkull, "Boss fight begins"))
			fmt.Fprintln(out, ui.LabelValue("ID", b.ID))
			fmt.Fprintln(out, ui.LabelValue("Title", b.Title))
			fmt.Fprintln(out, ui.LabelValue("HP", fmt.Sprintf("%d/%d", b.CurrentHP, b.MaxHP)))
			if b.Dynamic() {
				fmt.Fprintln(out, ui.LabelValue("Goal", fmt.Sprintf("%s %v → %v", b.Goal.Metric, b.Goal.StartValue, b.Goal.TargetValue)))
			}
			if b.Deadline != nil {
				fmt.Fprintln(out, ui.LabelValue("Deadline", b.Deadline.Format("2006-01-02")))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxHP, "hp", 100, "Boss max HP")
	cmd.Flags().StringVar(&deadline, "deadline", "", "Deadline (YYYY-MM-DD)")
	cmd.Flags().StringVar(&metric, "metric", "", "Dynamic-goal metric (steps|workouts|weight|screenTime)")
	cmd.Flags().Float64Var(&start, "start", 0, "Dynamic-goal start value")
	cmd.Flags().Float64Var(&target, "goal", 0, "Dynamic-goal target value")
	cmd.Flags().StringVar(&cadence, "cadence", "", "Dynamic-goal reporting cadence (daily|weekly)")
	cmd.Flags().Float64Var(&cadenceTarget, "cadence-goal", 0, "Per-cadence target value")

	return cmd
}

func newBossListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List boss fights",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			coord, _, cleanup, err := openCoordinator(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			bosses := coord.BossList()
			if len(bosses) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("No boss fights yet."))
				return nil
			}
			for _, b := range bosses {
				icon := ui.IconSkull
				if b.Status == engine.StatusCompleted {
					icon = ui.IconTrophy
				}
				fmt.Fprintf(out, "%s %s %s %d/%d HP %s\n", icon, b.Title, ui.HPBar(b.HPPercentage(), 14), b.CurrentHP, b.MaxHP, ui.Muted.Render(b.ID.String()))
				if b.Dynamic() {
					fmt.Fprintf(out, "   %s\n", ui.Dim.Render(fmt.Sprintf("%s: %v → %v (now %v)", b.Goal.Metric, b.Goal.StartValue, b.Goal.TargetValue, b.Goal.CurrentValue)))
				}
				for _, t := range b.MicroTasks {
					mark := "[ ]"
					if t.Completed {
						mark = "[x]"
					}
					fmt.Fprintf(out, "   %s %s (%s) %s\n", mark, t.Title, t.Difficulty, ui.Muted.Render(t.ID.String()))
				}
			}
			return nil
		},
	}
	return cmd
}

func newBossLinkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link <boss-id> <quest-id>",
		Short: "Link a quest so its completions damage the boss",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("boss id and quest id are required")
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

			bossID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid boss id: %w", err)
			}
			questID, err := uuid.Parse(args[1])
			if err != nil {
				return fmt.Errorf("invalid quest id: %w", err)
			}
			if err := coord.LinkQuest(bossID, questID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render("Linked."))
			return nil
		},
	}
	return cmd
}
