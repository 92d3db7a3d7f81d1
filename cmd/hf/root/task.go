package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"habitforge/internal/formula"
	"habitforge/internal/ui"
)

func newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage boss micro-tasks",
	}
	cmd.AddCommand(
		newTaskAddCmd(),
		newTaskDoCmd(),
	)
	return cmd
}

func newTaskAddCmd() *cobra.Command {
	var diff string

	cmd := &cobra.Command{
		Use:   "add <boss-id> <title>",
		Short: "Attach a micro-task to a boss",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("boss id and title are required")
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
			d, err := formula.ParseDifficulty(diff)
			if err != nil {
				return err
			}

			t, err := coord.AddMicroTask(bossID, args[1], d)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconPlus, "Micro-task added"))
			fmt.Fprintln(out, ui.LabelValue("ID", t.ID))
			fmt.Fprintln(out, ui.LabelValue("Title", t.Title))
			fmt.Fprintln(out, ui.LabelValue("Difficulty", t.Difficulty))
			return nil
		},
	}

	cmd.Flags().StringVarP(&diff, "diff", "d", "normal", "Difficulty (trivial|easy|normal|hard|extreme|legendary)")
	return cmd
}

func newTaskDoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "do <boss-id> <task-id>",
		Short: "Complete a micro-task, striking the boss",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("boss id and task id are required")
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
			taskID, err := uuid.Parse(args[1])
			if err != nil {
				return fmt.Errorf("invalid task id: %w", err)
			}

			res, err := coord.CompleteMicroTask(bossID, taskID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if res.IsCritical {
				fmt.Fprintf(out, "%s %s %d damage!\n", ui.IconBolt, ui.BadgeCritical, res.Damage)
			} else {
				fmt.Fprintf(out, "%s %d damage.\n", ui.IconSword, res.Damage)
			}
			fmt.Fprintf(out, "Boss at %d HP.\n", res.RemainingHP)
			if res.BossDefeated {
				fmt.Fprintln(out, ui.BadgeDefeated)
			}
			printPenalties(cmd, coord)
			return nil
		},
	}
	return cmd
}
