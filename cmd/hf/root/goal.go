package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"habitforge/internal/ui"
)

func newGoalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal <boss-id> <value>",
		Short: "Report a fresh metric value for a dynamic-goal boss",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("boss id and value are required")
			}
			if _, err := uuid.Parse(args[0]); err != nil {
				return errors.New("boss id must be a UUID")
			}
			if _, err := strconv.ParseFloat(args[1], 64); err != nil {
				return errors.New("value must be a number")
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
			value, _ := strconv.ParseFloat(args[1], 64)

			res, err := coord.UpdateDynamicGoal(id, value)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s boss at %d HP.\n", ui.IconTarget, res.RemainingHP)
			if res.BossDefeated {
				fmt.Fprintln(out, ui.BadgeDefeated)
			}
			printPenalties(cmd, coord)
			return nil
		},
	}
	return cmd
}
