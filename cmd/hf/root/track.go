package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"habitforge/internal/ui"
)

func newTrackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "track <target-id> <value>",
		Short: "Report a metric reading for a quest or dynamic boss",
		Long:  "Feeds an external measurement (steps, minutes, ...) into the engine.\nUnknown or already-settled targets are ignored without error.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("target id and value are required")
			}
			if _, err := uuid.Parse(args[0]); err != nil {
				return errors.New("target id must be a UUID")
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

			update := coord.ReportProgress(id, value, time.Now())
			out := cmd.OutOrStdout()
			if !update.Applied {
				fmt.Fprintln(out, ui.Muted.Render("Nothing to update."))
				return nil
			}
			if update.Quest != nil {
				printReward(cmd, update.Quest)
			} else if update.Boss != nil {
				fmt.Fprintf(out, "%s boss at %d HP.\n", ui.IconTarget, update.Boss.RemainingHP)
				if update.Boss.BossDefeated {
					fmt.Fprintln(out, ui.BadgeDefeated)
				}
			} else {
				fmt.Fprintln(out, ui.Good.Render("Progress recorded."))
			}
			printPenalties(cmd, coord)
			return nil
		},
	}
	return cmd
}
