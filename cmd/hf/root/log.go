package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"habitforge/internal/ui"
)

func newLogCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			coord, _, cleanup, err := openCoordinator(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			entries := coord.RecentActivity(limit)
			if len(entries) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("No activity yet."))
				return nil
			}
			fmt.Fprintln(out, ui.Heading(ui.IconScroll, "Activity"))
			for _, e := range entries {
				fmt.Fprintf(out, "%s %s %s\n",
					ui.Muted.Render(e.At.Format("2006-01-02 15:04")),
					ui.Dim.Render(string(e.Kind)),
					e.Message)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show")
	return cmd
}
