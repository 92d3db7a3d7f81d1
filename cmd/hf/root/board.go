package root

import (
	"context"

	"github.com/spf13/cobra"

	"habitforge/internal/tui"
)

func newBoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open the interactive dashboard (TUI)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			coord, _, cleanup, err := openCoordinator(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			return tui.RunBoard(coord, cmd.OutOrStdout())
		},
	}
	return cmd
}
