package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"habitforge/internal/ui"
)

const Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:           "hf",
	Short:         "HabitForge, a habit RPG progression engine",
	Long:          "HabitForge turns daily habits into quests, long-term goals into boss fights,\nand consistency into levels, ranks and titles.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.AddCommand(
		newAddCmd(),
		newDoCmd(),
		newBossCmd(),
		newTaskCmd(),
		newTrackCmd(),
		newGoalCmd(),
		newStatusCmd(),
		newLogCmd(),
		newServeCmd(),
		newBoardCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
