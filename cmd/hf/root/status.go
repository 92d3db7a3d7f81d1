package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"habitforge/internal/engine"
	"habitforge/internal/formula"
	"habitforge/internal/ui"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show player status, quests and bosses",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			coord, _, cleanup, err := openCoordinator(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			p := coord.PlayerView()

			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, p.Name))
			fmt.Fprintln(out, ui.LabelValue("Level", fmt.Sprintf("%d [%s]", p.Level, p.Rank())))
			nextReq := formula.XPRequired(p.Level + 1)
			fmt.Fprintln(out, ui.LabelValue("XP", fmt.Sprintf("%d/%d %s", p.CurrentXP(), nextReq, ui.Bar(p.XPProgress(), 20, ui.H2))))
			fmt.Fprintln(out, ui.LabelValue("HP", fmt.Sprintf("%d/%d %s", p.CurrentHP, p.MaxHP, ui.HPBar(p.HPProgress(), 20))))
			fmt.Fprintln(out, ui.LabelValue("Gold", fmt.Sprintf("%s %d", ui.IconCoin, p.Gold)))
			streak := fmt.Sprintf("%s %d (best %d)", ui.IconFire, p.CurrentStreak, p.LongestStreak)
			if p.InPenaltyZone {
				streak += " " + ui.Bad.Render("penalty zone")
			}
			fmt.Fprintln(out, ui.LabelValue("Streak", streak))
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render("📊 Stats"))
			for _, k := range engine.AllStatKinds {
				s := p.Stats[k]
				if s == nil {
					s = &engine.Stat{}
				}
				fmt.Fprintf(out, "- %-12s %3d %s\n", k, s.TotalValue(), ui.Muted.Render(fmt.Sprintf("(%d/100 xp)", s.Experience)))
			}
			fmt.Fprintln(out, "")

			if len(p.Titles) > 0 {
				fmt.Fprintln(out, ui.H2.Render("🎖 Titles"))
				for _, t := range p.Titles {
					fmt.Fprintln(out, "- "+t)
				}
				fmt.Fprintln(out, "")
			}
			if len(p.Soldiers) > 0 {
				fmt.Fprintln(out, ui.H2.Render("🪖 Soldiers"))
				for _, s := range p.Soldiers {
					fmt.Fprintf(out, "- %s %s\n", s.Name, ui.Muted.Render(s.EarnedAt.Format("2006-01-02")))
				}
				fmt.Fprintln(out, "")
			}

			quests := coord.QuestList()
			fmt.Fprintln(out, ui.H2.Render(ui.IconScroll+" Quests"))
			if len(quests) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(none)"))
			}
			for _, q := range quests {
				req := ""
				if q.Required {
					req = ui.Warn.Render(" !")
				}
				fmt.Fprintf(out, "- %s %s%s %s %s %s\n",
					ui.TrackingIcon(q.Tracking), q.Title, req,
					ui.Bar(q.NormalizedProgress(), 10, ui.H2),
					ui.StatusText(q.Status),
					ui.Muted.Render(q.ID.String()))
			}
			fmt.Fprintln(out, "")

			bosses := coord.BossList()
			fmt.Fprintln(out, ui.H2.Render(ui.IconSkull+" Bosses"))
			if len(bosses) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(none)"))
			}
			for _, b := range bosses {
				fmt.Fprintf(out, "- %s %s %d/%d HP %s\n", b.Title, ui.HPBar(b.HPPercentage(), 14), b.CurrentHP, b.MaxHP, ui.Muted.Render(b.ID.String()))
			}

			printPenalties(cmd, coord)
			return nil
		},
	}

	return cmd
}
