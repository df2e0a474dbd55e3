package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fastygo/taskflow/internal/ui"
)

func newProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show stats, level and achievements",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := taskflow().Profile.GetProfile(cmd.Context())
			if err != nil {
				return err
			}
			s := p.Stats
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, ui.Heading(ui.IconTrophy, "Profile"))
			fmt.Fprintln(out, ui.LabelValue("Coins", ui.Coins(s.Coins)))
			fmt.Fprintln(out, ui.LabelValue("Level", s.Level),
				ui.ProgressBar(int(p.XPProgress), 20),
				ui.Muted.Render(fmt.Sprintf("%d/%d XP", s.XP, s.XPToNext)))
			fmt.Fprintln(out, ui.LabelValue("Tasks", fmt.Sprintf("%d/%d (%.0f%%)", s.TasksCompleted, s.TotalTasks, p.CompletionRate)))
			fmt.Fprintln(out, ui.LabelValue("Streak", fmt.Sprintf("%d days", s.Streak)))
			fmt.Fprintln(out, ui.LabelValue("Member since", fmt.Sprintf("%s (%d days)", s.JoinDate, p.DaysActive)))
			fmt.Fprintln(out, ui.LabelValue("Items owned", len(p.OwnedItems)))

			if len(p.TopCategories) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, ui.H2.Render("Top categories"))
				for _, c := range p.TopCategories {
					fmt.Fprintf(out, "  %-12s %d\n", c.Category, c.Count)
				}
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, ui.H2.Render("Achievements"))
			for _, a := range p.Achievements {
				mark := ui.Muted.Render("○")
				if a.Unlocked {
					mark = ui.Gold.Render("●")
				}
				fmt.Fprintf(out, "  %s %-18s %s\n", mark, a.Name,
					ui.Muted.Render(fmt.Sprintf("%d/%d", a.Progress, a.MaxProgress)))
			}
			return nil
		},
	}
}
