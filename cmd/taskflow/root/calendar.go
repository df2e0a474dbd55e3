package root

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/internal/ui"
	"github.com/fastygo/taskflow/usecase/calendar"
)

func newCalendarCmd() *cobra.Command {
	var (
		month    string
		offset   int
		selected string
	)

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show the month grid with task counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			today := domain.DateOf(time.Now())
			year, mon := today.Year, today.Month
			if month != "" {
				t, err := time.Parse("2006-01", month)
				if err != nil {
					return fmt.Errorf("--month must be YYYY-MM: %w", err)
				}
				year, mon = t.Year(), t.Month()
			}
			year, mon = calendar.Shift(year, mon, offset)

			opts := calendar.Options{Today: today}
			if selected != "" {
				d, err := domain.ParseDate(selected)
				if err != nil {
					return fmt.Errorf("--day: %w", err)
				}
				opts.Selected = &d
			}

			tasks, err := taskflow().Tasks.ListTasks(cmd.Context())
			if err != nil {
				return err
			}
			grid := calendar.Build(year, mon, tasks, opts)
			renderMonth(cmd, grid, today)
			return nil
		},
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "Month to show (YYYY-MM)")
	cmd.Flags().IntVar(&offset, "offset", 0, "Months to move from --month (negative for earlier)")
	cmd.Flags().StringVar(&selected, "day", "", "List tasks due on this day (YYYY-MM-DD)")
	return cmd
}

func renderMonth(cmd *cobra.Command, grid calendar.Month, today domain.Date) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.Heading(ui.IconCal, fmt.Sprintf("%s %d", grid.Month, grid.Year)))
	fmt.Fprintln(out, ui.Muted.Render(" Su   Mo   Tu   We   Th   Fr   Sa"))

	var row []string
	for i, cell := range grid.Cells {
		row = append(row, renderCell(cell))
		if (i+1)%7 == 0 {
			fmt.Fprintln(out, strings.Join(row, " "))
			row = row[:0]
		}
	}

	if grid.Selected != nil {
		fmt.Fprintln(out)
		fmt.Fprintln(out, ui.LabelValue("Due "+grid.Selected.String(), len(grid.SelectedTasks)))
		for _, t := range grid.SelectedTasks {
			fmt.Fprintln(out, ui.TaskLine(t, today))
		}
	}
}

// renderCell prints the day number and a one-character load marker: dots for up to three
// tasks, "+" for a badge.
func renderCell(cell calendar.Cell) string {
	day := fmt.Sprintf("%2d", cell.Date.Day)
	marker := " "
	switch {
	case cell.Indicator.Badge != nil:
		marker = "+"
	case len(cell.Indicator.Dots) > 0:
		marker = strings.Repeat("·", len(cell.Indicator.Dots))
	}
	text := fmt.Sprintf("%s%-3s", day, marker)

	switch {
	case cell.IsSelected:
		return ui.Selected.Render(text)
	case cell.IsToday:
		return ui.Today.Render(text)
	case !cell.IsCurrentMonth:
		return ui.Muted.Render(text)
	default:
		return text
	}
}
