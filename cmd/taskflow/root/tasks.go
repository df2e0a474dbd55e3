package root

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/internal/ui"
	"github.com/fastygo/taskflow/usecase/filter"
)

type taskFlags struct {
	description string
	priority    string
	category    string
	due         string
}

func (f *taskFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.description, "desc", "d", "", "Description")
	cmd.Flags().StringVarP(&f.priority, "priority", "p", "", "Priority (low|medium|high)")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "Category")
	cmd.Flags().StringVar(&f.due, "due", "", "Due date (YYYY-MM-DD, empty to clear)")
}

func newAddCmd() *cobra.Command {
	var flags taskFlags

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a := taskflow()

			fields := domain.TaskFields{
				Title:       strings.Join(args, " "),
				Description: flags.description,
				Priority:    domain.Priority(strings.ToLower(flags.priority)),
				Category:    flags.category,
			}
			due, err := parseDue(flags.due)
			if err != nil {
				return err
			}
			fields.DueDate = due

			if fields.Priority == "" {
				prefs, err := a.Settings.Get(ctx)
				if err != nil {
					return err
				}
				fields.Priority = prefs.Preferences.DefaultTaskPriority
			}

			created, err := a.Tasks.CreateTask(ctx, fields)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render("added"), ui.TaskLine(*created, domain.DateOf(time.Now())))
			return nil
		},
	}
	flags.bind(cmd)
	return cmd
}

func newEditCmd() *cobra.Command {
	var (
		flags taskFlags
		title string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a task; unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a := taskflow()

			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			existing, err := a.Tasks.GetTask(ctx, id)
			if err != nil {
				return err
			}

			fields := domain.TaskFields{
				Title:       existing.Title,
				Description: existing.Description,
				Priority:    existing.Priority,
				Category:    existing.Category,
				DueDate:     existing.DueDate,
			}
			changed := cmd.Flags().Changed
			if changed("title") {
				fields.Title = title
			}
			if changed("desc") {
				fields.Description = flags.description
			}
			if changed("priority") {
				fields.Priority = domain.Priority(strings.ToLower(flags.priority))
			}
			if changed("category") {
				fields.Category = flags.category
			}
			if changed("due") {
				if fields.DueDate, err = parseDue(flags.due); err != nil {
					return err
				}
			}

			updated, err := a.Tasks.UpdateTask(ctx, id, fields)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render("updated"), ui.TaskLine(*updated, domain.DateOf(time.Now())))
			return nil
		},
	}
	flags.bind(cmd)
	cmd.Flags().StringVarP(&title, "title", "t", "", "Title")
	return cmd
}

func newDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a task's completion (+/- coins)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a := taskflow()

			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			toggled, err := a.Tasks.ToggleCompletion(ctx, id)
			if err != nil {
				return err
			}
			stats, err := a.Ledger.Stats(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.TaskLine(*toggled, domain.DateOf(time.Now())))
			fmt.Fprintln(out, ui.LabelValue("Balance", ui.Coins(stats.Coins)))
			return nil
		},
	}
}

func newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := taskflow().Tasks.DeleteTask(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render(fmt.Sprintf("deleted #%d", id)))
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	var (
		criteria filter.Criteria
		order    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks with progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a := taskflow()

			if order == "" {
				prefs, err := a.Settings.Get(ctx)
				if err != nil {
					return err
				}
				order = prefs.Preferences.TaskSortOrder
			}
			tasks, err := a.Tasks.ListTasks(ctx)
			if err != nil {
				return err
			}
			visible := filter.Sort(filter.Apply(tasks, criteria), order)
			summary := filter.Summarize(visible)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconTask, "Tasks"))
			if len(visible) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("no tasks match"))
			}
			today := domain.DateOf(time.Now())
			for _, t := range visible {
				fmt.Fprintln(out, ui.TaskLine(t, today))
			}
			fmt.Fprintf(out, "%s %d/%d (%d%%)\n",
				ui.ProgressBar(summary.Percent(), 20),
				summary.Completed, summary.Total, summary.Percent())
			return nil
		},
	}

	cmd.Flags().StringVarP(&criteria.Search, "search", "s", "", "Match title or description")
	cmd.Flags().StringVarP(&criteria.Category, "category", "c", filter.All, "Category or all")
	cmd.Flags().StringVarP(&criteria.Priority, "priority", "p", filter.All, "Priority or all")
	cmd.Flags().StringVar(&order, "sort", "", "Sort order (created|priority|dueDate); defaults to the saved preference")
	return cmd
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(raw, "#"))
	if err != nil || id <= 0 {
		return 0, errors.New("task id must be a positive number")
	}
	return id, nil
}

func parseDue(raw string) (*domain.Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		return nil, fmt.Errorf("--due: %w", err)
	}
	return &d, nil
}
