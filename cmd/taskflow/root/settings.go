package root

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fastygo/taskflow/internal/ui"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change preferences",
	}
	cmd.AddCommand(newSettingsGetCmd(), newSettingsSetCmd())
	return cmd
}

func newSettingsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [section]",
		Short: "Print settings as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := taskflow().Settings.Get(cmd.Context())
			if err != nil {
				return err
			}
			var view interface{} = settings
			if len(args) == 1 {
				raw, err := json.Marshal(settings)
				if err != nil {
					return err
				}
				var sections map[string]json.RawMessage
				if err := json.Unmarshal(raw, &sections); err != nil {
					return err
				}
				section, ok := sections[args[0]]
				if !ok {
					return fmt.Errorf("unknown settings section %q", args[0])
				}
				view = section
			}
			body, err := json.MarshalIndent(view, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(body))
			return nil
		},
	}
}

func newSettingsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "set <section.field> <value>",
		Short:   "Change one setting",
		Example: "  taskflow settings set appearance.theme dark\n  taskflow settings set notifications.dailyDigest false",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			section, field, ok := strings.Cut(args[0], ".")
			if !ok || section == "" || field == "" {
				return fmt.Errorf("setting must be section.field, got %q", args[0])
			}
			var value interface{} = args[1]
			if b, err := strconv.ParseBool(args[1]); err == nil {
				value = b
			}

			if _, err := taskflow().Settings.Set(cmd.Context(), section, field, value); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconGear+" "+args[0]), "=", args[1])
			return nil
		},
	}
}
