package cli

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-cms-admin/pkg/interfaces"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newSettingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect and change persisted console settings",
	}
	cmd.AddCommand(newSettingsGetCommand())
	cmd.AddCommand(newSettingsSetCommand())
	return cmd
}

func newSettingsGetCommand() *cobra.Command {
	var lang string

	cmd := &cobra.Command{
		Use:   "get [name]",
		Short: "Print all settings or one value",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := openModule(cmd)
			if err != nil {
				return err
			}
			defer module.Close()

			provider := module.Settings()
			if len(args) == 1 {
				value, ok := provider.GetSetting(cmd.Context(), args[0], lang)
				if !ok {
					return fmt.Errorf("setting %q not found", args[0])
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), value)
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Name", "Lang", "Value"})
			for _, record := range provider.Records(cmd.Context()) {
				if lang != "" && record.Lang != "" && !strings.EqualFold(record.Lang, lang) {
					continue
				}
				t.AppendRow(table.Row{record.Name, record.Lang, record.Value})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&lang, "for", "", "restrict to one language")
	return cmd
}

func newSettingsSetCommand() *cobra.Command {
	var lang string

	cmd := &cobra.Command{
		Use:   "set <name> <value>",
		Short: "Store a setting value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := openModule(cmd)
			if err != nil {
				return err
			}
			defer module.Close()

			provider := module.Settings()
			records := upsertSetting(provider.Records(cmd.Context()), interfaces.Setting{
				Name:  args[0],
				Value: args[1],
				Lang:  strings.ToUpper(strings.TrimSpace(lang)),
			})
			if err := provider.Save(cmd.Context(), records); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&lang, "for", "", "language the value applies to")
	return cmd
}

func upsertSetting(records []interfaces.Setting, setting interfaces.Setting) []interfaces.Setting {
	for i, record := range records {
		if record.Name == setting.Name && strings.EqualFold(record.Lang, setting.Lang) {
			records[i] = setting
			return records
		}
	}
	return append(records, setting)
}
