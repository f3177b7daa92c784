package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newListCommand() *cobra.Command {
	var (
		page    int
		size    int
		filters []string
		remote  bool
		output  string
	)

	cmd := &cobra.Command{
		Use:   "list <resource>",
		Short: "List one page of a collection",
		Example: `  cmsadmin list files --filter name=syllabus --filter lang=EN
  cmsadmin list true-false-questions --filter answer=false --remote
  cmsadmin list audit --filter from=2024-01-01 --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := parsePairs(filters)
			if err != nil {
				return err
			}
			format := strings.ToLower(strings.TrimSpace(output))
			if format != outputTable && format != outputJSON {
				return fmt.Errorf("unsupported output %q (table|json)", output)
			}

			module, err := openModule(cmd)
			if err != nil {
				return err
			}
			defer module.Close()

			sess, err := openSession(cmd.Context(), module, args[0])
			if err != nil {
				return err
			}
			result, err := sess.list(cmd.Context(), listRequest{page: page, size: size, filters: draft, remote: remote})
			if err != nil {
				return err
			}
			return renderListing(cmd.OutOrStdout(), result, format)
		},
	}

	cmd.Flags().IntVar(&page, "page", 0, "zero-based page index")
	cmd.Flags().IntVar(&size, "size", 0, "page size (default from config)")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "filter as field=value, repeatable")
	cmd.Flags().BoolVar(&remote, "remote", false, "send filters to the server instead of filtering the page locally")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format (table|json)")
	_ = cmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{outputTable, outputJSON}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func newCreateCommand() *cobra.Command {
	var (
		values []string
		file   string
	)

	cmd := &cobra.Command{
		Use:   "create <resource>",
		Short: "Create an entity by reference or by upload",
		Example: `  cmsadmin create files --set name=Syllabus --set originalUrl=https://example.com/s.pdf
  cmsadmin create images --set name=Cover --file ./cover.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parsePairs(values)
			if err != nil {
				return err
			}
			module, err := openModule(cmd)
			if err != nil {
				return err
			}
			defer module.Close()

			sess, err := openSession(cmd.Context(), module, args[0])
			if err != nil {
				return err
			}
			result, err := sess.create(cmd.Context(), fields, file)
			if err != nil {
				return err
			}
			return renderResult(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringArrayVar(&values, "set", nil, "field value as field=value, repeatable")
	cmd.Flags().StringVar(&file, "file", "", "upload this file instead of referencing a url")
	return cmd
}

func newUpdateCommand() *cobra.Command {
	var values []string

	cmd := &cobra.Command{
		Use:   "update <resource> <id>",
		Short: "Send the changed fields of an entity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parsePairs(values)
			if err != nil {
				return err
			}
			module, err := openModule(cmd)
			if err != nil {
				return err
			}
			defer module.Close()

			sess, err := openSession(cmd.Context(), module, args[0])
			if err != nil {
				return err
			}
			result, err := sess.update(cmd.Context(), args[1], fields)
			if err != nil {
				return err
			}
			return renderResult(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringArrayVar(&values, "set", nil, "field value as field=value, repeatable")
	return cmd
}

func newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <resource> <id>",
		Short: "Delete an entity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := openModule(cmd)
			if err != nil {
				return err
			}
			defer module.Close()

			sess, err := openSession(cmd.Context(), module, args[0])
			if err != nil {
				return err
			}
			result, err := sess.remove(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			return renderResult(cmd.OutOrStdout(), result)
		},
	}
}

func newTUICommand() *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "tui <resource>",
		Short: "Browse and edit a collection interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := openModule(cmd)
			if err != nil {
				return err
			}
			defer module.Close()

			sess, err := openSession(cmd.Context(), module, args[0])
			if err != nil {
				return err
			}
			return sess.interactive(cmd.Context(), remote)
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "run searches on the server")
	return cmd
}
