// Package cli implements the cmsadmin command line.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/goliatone/go-cms-admin"
	"github.com/goliatone/go-cms-admin/internal/runtimeconfig"
	"github.com/spf13/cobra"
)

type configKey struct{}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "cmsadmin",
		Short: "Manage CMS collections from the terminal",
		Long: `cmsadmin lists, filters, creates, updates and deletes CMS entities
(files, images, videos, vocabulary, questions) and browses the audit log
through the admin REST API.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			cfg, err := runtimeconfig.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./"+runtimeconfig.DefaultFile+")")
	flags.String("base-url", "", "admin API base url")
	flags.String("token", "", "bearer token sent with every request")
	flags.Duration("timeout", 0, "request timeout")
	flags.String("lang", "", "default content language")
	flags.String("settings-provider", "", "settings store (memory|bun)")
	flags.String("settings-dsn", "", "sqlite dsn for the bun settings store")
	flags.String("log-level", "", "log level (trace|debug|info|warn|error)")
	flags.String("log-format", "", "log format (json|console|pretty)")

	_ = root.RegisterFlagCompletionFunc("log-format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"json", "console", "pretty"}, cobra.ShellCompDirectiveNoFileComp
	})

	root.AddCommand(newListCommand())
	root.AddCommand(newCreateCommand())
	root.AddCommand(newUpdateCommand())
	root.AddCommand(newDeleteCommand())
	root.AddCommand(newTUICommand())
	root.AddCommand(newSettingsCommand())
	return root
}

// Execute runs the root command.
func Execute() error {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func configFrom(ctx context.Context) cmsadmin.Config {
	if cfg, ok := ctx.Value(configKey{}).(cmsadmin.Config); ok {
		return cfg
	}
	return cmsadmin.DefaultConfig()
}

// openModule builds the module for a command run; callers close it.
func openModule(cmd *cobra.Command) (*cmsadmin.Module, error) {
	return cmsadmin.New(cmd.Context(), configFrom(cmd.Context()))
}
