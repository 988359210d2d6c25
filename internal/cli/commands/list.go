package commands

import (
	"github.com/spf13/cobra"
)

// ListOptions holds options for the list command.
type ListOptions struct {
	Format string // Output format: table, json, markdown
}

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	opts := &ListOptions{}
	cmd := &cobra.Command{
		Use:   "list [manifest]",
		Short: "List tables, keys, and references",
		Long: `List every table in the manifest with its primary key, the number of
foreign keys it declares, and the tables that reference it.`,
		Example: `  # List tables from the configured manifest
  schemactl list

  # List tables as JSON
  schemactl list --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			cfg := cmdCtx.Cfg

			g, _, err := loadGraph(cfg, args)
			if err != nil {
				return err
			}

			return renderTables(cmd.OutOrStdout(), g, resolveFormat(opts.Format, cfg.OutputFormat))
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: table, json, markdown")

	return cmd
}
