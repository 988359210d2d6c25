package commands

import (
	"fmt"

	"github.com/highergov/schemactl/pkg/schema"
	"github.com/spf13/cobra"
)

// ValidateOptions holds options for the validate command.
type ValidateOptions struct {
	Format string // Output format: table, json, markdown
}

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	opts := &ValidateOptions{}
	cmd := &cobra.Command{
		Use:   "validate [manifest]",
		Short: "Validate a schema manifest",
		Long: `Load a schema manifest and check every referential invariant:
unique table names, non-empty primary keys, and foreign keys that land on
an existing table's primary-key column.

Referential cycles (such as a self-referencing organizations hierarchy)
are reported as informational findings, not errors.

In strict mode (the default) the first referential problem aborts the
load; in lenient mode all problems are collected and reported together.`,
		Example: `  # Validate the configured manifest
  schemactl validate

  # Validate a specific manifest, collecting every problem
  schemactl validate schemas/highergov.json --mode lenient

  # Machine-readable output
  schemactl validate --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: table, json, markdown")

	return cmd
}

func runValidate(cmd *cobra.Command, args []string, opts *ValidateOptions) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg
	w := cmd.OutOrStdout()

	// Load issues are discarded: the full re-validation below re-derives
	// them along with cycle information.
	g, _, err := loadGraph(cfg, args)
	if err != nil {
		return err
	}

	cmdCtx.Logger.Debug("manifest loaded",
		"tables", g.TableCount(), "foreign_keys", g.EdgeCount())

	issues := g.Validate()

	format := resolveFormat(opts.Format, cfg.OutputFormat)
	if err := renderIssues(w, issues, format); err != nil {
		return err
	}

	if errs := schema.ErrorIssues(issues); len(errs) > 0 {
		return fmt.Errorf("%d validation errors", len(errs))
	}
	return nil
}
