package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// OrderOptions holds options for the order command.
type OrderOptions struct {
	Format     string // Output format: table, json, markdown
	Levels     bool   // Group tables by dependency depth
	Downstream string // Comma-separated tables to trace dependents of
}

// NewOrderCommand creates the order command.
func NewOrderCommand() *cobra.Command {
	opts := &OrderOptions{}
	cmd := &cobra.Command{
		Use:   "order [manifest]",
		Short: "Compute the table load order",
		Long: `Compute an order in which every table is listed before any table that
references it - the order rows must be inserted to satisfy foreign keys.

Tables that reference each other (or themselves) form a cycle; the cycle's
members are reported instead of silently broken, and the caller decides
how to load them.`,
		Example: `  # Show the load order
  schemactl order

  # Group tables by dependency depth
  schemactl order --levels

  # Which tables are affected when organizations changes?
  schemactl order --downstream organizations

  # Machine-readable output
  schemactl order --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrder(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: table, json, markdown")
	cmd.Flags().BoolVar(&opts.Levels, "levels", false, "Group tables by dependency depth")
	cmd.Flags().StringVar(&opts.Downstream, "downstream", "", "Comma-separated tables: list them plus every table that references them")

	return cmd
}

func runOrder(cmd *cobra.Command, args []string, opts *OrderOptions) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg
	w := cmd.OutOrStdout()

	g, _, err := loadGraph(cfg, args)
	if err != nil {
		return err
	}

	format := resolveFormat(opts.Format, cfg.OutputFormat)

	if opts.Downstream != "" {
		names := strings.Split(opts.Downstream, ",")
		for i := range names {
			names[i] = strings.TrimSpace(names[i])
		}
		affected := g.Dependents(names)
		if format == formatJSON {
			return renderJSON(w, affected)
		}
		for _, name := range affected {
			_, _ = fmt.Fprintln(w, name)
		}
		return nil
	}

	if opts.Levels {
		levels := g.DependencyLevels()
		if format == formatJSON {
			return renderJSON(w, levels)
		}
		for i, level := range levels {
			_, _ = fmt.Fprintf(w, "Level %d:\n", i)
			for _, name := range level {
				_, _ = fmt.Fprintf(w, "  %s\n", name)
			}
		}
		return nil
	}

	return renderOrdering(w, g.TopologicalOrder(), format)
}
