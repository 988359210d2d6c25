package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/highergov/schemactl/pkg/schema"
	"github.com/spf13/cobra"
)

// ExportOptions holds options for the export command.
type ExportOptions struct {
	Output string // Output path; "-" or empty writes to stdout
	Format string // json or yaml; inferred from the output path if empty
}

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	opts := &ExportOptions{}
	cmd := &cobra.Command{
		Use:   "export [manifest]",
		Short: "Re-serialize a manifest from the loaded graph",
		Long: `Load a manifest, then serialize the graph back to descriptor form.

The output is normalized (keys in brace notation, tables in declaration
order) but loses no information: re-loading it produces an equivalent
graph. Useful for converting between JSON and YAML manifests.`,
		Example: `  # Normalize a manifest to stdout
  schemactl export schemas/highergov.json

  # Convert to YAML
  schemactl export schemas/highergov.json -O schemas/highergov.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "out", "O", "", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: json, yaml (default: inferred from --out, else json)")

	return cmd
}

func runExport(cmd *cobra.Command, args []string, opts *ExportOptions) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg

	g, _, err := loadGraph(cfg, args)
	if err != nil {
		return err
	}

	format := opts.Format
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Output)) {
		case ".yaml", ".yml":
			format = "yaml"
		default:
			format = "json"
		}
	}

	w := cmd.OutOrStdout()
	if opts.Output != "" && opts.Output != "-" {
		f, err := os.Create(opts.Output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	descriptors := g.Descriptors()
	switch format {
	case "yaml":
		return schema.EncodeYAML(w, descriptors)
	case "json":
		return schema.EncodeJSON(w, descriptors)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}
