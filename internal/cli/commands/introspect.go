package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/highergov/schemactl/internal/introspect"
	"github.com/highergov/schemactl/pkg/schema"
	"github.com/spf13/cobra"
)

// IntrospectOptions holds options for the introspect command.
type IntrospectOptions struct {
	Output   string // Output path; "-" or empty writes to stdout
	Format   string // json or yaml; inferred from the output path if empty
	Validate bool   // Validate the introspected schema before writing
}

// NewIntrospectCommand creates the introspect command.
func NewIntrospectCommand() *cobra.Command {
	opts := &IntrospectOptions{}
	cmd := &cobra.Command{
		Use:   "introspect",
		Short: "Generate a manifest from a live PostgreSQL database",
		Long: `Connect to PostgreSQL and derive a schema manifest from the
information_schema catalog: one descriptor per base table, with its
primary key and foreign keys.

Connection settings come from the target section of schemactl.yaml or
from SCHEMACTL_TARGET_* environment variables. Credentials may use
${VAR} placeholders expanded from the environment.`,
		Example: `  # Write the introspected manifest to stdout
  schemactl introspect

  # Write a YAML manifest and validate it first
  schemactl introspect --validate -O schemas/live.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIntrospect(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "out", "O", "", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: json, yaml (default: inferred from --out, else json)")
	cmd.Flags().BoolVar(&opts.Validate, "validate", false, "Validate the introspected schema before writing")

	return cmd
}

func runIntrospect(cmd *cobra.Command, opts *IntrospectOptions) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg

	if cfg.Target == nil || cfg.Target.Host == "" {
		return fmt.Errorf("no introspection target configured: set target.host in schemactl.yaml or SCHEMACTL_TARGET_HOST")
	}

	in, err := introspect.Open(cmd.Context(), introspect.Options{
		Host:     cfg.Target.Host,
		Port:     cfg.Target.Port,
		User:     cfg.Target.User,
		Password: cfg.Target.Password,
		Database: cfg.Target.Database,
		Schema:   cfg.Target.Schema,
		SSLMode:  cfg.Target.Options["sslmode"],
	}, cmdCtx.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	descriptors, err := in.Descriptors(cmd.Context())
	if err != nil {
		return err
	}
	if len(descriptors) == 0 {
		return fmt.Errorf("schema %q contains no base tables", cfg.Target.Schema)
	}

	if opts.Validate {
		g, issues, err := schema.LoadWithOptions(descriptors, schema.LoadOptions{Lenient: true})
		if err != nil {
			return err
		}
		issues = append(issues, g.Validate()...)
		if errs := schema.ErrorIssues(issues); len(errs) > 0 {
			if err := renderIssues(cmd.ErrOrStderr(), errs, formatTable); err != nil {
				return err
			}
			return fmt.Errorf("introspected schema has %d validation errors", len(errs))
		}
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

	switch format {
	case "yaml":
		return schema.EncodeYAML(w, descriptors)
	case "json":
		return schema.EncodeJSON(w, descriptors)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
