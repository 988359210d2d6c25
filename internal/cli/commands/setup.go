package commands

import (
	"log/slog"
	"os"

	"github.com/highergov/schemactl/internal/cli/config"
	"github.com/highergov/schemactl/pkg/schema"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
}

// NewCommandContext collects the loaded config and logger for a command.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	return &CommandContext{
		Cfg:    getConfig(),
		Logger: config.GetLogger(cmd.Context()),
	}
}

// getConfig returns the current configuration. It uses
// config.GetCurrentConfig() if available, otherwise falls back to
// environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	// Fallback: read from environment with defaults
	return &config.Config{
		Manifest:     getEnvOrDefault("SCHEMACTL_MANIFEST", config.DefaultManifest),
		Mode:         getEnvOrDefault("SCHEMACTL_MODE", config.DefaultMode),
		OutputFormat: getEnvOrDefault("SCHEMACTL_OUTPUT", config.DefaultOutput),
		Verbose:      os.Getenv("SCHEMACTL_VERBOSE") == "true",
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// manifestPath resolves the manifest to operate on: a positional argument
// wins over the configured path.
func manifestPath(cfg *config.Config, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Manifest
}

// loadGraph reads the manifest and builds the schema graph using the
// configured validation mode. In lenient mode, referential problems come
// back as issues instead of an error.
func loadGraph(cfg *config.Config, args []string) (*schema.Graph, []schema.Issue, error) {
	descriptors, err := schema.ReadManifest(manifestPath(cfg, args))
	if err != nil {
		return nil, nil, err
	}
	return schema.LoadWithOptions(descriptors, schema.LoadOptions{Lenient: cfg.Lenient()})
}
