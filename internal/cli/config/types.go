// Package config provides configuration management for the schemactl CLI.
//
// Configuration is layered: built-in defaults, then an optional
// schemactl.yaml file, then SCHEMACTL_-prefixed environment variables, then
// command-line flags.
package config

import "fmt"

// Config holds all CLI configuration options.
type Config struct {
	Manifest     string        `koanf:"manifest"`
	Mode         string        `koanf:"mode"`
	OutputFormat string        `koanf:"output"`
	Verbose      bool          `koanf:"verbose"`
	Target       *TargetConfig `koanf:"target"`
}

// TargetConfig describes the Postgres database used by introspection.
// Password and user may contain ${VAR} references expanded from the
// environment at load time.
type TargetConfig struct {
	Host     string            `koanf:"host"`
	Port     int               `koanf:"port"`
	User     string            `koanf:"user"`
	Password string            `koanf:"password"`
	Database string            `koanf:"database"`
	Schema   string            `koanf:"schema"`
	Options  map[string]string `koanf:"options"`
}

// Default configuration values.
const (
	DefaultManifest = "schema.json"
	DefaultMode     = "strict"
	DefaultOutput   = "table"
	DefaultSchema   = "public"
)

// Lenient reports whether referential errors should be collected instead of
// failing the load.
func (c *Config) Lenient() bool {
	return c.Mode == "lenient"
}

// ValidateMode checks the validation mode value.
func ValidateMode(mode string) error {
	switch mode {
	case "strict", "lenient":
		return nil
	default:
		return fmt.Errorf("invalid mode %q: must be strict or lenient", mode)
	}
}

// ValidateTarget checks an introspection target for obvious mistakes.
// A nil target is fine; commands that need one check for that themselves.
func ValidateTarget(t *TargetConfig) error {
	if t == nil {
		return nil
	}
	if t.Port < 0 || t.Port > 65535 {
		return fmt.Errorf("invalid target port %d", t.Port)
	}
	if t.Host != "" && t.Database == "" {
		return fmt.Errorf("target database is required when a host is set")
	}
	return nil
}
