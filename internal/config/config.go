package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/monify-labs/hwfacts/internal/remote"
)

const (
	// Default config file location.
	ConfigFilePath = "/etc/hwfacts/config.yaml"

	// CommandTimeout bounds each external tool invocation.
	CommandTimeout = 10 * time.Second

	// Agent info (injected at build time via ldflags)
	Version   = "1.0.0"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Config holds the run-time knobs of the reporter. Everything is optional;
// the zero config inventories the local host with default tool paths.
type Config struct {
	// Fields restricts the report to a subset of field identifiers. Empty
	// means all known fields.
	Fields []string `yaml:"fields,omitempty"`

	// Tools maps tool names (lshw, lsblk, lspci, xrandr, edid-decode,
	// upower) to absolute path overrides.
	Tools map[string]string `yaml:"tools,omitempty"`

	// CommandTimeout bounds each external tool invocation.
	CommandTimeout time.Duration `yaml:"command_timeout,omitempty"`

	// SSH, when it names a host, switches the engine to remote inspection.
	SSH *remote.Config `yaml:"ssh,omitempty"`

	// Debug enables per-step trace logging.
	Debug bool `yaml:"debug,omitempty"`
}

// Load reads the config file at path, falling back to ConfigFilePath and
// then to defaults when no file exists. Environment variables win over the
// file, matching how the rest of our agents are configured.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path == "" {
		path = os.Getenv("HWFACTS_CONFIG")
	}
	explicit := path != ""
	if path == "" {
		path = ConfigFilePath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file is fine; run on defaults.
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if cfg.CommandTimeout <= 0 {
		cfg.CommandTimeout = CommandTimeout
	}
	if IsDebugMode() {
		cfg.Debug = true
	}

	return cfg, nil
}

// IsDebugMode checks if debug mode is enabled via the environment.
func IsDebugMode() bool {
	debug := os.Getenv("HWFACTS_DEBUG")
	return debug == "true" || debug == "1"
}
