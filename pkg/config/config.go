// Package config loads driver configuration from YAML. The file names
// the server command, the account to address, and the timeout and
// observability knobs the session client takes as options.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	mcperrors "github.com/ngs/google-mcp-client/pkg/errors"
)

// Default timing values applied when the file leaves them unset.
const (
	DefaultReadTimeout   = 10 * time.Second
	DefaultShutdownGrace = 5 * time.Second
)

// ServerConfig names the MCP server process to launch.
type ServerConfig struct {
	// Command is the server binary. Required.
	Command string `yaml:"command"`
	// Args are passed to the command verbatim.
	Args []string `yaml:"args"`
	// Dir is the working directory for the child process.
	Dir string `yaml:"dir"`
	// Env entries (KEY=VALUE) are appended to the inherited environment.
	Env []string `yaml:"env"`
}

// ClientConfig tunes the session client.
type ClientConfig struct {
	// Name and Version go into the initialize handshake's clientInfo.
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	// ReadTimeoutSec bounds each reply wait. Zero means the default,
	// a negative value disables the timeout.
	ReadTimeoutSec int `yaml:"read_timeout_sec"`
	// ShutdownGraceSec is how long close waits after SIGTERM before
	// killing the child.
	ShutdownGraceSec int `yaml:"shutdown_grace_sec"`
}

// LoggingConfig selects log verbosity and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"` // host:port for the /metrics handler
}

// TracingConfig toggles OpenTelemetry export.
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Exporter   string  `yaml:"exporter"` // otlp-grpc, otlp-http, noop
	Endpoint   string  `yaml:"endpoint"`
	Insecure   bool    `yaml:"insecure"`
	SampleRate float64 `yaml:"sample_rate"`
}

// Config is the root of the driver configuration file.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Client  ClientConfig  `yaml:"client"`
	Account string        `yaml:"account"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// Default returns the configuration used when no file is given. The
// server command still has to come from a file or flag.
func Default() *Config {
	return &Config{
		Client: ClientConfig{
			Name:    "google-mcp-client",
			Version: "dev",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Tracing: TracingConfig{
			Exporter:   "noop",
			SampleRate: 1.0,
		},
	}
}

// DefaultSearchPaths returns the config file search order. An explicit
// path from the -config flag is checked before these.
func DefaultSearchPaths() []string {
	paths := []string{"mcpdrive.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "mcpdrive", "config.yaml"))
	}
	return paths
}

// Find locates a config file. If explicit is non-empty it must exist.
// Otherwise the search paths are tried in order; an empty string with a
// nil error means no file was found and defaults apply.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", mcperrors.InvalidConfig("config",
				fmt.Sprintf("file not found: %s", explicit))
		}
		return explicit, nil
	}
	for _, p := range DefaultSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", nil
}

// Load reads and validates a YAML configuration file. Environment
// variables in the file are expanded before parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, mcperrors.InvalidConfig("config", err.Error())
	}
	return Parse(data)
}

// Parse decodes configuration from raw YAML bytes on top of the
// defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, mcperrors.InvalidConfig("config",
			fmt.Sprintf("invalid YAML: %v", err))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields that would otherwise fail deep inside the
// client with a worse message.
func (c *Config) Validate() error {
	if c.Server.Command == "" {
		return mcperrors.InvalidConfig("server.command", "must not be empty")
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return mcperrors.InvalidConfig("logging.level",
			fmt.Sprintf("unknown level %q", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return mcperrors.InvalidConfig("logging.format",
			fmt.Sprintf("unknown format %q", c.Logging.Format))
	}
	if c.Tracing.Enabled {
		switch c.Tracing.Exporter {
		case "otlp-grpc", "otlp-http", "noop":
		default:
			return mcperrors.InvalidConfig("tracing.exporter",
				fmt.Sprintf("unknown exporter %q", c.Tracing.Exporter))
		}
		if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
			return mcperrors.InvalidConfig("tracing.sample_rate",
				"must be between 0.0 and 1.0")
		}
	}
	if c.Metrics.Enabled && c.Metrics.Listen == "" {
		return mcperrors.InvalidConfig("metrics.listen",
			"required when metrics are enabled")
	}
	return nil
}

// ReadTimeout converts the configured seconds into the duration the
// transport takes. Zero maps to the default, negative disables.
func (c *Config) ReadTimeout() time.Duration {
	switch {
	case c.Client.ReadTimeoutSec < 0:
		return -1
	case c.Client.ReadTimeoutSec == 0:
		return DefaultReadTimeout
	default:
		return time.Duration(c.Client.ReadTimeoutSec) * time.Second
	}
}

// ShutdownGrace converts the configured seconds into the grace period
// passed to close.
func (c *Config) ShutdownGrace() time.Duration {
	if c.Client.ShutdownGraceSec <= 0 {
		return DefaultShutdownGrace
	}
	return time.Duration(c.Client.ShutdownGraceSec) * time.Second
}
