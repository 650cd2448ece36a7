// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file looked up when --config is not given.
const DefaultPath = "rpcgen.yaml"

// Config is the root configuration structure.
type Config struct {
	Schema  SchemaConfig  `yaml:"schema"`
	Output  OutputConfig  `yaml:"output"`
	Imports ImportsConfig `yaml:"imports"`
	OpenAPI OpenAPIConfig `yaml:"openapi"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Watch   WatchConfig   `yaml:"watch"`
	Docs    DocsConfig    `yaml:"docs"`
}

// SchemaConfig locates the IDL sources: {dir}/{package}/{package}.proto.
type SchemaConfig struct {
	Dir string `yaml:"dir"`
}

// OutputConfig configures the output roots.
type OutputConfig struct {
	ClientRoot string `yaml:"client_root"`
	ServerRoot string `yaml:"server_root"`
	// Format is the summary format: "table", "json" or "yaml".
	Format string `yaml:"format"`
}

// ImportsConfig holds the module specifiers written into generated imports.
// Empty entries use the generator defaults; "{pkg}" expands to the package name.
type ImportsConfig struct {
	Session    string `yaml:"session"`
	APIConfig  string `yaml:"api_config"`
	APIError   string `yaml:"api_error"`
	ReactQuery string `yaml:"react_query"`
	Zod        string `yaml:"zod"`
	Express    string `yaml:"express"`
	Logger     string `yaml:"logger"`
	Response   string `yaml:"response"`
	Service    string `yaml:"service"`
	DTO        string `yaml:"dto"`
}

// OpenAPIConfig configures the emitted OpenAPI document.
type OpenAPIConfig struct {
	Title       string   `yaml:"title"` // default: "{Package} API"
	Description string   `yaml:"description"`
	Version     string   `yaml:"version"`
	Servers     []string `yaml:"servers"`
	Lint        bool     `yaml:"lint"` // validate the merged document with oastools
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// MetricsConfig configures the run metrics textfile.
type MetricsConfig struct {
	File string `yaml:"file"` // Prometheus textfile path; empty disables
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// DocsConfig configures the docs preview server.
type DocsConfig struct {
	Addr string `yaml:"addr"`
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(&cfg)

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadFromEnv creates configuration from defaults and environment variables.
//
// Environment variables:
//
//	RPCGEN_SCHEMA_DIR         - IDL root (default: proto)
//	RPCGEN_CLIENT_ROOT        - client output root (default: frontend/src)
//	RPCGEN_SERVER_ROOT        - server output root (default: backend/src)
//	RPCGEN_OUTPUT_FORMAT      - summary format: table, json, yaml (default: table)
//	RPCGEN_OPENAPI_LINT       - lint the OpenAPI document (default: false)
//	RPCGEN_OPENAPI_VERSION    - info.version of fresh documents (default: 1.0.0)
//	RPCGEN_LOG_LEVEL          - log level: debug, info, warn, error (default: info)
//	RPCGEN_LOG_FORMAT         - log format: json or console (default: console)
//	RPCGEN_METRICS_FILE       - Prometheus textfile path (default: disabled)
//	RPCGEN_WATCH_DEBOUNCE     - watch debounce (default: 300ms)
//	RPCGEN_DOCS_ADDR          - docs server address (default: 127.0.0.1:8089)
func LoadFromEnv() (*Config, error) {
	var cfg Config

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadWithFallback loads the file when it exists and falls back to environment variables.
func LoadWithFallback(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return LoadFromEnv()
}

// applyEnvOverrides applies RPCGEN_* environment variables to the config.
// Environment variables always override file-based configuration.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RPCGEN_SCHEMA_DIR"); v != "" {
		cfg.Schema.Dir = v
	}

	if v := os.Getenv("RPCGEN_CLIENT_ROOT"); v != "" {
		cfg.Output.ClientRoot = v
	}
	if v := os.Getenv("RPCGEN_SERVER_ROOT"); v != "" {
		cfg.Output.ServerRoot = v
	}
	if v := os.Getenv("RPCGEN_OUTPUT_FORMAT"); v != "" {
		cfg.Output.Format = v
	}

	if v := os.Getenv("RPCGEN_OPENAPI_LINT"); v != "" {
		cfg.OpenAPI.Lint = parseBool(v)
	}
	if v := os.Getenv("RPCGEN_OPENAPI_VERSION"); v != "" {
		cfg.OpenAPI.Version = v
	}

	if v := os.Getenv("RPCGEN_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("RPCGEN_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	if v := os.Getenv("RPCGEN_METRICS_FILE"); v != "" {
		cfg.Metrics.File = v
	}

	if v := os.Getenv("RPCGEN_WATCH_DEBOUNCE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Watch.Debounce = d
		} else if ms, err := strconv.Atoi(v); err == nil {
			cfg.Watch.Debounce = time.Duration(ms) * time.Millisecond
		}
	}

	if v := os.Getenv("RPCGEN_DOCS_ADDR"); v != "" {
		cfg.Docs.Addr = v
	}
}

// parseBool parses a boolean from common string values.
func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

func setDefaults(cfg *Config) {
	if cfg.Schema.Dir == "" {
		cfg.Schema.Dir = "proto"
	}

	if cfg.Output.ClientRoot == "" {
		cfg.Output.ClientRoot = "frontend/src"
	}
	if cfg.Output.ServerRoot == "" {
		cfg.Output.ServerRoot = "backend/src"
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = "table"
	}

	if cfg.OpenAPI.Version == "" {
		cfg.OpenAPI.Version = "1.0.0"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 300 * time.Millisecond
	}

	if cfg.Docs.Addr == "" {
		cfg.Docs.Addr = "127.0.0.1:8089"
	}
}

func validate(cfg *Config) error {
	validFormats := map[string]bool{"table": true, "json": true, "yaml": true}
	if !validFormats[cfg.Output.Format] {
		return fmt.Errorf("output.format must be one of: table, json, yaml, got %q", cfg.Output.Format)
	}

	validLogFormats := map[string]bool{"json": true, "console": true}
	if !validLogFormats[cfg.Logging.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", cfg.Logging.Format)
	}

	if cfg.Output.ClientRoot == cfg.Output.ServerRoot {
		return fmt.Errorf("output.client_root and output.server_root must differ")
	}

	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}

	return nil
}

// SchemaPath returns the IDL file of a package.
func (c *Config) SchemaPath(pkg string) string {
	return c.Schema.Dir + "/" + pkg + "/" + pkg + ".proto"
}
