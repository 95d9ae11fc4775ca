package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by WithDefaults.
type Config struct {
	Addr         string `json:"addr" yaml:"addr" toml:"addr"`
	Model        string `json:"model" yaml:"model" toml:"model"`
	ArtifactPath string `json:"artifact_path" yaml:"artifact_path" toml:"artifact_path"`
	MetadataPath string `json:"metadata_path" yaml:"metadata_path" toml:"metadata_path"`
	StrictFields bool   `json:"strict_fields" yaml:"strict_fields" toml:"strict_fields"`

	MaxBodyBytes   int64    `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	PredictTimeout Duration `json:"predict_timeout" yaml:"predict_timeout" toml:"predict_timeout"`
	MaxConcurrency int      `json:"max_concurrency" yaml:"max_concurrency" toml:"max_concurrency"`
	MaxQueueDepth  int      `json:"max_queue_depth" yaml:"max_queue_depth" toml:"max_queue_depth"`
	MaxWait        Duration `json:"max_wait" yaml:"max_wait" toml:"max_wait"`
	ShutdownGrace  Duration `json:"shutdown_grace" yaml:"shutdown_grace" toml:"shutdown_grace"`

	LogLevel   string `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFile    string `json:"log_file" yaml:"log_file" toml:"log_file"`
	RequestLog string `json:"request_log" yaml:"request_log" toml:"request_log"`

	RateLimitRPS   float64 `json:"rate_limit_rps" yaml:"rate_limit_rps" toml:"rate_limit_rps"`
	RateLimitBurst int     `json:"rate_limit_burst" yaml:"rate_limit_burst" toml:"rate_limit_burst"`

	CORSEnabled        bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSAllowedOrigins []string `json:"cors_allowed_origins" yaml:"cors_allowed_origins" toml:"cors_allowed_origins"`
	CORSAllowedMethods []string `json:"cors_allowed_methods" yaml:"cors_allowed_methods" toml:"cors_allowed_methods"`
	CORSAllowedHeaders []string `json:"cors_allowed_headers" yaml:"cors_allowed_headers" toml:"cors_allowed_headers"`
}

// Defaults used by WithDefaults.
const (
	DefaultAddr          = ":8080"
	DefaultModel         = "textscore"
	DefaultShutdownGrace = 10 * time.Second
	DefaultLogLevel      = "info"
)

// WithDefaults returns a copy of c with unspecified fields filled in.
func (c Config) WithDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.ShutdownGrace.Duration <= 0 {
		c.ShutdownGrace.Duration = DefaultShutdownGrace
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	return c
}

// Validate rejects settings that cannot work together.
func (c Config) Validate() error {
	switch {
	case c.MaxBodyBytes < 0:
		return fmt.Errorf("max_body_bytes must not be negative")
	case c.MaxConcurrency < 0:
		return fmt.Errorf("max_concurrency must not be negative")
	case c.MaxQueueDepth < 0:
		return fmt.Errorf("max_queue_depth must not be negative")
	case c.PredictTimeout.Duration < 0 || c.MaxWait.Duration < 0:
		return fmt.Errorf("timeouts must not be negative")
	case c.RateLimitRPS < 0 || c.RateLimitBurst < 0:
		return fmt.Errorf("rate limit must not be negative")
	}
	return nil
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
