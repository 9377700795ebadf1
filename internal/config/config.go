// Package config resolves API client settings from the environment and an
// optional JSON or YAML configuration file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the CLI configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values fall back to environment settings or defaults.
type Config struct {
	// Connection
	BaseURL             string            `json:"base_url,omitempty" yaml:"base_url,omitempty" validate:"omitempty,url"`                     // Resume API base URL
	ConnectionTimeoutMS int               `json:"connection_timeout_ms,omitempty" yaml:"connection_timeout_ms,omitempty" validate:"gte=0"` // Health check timeout
	RequestTimeoutMS    int               `json:"request_timeout_ms,omitempty" yaml:"request_timeout_ms,omitempty" validate:"gte=0"`       // General request timeout
	Headers             map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`                                               // Default request headers

	// Retry
	Retry RetryConfig `json:"retry,omitempty" yaml:"retry,omitempty"`

	// Export defaults
	DefaultTemplate string   `json:"default_template,omitempty" yaml:"default_template,omitempty"`
	SectionOrder    []string `json:"section_order,omitempty" yaml:"section_order,omitempty" validate:"omitempty,dive,required"`
	OutputDir       string   `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`
}

// RetryConfig overrides the default retry policy.
type RetryConfig struct {
	MaxAttempts int `json:"max_attempts,omitempty" yaml:"max_attempts,omitempty" validate:"gte=0,lte=10"`
	BaseDelayMS int `json:"base_delay_ms,omitempty" yaml:"base_delay_ms,omitempty" validate:"gte=0"`
	MaxDelayMS  int `json:"max_delay_ms,omitempty" yaml:"max_delay_ms,omitempty" validate:"gte=0"`
}

var validate = validator.New()

// LoadConfig loads configuration from a JSON file, or a YAML file when the
// extension is .yaml or .yml. Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			names := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				names = append(names, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("config error: invalid fields: %s", strings.Join(names, ", "))
		}
		return fmt.Errorf("config error: %w", err)
	}

	if c.Retry.MaxDelayMS > 0 && c.Retry.BaseDelayMS > c.Retry.MaxDelayMS {
		return fmt.Errorf("config error: 'retry.base_delay_ms' must not exceed 'retry.max_delay_ms'")
	}

	if c.OutputDir != "" {
		if info, err := os.Stat(c.OutputDir); err != nil || !info.IsDir() {
			return fmt.Errorf("config error: output directory not found: %s", c.OutputDir)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.BaseURL == "" {
		result.BaseURL = defaults.BaseURL
	}
	if result.DefaultTemplate == "" {
		result.DefaultTemplate = defaults.DefaultTemplate
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}

	// Int fields: use default if zero
	if result.ConnectionTimeoutMS == 0 {
		result.ConnectionTimeoutMS = defaults.ConnectionTimeoutMS
	}
	if result.RequestTimeoutMS == 0 {
		result.RequestTimeoutMS = defaults.RequestTimeoutMS
	}
	if result.Retry.MaxAttempts == 0 {
		result.Retry.MaxAttempts = defaults.Retry.MaxAttempts
	}
	if result.Retry.BaseDelayMS == 0 {
		result.Retry.BaseDelayMS = defaults.Retry.BaseDelayMS
	}
	if result.Retry.MaxDelayMS == 0 {
		result.Retry.MaxDelayMS = defaults.Retry.MaxDelayMS
	}

	if len(result.SectionOrder) == 0 {
		result.SectionOrder = defaults.SectionOrder
	}

	// Headers: defaults first, own values win
	if len(defaults.Headers) > 0 {
		merged := make(map[string]string, len(defaults.Headers)+len(result.Headers))
		for k, v := range defaults.Headers {
			merged[k] = v
		}
		for k, v := range result.Headers {
			merged[k] = v
		}
		result.Headers = merged
	}

	return result
}
