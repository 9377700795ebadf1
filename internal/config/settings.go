package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/jonathan/resume-editor/internal/retry"
)

// Environment variable names.
const (
	EnvBaseURL           = "RESUME_API_BASE_URL"
	EnvConnectionTimeout = "RESUME_API_CONNECTION_TIMEOUT_MS"
	EnvRequestTimeout    = "RESUME_API_REQUEST_TIMEOUT_MS"
)

// Defaults applied when the environment does not provide a value.
const (
	DefaultBaseURL           = "http://localhost:8000"
	DefaultConnectionTimeout = 5000 * time.Millisecond
	DefaultRequestTimeout    = 30000 * time.Millisecond
	DefaultTemplate          = "default"
)

// DefaultSectionOrder is the section order used for exports when none is given.
var DefaultSectionOrder = []string{"education", "experiences", "projects", "keywords"}

// Settings are the resolved, well-typed client settings.
type Settings struct {
	BaseURL           string
	ConnectionTimeout time.Duration
	RequestTimeout    time.Duration
	Headers           map[string]string
	Retry             retry.Policy
	DefaultTemplate   string
	SectionOrder      []string
	OutputDir         string
}

// LoadSettings resolves settings from the process environment.
func LoadSettings(logger *slog.Logger) Settings {
	return loadSettings(logger, os.Getenv)
}

func loadSettings(logger *slog.Logger, getenv func(string) string) Settings {
	return Settings{
		BaseURL:           Resolve(logger, EnvBaseURL, getenv(EnvBaseURL), DefaultBaseURL, ParseBaseURL),
		ConnectionTimeout: Resolve(logger, EnvConnectionTimeout, getenv(EnvConnectionTimeout), DefaultConnectionTimeout, ParseMillis),
		RequestTimeout:    Resolve(logger, EnvRequestTimeout, getenv(EnvRequestTimeout), DefaultRequestTimeout, ParseMillis),
		Headers:           map[string]string{"Accept": "application/json"},
		Retry:             retry.DefaultPolicy,
		DefaultTemplate:   DefaultTemplate,
		SectionOrder:      append([]string(nil), DefaultSectionOrder...),
	}
}

// ApplyTo overlays the non-zero values of c onto s.
func (c *Config) ApplyTo(s Settings) Settings {
	if c.BaseURL != "" {
		s.BaseURL = c.BaseURL
	}
	if c.ConnectionTimeoutMS > 0 {
		s.ConnectionTimeout = time.Duration(c.ConnectionTimeoutMS) * time.Millisecond
	}
	if c.RequestTimeoutMS > 0 {
		s.RequestTimeout = time.Duration(c.RequestTimeoutMS) * time.Millisecond
	}
	if len(c.Headers) > 0 {
		headers := make(map[string]string, len(s.Headers)+len(c.Headers))
		for k, v := range s.Headers {
			headers[k] = v
		}
		for k, v := range c.Headers {
			headers[k] = v
		}
		s.Headers = headers
	}
	if c.Retry.MaxAttempts > 0 {
		s.Retry.MaxAttempts = c.Retry.MaxAttempts
	}
	if c.Retry.BaseDelayMS > 0 {
		s.Retry.BaseDelay = time.Duration(c.Retry.BaseDelayMS) * time.Millisecond
	}
	if c.Retry.MaxDelayMS > 0 {
		s.Retry.MaxDelay = time.Duration(c.Retry.MaxDelayMS) * time.Millisecond
	}
	if c.DefaultTemplate != "" {
		s.DefaultTemplate = c.DefaultTemplate
	}
	if len(c.SectionOrder) > 0 {
		s.SectionOrder = append([]string(nil), c.SectionOrder...)
	}
	if c.OutputDir != "" {
		s.OutputDir = c.OutputDir
	}
	return s
}
