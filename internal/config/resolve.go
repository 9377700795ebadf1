package config

import (
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"reflect"
	"strconv"
	"time"
)

// Parser converts a raw configuration string into a typed value.
type Parser[T any] func(raw string) (T, error)

// Resolve returns the typed value for a configuration setting. An absent or
// empty raw value, a parse failure, or a NaN result all fall back to def and
// log a warning; Resolve never fails.
func Resolve[T any](logger *slog.Logger, name, raw string, def T, parse Parser[T]) T {
	if logger == nil {
		logger = slog.Default()
	}

	if raw == "" {
		logger.Warn("config value missing, using default",
			"config", name,
			"default", fmt.Sprint(def))
		return def
	}

	if parse == nil {
		if v, ok := any(raw).(T); ok {
			return v
		}
		logger.Warn("config value invalid, using default",
			"config", name,
			"value", raw,
			"default", fmt.Sprint(def))
		return def
	}

	parsed, err := parse(raw)
	if err != nil || isNaN(parsed) {
		logger.Warn("config value invalid, using default",
			"config", name,
			"value", raw,
			"default", fmt.Sprint(def))
		return def
	}
	return parsed
}

func isNaN(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return math.IsNaN(rv.Float())
	}
	return false
}

// ParseMillis parses a positive integer number of milliseconds.
func ParseMillis(raw string) (time.Duration, error) {
	ms, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("not an integer: %w", err)
	}
	if ms <= 0 {
		return 0, fmt.Errorf("must be positive, got %d", ms)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// ParseBaseURL accepts absolute http(s) URLs.
func ParseBaseURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("not an absolute http(s) URL: %q", raw)
	}
	return raw, nil
}
