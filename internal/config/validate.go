package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidFormat indicates an unsupported output format
	ErrInvalidFormat = errors.New("invalid output format")

	// ErrInvalidWorkers indicates an invalid worker count
	ErrInvalidWorkers = errors.New("invalid worker count")

	// ErrInvalidCacheEntries indicates an invalid cache capacity
	ErrInvalidCacheEntries = errors.New("invalid cache capacity")

	// ErrNoCodePatterns indicates an empty code pattern list
	ErrNoCodePatterns = errors.New("no code patterns")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if len(cfg.Paths.Code) == 0 {
		errs = append(errs, fmt.Errorf("%w: at least one paths.code pattern required", ErrNoCodePatterns))
	}

	if cfg.Extract.Workers < 0 {
		errs = append(errs, fmt.Errorf("%w: workers cannot be negative, got %d", ErrInvalidWorkers, cfg.Extract.Workers))
	}

	if cfg.Extract.CacheEntries < 0 {
		errs = append(errs, fmt.Errorf("%w: cache_entries cannot be negative, got %d", ErrInvalidCacheEntries, cfg.Extract.CacheEntries))
	}

	format := strings.ToLower(cfg.Output.Format)
	if format != "json" && format != "text" {
		errs = append(errs, fmt.Errorf("%w: must be 'json' or 'text', got '%s'", ErrInvalidFormat, cfg.Output.Format))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Errorf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}
