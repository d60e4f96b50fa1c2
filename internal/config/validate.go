package config

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

var (
	// ErrEmptyDataPath indicates a missing data file location
	ErrEmptyDataPath = errors.New("empty data path")

	// ErrInvalidLimit indicates invalid query limit configuration
	ErrInvalidLimit = errors.New("invalid query limit")

	// ErrInvalidLogLevel indicates an unknown log level
	ErrInvalidLogLevel = errors.New("invalid log level")

	// ErrInvalidLogFormat indicates an unsupported log encoding
	ErrInvalidLogFormat = errors.New("invalid log format")

	// ErrEmptyAddr indicates a missing server listen address
	ErrEmptyAddr = errors.New("empty server address")

	// ErrInvalidCacheSettings indicates invalid cache configuration
	ErrInvalidCacheSettings = errors.New("invalid cache settings")

	// ErrInvalidDebounce indicates an invalid watcher debounce interval
	ErrInvalidDebounce = errors.New("invalid debounce interval")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateData(&cfg.Data); err != nil {
		errs = append(errs, err)
	}

	if err := validateQuery(&cfg.Query); err != nil {
		errs = append(errs, err)
	}

	if err := validateLog(&cfg.Log); err != nil {
		errs = append(errs, err)
	}

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		errs = append(errs, fmt.Errorf("%w: addr is required", ErrEmptyAddr))
	}

	if err := validateCache(&cfg.Cache); err != nil {
		errs = append(errs, err)
	}

	if cfg.Watch.DebounceMs < 0 {
		errs = append(errs, fmt.Errorf("%w: debounce_ms cannot be negative, got %d", ErrInvalidDebounce, cfg.Watch.DebounceMs))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateData(cfg *DataConfig) error {
	var errs []error

	if strings.TrimSpace(cfg.NEOPath) == "" {
		errs = append(errs, fmt.Errorf("%w: neo_path is required", ErrEmptyDataPath))
	}
	if strings.TrimSpace(cfg.CADPath) == "" {
		errs = append(errs, fmt.Errorf("%w: cad_path is required", ErrEmptyDataPath))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateQuery(cfg *QueryConfig) error {
	var errs []error

	// Zero means unlimited
	if cfg.DefaultLimit < 0 {
		errs = append(errs, fmt.Errorf("%w: default_limit cannot be negative, got %d", ErrInvalidLimit, cfg.DefaultLimit))
	}

	if cfg.MaxLimit <= 0 {
		errs = append(errs, fmt.Errorf("%w: max_limit must be positive, got %d", ErrInvalidLimit, cfg.MaxLimit))
	}

	if cfg.MaxLimit > 0 && cfg.DefaultLimit > cfg.MaxLimit {
		errs = append(errs, fmt.Errorf("%w: default_limit (%d) exceeds max_limit (%d)", ErrInvalidLimit, cfg.DefaultLimit, cfg.MaxLimit))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateLog(cfg *LogConfig) error {
	var errs []error

	if _, err := zapcore.ParseLevel(cfg.Level); err != nil {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidLogLevel, cfg.Level))
	}

	format := strings.ToLower(cfg.Format)
	if format != "console" && format != "json" {
		errs = append(errs, fmt.Errorf("%w: must be 'console' or 'json', got '%s'", ErrInvalidLogFormat, cfg.Format))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateCache(cfg *CacheConfig) error {
	var errs []error

	// Zero disables the cache
	if cfg.QueryCacheSize < 0 {
		errs = append(errs, fmt.Errorf("%w: query_cache_size cannot be negative, got %d", ErrInvalidCacheSettings, cfg.QueryCacheSize))
	}

	if cfg.QueryCacheTTLSeconds <= 0 {
		errs = append(errs, fmt.Errorf("%w: query_cache_ttl_seconds must be positive, got %d", ErrInvalidCacheSettings, cfg.QueryCacheTTLSeconds))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

// validationErrors reports every problem found while keeping each one
// reachable through errors.Is.
type validationErrors []error

func (e validationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

func (e validationErrors) Unwrap() []error { return e }

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	var flat validationErrors
	for _, err := range errs {
		if nested, ok := err.(validationErrors); ok {
			flat = append(flat, nested...)
			continue
		}
		flat = append(flat, err)
	}

	return flat
}
