package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

var (
	// ErrInvalidContextSize indicates a non-positive chunk budget
	ErrInvalidContextSize = errors.New("invalid max context size")

	// ErrEmptyRoot indicates a missing scan root
	ErrEmptyRoot = errors.New("empty scan root")

	// ErrEmptyOutput indicates a missing output path
	ErrEmptyOutput = errors.New("empty output path")

	// ErrInvalidWorkers indicates a non-positive worker count
	ErrInvalidWorkers = errors.New("invalid worker count")

	// ErrInvalidPattern indicates a glob pattern that does not compile
	ErrInvalidPattern = errors.New("invalid glob pattern")

	// ErrInvalidCacheSettings indicates invalid cache configuration
	ErrInvalidCacheSettings = errors.New("invalid cache settings")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateScan(&cfg.Scan); err != nil {
		errs = append(errs, err)
	}

	if cfg.Chunking.MaxContextSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: max_context_size must be positive, got %d", ErrInvalidContextSize, cfg.Chunking.MaxContextSize))
	}

	if err := validateOutput(&cfg.Output); err != nil {
		errs = append(errs, err)
	}

	if cfg.Workers <= 0 {
		errs = append(errs, fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidWorkers, cfg.Workers))
	}

	// Zero disables the cache
	if cfg.Cache.Capacity < 0 {
		errs = append(errs, fmt.Errorf("%w: capacity cannot be negative, got %d", ErrInvalidCacheSettings, cfg.Cache.Capacity))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateScan(cfg *ScanConfig) error {
	var errs []error

	if strings.TrimSpace(cfg.Root) == "" {
		errs = append(errs, fmt.Errorf("%w: root is required", ErrEmptyRoot))
	}
	errs = append(errs, validatePatterns("include", cfg.Include)...)
	errs = append(errs, validatePatterns("ignore", cfg.Ignore)...)

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateOutput(cfg *OutputConfig) error {
	var errs []error

	if strings.TrimSpace(cfg.Path) == "" {
		errs = append(errs, fmt.Errorf("%w: path is required", ErrEmptyOutput))
	}
	errs = append(errs, validatePatterns("only_graph_dirs", cfg.OnlyGraphDirs)...)

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validatePatterns(field string, patterns []string) []error {
	var errs []error
	for _, pattern := range patterns {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s pattern %q: %v", ErrInvalidPattern, field, pattern, err))
		}
	}
	return errs
}

// joinErrors combines multiple errors into a single error with clear formatting.
// Every input error stays reachable through errors.Is.
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

	return &validationError{
		msg:  fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - ")),
		errs: errs,
	}
}

type validationError struct {
	msg  string
	errs []error
}

func (e *validationError) Error() string   { return e.msg }
func (e *validationError) Unwrap() []error { return e.errs }
