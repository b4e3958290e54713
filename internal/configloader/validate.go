package configloader

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/gobwas/glob"

	"github.com/yaklabco/mdtree/internal/logging"
	"github.com/yaklabco/mdtree/pkg/config"
	"github.com/yaklabco/mdtree/pkg/highlight"
	"github.com/yaklabco/mdtree/pkg/markdown"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "runner.include[0]").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string

	// Line is the line number in the config file (if known).
	Line int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		if e.Line > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", e.FilePath, e.Line))
		} else {
			parts = append(parts, e.FilePath)
		}
	}

	if e.Field != "" {
		parts = append(parts, e.Field)
	}

	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Err joins every error, or returns nil when the configuration is valid.
func (r *ValidationResult) Err() error {
	errs := make([]error, len(r.Errors))
	for i := range r.Errors {
		errs[i] = &r.Errors[i]
	}
	return errors.Join(errs...)
}

func (r *ValidationResult) addError(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) addWarning(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	validateExtensions(cfg, result)

	if cfg.StopAt < 0 {
		result.addError("stop_at", cfg.StopAt, "stop_at must be >= 0 (0 means the whole document)")
	}

	if cfg.Cache.Path != "" && !cfg.Cache.Enabled {
		result.addWarning("cache.path", cfg.Cache.Path, "cache.path is set but cache.enabled is false")
	}

	if cfg.Highlight.Theme != "" && cfg.Highlight.Theme != config.ThemeDefault && cfg.Highlight.Theme != config.ThemePlain {
		result.addError("highlight.theme", cfg.Highlight.Theme,
			"unknown theme %q; must be one of: %s, %s", cfg.Highlight.Theme, config.ThemeDefault, config.ThemePlain)
	}
	for name := range cfg.Highlight.Colors {
		if !slices.Contains(highlight.Tags(), highlight.Tag(name)) {
			result.addError("highlight.colors."+name, name, "unknown highlight tag %q", name)
		}
	}

	if cfg.Runner.Jobs < 0 {
		result.addError("runner.jobs", cfg.Runner.Jobs, "jobs must be >= 0 (0 means auto)")
	}
	validatePatterns("runner.include", cfg.Runner.Include, result)
	validatePatterns("runner.exclude", cfg.Runner.Exclude, result)

	if cfg.LSP.Debounce < 0 {
		result.addError("lsp.debounce", cfg.LSP.Debounce.String(), "debounce must not be negative")
	}

	if cfg.LogLevel != "" && !logging.ValidLevel(cfg.LogLevel) {
		result.addError("log_level", cfg.LogLevel,
			"invalid log level %q; must be one of: debug, info, warn, error", cfg.LogLevel)
	}

	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.addError("format", cfg.Format, "invalid format %q; must be one of: dump, tree, json", cfg.Format)
	}

	return result
}

// validateExtensions checks every extension name against the parser registry.
func validateExtensions(cfg *config.Config, result *ValidationResult) {
	for i, name := range cfg.Extensions {
		field := fmt.Sprintf("extensions[%d]", i)
		if _, err := markdown.ExtensionByName(name); err != nil {
			result.addError(field, name, "unknown extension %q; must be one of: %s",
				name, strings.Join(markdown.ExtensionNames(), ", "))
			continue
		}
		if slices.Index(cfg.Extensions, name) != i {
			result.addWarning(field, name, "extension %q listed more than once", name)
		}
	}
}

// validatePatterns checks that runner patterns compile as globs.
func validatePatterns(field string, patterns []string, result *ValidationResult) {
	for i, pattern := range patterns {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			result.addError(fmt.Sprintf("%s[%d]", field, i), pattern, "invalid glob pattern: %v", err)
		}
	}
}
