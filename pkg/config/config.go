// Package config defines core configuration types for mdtree.
// These types are plain data structures; loading and merging live in internal/configloader.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/yaklabco/mdtree/pkg/highlight"
	"github.com/yaklabco/mdtree/pkg/markdown"
)

// OutputFormat specifies how parse results are printed.
type OutputFormat string

const (
	FormatDump OutputFormat = "dump"
	FormatTree OutputFormat = "tree"
	FormatJSON OutputFormat = "json"
)

// Theme names accepted by highlight.theme.
const (
	ThemeDefault = "default"
	ThemePlain   = "plain"
)

// ErrUnknownTheme is returned when highlight.theme names no known theme.
var ErrUnknownTheme = errors.New("unknown highlight theme")

// CacheConfig controls the persistent tree cache.
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path,omitempty"`
}

// HighlightConfig selects the terminal theme and per-tag color overrides.
type HighlightConfig struct {
	Theme  string            `mapstructure:"theme" yaml:"theme"`
	Colors map[string]string `mapstructure:"colors" yaml:"colors,omitempty"`
}

// RunnerConfig controls file discovery and the worker pool.
type RunnerConfig struct {
	// Jobs is the number of parallel workers; 0 means GOMAXPROCS.
	Jobs           int      `mapstructure:"jobs" yaml:"jobs"`
	Include        []string `mapstructure:"include" yaml:"include"`
	Exclude        []string `mapstructure:"exclude" yaml:"exclude,omitempty"`
	FollowSymlinks bool     `mapstructure:"follow_symlinks" yaml:"follow_symlinks"`
}

// LSPConfig controls the language server.
type LSPConfig struct {
	// Debounce delays diagnostics after a change.
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

// Config is the root configuration structure for mdtree.
type Config struct {
	// Extensions names the parser extensions to enable ("gfm", "table", ...).
	Extensions []string `mapstructure:"extensions" yaml:"extensions"`

	// StopAt caps parsing at a byte offset; 0 parses everything.
	StopAt int `mapstructure:"stop_at" yaml:"stop_at,omitempty"`

	Cache     CacheConfig     `mapstructure:"cache" yaml:"cache"`
	Highlight HighlightConfig `mapstructure:"highlight" yaml:"highlight"`
	Runner    RunnerConfig    `mapstructure:"runner" yaml:"runner"`
	LSP       LSPConfig       `mapstructure:"lsp" yaml:"lsp"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	// CLI-level options (not persisted to config files).

	// Format specifies how parse output is printed.
	Format OutputFormat `mapstructure:"-" yaml:"-"`

	// MetricsAddr is the listen address for the Prometheus endpoint.
	MetricsAddr string `mapstructure:"-" yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Extensions: nil,
		Highlight: HighlightConfig{
			Theme: ThemeDefault,
		},
		Runner: RunnerConfig{
			Jobs:    0,
			Include: []string{"**/*.md", "**/*.markdown"},
		},
		LSP: LSPConfig{
			Debounce: 100 * time.Millisecond,
		},
		LogLevel: "info",
		Format:   FormatDump,
	}
}

// Parser builds a parser with the configured extensions.
func (c *Config) Parser() (*markdown.Parser, error) {
	exts, err := markdown.ExtensionsByName(c.Extensions)
	if err != nil {
		return nil, fmt.Errorf("resolve extensions: %w", err)
	}
	p, err := markdown.New(exts...)
	if err != nil {
		return nil, fmt.Errorf("configure parser: %w", err)
	}
	return p, nil
}

// Theme resolves the configured highlight theme with color overrides applied.
func (c *Config) Theme() (*highlight.Theme, error) {
	var base *highlight.Theme
	switch c.Highlight.Theme {
	case "", ThemeDefault:
		base = highlight.DefaultTheme()
	case ThemePlain:
		base = highlight.NewTheme()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, c.Highlight.Theme)
	}
	if len(c.Highlight.Colors) == 0 {
		return base, nil
	}
	th, err := base.WithColors(c.Highlight.Colors)
	if err != nil {
		return nil, fmt.Errorf("highlight colors: %w", err)
	}
	return th, nil
}
