package configloader

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yaklabco/mdtree/pkg/config"
)

const envVarPrefix = "MDTREE_"

// EnvVar describes one supported environment variable.
type EnvVar struct {
	Name        string
	Description string
}

// envBinding parses one variable onto the configuration.
type envBinding struct {
	suffix string
	help   string
	apply  func(cfg *config.Config, value string) error
}

// Kept in the order they are listed to users.
//
//nolint:gochecknoglobals // lookup table
var envBindings = []envBinding{
	{"EXTENSIONS", "Comma-separated parser extensions (gfm, emoji, ...)",
		bindList(func(c *config.Config) *[]string { return &c.Extensions })},
	{"STOP_AT", "Stop parsing at this byte offset (0 = whole document)",
		bindParsed(strconv.Atoi, "an integer", func(c *config.Config) *int { return &c.StopAt })},
	{"CACHE_ENABLED", "Enable the persistent parse cache: true or false",
		bindParsed(strconv.ParseBool, "true or false", func(c *config.Config) *bool { return &c.Cache.Enabled })},
	{"CACHE_PATH", "Path of the parse cache database",
		bindString(func(c *config.Config) *string { return &c.Cache.Path })},
	{"HIGHLIGHT_THEME", "Highlight theme: default or plain",
		bindString(func(c *config.Config) *string { return &c.Highlight.Theme })},
	{"JOBS", "Number of parallel workers (0 = one per CPU)",
		bindParsed(strconv.Atoi, "an integer", func(c *config.Config) *int { return &c.Runner.Jobs })},
	{"INCLUDE", "Comma-separated include globs",
		bindList(func(c *config.Config) *[]string { return &c.Runner.Include })},
	{"EXCLUDE", "Comma-separated exclude globs",
		bindList(func(c *config.Config) *[]string { return &c.Runner.Exclude })},
	{"FOLLOW_SYMLINKS", "Follow symlinked directories: true or false",
		bindParsed(strconv.ParseBool, "true or false", func(c *config.Config) *bool { return &c.Runner.FollowSymlinks })},
	{"LSP_DEBOUNCE", "Diagnostics debounce, e.g. 100ms",
		bindParsed(time.ParseDuration, "a duration", func(c *config.Config) *time.Duration { return &c.LSP.Debounce })},
	{"LOG_LEVEL", "Log level: debug, info, warn, or error",
		bindString(func(c *config.Config) *string { return &c.LogLevel })},
	{"FORMAT", "Parse output format: dump, tree, or json",
		bindParsed(func(s string) (config.OutputFormat, error) { return config.OutputFormat(s), nil }, "",
			func(c *config.Config) *config.OutputFormat { return &c.Format })},
	{"METRICS_ADDR", "Listen address for Prometheus metrics",
		bindString(func(c *config.Config) *string { return &c.MetricsAddr })},
}

func bindParsed[T any](parse func(string) (T, error), want string, field func(*config.Config) *T) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		v, err := parse(value)
		if err != nil {
			return &ValidationError{Value: value, Message: "expected " + want}
		}
		*field(cfg) = v
		return nil
	}
}

func bindString(field func(*config.Config) *string) func(*config.Config, string) error {
	return bindParsed(func(s string) (string, error) { return s, nil }, "", field)
}

// bindList splits on commas and drops empty elements.
func bindList(field func(*config.Config) *[]string) func(*config.Config, string) error {
	return bindParsed(func(s string) ([]string, error) {
		var out []string
		for part := range strings.SplitSeq(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out, nil
	}, "", field)
}

// LoadFromEnv applies MDTREE_* variables to cfg. Empty variables are
// ignored. A malformed value yields a ValidationError naming the variable.
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}
	for _, b := range envBindings {
		name := envVarPrefix + b.suffix
		value := os.Getenv(name)
		if value == "" {
			continue
		}
		if err := b.apply(cfg, value); err != nil {
			if verr, ok := err.(*ValidationError); ok {
				verr.Field = name
			}
			return err
		}
	}
	return nil
}

// ListEnvVars returns the supported environment variables.
func ListEnvVars() []EnvVar {
	vars := make([]EnvVar, len(envBindings))
	for i, b := range envBindings {
		vars[i] = EnvVar{Name: envVarPrefix + b.suffix, Description: b.help}
	}
	return vars
}
