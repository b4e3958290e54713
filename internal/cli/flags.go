package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/mdtree/internal/configloader"
	"github.com/yaklabco/mdtree/internal/logging"
	"github.com/yaklabco/mdtree/pkg/config"
	"github.com/yaklabco/mdtree/pkg/markdown"
	"github.com/yaklabco/mdtree/pkg/metrics"
	"github.com/yaklabco/mdtree/pkg/mixed"
	"github.com/yaklabco/mdtree/pkg/treecache"
)

// configFlags collects the flags that override configuration settings.
// Only flags the user actually set reach the loaded configuration.
type configFlags struct {
	extensions     []string
	stopAt         int
	cache          bool
	cachePath      string
	theme          string
	jobs           int
	include        []string
	exclude        []string
	followSymlinks bool
	metricsAddr    string
}

func (f *configFlags) parserFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("parser", pflag.ContinueOnError)
	fs.StringSliceVarP(&f.extensions, "extensions", "e", nil,
		"parser extensions to enable (see 'mdtree extensions')")
	fs.BoolVar(&f.cache, "cache", false, "answer repeat parses from the persistent tree cache")
	fs.StringVar(&f.cachePath, "cache-path", "", "tree cache database path")
	return fs
}

func (f *configFlags) stopFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("stop", pflag.ContinueOnError)
	fs.IntVar(&f.stopAt, "stop-at", 0, "stop parsing at this byte offset (0 = whole file)")
	return fs
}

func (f *configFlags) themeFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("theme", pflag.ContinueOnError)
	fs.StringVar(&f.theme, "theme", "", "highlight theme: default, plain")
	return fs
}

func (f *configFlags) runnerFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("runner", pflag.ContinueOnError)
	fs.IntVarP(&f.jobs, "jobs", "j", 0, "number of parallel workers (0 = auto)")
	fs.StringSliceVar(&f.include, "include", nil, "glob patterns of files to include")
	fs.StringSliceVar(&f.exclude, "exclude", nil, "glob patterns of files or directories to skip")
	fs.BoolVar(&f.followSymlinks, "follow-symlinks", false, "follow directory symlinks")
	return fs
}

func (f *configFlags) metricsFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("metrics", pflag.ContinueOnError)
	fs.StringVar(&f.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	return fs
}

// cliConfig builds the CLI configuration layer from the flags that were set.
func (f *configFlags) cliConfig(flags *pflag.FlagSet) *config.Config {
	cfg := &config.Config{}
	if flags.Changed("extensions") {
		cfg.Extensions = f.extensions
	}
	if flags.Changed("stop-at") {
		cfg.StopAt = f.stopAt
	}
	if flags.Changed("cache") {
		cfg.Cache.Enabled = f.cache
	}
	if flags.Changed("cache-path") {
		cfg.Cache.Path = f.cachePath
	}
	if flags.Changed("theme") {
		cfg.Highlight.Theme = f.theme
	}
	if flags.Changed("jobs") {
		cfg.Runner.Jobs = f.jobs
	}
	if flags.Changed("include") {
		cfg.Runner.Include = f.include
	}
	if flags.Changed("exclude") {
		cfg.Runner.Exclude = f.exclude
	}
	if flags.Changed("follow-symlinks") {
		cfg.Runner.FollowSymlinks = f.followSymlinks
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr = f.metricsAddr
	}
	return cfg
}

// loadConfig resolves the configuration for cmd and applies its log level.
// The returned context carries the logger.
func loadConfig(cmd *cobra.Command, flags *configFlags) (context.Context, *config.Config, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.Default()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, nil, fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(logging.WithLogger(ctx, logger), configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    flags.cliConfig(cmd.Flags()),
	})
	if err != nil {
		return nil, nil, errors.Join(errors.New("failed to load configuration"), err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}

	cfg := loadResult.Config
	if debug, _ := cmd.Flags().GetBool("debug"); !debug {
		logging.SetLevel(cfg.LogLevel)
	}

	logger.Debug("configuration loaded",
		logging.FieldExtensions, cfg.Extensions,
		logging.FieldStopAt, cfg.StopAt,
		logging.FieldJobs, cfg.Runner.Jobs,
	)

	return logging.WithLogger(ctx, logger), cfg, nil
}

// buildParser creates the configured parser. The cache, when enabled, is
// configured before sub-language mounting. The returned close function
// releases the cache and is never nil.
func buildParser(ctx context.Context, cfg *config.Config, rec metrics.Recorder) (*markdown.Parser, func() error, error) {
	noop := func() error { return nil }
	logger := logging.FromContext(ctx)

	p, err := cfg.Parser()
	if err != nil {
		return nil, noop, err
	}

	closeCache := noop
	if cfg.Cache.Enabled {
		path, err := cachePath(cfg)
		if err != nil {
			return nil, noop, err
		}
		cache, err := treecache.Open(path, treecache.WithRecorder(rec), treecache.WithLogger(logger))
		if err != nil {
			return nil, noop, err
		}
		closeCache = cache.Close
		if p, err = cache.Configure(p); err != nil {
			_ = cache.Close()
			return nil, noop, fmt.Errorf("configure cache: %w", err)
		}
		logger.Debug("tree cache enabled", logging.FieldPath, path)
	}

	p, err = p.Configure(mixed.Extension(mixed.DefaultRegistry()))
	if err != nil {
		_ = closeCache()
		return nil, noop, fmt.Errorf("configure embedded languages: %w", err)
	}
	return p, closeCache, nil
}

// cachePath returns the configured cache path, defaulting to a file in
// the user cache directory.
func cachePath(cfg *config.Config) (string, error) {
	if cfg.Cache.Path != "" {
		return cfg.Cache.Path, nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locate cache directory: %w", err)
	}
	dir = filepath.Join(dir, "mdtree")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create cache directory: %w", err)
	}
	return filepath.Join(dir, "trees.db"), nil
}

// readInput reads the named file, or stdin when path is empty or "-".
func readInput(cmd *cobra.Command, args []string) (string, string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return "<stdin>", string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return args[0], string(data), nil
}
