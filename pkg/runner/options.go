// Package runner discovers Markdown files and parses them on a worker pool.
package runner

import "github.com/yaklabco/mdtree/pkg/config"

// Options selects the files of a run and how many are parsed at once.
type Options struct {
	// Paths are files or directories; none means the working directory.
	Paths []string

	// WorkingDir resolves relative paths and globs. Empty means the
	// process working directory.
	WorkingDir string

	// Extensions are the lowercase suffixes, dot included, treated as
	// Markdown. Empty means DefaultExtensions.
	Extensions []string

	// IncludeGlobs and ExcludeGlobs are gobwas patterns relative to
	// WorkingDir. With no includes every Markdown file is taken.
	IncludeGlobs []string
	ExcludeGlobs []string

	FollowSymlinks bool

	// Jobs caps concurrent parses. Zero or less means one per CPU.
	Jobs int
}

// OptionsFromConfig applies the runner section of cfg to paths.
func OptionsFromConfig(cfg *config.Config, paths []string) Options {
	opts := Options{Paths: paths}
	if cfg != nil {
		opts.IncludeGlobs = cfg.Runner.Include
		opts.ExcludeGlobs = cfg.Runner.Exclude
		opts.FollowSymlinks = cfg.Runner.FollowSymlinks
		opts.Jobs = cfg.Runner.Jobs
	}
	return opts
}

// DefaultExtensions returns the suffixes recognised as Markdown.
func DefaultExtensions() []string {
	return []string{".md", ".markdown"}
}

func (o Options) extensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) paths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
