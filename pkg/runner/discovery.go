package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// Discover returns the sorted absolute paths of the Markdown files named by
// opts. Directories are walked recursively, skipping hidden entries and
// excluded directories. Explicit file paths are subject to the same
// extension and glob filters as walked ones.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	m, err := newMatchers(opts)
	if err != nil {
		return nil, err
	}

	d := &discoverer{
		workDir:        workDir,
		extensions:     opts.extensions(),
		match:          m,
		followSymlinks: opts.FollowSymlinks,
		seen:           make(map[string]bool),
		walked:         make(map[string]bool),
	}

	for _, input := range opts.paths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}
		abs := input
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(workDir, abs)
		}
		abs = filepath.Clean(abs)

		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}
		if info.IsDir() {
			if err := d.walk(ctx, abs); err != nil {
				return nil, err
			}
			continue
		}
		d.consider(abs)
	}

	slices.Sort(d.files)
	return d.files, nil
}

// discoverer accumulates the files of one Discover call.
type discoverer struct {
	workDir        string
	extensions     []string
	match          *matchers
	followSymlinks bool

	seen   map[string]bool
	walked map[string]bool
	files  []string
}

// consider adds path when it passes the filters and was not seen before.
func (d *discoverer) consider(path string) {
	if d.seen[path] || !d.accepts(path) {
		return
	}
	d.seen[path] = true
	d.files = append(d.files, path)
}

func (d *discoverer) accepts(path string) bool {
	if !hasExtension(path, d.extensions) {
		return false
	}
	rel := d.rel(path)
	if d.match.exclude.match(rel) {
		return false
	}
	return len(d.match.include) == 0 || d.match.include.match(rel)
}

func (d *discoverer) rel(path string) string {
	if rel, err := filepath.Rel(d.workDir, path); err == nil {
		return rel
	}
	return path
}

// walk visits root recursively. Unreadable entries and broken symlinks are
// skipped. Directory symlinks are walked through their target when
// followSymlinks is set, each real directory at most once.
func (d *discoverer) walk(ctx context.Context, root string) error {
	if real, err := filepath.EvalSymlinks(root); err == nil {
		if d.walked[real] {
			return nil
		}
		d.walked[real] = true
	}

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrPermission) {
				return nil
			}
			return walkErr
		}

		hidden := path != root && strings.HasPrefix(entry.Name(), ".")
		if entry.IsDir() {
			if hidden || d.match.exclude.match(d.rel(path)) {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			target, err := filepath.EvalSymlinks(path)
			if err != nil {
				return nil //nolint:nilerr // broken symlink
			}
			info, err := os.Stat(target)
			if err != nil {
				return nil //nolint:nilerr // unreadable target
			}
			if info.IsDir() {
				if !d.followSymlinks {
					return nil
				}
				// WalkDir does not follow the link itself, so the target
				// is walked as a new root.
				return d.walk(ctx, target)
			}
		}

		d.consider(path)
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

// resolveWorkDir makes workDir absolute, defaulting to the process
// working directory.
func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return abs, nil
}

func hasExtension(path string, extensions []string) bool {
	ext := filepath.Ext(path)
	return slices.ContainsFunc(extensions, func(e string) bool {
		return strings.EqualFold(e, ext)
	})
}

// matchers holds the compiled include and exclude patterns of a run.
type matchers struct {
	include globSet
	exclude globSet
}

func newMatchers(opts Options) (*matchers, error) {
	include, err := compileGlobs(opts.IncludeGlobs)
	if err != nil {
		return nil, fmt.Errorf("include patterns: %w", err)
	}
	exclude, err := compileGlobs(opts.ExcludeGlobs)
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}
	return &matchers{include: include, exclude: exclude}, nil
}

// pathGlob is one compiled pattern. A pattern without a slash also
// matches against the base name, so "*.md" finds files at any depth.
type pathGlob struct {
	glob glob.Glob
	base bool
}

type globSet []pathGlob

// compileGlobs compiles slash-separated patterns. A leading "**/" also
// matches at the top level, so "**/*.md" includes "readme.md".
func compileGlobs(patterns []string) (globSet, error) {
	set := make(globSet, 0, len(patterns))
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("compile %q: %w", pattern, err)
		}
		set = append(set, pathGlob{glob: g, base: !strings.Contains(pattern, "/")})
		if rest, ok := strings.CutPrefix(pattern, "**/"); ok && rest != "" {
			g, err := glob.Compile(rest, '/')
			if err != nil {
				return nil, fmt.Errorf("compile %q: %w", pattern, err)
			}
			set = append(set, pathGlob{glob: g})
		}
	}
	return set, nil
}

// match reports whether relPath, or relPath as a directory prefix,
// matches any pattern.
func (s globSet) match(relPath string) bool {
	relPath = filepath.ToSlash(relPath)
	for _, pg := range s {
		if pg.glob.Match(relPath) || pg.glob.Match(relPath+"/") {
			return true
		}
		if pg.base && pg.glob.Match(path.Base(relPath)) {
			return true
		}
	}
	return false
}
