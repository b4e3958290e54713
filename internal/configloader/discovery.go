package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// appName names the XDG and system config directories.
const appName = "mdtree"

// ConfigPaths lists the configuration files that apply to a run, lowest
// precedence first. Empty fields mean no file was found.
type ConfigPaths struct {
	// System is /etc/mdtree/config.yml or its platform equivalent.
	System string

	// User is $XDG_CONFIG_HOME/mdtree/config.yml.
	User string

	// Project is the nearest .mdtree.yml at or above the working directory.
	Project string

	// Explicit comes from --config.
	Explicit string
}

// Both YAML and JSON are accepted; JSON parses as YAML.
//
//nolint:gochecknoglobals // lookup tables
var (
	projectConfigFiles = []string{".mdtree.yml", ".mdtree.yaml", ".mdtree.json", "mdtree.yml", "mdtree.yaml"}
	dirConfigFiles     = []string{"config.yml", "config.yaml", "config.json"}
	vcsRootMarkers     = []string{".git", ".hg", ".svn"}
)

// DiscoverPaths finds the system, user and project configuration files
// for workDir.
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	project, err := FindProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}
	return &ConfigPaths{
		System:  firstExisting(systemConfigDir(), dirConfigFiles),
		User:    firstExisting(UserConfigDir(), dirConfigFiles),
		Project: project,
	}, nil
}

func systemConfigDir() string {
	if runtime.GOOS != "windows" {
		return filepath.Join("/etc", appName)
	}
	programData := os.Getenv("ProgramData")
	if programData == "" {
		programData = `C:\ProgramData`
	}
	return filepath.Join(programData, appName)
}

// UserConfigDir returns $XDG_CONFIG_HOME/mdtree, falling back to
// ~/.config/mdtree, or "" without a home directory.
func UserConfigDir() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// firstExisting returns the first of names present as a file in dir.
func firstExisting(dir string, names []string) string {
	if dir == "" {
		return ""
	}
	for _, name := range names {
		if path := filepath.Join(dir, name); fileExists(path) {
			return path
		}
	}
	return ""
}

// FindProjectConfig walks up from startDir to the first directory holding
// a project config file. The search ends without a result at a VCS root,
// the home directory or the filesystem root.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	if startDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		startDir = wd
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	home, _ := os.UserHomeDir()

	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("context cancelled: %w", err)
		}
		if path := firstExisting(dir, projectConfigFiles); path != "" {
			return path, nil
		}

		parent := filepath.Dir(dir)
		if isVCSRoot(dir) || dir == home || parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func isVCSRoot(dir string) bool {
	for _, marker := range vcsRootMarkers {
		if info, err := os.Stat(filepath.Join(dir, marker)); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

// fileExists reports whether path exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
