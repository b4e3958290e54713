//go:build stave

package main

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b":   Build,
	"t":   Test.Default,
	"l":   Lint.Default,
	"c":   Check,
	"i":   Install,
	"fmt": Lint.Fmt,
	"bp":  Bench.Parse,
}

// Namespace types group related targets.
type (
	Test  st.Namespace
	Lint  st.Namespace
	CI    st.Namespace
	Bench st.Namespace
)

// Build compiles bin/mdtree when any source changed.
func Build() error {
	rebuild, err := target.Dir("bin/mdtree", "cmd/", "pkg/", "internal/", "go.mod", "go.sum")
	if err != nil {
		return err
	}
	if !rebuild {
		fmt.Println("bin/mdtree is up to date")
		return nil
	}
	fmt.Println("Building mdtree...")
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", "bin/mdtree", "./cmd/mdtree")
}

// Check formats, lints and tests.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Default, Test.Default)
}

// Clean removes build and coverage output.
func Clean() error {
	for _, path := range []string{"bin", "coverage.out"} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return nil
}

// Install installs mdtree into $GOBIN.
func Install() error {
	return sh.RunV("go", "install", "-ldflags", ldflags(), "./cmd/mdtree")
}

// Default runs the race-enabled test suite with coverage.
func (Test) Default() error {
	return gotestsum("pkgname-and-test-fails", "-race", "-coverprofile=coverage.out", "-covermode=atomic", "./...")
}

// Parser runs the markdown and tree tests with full output.
func (Test) Parser() error {
	return gotestsum("standard-verbose", "-race", "./pkg/markdown/...", "./pkg/tree/...", "./pkg/document/...")
}

// Default runs golangci-lint with auto-fix.
func (Lint) Default() error {
	return sh.RunV("golangci-lint", "run", "--fix", "./...")
}

// Fmt formats all Go code.
func (Lint) Fmt() error {
	return sh.RunV("gofmt", "-w", ".")
}

// FmtCheck fails when a file needs formatting.
func (Lint) FmtCheck() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return fmt.Errorf("gofmt: %w", err)
	}
	if out != "" {
		return fmt.Errorf("unformatted files:\n%s", out)
	}
	return nil
}

// Gate runs everything CI runs, cheapest first.
func (CI) Gate() {
	st.SerialDeps(Lint.FmtCheck, CI.Vet, Build, Test.Default, CI.ModTidy)
}

// Vet runs go vet with the stave build tag so this file is checked too.
func (CI) Vet() error {
	return sh.RunV("go", "vet", "-tags", "stave", "./...")
}

// ModTidy fails when go mod tidy would change go.mod or go.sum.
func (CI) ModTidy() error {
	files := []string{"go.mod", "go.sum"}
	before := make([][]byte, len(files))
	for i, name := range files {
		data, err := os.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		before[i] = data
	}
	if err := sh.RunV("go", "mod", "tidy"); err != nil {
		return err
	}
	for i, name := range files {
		data, err := os.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if !bytes.Equal(before[i], data) {
			return errors.New(name + " changed after go mod tidy")
		}
	}
	return nil
}

// Parse runs the full and incremental parser benchmarks.
func (Bench) Parse() error {
	return sh.RunV("go", "test", "-run=^$", "-bench=Parse|Incremental", "-benchmem",
		"./pkg/markdown/...", "./pkg/document/...")
}

// Corpus times a check run over BENCH_DIR (default: current directory).
func (Bench) Corpus() error {
	st.Deps(Build)
	dir := cmp.Or(os.Getenv("BENCH_DIR"), ".")
	start := time.Now()
	if err := sh.RunV("bin/mdtree", "check", "--format", "summary", dir); err != nil {
		return fmt.Errorf("check corpus: %w", err)
	}
	fmt.Printf("checked %s in %s\n", dir, time.Since(start).Round(time.Millisecond))
	return nil
}

// gotestsum runs go test through gotestsum with the given output format.
func gotestsum(format string, args ...string) error {
	procs := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	cmdArgs := append([]string{"tool", "gotestsum", "-f", format, "--", "-p", procs, "-parallel", procs}, args...)
	return sh.RunV("go", cmdArgs...)
}

func ldflags() string {
	version := cmp.Or(gitOutput("describe", "--tags", "--always", "--dirty"), "dev")
	commit := cmp.Or(gitOutput("rev-parse", "--short", "HEAD"), "none")
	return fmt.Sprintf("-X main.version=%s -X main.commit=%s -X main.date=%s",
		version, commit, time.Now().UTC().Format(time.RFC3339))
}

func gitOutput(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}
