package runner_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/yaklabco/mdtree/pkg/config"
	"github.com/yaklabco/mdtree/pkg/crosscheck"
	"github.com/yaklabco/mdtree/pkg/markdown"
	"github.com/yaklabco/mdtree/pkg/runner"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("setup mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("setup write: %v", err)
		}
	}
}

// countingProcessor counts calls and fails for paths containing "bad".
type countingProcessor struct {
	count atomic.Int32
}

var errBad = errors.New("bad file")

func (p *countingProcessor) ProcessFile(_ context.Context, path string) (*runner.FileResult, error) {
	p.count.Add(1)
	if strings.Contains(filepath.Base(path), "bad") {
		return nil, errBad
	}
	return &runner.FileResult{Bytes: 1, Nodes: 1}, nil
}

func TestNew(t *testing.T) {
	t.Parallel()

	proc := &countingProcessor{}
	r := runner.New(proc)
	if r.Processor != proc {
		t.Error("Processor not set correctly")
	}
}

func TestRunner_Run_NoFiles(t *testing.T) {
	t.Parallel()

	result, err := runner.New(&countingProcessor{}).Run(context.Background(), runner.Options{
		Paths:      []string{"."},
		WorkingDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Stats.FilesDiscovered != 0 {
		t.Errorf("FilesDiscovered = %d, want 0", result.Stats.FilesDiscovered)
	}
	if len(result.Files) != 0 {
		t.Errorf("len(Files) = %d, want 0", len(result.Files))
	}
}

func TestRunner_Run_Pipeline(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.md":      "# Title\n\nSome *text*.\n",
		"docs/b.md": "- one\n- two\n",
	})

	pipeline := &runner.Pipeline{Parser: markdown.Default()}
	result, err := runner.New(pipeline).Run(context.Background(), runner.Options{WorkingDir: dir})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Stats.FilesProcessed != 2 {
		t.Fatalf("FilesProcessed = %d, want 2", result.Stats.FilesProcessed)
	}
	first := result.Files[0]
	if filepath.Base(first.Path) != "a.md" {
		t.Errorf("files not in path order: %s first", first.Path)
	}
	if got := first.Result.Tree.String(); got != "Document(ATXHeading1(HeaderMark),Paragraph(Emphasis(EmphasisMark,EmphasisMark)))" {
		t.Errorf("unexpected tree %s", got)
	}
	if result.Stats.Bytes != len("# Title\n\nSome *text*.\n")+len("- one\n- two\n") {
		t.Errorf("Bytes = %d", result.Stats.Bytes)
	}
	if first.Result.Nodes != 7 {
		t.Errorf("Nodes = %d, want 7", first.Result.Nodes)
	}
	if result.HasFailures() || result.HasMismatches() {
		t.Error("expected a clean run")
	}
}

func TestRunner_Run_StopAt(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.md": "one\n\ntwo\n\nthree\n"})

	pipeline := &runner.Pipeline{Parser: markdown.Default(), StopAt: 3}
	result, err := runner.New(pipeline).Run(context.Background(), runner.Options{WorkingDir: dir})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	tr := result.Files[0].Result.Tree
	if tr.String() != "Document(Paragraph)" {
		t.Errorf("StopAt should end the parse after the first block, got %s", tr.String())
	}
}

func TestRunner_Run_Check(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"agree.md":    "# A\n\n> quote\n",
		"disagree.md": "| a |\n| - |\n",
	})

	checker, err := crosscheck.New(crosscheck.FlavorGFM, markdown.Default())
	if err != nil {
		t.Fatal(err)
	}
	pipeline := &runner.Pipeline{Parser: markdown.Default(), Checker: checker}
	result, err := runner.New(pipeline).Run(context.Background(), runner.Options{WorkingDir: dir, Jobs: 2})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Stats.FilesMismatched != 1 {
		t.Errorf("FilesMismatched = %d, want 1", result.Stats.FilesMismatched)
	}
	if !result.HasMismatches() {
		t.Error("expected HasMismatches")
	}
	for _, f := range result.Files {
		if f.Result.Report == nil {
			t.Fatalf("%s: missing report", f.Path)
		}
		if want := filepath.Base(f.Path) == "agree.md"; f.Result.Report.OK() != want {
			t.Errorf("%s: OK() = %v", f.Path, f.Result.Report.OK())
		}
	}
}

func TestRunner_Run_FileErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"good.md": "x", "bad.md": "y"})

	result, err := runner.New(&countingProcessor{}).Run(context.Background(), runner.Options{WorkingDir: dir})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Stats.FilesErrored != 1 || result.Stats.FilesProcessed != 1 {
		t.Errorf("stats = %+v", result.Stats)
	}
	if !result.HasFailures() {
		t.Error("expected HasFailures")
	}
	if !errors.Is(result.Files[0].Error, errBad) {
		t.Errorf("bad.md sorts first and should carry its error, got %v", result.Files[0].Error)
	}
}

func TestRunner_Run_SerialVsParallelConsistency(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files := make(map[string]string)
	for i := range 20 {
		files[fmt.Sprintf("f%02d.md", i)] = strings.Repeat("- item\n", i+1)
	}
	writeFiles(t, dir, files)

	pipeline := &runner.Pipeline{Parser: markdown.Default()}
	serial, err := runner.New(pipeline).Run(context.Background(), runner.Options{WorkingDir: dir, Jobs: 1})
	if err != nil {
		t.Fatal(err)
	}
	parallel, err := runner.New(pipeline).Run(context.Background(), runner.Options{WorkingDir: dir, Jobs: 8})
	if err != nil {
		t.Fatal(err)
	}

	if serial.Stats.Nodes != parallel.Stats.Nodes || serial.Stats.Bytes != parallel.Stats.Bytes {
		t.Errorf("stats differ: serial %+v parallel %+v", serial.Stats, parallel.Stats)
	}
	for i := range serial.Files {
		if serial.Files[i].Path != parallel.Files[i].Path {
			t.Errorf("order differs at %d", i)
		}
		if serial.Files[i].Result.Tree.Dump() != parallel.Files[i].Result.Tree.Dump() {
			t.Errorf("tree differs for %s", serial.Files[i].Path)
		}
	}
}

func TestRunner_Run_ContextCancellation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.md": "x", "b.md": "y"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.New(&countingProcessor{}).Run(ctx, runner.Options{WorkingDir: dir})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunner_Run_ConcurrentProcessing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fileCount := 50
	files := make(map[string]string, fileCount)
	for i := range fileCount {
		files[fmt.Sprintf("file%02d.md", i)] = "# Test\n"
	}
	writeFiles(t, dir, files)

	proc := &countingProcessor{}
	result, err := runner.New(proc).Run(context.Background(), runner.Options{WorkingDir: dir, Jobs: 8})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Stats.FilesProcessed != fileCount {
		t.Errorf("FilesProcessed = %d, want %d", result.Stats.FilesProcessed, fileCount)
	}
	if int(proc.count.Load()) != fileCount {
		t.Errorf("processor called %d times, want %d", proc.count.Load(), fileCount)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Runner.Jobs = 3
	cfg.Runner.Exclude = []string{"vendor/**"}

	opts := runner.OptionsFromConfig(cfg, []string{"docs"})
	if opts.Jobs != 3 || len(opts.ExcludeGlobs) != 1 || opts.Paths[0] != "docs" {
		t.Errorf("unexpected options %+v", opts)
	}
	if len(opts.IncludeGlobs) != 2 {
		t.Errorf("expected default include globs, got %v", opts.IncludeGlobs)
	}
}
