package runner

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdtree/internal/logging"
	"github.com/yaklabco/mdtree/pkg/crosscheck"
	"github.com/yaklabco/mdtree/pkg/markdown"
	"github.com/yaklabco/mdtree/pkg/metrics"
	"github.com/yaklabco/mdtree/pkg/tree"
)

// Pipeline reads, parses, and optionally cross-checks a single file.
type Pipeline struct {
	// Parser parses every file. It may carry a cache wrapper.
	Parser *markdown.Parser

	// Checker, when set, compares each file against the reference parser.
	Checker *crosscheck.Checker

	// StopAt caps each parse at a byte offset; 0 parses whole files.
	StopAt int

	Recorder metrics.Recorder
	Logger   *log.Logger
}

// FileResult is the outcome of processing one file.
type FileResult struct {
	Tree     *tree.Tree
	Bytes    int
	Nodes    int
	Duration time.Duration

	// Report is nil unless the pipeline has a Checker.
	Report *crosscheck.Report
}

// ProcessFile reads path and runs it through the pipeline.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) (*FileResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return p.Process(ctx, path, content)
}

// Process runs content through the pipeline. path is used for reporting only.
func (p *Pipeline) Process(ctx context.Context, path string, content []byte) (*FileResult, error) {
	logger := p.logger()

	start := time.Now()
	t, err := p.parse(ctx, string(content))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	elapsed := time.Since(start)
	p.recorder().ObserveParse(metrics.ParseFull, elapsed)

	result := &FileResult{
		Tree:     t,
		Bytes:    len(content),
		Nodes:    countNodes(t),
		Duration: elapsed,
	}

	if p.Checker != nil {
		report, err := p.Checker.Check(ctx, path, content)
		if err != nil {
			return nil, fmt.Errorf("check %s: %w", path, err)
		}
		result.Report = report
	}

	logger.Debug("processed file",
		logging.FieldPath, path,
		logging.FieldBytes, result.Bytes,
		logging.FieldDuration, elapsed,
	)
	return result, nil
}

func (p *Pipeline) parse(ctx context.Context, text string) (*tree.Tree, error) {
	input := tree.NewStringInput(text)
	if p.StopAt <= 0 {
		return p.Parser.Parse(ctx, input, nil, nil)
	}

	parse := p.Parser.StartParse(input, nil, nil)
	if err := parse.StopAt(p.StopAt); err != nil {
		return nil, fmt.Errorf("stop at %d: %w", p.StopAt, err)
	}
	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("parse cancelled: %w", err)
		}
		if done := parse.Advance(); done != nil {
			return done, nil
		}
	}
}

func (p *Pipeline) recorder() metrics.Recorder {
	if p.Recorder == nil {
		return metrics.NoopRecorder{}
	}
	return p.Recorder
}

func (p *Pipeline) logger() *log.Logger {
	if p.Logger == nil {
		return logging.Default()
	}
	return p.Logger
}

// countNodes counts the named nodes of t, the root included.
func countNodes(t *tree.Tree) int {
	n := 0
	_ = tree.Walk(t.TopNode(), func(*tree.Node) error {
		n++
		return nil
	})
	return n
}
