package runner

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// FileProcessor processes one discovered file.
type FileProcessor interface {
	ProcessFile(ctx context.Context, path string) (*FileResult, error)
}

// Runner parses many files on a bounded worker pool.
type Runner struct {
	// Processor handles per-file work, usually a *Pipeline.
	Processor FileProcessor
}

// New creates a Runner for processor.
func New(processor FileProcessor) *Runner {
	return &Runner{Processor: processor}
}

// Run discovers files under opts.Paths and processes up to opts.Jobs of
// them at a time. Outcomes are reported in discovery order whatever order
// the workers finish in. Per-file failures are recorded in the result;
// the returned error is only set for discovery failures and cancellation.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)
	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	// Each worker owns one slot, so no locking is needed.
	outcomes := make([]*FileOutcome, len(files))

	var group errgroup.Group
	group.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		if ctx.Err() != nil {
			break
		}
		group.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			outcome := &FileOutcome{Path: path}
			if res, err := r.Processor.ProcessFile(ctx, path); err != nil {
				outcome.Error = err
			} else {
				outcome.Result = res
			}
			outcomes[i] = outcome
			return nil
		})
	}
	//nolint:errcheck // workers record errors in their outcome
	group.Wait()

	for _, outcome := range outcomes {
		if outcome != nil {
			result.add(*outcome)
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}
	return result, nil
}
