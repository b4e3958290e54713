package cli

import (
	"errors"
	"io/fs"

	"github.com/yaklabco/mdtree/internal/configloader"
	"github.com/yaklabco/mdtree/pkg/fsutil"
	"github.com/yaklabco/mdtree/pkg/runner"
)

// Exit codes for mdtree.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitMismatches indicates check completed but found mismatches.
	ExitMismatches = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitDataError indicates invalid configuration or input data.
	ExitDataError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// Output format names shared by several commands.
const (
	formatText = "text"
	formatJSON = "json"
)

var (
	// ErrMismatchesFound is returned when check finds mismatches.
	ErrMismatchesFound = errors.New("mismatches found")

	// ErrFilesFailed is returned when some files could not be processed.
	ErrFilesFailed = errors.New("some files could not be processed")

	errInvalidFormat = errors.New("invalid format")
	errInvalidRange  = errors.New("invalid range")
	errInvalidUsage  = errors.New("invalid usage")
)

// ExitCodeFromResult determines the exit code of a check run.
func ExitCodeFromResult(result *runner.Result) int {
	if result == nil {
		return ExitSuccess
	}
	if result.HasMismatches() {
		return ExitMismatches
	}
	if result.HasFailures() {
		return ExitIOError
	}
	return ExitSuccess
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	var validation *configloader.ValidationError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrMismatchesFound):
		return ExitMismatches
	case errors.Is(err, errInvalidFormat), errors.Is(err, errInvalidRange), errors.Is(err, errInvalidUsage):
		return ExitInvalidUsage
	case errors.As(err, &validation), errors.Is(err, configloader.ErrConfigExists):
		return ExitDataError
	case errors.Is(err, ErrFilesFailed), errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission),
		errors.Is(err, fsutil.ErrIsDirectory), errors.Is(err, fsutil.ErrModified):
		return ExitIOError
	default:
		return ExitInternalError
	}
}
