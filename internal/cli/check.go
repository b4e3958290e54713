package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdtree/internal/logging"
	"github.com/yaklabco/mdtree/pkg/analysis"
	"github.com/yaklabco/mdtree/pkg/crosscheck"
	"github.com/yaklabco/mdtree/pkg/metrics"
	"github.com/yaklabco/mdtree/pkg/reporter"
	"github.com/yaklabco/mdtree/pkg/runner"
)

type checkFlags struct {
	config       configFlags
	format       string
	flavor       string
	summaryOrder string
	sortBy       string
	compact      bool
	noSummary    bool
}

func newCheckCommand() *cobra.Command {
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Cross-check Markdown files against a reference parser",
		Long:  checkLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, flags)
		},
	}

	cmd.Flags().AddFlagSet(flags.config.parserFlagSet())
	cmd.Flags().AddFlagSet(flags.config.stopFlagSet())
	cmd.Flags().AddFlagSet(flags.config.runnerFlagSet())
	cmd.Flags().StringVarP(&flags.format, "format", "f", "text", "output format: text, table, json, summary")
	cmd.Flags().StringVar(&flags.flavor, "flavor", crosscheck.FlavorCommonMark, "reference flavor: commonmark, gfm")
	cmd.Flags().StringVar(&flags.summaryOrder, "summary-order", string(reporter.SummaryOrderNodes),
		"order of tables in summary output: nodes, files")
	cmd.Flags().StringVar(&flags.sortBy, "sort", string(analysis.SortByCount),
		"sort order of summary tables: count, alpha, size")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output format")
	cmd.Flags().BoolVar(&flags.noSummary, "no-summary", false, "omit the summary after results")

	return cmd
}

const checkLongDescription = `Parse Markdown files and compare their block structure with the
outline produced by a CommonMark reference parser.

By default, checks all .md and .markdown files in the current directory
and subdirectories. Specify paths to check specific files or directories.
The exit status is 1 when any file disagrees with the reference.

Examples:
  mdtree check                     # Check current directory
  mdtree check docs/               # Check docs directory
  mdtree check --flavor gfm        # Compare against GitHub Flavored Markdown
  mdtree check --format table      # One row per file
  mdtree check --format summary    # Node type and file statistics
  mdtree check --format json       # Machine-readable report for CI`

func runCheck(cmd *cobra.Command, args []string, flags *checkFlags) error {
	if flags.flavor != crosscheck.FlavorCommonMark && flags.flavor != crosscheck.FlavorGFM {
		return fmt.Errorf("%w: unknown flavor %q", errInvalidUsage, flags.flavor)
	}
	format, err := reporter.ParseFormat(flags.format)
	if err != nil {
		return fmt.Errorf("%w: %w", errInvalidFormat, err)
	}
	summaryOrder, err := reporter.ParseSummaryOrder(flags.summaryOrder)
	if err != nil {
		return fmt.Errorf("%w: %w", errInvalidUsage, err)
	}
	sortBy, err := analysis.ParseSortField(flags.sortBy)
	if err != nil {
		return fmt.Errorf("%w: %w", errInvalidUsage, err)
	}

	ctx, cfg, err := loadConfig(cmd, &flags.config)
	if err != nil {
		return err
	}
	logger := logging.FromContext(ctx)

	if flags.flavor == crosscheck.FlavorGFM && len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{"gfm"}
	}

	p, closeCache, err := buildParser(ctx, cfg, metrics.NoopRecorder{})
	if err != nil {
		return err
	}
	defer func() {
		if err := closeCache(); err != nil {
			logger.Warn("close tree cache", logging.FieldError, err)
		}
	}()

	checker, err := crosscheck.New(flags.flavor, p)
	if err != nil {
		return fmt.Errorf("create checker: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	pipeline := &runner.Pipeline{
		Parser:  p,
		Checker: checker,
		StopAt:  cfg.StopAt,
		Logger:  logger,
	}
	runOpts := runner.OptionsFromConfig(cfg, args)
	runOpts.WorkingDir = workDir

	logger.Debug("starting check run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := runner.New(pipeline).Run(ctx, runOpts)
	if err != nil {
		return errors.Join(errors.New("check run failed"), err)
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	rep, err := reporter.New(reporter.Options{
		Writer:       cmd.OutOrStdout(),
		Format:       format,
		Color:        colorMode,
		ShowSummary:  !flags.noSummary,
		GroupByFile:  true,
		Compact:      flags.compact,
		SummaryOrder: summaryOrder,
		SortBy:       sortBy,
		WorkingDir:   workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	logger.Debug("check finished",
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesFailed, result.Stats.FilesErrored,
		logging.FieldMismatches, result.Stats.Mismatches,
	)

	switch ExitCodeFromResult(result) {
	case ExitMismatches:
		return ErrMismatchesFound
	case ExitIOError:
		return ErrFilesFailed
	default:
		return nil
	}
}
