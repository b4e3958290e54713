package cli

import (
	"context"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/mdtree/internal/logging"
	"github.com/yaklabco/mdtree/pkg/lsp"
)

type lspFlags struct {
	config configFlags
}

func newLSPCommand(info BuildInfo) *cobra.Command {
	flags := &lspFlags{}

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Run the Markdown language server on stdin and stdout",
		Long: `Run a Language Server Protocol server over stdio.

The server keeps a syntax tree per open document and updates it
incrementally on every change. It provides folding ranges, document
symbols, reference definitions, hover, semantic tokens, and list and
blockquote continuation on Enter. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLSP(cmd, info, flags)
		},
	}

	cmd.Flags().AddFlagSet(flags.config.parserFlagSet())
	cmd.Flags().AddFlagSet(flags.config.metricsFlagSet())

	return cmd
}

func runLSP(cmd *cobra.Command, info BuildInfo, flags *lspFlags) error {
	ctx, cfg, err := loadConfig(cmd, &flags.config)
	if err != nil {
		return err
	}

	logger := logging.NewWithWriter(cmd.ErrOrStderr(), cfg.LogLevel)
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		logging.SetLevel("debug")
		logger = logging.NewWithWriter(cmd.ErrOrStderr(), "debug")
	}
	ctx = logging.WithLogger(ctx, logger)

	rec, reg := newRecorder(cfg.MetricsAddr)

	p, closeCache, err := buildParser(ctx, cfg, rec)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeCache(); err != nil {
			logger.Warn("close tree cache", logging.FieldError, err)
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		defer cancel()
		logger.Info("language server started", logging.FieldVersion, info.Version)
		return lsp.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), lsp.Options{
			Parser:   p,
			Version:  info.Version,
			Debounce: cfg.LSP.Debounce,
			Recorder: rec,
			Logger:   logger,
		})
	})
	if reg != nil {
		group.Go(func() error {
			return serveMetrics(ctx, cfg.MetricsAddr, reg, logger)
		})
	}
	return group.Wait()
}
