package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/mdtree/internal/logging"
	"github.com/yaklabco/mdtree/pkg/document"
	"github.com/yaklabco/mdtree/pkg/markdown"
	"github.com/yaklabco/mdtree/pkg/metrics"
	"github.com/yaklabco/mdtree/pkg/runner"
)

type watchFlags struct {
	config configFlags
}

func newWatchCommand() *cobra.Command {
	flags := &watchFlags{}

	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Reparse Markdown files incrementally as they change",
		Long: `Parse Markdown files once, then watch them and reparse every changed
file incrementally, reporting how much of the previous tree was reused.

With --metrics-addr, parse durations and reuse counters are served for
Prometheus at /metrics.

Examples:
  mdtree watch docs/
  mdtree watch --metrics-addr :9464 .`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, flags)
		},
	}

	cmd.Flags().AddFlagSet(flags.config.parserFlagSet())
	cmd.Flags().AddFlagSet(flags.config.runnerFlagSet())
	cmd.Flags().AddFlagSet(flags.config.metricsFlagSet())

	return cmd
}

func runWatch(cmd *cobra.Command, args []string, flags *watchFlags) error {
	ctx, cfg, err := loadConfig(cmd, &flags.config)
	if err != nil {
		return err
	}

	logger := logging.NewInteractive()
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		logger.SetLevel(log.DebugLevel)
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

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}
	opts := runner.OptionsFromConfig(cfg, args)
	opts.WorkingDir = workDir

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := newFileWatcher(p, opts, rec, logger)
	if err != nil {
		return err
	}
	defer w.close()

	if err := w.start(ctx); err != nil {
		return err
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error { return w.run(ctx) })
	if reg != nil {
		group.Go(func() error { return serveMetrics(ctx, cfg.MetricsAddr, reg, logger) })
	}

	err = group.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// fileWatcher keeps a parsed document per watched file and reparses it
// when the file changes on disk.
type fileWatcher struct {
	parser   *markdown.Parser
	opts     runner.Options
	recorder metrics.Recorder
	logger   *log.Logger
	fsw      *fsnotify.Watcher
	docs     map[string]*document.Document
}

func newFileWatcher(p *markdown.Parser, opts runner.Options, rec metrics.Recorder, logger *log.Logger) (*fileWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	return &fileWatcher{
		parser:   p,
		opts:     opts,
		recorder: rec,
		logger:   logger,
		fsw:      fsw,
		docs:     make(map[string]*document.Document),
	}, nil
}

func (w *fileWatcher) close() {
	if err := w.fsw.Close(); err != nil {
		w.logger.Warn("close watcher", logging.FieldError, err)
	}
}

// start parses every discovered file and watches the directories they
// live in.
func (w *fileWatcher) start(ctx context.Context) error {
	files, err := runner.Discover(ctx, w.opts)
	if err != nil {
		return fmt.Errorf("discover files: %w", err)
	}

	var dirs []string
	for _, path := range files {
		if err := w.load(ctx, path); err != nil {
			w.logger.Warn("parse failed", logging.FieldPath, path, logging.FieldError, err)
		}
		if dir := filepath.Dir(path); !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}
	for _, path := range w.opts.Paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() && !slices.Contains(dirs, abs) {
			dirs = append(dirs, abs)
		}
	}
	if len(w.opts.Paths) == 0 && !slices.Contains(dirs, w.opts.WorkingDir) {
		dirs = append(dirs, w.opts.WorkingDir)
	}

	for _, dir := range dirs {
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	w.logger.Info("watching",
		logging.FieldFiles, len(w.docs),
		logging.FieldPaths, len(dirs),
	)
	return nil
}

// run handles file events until ctx is done.
func (w *fileWatcher) run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", logging.FieldError, err)
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, event)
		}
	}
}

func (w *fileWatcher) handle(ctx context.Context, event fsnotify.Event) {
	path := filepath.Clean(event.Name)

	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		if _, ok := w.docs[path]; ok {
			delete(w.docs, path)
			w.logger.Info("removed", logging.FieldPath, w.display(path))
		}
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	if !w.matches(ctx, path) {
		return
	}
	if err := w.load(ctx, path); err != nil {
		w.logger.Warn("reparse failed", logging.FieldPath, w.display(path), logging.FieldError, err)
	}
}

// matches applies the discovery filters to a single path.
func (w *fileWatcher) matches(ctx context.Context, path string) bool {
	opts := w.opts
	opts.Paths = []string{path}
	files, err := runner.Discover(ctx, opts)
	return err == nil && len(files) == 1
}

// load parses path, incrementally when the file is already known.
func (w *fileWatcher) load(ctx context.Context, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	text := string(content)

	doc, ok := w.docs[path]
	if !ok {
		doc, err = document.New(ctx, w.parser, text,
			document.WithRecorder(w.recorder), document.WithLogger(w.logger))
		if err != nil {
			return err
		}
		w.docs[path] = doc
		w.logger.Debug("parsed",
			logging.FieldPath, w.display(path),
			logging.FieldBytes, doc.Len(),
			logging.FieldDuration, doc.Stats().Duration,
		)
		return nil
	}

	if doc.Text() == text {
		return nil
	}
	if err := doc.Update(ctx, text); err != nil {
		return err
	}
	stats := doc.Stats()
	w.logger.Info("reparsed",
		logging.FieldPath, w.display(path),
		logging.FieldBytes, stats.Total,
		logging.FieldReused, fmt.Sprintf("%.0f%%", stats.Ratio()*100),
		logging.FieldDuration, stats.Duration.Round(time.Microsecond),
	)
	return nil
}

func (w *fileWatcher) display(path string) string {
	if rel, err := filepath.Rel(w.opts.WorkingDir, path); err == nil {
		return rel
	}
	return path
}
