// Package lsp implements a Markdown language server on top of the
// incremental parser. It keeps one parsed document per open file and
// answers folding, outline, definition, hover, semantic token and markup
// continuation requests from the syntax tree.
package lsp

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sourcegraph/jsonrpc2"

	"github.com/yaklabco/mdtree/internal/logging"
	"github.com/yaklabco/mdtree/pkg/highlight"
	"github.com/yaklabco/mdtree/pkg/markdown"
	"github.com/yaklabco/mdtree/pkg/metrics"
)

// Options configures the server.
type Options struct {
	// Parser parses documents. Nil selects the CommonMark parser.
	Parser *markdown.Parser

	// Highlight maps nodes to semantic token types. Nil selects
	// highlight.Markdown.
	Highlight *highlight.Table

	// Version is reported in the initialize response.
	Version string

	// Debounce delays diagnostics after a change until edits pause for
	// this long. Zero publishes after every change.
	Debounce time.Duration

	Recorder metrics.Recorder
	Logger   *log.Logger
}

func (o Options) withDefaults() Options {
	if o.Parser == nil {
		o.Parser = markdown.Default()
	}
	if o.Highlight == nil {
		o.Highlight = highlight.Markdown
	}
	if o.Recorder == nil {
		o.Recorder = metrics.NoopRecorder{}
	}
	if o.Logger == nil {
		o.Logger = logging.Default()
	}
	return o
}

// Serve runs the server over the given streams until the client
// disconnects or ctx is cancelled.
func Serve(ctx context.Context, in io.Reader, out io.Writer, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s := newServer(opts)
	conn := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(transport{in, out}, jsonrpc2.VSCodeObjectCodec{}),
		handler(s))
	select {
	case <-conn.DisconnectNotify():
	case <-ctx.Done():
		_ = conn.Close()
	case <-s.exited:
		_ = conn.Close()
	}
	return nil
}

type transport struct {
	in  io.Reader
	out io.Writer
}

func (c transport) Read(p []byte) (int, error)  { return c.in.Read(p) }
func (c transport) Write(p []byte) (int, error) { return c.out.Write(p) }

func (c transport) Close() error {
	var err error
	if closer, ok := c.in.(io.Closer); ok {
		err = closer.Close()
	}
	if closer, ok := c.out.(io.Closer); ok {
		if cerr := closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
