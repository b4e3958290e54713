package lsp

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"

	"github.com/yaklabco/mdtree/internal/logging"
	"github.com/yaklabco/mdtree/pkg/document"
	"github.com/yaklabco/mdtree/pkg/edit"
)

var (
	errMethodNotFound = &jsonrpc2.Error{
		Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
	errInvalidParams = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "invalid params"}
	errUnknownDocument = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "document is not open"}
	errInvalidRange = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "range ends before it starts"}
)

// Commands accepted by workspace/executeCommand. Both take a document URI
// and a position.
const (
	CommandContinueMarkup = "mdtree.continueMarkup"
	CommandDeleteMarkup   = "mdtree.deleteMarkupBackward"
)

type server struct {
	opts Options

	mu     sync.Mutex
	docs   map[lsp.DocumentURI]*document.Document
	timers map[lsp.DocumentURI]*time.Timer

	exitOnce sync.Once
	exited   chan struct{}
}

func newServer(opts Options) *server {
	return &server{
		opts:   opts.withDefaults(),
		docs:   make(map[lsp.DocumentURI]*document.Document),
		timers: make(map[lsp.DocumentURI]*time.Timer),
		exited: make(chan struct{}),
	}
}

func handler(s *server) jsonrpc2.Handler {
	return s.routingHandler(map[string]method{
		"initialize":                       s.initialize,
		"shutdown":                         noop,
		"exit":                             s.exit,
		"textDocument/didOpen":             s.didOpen,
		"textDocument/didChange":           s.didChange,
		"textDocument/didClose":            s.didClose,
		"textDocument/foldingRange":        s.foldingRange,
		"textDocument/documentSymbol":      s.documentSymbol,
		"textDocument/definition":          s.definition,
		"textDocument/hover":               s.hover,
		"textDocument/onTypeFormatting":    s.onTypeFormatting,
		"textDocument/semanticTokens/full": s.semanticTokensFull,
		"workspace/executeCommand":         s.executeCommand,

		// Required by the protocol.
		"initialized": noop,
		// Sent by clients even when the server does not ask for them.
		"workspace/didChangeWatchedFiles":  noop,
		"workspace/didChangeConfiguration": noop,
		"$/setTrace":                       noop,
	})
}

type method func(context.Context, jsonrpc2.JSONRPC2, json.RawMessage) (any, error)

func noop(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return nil, nil
}

func (s *server) routingHandler(methods map[string]method) jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		fn, ok := methods[req.Method]
		if !ok {
			s.opts.Recorder.IncRequest("unknown", true)
			return nil, errMethodNotFound
		}
		var params json.RawMessage
		if req.Params != nil {
			params = *req.Params
		}
		ctx = logging.WithFields(logging.WithLogger(ctx, s.opts.Logger), logging.FieldMethod, req.Method)
		result, err := fn(ctx, conn, params)
		s.opts.Recorder.IncRequest(req.Method, err != nil)
		if err != nil {
			logging.FromContext(ctx).Debug("request failed", logging.FieldError, err)
		}
		return result, err
	})
}

// Handler implementations. These are all called synchronously.

func (s *server) initialize(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return &initializeResult{
		Capabilities: capabilities{
			ServerCapabilities: lsp.ServerCapabilities{
				TextDocumentSync: &lsp.TextDocumentSyncOptionsOrKind{
					Options: &lsp.TextDocumentSyncOptions{
						OpenClose: true,
						Change:    lsp.TDSKIncremental,
					},
				},
				HoverProvider:          true,
				DefinitionProvider:     true,
				DocumentSymbolProvider: true,
				ExecuteCommandProvider: &lsp.ExecuteCommandOptions{
					Commands: []string{CommandContinueMarkup, CommandDeleteMarkup},
				},
			},
			DocumentOnTypeFormattingProvider: &onTypeOptions{
				FirstTriggerCharacter: "\n",
			},
			SemanticTokensProvider: &semanticTokensOptions{
				Legend: semanticTokensLegend{TokenTypes: tokenTypes(), TokenModifiers: []string{}},
				Full:   true,
			},
			FoldingRangeProvider: true,
		},
		ServerInfo: &serverInfo{Name: "mdtree", Version: s.opts.Version},
	}, nil
}

func (s *server) exit(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	s.exitOnce.Do(func() { close(s.exited) })
	return nil, nil
}

func (s *server) didOpen(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidOpenTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	uri := params.TextDocument.URI
	doc, err := document.New(ctx, s.opts.Parser, params.TextDocument.Text,
		document.WithRecorder(s.opts.Recorder), document.WithLogger(s.opts.Logger))
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.docs[uri] = doc
	diags := diagnostics(doc)
	s.mu.Unlock()

	go publishDiagnostics(ctx, conn, uri, diags)
	return nil, nil
}

func (s *server) didChange(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidChangeTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	uri := params.TextDocument.URI
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[uri]
	if !ok {
		return nil, errUnknownDocument
	}
	for _, change := range params.ContentChanges {
		if err := applyChange(ctx, doc, change); err != nil {
			return nil, err
		}
	}
	s.opts.Logger.Debug("document changed",
		logging.FieldURI, uri,
		logging.FieldVersion, params.TextDocument.Version,
		logging.FieldReused, doc.Stats().Reused)

	s.scheduleDiagnostics(ctx, conn, uri, doc)
	return nil, nil
}

// scheduleDiagnostics publishes diagnostics for uri once edits pause for
// the debounce interval. Callers hold s.mu.
func (s *server) scheduleDiagnostics(ctx context.Context, conn jsonrpc2.JSONRPC2, uri lsp.DocumentURI, doc *document.Document) {
	if s.opts.Debounce <= 0 {
		go publishDiagnostics(ctx, conn, uri, diagnostics(doc))
		return
	}
	if pending, ok := s.timers[uri]; ok {
		pending.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(s.opts.Debounce, func() {
		s.mu.Lock()
		if s.timers[uri] != timer {
			s.mu.Unlock()
			return
		}
		delete(s.timers, uri)
		current, ok := s.docs[uri]
		var diags []lsp.Diagnostic
		if ok {
			diags = diagnostics(current)
		}
		s.mu.Unlock()
		if ok {
			publishDiagnostics(ctx, conn, uri, diags)
		}
	})
	s.timers[uri] = timer
}

// applyChange applies one content change. Changes without a range
// replace the whole text.
func applyChange(ctx context.Context, doc *document.Document, change lsp.TextDocumentContentChangeEvent) error {
	if change.Range == nil {
		return doc.Set(ctx, change.Text)
	}
	pos := newPositions(doc.Text())
	from, to := pos.offset(change.Range.Start), pos.offset(change.Range.End)
	if to < from {
		return errInvalidRange
	}
	return doc.Apply(ctx, []edit.TextEdit{{From: from, To: to, Insert: change.Text}})
}

func (s *server) didClose(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidCloseTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	s.mu.Lock()
	delete(s.docs, params.TextDocument.URI)
	if pending, ok := s.timers[params.TextDocument.URI]; ok {
		pending.Stop()
		delete(s.timers, params.TextDocument.URI)
	}
	s.mu.Unlock()
	return nil, nil
}

// withDocument runs fn on an open document while holding the lock.
func (s *server) withDocument(uri lsp.DocumentURI, fn func(*document.Document) (any, error)) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[uri]
	if !ok {
		return nil, errUnknownDocument
	}
	return fn(doc)
}

func publishDiagnostics(ctx context.Context, conn jsonrpc2.JSONRPC2, uri lsp.DocumentURI, diags []lsp.Diagnostic) {
	_ = conn.Notify(ctx, "textDocument/publishDiagnostics",
		lsp.PublishDiagnosticsParams{URI: uri, Diagnostics: diags})
}
