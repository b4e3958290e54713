package lsp

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"

	"github.com/yaklabco/mdtree/pkg/commands"
	"github.com/yaklabco/mdtree/pkg/document"
	"github.com/yaklabco/mdtree/pkg/edit"
	"github.com/yaklabco/mdtree/pkg/fold"
	"github.com/yaklabco/mdtree/pkg/highlight"
	"github.com/yaklabco/mdtree/pkg/markdown"
	"github.com/yaklabco/mdtree/pkg/mixed"
	"github.com/yaklabco/mdtree/pkg/tree"
)

func (s *server) foldingRange(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params foldingRangeParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	return s.withDocument(params.TextDocument.URI, func(doc *document.Document) (any, error) {
		text := doc.Text()
		pos := newPositions(text)
		ranges := fold.Ranges(doc.Tree(), text)
		out := make([]foldingRange, 0, len(ranges))
		for _, r := range ranges {
			start, end := pos.position(r.From), pos.position(r.To)
			if end.Line <= start.Line {
				continue
			}
			fr := foldingRange{StartLine: start.Line, EndLine: end.Line}
			if r.Kind == fold.KindBlock && r.Node == "CommentBlock" {
				fr.Kind = "comment"
			}
			out = append(out, fr)
		}
		return out, nil
	})
}

func (s *server) documentSymbol(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DocumentSymbolParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	uri := params.TextDocument.URI
	return s.withDocument(uri, func(doc *document.Document) (any, error) {
		text := doc.Text()
		pos := newPositions(text)
		headings := markdown.Outline(doc.Tree(), text)

		symbols := make([]lsp.SymbolInformation, 0, len(headings))
		var parents []markdown.Heading
		for _, h := range headings {
			for len(parents) > 0 && parents[len(parents)-1].Level >= h.Level {
				parents = parents[:len(parents)-1]
			}
			container := ""
			if len(parents) > 0 {
				container = parents[len(parents)-1].Text
			}
			end := fold.SectionEnd(h.Node, h.Level)
			symbols = append(symbols, lsp.SymbolInformation{
				Name:          h.Text,
				Kind:          lsp.SKString,
				Location:      lsp.Location{URI: uri, Range: pos.rng(h.Node.From(), end)},
				ContainerName: container,
			})
			parents = append(parents, h)
		}
		return symbols, nil
	})
}

func (s *server) definition(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.TextDocumentPositionParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	uri := params.TextDocument.URI
	return s.withDocument(uri, func(doc *document.Document) (any, error) {
		text := doc.Text()
		pos := newPositions(text)
		link := enclosing(doc.Tree(), pos.offset(params.Position), "Link", "Image")
		if link == nil {
			return []lsp.Location{}, nil
		}
		def, ok := markdown.CollectReferences(doc.Tree(), text).Resolve(link, text)
		if !ok {
			return []lsp.Location{}, nil
		}
		return []lsp.Location{{URI: uri, Range: pos.rng(def.Node.From(), def.Node.To())}}, nil
	})
}

func (s *server) hover(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.TextDocumentPositionParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	return s.withDocument(params.TextDocument.URI, func(doc *document.Document) (any, error) {
		text := doc.Text()
		pos := newPositions(text)
		offset := pos.offset(params.Position)
		node := doc.Tree().ResolveInner(offset, 1)
		if node == nil || node.Parent() == nil {
			return lsp.Hover{Contents: []lsp.MarkedString{}}, nil
		}

		contents := []lsp.MarkedString{lsp.RawMarkedString(nodePath(node))}
		if m, sub, ok := mixed.Resolve(doc.Tree(), offset); ok && sub != nil {
			contents = append(contents, lsp.RawMarkedString(m.Selector+": "+nodePath(sub)))
		}
		r := pos.rng(node.From(), node.To())
		return lsp.Hover{Contents: contents, Range: &r}, nil
	})
}

// nodePath renders the names from the top node down to n.
func nodePath(n *tree.Node) string {
	var names []string
	for ; n != nil; n = n.Parent() {
		names = append(names, n.Name())
	}
	slices.Reverse(names)
	return strings.Join(names, " > ")
}

// enclosing returns the innermost node at pos named one of names.
func enclosing(t *tree.Tree, pos int, names ...string) *tree.Node {
	for _, side := range []int{-1, 1} {
		for n := t.ResolveInner(pos, side); n != nil; n = n.Parent() {
			if slices.Contains(names, n.Name()) {
				return n
			}
		}
	}
	return nil
}

// onTypeFormatting continues container markup after a typed newline. The
// command runs on the text as it was before the newline; the difference
// to the current text becomes a single edit.
func (s *server) onTypeFormatting(ctx context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params onTypeFormattingParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	return s.withDocument(params.TextDocument.URI, func(doc *document.Document) (any, error) {
		text := doc.Text()
		pos := newPositions(text)
		after := pos.offset(params.Position)
		nl := strings.LastIndexByte(text[:after], '\n')
		if params.Ch != "\n" || nl < 0 || strings.TrimSpace(text[nl+1:after]) != "" {
			return []lsp.TextEdit{}, nil
		}

		before := text[:nl] + text[after:]
		t, err := doc.Parser().Parse(ctx, tree.NewStringInput(before), nil, nil)
		if err != nil {
			return nil, err
		}
		res, ok := commands.Enter(t, before, nl)
		if !ok {
			return []lsp.TextEdit{}, nil
		}
		next, err := res.Apply(before)
		if err != nil {
			return nil, err
		}
		change := edit.Between(text, next)
		return []lsp.TextEdit{{Range: pos.rng(change.From, change.To), NewText: change.Insert}}, nil
	})
}

type commandArgs struct {
	URI      lsp.DocumentURI
	Position lsp.Position
}

func parseCommandArgs(args []any) (commandArgs, error) {
	if len(args) != 2 {
		return commandArgs{}, errInvalidParams
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return commandArgs{}, errInvalidParams
	}
	var pair []json.RawMessage
	if json.Unmarshal(raw, &pair) != nil {
		return commandArgs{}, errInvalidParams
	}
	var out commandArgs
	if json.Unmarshal(pair[0], &out.URI) != nil || json.Unmarshal(pair[1], &out.Position) != nil {
		return commandArgs{}, errInvalidParams
	}
	return out, nil
}

// executeCommand runs a markup command at a position. The edit is sent to
// the client with workspace/applyEdit and also returned.
func (s *server) executeCommand(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.ExecuteCommandParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	var run func(*tree.Tree, string, int) (commands.Result, bool)
	switch params.Command {
	case CommandContinueMarkup:
		run = commands.Enter
	case CommandDeleteMarkup:
		run = commands.Backspace
	default:
		return nil, &jsonrpc2.Error{
			Code: jsonrpc2.CodeInvalidParams, Message: fmt.Sprintf("unknown command %q", params.Command)}
	}
	args, err := parseCommandArgs(params.Arguments)
	if err != nil {
		return nil, err
	}

	result, err := s.withDocument(args.URI, func(doc *document.Document) (any, error) {
		text := doc.Text()
		pos := newPositions(text)
		res, ok := run(doc.Tree(), text, pos.offset(args.Position))
		if !ok {
			return nil, nil
		}
		edits := make([]lsp.TextEdit, 0, len(res.Edits))
		for _, e := range res.Edits {
			edits = append(edits, lsp.TextEdit{Range: pos.rng(e.From, e.To), NewText: e.Insert})
		}
		return &lsp.WorkspaceEdit{Changes: map[string][]lsp.TextEdit{string(args.URI): edits}}, nil
	})
	if err != nil || result == nil {
		return result, err
	}
	we, _ := result.(*lsp.WorkspaceEdit)
	go func() {
		var applied json.RawMessage
		_ = conn.Call(ctx, "workspace/applyEdit", applyWorkspaceEditParams{Label: params.Command, Edit: *we}, &applied)
	}()
	return we, nil
}

func (s *server) semanticTokensFull(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params semanticTokensParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	return s.withDocument(params.TextDocument.URI, func(doc *document.Document) (any, error) {
		text := doc.Text()
		spans := highlight.Highlight(doc.Tree(), s.opts.Highlight, 0, 0)
		return semanticTokens{Data: encodeTokens(text, spans)}, nil
	})
}

func tokenTypes() []string {
	tags := highlight.Tags()
	out := make([]string, len(tags))
	for i, tag := range tags {
		out[i] = string(tag)
	}
	return out
}

// encodeTokens turns spans into the relative five-integer encoding of
// semantic tokens. Spans are split at line breaks; the innermost tag
// names the token type.
func encodeTokens(text string, spans []highlight.Span) []int {
	types := highlight.Tags()
	pos := newPositions(text)
	var data []int
	prevLine, prevChar := 0, 0
	for _, span := range spans {
		typ := slices.Index(types, span.Tags[len(span.Tags)-1])
		if typ < 0 {
			continue
		}
		for from := span.From; from < span.To; {
			to := span.To
			if nl := strings.IndexByte(text[from:to], '\n'); nl >= 0 {
				to = from + nl
			}
			if to > from {
				start := pos.position(from)
				length := utf16Len(text[from:to])
				deltaChar := start.Character
				if start.Line == prevLine {
					deltaChar -= prevChar
				}
				data = append(data, start.Line-prevLine, deltaChar, length, typ, 0)
				prevLine, prevChar = start.Line, start.Character
			}
			from = to + 1
		}
	}
	return data
}

// diagnostics reports full and collapsed references without a definition.
func diagnostics(doc *document.Document) []lsp.Diagnostic {
	text := doc.Text()
	refs := markdown.CollectReferences(doc.Tree(), text)
	pos := newPositions(text)
	diags := []lsp.Diagnostic{}
	//nolint:errcheck // the walk function never fails
	tree.Walk(doc.Tree().TopNode(), func(n *tree.Node) error {
		if n.Name() != "Link" && n.Name() != "Image" {
			return nil
		}
		if n.Child("LinkLabel") == nil {
			return nil
		}
		label, ok := markdown.ReferenceLabel(n, text)
		if !ok {
			return nil
		}
		if _, found := refs.Lookup(label); !found {
			diags = append(diags, lsp.Diagnostic{
				Range:    pos.rng(n.From(), n.To()),
				Severity: lsp.Warning,
				Source:   "mdtree",
				Message:  fmt.Sprintf("no definition for reference %s", strings.TrimSpace(label)),
			})
		}
		return nil
	})
	return diags
}
