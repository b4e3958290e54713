package lsp

import lsp "github.com/sourcegraph/go-lsp"

// Protocol additions newer than the go-lsp type set.

type capabilities struct {
	lsp.ServerCapabilities

	FoldingRangeProvider             bool                   `json:"foldingRangeProvider,omitempty"`
	SemanticTokensProvider           *semanticTokensOptions `json:"semanticTokensProvider,omitempty"`
	DocumentOnTypeFormattingProvider *onTypeOptions         `json:"documentOnTypeFormattingProvider,omitempty"`
}

type onTypeOptions struct {
	FirstTriggerCharacter string   `json:"firstTriggerCharacter"`
	MoreTriggerCharacter  []string `json:"moreTriggerCharacter,omitempty"`
}

type onTypeFormattingParams struct {
	TextDocument lsp.TextDocumentIdentifier `json:"textDocument"`
	Position     lsp.Position               `json:"position"`
	Ch           string                     `json:"ch"`
}

type applyWorkspaceEditParams struct {
	Label string            `json:"label,omitempty"`
	Edit  lsp.WorkspaceEdit `json:"edit"`
}

type initializeResult struct {
	Capabilities capabilities `json:"capabilities"`
	ServerInfo   *serverInfo  `json:"serverInfo,omitempty"`
}

type serverInfo struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

type foldingRangeParams struct {
	TextDocument lsp.TextDocumentIdentifier `json:"textDocument"`
}

type foldingRange struct {
	StartLine      int    `json:"startLine"`
	StartCharacter *int   `json:"startCharacter,omitempty"`
	EndLine        int    `json:"endLine"`
	EndCharacter   *int   `json:"endCharacter,omitempty"`
	Kind           string `json:"kind,omitempty"`
}

type semanticTokensLegend struct {
	TokenTypes     []string `json:"tokenTypes"`
	TokenModifiers []string `json:"tokenModifiers"`
}

type semanticTokensOptions struct {
	Legend semanticTokensLegend `json:"legend"`
	Full   bool                 `json:"full"`
}

type semanticTokensParams struct {
	TextDocument lsp.TextDocumentIdentifier `json:"textDocument"`
}

type semanticTokens struct {
	Data []int `json:"data"`
}
