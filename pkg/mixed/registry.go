// Package mixed mounts trees of other languages onto the code and HTML
// regions of a parsed Markdown document.
//
// Sub-parsers are looked up in a Registry by the region's selector: the
// first word of a fence's info string, "" for indented code, or "html"
// for raw HTML. Wrap turns a registry into a markdown.ParseWrapper that
// attaches the mounts once the Markdown parse finishes.
package mixed

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/yaklabco/mdtree/pkg/tree"
)

// ErrDuplicateSelector is returned when a selector or alias is registered
// twice.
var ErrDuplicateSelector = errors.New("selector already registered")

// SubParser parses the text of an embedded region.
type SubParser interface {
	// Parse returns the tree for code. Positions in the tree are offsets
	// into code.
	Parse(selector, code string) (*tree.Tree, error)
}

// SubParserFunc adapts a function to SubParser.
type SubParserFunc func(selector, code string) (*tree.Tree, error)

// Parse calls f.
func (f SubParserFunc) Parse(selector, code string) (*tree.Tree, error) {
	return f(selector, code)
}

// Registry maps selectors to sub-parsers. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	parsers  map[string]SubParser
	fallback SubParser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]SubParser)}
}

// DefaultRegistry returns a registry with the HTML parser under "html",
// "htm" and "xhtml", and the code classifier as fallback for every other
// selector.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	//nolint:errcheck // the registry is empty, so names cannot collide
	reg.Register("html", HTMLParser(), "htm", "xhtml")
	reg.SetFallback(CodeParser())
	return reg
}

// Register adds p under selector and its aliases. Selectors match case
// insensitively.
func (r *Registry) Register(selector string, p SubParser, aliases ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := append([]string{selector}, aliases...)
	for _, name := range names {
		if _, exists := r.parsers[normalize(name)]; exists {
			return fmt.Errorf("%w: %q", ErrDuplicateSelector, name)
		}
	}
	for _, name := range names {
		r.parsers[normalize(name)] = p
	}
	return nil
}

// SetFallback sets the parser used for selectors without a registration.
// A nil fallback leaves such regions unmounted.
func (r *Registry) SetFallback(p SubParser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = p
}

// Lookup returns the parser for a selector.
func (r *Registry) Lookup(selector string) (SubParser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.parsers[normalize(selector)]; ok {
		return p, true
	}
	return r.fallback, r.fallback != nil
}

func normalize(selector string) string {
	return strings.ToLower(strings.TrimSpace(selector))
}
