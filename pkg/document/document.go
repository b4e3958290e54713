// Package document keeps an edited Markdown text together with its syntax
// tree. Edits are applied to a rope and reparsed incrementally, reusing
// every subtree of the previous parse that the edits did not touch.
package document

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/npillmayer/cords"

	"github.com/yaklabco/mdtree/internal/logging"
	"github.com/yaklabco/mdtree/pkg/edit"
	"github.com/yaklabco/mdtree/pkg/markdown"
	"github.com/yaklabco/mdtree/pkg/metrics"
	"github.com/yaklabco/mdtree/pkg/tree"
)

// Stats describes the most recent parse.
type Stats struct {
	// Incremental is set when the parse started from fragments.
	Incremental bool

	// Reused counts the bytes covered by subtrees taken over unchanged
	// from the previous tree. Total is the document length.
	Reused int
	Total  int

	Duration time.Duration
}

// Ratio returns the reused share of the document.
func (s Stats) Ratio() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Reused) / float64(s.Total)
}

// Document is an editable parsed text. It is not safe for concurrent use.
type Document struct {
	parser    *markdown.Parser
	text      cords.Cord
	tree      *tree.Tree
	fragments []tree.Fragment
	version   int
	stats     Stats
	minGap    int
	recorder  metrics.Recorder
	logger    *log.Logger
}

// Option configures a Document.
type Option func(*Document)

// WithRecorder reports parse durations and reuse to r.
func WithRecorder(r metrics.Recorder) Option {
	return func(d *Document) { d.recorder = r }
}

// WithLogger sets the logger for reparse debug output.
func WithLogger(l *log.Logger) Option {
	return func(d *Document) { d.logger = l }
}

// WithMinGap sets the smallest unchanged stretch kept as a fragment.
func WithMinGap(n int) Option {
	return func(d *Document) { d.minGap = n }
}

// New parses text into a document.
func New(ctx context.Context, p *markdown.Parser, text string, opts ...Option) (*Document, error) {
	d := &Document{
		parser:   p,
		minGap:   tree.DefaultMinGap,
		recorder: metrics.NoopRecorder{},
		logger:   logging.FromContext(ctx),
	}
	for _, opt := range opts {
		opt(d)
	}
	if err := d.Set(ctx, text); err != nil {
		return nil, err
	}
	return d, nil
}

// Text returns the current text.
func (d *Document) Text() string {
	return d.text.String()
}

// Len returns the text length in bytes.
func (d *Document) Len() int {
	return int(d.text.Len())
}

// Tree returns the current syntax tree.
func (d *Document) Tree() *tree.Tree {
	return d.tree
}

// Parser returns the parser the document was created with.
func (d *Document) Parser() *markdown.Parser {
	return d.parser
}

// Version counts the successful updates since creation, starting at 1.
func (d *Document) Version() int {
	return d.version
}

// Stats returns statistics of the most recent parse.
func (d *Document) Stats() Stats {
	return d.stats
}

// Set replaces the whole text and parses it from scratch.
func (d *Document) Set(ctx context.Context, text string) error {
	cord := cords.FromString(text)
	return d.reparse(ctx, cord, nil)
}

// Update replaces the text with text, reparsing incrementally around the
// single span where the two differ.
func (d *Document) Update(ctx context.Context, text string) error {
	current := d.Text()
	if current == text {
		return nil
	}
	return d.Apply(ctx, []edit.TextEdit{edit.Between(current, text)})
}

// Apply applies edits, given in coordinates of the current text, and
// reparses incrementally. On error the document is left unchanged.
func (d *Document) Apply(ctx context.Context, edits []edit.TextEdit) error {
	sorted, err := edit.Prepare(edits, d.Len())
	if err != nil {
		return fmt.Errorf("apply edits: %w", err)
	}
	if len(sorted) == 0 {
		return nil
	}
	cord, err := applyToCord(d.text, sorted)
	if err != nil {
		return fmt.Errorf("apply edits: %w", err)
	}
	fragments := tree.ApplyChanges(d.fragments, edit.ChangedRanges(sorted), d.minGap)
	return d.reparse(ctx, cord, fragments)
}

func (d *Document) reparse(ctx context.Context, cord cords.Cord, fragments []tree.Fragment) error {
	start := time.Now()
	input := tree.NewCordInput(cord)
	t, err := d.parser.Parse(ctx, input, fragments, nil)
	if err != nil {
		return err
	}

	stats := Stats{
		Incremental: len(fragments) > 0,
		Total:       input.Length(),
		Duration:    time.Since(start),
	}
	if stats.Incremental && d.tree != nil {
		stats.Reused = SharedBytes(d.tree, t)
	}

	d.text = cord
	d.tree = t
	d.fragments = tree.AddTree(t, nil, false)
	d.stats = stats
	d.version++

	kind := metrics.ParseFull
	if stats.Incremental {
		kind = metrics.ParseIncremental
	}
	d.recorder.ObserveParse(kind, stats.Duration)
	d.recorder.AddReuse(stats.Reused, stats.Total)
	d.logger.Debug("parsed document",
		logging.FieldVersion, d.version,
		logging.FieldBytes, stats.Total,
		logging.FieldReused, stats.Reused,
		logging.FieldDuration, stats.Duration)
	return nil
}

// applyToCord applies sorted edits back to front so earlier offsets stay
// valid.
func applyToCord(cord cords.Cord, edits []edit.TextEdit) (cords.Cord, error) {
	var err error
	for i := len(edits) - 1; i >= 0; i-- {
		e := edits[i]
		if e.To > e.From {
			if cord, _, err = cords.Cut(cord, uint64(e.From), uint64(e.To-e.From)); err != nil {
				return cords.Cord{}, err
			}
		}
		if e.Insert == "" {
			continue
		}
		insert := cords.FromString(e.Insert)
		switch {
		case cord.IsVoid() || cord.Len() == 0:
			cord = insert
		case uint64(e.From) == cord.Len():
			cord = cords.Concat(cord, insert)
		default:
			if cord, err = cords.Insert(cord, insert, uint64(e.From)); err != nil {
				return cords.Cord{}, err
			}
		}
	}
	return cord, nil
}

// SharedBytes returns the number of bytes of next covered by subtrees
// that also occur in prev.
func SharedBytes(prev, next *tree.Tree) int {
	seen := make(map[*tree.Tree]struct{})
	//nolint:errcheck // the walk function never fails
	tree.Walk(prev.TopNode(), func(n *tree.Node) error {
		seen[n.Tree()] = struct{}{}
		return nil
	})

	shared := 0
	//nolint:errcheck // the walk function never fails
	tree.Walk(next.TopNode(), func(n *tree.Node) error {
		if _, ok := seen[n.Tree()]; ok && n.Parent() != nil {
			shared += n.To() - n.From()
			return tree.SkipChildren
		}
		return nil
	})
	return shared
}
