package reporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yaklabco/mdtree/internal/ui/pretty"
	"github.com/yaklabco/mdtree/pkg/edit"
)

// DiffWriter prints edits as unified diffs in git style.
type DiffWriter struct {
	styles *pretty.Styles
	out    io.Writer

	files     int
	additions int
	deletions int
}

// NewDiffWriter creates a diff writer for opts.Writer.
func NewDiffWriter(opts Options) *DiffWriter {
	out := opts.Writer
	if out == nil {
		out = os.Stdout
	}
	return &DiffWriter{
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, out)),
		out:    out,
	}
}

// WriteEdits prints the diff of applying edits to text. It reports whether
// anything was printed.
func (w *DiffWriter) WriteEdits(path, text string, edits []edit.TextEdit) bool {
	displayPath := relativePath(path)
	diff := edit.Diff(displayPath, text, edits)
	if diff == "" {
		return false
	}

	w.files++
	for _, h := range edit.Hunks(text, edits) {
		w.additions += len(h.Added)
		w.deletions += len(h.Removed)
	}

	header := fmt.Sprintf("diff --git a/%s b/%s", displayPath, displayPath)
	fmt.Fprintln(w.out, w.styles.DiffHeader.Render(header))
	fmt.Fprint(w.out, w.styles.FormatDiff(diff))
	fmt.Fprintln(w.out)
	return true
}

// WriteSummary writes a summary line for all diffs written so far.
func (w *DiffWriter) WriteSummary() {
	if w.files == 0 {
		return
	}

	var parts []string

	fileWord := "files"
	if w.files == 1 {
		fileWord = "file"
	}
	parts = append(parts, fmt.Sprintf("%d %s changed", w.files, fileWord))

	if w.additions > 0 {
		insertionWord := "insertions"
		if w.additions == 1 {
			insertionWord = "insertion"
		}
		parts = append(parts, w.styles.DiffAdd.Render(fmt.Sprintf("%d %s(+)", w.additions, insertionWord)))
	}

	if w.deletions > 0 {
		deletionWord := "deletions"
		if w.deletions == 1 {
			deletionWord = "deletion"
		}
		parts = append(parts, w.styles.DiffRemove.Render(fmt.Sprintf("%d %s(-)", w.deletions, deletionWord)))
	}

	fmt.Fprintln(w.out, strings.Join(parts, ", "))
}

// relativePath converts an absolute path to a relative path from the current directory.
// If the relative path would require too many "../" traversals, use the basename instead.
func relativePath(path string) string {
	if !filepath.IsAbs(path) {
		return path
	}
	cwd, err := os.Getwd()
	if err != nil {
		return filepath.Base(path)
	}
	rel, err := filepath.Rel(cwd, path)
	if err != nil {
		return filepath.Base(path)
	}
	if strings.Count(rel, "..") > 2 {
		return filepath.Base(path)
	}
	return rel
}
