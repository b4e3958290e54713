package reporter

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdtree/pkg/analysis"
)

func sampleReport() *analysis.Report {
	return &analysis.Report{
		ByNode: []analysis.NodeAnalysis{
			{Name: "Paragraph", Count: 12, Files: []string{"a.md", "b.md"}},
			{Name: "ATXHeading1", Count: 2, Files: []string{"a.md"}},
		},
		ByFile: []analysis.FileAnalysis{
			{Path: "a.md", Bytes: 300, Nodes: 40, Depth: 5, Mismatches: 1},
			{Path: "b.md", Bytes: 120, Nodes: 10, Depth: 3},
		},
		Totals: analysis.Totals{Files: 2, Nodes: 50, MaxDepth: 5, Mismatches: 1, FilesMismatched: 1},
	}
}

func TestSummaryRenderer_EmptyReport(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	renderer := NewSummaryRenderer(Options{Writer: &buf, Color: "never"})

	err := renderer.Render(context.Background(), &analysis.Report{})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No files to check.")
}

func TestSummaryRenderer_NodeTableFirst(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	renderer := NewSummaryRenderer(Options{Writer: &buf, Color: "never", SummaryOrder: SummaryOrderNodes})

	require.NoError(t, renderer.Render(context.Background(), sampleReport()))

	output := buf.String()
	nodeIdx := strings.Index(output, "Node Types")
	fileIdx := strings.Index(output, "\nFiles\n")
	require.GreaterOrEqual(t, nodeIdx, 0)
	require.GreaterOrEqual(t, fileIdx, 0)
	assert.Less(t, nodeIdx, fileIdx)

	assert.Regexp(t, `Paragraph\s+12\s+2`, output)
	assert.Regexp(t, `a\.md\s+300\s+40\s+5\s+1`, output)
	assert.Contains(t, output, "Total: 2 files, 50 nodes, max depth 5, 1 mismatches")
}

func TestSummaryRenderer_FileTableFirst(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	renderer := NewSummaryRenderer(Options{Writer: &buf, Color: "never", SummaryOrder: SummaryOrderFiles})

	require.NoError(t, renderer.Render(context.Background(), sampleReport()))

	output := buf.String()
	assert.Less(t, strings.Index(output, "Files\n"), strings.Index(output, "Node Types"))
}

func TestSummaryRenderer_TruncatesLongNames(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("d/", 40) + "leaf.md"
	report := &analysis.Report{
		ByFile: []analysis.FileAnalysis{{Path: long, Nodes: 1}},
		ByNode: []analysis.NodeAnalysis{{Name: strings.Repeat("N", 40), Count: 1}},
		Totals: analysis.Totals{Files: 1, Nodes: 1},
	}

	var buf bytes.Buffer
	renderer := NewSummaryRenderer(Options{Writer: &buf, Color: "never"})
	require.NoError(t, renderer.Render(context.Background(), report))

	output := buf.String()
	assert.NotContains(t, output, long)
	assert.Contains(t, output, "leaf.md")
	assert.NotContains(t, output, strings.Repeat("N", 40))
	assert.Contains(t, output, "NNNN…")
}

func TestTrimPathStart(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "docs/a.md", trimPathStart("docs/a.md", 20))
	assert.Equal(t, "…/a.md", trimPathStart("docs/deep/a.md", 6))
}
