package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdtree/pkg/crosscheck"
	"github.com/yaklabco/mdtree/pkg/edit"
	"github.com/yaklabco/mdtree/pkg/markdown"
	"github.com/yaklabco/mdtree/pkg/reporter"
	"github.com/yaklabco/mdtree/pkg/runner"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{name: "empty defaults to text", input: "", want: reporter.FormatText},
		{name: "text", input: "text", want: reporter.FormatText},
		{name: "table", input: "table", want: reporter.FormatTable},
		{name: "json", input: "json", want: reporter.FormatJSON},
		{name: "summary", input: "summary", want: reporter.FormatSummary},
		{name: "unknown format", input: "xml", wantErr: true},
		{name: "sarif is gone", input: "sarif", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reporter.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_IsValid(t *testing.T) {
	tests := []struct {
		format reporter.Format
		want   bool
	}{
		{reporter.FormatText, true},
		{reporter.FormatTable, true},
		{reporter.FormatJSON, true},
		{reporter.FormatSummary, true},
		{reporter.Format("unknown"), false},
		{reporter.Format(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.format.IsValid())
		})
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		format  reporter.Format
		wantErr bool
	}{
		{name: "text reporter", format: reporter.FormatText},
		{name: "table reporter", format: reporter.FormatTable},
		{name: "json reporter", format: reporter.FormatJSON},
		{name: "summary reporter", format: reporter.FormatSummary},
		{name: "empty defaults to text", format: ""},
		{name: "unknown format", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			rep, err := reporter.New(reporter.Options{Writer: &buf, Format: tt.format, Color: "never"})
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, rep)
		})
	}
}

func TestTextReporter_NilResult(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never", ShowSummary: true})

	count, err := rep.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Contains(t, buf.String(), "No files to check.")
}

func TestTextReporter_Grouped(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{
		Writer:      &buf,
		Color:       "never",
		ShowSummary: true,
		GroupByFile: true,
	})

	count, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	output := buf.String()
	assert.Contains(t, output, "table.md (2 mismatches)")
	assert.Contains(t, output, "  table.md  block 1  want table, got paragraph\n")
	assert.Contains(t, output, "  table.md  inline  emphasis count differs\n")
	assert.Contains(t, output, "missing.md: error: no such file")
	assert.NotContains(t, output, "clean.md")
	assert.Contains(t, output, "2 files parsed")
	assert.Contains(t, output, "2 mismatches in 1 file")
}

func TestTextReporter_Flat(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never"})

	count, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	output := buf.String()
	assert.NotContains(t, output, "(2 mismatches)")
	assert.Equal(t, 2, strings.Count(output, "table.md  "))
	assert.NotContains(t, output, "files parsed", "summary is off")
}

func TestTableReporter(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewTableReporter(reporter.Options{Writer: &buf, Color: "never", ShowSummary: true})

	count, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	output := buf.String()
	assert.Contains(t, output, "FILE")
	assert.Contains(t, output, "clean.md")
	assert.Contains(t, output, "2 mismatches")
	assert.Contains(t, output, "2 files parsed")
}

func TestJSONReporter(t *testing.T) {
	var buf bytes.Buffer
	rep, err := reporter.New(reporter.Options{Writer: &buf, Format: reporter.FormatJSON})
	require.NoError(t, err)

	count, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	var output struct {
		Version    string `json:"version"`
		Mismatches []struct {
			FilePath string `json:"filePath"`
			Block    int    `json:"block"`
			Message  string `json:"message"`
		} `json:"mismatches"`
		ByFile []struct {
			Path  string `json:"path"`
			Nodes int    `json:"nodes"`
			Error string `json:"error"`
		} `json:"byFile"`
		Summary struct {
			Files        int `json:"files"`
			FilesErrored int `json:"filesErrored"`
			Mismatches   int `json:"mismatches"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))

	assert.Equal(t, "1.0.0", output.Version)
	assert.Equal(t, 3, output.Summary.Files)
	assert.Equal(t, 1, output.Summary.FilesErrored)
	assert.Equal(t, 2, output.Summary.Mismatches)
	require.Len(t, output.Mismatches, 2)
	assert.Equal(t, 1, output.Mismatches[0].Block)
	assert.Equal(t, 0, output.Mismatches[1].Block)
	assert.Len(t, output.ByFile, 3)
}

func TestJSONReporter_Compact(t *testing.T) {
	var buf bytes.Buffer
	rep, err := reporter.New(reporter.Options{Writer: &buf, Format: reporter.FormatJSON, Compact: true})
	require.NoError(t, err)

	_, err = rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)

	// Compact output is a single line plus the encoder's newline.
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestSummaryReporter(t *testing.T) {
	var buf bytes.Buffer
	rep, err := reporter.New(reporter.Options{Writer: &buf, Format: reporter.FormatSummary, Color: "never"})
	require.NoError(t, err)

	count, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	output := buf.String()
	assert.Contains(t, output, "Node Types")
	assert.Contains(t, output, "Document")
	assert.Contains(t, output, "Files")
	assert.Contains(t, output, "Total: 3 files")
	assert.Contains(t, output, "2 mismatches")
	assert.Contains(t, output, "1 errors")
}

func TestDefaultOptions(t *testing.T) {
	opts := reporter.DefaultOptions()

	assert.NotNil(t, opts.Writer)
	assert.Equal(t, reporter.FormatText, opts.Format)
	assert.Equal(t, "auto", opts.Color)
	assert.True(t, opts.ShowSummary)
	assert.True(t, opts.GroupByFile)
	assert.Equal(t, reporter.SummaryOrderNodes, opts.SummaryOrder)
}

func TestParseSummaryOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    reporter.SummaryOrder
		wantErr bool
	}{
		{"", reporter.SummaryOrderNodes, false},
		{"nodes", reporter.SummaryOrderNodes, false},
		{"files", reporter.SummaryOrderFiles, false},
		{"size", "", true},
	}
	for _, tt := range tests {
		got, err := reporter.ParseSummaryOrder(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestDiffWriter(t *testing.T) {
	var buf bytes.Buffer
	w := reporter.NewDiffWriter(reporter.Options{Writer: &buf, Color: "never"})

	text := "hello\nworld\n"
	changed := w.WriteEdits("x.md", text, []edit.TextEdit{{From: 0, To: 5, Insert: "HELLO"}})
	require.True(t, changed)
	assert.False(t, w.WriteEdits("y.md", text, nil))

	w.WriteSummary()

	want := "diff --git a/x.md b/x.md\n" +
		"--- a/x.md\n" +
		"+++ b/x.md\n" +
		"@@ -1,1 +1,1 @@\n" +
		"-hello\n" +
		"+HELLO\n" +
		"\n" +
		"1 file changed, 1 insertion(+), 1 deletion(-)\n"
	assert.Equal(t, want, buf.String())
}

func TestDiffWriter_NoChanges(t *testing.T) {
	var buf bytes.Buffer
	w := reporter.NewDiffWriter(reporter.Options{Writer: &buf, Color: "never"})
	w.WriteSummary()
	assert.Empty(t, buf.String())
}

// createTestResult builds a run over a clean file, a file with two
// mismatches, and a file that failed to read.
func createTestResult() *runner.Result {
	parser := markdown.Default()
	clean := "# Clean\n"
	table := "| a |\n| - |\n"

	result := &runner.Result{
		Files: []runner.FileOutcome{
			{Path: "clean.md", Result: &runner.FileResult{
				Tree: parser.ParseString(clean), Bytes: len(clean), Nodes: 3, Duration: time.Millisecond,
				Report: &crosscheck.Report{Path: "clean.md"},
			}},
			{Path: "missing.md", Error: errors.New("no such file")},
			{Path: "table.md", Result: &runner.FileResult{
				Tree: parser.ParseString(table), Bytes: len(table), Nodes: 2, Duration: time.Millisecond,
				Report: &crosscheck.Report{Path: "table.md", Mismatches: []crosscheck.Mismatch{
					{Index: 0, Message: "want table, got paragraph"},
					{Index: -1, Message: "emphasis count differs"},
				}},
			}},
		},
	}
	result.Stats = runner.Stats{
		FilesDiscovered: 3,
		FilesProcessed:  2,
		FilesErrored:    1,
		FilesMismatched: 1,
		Mismatches:      2,
		Bytes:           len(clean) + len(table),
		Nodes:           5,
		ParseTime:       2 * time.Millisecond,
	}
	return result
}

func TestFormats(t *testing.T) {
	assert.Equal(t, []string{"json", "summary", "table", "text"}, reporter.Formats())

	_, err := reporter.ParseFormat("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json, summary, table, text")
}
