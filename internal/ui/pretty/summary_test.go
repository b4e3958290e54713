package pretty_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/mdtree/internal/ui/pretty"
	"github.com/yaklabco/mdtree/pkg/runner"
)

func TestFormatSummary_Basic(t *testing.T) {
	styles := pretty.NewStyles(false)

	stats := runner.Stats{
		FilesProcessed:  10,
		FilesMismatched: 3,
		Mismatches:      15,
		Bytes:           2048,
		Nodes:           512,
		ParseTime:       3 * time.Millisecond,
	}

	result := styles.FormatSummary(stats)

	assert.Contains(t, result, "Summary")
	assert.Contains(t, result, "Files parsed:")
	assert.Contains(t, result, "10")
	assert.Contains(t, result, "2.0 KB")
	assert.Contains(t, result, "512")
	assert.Contains(t, result, "3ms")
	assert.Contains(t, result, "Mismatches:")
	assert.Contains(t, result, "15")
	assert.Contains(t, result, "Files mismatched:")
	assert.Contains(t, result, "Check found mismatches")
}

func TestFormatSummary_NoMismatches(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := styles.FormatSummary(runner.Stats{FilesProcessed: 5})

	assert.Contains(t, result, "Check passed")
	assert.NotContains(t, result, "Mismatches:")
	assert.NotContains(t, result, "Files failed:")
}

func TestFormatSummary_WithErrors(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := styles.FormatSummary(runner.Stats{FilesProcessed: 4, FilesErrored: 1, Mismatches: 2, FilesMismatched: 1})

	assert.Contains(t, result, "Files failed:")
	assert.Contains(t, result, "Check failed with errors")
}

func TestFormatSummaryOneLine(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	tests := []struct {
		name     string
		stats    runner.Stats
		contains []string
		excludes []string
	}{
		{
			name:     "clean run",
			stats:    runner.Stats{FilesProcessed: 3, Bytes: 100, Nodes: 40},
			contains: []string{"3 files parsed", "(100 B, 40 nodes)", "no mismatches"},
			excludes: []string{"failed"},
		},
		{
			name:     "single file",
			stats:    runner.Stats{FilesProcessed: 1},
			contains: []string{"1 file parsed"},
		},
		{
			name:     "mismatches",
			stats:    runner.Stats{FilesProcessed: 4, Mismatches: 1, FilesMismatched: 1},
			contains: []string{"1 mismatch in 1 file"},
			excludes: []string{"no mismatches"},
		},
		{
			name:     "errors",
			stats:    runner.Stats{FilesProcessed: 2, FilesErrored: 2},
			contains: []string{"2 files failed"},
			excludes: []string{"no mismatches"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := styles.FormatSummaryOneLine(tt.stats)
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, got, unwanted)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   int
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, pretty.FormatBytes(tt.in), "FormatBytes(%d)", tt.in)
	}
}
