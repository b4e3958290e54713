package analysis

import "time"

// Report contains pre-computed views of a run over many files.
// Computed once by Analyze(), used by all renderers.
type Report struct {
	// Mismatches is the flat list of cross-check disagreements.
	Mismatches []MismatchEntry `json:"mismatches,omitempty"`

	// ByFile holds per-file parse statistics.
	ByFile []FileAnalysis `json:"byFile,omitempty"`

	// ByNode counts node types across all files.
	ByNode []NodeAnalysis `json:"byNode,omitempty"`

	// Totals contains aggregate statistics.
	Totals Totals `json:"summary"`

	// Version is the report format version.
	Version string `json:"version"`

	// Timestamp is when the analysis was performed.
	Timestamp time.Time `json:"timestamp"`
}

// MismatchEntry is one cross-check disagreement.
type MismatchEntry struct {
	FilePath string `json:"filePath"`
	// Block is the 1-based block index, or 0 for inline count differences.
	Block   int    `json:"block,omitempty"`
	Message string `json:"message"`
}

// Totals contains aggregate statistics for the report.
type Totals struct {
	Files           int           `json:"files"`
	FilesErrored    int           `json:"filesErrored"`
	FilesMismatched int           `json:"filesMismatched"`
	Mismatches      int           `json:"mismatches"`
	Bytes           int           `json:"bytes"`
	Nodes           int           `json:"nodes"`
	MaxDepth        int           `json:"maxDepth"`
	ParseTime       time.Duration `json:"parseTimeNs"`
}

// HasMismatches returns true if any cross-check disagreed.
func (t Totals) HasMismatches() bool {
	return t.Mismatches > 0
}

// HasErrors returns true if any file failed to process.
func (t Totals) HasErrors() bool {
	return t.FilesErrored > 0
}

// FileAnalysis contains parse statistics for a single file.
type FileAnalysis struct {
	Path       string `json:"path"`
	Bytes      int    `json:"bytes"`
	Nodes      int    `json:"nodes"`
	Depth      int    `json:"depth"`
	Mismatches int    `json:"mismatches"`
	Error      string `json:"error,omitempty"`
}

// NodeAnalysis counts one node type across the run.
type NodeAnalysis struct {
	Name  string   `json:"name"`
	Count int      `json:"count"`
	Files []string `json:"files,omitempty"`
}
