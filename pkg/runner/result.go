package runner

import "time"

// FileOutcome is what happened to one discovered file. Exactly one of
// Result and Error is set.
type FileOutcome struct {
	Path   string
	Result *FileResult
	Error  error
}

// Stats totals a run. Bytes, Nodes and ParseTime cover successfully
// parsed files only.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int
	FilesErrored    int

	// FilesMismatched counts files whose tree disagreed with the
	// reference parser; Mismatches counts the disagreements.
	FilesMismatched int
	Mismatches      int

	Bytes     int
	Nodes     int
	ParseTime time.Duration
}

// Result holds every outcome in discovery order and their totals.
type Result struct {
	Files []FileOutcome
	Stats Stats
}

// HasFailures reports whether any file could not be read or parsed.
func (r *Result) HasFailures() bool {
	return r != nil && r.Stats.FilesErrored > 0
}

// HasMismatches reports whether any cross-check disagreed.
func (r *Result) HasMismatches() bool {
	return r != nil && r.Stats.FilesMismatched > 0
}

func (r *Result) add(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	res := outcome.Result
	switch {
	case outcome.Error != nil:
		r.Stats.FilesErrored++
		return
	case res == nil:
		return
	}

	r.Stats.FilesProcessed++
	r.Stats.Bytes += res.Bytes
	r.Stats.Nodes += res.Nodes
	r.Stats.ParseTime += res.Duration
	if res.Report != nil && !res.Report.OK() {
		r.Stats.FilesMismatched++
		r.Stats.Mismatches += len(res.Report.Mismatches)
	}
}
