// Package metrics records parser activity: parse durations, how much of
// each incremental parse was reused, tree cache lookups and LSP requests.
//
// Components take a Recorder. NoopRecorder is the default, so metrics
// cost nothing unless a PrometheusRecorder is injected.
package metrics

import "time"

// ParseKind labels a parse.
type ParseKind string

// Parse kinds.
const (
	ParseFull        ParseKind = "full"
	ParseIncremental ParseKind = "incremental"
	ParseCached      ParseKind = "cached"
)

// Recorder receives observations. Implementations must be safe for
// concurrent use.
type Recorder interface {
	ObserveParse(kind ParseKind, d time.Duration)
	AddReuse(reused, total int)
	IncCacheLookup(hit bool)
	IncRequest(method string, failed bool)
}

// NoopRecorder discards every observation.
type NoopRecorder struct{}

func (NoopRecorder) ObserveParse(ParseKind, time.Duration) {}
func (NoopRecorder) AddReuse(int, int)                     {}
func (NoopRecorder) IncCacheLookup(bool)                   {}
func (NoopRecorder) IncRequest(string, bool)               {}
