// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"
	FieldAddr       = "addr"

	// Parse fields.
	FieldBytes      = "bytes"
	FieldReused     = "reused"
	FieldDuration   = "duration"
	FieldExtensions = "extensions"
	FieldStopAt     = "stop_at"
	FieldMounts     = "mounts"
	FieldHit        = "hit"
	FieldKey        = "key"

	// Runner fields.
	FieldJobs           = "jobs"
	FieldFilesProcessed = "files_processed"
	FieldFilesFailed    = "files_failed"
	FieldMismatches     = "mismatches"

	// LSP fields.
	FieldMethod  = "method"
	FieldURI     = "uri"
	FieldVersion = "version"

	// Build fields.
	FieldCommit = "commit"
	FieldBuilt  = "built"
)
