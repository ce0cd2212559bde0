// Package constants provides shared constants used throughout the divrec codebase.
// This includes file permissions, pipeline tolerances, and output naming that
// should be consistent across the application.
package constants

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Tolerance constants define the numeric tolerances used by the pipeline
const (
	// FXSuspiciousTolerance is how far an FX rate may drift from 1.0 on a
	// same-currency event before the aggregator annotates it as suspicious.
	FXSuspiciousTolerance = "0.001"

	// FXMismatchTolerance is the maximum allowed FX disagreement between the
	// two sides of a cross-currency event before the comparator flags it.
	FXMismatchTolerance = "0.000000001"
)

// Output naming constants define the default artifact names written by a run
const (
	// NBIMEventsFile is the canonical event stream for the NBIM side.
	NBIMEventsFile = "nbim.events.jsonl"

	// CustodyEventsFile is the canonical event stream for the custody side.
	CustodyEventsFile = "custody.events.jsonl"

	// ComparisonFile is the merged comparison stream.
	ComparisonFile = "comparison_frame.jsonl"

	// QASummaryFile is the human-readable QA summary.
	QASummaryFile = "qa_summary.md"
)

// Reporting limits
const (
	// TopDeltaCount is how many highest-delta events the QA summary lists.
	TopDeltaCount = 10

	// MaxUnmappedPreview is how many unmapped headers coverage logging shows.
	MaxUnmappedPreview = 12
)
