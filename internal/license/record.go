// Package license polls an external license-check tool and turns its
// free-text output into structured usage snapshots.
//
// The pipeline is one-directional:
//
//	feature names → Runner → raw text → ParseUsage → counts → Gatherer → records
//
// Records flow out to the HTML report, the CSV log, and (optionally) the
// SQLite history; nothing feeds back.
package license

import "time"

// TimeFormat is the timestamp layout used in the report, the CSV log, and
// all console output.
const TimeFormat = "2006-01-02 15:04:05"

// UsageRecord captures the result of polling one feature at one point in
// time. Total/Used/Unused are nil when the checker output could not be
// parsed; nil is a first-class value here, not an error.
type UsageRecord struct {
	// Feature is the caller-supplied feature name, opaque to this package.
	Feature string

	// Total is the number of licenses issued, or nil if unknown.
	Total *int

	// Used is the number of licenses checked out, or nil if unknown.
	// Used > Total is a valid state and is surfaced as Over-reported.
	Used *int

	// Unused is always derived as Total - Used, nil when either is nil.
	Unused *int

	// Timestamp is shared by every record of one polling round.
	Timestamp time.Time

	// BatchID groups the records of one polling round in the history DB.
	BatchID string

	// ExitCode is the exit status of the checker invocation.
	ExitCode int

	// Stderr and RawOutput are diagnostic text, trimmed of surrounding
	// whitespace.
	Stderr    string
	RawOutput string
}

// Status classifies a record for display.
type Status string

const (
	StatusUnknown      Status = "Unknown parse"
	StatusOK           Status = "OK"
	StatusFullyUsed    Status = "Fully used"
	StatusOverReported Status = "Over-reported"
)

// Status derives the display status from (Total, Used). It is a pure
// function of the two counts.
func (r UsageRecord) Status() Status {
	switch {
	case r.Total == nil || r.Used == nil:
		return StatusUnknown
	case *r.Used < *r.Total:
		return StatusOK
	case *r.Used == *r.Total:
		return StatusFullyUsed
	default:
		return StatusOverReported
	}
}

// HasUnknown reports whether any numeric field could not be parsed.
func (r UsageRecord) HasUnknown() bool {
	return r.Total == nil || r.Used == nil
}
