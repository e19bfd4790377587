package model

import "time"

// OutcomeKind is the closed classification of a finished job.
type OutcomeKind int

const (
	// OutcomeSuccess means the loader ran and exited zero.
	OutcomeSuccess OutcomeKind = iota
	// OutcomeFailure means the loader ran and reported an error, or could
	// not be started at all.
	OutcomeFailure
	// OutcomeTimeout means the job exceeded its deadline and was killed.
	OutcomeTimeout
	// OutcomeSkipped means the job never started (file vanished or could
	// not be opened).
	OutcomeSkipped
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeSkipped:
		return "skipped"
	}
	return "unknown"
}

// Outcome is the result of one job. Exactly one Outcome is produced per
// enumerated Job before a run terminates.
type Outcome struct {
	Kind    OutcomeKind
	Elapsed time.Duration
	// Diagnostic carries captured loader stderr on failure, a fixed
	// message naming the deadline on timeout, or the skip reason. Empty
	// on success.
	Diagnostic string
}
