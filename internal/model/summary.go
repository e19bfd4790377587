package model

import "time"

// RunSummary captures aggregate metrics from one batch run.
type RunSummary struct {
	RunID     string
	Total     int
	Succeeded int
	Failed    int
	TimedOut  int
	Skipped   int
	Elapsed   time.Duration
}

// Record tallies one outcome into the summary.
func (s *RunSummary) Record(o Outcome) {
	switch o.Kind {
	case OutcomeSuccess:
		s.Succeeded++
	case OutcomeFailure:
		s.Failed++
	case OutcomeTimeout:
		s.TimedOut++
	case OutcomeSkipped:
		s.Skipped++
	}
}

// Failures returns the number of jobs that did not succeed.
func (s *RunSummary) Failures() int {
	return s.Failed + s.TimedOut + s.Skipped
}
