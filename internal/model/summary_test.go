package model

import (
	"testing"
	"time"
)

func TestRecordAndFailures(t *testing.T) {
	var s RunSummary
	s.Record(Outcome{Kind: OutcomeSuccess, Elapsed: time.Second})
	s.Record(Outcome{Kind: OutcomeFailure})
	s.Record(Outcome{Kind: OutcomeTimeout})
	s.Record(Outcome{Kind: OutcomeSkipped})
	s.Record(Outcome{Kind: OutcomeSuccess})

	if s.Succeeded != 2 || s.Failed != 1 || s.TimedOut != 1 || s.Skipped != 1 {
		t.Errorf("unexpected tallies: %+v", s)
	}
	if got := s.Failures(); got != 3 {
		t.Errorf("Failures() = %d, want 3", got)
	}
}

func TestOutcomeKindString(t *testing.T) {
	cases := map[OutcomeKind]string{
		OutcomeSuccess:  "success",
		OutcomeFailure:  "failure",
		OutcomeTimeout:  "timeout",
		OutcomeSkipped:  "skipped",
		OutcomeKind(42): "unknown",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", kind, got, want)
		}
	}
}

func TestNewJob(t *testing.T) {
	j := NewJob("/data/orc/part-0001.orc")
	if j.Name != "part-0001.orc" {
		t.Errorf("Name = %q", j.Name)
	}
	if j.Path != "/data/orc/part-0001.orc" {
		t.Errorf("Path = %q", j.Path)
	}
}
