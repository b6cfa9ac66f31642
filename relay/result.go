package relay

import (
	"time"
)

// Stage identifies where in the relay procedure an item failed.
type Stage string

// Relay stages, in order.
const (
	StageFetch  Stage = "fetch"
	StageSend   Stage = "send"
	StageCommit Stage = "commit"
)

// ItemResult records the outcome of one relay attempt.
// Err is nil on success; on failure Stage names the failing step.
type ItemResult struct {
	// ID is the video ID that was attempted.
	ID string
	// Title is the video title, for reporting.
	Title string
	// Stage is the step that failed (empty on success).
	Stage Stage
	// Err is the failure cause (nil on success).
	Err error
}

// Failed reports whether this attempt failed.
func (r ItemResult) Failed() bool { return r.Err != nil }

// RunSummary collects the outcome of one full pipeline run.
type RunSummary struct {
	// RunID uniquely identifies this run in logs.
	RunID string
	// Started and Finished bound the run.
	Started  time.Time
	Finished time.Time

	// Discovered is the deduplicated candidate count.
	Discovered int
	// Qualified is the number of items that passed the filter.
	Qualified int

	// Results holds one entry per qualified item, in attempt order.
	Results []ItemResult
}

// Sent returns the number of successfully relayed items.
func (s *RunSummary) Sent() int {
	n := 0
	for _, r := range s.Results {
		if !r.Failed() {
			n++
		}
	}
	return n
}

// Failed returns the number of failed relay attempts.
func (s *RunSummary) Failed() int {
	return len(s.Results) - s.Sent()
}
