// Package coordinator runs one review: it fans the source out to every
// analyzer role, merges whatever findings come back, detects conflicts and
// synergies among them, resolves the conflicts it can, and assembles the
// prioritized report. Role failures are recorded on the report, never
// propagated; a run always produces a report.
package coordinator

import "fmt"

// ProgressStatus is the lifecycle phase of one role dispatch.
type ProgressStatus int

const (
	ProgressPending ProgressStatus = iota
	ProgressWorking
	ProgressComplete
	ProgressFailed
)

// ProgressEvent reports one role's dispatch state change.
type ProgressEvent struct {
	Role     string
	Status   ProgressStatus
	Message  string
	Findings int
}

// ProgressReporter fans progress events to a consumer through a buffered
// channel.
type ProgressReporter struct {
	ch chan ProgressEvent
}

// NewProgressReporter creates a ProgressReporter with a buffered channel of
// size 64.
func NewProgressReporter() *ProgressReporter {
	return &ProgressReporter{
		ch: make(chan ProgressEvent, 64),
	}
}

// Emit sends a progress event without blocking. If the channel is full the
// event is dropped; progress is advisory, not accounting.
func (pr *ProgressReporter) Emit(event ProgressEvent) {
	select {
	case pr.ch <- event:
	default:
	}
}

// Subscribe returns a read-only channel for consuming progress events.
func (pr *ProgressReporter) Subscribe() <-chan ProgressEvent {
	return pr.ch
}

// Close closes the progress event channel.
func (pr *ProgressReporter) Close() {
	close(pr.ch)
}

// FormatProgress formats a ProgressEvent as a human-readable status line.
func FormatProgress(event ProgressEvent) string {
	switch event.Status {
	case ProgressPending:
		return fmt.Sprintf("  ○ %s (pending)", event.Role)
	case ProgressWorking:
		return fmt.Sprintf("  ● %s...", event.Role)
	case ProgressComplete:
		return fmt.Sprintf("  ✓ %s: %d findings", event.Role, event.Findings)
	case ProgressFailed:
		return fmt.Sprintf("  ✗ %s failed: %s", event.Role, event.Message)
	default:
		return fmt.Sprintf("  ? %s (unknown status)", event.Role)
	}
}
