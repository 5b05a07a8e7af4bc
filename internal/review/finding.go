package review

import (
	"fmt"
	"time"
)

// --- Enums ---

// Severity ranks how serious a finding is.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// severityRanks orders severities for comparison. Unknown severities rank
// below low so malformed input never outranks valid findings.
var severityRanks = map[Severity]int{
	SeverityLow:      1,
	SeverityMedium:   2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

// Rank returns the ordering value for the severity (low=1 .. critical=4).
// Unknown severities rank 0.
func (s Severity) Rank() int {
	return severityRanks[s]
}

// Valid reports whether the severity is one of the four known levels.
func (s Severity) Valid() bool {
	_, ok := severityRanks[s]
	return ok
}

// MaxSeverity returns the higher-ranked of two severities.
func MaxSeverity(a, b Severity) Severity {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// FailureKind classifies why a role invocation failed.
type FailureKind string

const (
	FailureTimeout   FailureKind = "timeout"
	FailureTransport FailureKind = "transport"
	FailureSchema    FailureKind = "schema-invalid"
)

// --- Models ---

// Location is a line range within the reviewed source. A nil *Location on a
// Finding means the finding applies to the whole file.
type Location struct {
	StartLine int `json:"startLine"`
	EndLine   int `json:"endLine"`
}

// Intersects reports whether two ranges share at least one line.
func (l *Location) Intersects(other *Location) bool {
	if l == nil || other == nil {
		// A whole-file finding overlaps everything, including another
		// whole-file finding.
		return true
	}
	return l.StartLine <= other.EndLine && other.StartLine <= l.EndLine
}

// Contains reports whether l fully encloses other. Whole-file locations
// contain every range; nothing contains a whole-file location.
func (l *Location) Contains(other *Location) bool {
	if l == nil {
		return true
	}
	if other == nil {
		return false
	}
	return l.StartLine <= other.StartLine && other.EndLine <= l.EndLine
}

// AdjacentWithin reports whether the gap between two non-overlapping ranges
// is at most n lines. Whole-file locations are never "adjacent"; they overlap.
func (l *Location) AdjacentWithin(other *Location, n int) bool {
	if l == nil || other == nil {
		return false
	}
	if l.Intersects(other) {
		return false
	}
	if l.EndLine < other.StartLine {
		return other.StartLine-l.EndLine <= n+1
	}
	return l.StartLine-other.EndLine <= n+1
}

func (l *Location) String() string {
	if l == nil {
		return "whole-file"
	}
	if l.StartLine == l.EndLine {
		return fmt.Sprintf("L%d", l.StartLine)
	}
	return fmt.Sprintf("L%d-L%d", l.StartLine, l.EndLine)
}

// Finding is one atomic observation produced by a single analyzer role.
// Findings are immutable once created; the coordinator never edits them,
// it only derives new ones during resolution.
type Finding struct {
	ID               string    `json:"id"`
	Role             string    `json:"role"`
	Location         *Location `json:"location,omitempty"`
	Principle        string    `json:"principle"`
	Severity         Severity  `json:"severity"`
	Confidence       float64   `json:"confidence"`  // [0,1]
	ImpactScore      float64   `json:"impactScore"` // [0,10]
	OriginalSnippet  string    `json:"originalSnippet,omitempty"`
	SuggestedSnippet string    `json:"suggestedSnippet,omitempty"`
	Rationale        string    `json:"rationale"`
}

// Validate checks the structural invariants of a finding as received from a
// role. The coordinator treats any violation as a schema-invalid role
// response, not as data to be coerced.
func (f *Finding) Validate() error {
	if f.Principle == "" {
		return fmt.Errorf("finding %s: empty principle", f.ID)
	}
	if !f.Severity.Valid() {
		return fmt.Errorf("finding %s: unknown severity %q", f.ID, f.Severity)
	}
	if f.Confidence < 0 || f.Confidence > 1 {
		return fmt.Errorf("finding %s: confidence %v outside [0,1]", f.ID, f.Confidence)
	}
	if f.ImpactScore < 0 || f.ImpactScore > 10 {
		return fmt.Errorf("finding %s: impact score %v outside [0,10]", f.ID, f.ImpactScore)
	}
	if f.Location != nil {
		if f.Location.StartLine < 1 || f.Location.EndLine < f.Location.StartLine {
			return fmt.Errorf("finding %s: invalid location %s", f.ID, f.Location)
		}
	}
	return nil
}

// RoleFailure describes a failed role invocation. Failures are data carried
// on the report, never errors propagated past the dispatcher.
type RoleFailure struct {
	Role    string      `json:"role"`
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
}

// RoleOutcome is the settled result of one role's dispatch: either a finding
// list or a failure, never both.
type RoleOutcome struct {
	Role     string        `json:"role"`
	Findings []Finding     `json:"findings,omitempty"`
	Failure  *RoleFailure  `json:"failure,omitempty"`
	Elapsed  time.Duration `json:"elapsed"`
}

// OK reports whether the role produced findings (possibly zero) rather than
// failing.
func (o RoleOutcome) OK() bool {
	return o.Failure == nil
}
