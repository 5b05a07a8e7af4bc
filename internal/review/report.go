package review

import "time"

// Report is the final output of one coordination run. It is immutable once
// assembled; callers render or export it but never mutate it.
type Report struct {
	RunID    string `json:"runId"`
	Language string `json:"language"`

	// Findings is the priority-ordered list of resolved recommendations
	// and unconflicted findings. Members of unresolved conflicts are
	// excluded until a human decides.
	Findings []Finding `json:"findings"`

	// Resolutions records how each resolved conflict was settled.
	Resolutions []Resolution `json:"resolutions,omitempty"`

	// Conflicts lists every detected conflict regardless of outcome.
	Conflicts []Conflict `json:"conflicts,omitempty"`

	// Unresolved lists conflicts needing human input.
	Unresolved []Conflict `json:"unresolved,omitempty"`

	Synergies []Synergy `json:"synergies,omitempty"`

	// CollaborationScore summarizes, in [0,100], how much net value
	// coordination added over the raw unmerged findings.
	CollaborationScore float64 `json:"collaborationScore"`

	// FocusAreas are short human-readable recommendations derived from
	// severity counts, synergies, and unresolved high-impact conflicts.
	FocusAreas []string `json:"focusAreas,omitempty"`

	// RoleOutcomes carries per-role success/failure accounting; failures
	// are metadata on the report, not errors.
	RoleOutcomes []RoleOutcome `json:"roleOutcomes"`

	// Degraded is set when some but not all roles failed.
	Degraded bool `json:"degraded"`

	// Failed is set when every role failed; the report is then valid but
	// empty.
	Failed bool `json:"failed"`

	// Cancelled is set when the caller cancelled the run; the report
	// contains whatever completed before cancellation.
	Cancelled bool `json:"cancelled"`

	Elapsed time.Duration `json:"elapsed"`
}

// FailedRoles returns the failures recorded on the report, in role dispatch
// order.
func (r *Report) FailedRoles() []RoleFailure {
	var failures []RoleFailure
	for _, o := range r.RoleOutcomes {
		if o.Failure != nil {
			failures = append(failures, *o.Failure)
		}
	}
	return failures
}

// TotalFindings counts raw findings across all successful roles, before any
// conflict filtering.
func (r *Report) TotalFindings() int {
	n := 0
	for _, o := range r.RoleOutcomes {
		n += len(o.Findings)
	}
	return n
}
