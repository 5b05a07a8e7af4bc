package coordinator

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dusk-indust/crosscheck/internal/review"
	"github.com/dusk-indust/crosscheck/internal/roles"
)

// Resolver applies a chosen strategy to one conflict. It is pure: feedback
// bookkeeping belongs to the Selector, context comes in at construction.
type Resolver struct {
	pctx review.ProjectContext
}

// NewResolver creates a Resolver for the given project context.
func NewResolver(pctx review.ProjectContext) *Resolver {
	return &Resolver{pctx: pctx.Normalize()}
}

// Resolve applies the strategy to the conflict. It returns nil when the
// strategy abstains; the conflict then stays unresolved and is surfaced to
// the caller instead of being force-resolved.
func (r *Resolver) Resolve(conflict review.Conflict, members []review.Finding, strategy string) *review.Resolution {
	if len(members) < 2 {
		return nil
	}

	switch strategy {
	case StrategyPreferHigherSeverity:
		winner := preferHigherSeverity(members)
		return &review.Resolution{
			ConflictID: conflict.ID,
			Strategy:   strategy,
			Resolved:   winner,
			Rationale: fmt.Sprintf("kept %s's %q: highest severity (%s) among the conflicting findings",
				winner.Role, winner.Principle, winner.Severity),
		}

	case StrategyPreferRolePriority:
		winner := preferRolePriority(members)
		return &review.Resolution{
			ConflictID: conflict.ID,
			Strategy:   strategy,
			Resolved:   winner,
			Rationale: fmt.Sprintf("kept %s's %q: %s outranks the other roles in the review hierarchy",
				winner.Role, winner.Principle, winner.Role),
		}

	case StrategyContextDriven:
		winner, matched := r.contextPick(members)
		rationale := fmt.Sprintf("kept %s's %q: project priority is %s",
			winner.Role, winner.Principle, r.pctx.Priority)
		if !matched {
			rationale = fmt.Sprintf("kept %s's %q: no finding matched project priority %s, fell back to highest severity",
				winner.Role, winner.Principle, r.pctx.Priority)
		}
		return &review.Resolution{
			ConflictID: conflict.ID,
			Strategy:   strategy,
			Resolved:   winner,
			Rationale:  rationale,
		}

	case StrategyMergeWithCaveat:
		return r.mergeWithCaveat(conflict, members)

	default:
		return nil
	}
}

// preferHigherSeverity picks the member with the highest severity; ties fall
// to higher confidence, then lexicographically first role name. Fully
// deterministic, never random.
func preferHigherSeverity(members []review.Finding) review.Finding {
	winner := members[0]
	for _, m := range members[1:] {
		switch {
		case m.Severity.Rank() > winner.Severity.Rank():
			winner = m
		case m.Severity.Rank() == winner.Severity.Rank() && m.Confidence > winner.Confidence:
			winner = m
		case m.Severity.Rank() == winner.Severity.Rank() && m.Confidence == winner.Confidence && m.Role < winner.Role:
			winner = m
		}
	}
	return winner
}

// preferRolePriority picks the member whose role carries the highest
// hierarchy weight; ties fall to preferHigherSeverity.
func preferRolePriority(members []review.Finding) review.Finding {
	best := -1
	var top []review.Finding
	for _, m := range members {
		w := roles.Weight(roles.Name(m.Role))
		switch {
		case w > best:
			best = w
			top = []review.Finding{m}
		case w == best:
			top = append(top, m)
		}
	}
	return preferHigherSeverity(top)
}

// contextPick selects the member matching the project priority. The second
// return reports whether any member matched; when none does the pick falls
// back to highest severity.
func (r *Resolver) contextPick(members []review.Finding) (review.Finding, bool) {
	wanted := priorityRoles(r.pctx)
	var matched []review.Finding
	for _, m := range members {
		if wanted[roles.Name(m.Role)] {
			matched = append(matched, m)
		}
	}
	if len(matched) > 0 {
		return preferHigherSeverity(matched), true
	}
	return preferHigherSeverity(members), false
}

// priorityRoles maps the project priority onto the roles that serve it. A
// balanced priority matches no role, which pushes context-driven resolution
// into its severity fallback.
func priorityRoles(pctx review.ProjectContext) map[roles.Name]bool {
	out := make(map[roles.Name]bool)
	switch pctx.Priority {
	case review.PrioritySecurity:
		out[roles.Security] = true
	case review.PriorityPerformance:
		out[roles.Efficiency] = true
	case review.PriorityMaintainability:
		out[roles.CleanStructure] = true
		out[roles.Architecture] = true
		out[roles.Testability] = true
	}
	if pctx.SecuritySensitive {
		out[roles.Security] = true
	}
	if pctx.PerformanceCritical {
		out[roles.Efficiency] = true
	}
	return out
}

// mergeWithCaveat synthesizes a finding that keeps both sides of a
// philosophical trade-off. It abstains for any other conflict kind, and when
// neither member carries a suggested edit there is nothing to merge.
func (r *Resolver) mergeWithCaveat(conflict review.Conflict, members []review.Finding) *review.Resolution {
	if conflict.Kind != review.ConflictPhilosophical {
		return nil
	}

	a, b := members[0], members[1]
	if a.SuggestedSnippet == "" && b.SuggestedSnippet == "" {
		return nil
	}

	severity := a.Severity
	confidence := a.Confidence
	impact := a.ImpactScore
	for _, m := range members[1:] {
		severity = review.MaxSeverity(severity, m.Severity)
		if m.Confidence < confidence {
			confidence = m.Confidence
		}
		if m.ImpactScore > impact {
			impact = m.ImpactScore
		}
	}

	merged := review.Finding{
		ID:               uuid.NewString(),
		Role:             a.Role + "+" + b.Role,
		Location:         mergeLocations(a.Location, b.Location),
		Principle:        a.Principle + " + " + b.Principle,
		Severity:         severity,
		Confidence:       confidence,
		ImpactScore:      impact,
		OriginalSnippet:  firstNonEmpty(a.OriginalSnippet, b.OriginalSnippet),
		SuggestedSnippet: mergeSnippets(a, b),
		Rationale: fmt.Sprintf("Trade-off between %s (%s) and %s (%s); apply both with care: %s / %s",
			a.Role, a.Principle, b.Role, b.Principle, a.Rationale, b.Rationale),
	}

	return &review.Resolution{
		ConflictID: conflict.ID,
		Strategy:   StrategyMergeWithCaveat,
		Resolved:   merged,
		Rationale: fmt.Sprintf("merged %s's and %s's recommendations; forcing a single winner would lose the %s trade-off",
			a.Role, b.Role, conflict.Kind),
	}
}

// mergeLocations returns the covering range; any whole-file member makes the
// merge whole-file.
func mergeLocations(a, b *review.Location) *review.Location {
	if a == nil || b == nil {
		return nil
	}
	out := &review.Location{StartLine: a.StartLine, EndLine: a.EndLine}
	if b.StartLine < out.StartLine {
		out.StartLine = b.StartLine
	}
	if b.EndLine > out.EndLine {
		out.EndLine = b.EndLine
	}
	return out
}

func mergeSnippets(a, b review.Finding) string {
	switch {
	case a.SuggestedSnippet == "":
		return b.SuggestedSnippet
	case b.SuggestedSnippet == "":
		return a.SuggestedSnippet
	default:
		return fmt.Sprintf("// %s:\n%s\n\n// %s:\n%s", a.Role, a.SuggestedSnippet, b.Role, b.SuggestedSnippet)
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
