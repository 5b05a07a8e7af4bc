package coordinator

import (
	"fmt"
	"sort"
	"time"

	"github.com/dusk-indust/crosscheck/internal/review"
	"github.com/dusk-indust/crosscheck/internal/roles"
)

// highImpactThreshold marks unresolved conflicts worth calling out.
const highImpactThreshold = 7.0

// AssembleReport merges the settled role outcomes, conflict resolutions, and
// synergies into the final report. Given the same inputs the output is fully
// deterministic regardless of dispatch scheduling.
func AssembleReport(
	runID, language string,
	outcomes []review.RoleOutcome,
	conflicts []review.Conflict,
	resolutions []review.Resolution,
	synergies []review.Synergy,
	cancelled bool,
	elapsed time.Duration,
) *review.Report {
	report := &review.Report{
		RunID:        runID,
		Language:     language,
		RoleOutcomes: outcomes,
		Synergies:    synergies,
		Cancelled:    cancelled,
		Elapsed:      elapsed,
	}

	failed, succeeded := 0, 0
	var merged []review.Finding
	for _, o := range outcomes {
		if o.OK() {
			succeeded++
			merged = append(merged, o.Findings...)
		} else {
			failed++
		}
	}
	report.Failed = len(outcomes) > 0 && succeeded == 0
	report.Degraded = failed > 0 && succeeded > 0

	resolvedBy := make(map[string]review.Resolution, len(resolutions))
	for _, res := range resolutions {
		resolvedBy[res.ConflictID] = res
	}

	conflictedIDs := make(map[string]bool)
	for i := range conflicts {
		if _, ok := resolvedBy[conflicts[i].ID]; ok {
			conflicts[i].Status = review.ConflictResolved
		} else {
			conflicts[i].Status = review.ConflictUnresolved
			report.Unresolved = append(report.Unresolved, conflicts[i])
		}
		for _, id := range conflicts[i].Members {
			conflictedIDs[id] = true
		}
	}
	report.Conflicts = conflicts
	report.Resolutions = resolutions

	// Priority list: unconflicted findings plus each resolution's outcome.
	// Members of unresolved conflicts stay off the list until a human decides.
	var prioritized []review.Finding
	for _, f := range merged {
		if !conflictedIDs[f.ID] {
			prioritized = append(prioritized, f)
		}
	}
	for _, res := range resolutions {
		prioritized = append(prioritized, res.Resolved)
	}
	sortByPriority(prioritized)
	report.Findings = prioritized

	report.CollaborationScore = collaborationScore(report, len(merged), conflicts, resolutions, synergies)
	report.FocusAreas = focusAreas(report)
	return report
}

// sortByPriority orders findings by severity (descending), then
// impact x confidence (descending), then role declaration order, then ID.
// The final ID tie-break keeps the order total and stable.
func sortByPriority(findings []review.Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.Severity.Rank() != b.Severity.Rank() {
			return a.Severity.Rank() > b.Severity.Rank()
		}
		av, bv := a.ImpactScore*a.Confidence, b.ImpactScore*b.Confidence
		if av != bv {
			return av > bv
		}
		ai, bi := roles.DeclarationIndex(roles.Name(a.Role)), roles.DeclarationIndex(roles.Name(b.Role))
		if ai != bi {
			return ai < bi
		}
		return a.ID < b.ID
	})
}

// collaborationScore blends resolution ratio and synergy density into [0,100].
// A failed or finding-less run scores zero.
func collaborationScore(report *review.Report, totalFindings int, conflicts []review.Conflict, resolutions []review.Resolution, synergies []review.Synergy) float64 {
	if report.Failed || totalFindings == 0 {
		return 0
	}

	resolvedRatio := 1.0
	if len(conflicts) > 0 {
		resolvedRatio = float64(len(resolutions)) / float64(len(conflicts))
	}

	synergyDensity := float64(len(synergies)) / float64(totalFindings)
	if synergyDensity > 1 {
		synergyDensity = 1
	}

	score := 100 * (0.7*resolvedRatio + 0.3*synergyDensity)
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// focusAreas derives short human-readable recommendations from the report.
func focusAreas(report *review.Report) []string {
	var areas []string

	// Critical and high findings per role, in role declaration order.
	severe := make(map[string]int)
	for _, f := range report.Findings {
		if f.Severity.Rank() >= review.SeverityHigh.Rank() {
			severe[f.Role]++
		}
	}
	for _, name := range roles.Names() {
		if n := severe[string(name)]; n > 0 {
			areas = append(areas, fmt.Sprintf("%s: %d high or critical findings", name, n))
		}
	}

	highImpact := 0
	for _, c := range report.Unresolved {
		if c.Impact >= highImpactThreshold {
			highImpact++
		}
	}
	if highImpact > 0 {
		areas = append(areas, fmt.Sprintf("%d high-impact conflicts need human review", highImpact))
	} else if len(report.Unresolved) > 0 {
		areas = append(areas, fmt.Sprintf("%d unresolved conflicts need human review", len(report.Unresolved)))
	}

	if len(report.Synergies) > 0 {
		areas = append(areas, fmt.Sprintf("%d synergy opportunities: apply the paired findings together", len(report.Synergies)))
	}

	if report.Degraded {
		areas = append(areas, fmt.Sprintf("review ran degraded: %d roles failed", len(report.FailedRoles())))
	}
	return areas
}
