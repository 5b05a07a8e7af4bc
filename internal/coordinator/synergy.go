package coordinator

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dusk-indust/crosscheck/internal/review"
	"github.com/dusk-indust/crosscheck/internal/source"
)

// SynergyBonusFactor scales the summed impact of synergistic findings.
const SynergyBonusFactor = 1.2

// synergyAdjacency is the maximum line gap between two ranges that still
// counts as "adjacent" when no outline places them in the same declaration.
const synergyAdjacency = 5

// complementaryPair names two principle keywords whose findings reinforce
// each other when applied together.
type complementaryPair struct {
	a, b  string
	theme string
}

// complementaryPairs is the predefined table of reinforcing principles.
var complementaryPairs = []complementaryPair{
	{a: "validat", b: "cach", theme: "validated inputs make the cache layer safe to trust"},
	{a: "validat", b: "extract", theme: "extracting the validation gives the hardening a single home"},
	{a: "responsibilit", b: "strategy", theme: "splitting responsibilities clears the way for a strategy pattern"},
	{a: "dependenc", b: "seam", theme: "extracting the dependency creates the seam the tests need"},
	{a: "interface", b: "test", theme: "the new interface is the injection point the tests want"},
}

// DetectSynergies scans the merged finding set for pairs whose combination
// is worth more than either alone. Pairs already classified as conflicts are
// excluded. Proximity requires intersecting ranges, a gap of at most
// synergyAdjacency lines, or membership in the same declaration per the
// outline (outline may be nil).
func DetectSynergies(findings []review.Finding, conflicts []review.Conflict, outline *source.Outline) []review.Synergy {
	conflicted := conflictedPairs(conflicts)

	var synergies []review.Synergy
	for i := 0; i < len(findings); i++ {
		for j := i + 1; j < len(findings); j++ {
			a, b := findings[i], findings[j]
			if conflicted[memberKey(a.ID, b.ID)] {
				continue
			}
			if !proximate(a, b, outline) {
				continue
			}

			theme, ok := complementaryMatch(a, b)
			if !ok {
				continue
			}

			synergies = append(synergies, review.Synergy{
				ID:            uuid.NewString(),
				Members:       []string{a.ID, b.ID},
				CombinedValue: combinedValue(a.ImpactScore, b.ImpactScore),
				Description: fmt.Sprintf("%s (%s) + %s (%s): %s",
					a.Role, a.Principle, b.Role, b.Principle, theme),
			})
		}
	}
	return synergies
}

// combinedValue applies the synergy bonus while honoring the monotonicity
// invariant: never less than the largest member impact.
func combinedValue(impacts ...float64) float64 {
	sum, max := 0.0, 0.0
	for _, v := range impacts {
		sum += v
		if v > max {
			max = v
		}
	}
	combined := sum * SynergyBonusFactor
	if combined < max {
		return max
	}
	return combined
}

// proximate reports whether two findings are close enough to reinforce each
// other: intersecting, nearly adjacent, or inside the same declaration.
func proximate(a, b review.Finding, outline *source.Outline) bool {
	if a.Location.Intersects(b.Location) {
		return true
	}
	if a.Location.AdjacentWithin(b.Location, synergyAdjacency) {
		return true
	}
	if outline != nil && a.Location != nil && b.Location != nil {
		return outline.SameDecl(a.Location.StartLine, a.Location.EndLine, b.Location.StartLine, b.Location.EndLine)
	}
	return false
}

// complementaryMatch checks the pair table in both orientations.
func complementaryMatch(a, b review.Finding) (string, bool) {
	pa, pb := normalizePrinciple(a.Principle), normalizePrinciple(b.Principle)
	for _, pair := range complementaryPairs {
		if (strings.Contains(pa, pair.a) && strings.Contains(pb, pair.b)) ||
			(strings.Contains(pa, pair.b) && strings.Contains(pb, pair.a)) {
			return pair.theme, true
		}
	}
	return "", false
}

// conflictedPairs indexes every member pair of every conflict.
func conflictedPairs(conflicts []review.Conflict) map[string]bool {
	out := make(map[string]bool)
	for _, c := range conflicts {
		for i := 0; i < len(c.Members); i++ {
			for j := i + 1; j < len(c.Members); j++ {
				out[memberKey(c.Members[i], c.Members[j])] = true
			}
		}
	}
	return out
}

// memberKey builds an order-independent pair key.
func memberKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}
