package coordinator

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dusk-indust/crosscheck/internal/review"
	"github.com/dusk-indust/crosscheck/internal/roles"
)

// rolePair is an unordered pair of role names used as a rule-table key.
type rolePair struct {
	a, b roles.Name
}

func pairOf(a, b string) rolePair {
	if a > b {
		a, b = b, a
	}
	return rolePair{a: roles.Name(a), b: roles.Name(b)}
}

// contradictionPairs lists principle keyword pairs that name literally
// incompatible edits: applying one undoes the other.
var contradictionPairs = [][2]string{
	{"extract", "inline"},
	{"split", "merge"},
	{"add", "remove"},
	{"expand", "shorten"},
}

// philosophicalPattern marks a role pair whose findings, when they share a
// range and match the keyword signature, express diverging optimization
// goals rather than an editable contradiction.
type philosophicalPattern struct {
	pair      rolePair
	aKeywords []string // matched against either member
	bKeywords []string // matched against the other member
	theme     string
}

// philosophicalPatterns is the role-pair whitelist with principle keyword
// signatures. A pair absent from this table is never classified as a
// philosophical trade-off.
var philosophicalPatterns = []philosophicalPattern{
	{
		pair:      pairOf(string(roles.Efficiency), string(roles.CleanStructure)),
		aKeywords: []string{"inline", "cache", "performance", "optimiz", "alloc"},
		bKeywords: []string{"extract", "readab", "clarity", "simplif", "naming"},
		theme:     "performance vs readability",
	},
	{
		pair:      pairOf(string(roles.Security), string(roles.CleanStructure)),
		aKeywords: []string{"validat", "sanitiz", "check", "defens"},
		bKeywords: []string{"simplif", "shorten", "readab", "remove"},
		theme:     "security vs simplicity",
	},
	{
		pair:      pairOf(string(roles.Security), string(roles.Efficiency)),
		aKeywords: []string{"validat", "sanitiz", "check", "encrypt"},
		bKeywords: []string{"cache", "skip", "fast", "optimiz"},
		theme:     "security vs performance",
	},
	{
		pair:      pairOf(string(roles.Architecture), string(roles.CleanStructure)),
		aKeywords: []string{"abstract", "layer", "interface", "pattern"},
		bKeywords: []string{"simplif", "direct", "inline", "flatten"},
		theme:     "abstraction vs simplicity",
	},
	{
		pair:      pairOf(string(roles.Architecture), string(roles.Efficiency)),
		aKeywords: []string{"abstract", "layer", "interface", "boundar"},
		bKeywords: []string{"inline", "cache", "optimiz", "direct"},
		theme:     "abstraction vs performance",
	},
}

// DetectConflicts scans the merged finding set for pairs whose
// recommendations cannot all be applied as-is. Classification precedence
// within an overlapping pair:
//
//  1. same principle, different severity  -> priority-disagreement
//  2. contradictory edits or principles   -> overlapping-location-contradiction
//  3. whitelisted role pair + signature   -> philosophical-tradeoff
//
// Pairs matching none of the rules are compatible independent observations,
// not conflicts. Findings from the same role never conflict with each other.
func DetectConflicts(findings []review.Finding) []review.Conflict {
	var conflicts []review.Conflict

	for i := 0; i < len(findings); i++ {
		for j := i + 1; j < len(findings); j++ {
			a, b := findings[i], findings[j]
			if a.Role == b.Role {
				continue
			}
			if !a.Location.Intersects(b.Location) {
				continue
			}

			kind, desc, ok := classifyPair(a, b)
			if !ok {
				continue
			}

			impact := a.ImpactScore
			if b.ImpactScore > impact {
				impact = b.ImpactScore
			}

			conflicts = append(conflicts, review.Conflict{
				ID:          uuid.NewString(),
				Kind:        kind,
				Members:     []string{a.ID, b.ID},
				Description: desc,
				Impact:      impact,
				Status:      review.ConflictDetected,
			})
		}
	}
	return conflicts
}

// classifyPair applies the rule tables to one overlapping pair.
func classifyPair(a, b review.Finding) (review.ConflictKind, string, bool) {
	if samePrinciple(a, b) {
		if a.Severity == b.Severity {
			// Full agreement is not a conflict.
			return "", "", false
		}
		return review.ConflictPriority, fmt.Sprintf(
			"%s and %s agree on %q at %s but rank it %s vs %s",
			a.Role, b.Role, a.Principle, a.Location, a.Severity, b.Severity,
		), true
	}

	if contradictoryEdits(a, b) {
		return review.ConflictOverlapping, fmt.Sprintf(
			"%s (%s) and %s (%s) propose incompatible edits at %s",
			a.Role, a.Principle, b.Role, b.Principle, a.Location,
		), true
	}

	if theme, ok := philosophicalMatch(a, b); ok {
		return review.ConflictPhilosophical, fmt.Sprintf(
			"%s (%s) and %s (%s) pull in different directions at %s: %s",
			a.Role, a.Principle, b.Role, b.Principle, a.Location, theme,
		), true
	}

	return "", "", false
}

// samePrinciple normalizes principle labels before comparing.
func samePrinciple(a, b review.Finding) bool {
	return normalizePrinciple(a.Principle) == normalizePrinciple(b.Principle)
}

func normalizePrinciple(p string) string {
	p = strings.ToLower(strings.TrimSpace(p))
	return strings.NewReplacer(" ", "-", "_", "-").Replace(p)
}

// contradictoryEdits reports whether the pair's recommendations are literally
// incompatible: either both carry differing suggested edits for intersecting
// text, or their principles form a known contradictory pair.
func contradictoryEdits(a, b review.Finding) bool {
	if a.SuggestedSnippet != "" && b.SuggestedSnippet != "" && a.SuggestedSnippet != b.SuggestedSnippet {
		return true
	}

	pa, pb := normalizePrinciple(a.Principle), normalizePrinciple(b.Principle)
	for _, pair := range contradictionPairs {
		if (strings.Contains(pa, pair[0]) && strings.Contains(pb, pair[1])) ||
			(strings.Contains(pa, pair[1]) && strings.Contains(pb, pair[0])) {
			return true
		}
	}
	return false
}

// philosophicalMatch checks the role-pair whitelist and keyword signatures.
func philosophicalMatch(a, b review.Finding) (string, bool) {
	pair := pairOf(a.Role, b.Role)
	pa, pb := normalizePrinciple(a.Principle), normalizePrinciple(b.Principle)

	for _, pat := range philosophicalPatterns {
		if pat.pair != pair {
			continue
		}
		if (containsAny(pa, pat.aKeywords) && containsAny(pb, pat.bKeywords)) ||
			(containsAny(pb, pat.aKeywords) && containsAny(pa, pat.bKeywords)) {
			return pat.theme, true
		}
	}
	return "", false
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
