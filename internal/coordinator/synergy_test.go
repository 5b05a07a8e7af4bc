package coordinator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/crosscheck/internal/review"
	"github.com/dusk-indust/crosscheck/internal/source"
)

func TestDetectSynergiesValidationPlusExtraction(t *testing.T) {
	a := finding("a", "security", "missing-input-validation", review.SeverityHigh, loc(5, 5))
	a.ImpactScore = 7
	b := finding("b", "clean-structure", "extract-validation-into-function", review.SeverityMedium, loc(5, 8))
	b.ImpactScore = 4

	synergies := DetectSynergies([]review.Finding{a, b}, nil, nil)
	require.Len(t, synergies, 1)
	assert.ElementsMatch(t, []string{"a", "b"}, synergies[0].Members)
	assert.Greater(t, synergies[0].CombinedValue, a.ImpactScore)
	assert.Greater(t, synergies[0].CombinedValue, b.ImpactScore)
}

func TestCombinedValueMonotonicity(t *testing.T) {
	cases := [][2]float64{{7, 4}, {0, 0}, {10, 0.1}, {0.5, 0.5}}
	for _, c := range cases {
		v := combinedValue(c[0], c[1])
		maxMember := c[0]
		if c[1] > maxMember {
			maxMember = c[1]
		}
		assert.GreaterOrEqual(t, v, maxMember, "combined value must never undercut the largest member (%v)", c)
	}
}

func TestDetectSynergiesSkipsConflictedPairs(t *testing.T) {
	a := finding("a", "security", "missing-input-validation", review.SeverityHigh, loc(5, 5))
	b := finding("b", "clean-structure", "extract-validation-into-function", review.SeverityMedium, loc(5, 8))

	conflicts := []review.Conflict{{ID: "c1", Members: []string{"a", "b"}}}
	assert.Empty(t, DetectSynergies([]review.Finding{a, b}, conflicts, nil))
}

func TestDetectSynergiesAdjacency(t *testing.T) {
	a := finding("a", "testability", "add-test-seam", review.SeverityMedium, loc(10, 12))
	b := finding("b", "architecture", "extract-dependency", review.SeverityMedium, loc(15, 18))

	// Gap of 2 lines: adjacent.
	synergies := DetectSynergies([]review.Finding{a, b}, nil, nil)
	require.Len(t, synergies, 1)

	// Move b far away: no synergy.
	far := b
	far.Location = loc(200, 210)
	assert.Empty(t, DetectSynergies([]review.Finding{a, far}, nil, nil))
}

func TestDetectSynergiesSameDeclarationViaOutline(t *testing.T) {
	a := finding("a", "testability", "add-test-seam", review.SeverityMedium, loc(10, 11))
	b := finding("b", "architecture", "extract-dependency", review.SeverityMedium, loc(40, 42))

	// Without an outline the findings are too far apart.
	assert.Empty(t, DetectSynergies([]review.Finding{a, b}, nil, nil))

	// An outline placing both inside one declaration links them.
	outline := &source.Outline{
		Language:  source.LangGo,
		LineCount: 60,
		Decls: []source.Decl{
			{Name: "Process", Kind: source.DeclFunction, StartLine: 5, EndLine: 50},
		},
	}
	synergies := DetectSynergies([]review.Finding{a, b}, nil, outline)
	require.Len(t, synergies, 1)
}

func TestDetectSynergiesNoComplementaryMatch(t *testing.T) {
	a := finding("a", "security", "hardcoded-secret", review.SeverityCritical, loc(3, 3))
	b := finding("b", "efficiency", "quadratic-loop", review.SeverityHigh, loc(3, 6))

	assert.Empty(t, DetectSynergies([]review.Finding{a, b}, nil, nil))
}
