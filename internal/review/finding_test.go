package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func loc(start, end int) *Location {
	return &Location{StartLine: start, EndLine: end}
}

func TestLocationIntersects(t *testing.T) {
	tests := []struct {
		name string
		a, b *Location
		want bool
	}{
		{"overlapping ranges", loc(10, 15), loc(12, 20), true},
		{"identical ranges", loc(5, 8), loc(5, 8), true},
		{"touching at boundary", loc(1, 10), loc(10, 12), true},
		{"disjoint ranges", loc(1, 5), loc(7, 9), false},
		{"whole-file vs range", nil, loc(3, 4), true},
		{"range vs whole-file", loc(3, 4), nil, true},
		{"two whole-file findings", nil, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Intersects(tt.b))
			assert.Equal(t, tt.want, tt.b.Intersects(tt.a), "intersection must be symmetric")
		})
	}
}

func TestLocationContains(t *testing.T) {
	assert.True(t, loc(1, 20).Contains(loc(5, 10)))
	assert.False(t, loc(5, 10).Contains(loc(1, 20)))
	assert.True(t, loc(5, 10).Contains(loc(5, 10)))
	assert.True(t, (*Location)(nil).Contains(loc(1, 2)))
	assert.False(t, loc(1, 2).Contains(nil))
}

func TestLocationAdjacentWithin(t *testing.T) {
	assert.True(t, loc(1, 5).AdjacentWithin(loc(7, 9), 2))
	assert.True(t, loc(7, 9).AdjacentWithin(loc(1, 5), 2))
	assert.False(t, loc(1, 5).AdjacentWithin(loc(20, 22), 2))
	// Overlapping ranges are not adjacent.
	assert.False(t, loc(1, 5).AdjacentWithin(loc(4, 9), 2))
	// Whole-file findings overlap everything, so never adjacent.
	assert.False(t, (*Location)(nil).AdjacentWithin(loc(1, 2), 2))
}

func TestSeverityOrdering(t *testing.T) {
	assert.Greater(t, SeverityCritical.Rank(), SeverityHigh.Rank())
	assert.Greater(t, SeverityHigh.Rank(), SeverityMedium.Rank())
	assert.Greater(t, SeverityMedium.Rank(), SeverityLow.Rank())
	assert.Equal(t, 0, Severity("bogus").Rank())
	assert.Equal(t, SeverityHigh, MaxSeverity(SeverityMedium, SeverityHigh))
	assert.Equal(t, SeverityHigh, MaxSeverity(SeverityHigh, SeverityLow))
}

func TestFindingValidate(t *testing.T) {
	valid := Finding{
		ID:          "f1",
		Role:        "security",
		Location:    loc(5, 8),
		Principle:   "missing-input-validation",
		Severity:    SeverityHigh,
		Confidence:  0.9,
		ImpactScore: 7.5,
		Rationale:   "user input reaches the query unchecked",
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Finding)
	}{
		{"empty principle", func(f *Finding) { f.Principle = "" }},
		{"unknown severity", func(f *Finding) { f.Severity = "catastrophic" }},
		{"confidence above one", func(f *Finding) { f.Confidence = 1.2 }},
		{"negative confidence", func(f *Finding) { f.Confidence = -0.1 }},
		{"impact above ten", func(f *Finding) { f.ImpactScore = 11 }},
		{"inverted location", func(f *Finding) { f.Location = loc(9, 4) }},
		{"zero start line", func(f *Finding) { f.Location = loc(0, 4) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.mutate(&f)
			assert.Error(t, f.Validate())
		})
	}
}

func TestProjectContextNormalize(t *testing.T) {
	c := ProjectContext{Priority: "speed!!", TestCoverage: 1.5, TechnicalDebtLevel: "crushing"}
	n := c.Normalize()
	assert.Equal(t, PriorityBalanced, n.Priority)
	assert.Equal(t, 1.0, n.TestCoverage)
	assert.Equal(t, DebtMedium, n.TechnicalDebtLevel)

	keep := ProjectContext{Priority: PrioritySecurity, TestCoverage: 0.4, TechnicalDebtLevel: DebtHigh}
	assert.Equal(t, keep, keep.Normalize())
}
