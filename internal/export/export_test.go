package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/crosscheck/internal/review"
)

func sampleReport() *review.Report {
	a := review.Finding{
		ID: "a", Role: "clean-structure", Principle: "extract-function",
		Severity: review.SeverityMedium, Confidence: 0.8, ImpactScore: 5,
		Location: &review.Location{StartLine: 10, EndLine: 15},
	}
	b := review.Finding{
		ID: "b", Role: "efficiency", Principle: "inline-for-performance",
		Severity: review.SeverityHigh, Confidence: 0.8, ImpactScore: 6,
		Location: &review.Location{StartLine: 10, EndLine: 15},
	}
	c := review.Finding{
		ID: "c", Role: "security", Principle: "missing-input-validation",
		Severity: review.SeverityHigh, Confidence: 0.9, ImpactScore: 7,
		Location: &review.Location{StartLine: 5, EndLine: 5},
	}

	return &review.Report{
		RunID:    "run-1",
		Language: "go",
		Findings: []review.Finding{c, b},
		Conflicts: []review.Conflict{{
			ID: "c1", Kind: review.ConflictOverlapping,
			Members: []string{"a", "b"}, Status: review.ConflictResolved,
		}},
		Resolutions: []review.Resolution{{
			ConflictID: "c1", Strategy: "prefer-higher-severity", Resolved: b,
		}},
		Synergies: []review.Synergy{{
			ID: "s1", Members: []string{"c", "a"}, CombinedValue: 14.4,
		}},
		RoleOutcomes: []review.RoleOutcome{
			{Role: "clean-structure", Findings: []review.Finding{a}},
			{Role: "efficiency", Findings: []review.Finding{b}},
			{Role: "security", Findings: []review.Finding{c}},
		},
		CollaborationScore: 82,
		Elapsed:            3 * time.Second,
	}
}

func TestExportJSONRoundTrip(t *testing.T) {
	data, err := ExportJSON(sampleReport())
	require.NoError(t, err)

	var export ReportExport
	require.NoError(t, json.Unmarshal(data, &export))

	assert.Equal(t, "run-1", export.Report.RunID)
	assert.NotEmpty(t, export.ExportedAt)
	_, err = time.Parse(time.RFC3339, export.ExportedAt)
	assert.NoError(t, err)
	require.Len(t, export.Report.Conflicts, 1)
	assert.Equal(t, review.ConflictOverlapping, export.Report.Conflicts[0].Kind)
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, WriteJSON(sampleReport(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var export ReportExport
	require.NoError(t, json.Unmarshal(data, &export))
	assert.Equal(t, "run-1", export.Report.RunID)
}

func TestGenerateMermaid(t *testing.T) {
	diagram := GenerateMermaid(sampleReport())

	assert.True(t, len(diagram) > 0)
	assert.Contains(t, diagram, "graph TD")

	// One subgraph per role with findings.
	assert.Contains(t, diagram, "[\"clean-structure\"]")
	assert.Contains(t, diagram, "[\"efficiency\"]")
	assert.Contains(t, diagram, "[\"security\"]")

	// Finding labels carry principle and location.
	assert.Contains(t, diagram, "extract-function L10-L15")
	assert.Contains(t, diagram, "missing-input-validation L5")

	// Conflict and synergy edges.
	assert.Contains(t, diagram, string(review.ConflictOverlapping))
	assert.Contains(t, diagram, "synergy")
}

func TestGenerateMermaidSkipsFailedRoles(t *testing.T) {
	report := &review.Report{
		RunID: "run-2",
		RoleOutcomes: []review.RoleOutcome{
			{Role: "security", Failure: &review.RoleFailure{
				Role: "security", Kind: review.FailureTimeout, Message: "deadline",
			}},
		},
	}

	diagram := GenerateMermaid(report)
	assert.NotContains(t, diagram, "subgraph")
}
