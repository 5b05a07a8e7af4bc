package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/crosscheck/internal/a2a"
	"github.com/dusk-indust/crosscheck/internal/review"
)

func TestBuildPromptNumbersLines(t *testing.T) {
	def, ok := Lookup(Security)
	require.True(t, ok)

	prompt := BuildPrompt(def, ReviewRequest{
		Source:   "package main\n\nfunc main() {}",
		Language: "go",
	})

	assert.Contains(t, prompt, def.Instruction)
	assert.Contains(t, prompt, "Language: go")
	assert.Contains(t, prompt, "   1| package main")
	assert.Contains(t, prompt, "   3| func main() {}")
}

func TestParseFindingsValid(t *testing.T) {
	data := []byte(`[
		{
			"principle": "sql-injection",
			"severity": "critical",
			"confidence": 0.9,
			"impact_score": 9.5,
			"start_line": 12,
			"end_line": 14,
			"rationale": "query built by string concatenation"
		},
		{
			"principle": "missing-validation",
			"severity": "high",
			"confidence": 0.8,
			"impact_score": 7,
			"start_line": 0,
			"end_line": 0,
			"rationale": "no bounds check on user input"
		}
	]`)

	findings, err := ParseFindings(Security, data)
	require.NoError(t, err)
	require.Len(t, findings, 2)

	assert.Equal(t, "security", findings[0].Role)
	assert.NotEmpty(t, findings[0].ID)
	require.NotNil(t, findings[0].Location)
	assert.Equal(t, 12, findings[0].Location.StartLine)
	assert.Equal(t, 14, findings[0].Location.EndLine)

	// start_line 0 means whole-file.
	assert.Nil(t, findings[1].Location)
}

func TestParseFindingsEmptyArray(t *testing.T) {
	findings, err := ParseFindings(Efficiency, []byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestParseFindingsRejectsBadPayloads(t *testing.T) {
	cases := map[string]string{
		"not json":          `findings: none`,
		"not an array":      `{"principle": "x"}`,
		"unknown field":     `[{"principle": "x", "severity": "low", "confidence": 0.5, "impact_score": 1, "rationale": "r", "extra": true}]`,
		"unknown severity":  `[{"principle": "x", "severity": "catastrophic", "confidence": 0.5, "impact_score": 1, "rationale": "r"}]`,
		"confidence > 1":    `[{"principle": "x", "severity": "low", "confidence": 1.5, "impact_score": 1, "rationale": "r"}]`,
		"impact > 10":       `[{"principle": "x", "severity": "low", "confidence": 0.5, "impact_score": 11, "rationale": "r"}]`,
		"empty principle":   `[{"principle": "", "severity": "low", "confidence": 0.5, "impact_score": 1, "rationale": "r"}]`,
		"negative impact":   `[{"principle": "x", "severity": "low", "confidence": 0.5, "impact_score": -1, "rationale": "r"}]`,
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseFindings(CleanStructure, []byte(payload))
			assert.Error(t, err)
		})
	}
}

func TestParseFindingsClampsInvertedRange(t *testing.T) {
	data := []byte(`[{"principle": "x", "severity": "low", "confidence": 0.5, "impact_score": 1, "start_line": 10, "end_line": 3, "rationale": "r"}]`)

	findings, err := ParseFindings(CleanStructure, data)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	require.NotNil(t, findings[0].Location)
	assert.Equal(t, 10, findings[0].Location.StartLine)
	assert.Equal(t, 10, findings[0].Location.EndLine)
}

func TestReviewMessageRoundTrip(t *testing.T) {
	msg, err := NewReviewMessage("ctx-1", ReviewRequest{Source: "x = 1", Language: "python"})
	require.NoError(t, err)

	req, err := DecodeReviewRequest(msg)
	require.NoError(t, err)
	assert.Equal(t, "x = 1", req.Source)
	assert.Equal(t, "python", req.Language)
}

func TestDecodeReviewRequestRejectsEmpty(t *testing.T) {
	_, err := DecodeReviewRequest(a2a.Message{Parts: []a2a.Part{a2a.TextPart("hello")}})
	assert.Error(t, err)
}

func TestFindingsArtifactRoundTrip(t *testing.T) {
	findings := []review.Finding{{
		ID:         "f1",
		Role:       "security",
		Principle:  "sql-injection",
		Severity:   review.SeverityCritical,
		Confidence: 0.9,
		Rationale:  "r",
	}}

	art, err := FindingsArtifact(Security, findings)
	require.NoError(t, err)
	assert.Equal(t, FindingsArtifactName, art.Name)

	task := &a2a.Task{ID: "t1", Artifacts: []a2a.Artifact{art}}
	got, err := ExtractFindings(task)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "f1", got[0].ID)
}

func TestExtractFindingsMissingArtifact(t *testing.T) {
	_, err := ExtractFindings(&a2a.Task{ID: "t1"})
	assert.Error(t, err)
}
