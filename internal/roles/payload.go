package roles

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dusk-indust/crosscheck/internal/a2a"
	"github.com/dusk-indust/crosscheck/internal/review"
)

// FindingsArtifactName is the name of the artifact that carries a role's
// findings back to the coordinator.
const FindingsArtifactName = "findings"

// ReviewRequest is the structured payload the coordinator sends to a role
// agent as the data part of a message.
type ReviewRequest struct {
	Source   string `json:"source"`
	Language string `json:"language"`
}

// NewReviewMessage builds the A2A message for a review request.
func NewReviewMessage(contextID string, req ReviewRequest) (a2a.Message, error) {
	part, err := a2a.DataPart(req)
	if err != nil {
		return a2a.Message{}, fmt.Errorf("roles: encode review request: %w", err)
	}
	return a2a.Message{
		MessageID: uuid.NewString(),
		ContextID: contextID,
		Role:      a2a.RoleUser,
		Parts:     []a2a.Part{part},
	}, nil
}

// DecodeReviewRequest extracts the review request from an incoming message.
func DecodeReviewRequest(msg a2a.Message) (ReviewRequest, error) {
	for _, p := range msg.Parts {
		if len(p.Data) == 0 {
			continue
		}
		var req ReviewRequest
		if err := json.Unmarshal(p.Data, &req); err != nil {
			return ReviewRequest{}, fmt.Errorf("roles: decode review request: %w", err)
		}
		if req.Source == "" {
			return ReviewRequest{}, fmt.Errorf("roles: review request has empty source")
		}
		return req, nil
	}
	return ReviewRequest{}, fmt.Errorf("roles: message has no data part")
}

// rawFinding is the shape a role's model is asked to emit. It carries no ID
// or role; the agent stamps those after validation.
type rawFinding struct {
	Principle        string  `json:"principle"`
	Severity         string  `json:"severity"`
	Confidence       float64 `json:"confidence"`
	ImpactScore      float64 `json:"impact_score"`
	StartLine        int     `json:"start_line"`
	EndLine          int     `json:"end_line"`
	OriginalSnippet  string  `json:"original_snippet,omitempty"`
	SuggestedSnippet string  `json:"suggested_snippet,omitempty"`
	Rationale        string  `json:"rationale"`
}

// responseSchema documents the expected model output inside the prompt.
const responseSchema = `Respond with a JSON array only, no prose. Each element:
{
  "principle": "short name of the violated principle",
  "severity": "low" | "medium" | "high" | "critical",
  "confidence": 0.0 to 1.0,
  "impact_score": 0.0 to 10.0,
  "start_line": first affected line (1-based), or 0 if the whole file,
  "end_line": last affected line, or 0 if the whole file,
  "original_snippet": "the code as written (optional)",
  "suggested_snippet": "the code as it should be (optional)",
  "rationale": "one or two sentences on why this matters"
}
Return [] if you find nothing worth raising.`

// BuildPrompt assembles the full prompt for a role: instruction, response
// contract, then the numbered source.
func BuildPrompt(def Definition, req ReviewRequest) string {
	var b strings.Builder
	b.WriteString(def.Instruction)
	b.WriteString("\n\n")
	b.WriteString(responseSchema)
	b.WriteString("\n\nLanguage: ")
	b.WriteString(req.Language)
	b.WriteString("\n\nSource under review:\n")

	for i, line := range strings.Split(req.Source, "\n") {
		fmt.Fprintf(&b, "%4d| %s\n", i+1, line)
	}
	return b.String()
}

// ParseFindings decodes and validates a model response for the given role.
// Any structural violation fails the whole response; partial salvage would
// hide schema drift from the coordinator.
func ParseFindings(role Name, data []byte) ([]review.Finding, error) {
	var raw []rawFinding
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("roles: %s: decode findings: %w", role, err)
	}

	findings := make([]review.Finding, 0, len(raw))
	for i, r := range raw {
		f := review.Finding{
			ID:               uuid.NewString(),
			Role:             string(role),
			Principle:        r.Principle,
			Severity:         review.Severity(r.Severity),
			Confidence:       r.Confidence,
			ImpactScore:      r.ImpactScore,
			OriginalSnippet:  r.OriginalSnippet,
			SuggestedSnippet: r.SuggestedSnippet,
			Rationale:        r.Rationale,
		}
		if r.StartLine > 0 {
			end := r.EndLine
			if end < r.StartLine {
				end = r.StartLine
			}
			f.Location = &review.Location{StartLine: r.StartLine, EndLine: end}
		}
		if err := f.Validate(); err != nil {
			return nil, fmt.Errorf("roles: %s: finding %d: %w", role, i, err)
		}
		findings = append(findings, f)
	}
	return findings, nil
}

// FindingsArtifact wraps validated findings in an A2A artifact.
func FindingsArtifact(role Name, findings []review.Finding) (a2a.Artifact, error) {
	part, err := a2a.DataPart(findings)
	if err != nil {
		return a2a.Artifact{}, fmt.Errorf("roles: encode findings: %w", err)
	}
	return a2a.Artifact{
		ArtifactID:  uuid.NewString(),
		Name:        FindingsArtifactName,
		Description: fmt.Sprintf("%d findings from %s", len(findings), role),
		Parts:       []a2a.Part{part},
	}, nil
}

// ExtractFindings pulls the findings artifact out of a completed task on the
// coordinator side and re-validates each finding; agents are remote and not
// trusted to have done so.
func ExtractFindings(task *a2a.Task) ([]review.Finding, error) {
	for _, art := range task.Artifacts {
		if art.Name != FindingsArtifactName {
			continue
		}
		for _, p := range art.Parts {
			if len(p.Data) == 0 {
				continue
			}
			var findings []review.Finding
			if err := json.Unmarshal(p.Data, &findings); err != nil {
				return nil, fmt.Errorf("roles: decode findings artifact: %w", err)
			}
			for i := range findings {
				if err := findings[i].Validate(); err != nil {
					return nil, fmt.Errorf("roles: findings artifact: %w", err)
				}
				if findings[i].Role == "" {
					return nil, fmt.Errorf("roles: findings artifact: finding %d missing role", i)
				}
			}
			return findings, nil
		}
	}
	return nil, fmt.Errorf("roles: task %s has no findings artifact", task.ID)
}
