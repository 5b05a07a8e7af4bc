package mcptools

import (
	"github.com/dusk-indust/crosscheck/internal/insights"
	"github.com/dusk-indust/crosscheck/internal/review"
)

// --- MCP Tool Input Types ---
// These structs define the JSON schema for each MCP tool's input.
// The MCP Go SDK auto-generates JSON schemas from struct tags.

// ReviewCodeInput is the input for the review_code MCP tool.
type ReviewCodeInput struct {
	Source   string   `json:"source" jsonschema:"the source code to review"`
	Language string   `json:"language" jsonschema:"source language tag: go, python, rust, typescript"`
	Roles    []string `json:"roles,omitempty" jsonschema:"analyzer roles to run (default: all). Values: clean-structure, security, efficiency, architecture, testability"`
	Priority string   `json:"priority,omitempty" jsonschema:"project priority guiding conflict resolution: security, performance, maintainability, balanced"`
}

// ReviewCodeOutput is the result of the review_code MCP tool.
type ReviewCodeOutput struct {
	Report review.Report `json:"report"`
}

// RecordFeedbackInput is the input for the record_feedback MCP tool.
type RecordFeedbackInput struct {
	RunID      string `json:"runId" jsonschema:"the run that produced the resolution"`
	ConflictID string `json:"conflictId" jsonschema:"the resolved conflict being judged"`
	Outcome    string `json:"outcome" jsonschema:"what the developer did with the resolution: accepted, edited, rejected"`
	Note       string `json:"note,omitempty" jsonschema:"optional free-form comment"`
}

// RecordFeedbackOutput is the result of the record_feedback MCP tool.
type RecordFeedbackOutput struct {
	Strategy string              `json:"strategy"`
	Kind     review.ConflictKind `json:"kind"`
}

// StrategyInsightsInput is the input for the strategy_insights MCP tool.
type StrategyInsightsInput struct{}

// StrategyInsightsOutput is the result of the strategy_insights MCP tool.
type StrategyInsightsOutput struct {
	Summary insights.Summary `json:"summary"`
}
