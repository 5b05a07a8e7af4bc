package roles

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/dusk-indust/crosscheck/internal/a2a"
	"github.com/dusk-indust/crosscheck/internal/llm"
	"github.com/dusk-indust/crosscheck/internal/source"
)

// schemaFailurePrefix marks task failures caused by the model emitting output
// that does not satisfy the findings contract. The coordinator keys off it
// when classifying failures.
const schemaFailurePrefix = "invalid model output"

// IsSchemaFailure reports whether a failed task's status message indicates a
// findings-contract violation rather than a transport or runtime fault.
func IsSchemaFailure(msg string) bool {
	return strings.Contains(msg, schemaFailurePrefix)
}

// RoleAgent is an analyzer agent for one role. It prompts a model with the
// role's instruction plus the source under review and returns validated
// findings as a task artifact.
type RoleAgent struct {
	*BaseAgent

	def    Definition
	client llm.Client
	log    *zap.Logger
}

// NewRoleAgent creates an agent for the given role definition backed by the
// given model client.
func NewRoleAgent(def Definition, client llm.Client, log *zap.Logger) *RoleAgent {
	if log == nil {
		log = zap.NewNop()
	}

	ra := &RoleAgent{
		def:    def,
		client: client,
		log:    log.With(zap.String("role", string(def.Name))),
	}

	card := a2a.AgentCard{
		Name:        string(def.Name) + "-agent",
		Description: def.Description,
		Version:     "dev",
		Skills: []a2a.AgentSkill{
			{
				ID:          "review-" + string(def.Name),
				Name:        "Review: " + string(def.Name),
				Description: def.Description,
				Tags:        def.FocusKeywords,
			},
		},
	}

	ra.BaseAgent = NewBaseAgent(card, ra.processMessage)
	return ra
}

// processMessage handles one review request end to end.
func (ra *RoleAgent) processMessage(ctx context.Context, task *a2a.Task, msg a2a.Message) ([]a2a.Artifact, error) {
	req, err := DecodeReviewRequest(msg)
	if err != nil {
		return nil, err
	}

	ra.log.Debug("reviewing source",
		zap.String("task", task.ID),
		zap.String("language", req.Language),
		zap.Int("sourceBytes", len(req.Source)),
	)

	prompt := BuildPrompt(ra.def, req)

	raw, err := ra.client.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("roles: %s: generate: %w", ra.def.Name, err)
	}

	findings, err := ParseFindings(ra.def.Name, raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", schemaFailurePrefix, err)
	}

	// Models often skip echoing the code they are commenting on; fill it in
	// from the source so downstream consumers see what the finding targets.
	for i := range findings {
		f := &findings[i]
		if f.OriginalSnippet == "" && f.Location != nil {
			f.OriginalSnippet = source.Excerpt(req.Source, f.Location.StartLine, f.Location.EndLine)
		}
	}

	ra.log.Info("review complete",
		zap.String("task", task.ID),
		zap.Int("findings", len(findings)),
	)

	artifact, err := FindingsArtifact(ra.def.Name, findings)
	if err != nil {
		return nil, err
	}
	return []a2a.Artifact{artifact}, nil
}
