package roles

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/crosscheck/internal/a2a"
)

// cannedClient returns a fixed payload (or error) for every prompt.
type cannedClient struct {
	payload string
	err     error
	prompts []string
}

func (c *cannedClient) GenerateJSON(_ context.Context, prompt string) (json.RawMessage, error) {
	c.prompts = append(c.prompts, prompt)
	if c.err != nil {
		return nil, c.err
	}
	return json.RawMessage(c.payload), nil
}

func (c *cannedClient) Name() string { return "canned" }

func (c *cannedClient) Close() error { return nil }

const validPayload = `[{
	"principle": "long-function",
	"severity": "medium",
	"confidence": 0.7,
	"impact_score": 4,
	"start_line": 1,
	"end_line": 30,
	"rationale": "function does too much"
}]`

func TestRoleAgentProducesFindings(t *testing.T) {
	client := &cannedClient{payload: validPayload}
	ag := NewRoleAgent(definitions[0], client, nil)

	msg, err := NewReviewMessage("ctx-1", ReviewRequest{Source: "func f() {}", Language: "go"})
	require.NoError(t, err)

	task, err := ag.HandleTask(context.Background(), a2a.Task{ID: "t1", ContextID: "ctx-1"}, msg)
	require.NoError(t, err)
	assert.Equal(t, a2a.TaskStateCompleted, task.Status.State)

	findings, err := ExtractFindings(task)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, string(CleanStructure), findings[0].Role)
	assert.Equal(t, "long-function", findings[0].Principle)

	// The prompt sent to the model carries the role instruction and source.
	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], definitions[0].Instruction)
	assert.Contains(t, client.prompts[0], "func f() {}")
}

func TestRoleAgentMarksSchemaFailures(t *testing.T) {
	client := &cannedClient{payload: `{"not": "an array"}`}
	ag := NewRoleAgent(definitions[1], client, nil)

	msg, err := NewReviewMessage("ctx-1", ReviewRequest{Source: "x", Language: "go"})
	require.NoError(t, err)

	task, handleErr := ag.HandleTask(context.Background(), a2a.Task{ID: "t1"}, msg)
	require.Error(t, handleErr)
	require.NotNil(t, task)
	assert.Equal(t, a2a.TaskStateFailed, task.Status.State)

	require.NotNil(t, task.Status.Message)
	failMsg := task.Status.Message.Parts[0].Text
	assert.True(t, IsSchemaFailure(failMsg), failMsg)
}

func TestRoleAgentPropagatesModelErrors(t *testing.T) {
	client := &cannedClient{err: errors.New("backend unavailable")}
	ag := NewRoleAgent(definitions[2], client, nil)

	msg, err := NewReviewMessage("ctx-1", ReviewRequest{Source: "x", Language: "go"})
	require.NoError(t, err)

	task, handleErr := ag.HandleTask(context.Background(), a2a.Task{ID: "t1"}, msg)
	require.Error(t, handleErr)
	assert.Equal(t, a2a.TaskStateFailed, task.Status.State)
	assert.False(t, IsSchemaFailure(task.Status.Message.Parts[0].Text))
}

// findFreePortRun probes for a run of n sequential free ports.
func findFreePortRun(t *testing.T, n int) int {
	t.Helper()
	for attempt := 0; attempt < 10; attempt++ {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		base := ln.Addr().(*net.TCPAddr).Port
		ln.Close()

		ok := true
		for i := 1; i < n; i++ {
			probe, err := net.Listen("tcp", (&net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: base + i}).String())
			if err != nil {
				ok = false
				break
			}
			probe.Close()
		}
		if ok {
			return base
		}
	}
	t.Fatal("could not find a free port run")
	return 0
}

func TestRegistrySpawnAllAndStopAll(t *testing.T) {
	reg := NewRegistry(&cannedClient{payload: `[]`}, nil)

	basePort := findFreePortRun(t, len(All()))
	endpoints, err := reg.SpawnAll(context.Background(), basePort)
	require.NoError(t, err)
	require.Len(t, endpoints, 5)

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		reg.StopAll(ctx)
	}()

	time.Sleep(50 * time.Millisecond)

	// Every role is discoverable at its endpoint.
	client := a2a.NewHTTPClient(a2a.WithTimeout(2 * time.Second))
	for name, base := range endpoints {
		card, err := client.DiscoverAgent(context.Background(), base)
		require.NoError(t, err, "discover %s", name)
		assert.Equal(t, string(name)+"-agent", card.Name)
	}
}

func TestRegistrySpawnUnknownRole(t *testing.T) {
	reg := NewRegistry(&cannedClient{payload: `[]`}, nil)

	_, err := reg.Spawn(Name("nonexistent"))
	assert.Error(t, err)
}
