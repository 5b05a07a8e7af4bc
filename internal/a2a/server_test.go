package a2a

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoHandler completes every message immediately, echoing its text back as
// an artifact.
type echoHandler struct {
	store *TaskStore
}

func (h *echoHandler) HandleSendMessage(ctx context.Context, req SendMessageRequest) (*Task, error) {
	var text string
	for _, p := range req.Message.Parts {
		if p.Text != "" {
			text = p.Text
		}
	}

	task := &Task{
		ID:        NewTaskID(),
		ContextID: req.Message.ContextID,
		Status:    TaskStatus{State: TaskStateCompleted},
		Artifacts: []Artifact{{
			ArtifactID: "echo",
			Name:       "echo",
			Parts:      []Part{TextPart(text)},
		}},
	}
	if err := h.store.Create(task); err != nil {
		return nil, err
	}
	return h.store.Get(task.ID)
}

func (h *echoHandler) HandleGetTask(ctx context.Context, req GetTaskRequest) (*Task, error) {
	return h.store.Get(req.ID)
}

func (h *echoHandler) HandleCancelTask(ctx context.Context, req CancelTaskRequest) (*Task, error) {
	if err := h.store.Update(req.ID, func(t *Task) {
		t.Status.State = TaskStateCanceled
	}); err != nil {
		return nil, err
	}
	return h.store.Get(req.ID)
}

func startTestServer(t *testing.T) (*Server, string) {
	t.Helper()

	card := AgentCard{
		Name:        "echo-agent",
		Description: "echoes messages",
		Version:     "0.1.0",
		Skills:      []AgentSkill{{ID: "echo", Name: "Echo", Description: "echoes text", Tags: []string{"test"}}},
	}

	srv := NewServer(card, &echoHandler{store: NewTaskStore()})
	require.NoError(t, srv.Start(context.Background(), "127.0.0.1:0"))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Stop(ctx)
	})

	return srv, "http://" + srv.Addr().String()
}

func TestServerAgentCard(t *testing.T) {
	_, base := startTestServer(t)

	client := NewHTTPClient()
	card, err := client.DiscoverAgent(context.Background(), base)
	require.NoError(t, err)
	assert.Equal(t, "echo-agent", card.Name)
	require.Len(t, card.Skills, 1)
	assert.Equal(t, "echo", card.Skills[0].ID)
}

func TestServerSendGetCancel(t *testing.T) {
	_, base := startTestServer(t)
	client := NewHTTPClient()
	ctx := context.Background()

	task, err := client.SendMessage(ctx, base, SendMessageRequest{
		Message: Message{
			MessageID: "m1",
			ContextID: "ctx-1",
			Role:      RoleUser,
			Parts:     []Part{TextPart("hello")},
		},
		Configuration: &SendMessageConfig{Blocking: true},
	})
	require.NoError(t, err)
	assert.Equal(t, TaskStateCompleted, task.Status.State)
	require.Len(t, task.Artifacts, 1)
	assert.Equal(t, "hello", task.Artifacts[0].Parts[0].Text)

	got, err := client.GetTask(ctx, base, GetTaskRequest{ID: task.ID})
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)

	canceled, err := client.CancelTask(ctx, base, CancelTaskRequest{ID: task.ID})
	require.NoError(t, err)
	assert.Equal(t, TaskStateCanceled, canceled.Status.State)
}

func TestServerUnknownTaskReturnsRPCError(t *testing.T) {
	_, base := startTestServer(t)
	client := NewHTTPClient()

	_, err := client.GetTask(context.Background(), base, GetTaskRequest{ID: "missing"})
	require.Error(t, err)

	var rpcErr *RPCError
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, ErrCodeInternal, rpcErr.Code)
}
