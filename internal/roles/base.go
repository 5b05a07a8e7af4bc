package roles

import (
	"context"
	"fmt"
	"time"

	"github.com/dusk-indust/crosscheck/internal/a2a"
)

// Compile-time interface checks.
var (
	_ Agent       = (*BaseAgent)(nil)
	_ a2a.Handler = (*BaseAgent)(nil)
)

// ProcessFunc is what a concrete role supplies: given the working task and
// the incoming message, produce the artifacts for the completed task.
type ProcessFunc func(ctx context.Context, task *a2a.Task, msg a2a.Message) ([]a2a.Artifact, error)

// Agent is the lifecycle interface every analyzer agent implements.
type Agent interface {
	// Card returns the agent's A2A Agent Card.
	Card() a2a.AgentCard

	// HandleTask processes a task with a message and returns the settled task.
	HandleTask(ctx context.Context, task a2a.Task, msg a2a.Message) (*a2a.Task, error)

	// Start launches the agent's HTTP server on the given address.
	Start(ctx context.Context, addr string) error

	// Stop gracefully shuts down the agent.
	Stop(ctx context.Context) error
}

// BaseAgent carries the A2A plumbing shared by every role agent: server,
// task store, and the submitted -> working -> terminal state walk. Concrete
// roles embed it and supply a ProcessFunc.
type BaseAgent struct {
	server  *a2a.Server
	store   *a2a.TaskStore
	card    a2a.AgentCard
	process ProcessFunc
}

// NewBaseAgent creates a BaseAgent with the given card and process function.
func NewBaseAgent(card a2a.AgentCard, process ProcessFunc) *BaseAgent {
	b := &BaseAgent{
		store:   a2a.NewTaskStore(),
		card:    card,
		process: process,
	}
	b.server = a2a.NewServer(card, b)
	return b
}

// Card returns the agent's A2A Agent Card.
func (b *BaseAgent) Card() a2a.AgentCard {
	return b.card
}

// Start launches the agent's HTTP server on the given address.
func (b *BaseAgent) Start(ctx context.Context, addr string) error {
	return b.server.Start(ctx, addr)
}

// Stop gracefully shuts down the agent.
func (b *BaseAgent) Stop(ctx context.Context) error {
	return b.server.Stop(ctx)
}

// Addr returns the address the agent is serving on. Valid after Start.
func (b *BaseAgent) Addr() string {
	return b.server.Addr().String()
}

// HandleTask walks the task through its states around the process function.
func (b *BaseAgent) HandleTask(ctx context.Context, task a2a.Task, msg a2a.Message) (*a2a.Task, error) {
	task.Status = a2a.TaskStatus{
		State:     a2a.TaskStateSubmitted,
		Timestamp: time.Now(),
	}
	task.History = append(task.History, msg)
	if err := b.store.Create(&task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	if err := b.store.Update(task.ID, func(t *a2a.Task) {
		t.Status.State = a2a.TaskStateWorking
	}); err != nil {
		return nil, fmt.Errorf("mark task working: %w", err)
	}

	artifacts, err := b.process(ctx, &task, msg)
	if err != nil {
		_ = b.store.Update(task.ID, func(t *a2a.Task) {
			t.Status = a2a.TaskStatus{
				State:   a2a.TaskStateFailed,
				Message: &a2a.Message{Role: a2a.RoleAgent, Parts: []a2a.Part{a2a.TextPart(err.Error())}},
			}
		})
		result, _ := b.store.Get(task.ID)
		return result, err
	}

	if err := b.store.Update(task.ID, func(t *a2a.Task) {
		t.Status.State = a2a.TaskStateCompleted
		t.Artifacts = artifacts
	}); err != nil {
		return nil, fmt.Errorf("mark task completed: %w", err)
	}

	return b.store.Get(task.ID)
}

// --- a2a.Handler implementation ---

// HandleSendMessage creates a task from the incoming message and processes it
// synchronously.
func (b *BaseAgent) HandleSendMessage(ctx context.Context, req a2a.SendMessageRequest) (*a2a.Task, error) {
	task := a2a.Task{
		ID:        a2a.NewTaskID(),
		ContextID: req.Message.ContextID,
	}
	return b.HandleTask(ctx, task, req.Message)
}

// HandleGetTask retrieves a task by ID from the store.
func (b *BaseAgent) HandleGetTask(_ context.Context, req a2a.GetTaskRequest) (*a2a.Task, error) {
	return b.store.Get(req.ID)
}

// HandleCancelTask cancels a task that has not yet settled.
func (b *BaseAgent) HandleCancelTask(_ context.Context, req a2a.CancelTaskRequest) (*a2a.Task, error) {
	err := b.store.Update(req.ID, func(t *a2a.Task) {
		if !t.Status.State.IsTerminal() {
			t.Status = a2a.TaskStatus{State: a2a.TaskStateCanceled}
		}
	})
	if err != nil {
		return nil, err
	}
	return b.store.Get(req.ID)
}
