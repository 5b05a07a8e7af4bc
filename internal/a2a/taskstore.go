package a2a

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TaskStore is a concurrency-safe in-memory store for tasks. Each role agent
// owns one; the coordinator never accesses it directly.
type TaskStore struct {
	mu    sync.RWMutex
	tasks map[string]*Task
	order []string
}

// NewTaskStore creates an empty task store.
func NewTaskStore() *TaskStore {
	return &TaskStore{
		tasks: make(map[string]*Task),
	}
}

// NewTaskID generates a unique task identifier.
func NewTaskID() string {
	return uuid.NewString()
}

// Create inserts a new task. It fails if the ID is already taken.
func (s *TaskStore) Create(task *Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[task.ID]; exists {
		return fmt.Errorf("a2a: task %q already exists", task.ID)
	}

	if task.Status.Timestamp.IsZero() {
		task.Status.Timestamp = time.Now()
	}

	s.tasks[task.ID] = task
	s.order = append(s.order, task.ID)
	return nil
}

// Get returns a deep copy of the task with the given ID.
func (s *TaskStore) Get(id string) (*Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, fmt.Errorf("a2a: task %q not found", id)
	}
	return deepCopyTask(task), nil
}

// Update applies fn to the stored task under the write lock and stamps the
// status timestamp.
func (s *TaskStore) Update(id string, fn func(*Task)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return fmt.Errorf("a2a: task %q not found", id)
	}

	fn(task)
	task.Status.Timestamp = time.Now()
	return nil
}

// List returns deep copies of all tasks in insertion order.
func (s *TaskStore) List() []*Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Task, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, deepCopyTask(s.tasks[id]))
	}
	return out
}

// deepCopyTask copies a task so callers cannot mutate stored state.
func deepCopyTask(t *Task) *Task {
	cp := *t

	if t.Artifacts != nil {
		cp.Artifacts = make([]Artifact, len(t.Artifacts))
		for i, a := range t.Artifacts {
			cp.Artifacts[i] = a
			cp.Artifacts[i].Parts = append([]Part(nil), a.Parts...)
		}
	}

	if t.History != nil {
		cp.History = make([]Message, len(t.History))
		for i, m := range t.History {
			cp.History[i] = m
			cp.History[i].Parts = append([]Part(nil), m.Parts...)
		}
	}

	if t.Status.Message != nil {
		msg := *t.Status.Message
		msg.Parts = append([]Part(nil), t.Status.Message.Parts...)
		cp.Status.Message = &msg
	}

	return &cp
}
