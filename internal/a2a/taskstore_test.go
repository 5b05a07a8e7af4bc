package a2a

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskStoreCreateAndGet(t *testing.T) {
	store := NewTaskStore()

	task := &Task{
		ID:        NewTaskID(),
		ContextID: "ctx-1",
		Status:    TaskStatus{State: TaskStateSubmitted},
	}

	require.NoError(t, store.Create(task))

	got, err := store.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)
	assert.Equal(t, TaskStateSubmitted, got.Status.State)
	assert.False(t, got.Status.Timestamp.IsZero())
}

func TestTaskStoreDuplicateCreate(t *testing.T) {
	store := NewTaskStore()

	task := &Task{ID: "t1"}
	require.NoError(t, store.Create(task))
	assert.Error(t, store.Create(&Task{ID: "t1"}))
}

func TestTaskStoreGetMissing(t *testing.T) {
	store := NewTaskStore()

	_, err := store.Get("nope")
	assert.Error(t, err)
}

func TestTaskStoreUpdate(t *testing.T) {
	store := NewTaskStore()

	require.NoError(t, store.Create(&Task{ID: "t1", Status: TaskStatus{State: TaskStateSubmitted}}))

	err := store.Update("t1", func(task *Task) {
		task.Status.State = TaskStateWorking
	})
	require.NoError(t, err)

	got, err := store.Get("t1")
	require.NoError(t, err)
	assert.Equal(t, TaskStateWorking, got.Status.State)
}

func TestTaskStoreGetReturnsCopy(t *testing.T) {
	store := NewTaskStore()

	require.NoError(t, store.Create(&Task{
		ID:        "t1",
		Artifacts: []Artifact{{ArtifactID: "a1", Parts: []Part{TextPart("hello")}}},
	}))

	got, err := store.Get("t1")
	require.NoError(t, err)

	got.Artifacts[0].Parts[0].Text = "mutated"
	got.Status.State = TaskStateFailed

	again, err := store.Get("t1")
	require.NoError(t, err)
	assert.Equal(t, "hello", again.Artifacts[0].Parts[0].Text)
	assert.NotEqual(t, TaskStateFailed, again.Status.State)
}

func TestTaskStoreListOrder(t *testing.T) {
	store := NewTaskStore()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Create(&Task{ID: id}))
	}

	tasks := store.List()
	require.Len(t, tasks, 3)
	assert.Equal(t, "a", tasks[0].ID)
	assert.Equal(t, "b", tasks[1].ID)
	assert.Equal(t, "c", tasks[2].ID)
}

func TestTaskStateIsTerminal(t *testing.T) {
	terminal := []TaskState{TaskStateCompleted, TaskStateFailed, TaskStateCanceled, TaskStateRejected}
	for _, s := range terminal {
		assert.True(t, s.IsTerminal(), string(s))
	}

	for _, s := range []TaskState{TaskStateSubmitted, TaskStateWorking, TaskStateUnspecified} {
		assert.False(t, s.IsTerminal(), string(s))
	}
}
