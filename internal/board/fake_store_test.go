package board_test

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"taskboard/internal/board"
	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/google/uuid"
)

// memStore applies batches to a copy and swaps it in only when every update
// succeeded, the way a store transaction does. Successful writes are fed
// back into the engine, standing in for the live feed.
type memStore struct {
	mu        sync.Mutex
	tasks     []model.Task
	engine    *board.Engine
	failAt    int // index of the update that fails; -1 never
	batches   int
	creates   int
	createErr error
}

func newMemStore(engine *board.Engine, tasks ...model.Task) *memStore {
	s := &memStore{tasks: tasks, engine: engine, failAt: -1}
	engine.OnTasksChanged(tasks)
	return s
}

func (s *memStore) CreateTask(ctx context.Context, task *model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	if s.createErr != nil {
		return &repository.StoreWriteError{Op: "create task", Err: s.createErr}
	}
	task.ID = uuid.New()
	s.tasks = append(s.tasks, *task)
	s.engine.OnTasksChanged(s.tasks)
	return nil
}

func (s *memStore) CommitBatch(ctx context.Context, updates []model.TaskUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches++

	working := slices.Clone(s.tasks)
	for i, u := range updates {
		if i == s.failAt {
			return &repository.StoreWriteError{Op: "commit batch", Err: fmt.Errorf("connection reset at update %d", i)}
		}
		idx := slices.IndexFunc(working, func(t model.Task) bool { return t.ID == u.TaskID })
		if idx < 0 {
			return &repository.StoreWriteError{Op: "commit batch", Err: repository.ErrTaskNotFound}
		}
		working[idx].Priority = u.Priority
		working[idx].UpdatedAt = u.UpdatedAt
		if u.Status != "" {
			working[idx].Status = u.Status
		}
	}
	s.tasks = working
	s.engine.OnTasksChanged(s.tasks)
	return nil
}

func (s *memStore) snapshot() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.tasks)
}
