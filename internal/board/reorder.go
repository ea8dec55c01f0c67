package board

import (
	"context"
	"fmt"
	"time"

	"taskboard/internal/model"

	"github.com/google/uuid"
)

// Policy decides what a reorder does to task status. One deployment uses
// one policy for every call.
type Policy int

const (
	// PolicyStatusCoupled puts the new top task in progress and pauses the rest.
	PolicyStatusCoupled Policy = iota
	// PolicyStatusIndependent only renumbers priorities.
	PolicyStatusIndependent
)

func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "status-coupled", "":
		return PolicyStatusCoupled, nil
	case "status-independent":
		return PolicyStatusIndependent, nil
	}
	return 0, fmt.Errorf("unknown reorder policy %q", s)
}

func (p Policy) String() string {
	if p == PolicyStatusIndependent {
		return "status-independent"
	}
	return "status-coupled"
}

// TaskStore is the write side of the task store adapter.
type TaskStore interface {
	CreateTask(ctx context.Context, task *model.Task) error
	CommitBatch(ctx context.Context, updates []model.TaskUpdate) error
}

// ColumnSource yields the column currently shown for a user.
type ColumnSource interface {
	Column(userID string) (model.Column, bool)
}

// Coordinator turns a permutation of one column into a single atomic batch.
type Coordinator struct {
	store   TaskStore
	columns ColumnSource
	policy  Policy
	now     func() time.Time
}

func NewCoordinator(store TaskStore, columns ColumnSource, policy Policy) *Coordinator {
	return &Coordinator{
		store:   store,
		columns: columns,
		policy:  policy,
		now:     time.Now,
	}
}

func (c *Coordinator) Policy() Policy { return c.policy }

// Reorder persists taskIDs as the new order of userID's column: the task at
// index i gets priority i. taskIDs must be a permutation of the column's
// current tasks. The write is all-or-nothing and is never retried here, since
// a retried stale reorder could overwrite a newer one.
func (c *Coordinator) Reorder(ctx context.Context, actor *model.User, userID string, taskIDs []uuid.UUID) error {
	if actor == nil {
		return ErrNoSession
	}
	if !actor.CanEdit(userID) {
		return ErrForbidden
	}

	column, ok := c.columns.Column(userID)
	if !ok {
		return &ValidationError{Field: "user_id", Reason: "unknown column " + userID}
	}
	if err := checkPermutation(column, taskIDs); err != nil {
		return err
	}

	updates := c.plan(taskIDs)
	return c.store.CommitBatch(ctx, updates)
}

func (c *Coordinator) plan(taskIDs []uuid.UUID) []model.TaskUpdate {
	now := c.now().UTC()
	updates := make([]model.TaskUpdate, len(taskIDs))
	for i, id := range taskIDs {
		updates[i] = model.TaskUpdate{
			TaskID:    id,
			Priority:  int64(i),
			UpdatedAt: now,
		}
		if c.policy == PolicyStatusCoupled {
			updates[i].Status = model.StatusPaused
			if i == 0 {
				updates[i].Status = model.StatusInProgress
			}
		}
	}
	return updates
}

func checkPermutation(column model.Column, taskIDs []uuid.UUID) error {
	if len(taskIDs) != len(column.Tasks) {
		return &ValidationError{
			Field:  "task_ids",
			Reason: fmt.Sprintf("expected %d tasks, got %d", len(column.Tasks), len(taskIDs)),
		}
	}

	shown := make(map[uuid.UUID]bool, len(column.Tasks))
	for _, t := range column.Tasks {
		shown[t.ID] = false
	}
	for _, id := range taskIDs {
		seen, ok := shown[id]
		if !ok {
			return &ValidationError{Field: "task_ids", Reason: fmt.Sprintf("task %s is not in this column", id)}
		}
		if seen {
			return &ValidationError{Field: "task_ids", Reason: fmt.Sprintf("task %s listed twice", id)}
		}
		shown[id] = true
	}
	return nil
}
