package board

import (
	"context"
	"strings"
	"time"

	"taskboard/internal/model"
)

// Service creates tasks for the signed-in user.
type Service struct {
	store TaskStore
	now   func() time.Time
}

func NewService(store TaskStore) *Service {
	return &Service{store: store, now: time.Now}
}

// CreateTask appends a task to the actor's own column. The clock reading
// becomes the priority so the task sorts after the actor's existing ones;
// the store lifts it further if needed.
func (s *Service) CreateTask(ctx context.Context, actor *model.User, title string) (*model.Task, error) {
	if actor == nil {
		return nil, ErrNoSession
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, &ValidationError{Field: "title", Reason: "must not be empty"}
	}

	now := s.now().UTC()
	task := &model.Task{
		Title:          title,
		AssignedTo:     actor.ID,
		AssignedToName: actor.Name,
		Status:         model.StatusInProgress,
		Priority:       now.UnixMilli(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.CreateTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}
