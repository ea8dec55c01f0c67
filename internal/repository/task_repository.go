package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"taskboard/internal/model"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts a new task. If task.Priority would not sort after every
// existing task of the same assignee it is raised to max+1, so priorities of
// one assignee only ever grow on creation.
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxPriority struct {
			Max int64
		}
		if err := tx.Model(&model.Task{}).
			Select("COALESCE(MAX(priority), 0) as max").
			Where("assigned_to = ?", task.AssignedTo).
			Scan(&maxPriority).Error; err != nil {
			return err
		}

		if task.Priority <= maxPriority.Max {
			task.Priority = maxPriority.Max + 1
		}
		return tx.Create(task).Error
	})
	return writeError("create task", err)
}

// List returns every task ordered by priority.
func (r *TaskRepository) List(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	result := r.db.WithContext(ctx).Order("priority").Order("created_at").Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// CommitBatch applies all updates in one transaction. Any failed update,
// including one that matches no row, rolls back the whole batch.
func (r *TaskRepository) CommitBatch(ctx context.Context, updates []model.TaskUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range updates {
			fields := map[string]interface{}{
				"priority":   u.Priority,
				"updated_at": u.UpdatedAt,
			}
			if u.Status != "" {
				fields["status"] = string(u.Status)
			}

			result := tx.Model(&model.Task{}).Where("id = ?", u.TaskID).Updates(fields)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("%w: %s", ErrTaskNotFound, u.TaskID)
			}
		}
		return nil
	})
	return writeError("commit batch", err)
}
