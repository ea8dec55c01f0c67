package handler

import (
	"context"
	"net/http"

	"taskboard/internal/board"
	"taskboard/internal/middleware"
	"taskboard/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TaskCreator interface {
	CreateTask(ctx context.Context, actor *model.User, title string) (*model.Task, error)
}

type Reorderer interface {
	Reorder(ctx context.Context, actor *model.User, userID string, taskIDs []uuid.UUID) error
}

type TaskHandler struct {
	tasks   TaskCreator
	reorder Reorderer
}

func NewTaskHandler(tasks TaskCreator, reorder Reorderer) *TaskHandler {
	return &TaskHandler{tasks: tasks, reorder: reorder}
}

type CreateTaskRequest struct {
	Title string `json:"title"`
}

type ReorderRequest struct {
	TaskIDs []string `json:"taskIds"`
}

// Create adds a task to the caller's own column.
//
// @Summary  Create a task
// @Tags     Tasks
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    request body CreateTaskRequest true "task title"
// @Success  201 {object} model.Task
// @Failure  400 {object} map[string]string
// @Failure  503 {object} map[string]interface{}
// @Router   /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task, err := h.tasks.CreateTask(c.Request.Context(), middleware.CurrentUser(c), req.Title)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// Reorder stores a new order for one user's column. The body must list every
// task of the column exactly once; the first one becomes the active task.
//
// @Summary  Reorder a column
// @Tags     Tasks
// @Security BearerAuth
// @Accept   json
// @Param    user_id path string true "column owner"
// @Param    request body ReorderRequest true "task ids in their new order"
// @Success  204
// @Failure  400 {object} map[string]string
// @Failure  403 {object} map[string]string
// @Failure  503 {object} map[string]interface{}
// @Router   /columns/{user_id}/reorder [post]
func (h *TaskHandler) Reorder(c *gin.Context) {
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	taskIDs := make([]uuid.UUID, len(req.TaskIDs))
	for i, raw := range req.TaskIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, &board.ValidationError{Field: "task_ids", Reason: "malformed task id " + raw})
			return
		}
		taskIDs[i] = id
	}

	err := h.reorder.Reorder(c.Request.Context(), middleware.CurrentUser(c), c.Param("user_id"), taskIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
