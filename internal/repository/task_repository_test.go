package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const maxPriorityQuery = `SELECT COALESCE\(MAX\(priority\), 0\) as max FROM "tasks" WHERE assigned_to = \$1`

func TestTaskRepository_Create_KeepsLaterClockPriority(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTaskRepository(gormDB)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(maxPriorityQuery).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(int64(1700000000000)))
	mock.ExpectQuery(`INSERT INTO "tasks"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id.String()))
	mock.ExpectCommit()

	task := &model.Task{
		Title:      "Write release notes",
		AssignedTo: "u1",
		Status:     model.StatusInProgress,
		Priority:   1700000005000,
	}
	err := repo.Create(context.Background(), task)

	require.NoError(t, err)
	assert.Equal(t, id, task.ID)
	assert.Equal(t, int64(1700000005000), task.Priority)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_Create_RaisesCollidingPriority(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTaskRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(maxPriorityQuery).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(int64(500)))
	mock.ExpectQuery(`INSERT INTO "tasks"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectCommit()

	task := &model.Task{Title: "t", AssignedTo: "u1", Status: model.StatusInProgress, Priority: 500}
	err := repo.Create(context.Background(), task)

	require.NoError(t, err)
	assert.Equal(t, int64(501), task.Priority)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_Create_Failure(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTaskRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(maxPriorityQuery).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(int64(0)))
	mock.ExpectQuery(`INSERT INTO "tasks"`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &model.Task{Title: "t", AssignedTo: "u1", Priority: 1})

	var writeErr *repository.StoreWriteError
	require.True(t, errors.As(err, &writeErr))
	assert.Equal(t, "create task", writeErr.Op)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_List(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTaskRepository(gormDB)
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "tasks" ORDER BY priority,\s*created_at`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "assigned_to", "assigned_to_name", "status", "priority", "created_at", "updated_at"}).
			AddRow(uuid.New().String(), "a", "u1", "Ada", "paused", 0, now, now).
			AddRow(uuid.New().String(), "b", "u2", "Grace", "in-progress", 3, now, now))

	tasks, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, model.StatusPaused, tasks[0].Status)
	assert.Equal(t, "Grace", tasks[1].AssignedToName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func batchOf(n int) []model.TaskUpdate {
	now := time.Now()
	updates := make([]model.TaskUpdate, n)
	for i := range updates {
		updates[i] = model.TaskUpdate{
			TaskID:    uuid.New(),
			Priority:  int64(i),
			Status:    model.StatusPaused,
			UpdatedAt: now,
		}
	}
	updates[0].Status = model.StatusInProgress
	return updates
}

func TestTaskRepository_CommitBatch_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTaskRepository(gormDB)

	mock.ExpectBegin()
	for i := 0; i < 3; i++ {
		mock.ExpectExec(`UPDATE "tasks" SET .* WHERE id = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	err := repo.CommitBatch(context.Background(), batchOf(3))

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_CommitBatch_RollsBackOnFailure(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTaskRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "tasks" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "tasks" SET`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.CommitBatch(context.Background(), batchOf(3))

	var writeErr *repository.StoreWriteError
	require.True(t, errors.As(err, &writeErr))
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_CommitBatch_MissingTaskRollsBack(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTaskRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "tasks" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.CommitBatch(context.Background(), batchOf(2))

	assert.ErrorIs(t, err, repository.ErrTaskNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_CommitBatch_Empty(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTaskRepository(gormDB)

	assert.NoError(t, repo.CommitBatch(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
