package handler_test

import (
	"context"

	"taskboard/internal/auth"
	"taskboard/internal/board"
	"taskboard/internal/middleware"
	"taskboard/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockTaskCreator struct {
	mock.Mock
}

func (m *MockTaskCreator) CreateTask(ctx context.Context, actor *model.User, title string) (*model.Task, error) {
	args := m.Called(ctx, actor, title)
	task := args.Get(0)
	if task == nil {
		return nil, args.Error(1)
	}
	return task.(*model.Task), args.Error(1)
}

type MockReorderer struct {
	mock.Mock
}

func (m *MockReorderer) Reorder(ctx context.Context, actor *model.User, userID string, taskIDs []uuid.UUID) error {
	args := m.Called(ctx, actor, userID, taskIDs)
	return args.Error(0)
}

type MockBoardReader struct {
	mock.Mock
}

func (m *MockBoardReader) Snapshot() board.Snapshot {
	return m.Called().Get(0).(board.Snapshot)
}

func (m *MockBoardReader) Counts() board.Counts {
	return m.Called().Get(0).(board.Counts)
}

type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) AuthCodeURL(state string) string {
	return m.Called(state).String(0)
}

func (m *MockIdentityProvider) Exchange(ctx context.Context, code string) (*auth.Identity, error) {
	args := m.Called(ctx, code)
	identity := args.Get(0)
	if identity == nil {
		return nil, args.Error(1)
	}
	return identity.(*auth.Identity), args.Error(1)
}

type MockUserEnsurer struct {
	mock.Mock
}

func (m *MockUserEnsurer) EnsureUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	stored := args.Get(0)
	if stored == nil {
		return nil, args.Error(1)
	}
	return stored.(*model.User), args.Error(1)
}

// withUser stands in for the session middleware.
func withUser(user *model.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user != nil {
			c.Set(middleware.CurrentUserKey, user)
		}
		c.Next()
	}
}
