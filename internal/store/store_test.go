package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"taskboard/internal/model"
	"taskboard/internal/repository"
	"taskboard/internal/store"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTasks struct {
	mu        sync.Mutex
	tasks     []model.Task
	commitErr error
}

func (f *fakeTasks) Create(ctx context.Context, task *model.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	task.ID = uuid.New()
	f.tasks = append(f.tasks, *task)
	return nil
}

func (f *fakeTasks) CommitBatch(ctx context.Context, updates []model.TaskUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.commitErr != nil {
		return &repository.StoreWriteError{Op: "commit batch", Err: f.commitErr}
	}
	for _, u := range updates {
		for i := range f.tasks {
			if f.tasks[i].ID == u.TaskID {
				f.tasks[i].Priority = u.Priority
			}
		}
	}
	return nil
}

func (f *fakeTasks) List(ctx context.Context) ([]model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Task(nil), f.tasks...), nil
}

type fakeUsers struct {
	mu    sync.Mutex
	users []model.User
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) FindOrCreate(ctx context.Context, user *model.User) (*model.User, bool, error) {
	if existing, _ := f.GetByID(ctx, user.ID); existing != nil {
		return existing, false, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = append(f.users, *user)
	return user, true, nil
}

func (f *fakeUsers) List(ctx context.Context) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.User(nil), f.users...), nil
}

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	m, err := miniredis.Run()
	require.NoError(t, err)
	rc := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() {
		rc.Close()
		m.Close()
	})
	return rc
}

// recorder collects feed deliveries.
type recorder[T any] struct {
	mu   sync.Mutex
	sets [][]T
}

func (r *recorder[T]) onChange(items []T) {
	r.mu.Lock()
	r.sets = append(r.sets, items)
	r.mu.Unlock()
}

func (r *recorder[T]) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sets)
}

func (r *recorder[T]) last() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sets[len(r.sets)-1]
}

func TestSubscribeTasks_InitialSnapshotAndUpdates(t *testing.T) {
	rc := setupRedis(t)
	tasks := &fakeTasks{tasks: []model.Task{{ID: uuid.New(), Title: "existing", AssignedTo: "a"}}}
	adapter := store.New(tasks, &fakeUsers{}, rc)

	rec := &recorder[model.Task]{}
	unsubscribe, err := adapter.SubscribeTasks(context.Background(), rec.onChange)
	require.NoError(t, err)
	defer unsubscribe()

	require.Equal(t, 1, rec.count())
	assert.Len(t, rec.last(), 1)

	err = adapter.CreateTask(context.Background(), &model.Task{Title: "new", AssignedTo: "a"})
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return rec.count() == 2 }, time.Second, 10*time.Millisecond)
	assert.Len(t, rec.last(), 2)
}

func TestCommitBatch_FailureDoesNotNotify(t *testing.T) {
	rc := setupRedis(t)
	tasks := &fakeTasks{commitErr: errors.New("tx aborted")}
	adapter := store.New(tasks, &fakeUsers{}, rc)

	rec := &recorder[model.Task]{}
	unsubscribe, err := adapter.SubscribeTasks(context.Background(), rec.onChange)
	require.NoError(t, err)
	defer unsubscribe()

	err = adapter.CommitBatch(context.Background(), []model.TaskUpdate{{TaskID: uuid.New()}})

	var writeErr *repository.StoreWriteError
	require.True(t, errors.As(err, &writeErr))
	assert.Never(t, func() bool { return rec.count() > 1 }, 150*time.Millisecond, 10*time.Millisecond)
}

func TestEnsureUser_NotifiesOnlyOnFirstSignIn(t *testing.T) {
	rc := setupRedis(t)
	users := &fakeUsers{}
	adapter := store.New(&fakeTasks{}, users, rc)

	rec := &recorder[model.User]{}
	unsubscribe, err := adapter.SubscribeUsers(context.Background(), rec.onChange)
	require.NoError(t, err)
	defer unsubscribe()
	require.Equal(t, 1, rec.count())
	assert.Empty(t, rec.last())

	stored, err := adapter.EnsureUser(context.Background(), &model.User{ID: "g-1", Name: "Ada", Role: model.RoleDeveloper})
	require.NoError(t, err)
	assert.Equal(t, "Ada", stored.Name)
	assert.Eventually(t, func() bool { return rec.count() == 2 }, time.Second, 10*time.Millisecond)

	_, err = adapter.EnsureUser(context.Background(), &model.User{ID: "g-1", Name: "Ada Renamed"})
	require.NoError(t, err)
	assert.Never(t, func() bool { return rec.count() > 2 }, 150*time.Millisecond, 10*time.Millisecond)

	got, err := adapter.GetUser(context.Background(), "g-1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name)
}

func TestUnsubscribe_StopsDeliveriesAndIsIdempotent(t *testing.T) {
	rc := setupRedis(t)
	adapter := store.New(&fakeTasks{}, &fakeUsers{}, rc)

	rec := &recorder[model.Task]{}
	unsubscribe, err := adapter.SubscribeTasks(context.Background(), rec.onChange)
	require.NoError(t, err)

	unsubscribe()
	unsubscribe()

	require.NoError(t, adapter.CreateTask(context.Background(), &model.Task{Title: "late"}))
	assert.Never(t, func() bool { return rec.count() > 1 }, 150*time.Millisecond, 10*time.Millisecond)
}

func TestSubscribe_FailsWhenRedisIsDown(t *testing.T) {
	m, err := miniredis.Run()
	require.NoError(t, err)
	rc := redis.NewClient(&redis.Options{Addr: m.Addr(), MaxRetries: -1})
	defer rc.Close()
	m.Close()

	adapter := store.New(&fakeTasks{}, &fakeUsers{}, rc)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err = adapter.SubscribeTasks(ctx, func([]model.Task) {})
	assert.Error(t, err)
}
