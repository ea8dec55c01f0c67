// Package store is the task store adapter: it writes through the gorm
// repositories and turns redis pub/sub notices into live snapshot feeds, so
// every replica sees every committed write.
package store

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"taskboard/internal/model"
)

const (
	TasksChannel = "taskboard:tasks"
	UsersChannel = "taskboard:users"
)

type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	CommitBatch(ctx context.Context, updates []model.TaskUpdate) error
	List(ctx context.Context) ([]model.Task, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	FindOrCreate(ctx context.Context, user *model.User) (*model.User, bool, error)
	List(ctx context.Context) ([]model.User, error)
}

// Unsubscribe stops a feed. It is safe to call more than once.
type Unsubscribe func()

type Adapter struct {
	tasks TaskRepository
	users UserRepository
	rc    *redis.Client
	log   *log.Entry
}

func New(tasks TaskRepository, users UserRepository, rc *redis.Client) *Adapter {
	return &Adapter{
		tasks: tasks,
		users: users,
		rc:    rc,
		log:   log.WithField("component", "store"),
	}
}

func (a *Adapter) CreateTask(ctx context.Context, task *model.Task) error {
	if err := a.tasks.Create(ctx, task); err != nil {
		return err
	}
	a.publish(ctx, TasksChannel)
	return nil
}

func (a *Adapter) CommitBatch(ctx context.Context, updates []model.TaskUpdate) error {
	if err := a.tasks.CommitBatch(ctx, updates); err != nil {
		return err
	}
	a.publish(ctx, TasksChannel)
	return nil
}

// EnsureUser stores user on first sign-in and returns the stored record.
func (a *Adapter) EnsureUser(ctx context.Context, user *model.User) (*model.User, error) {
	stored, created, err := a.users.FindOrCreate(ctx, user)
	if err != nil {
		return nil, err
	}
	if created {
		a.log.WithField("user_id", stored.ID).Info("registered new user")
		a.publish(ctx, UsersChannel)
	}
	return stored, nil
}

func (a *Adapter) GetUser(ctx context.Context, id string) (*model.User, error) {
	return a.users.GetByID(ctx, id)
}

// publish announces a committed write. The write is already durable, so a
// failed notice is only logged; subscribers catch up on the next one.
func (a *Adapter) publish(ctx context.Context, channel string) {
	stamp := strconv.FormatInt(time.Now().UnixNano(), 10)
	if err := a.rc.Publish(context.WithoutCancel(ctx), channel, stamp).Err(); err != nil {
		a.log.WithError(err).WithField("channel", channel).Warn("publish change notice")
	}
}

// SubscribeTasks delivers the full task set now and again after every change.
func (a *Adapter) SubscribeTasks(ctx context.Context, onChange func([]model.Task)) (Unsubscribe, error) {
	return subscribe(ctx, a, TasksChannel, a.tasks.List, onChange)
}

// SubscribeUsers delivers the full user set now and again after every change.
func (a *Adapter) SubscribeUsers(ctx context.Context, onChange func([]model.User)) (Unsubscribe, error) {
	return subscribe(ctx, a, UsersChannel, a.users.List, onChange)
}

func subscribe[T any](
	ctx context.Context,
	a *Adapter,
	channel string,
	load func(context.Context) ([]T, error),
	onChange func([]T),
) (Unsubscribe, error) {
	ctx, cancel := context.WithCancel(ctx)
	sub := a.rc.Subscribe(ctx, channel)
	// wait for the subscription so no notice between load and listen is lost
	if _, err := sub.Receive(ctx); err != nil {
		cancel()
		sub.Close()
		return nil, err
	}

	items, err := load(ctx)
	if err != nil {
		cancel()
		sub.Close()
		return nil, err
	}
	onChange(items)

	logger := a.log.WithField("channel", channel)
	done := make(chan struct{})
	go func() {
		defer close(done)
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					logger.Warn("subscription channel closed")
					return
				}
				items, err := load(ctx)
				if err != nil {
					if ctx.Err() == nil {
						logger.WithError(err).Error("reload after change notice")
					}
					continue
				}
				onChange(items)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			sub.Close()
			<-done
		})
	}, nil
}
