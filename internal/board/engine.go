package board

import (
	"cmp"
	"slices"
	"sync"

	"taskboard/internal/model"
)

// Counts are the dashboard badges.
type Counts struct {
	TotalTasks  int `json:"totalTasks"`
	ActiveTasks int `json:"activeTasks"`
	ActiveUsers int `json:"activeUsers"`
}

// Snapshot is everything a viewer needs to render the board.
type Snapshot struct {
	Columns []model.Column `json:"columns"`
	Counts  Counts         `json:"counts"`
}

// Engine joins the task feed and the user feed into per-user columns. Both
// feeds replace their whole set on every delivery; the derived view is
// recomputed from the two snapshots on demand.
type Engine struct {
	mu    sync.RWMutex
	tasks []model.Task
	users []model.User

	listenersMu sync.Mutex
	listeners   []func(Snapshot)

	// notifyMu orders deliveries: the snapshot is taken and handed out under
	// it, so the last delivery always reflects the latest state.
	notifyMu sync.Mutex
}

func NewEngine() *Engine {
	return &Engine{}
}

// OnTasksChanged replaces the working task set.
func (e *Engine) OnTasksChanged(tasks []model.Task) {
	e.mu.Lock()
	if slices.Equal(e.tasks, tasks) {
		e.mu.Unlock()
		return
	}
	e.tasks = slices.Clone(tasks)
	e.mu.Unlock()

	e.notify()
}

// OnUsersChanged replaces the working user set.
func (e *Engine) OnUsersChanged(users []model.User) {
	e.mu.Lock()
	if slices.Equal(e.users, users) {
		e.mu.Unlock()
		return
	}
	e.users = slices.Clone(users)
	e.mu.Unlock()

	e.notify()
}

// OnChange registers fn to receive a fresh snapshot after every change.
// fn runs on the goroutine delivering the feed update and must not block.
func (e *Engine) OnChange(fn func(Snapshot)) {
	e.listenersMu.Lock()
	e.listeners = append(e.listeners, fn)
	e.listenersMu.Unlock()
}

func (e *Engine) Columns() []model.Column {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return BuildColumns(e.users, e.tasks)
}

// Column returns the column of userID, or false when the user is unknown.
func (e *Engine) Column(userID string) (model.Column, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, u := range e.users {
		if u.ID == userID {
			return newColumn(u, e.tasks), true
		}
	}
	return model.Column{}, false
}

func (e *Engine) Counts() Counts {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return ComputeCounts(e.users, e.tasks)
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Snapshot{
		Columns: BuildColumns(e.users, e.tasks),
		Counts:  ComputeCounts(e.users, e.tasks),
	}
}

func (e *Engine) notify() {
	e.listenersMu.Lock()
	listeners := slices.Clone(e.listeners)
	e.listenersMu.Unlock()
	if len(listeners) == 0 {
		return
	}

	e.notifyMu.Lock()
	defer e.notifyMu.Unlock()
	snap := e.Snapshot()
	for _, fn := range listeners {
		fn(snap)
	}
}

// BuildColumns groups tasks by assignee, one column per user in users order.
// Tasks assigned to nobody in users are left out.
func BuildColumns(users []model.User, tasks []model.Task) []model.Column {
	columns := make([]model.Column, 0, len(users))
	for _, u := range users {
		columns = append(columns, newColumn(u, tasks))
	}
	return columns
}

func newColumn(u model.User, tasks []model.Task) model.Column {
	owned := tasksOf(u.ID, tasks)
	active := 0
	for _, t := range owned {
		if t.Status == model.StatusInProgress {
			active++
		}
	}
	return model.Column{
		UserID:      u.ID,
		UserName:    u.Name,
		Tasks:       owned,
		ActiveTasks: active,
	}
}

// ComputeCounts derives the dashboard badges. Task totals cover the whole
// feed; ActiveUsers only counts known users owning at least one task.
func ComputeCounts(users []model.User, tasks []model.Task) Counts {
	var c Counts
	owners := make(map[string]struct{}, len(tasks))
	for _, t := range tasks {
		c.TotalTasks++
		if t.Status == model.StatusInProgress {
			c.ActiveTasks++
		}
		owners[t.AssignedTo] = struct{}{}
	}
	for _, u := range users {
		if _, ok := owners[u.ID]; ok {
			c.ActiveUsers++
		}
	}
	return c
}

func tasksOf(userID string, tasks []model.Task) []model.Task {
	owned := make([]model.Task, 0)
	for _, t := range tasks {
		if t.AssignedTo == userID {
			owned = append(owned, t)
		}
	}
	slices.SortStableFunc(owned, func(a, b model.Task) int {
		if c := cmp.Compare(a.Priority, b.Priority); c != 0 {
			return c
		}
		// ties are a defect; keep the output deterministic anyway
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
	return owned
}
