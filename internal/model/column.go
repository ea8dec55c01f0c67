package model

// Column is the per-user view of tasks ordered by ascending priority.
// It is derived from the task and user feeds and never stored.
type Column struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Tasks    []Task `json:"tasks"`

	// ActiveTasks counts the in-progress tasks of Tasks.
	ActiveTasks int `json:"activeTasks"`
}
