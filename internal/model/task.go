package model

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	StatusInProgress TaskStatus = "in-progress"
	StatusPaused     TaskStatus = "paused"
)

// Task belongs to exactly one user. AssignedToName is copied at creation
// and is not kept in sync with the user record.
type Task struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title          string     `gorm:"not null" json:"title"`
	AssignedTo     string     `gorm:"not null;index" json:"assignedTo"`
	AssignedToName string     `gorm:"not null" json:"assignedToName"`
	Status         TaskStatus `gorm:"type:text;not null" json:"status"`
	Priority       int64      `gorm:"not null" json:"priority"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// TaskUpdate is one element of an atomic batch. An empty Status leaves the
// stored status untouched.
type TaskUpdate struct {
	TaskID    uuid.UUID
	Priority  int64
	Status    TaskStatus
	UpdatedAt time.Time
}
