package model

import (
	"time"
)

type Role string

const (
	RoleDeveloper Role = "developer"
	RoleLead      Role = "lead"
)

// User is a team member. ID is issued by the identity provider.
type User struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"not null" json:"email"`
	Role      Role      `gorm:"type:text;not null;default:developer" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
}

// CanEdit reports whether u may reorder the column owned by ownerID.
func (u *User) CanEdit(ownerID string) bool {
	if u == nil {
		return false
	}
	return u.ID == ownerID || u.Role == RoleLead
}
