package model

import (
	"github.com/gerow/go-color"
)

type Role string

const (
	RoleViewer Role = "viewer"
	RoleEditor Role = "editor"
	RoleOwner  Role = "owner"
)

var roleRank = map[Role]int{
	RoleViewer: 1,
	RoleEditor: 2,
	RoleOwner:  3,
}

// Covers reports whether a grant of r satisfies a requirement of required.
// Roles form a strict hierarchy: owner > editor > viewer.
func (r Role) Covers(required Role) bool {
	return roleRank[r] >= roleRank[required]
}

func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

type CalendarCreate struct {
	Name        string
	Description string
	Color       color.RGB
	IsDefault   bool
	IsPublic    bool
	OwnerID     int64
}

type Calendar struct {
	ID int64
	CalendarCreate
}

type CalendarUpdate struct {
	Name        string
	Description string
	Color       color.RGB
	IsPublic    bool
}

// CalendarShare grants a non-owner user access to a calendar. The owner is
// never represented as a share row; a share never carries RoleOwner.
type CalendarShare struct {
	ID         int64
	CalendarID int64
	UserID     int64
	Role       Role
}
