package models

import (
	"fmt"
	"time"
)

// Collection names shared by the persistence adapters and the entity store.
const (
	CollectionProjects      = "projects"
	CollectionWorkspaces    = "workspaces"
	CollectionTasks         = "tasks"
	CollectionNotes         = "notes"
	CollectionUsers         = "users"
	CollectionCollaborators = "collaborators"
	CollectionActivities    = "activities"
)

// Entity is implemented by every persisted record type. GetID and Validate
// are value methods so they also work on elements of a slice; SetID and
// Stamp mutate and therefore need a pointer.
type Entity interface {
	GetID() uint64
	SetID(id uint64)
	Stamp(now time.Time)
	Validate() error
}

// FieldError reports a record field that failed validation. Adapters reject
// the record before any persistence call is made.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s: %s", e.Field, e.Reason)
}

func ErrMissingField(field string) error {
	return &FieldError{Field: field, Reason: "is required"}
}

func ErrInvalidField(field string) error {
	return &FieldError{Field: field, Reason: "has an invalid value"}
}

// SameCalendarDay reports whether two instants fall on the same calendar
// day. Due dates are compared this way, never as instants.
func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
