package store

import (
	"sort"
	"strings"
	"time"

	"github.com/flowdeskhq/flowdesk/internal/models"
)

// Relationship resolver: pure queries over a snapshot value. Results are
// recomputed on every call and are empty slices, never nil errors, when
// nothing matches.

// ParentTasks returns tasks with no parent reference.
func (s Snapshot) ParentTasks() []models.Task {
	out := make([]models.Task, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		if !t.IsSubtask() {
			out = append(out, t)
		}
	}
	return out
}

// SubtasksOf returns the subtasks of a task, ordered by creation time
// ascending.
func (s Snapshot) SubtasksOf(taskID uint64) []models.Task {
	out := make([]models.Task, 0)
	for _, t := range s.Tasks {
		if t.ParentTaskID != nil && *t.ParentTaskID == taskID {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// WorkspacesOf returns the workspaces under a project.
func (s Snapshot) WorkspacesOf(projectID uint64) []models.Workspace {
	out := make([]models.Workspace, 0)
	for _, w := range s.Workspaces {
		if w.ProjectID == projectID {
			out = append(out, w)
		}
	}
	return out
}

// TasksOf returns the non-subtask tasks in a workspace.
func (s Snapshot) TasksOf(workspaceID uint64) []models.Task {
	out := make([]models.Task, 0)
	for _, t := range s.Tasks {
		if t.IsSubtask() {
			continue
		}
		if t.WorkspaceID != nil && *t.WorkspaceID == workspaceID {
			out = append(out, t)
		}
	}
	return out
}

// NotesOf returns the notes in a workspace.
func (s Snapshot) NotesOf(workspaceID uint64) []models.Note {
	out := make([]models.Note, 0)
	for _, n := range s.Notes {
		if n.WorkspaceID != nil && *n.WorkspaceID == workspaceID {
			out = append(out, n)
		}
	}
	return out
}

// CollaboratorsOf returns the collaborators attached to an item.
func (s Snapshot) CollaboratorsOf(ref models.ItemRef) []models.Collaborator {
	out := make([]models.Collaborator, 0)
	for _, c := range s.Collaborators {
		if c.Item == ref {
			out = append(out, c)
		}
	}
	return out
}

// TasksDueOn returns tasks whose due date falls on the same calendar day as
// date. The comparison is timezone-naive: any instant within the day
// matches.
func (s Snapshot) TasksDueOn(date time.Time) []models.Task {
	out := make([]models.Task, 0)
	for _, t := range s.Tasks {
		if t.DueDate != nil && models.SameCalendarDay(*t.DueDate, date) {
			out = append(out, t)
		}
	}
	return out
}

// Lookups used by the mutation engine and handlers.

func (s Snapshot) ProjectByID(id uint64) (models.Project, bool) {
	return findByID(s.Projects, id)
}

func (s Snapshot) WorkspaceByID(id uint64) (models.Workspace, bool) {
	return findByID(s.Workspaces, id)
}

func (s Snapshot) TaskByID(id uint64) (models.Task, bool) {
	return findByID(s.Tasks, id)
}

func (s Snapshot) NoteByID(id uint64) (models.Note, bool) {
	return findByID(s.Notes, id)
}

func (s Snapshot) UserByID(id uint64) (models.User, bool) {
	return findByID(s.Users, id)
}

func (s Snapshot) CollaboratorByID(id uint64) (models.Collaborator, bool) {
	return findByID(s.Collaborators, id)
}

// UserByEmail matches case-insensitively; invitation lookups depend on it.
func (s Snapshot) UserByEmail(email string) (models.User, bool) {
	for _, u := range s.Users {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return models.User{}, false
}

// CollaboratorFor returns the record for a (user, item) pair, if any.
func (s Snapshot) CollaboratorFor(userID uint64, ref models.ItemRef) (models.Collaborator, bool) {
	for _, c := range s.Collaborators {
		if c.Matches(userID, ref) {
			return c, true
		}
	}
	return models.Collaborator{}, false
}

// ItemExists reports whether the referenced project or workspace is present.
// The switch is exhaustive over the item types.
func (s Snapshot) ItemExists(ref models.ItemRef) bool {
	switch ref.Type {
	case models.ItemTypeProject:
		_, ok := findByID(s.Projects, ref.ID)
		return ok
	case models.ItemTypeWorkspace:
		_, ok := findByID(s.Workspaces, ref.ID)
		return ok
	default:
		return false
	}
}

// ItemName resolves the display name behind an item reference for the
// activity feed.
func (s Snapshot) ItemName(ref models.ItemRef) string {
	switch ref.Type {
	case models.ItemTypeProject:
		if p, ok := findByID(s.Projects, ref.ID); ok {
			return p.Name
		}
	case models.ItemTypeWorkspace:
		if w, ok := findByID(s.Workspaces, ref.ID); ok {
			return w.Name
		}
	}
	return ""
}
