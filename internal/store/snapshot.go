package store

import (
	"github.com/flowdeskhq/flowdesk/internal/models"
)

// Snapshot is the complete in-memory copy of all collections at a point in
// time. It is a value: mutating a copy never affects the store, and resolver
// queries on it are side-effect free.
type Snapshot struct {
	Version       uint64
	Projects      []models.Project
	Workspaces    []models.Workspace
	Tasks         []models.Task
	Notes         []models.Note
	Users         []models.User
	Collaborators []models.Collaborator
	Activities    []models.Activity
}

type identifiable interface {
	GetID() uint64
}

func findByID[T identifiable](list []T, id uint64) (T, bool) {
	for _, v := range list {
		if v.GetID() == id {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// upsert replaces the record with the same id, or appends when absent.
func upsert[T identifiable](list []T, rec T) []T {
	for i, v := range list {
		if v.GetID() == rec.GetID() {
			out := make([]T, len(list))
			copy(out, list)
			out[i] = rec
			return out
		}
	}
	out := make([]T, 0, len(list)+1)
	out = append(out, list...)
	return append(out, rec)
}

func removeByID[T identifiable](list []T, ids map[uint64]struct{}) []T {
	if len(ids) == 0 {
		return list
	}
	out := make([]T, 0, len(list))
	for _, v := range list {
		if _, gone := ids[v.GetID()]; gone {
			continue
		}
		out = append(out, v)
	}
	return out
}

func idSet(ids []uint64) map[uint64]struct{} {
	set := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
