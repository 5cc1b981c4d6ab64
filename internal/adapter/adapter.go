// Package adapter defines the narrow persistence contract the entity store
// writes through. Each collection exposes fetch-all, create, update and
// delete; batch calls report per-record outcomes rather than failing or
// succeeding as a whole.
package adapter

import (
	"context"
	"fmt"
	"strings"

	"github.com/flowdeskhq/flowdesk/internal/models"
)

// RecordFailure describes one record in a batch that could not be
// persisted. Index refers to the position in the submitted batch.
type RecordFailure struct {
	Index  int    `json:"index"`
	ID     uint64 `json:"id,omitempty"`
	Reason string `json:"reason"`
}

func (f RecordFailure) String() string {
	if f.ID != 0 {
		return fmt.Sprintf("record %d (id %d): %s", f.Index, f.ID, f.Reason)
	}
	return fmt.Sprintf("record %d: %s", f.Index, f.Reason)
}

// JoinFailures renders a batch of failures for logging.
func JoinFailures(failures []RecordFailure) string {
	parts := make([]string, len(failures))
	for i, f := range failures {
		parts[i] = f.String()
	}
	return strings.Join(parts, "; ")
}

// Collection is the per-collection CRUD surface. CreateAll and UpdateAll
// return the records that were persisted (with identifiers and timestamps
// assigned) alongside the per-record failures; the error return is reserved
// for failures of the call itself, in which case nothing was written.
type Collection[T any] interface {
	FetchAll(ctx context.Context) ([]T, error)
	CreateAll(ctx context.Context, records []T) ([]T, []RecordFailure, error)
	UpdateAll(ctx context.Context, records []T) ([]T, []RecordFailure, error)
	DeleteAll(ctx context.Context, ids []uint64) ([]RecordFailure, error)
}

// Adapter bundles one Collection per entity type. Implementations exist for
// a database backend and for the local single-blob store.
type Adapter interface {
	Projects() Collection[models.Project]
	Workspaces() Collection[models.Workspace]
	Tasks() Collection[models.Task]
	Notes() Collection[models.Note]
	Users() Collection[models.User]
	Collaborators() Collection[models.Collaborator]
	Activities() Collection[models.Activity]
}
