// Package engine implements the mutation side of the core: cascading
// create/update/delete logic that preserves referential consistency across
// the project -> workspace -> {task, note} and task -> subtask hierarchies,
// plus collaborator attachment. Every mutation writes through the
// persistence adapter before the in-memory snapshot is touched.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/flowdeskhq/flowdesk/internal/adapter"
	"github.com/flowdeskhq/flowdesk/internal/events"
	"github.com/flowdeskhq/flowdesk/internal/models"
	"github.com/flowdeskhq/flowdesk/internal/selection"
	"github.com/flowdeskhq/flowdesk/internal/store"
)

var (
	ErrProjectNotFound      = errors.New("project not found")
	ErrWorkspaceNotFound    = errors.New("workspace not found")
	ErrTaskNotFound         = errors.New("task not found")
	ErrNoteNotFound         = errors.New("note not found")
	ErrParentTaskNotFound   = errors.New("parent task not found")
	ErrSubtaskDepth         = errors.New("subtasks cannot have their own subtasks")
	ErrItemNotFound         = errors.New("referenced item not found")
	ErrInvalidItemRef       = errors.New("item reference must name an existing project or workspace")
	ErrInviteEmailRequired  = errors.New("email is required")
	ErrInviteeNotFound      = errors.New("no user found with that email")
	ErrAlreadyCollaborator  = errors.New("user is already a collaborator on this item")
	ErrCollaboratorNotFound = errors.New("collaborator not found")
)

// PersistError reports an adapter write that failed, either as a whole
// (Err set) or for individual records (Failures set). The snapshot was not
// updated for any failed record.
type PersistError struct {
	Op         string
	Collection string
	Failures   []adapter.RecordFailure
	Err        error
}

func (e *PersistError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Collection, e.Err)
	}
	return fmt.Sprintf("failed to %s %s: %s", e.Op, e.Collection, adapter.JoinFailures(e.Failures))
}

func (e *PersistError) Unwrap() error { return e.Err }

// Engine coordinates validation, write-through persistence, snapshot
// updates, selection clearing, event emission and best-effort activity
// logging. All dependencies are injected; there is no package-level state.
type Engine struct {
	store *store.Store
	sel   *selection.Selection
	bus   *events.Bus
	log   zerolog.Logger
}

func New(st *store.Store, sel *selection.Selection, bus *events.Bus, log zerolog.Logger) *Engine {
	return &Engine{store: st, sel: sel, bus: bus, log: log}
}

// Store exposes the entity store for read-side queries.
func (e *Engine) Store() *store.Store { return e.store }

// Selection exposes the selection state.
func (e *Engine) Selection() *selection.Selection { return e.sel }

func (e *Engine) emit(t events.Type, collection string, ids ...uint64) {
	if e.bus == nil {
		return
	}
	e.bus.Publish(events.Event{Type: t, Collection: collection, IDs: ids})
}

// logActivity appends a feed entry describing a completed mutation. It is
// best effort: failures are logged and swallowed, and never roll back the
// mutation they describe.
func (e *Engine) logActivity(ctx context.Context, actorID uint64, action, itemName, itemType string) {
	rec := models.Activity{
		UserID:   actorID,
		Action:   action,
		ItemName: itemName,
		ItemType: itemType,
	}
	created, failures, err := e.store.Adapter().Activities().CreateAll(ctx, []models.Activity{rec})
	if err != nil {
		e.log.Warn().Err(err).Str("action", action).Str("item", itemName).
			Msg("activity log write failed")
		return
	}
	if len(failures) > 0 {
		e.log.Warn().Str("action", action).Str("item", itemName).
			Str("failures", adapter.JoinFailures(failures)).
			Msg("activity log write rejected")
		return
	}
	e.store.PutActivities(created)
}

// createOne persists a single record and returns the stored form with its
// assigned identifier and timestamps.
func createOne[T any](ctx context.Context, col adapter.Collection[T], collection string, rec T) (T, error) {
	var zero T
	created, failures, err := col.CreateAll(ctx, []T{rec})
	if err != nil {
		return zero, &PersistError{Op: "create", Collection: collection, Err: err}
	}
	if len(failures) > 0 || len(created) == 0 {
		return zero, &PersistError{Op: "create", Collection: collection, Failures: failures}
	}
	return created[0], nil
}

func updateOne[T any](ctx context.Context, col adapter.Collection[T], collection string, rec T) (T, error) {
	var zero T
	updated, failures, err := col.UpdateAll(ctx, []T{rec})
	if err != nil {
		return zero, &PersistError{Op: "update", Collection: collection, Err: err}
	}
	if len(failures) > 0 || len(updated) == 0 {
		return zero, &PersistError{Op: "update", Collection: collection, Failures: failures}
	}
	return updated[0], nil
}

// deleteMany deletes ids from a collection and applies the successful
// deletions to the snapshot. Per-record failures are reported back so the
// caller can surface them individually; the records that did delete stay
// deleted.
func deleteMany[T any](e *Engine, ctx context.Context, col adapter.Collection[T], collection string, ids []uint64, apply func([]uint64)) error {
	if len(ids) == 0 {
		return nil
	}
	failures, err := col.DeleteAll(ctx, ids)
	if err != nil {
		return &PersistError{Op: "delete", Collection: collection, Err: err}
	}

	failed := make(map[uint64]struct{}, len(failures))
	for _, f := range failures {
		failed[f.ID] = struct{}{}
	}
	succeeded := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := failed[id]; ok {
			continue
		}
		succeeded = append(succeeded, id)
	}

	if len(succeeded) > 0 {
		apply(succeeded)
		e.emit(events.EntityDeleted, collection, succeeded...)
	}
	if len(failures) > 0 {
		return &PersistError{Op: "delete", Collection: collection, Failures: failures}
	}
	return nil
}
