package engine

import (
	"context"

	"github.com/flowdeskhq/flowdesk/internal/events"
	"github.com/flowdeskhq/flowdesk/internal/models"
	"github.com/flowdeskhq/flowdesk/internal/store"
)

type CreateWorkspaceInput struct {
	Name        string
	Description string
	ProjectID   uint64
	ActorID     uint64
}

type UpdateWorkspaceInput struct {
	Name        *string
	Description *string
}

func (e *Engine) CreateWorkspace(ctx context.Context, in CreateWorkspaceInput) (*models.Workspace, error) {
	if _, ok := e.store.Snapshot().ProjectByID(in.ProjectID); !ok {
		return nil, ErrProjectNotFound
	}

	rec := models.Workspace{
		Name:        in.Name,
		Description: in.Description,
		ProjectID:   in.ProjectID,
		OwnerID:     in.ActorID,
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	created, err := createOne(ctx, e.store.Adapter().Workspaces(), models.CollectionWorkspaces, rec)
	if err != nil {
		return nil, err
	}

	e.store.PutWorkspaces([]models.Workspace{created})
	e.emit(events.EntityCreated, models.CollectionWorkspaces, created.ID)
	e.logActivity(ctx, in.ActorID, "created", created.Name, "workspace")
	return &created, nil
}

func (e *Engine) UpdateWorkspace(ctx context.Context, id uint64, in UpdateWorkspaceInput) (*models.Workspace, error) {
	rec, ok := e.store.Snapshot().WorkspaceByID(id)
	if !ok {
		return nil, ErrWorkspaceNotFound
	}

	if in.Name != nil {
		rec.Name = *in.Name
	}
	if in.Description != nil {
		rec.Description = *in.Description
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	updated, err := updateOne(ctx, e.store.Adapter().Workspaces(), models.CollectionWorkspaces, rec)
	if err != nil {
		return nil, err
	}

	e.store.PutWorkspaces([]models.Workspace{updated})
	e.emit(events.EntityUpdated, models.CollectionWorkspaces, updated.ID)
	e.logActivity(ctx, updated.OwnerID, "updated", updated.Name, "workspace")
	return &updated, nil
}

// DeleteWorkspace deletes the workspace's tasks (with their subtasks) and
// notes before the workspace itself, then clears the selection if it
// pointed at the deleted workspace.
func (e *Engine) DeleteWorkspace(ctx context.Context, id, actorID uint64) error {
	snap := e.store.Snapshot()
	ws, ok := snap.WorkspaceByID(id)
	if !ok {
		return ErrWorkspaceNotFound
	}

	taskIDs := workspaceTaskIDs(snap, id, map[uint64]struct{}{})
	var noteIDs []uint64
	for _, n := range snap.NotesOf(id) {
		noteIDs = append(noteIDs, n.ID)
	}

	if err := deleteMany(e, ctx, e.store.Adapter().Tasks(), models.CollectionTasks, taskIDs, e.store.RemoveTasks); err != nil {
		return err
	}
	if err := deleteMany(e, ctx, e.store.Adapter().Notes(), models.CollectionNotes, noteIDs, e.store.RemoveNotes); err != nil {
		return err
	}
	if err := deleteMany(e, ctx, e.store.Adapter().Workspaces(), models.CollectionWorkspaces, []uint64{id}, e.store.RemoveWorkspaces); err != nil {
		return err
	}

	if e.sel != nil {
		e.sel.DropReferences(nil, map[uint64]struct{}{id: {}})
	}

	e.logActivity(ctx, actorID, "deleted", ws.Name, "workspace")
	return nil
}

// workspaceTaskIDs collects every task tied to a workspace: any task
// referencing it directly, subtask or not, plus the subtasks of its parent
// tasks even when those subtasks carry no workspace reference of their own.
// seen is shared across calls so a multi-workspace cascade never deletes the
// same id twice.
func workspaceTaskIDs(snap store.Snapshot, wsID uint64, seen map[uint64]struct{}) []uint64 {
	var out []uint64
	add := func(id uint64) {
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	for _, t := range snap.Tasks {
		if t.WorkspaceID == nil || *t.WorkspaceID != wsID {
			continue
		}
		add(t.ID)
		for _, sub := range snap.SubtasksOf(t.ID) {
			add(sub.ID)
		}
	}
	return out
}
