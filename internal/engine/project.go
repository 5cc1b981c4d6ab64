package engine

import (
	"context"

	"github.com/flowdeskhq/flowdesk/internal/events"
	"github.com/flowdeskhq/flowdesk/internal/models"
)

type CreateProjectInput struct {
	Name        string
	Description string
	Status      models.ProjectStatus
	Category    models.ProjectCategory
	ActorID     uint64
}

type UpdateProjectInput struct {
	Name        *string
	Description *string
	Status      *models.ProjectStatus
	Category    *models.ProjectCategory
}

func (e *Engine) CreateProject(ctx context.Context, in CreateProjectInput) (*models.Project, error) {
	if in.Status == "" {
		in.Status = models.ProjectStatusActive
	}
	if in.Category == "" {
		in.Category = models.CategoryOther
	}

	rec := models.Project{
		Name:        in.Name,
		Description: in.Description,
		Status:      in.Status,
		Category:    in.Category,
		OwnerID:     in.ActorID,
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	created, err := createOne(ctx, e.store.Adapter().Projects(), models.CollectionProjects, rec)
	if err != nil {
		return nil, err
	}

	e.store.PutProjects([]models.Project{created})
	e.emit(events.EntityCreated, models.CollectionProjects, created.ID)
	e.logActivity(ctx, in.ActorID, "created", created.Name, "project")
	return &created, nil
}

func (e *Engine) UpdateProject(ctx context.Context, id uint64, in UpdateProjectInput) (*models.Project, error) {
	rec, ok := e.store.Snapshot().ProjectByID(id)
	if !ok {
		return nil, ErrProjectNotFound
	}

	if in.Name != nil {
		rec.Name = *in.Name
	}
	if in.Description != nil {
		rec.Description = *in.Description
	}
	if in.Status != nil {
		rec.Status = *in.Status
	}
	if in.Category != nil {
		rec.Category = *in.Category
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	updated, err := updateOne(ctx, e.store.Adapter().Projects(), models.CollectionProjects, rec)
	if err != nil {
		return nil, err
	}

	e.store.PutProjects([]models.Project{updated})
	e.emit(events.EntityUpdated, models.CollectionProjects, updated.ID)
	e.logActivity(ctx, updated.OwnerID, "updated", updated.Name, "project")
	return &updated, nil
}

// DeleteProject cascades in a fixed order: tasks in the project's
// workspaces (and their subtasks), then notes in those workspaces, then the
// workspaces, then the project itself. Any selection referencing the
// project or its workspaces is cleared.
func (e *Engine) DeleteProject(ctx context.Context, id, actorID uint64) error {
	snap := e.store.Snapshot()
	project, ok := snap.ProjectByID(id)
	if !ok {
		return ErrProjectNotFound
	}

	workspaces := snap.WorkspacesOf(id)
	wsIDs := make([]uint64, 0, len(workspaces))
	var taskIDs, noteIDs []uint64
	seen := map[uint64]struct{}{}
	for _, ws := range workspaces {
		wsIDs = append(wsIDs, ws.ID)
		taskIDs = append(taskIDs, workspaceTaskIDs(snap, ws.ID, seen)...)
		for _, n := range snap.NotesOf(ws.ID) {
			noteIDs = append(noteIDs, n.ID)
		}
	}

	if err := deleteMany(e, ctx, e.store.Adapter().Tasks(), models.CollectionTasks, taskIDs, e.store.RemoveTasks); err != nil {
		return err
	}
	if err := deleteMany(e, ctx, e.store.Adapter().Notes(), models.CollectionNotes, noteIDs, e.store.RemoveNotes); err != nil {
		return err
	}
	if err := deleteMany(e, ctx, e.store.Adapter().Workspaces(), models.CollectionWorkspaces, wsIDs, e.store.RemoveWorkspaces); err != nil {
		return err
	}
	if err := deleteMany(e, ctx, e.store.Adapter().Projects(), models.CollectionProjects, []uint64{id}, e.store.RemoveProjects); err != nil {
		return err
	}

	if e.sel != nil {
		wsSet := make(map[uint64]struct{}, len(wsIDs))
		for _, wid := range wsIDs {
			wsSet[wid] = struct{}{}
		}
		e.sel.DropReferences(map[uint64]struct{}{id: {}}, wsSet)
	}

	e.logActivity(ctx, actorID, "deleted", project.Name, "project")
	return nil
}
