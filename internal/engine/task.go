package engine

import (
	"context"
	"time"

	"github.com/flowdeskhq/flowdesk/internal/events"
	"github.com/flowdeskhq/flowdesk/internal/models"
)

type CreateTaskInput struct {
	Title        string
	Description  string
	Priority     models.TaskPriority
	Status       models.TaskStatus
	DueDate      *time.Time
	ParentTaskID *uint64
	WorkspaceID  *uint64
	ActorID      uint64
}

type UpdateTaskInput struct {
	Title          *string
	Description    *string
	Priority       *models.TaskPriority
	Status         *models.TaskStatus
	DueDate        *time.Time
	ClearDueDate   bool
	WorkspaceID    *uint64
	ClearWorkspace bool
}

// CreateTask creates a task or a subtask. Task nesting is limited to one
// level: a parent that is itself a subtask is rejected.
func (e *Engine) CreateTask(ctx context.Context, in CreateTaskInput) (*models.Task, error) {
	snap := e.store.Snapshot()

	if in.ParentTaskID != nil {
		parent, ok := snap.TaskByID(*in.ParentTaskID)
		if !ok {
			return nil, ErrParentTaskNotFound
		}
		if parent.IsSubtask() {
			return nil, ErrSubtaskDepth
		}
	}
	if in.WorkspaceID != nil {
		if _, ok := snap.WorkspaceByID(*in.WorkspaceID); !ok {
			return nil, ErrWorkspaceNotFound
		}
	}

	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if in.Status == "" {
		in.Status = models.TaskStatusPending
	}

	rec := models.Task{
		Title:        in.Title,
		Description:  in.Description,
		Priority:     in.Priority,
		Status:       in.Status,
		DueDate:      in.DueDate,
		ParentTaskID: in.ParentTaskID,
		WorkspaceID:  in.WorkspaceID,
		OwnerID:      in.ActorID,
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	created, err := createOne(ctx, e.store.Adapter().Tasks(), models.CollectionTasks, rec)
	if err != nil {
		return nil, err
	}

	e.store.PutTasks([]models.Task{created})
	e.emit(events.EntityCreated, models.CollectionTasks, created.ID)
	e.logActivity(ctx, in.ActorID, "created", created.Title, "task")
	return &created, nil
}

func (e *Engine) UpdateTask(ctx context.Context, id uint64, in UpdateTaskInput) (*models.Task, error) {
	snap := e.store.Snapshot()
	rec, ok := snap.TaskByID(id)
	if !ok {
		return nil, ErrTaskNotFound
	}

	if in.Title != nil {
		rec.Title = *in.Title
	}
	if in.Description != nil {
		rec.Description = *in.Description
	}
	if in.Priority != nil {
		rec.Priority = *in.Priority
	}
	if in.Status != nil {
		rec.Status = *in.Status
	}
	if in.ClearDueDate {
		rec.DueDate = nil
	} else if in.DueDate != nil {
		rec.DueDate = in.DueDate
	}
	if in.ClearWorkspace {
		rec.WorkspaceID = nil
	} else if in.WorkspaceID != nil {
		if _, ok := snap.WorkspaceByID(*in.WorkspaceID); !ok {
			return nil, ErrWorkspaceNotFound
		}
		rec.WorkspaceID = in.WorkspaceID
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	updated, err := updateOne(ctx, e.store.Adapter().Tasks(), models.CollectionTasks, rec)
	if err != nil {
		return nil, err
	}

	e.store.PutTasks([]models.Task{updated})
	e.emit(events.EntityUpdated, models.CollectionTasks, updated.ID)
	e.logActivity(ctx, updated.OwnerID, "updated", updated.Title, "task")
	return &updated, nil
}

// DeleteTask removes the task's subtasks before the task itself.
func (e *Engine) DeleteTask(ctx context.Context, id, actorID uint64) error {
	snap := e.store.Snapshot()
	task, ok := snap.TaskByID(id)
	if !ok {
		return ErrTaskNotFound
	}

	var subIDs []uint64
	for _, sub := range snap.SubtasksOf(id) {
		subIDs = append(subIDs, sub.ID)
	}

	if err := deleteMany(e, ctx, e.store.Adapter().Tasks(), models.CollectionTasks, subIDs, e.store.RemoveTasks); err != nil {
		return err
	}
	if err := deleteMany(e, ctx, e.store.Adapter().Tasks(), models.CollectionTasks, []uint64{id}, e.store.RemoveTasks); err != nil {
		return err
	}

	e.logActivity(ctx, actorID, "deleted", task.Title, "task")
	return nil
}

// ToggleTaskStatus flips a task between completed and pending. It is a
// shortcut distinct from the general update path: a completed task reopens
// as pending, any other status completes. The toggle never lands on
// in-progress.
func (e *Engine) ToggleTaskStatus(ctx context.Context, id, actorID uint64) (*models.Task, error) {
	rec, ok := e.store.Snapshot().TaskByID(id)
	if !ok {
		return nil, ErrTaskNotFound
	}

	action := "completed"
	if rec.Status == models.TaskStatusCompleted {
		rec.Status = models.TaskStatusPending
		action = "reopened"
	} else {
		rec.Status = models.TaskStatusCompleted
	}

	updated, err := updateOne(ctx, e.store.Adapter().Tasks(), models.CollectionTasks, rec)
	if err != nil {
		return nil, err
	}

	e.store.PutTasks([]models.Task{updated})
	e.emit(events.EntityUpdated, models.CollectionTasks, updated.ID)
	e.logActivity(ctx, actorID, action, updated.Title, "task")
	return &updated, nil
}
