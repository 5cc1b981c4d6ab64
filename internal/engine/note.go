package engine

import (
	"context"

	"github.com/flowdeskhq/flowdesk/internal/events"
	"github.com/flowdeskhq/flowdesk/internal/models"
)

type CreateNoteInput struct {
	Title       string
	Content     string
	Tags        string // comma-separated form input
	WorkspaceID *uint64
	ActorID     uint64
}

type UpdateNoteInput struct {
	Title          *string
	Content        *string
	Tags           *string
	WorkspaceID    *uint64
	ClearWorkspace bool
}

func (e *Engine) CreateNote(ctx context.Context, in CreateNoteInput) (*models.Note, error) {
	if in.WorkspaceID != nil {
		if _, ok := e.store.Snapshot().WorkspaceByID(*in.WorkspaceID); !ok {
			return nil, ErrWorkspaceNotFound
		}
	}

	rec := models.Note{
		Title:       in.Title,
		Content:     in.Content,
		Tags:        models.ParseTags(in.Tags),
		WorkspaceID: in.WorkspaceID,
		OwnerID:     in.ActorID,
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	created, err := createOne(ctx, e.store.Adapter().Notes(), models.CollectionNotes, rec)
	if err != nil {
		return nil, err
	}

	e.store.PutNotes([]models.Note{created})
	e.emit(events.EntityCreated, models.CollectionNotes, created.ID)
	e.logActivity(ctx, in.ActorID, "created", created.Title, "note")
	return &created, nil
}

func (e *Engine) UpdateNote(ctx context.Context, id uint64, in UpdateNoteInput) (*models.Note, error) {
	snap := e.store.Snapshot()
	rec, ok := snap.NoteByID(id)
	if !ok {
		return nil, ErrNoteNotFound
	}

	if in.Title != nil {
		rec.Title = *in.Title
	}
	if in.Content != nil {
		rec.Content = *in.Content
	}
	if in.Tags != nil {
		rec.Tags = models.ParseTags(*in.Tags)
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

	updated, err := updateOne(ctx, e.store.Adapter().Notes(), models.CollectionNotes, rec)
	if err != nil {
		return nil, err
	}

	e.store.PutNotes([]models.Note{updated})
	e.emit(events.EntityUpdated, models.CollectionNotes, updated.ID)
	e.logActivity(ctx, updated.OwnerID, "updated", updated.Title, "note")
	return &updated, nil
}

// DeleteNote is a simple delete; notes have no children.
func (e *Engine) DeleteNote(ctx context.Context, id, actorID uint64) error {
	note, ok := e.store.Snapshot().NoteByID(id)
	if !ok {
		return ErrNoteNotFound
	}

	if err := deleteMany(e, ctx, e.store.Adapter().Notes(), models.CollectionNotes, []uint64{id}, e.store.RemoveNotes); err != nil {
		return err
	}

	e.logActivity(ctx, actorID, "deleted", note.Title, "note")
	return nil
}
