package engine

import (
	"context"

	"github.com/flowdeskhq/flowdesk/internal/events"
	"github.com/flowdeskhq/flowdesk/internal/models"
)

type InviteCollaboratorInput struct {
	Email      string
	Item       models.ItemRef
	Permission models.Permission
	ActorID    uint64
}

// InviteCollaborator attaches a user, found by case-insensitive email
// match, to a project or workspace. A second invite for the same
// (user, item) pair is a conflict, keeping the one-record-per-triple
// invariant.
func (e *Engine) InviteCollaborator(ctx context.Context, in InviteCollaboratorInput) (*models.Collaborator, error) {
	if in.Email == "" {
		return nil, ErrInviteEmailRequired
	}
	if !in.Item.Valid() {
		return nil, ErrInvalidItemRef
	}

	snap := e.store.Snapshot()
	if !snap.ItemExists(in.Item) {
		return nil, ErrItemNotFound
	}

	user, ok := snap.UserByEmail(in.Email)
	if !ok {
		return nil, ErrInviteeNotFound
	}
	if _, exists := snap.CollaboratorFor(user.ID, in.Item); exists {
		return nil, ErrAlreadyCollaborator
	}

	if in.Permission == "" {
		in.Permission = models.PermissionEditor
	}

	rec := models.Collaborator{
		UserID:     user.ID,
		Item:       in.Item,
		Permission: in.Permission,
		InvitedBy:  in.ActorID,
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	created, err := createOne(ctx, e.store.Adapter().Collaborators(), models.CollectionCollaborators, rec)
	if err != nil {
		return nil, err
	}

	e.store.PutCollaborators([]models.Collaborator{created})
	e.emit(events.EntityCreated, models.CollectionCollaborators, created.ID)
	e.logActivity(ctx, in.ActorID, "invited", snap.ItemName(in.Item), string(in.Item.Type))
	return &created, nil
}

// RemoveCollaborator detaches a collaborator by record id.
func (e *Engine) RemoveCollaborator(ctx context.Context, id, actorID uint64) error {
	snap := e.store.Snapshot()
	rec, ok := snap.CollaboratorByID(id)
	if !ok {
		return ErrCollaboratorNotFound
	}

	if err := deleteMany(e, ctx, e.store.Adapter().Collaborators(), models.CollectionCollaborators, []uint64{id}, e.store.RemoveCollaborators); err != nil {
		return err
	}

	e.logActivity(ctx, actorID, "removed", snap.ItemName(rec.Item), string(rec.Item.Type))
	return nil
}
