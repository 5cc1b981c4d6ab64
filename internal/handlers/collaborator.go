package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flowdeskhq/flowdesk/internal/apperr"
	"github.com/flowdeskhq/flowdesk/internal/engine"
	"github.com/flowdeskhq/flowdesk/internal/middleware"
	"github.com/flowdeskhq/flowdesk/internal/models"
)

// ListCollaborators returns the collaborators on one item when
// ?item_id and ?item_type are given, otherwise the whole collection.
func (h *Handler) ListCollaborators(c *gin.Context) {
	snap := h.engine.Store().Snapshot()

	itemID, ok := parseOptionalID(c, "item_id")
	if !ok {
		return
	}
	itemType := models.ItemType(c.Query("item_type"))

	var collaborators []models.Collaborator
	switch {
	case itemID != nil && itemType != "":
		ref := models.ItemRef{ID: *itemID, Type: itemType}
		if !ref.Valid() {
			apperr.BadRequest(c, "Invalid item_type")
			return
		}
		collaborators = snap.CollaboratorsOf(ref)
	case itemID != nil || itemType != "":
		apperr.BadRequest(c, "item_id and item_type must be given together")
		return
	default:
		collaborators = snap.Collaborators
	}

	c.JSON(http.StatusOK, gin.H{
		"collaborators": collaborators,
		"total":         len(collaborators),
	})
}

// InviteCollaborator adds a registered user to a project or workspace by
// email.
func (h *Handler) InviteCollaborator(c *gin.Context) {
	actorID, _ := middleware.GetActorID(c)

	type inviteRequest struct {
		Email      string            `json:"email"`
		ItemID     uint64            `json:"item_id" binding:"required"`
		ItemType   models.ItemType   `json:"item_type" binding:"required"`
		Permission models.Permission `json:"permission"`
	}

	var req inviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.BadRequest(c, "Invalid request body")
		return
	}

	collab, err := h.engine.InviteCollaborator(c.Request.Context(), engine.InviteCollaboratorInput{
		Email:      req.Email,
		Item:       models.ItemRef{ID: req.ItemID, Type: req.ItemType},
		Permission: req.Permission,
		ActorID:    actorID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, collab)
}

func (h *Handler) RemoveCollaborator(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	actorID, _ := middleware.GetActorID(c)

	if err := h.engine.RemoveCollaborator(c.Request.Context(), id, actorID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Collaborator removed"})
}
