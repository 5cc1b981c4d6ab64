package handlers

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/flowdeskhq/flowdesk/internal/apperr"
	"github.com/flowdeskhq/flowdesk/internal/engine"
	"github.com/flowdeskhq/flowdesk/internal/middleware"
	"github.com/flowdeskhq/flowdesk/internal/models"
)

// ListNotes searches title, content and tags when ?q= is present, matching
// the note search box behavior.
func (h *Handler) ListNotes(c *gin.Context) {
	snap := h.engine.Store().Snapshot()

	workspaceID, ok := parseOptionalID(c, "workspace_id")
	if !ok {
		return
	}

	var notes []models.Note
	if workspaceID != nil {
		notes = snap.NotesOf(*workspaceID)
	} else {
		notes = snap.Notes
	}

	if q := strings.ToLower(c.Query("q")); q != "" {
		filtered := make([]models.Note, 0, len(notes))
		for _, n := range notes {
			if noteMatches(n, q) {
				filtered = append(filtered, n)
			}
		}
		notes = filtered
	}

	// Notes surface most recently touched first, unlike the other lists.
	ordered := make([]models.Note, len(notes))
	copy(ordered, notes)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].UpdatedAt.After(ordered[j].UpdatedAt)
	})

	limit, offset := pageParams(c)
	c.JSON(http.StatusOK, gin.H{
		"notes": page(ordered, limit, offset),
		"total": len(ordered),
	})
}

func noteMatches(n models.Note, q string) bool {
	if strings.Contains(strings.ToLower(n.Title), q) ||
		strings.Contains(strings.ToLower(n.Content), q) {
		return true
	}
	for _, tag := range n.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

func (h *Handler) GetNote(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	note, found := h.engine.Store().Snapshot().NoteByID(id)
	if !found {
		apperr.NotFound(c, "Note not found")
		return
	}
	c.JSON(http.StatusOK, note)
}

func (h *Handler) CreateNote(c *gin.Context) {
	actorID, _ := middleware.GetActorID(c)

	type createNoteRequest struct {
		Title       string  `json:"title" binding:"required"`
		Content     string  `json:"content"`
		Tags        string  `json:"tags"`
		WorkspaceID *uint64 `json:"workspace_id"`
	}

	var req createNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.BadRequest(c, "Invalid request body")
		return
	}

	note, err := h.engine.CreateNote(c.Request.Context(), engine.CreateNoteInput{
		Title:       req.Title,
		Content:     req.Content,
		Tags:        req.Tags,
		WorkspaceID: req.WorkspaceID,
		ActorID:     actorID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

func (h *Handler) UpdateNote(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	type updateNoteRequest struct {
		Title          *string `json:"title"`
		Content        *string `json:"content"`
		Tags           *string `json:"tags"`
		WorkspaceID    *uint64 `json:"workspace_id"`
		ClearWorkspace bool    `json:"clear_workspace"`
	}

	var req updateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.BadRequest(c, "Invalid request body")
		return
	}

	note, err := h.engine.UpdateNote(c.Request.Context(), id, engine.UpdateNoteInput{
		Title:          req.Title,
		Content:        req.Content,
		Tags:           req.Tags,
		WorkspaceID:    req.WorkspaceID,
		ClearWorkspace: req.ClearWorkspace,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func (h *Handler) DeleteNote(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	actorID, _ := middleware.GetActorID(c)

	if err := h.engine.DeleteNote(c.Request.Context(), id, actorID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Note deleted"})
}
