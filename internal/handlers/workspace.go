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

// ListWorkspaces returns workspaces, optionally scoped to a project.
func (h *Handler) ListWorkspaces(c *gin.Context) {
	snap := h.engine.Store().Snapshot()

	projectID, ok := parseOptionalID(c, "project_id")
	if !ok {
		return
	}

	var workspaces []models.Workspace
	if projectID != nil {
		workspaces = snap.WorkspacesOf(*projectID)
	} else {
		workspaces = snap.Workspaces
	}

	if q := c.Query("q"); q != "" {
		filtered := make([]models.Workspace, 0, len(workspaces))
		for _, w := range workspaces {
			if strings.Contains(strings.ToLower(w.Name), strings.ToLower(q)) {
				filtered = append(filtered, w)
			}
		}
		workspaces = filtered
	}

	ordered := make([]models.Workspace, len(workspaces))
	copy(ordered, workspaces)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.After(ordered[j].CreatedAt)
	})

	limit, offset := pageParams(c)
	c.JSON(http.StatusOK, gin.H{
		"workspaces": page(ordered, limit, offset),
		"total":      len(ordered),
	})
}

func (h *Handler) GetWorkspace(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ws, found := h.engine.Store().Snapshot().WorkspaceByID(id)
	if !found {
		apperr.NotFound(c, "Workspace not found")
		return
	}
	c.JSON(http.StatusOK, ws)
}

func (h *Handler) CreateWorkspace(c *gin.Context) {
	actorID, _ := middleware.GetActorID(c)

	type createWorkspaceRequest struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		ProjectID   uint64 `json:"project_id" binding:"required"`
	}

	var req createWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.BadRequest(c, "Invalid request body")
		return
	}

	ws, err := h.engine.CreateWorkspace(c.Request.Context(), engine.CreateWorkspaceInput{
		Name:        req.Name,
		Description: req.Description,
		ProjectID:   req.ProjectID,
		ActorID:     actorID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ws)
}

func (h *Handler) UpdateWorkspace(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	type updateWorkspaceRequest struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}

	var req updateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.BadRequest(c, "Invalid request body")
		return
	}

	ws, err := h.engine.UpdateWorkspace(c.Request.Context(), id, engine.UpdateWorkspaceInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ws)
}

func (h *Handler) DeleteWorkspace(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	actorID, _ := middleware.GetActorID(c)

	if err := h.engine.DeleteWorkspace(c.Request.Context(), id, actorID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Workspace deleted"})
}
