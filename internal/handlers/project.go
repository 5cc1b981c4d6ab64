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

// ListProjects returns projects ordered by creation time descending, with
// an optional ?q= name filter.
func (h *Handler) ListProjects(c *gin.Context) {
	snap := h.engine.Store().Snapshot()
	projects := snap.Projects

	if q := c.Query("q"); q != "" {
		filtered := make([]models.Project, 0, len(projects))
		for _, p := range projects {
			if strings.Contains(strings.ToLower(p.Name), strings.ToLower(q)) {
				filtered = append(filtered, p)
			}
		}
		projects = filtered
	}

	ordered := make([]models.Project, len(projects))
	copy(ordered, projects)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.After(ordered[j].CreatedAt)
	})

	limit, offset := pageParams(c)
	c.JSON(http.StatusOK, gin.H{
		"projects": page(ordered, limit, offset),
		"total":    len(ordered),
	})
}

func (h *Handler) GetProject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	project, found := h.engine.Store().Snapshot().ProjectByID(id)
	if !found {
		apperr.NotFound(c, "Project not found")
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *Handler) CreateProject(c *gin.Context) {
	actorID, _ := middleware.GetActorID(c)

	type createProjectRequest struct {
		Name        string                 `json:"name" binding:"required"`
		Description string                 `json:"description"`
		Status      models.ProjectStatus   `json:"status"`
		Category    models.ProjectCategory `json:"category"`
	}

	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.engine.CreateProject(c.Request.Context(), engine.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		Category:    req.Category,
		ActorID:     actorID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (h *Handler) UpdateProject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	type updateProjectRequest struct {
		Name        *string                 `json:"name"`
		Description *string                 `json:"description"`
		Status      *models.ProjectStatus   `json:"status"`
		Category    *models.ProjectCategory `json:"category"`
	}

	var req updateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.engine.UpdateProject(c.Request.Context(), id, engine.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		Category:    req.Category,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *Handler) DeleteProject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	actorID, _ := middleware.GetActorID(c)

	if err := h.engine.DeleteProject(c.Request.Context(), id, actorID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}
