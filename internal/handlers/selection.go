package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flowdeskhq/flowdesk/internal/apperr"
	"github.com/flowdeskhq/flowdesk/internal/dto"
	"github.com/flowdeskhq/flowdesk/internal/selection"
)

// GetSelection returns the current selection state.
func (h *Handler) GetSelection(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.Selection().State())
}

// UpdateSelection applies partial changes to the selection. Explicit
// clear flags distinguish "remove the filter" from "leave it alone".
func (h *Handler) UpdateSelection(c *gin.Context) {
	type updateSelectionRequest struct {
		ActiveTab      *selection.Tab `json:"active_tab"`
		ProjectID      *uint64        `json:"project_id"`
		ClearProject   bool           `json:"clear_project"`
		WorkspaceID    *uint64        `json:"workspace_id"`
		ClearWorkspace bool           `json:"clear_workspace"`
		Date           *string        `json:"date"`
		ClearDate      bool           `json:"clear_date"`
	}

	var req updateSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.BadRequest(c, "Invalid request body")
		return
	}

	snap := h.engine.Store().Snapshot()
	sel := h.engine.Selection()

	if req.ActiveTab != nil {
		if !req.ActiveTab.Valid() {
			apperr.BadRequest(c, "Invalid active_tab")
			return
		}
		sel.SetTab(*req.ActiveTab)
	}

	switch {
	case req.ClearProject:
		sel.ClearProject()
	case req.ProjectID != nil:
		if _, ok := snap.ProjectByID(*req.ProjectID); !ok {
			apperr.NotFound(c, "Project not found")
			return
		}
		sel.SelectProject(*req.ProjectID)
	}

	switch {
	case req.ClearWorkspace:
		sel.ClearWorkspace()
	case req.WorkspaceID != nil:
		if _, ok := snap.WorkspaceByID(*req.WorkspaceID); !ok {
			apperr.NotFound(c, "Workspace not found")
			return
		}
		sel.SelectWorkspace(*req.WorkspaceID)
	}

	switch {
	case req.ClearDate:
		sel.ClearDate()
	case req.Date != nil:
		day, err := dto.ParseDueDate(*req.Date)
		if err != nil {
			apperr.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
			return
		}
		sel.SelectDate(day)
	}

	c.JSON(http.StatusOK, sel.State())
}
