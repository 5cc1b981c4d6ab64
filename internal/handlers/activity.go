package handlers

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/flowdeskhq/flowdesk/internal/models"
)

const defaultActivityLimit = 20

// ListActivities returns the most recent feed entries, newest first.
func (h *Handler) ListActivities(c *gin.Context) {
	snap := h.engine.Store().Snapshot()

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultActivityLimit)))
	if limit < 1 || limit > maxPageLimit {
		limit = defaultActivityLimit
	}

	ordered := make([]models.Activity, len(snap.Activities))
	copy(ordered, snap.Activities)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.After(ordered[j].Timestamp)
	})
	if len(ordered) > limit {
		ordered = ordered[:limit]
	}

	c.JSON(http.StatusOK, gin.H{
		"activities": ordered,
		"total":      len(snap.Activities),
	})
}
