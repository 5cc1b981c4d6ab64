package handlers

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/flowdeskhq/flowdesk/internal/apperr"
	"github.com/flowdeskhq/flowdesk/internal/models"
)

// ListUsers returns the roster, newest first. ?q= filters by name or
// email, which backs the invite picker.
func (h *Handler) ListUsers(c *gin.Context) {
	snap := h.engine.Store().Snapshot()
	users := snap.Users

	if q := strings.ToLower(c.Query("q")); q != "" {
		filtered := make([]models.User, 0, len(users))
		for _, u := range users {
			if strings.Contains(strings.ToLower(u.Name), q) ||
				strings.Contains(strings.ToLower(u.Email), q) {
				filtered = append(filtered, u)
			}
		}
		users = filtered
	}

	ordered := make([]models.User, len(users))
	copy(ordered, users)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.After(ordered[j].CreatedAt)
	})

	c.JSON(http.StatusOK, gin.H{
		"users": ordered,
		"total": len(ordered),
	})
}

func (h *Handler) GetUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	user, found := h.engine.Store().Snapshot().UserByID(id)
	if !found {
		apperr.NotFound(c, "User not found")
		return
	}
	c.JSON(http.StatusOK, user)
}
