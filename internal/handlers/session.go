package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/flowdeskhq/flowdesk/internal/apperr"
	"github.com/flowdeskhq/flowdesk/internal/middleware"
)

// SignIn picks the acting user from the roster by email. This is a
// simulated sign-in: no credentials are checked.
func (h *Handler) SignIn(c *gin.Context) {
	type signInRequest struct {
		Email string `json:"email" binding:"required"`
	}

	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.BadRequest(c, "Invalid request body")
		return
	}

	user, ok := h.engine.Store().Snapshot().UserByEmail(req.Email)
	if !ok {
		apperr.NotFound(c, "No user found with that email")
		return
	}

	session := sessions.Default(c)
	session.Set(middleware.SessionUserKey, user.ID)
	if err := session.Save(); err != nil {
		h.log.Error().Err(err).Msg("failed to save session")
		apperr.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, user)
}

// Me returns the acting user.
func (h *Handler) Me(c *gin.Context) {
	actorID, exists := middleware.GetActorID(c)
	if !exists {
		apperr.Unauthorized(c, "")
		return
	}
	user, ok := h.engine.Store().Snapshot().UserByID(actorID)
	if !ok {
		apperr.NotFound(c, "User not found")
		return
	}
	c.JSON(http.StatusOK, user)
}

// SignOut drops the session.
func (h *Handler) SignOut(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		h.log.Error().Err(err).Msg("failed to clear session")
		apperr.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}
