// Package handlers exposes the FlowDesk core over HTTP. Handlers stay
// thin: bind the request, call the mutation engine or query the snapshot,
// translate errors into the standard response taxonomy.
package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/flowdeskhq/flowdesk/internal/apperr"
	"github.com/flowdeskhq/flowdesk/internal/engine"
	"github.com/flowdeskhq/flowdesk/internal/models"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

type Handler struct {
	engine *engine.Engine
	log    zerolog.Logger
}

func New(eng *engine.Engine, log zerolog.Logger) *Handler {
	return &Handler{engine: eng, log: log}
}

// respondError maps engine errors onto the response taxonomy. Nothing is
// allowed to propagate uncaught past this point.
func respondError(c *gin.Context, err error) {
	var fieldErr *models.FieldError
	var persistErr *engine.PersistError

	switch {
	case errors.As(err, &fieldErr):
		apperr.BadRequest(c, fieldErr.Error())
	case errors.Is(err, engine.ErrInviteEmailRequired),
		errors.Is(err, engine.ErrInvalidItemRef),
		errors.Is(err, engine.ErrSubtaskDepth):
		apperr.BadRequest(c, err.Error())
	case errors.Is(err, engine.ErrProjectNotFound),
		errors.Is(err, engine.ErrWorkspaceNotFound),
		errors.Is(err, engine.ErrTaskNotFound),
		errors.Is(err, engine.ErrNoteNotFound),
		errors.Is(err, engine.ErrParentTaskNotFound),
		errors.Is(err, engine.ErrItemNotFound),
		errors.Is(err, engine.ErrInviteeNotFound),
		errors.Is(err, engine.ErrCollaboratorNotFound):
		apperr.NotFound(c, err.Error())
	case errors.Is(err, engine.ErrAlreadyCollaborator):
		apperr.Conflict(c, err.Error())
	case errors.As(err, &persistErr):
		apperr.PersistenceFailed(c, persistErr.Error(), persistErr.Failures)
	default:
		apperr.InternalError(c, "")
	}
}

func parseID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		apperr.BadRequest(c, "Invalid id")
		return 0, false
	}
	return id, true
}

func parseOptionalID(c *gin.Context, name string) (*uint64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		apperr.BadRequest(c, "Invalid "+name)
		return nil, false
	}
	return &id, true
}

// pageParams reads limit/offset query parameters with sane bounds.
func pageParams(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit < 1 || limit > maxPageLimit {
		limit = defaultPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// page applies limit/offset to an already-ordered slice.
func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end]
}
