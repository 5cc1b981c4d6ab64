package handlers

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/flowdeskhq/flowdesk/internal/apperr"
	"github.com/flowdeskhq/flowdesk/internal/dto"
	"github.com/flowdeskhq/flowdesk/internal/engine"
	"github.com/flowdeskhq/flowdesk/internal/middleware"
	"github.com/flowdeskhq/flowdesk/internal/models"
)

// ListTasks narrows the task list by at most one scope parameter:
// ?parent_id= for subtasks, ?parents=true for top-level tasks only,
// ?workspace_id= for a workspace's own tasks, ?due=YYYY-MM-DD for a
// calendar day. ?q= filters by title on top of any scope.
func (h *Handler) ListTasks(c *gin.Context) {
	snap := h.engine.Store().Snapshot()

	parentID, ok := parseOptionalID(c, "parent_id")
	if !ok {
		return
	}
	workspaceID, ok := parseOptionalID(c, "workspace_id")
	if !ok {
		return
	}

	var tasks []models.Task
	switch {
	case parentID != nil:
		tasks = snap.SubtasksOf(*parentID)
	case workspaceID != nil:
		tasks = snap.TasksOf(*workspaceID)
	case c.Query("due") != "":
		day, err := dto.ParseDueDate(c.Query("due"))
		if err != nil {
			apperr.BadRequest(c, "Invalid due date, expected YYYY-MM-DD")
			return
		}
		tasks = snap.TasksDueOn(day)
	case c.Query("parents") == "true":
		tasks = snap.ParentTasks()
	default:
		tasks = snap.Tasks
	}

	if q := c.Query("q"); q != "" {
		filtered := make([]models.Task, 0, len(tasks))
		for _, t := range tasks {
			if strings.Contains(strings.ToLower(t.Title), strings.ToLower(q)) {
				filtered = append(filtered, t)
			}
		}
		tasks = filtered
	}

	ordered := make([]models.Task, len(tasks))
	copy(ordered, tasks)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.After(ordered[j].CreatedAt)
	})

	limit, offset := pageParams(c)
	c.JSON(http.StatusOK, gin.H{
		"tasks": dto.ToTaskDTOs(page(ordered, limit, offset)),
		"total": len(ordered),
	})
}

func (h *Handler) GetTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	task, found := h.engine.Store().Snapshot().TaskByID(id)
	if !found {
		apperr.NotFound(c, "Task not found")
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskDTO(task))
}

func (h *Handler) CreateTask(c *gin.Context) {
	actorID, _ := middleware.GetActorID(c)

	type createTaskRequest struct {
		Title        string              `json:"title" binding:"required"`
		Description  string              `json:"description"`
		Priority     models.TaskPriority `json:"priority"`
		Status       models.TaskStatus   `json:"status"`
		DueDate      *string             `json:"due_date"`
		ParentTaskID *uint64             `json:"parent_task_id"`
		WorkspaceID  *uint64             `json:"workspace_id"`
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.BadRequest(c, "Invalid request body")
		return
	}

	in := engine.CreateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		Priority:     req.Priority,
		Status:       req.Status,
		ParentTaskID: req.ParentTaskID,
		WorkspaceID:  req.WorkspaceID,
		ActorID:      actorID,
	}
	if req.DueDate != nil {
		due, err := dto.ParseDueDate(*req.DueDate)
		if err != nil {
			apperr.BadRequest(c, "Invalid due date, expected YYYY-MM-DD")
			return
		}
		in.DueDate = &due
	}

	task, err := h.engine.CreateTask(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

func (h *Handler) UpdateTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	type updateTaskRequest struct {
		Title          *string              `json:"title"`
		Description    *string              `json:"description"`
		Priority       *models.TaskPriority `json:"priority"`
		Status         *models.TaskStatus   `json:"status"`
		DueDate        *string              `json:"due_date"`
		ClearDueDate   bool                 `json:"clear_due_date"`
		WorkspaceID    *uint64              `json:"workspace_id"`
		ClearWorkspace bool                 `json:"clear_workspace"`
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.BadRequest(c, "Invalid request body")
		return
	}

	in := engine.UpdateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		Priority:       req.Priority,
		Status:         req.Status,
		ClearDueDate:   req.ClearDueDate,
		WorkspaceID:    req.WorkspaceID,
		ClearWorkspace: req.ClearWorkspace,
	}
	if req.DueDate != nil {
		due, err := dto.ParseDueDate(*req.DueDate)
		if err != nil {
			apperr.BadRequest(c, "Invalid due date, expected YYYY-MM-DD")
			return
		}
		in.DueDate = &due
	}

	task, err := h.engine.UpdateTask(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// ToggleTask flips completion without the caller restating the rest of
// the task.
func (h *Handler) ToggleTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	actorID, _ := middleware.GetActorID(c)

	task, err := h.engine.ToggleTaskStatus(c.Request.Context(), id, actorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

func (h *Handler) DeleteTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	actorID, _ := middleware.GetActorID(c)

	if err := h.engine.DeleteTask(c.Request.Context(), id, actorID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}
