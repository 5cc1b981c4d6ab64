// Package dto holds the API response shapes where they differ from the
// stored models. Due dates are calendar dates on the wire, not instants.
package dto

import (
	"time"

	"github.com/flowdeskhq/flowdesk/internal/models"
)

// DueDateLayout is the wire format for due dates.
const DueDateLayout = "2006-01-02"

// TaskDTO represents a task in API responses.
type TaskDTO struct {
	ID           uint64              `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Priority     models.TaskPriority `json:"priority"`
	Status       models.TaskStatus   `json:"status"`
	DueDate      *string             `json:"due_date"`
	ParentTaskID *uint64             `json:"parent_task_id"`
	WorkspaceID  *uint64             `json:"workspace_id"`
	OwnerID      uint64              `json:"owner_id"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// ToTaskDTO converts a Task model to its response shape.
func ToTaskDTO(t models.Task) TaskDTO {
	dto := TaskDTO{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Priority:     t.Priority,
		Status:       t.Status,
		ParentTaskID: t.ParentTaskID,
		WorkspaceID:  t.WorkspaceID,
		OwnerID:      t.OwnerID,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
	if t.DueDate != nil {
		due := t.DueDate.Format(DueDateLayout)
		dto.DueDate = &due
	}
	return dto
}

// ToTaskDTOs converts a slice of tasks.
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	out := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		out[i] = ToTaskDTO(t)
	}
	return out
}

// ParseDueDate parses the wire form of a due date.
func ParseDueDate(s string) (time.Time, error) {
	return time.Parse(DueDateLayout, s)
}
