package models

import "time"

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// Task is either a parent task (ParentTaskID nil) or a subtask exactly one
// level down. Subtasks of subtasks are rejected at creation time.
type Task struct {
	ID           uint64       `gorm:"primarykey" json:"id"`
	Title        string       `gorm:"type:varchar(255);not null" json:"title"`
	Description  string       `gorm:"type:text" json:"description"`
	Priority     TaskPriority `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	Status       TaskStatus   `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	DueDate      *time.Time   `gorm:"type:date" json:"due_date"`
	ParentTaskID *uint64      `gorm:"index" json:"parent_task_id"`
	WorkspaceID  *uint64      `gorm:"index" json:"workspace_id"`
	OwnerID      uint64       `gorm:"not null;index" json:"owner_id"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (t Task) GetID() uint64 { return t.ID }

func (t *Task) SetID(id uint64) { t.ID = id }

func (t *Task) Stamp(now time.Time) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
}

func (t Task) Validate() error {
	if t.Title == "" {
		return ErrMissingField("title")
	}
	if !t.Priority.Valid() {
		return ErrInvalidField("priority")
	}
	if !t.Status.Valid() {
		return ErrInvalidField("status")
	}
	return nil
}

// IsSubtask reports whether the task has a parent reference.
func (t Task) IsSubtask() bool { return t.ParentTaskID != nil }
