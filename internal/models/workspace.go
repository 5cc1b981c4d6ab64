package models

import "time"

type Workspace struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	ProjectID   uint64    `gorm:"not null;index" json:"project_id"`
	OwnerID     uint64    `gorm:"not null;index" json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (w Workspace) GetID() uint64 { return w.ID }

func (w *Workspace) SetID(id uint64) { w.ID = id }

func (w *Workspace) Stamp(now time.Time) {
	if w.CreatedAt.IsZero() {
		w.CreatedAt = now
	}
	w.UpdatedAt = now
}

func (w Workspace) Validate() error {
	if w.Name == "" {
		return ErrMissingField("name")
	}
	if w.ProjectID == 0 {
		return ErrMissingField("project_id")
	}
	return nil
}
