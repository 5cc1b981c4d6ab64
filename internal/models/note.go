package models

import "time"

type Note struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Content     string    `gorm:"type:text" json:"content"`
	Tags        Tags      `gorm:"type:varchar(1024)" json:"tags"`
	WorkspaceID *uint64   `gorm:"index" json:"workspace_id"`
	OwnerID     uint64    `gorm:"not null;index" json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (n Note) GetID() uint64 { return n.ID }

func (n *Note) SetID(id uint64) { n.ID = id }

func (n *Note) Stamp(now time.Time) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	n.UpdatedAt = now
}

func (n Note) Validate() error {
	if n.Title == "" {
		return ErrMissingField("title")
	}
	return nil
}
