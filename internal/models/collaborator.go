package models

import (
	"fmt"
	"time"
)

type ItemType string

const (
	ItemTypeProject   ItemType = "project"
	ItemTypeWorkspace ItemType = "workspace"
)

func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeProject, ItemTypeWorkspace:
		return true
	}
	return false
}

// ItemRef is the polymorphic reference a collaborator is attached to: a
// project or a workspace, identified by id plus type tag. The flat pair is
// what goes over the wire; code should switch on Type exhaustively instead
// of comparing strings ad hoc.
type ItemRef struct {
	ID   uint64   `gorm:"column:item_id;not null;index:idx_collaborators_item" json:"item_id"`
	Type ItemType `gorm:"column:item_type;type:varchar(20);not null;index:idx_collaborators_item" json:"item_type"`
}

func (r ItemRef) Valid() bool {
	return r.ID != 0 && r.Type.Valid()
}

func (r ItemRef) String() string {
	return fmt.Sprintf("%s/%d", r.Type, r.ID)
}

type Permission string

const (
	PermissionViewer Permission = "viewer"
	PermissionEditor Permission = "editor"
)

func (p Permission) Valid() bool {
	switch p {
	case PermissionViewer, PermissionEditor:
		return true
	}
	return false
}

// Collaborator attaches a user to a project or workspace. At most one
// record may exist per (user, item id, item type) triple.
type Collaborator struct {
	ID         uint64     `gorm:"primarykey" json:"id"`
	UserID     uint64     `gorm:"not null;index" json:"user_id"`
	Item       ItemRef    `gorm:"embedded" json:"item"`
	Permission Permission `gorm:"type:varchar(20);not null;default:'editor'" json:"permission"`
	InvitedBy  uint64     `gorm:"not null" json:"invited_by"`
	InvitedAt  time.Time  `json:"invited_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (c Collaborator) GetID() uint64 { return c.ID }

func (c *Collaborator) SetID(id uint64) { c.ID = id }

func (c *Collaborator) Stamp(now time.Time) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.InvitedAt.IsZero() {
		c.InvitedAt = now
	}
	c.UpdatedAt = now
}

func (c Collaborator) Validate() error {
	if c.UserID == 0 {
		return ErrMissingField("user_id")
	}
	if !c.Item.Valid() {
		return ErrInvalidField("item")
	}
	if !c.Permission.Valid() {
		return ErrInvalidField("permission")
	}
	return nil
}

// Matches reports whether this record covers the given (user, item) pair.
func (c Collaborator) Matches(userID uint64, ref ItemRef) bool {
	return c.UserID == userID && c.Item == ref
}
