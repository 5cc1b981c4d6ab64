package models

import "time"

// Activity is an append-only feed entry describing who did what to which
// item. Writes are best effort; a failed append never rolls back the
// mutation it describes.
type Activity struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	UserID    uint64    `gorm:"not null;index" json:"user_id"`
	Action    string    `gorm:"type:varchar(50);not null" json:"action"`
	ItemName  string    `gorm:"type:varchar(255);not null" json:"item_name"`
	ItemType  string    `gorm:"type:varchar(50);not null" json:"item_type"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a Activity) GetID() uint64 { return a.ID }

func (a *Activity) SetID(id uint64) { a.ID = id }

func (a *Activity) Stamp(now time.Time) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = now
	}
	a.UpdatedAt = now
}

func (a Activity) Validate() error {
	if a.UserID == 0 {
		return ErrMissingField("user_id")
	}
	if a.Action == "" {
		return ErrMissingField("action")
	}
	if a.ItemName == "" {
		return ErrMissingField("item_name")
	}
	if a.ItemType == "" {
		return ErrMissingField("item_type")
	}
	return nil
}
