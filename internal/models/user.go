package models

import "time"

type User struct {
	ID        uint64     `gorm:"primarykey" json:"id"`
	Name      string     `gorm:"type:varchar(255);not null" json:"name"`
	Email     string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Avatar    string     `gorm:"type:varchar(512)" json:"avatar"`
	IsOnline  bool       `gorm:"not null;default:false" json:"is_online"`
	LastSeen  *time.Time `json:"last_seen"`
	Role      string     `gorm:"type:varchar(50)" json:"role"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (u User) GetID() uint64 { return u.ID }

func (u *User) SetID(id uint64) { u.ID = id }

func (u *User) Stamp(now time.Time) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
}

func (u User) Validate() error {
	if u.Name == "" {
		return ErrMissingField("name")
	}
	if u.Email == "" {
		return ErrMissingField("email")
	}
	return nil
}
