package models

import (
	"time"
)

type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusArchived  ProjectStatus = "archived"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusActive, ProjectStatusCompleted, ProjectStatusArchived:
		return true
	}
	return false
}

type ProjectCategory string

const (
	CategoryPersonal  ProjectCategory = "personal"
	CategoryWork      ProjectCategory = "work"
	CategoryEducation ProjectCategory = "education"
	CategoryHobby     ProjectCategory = "hobby"
	CategoryOther     ProjectCategory = "other"
)

func (c ProjectCategory) Valid() bool {
	switch c {
	case CategoryPersonal, CategoryWork, CategoryEducation, CategoryHobby, CategoryOther:
		return true
	}
	return false
}

type Project struct {
	ID          uint64          `gorm:"primarykey" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Status      ProjectStatus   `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	Category    ProjectCategory `gorm:"type:varchar(20);not null;default:'other'" json:"category"`
	OwnerID     uint64          `gorm:"not null;index" json:"owner_id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (p Project) GetID() uint64 { return p.ID }

func (p *Project) SetID(id uint64) { p.ID = id }

func (p *Project) Stamp(now time.Time) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}

func (p Project) Validate() error {
	if p.Name == "" {
		return ErrMissingField("name")
	}
	if !p.Status.Valid() {
		return ErrInvalidField("status")
	}
	if !p.Category.Valid() {
		return ErrInvalidField("category")
	}
	return nil
}
