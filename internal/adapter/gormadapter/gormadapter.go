// Package gormadapter implements the persistence adapter on top of a GORM
// database connection. Every batch operation writes each record
// independently and reports per-record failures, matching the adapter
// contract.
package gormadapter

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/flowdeskhq/flowdesk/internal/adapter"
	"github.com/flowdeskhq/flowdesk/internal/models"
)

// Adapter exposes one gorm-backed collection per entity type.
type Adapter struct {
	projects      *collection[models.Project, *models.Project]
	workspaces    *collection[models.Workspace, *models.Workspace]
	tasks         *collection[models.Task, *models.Task]
	notes         *collection[models.Note, *models.Note]
	users         *collection[models.User, *models.User]
	collaborators *collection[models.Collaborator, *models.Collaborator]
	activities    *collection[models.Activity, *models.Activity]
}

// New creates an Adapter over an open database connection.
func New(db *gorm.DB) *Adapter {
	return &Adapter{
		projects:      &collection[models.Project, *models.Project]{db: db},
		workspaces:    &collection[models.Workspace, *models.Workspace]{db: db},
		tasks:         &collection[models.Task, *models.Task]{db: db},
		notes:         &collection[models.Note, *models.Note]{db: db},
		users:         &collection[models.User, *models.User]{db: db},
		collaborators: &collection[models.Collaborator, *models.Collaborator]{db: db},
		activities:    &collection[models.Activity, *models.Activity]{db: db},
	}
}

func (a *Adapter) Projects() adapter.Collection[models.Project] { return a.projects }
func (a *Adapter) Workspaces() adapter.Collection[models.Workspace] {
	return a.workspaces
}
func (a *Adapter) Tasks() adapter.Collection[models.Task] { return a.tasks }
func (a *Adapter) Notes() adapter.Collection[models.Note] { return a.notes }
func (a *Adapter) Users() adapter.Collection[models.User] { return a.users }
func (a *Adapter) Collaborators() adapter.Collection[models.Collaborator] {
	return a.collaborators
}
func (a *Adapter) Activities() adapter.Collection[models.Activity] { return a.activities }

// collection is the gorm implementation of adapter.Collection. PT is the
// pointer type of T carrying the Entity methods.
type collection[T any, PT interface {
	*T
	models.Entity
}] struct {
	db *gorm.DB
}

func (c *collection[T, PT]) FetchAll(ctx context.Context) ([]T, error) {
	var out []T
	if err := c.db.WithContext(ctx).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (c *collection[T, PT]) CreateAll(ctx context.Context, records []T) ([]T, []adapter.RecordFailure, error) {
	created := make([]T, 0, len(records))
	var failures []adapter.RecordFailure
	now := time.Now()

	for i := range records {
		rec := records[i]
		if err := PT(&rec).Validate(); err != nil {
			failures = append(failures, adapter.RecordFailure{Index: i, Reason: err.Error()})
			continue
		}
		// Fill the domain timestamps gorm knows nothing about (invited-at,
		// activity timestamp) alongside the audit pair.
		PT(&rec).Stamp(now)
		if err := c.db.WithContext(ctx).Create(PT(&rec)).Error; err != nil {
			failures = append(failures, adapter.RecordFailure{Index: i, Reason: err.Error()})
			continue
		}
		created = append(created, rec)
	}

	return created, failures, nil
}

func (c *collection[T, PT]) UpdateAll(ctx context.Context, records []T) ([]T, []adapter.RecordFailure, error) {
	updated := make([]T, 0, len(records))
	var failures []adapter.RecordFailure
	now := time.Now()

	for i := range records {
		rec := records[i]
		id := PT(&rec).GetID()
		if id == 0 {
			failures = append(failures, adapter.RecordFailure{Index: i, Reason: "missing identifier"})
			continue
		}
		if err := PT(&rec).Validate(); err != nil {
			failures = append(failures, adapter.RecordFailure{Index: i, ID: id, Reason: err.Error()})
			continue
		}

		var existing T
		if err := c.db.WithContext(ctx).First(PT(&existing), id).Error; err != nil {
			reason := err.Error()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				reason = "record does not exist"
			}
			failures = append(failures, adapter.RecordFailure{Index: i, ID: id, Reason: reason})
			continue
		}

		PT(&rec).Stamp(now)
		if err := c.db.WithContext(ctx).Save(PT(&rec)).Error; err != nil {
			failures = append(failures, adapter.RecordFailure{Index: i, ID: id, Reason: err.Error()})
			continue
		}
		updated = append(updated, rec)
	}

	return updated, failures, nil
}

func (c *collection[T, PT]) DeleteAll(ctx context.Context, ids []uint64) ([]adapter.RecordFailure, error) {
	var failures []adapter.RecordFailure

	for i, id := range ids {
		res := c.db.WithContext(ctx).Delete(PT(new(T)), id)
		if res.Error != nil {
			failures = append(failures, adapter.RecordFailure{Index: i, ID: id, Reason: res.Error.Error()})
			continue
		}
		if res.RowsAffected == 0 {
			failures = append(failures, adapter.RecordFailure{Index: i, ID: id, Reason: "record does not exist"})
		}
	}

	return failures, nil
}
