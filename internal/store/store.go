// Package store owns the authoritative in-memory snapshot for the active
// session. The snapshot is loaded wholesale from the persistence adapter
// and only ever updated after an adapter write has succeeded, so memory
// never leads storage.
package store

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/flowdeskhq/flowdesk/internal/adapter"
	"github.com/flowdeskhq/flowdesk/internal/models"
)

// Store holds the versioned snapshot behind an explicit load/read/apply API.
type Store struct {
	mu      sync.RWMutex
	adapter adapter.Adapter
	snap    Snapshot
}

func New(a adapter.Adapter) *Store {
	return &Store{adapter: a}
}

// Adapter returns the persistence adapter the store writes through.
func (s *Store) Adapter() adapter.Adapter { return s.adapter }

// Load replaces the entire snapshot from the adapter. The collections are
// independent reads, so they are fetched in parallel.
func (s *Store) Load(ctx context.Context) error {
	var next Snapshot
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		next.Projects, err = s.adapter.Projects().FetchAll(ctx)
		return
	})
	g.Go(func() (err error) {
		next.Workspaces, err = s.adapter.Workspaces().FetchAll(ctx)
		return
	})
	g.Go(func() (err error) {
		next.Tasks, err = s.adapter.Tasks().FetchAll(ctx)
		return
	})
	g.Go(func() (err error) {
		next.Notes, err = s.adapter.Notes().FetchAll(ctx)
		return
	})
	g.Go(func() (err error) {
		next.Users, err = s.adapter.Users().FetchAll(ctx)
		return
	})
	g.Go(func() (err error) {
		next.Collaborators, err = s.adapter.Collaborators().FetchAll(ctx)
		return
	})
	g.Go(func() (err error) {
		next.Activities, err = s.adapter.Activities().FetchAll(ctx)
		return
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	s.mu.Lock()
	next.Version = s.snap.Version + 1
	s.snap = next
	s.mu.Unlock()
	return nil
}

// Snapshot returns the current snapshot value. Callers must treat the
// contained slices as read-only.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Apply runs mutate against a copy of the snapshot and installs the result
// with a bumped version. It is called only after the corresponding adapter
// write succeeded.
func (s *Store) Apply(mutate func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.snap
	mutate(&next)
	next.Version = s.snap.Version + 1
	s.snap = next
}

// Convenience appliers used by the mutation engine. Each installs adapter
// results into the snapshot.

func (s *Store) PutProjects(recs []models.Project) {
	s.Apply(func(snap *Snapshot) {
		for _, r := range recs {
			snap.Projects = upsert(snap.Projects, r)
		}
	})
}

func (s *Store) RemoveProjects(ids []uint64) {
	s.Apply(func(snap *Snapshot) {
		snap.Projects = removeByID(snap.Projects, idSet(ids))
	})
}

func (s *Store) PutWorkspaces(recs []models.Workspace) {
	s.Apply(func(snap *Snapshot) {
		for _, r := range recs {
			snap.Workspaces = upsert(snap.Workspaces, r)
		}
	})
}

func (s *Store) RemoveWorkspaces(ids []uint64) {
	s.Apply(func(snap *Snapshot) {
		snap.Workspaces = removeByID(snap.Workspaces, idSet(ids))
	})
}

func (s *Store) PutTasks(recs []models.Task) {
	s.Apply(func(snap *Snapshot) {
		for _, r := range recs {
			snap.Tasks = upsert(snap.Tasks, r)
		}
	})
}

func (s *Store) RemoveTasks(ids []uint64) {
	s.Apply(func(snap *Snapshot) {
		snap.Tasks = removeByID(snap.Tasks, idSet(ids))
	})
}

func (s *Store) PutNotes(recs []models.Note) {
	s.Apply(func(snap *Snapshot) {
		for _, r := range recs {
			snap.Notes = upsert(snap.Notes, r)
		}
	})
}

func (s *Store) RemoveNotes(ids []uint64) {
	s.Apply(func(snap *Snapshot) {
		snap.Notes = removeByID(snap.Notes, idSet(ids))
	})
}

func (s *Store) PutUsers(recs []models.User) {
	s.Apply(func(snap *Snapshot) {
		for _, r := range recs {
			snap.Users = upsert(snap.Users, r)
		}
	})
}

func (s *Store) PutCollaborators(recs []models.Collaborator) {
	s.Apply(func(snap *Snapshot) {
		for _, r := range recs {
			snap.Collaborators = upsert(snap.Collaborators, r)
		}
	})
}

func (s *Store) RemoveCollaborators(ids []uint64) {
	s.Apply(func(snap *Snapshot) {
		snap.Collaborators = removeByID(snap.Collaborators, idSet(ids))
	})
}

func (s *Store) PutActivities(recs []models.Activity) {
	s.Apply(func(snap *Snapshot) {
		for _, r := range recs {
			snap.Activities = upsert(snap.Activities, r)
		}
	})
}
