// Package selection tracks the transient UI-facing state that parameterizes
// which entities the resolver surfaces: active tab, calendar date, selected
// project and workspace. It never holds entity data itself.
package selection

import (
	"sync"
	"time"

	"github.com/flowdeskhq/flowdesk/internal/events"
)

type Tab string

const (
	TabTasks      Tab = "tasks"
	TabProjects   Tab = "projects"
	TabNotes      Tab = "notes"
	TabWorkspaces Tab = "workspaces"
)

func (t Tab) Valid() bool {
	switch t {
	case TabTasks, TabProjects, TabNotes, TabWorkspaces:
		return true
	}
	return false
}

// State is the current selection. Nil pointers mean "no filter"; clearing a
// filter restores exactly the unfiltered view.
type State struct {
	ActiveTab   Tab        `json:"active_tab"`
	Date        *time.Time `json:"date"`
	ProjectID   *uint64    `json:"project_id"`
	WorkspaceID *uint64    `json:"workspace_id"`
}

type Selection struct {
	mu    sync.Mutex
	state State
	bus   *events.Bus
}

func New(bus *events.Bus) *Selection {
	return &Selection{
		state: State{ActiveTab: TabTasks},
		bus:   bus,
	}
}

func (s *Selection) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Selection) SetTab(tab Tab) {
	s.update(func(st *State) { st.ActiveTab = tab })
}

// SelectProject clears any workspace selection; the workspace list shown
// next belongs to the new project.
func (s *Selection) SelectProject(id uint64) {
	s.update(func(st *State) {
		st.ProjectID = &id
		st.WorkspaceID = nil
	})
}

// SelectWorkspace leaves the project selection untouched.
func (s *Selection) SelectWorkspace(id uint64) {
	s.update(func(st *State) { st.WorkspaceID = &id })
}

func (s *Selection) SelectDate(date time.Time) {
	s.update(func(st *State) { st.Date = &date })
}

func (s *Selection) ClearProject() {
	s.update(func(st *State) {
		st.ProjectID = nil
		st.WorkspaceID = nil
	})
}

func (s *Selection) ClearWorkspace() {
	s.update(func(st *State) { st.WorkspaceID = nil })
}

func (s *Selection) ClearDate() {
	s.update(func(st *State) { st.Date = nil })
}

// DropReferences clears any selection pointing at entities that no longer
// exist. The mutation engine calls it after a cascading delete.
func (s *Selection) DropReferences(projectIDs, workspaceIDs map[uint64]struct{}) {
	s.update(func(st *State) {
		if st.ProjectID != nil {
			if _, gone := projectIDs[*st.ProjectID]; gone {
				st.ProjectID = nil
				st.WorkspaceID = nil
			}
		}
		if st.WorkspaceID != nil {
			if _, gone := workspaceIDs[*st.WorkspaceID]; gone {
				st.WorkspaceID = nil
			}
		}
	})
}

func (s *Selection) update(mutate func(*State)) {
	s.mu.Lock()
	before := s.state
	mutate(&s.state)
	after := s.state
	s.mu.Unlock()

	if s.bus != nil && !equal(before, after) {
		s.bus.Publish(events.Event{Type: events.SelectionChanged})
	}
}

func equal(a, b State) bool {
	return a.ActiveTab == b.ActiveTab &&
		eqTime(a.Date, b.Date) &&
		eqID(a.ProjectID, b.ProjectID) &&
		eqID(a.WorkspaceID, b.WorkspaceID)
}

func eqID(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func eqTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
