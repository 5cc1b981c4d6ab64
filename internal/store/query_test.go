package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/flowdeskhq/flowdesk/internal/models"
)

func ptr[T any](v T) *T { return &v }

func fixtureSnapshot() Snapshot {
	day := func(d int) time.Time {
		return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
	}
	return Snapshot{
		Projects: []models.Project{
			{ID: 1, Name: "Launch"},
			{ID: 2, Name: "Internal"},
		},
		Workspaces: []models.Workspace{
			{ID: 10, Name: "Design", ProjectID: 1},
			{ID: 11, Name: "Engineering", ProjectID: 1},
			{ID: 12, Name: "Ops", ProjectID: 2},
		},
		Tasks: []models.Task{
			{ID: 100, Title: "Ship", WorkspaceID: ptr(uint64(11)), DueDate: ptr(day(15)), CreatedAt: day(1)},
			{ID: 101, Title: "QA", ParentTaskID: ptr(uint64(100)), CreatedAt: day(3)},
			{ID: 102, Title: "Docs", ParentTaskID: ptr(uint64(100)), CreatedAt: day(2)},
			{ID: 103, Title: "Standalone", DueDate: ptr(day(15))},
			{ID: 104, Title: "Later", DueDate: ptr(day(16))},
		},
		Notes: []models.Note{
			{ID: 200, Title: "Retro", WorkspaceID: ptr(uint64(11))},
			{ID: 201, Title: "Loose"},
		},
		Users: []models.User{
			{ID: 300, Name: "Alice", Email: "Alice@Example.com"},
			{ID: 301, Name: "Bob", Email: "bob@example.com"},
		},
		Collaborators: []models.Collaborator{
			{ID: 400, UserID: 301, Item: models.ItemRef{ID: 1, Type: models.ItemTypeProject}},
		},
	}
}

func TestParentTasks(t *testing.T) {
	snap := fixtureSnapshot()
	parents := snap.ParentTasks()
	require.Len(t, parents, 3)
	for _, task := range parents {
		require.False(t, task.IsSubtask())
	}
}

func TestSubtasksOf_OrderedByCreation(t *testing.T) {
	snap := fixtureSnapshot()
	subs := snap.SubtasksOf(100)
	require.Len(t, subs, 2)
	require.Equal(t, "Docs", subs[0].Title)
	require.Equal(t, "QA", subs[1].Title)

	require.Empty(t, snap.SubtasksOf(103))
	require.Empty(t, snap.SubtasksOf(999))
}

func TestWorkspacesOf(t *testing.T) {
	snap := fixtureSnapshot()
	require.Len(t, snap.WorkspacesOf(1), 2)
	require.Len(t, snap.WorkspacesOf(2), 1)
	require.Empty(t, snap.WorkspacesOf(3))
}

func TestTasksOf_ExcludesSubtasks(t *testing.T) {
	snap := fixtureSnapshot()
	tasks := snap.TasksOf(11)
	require.Len(t, tasks, 1)
	require.Equal(t, "Ship", tasks[0].Title)
}

func TestNotesOf(t *testing.T) {
	snap := fixtureSnapshot()
	notes := snap.NotesOf(11)
	require.Len(t, notes, 1)
	require.Equal(t, "Retro", notes[0].Title)
	require.Empty(t, snap.NotesOf(12))
}

func TestTasksDueOn_CalendarDayMatch(t *testing.T) {
	snap := fixtureSnapshot()

	afternoon := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	due := snap.TasksDueOn(afternoon)
	require.Len(t, due, 2)

	require.Empty(t, snap.TasksDueOn(time.Date(2024, 3, 14, 23, 59, 0, 0, time.UTC)))
	require.Len(t, snap.TasksDueOn(time.Date(2024, 3, 16, 0, 0, 1, 0, time.UTC)), 1)
}

func TestUserByEmail_CaseInsensitive(t *testing.T) {
	snap := fixtureSnapshot()

	u, ok := snap.UserByEmail("alice@example.com")
	require.True(t, ok)
	require.Equal(t, uint64(300), u.ID)

	u, ok = snap.UserByEmail("BOB@EXAMPLE.COM")
	require.True(t, ok)
	require.Equal(t, uint64(301), u.ID)

	_, ok = snap.UserByEmail("nobody@example.com")
	require.False(t, ok)
}

func TestCollaboratorFor(t *testing.T) {
	snap := fixtureSnapshot()
	ref := models.ItemRef{ID: 1, Type: models.ItemTypeProject}

	c, ok := snap.CollaboratorFor(301, ref)
	require.True(t, ok)
	require.Equal(t, uint64(400), c.ID)

	_, ok = snap.CollaboratorFor(300, ref)
	require.False(t, ok)
	_, ok = snap.CollaboratorFor(301, models.ItemRef{ID: 1, Type: models.ItemTypeWorkspace})
	require.False(t, ok)
}

func TestItemExists(t *testing.T) {
	snap := fixtureSnapshot()
	require.True(t, snap.ItemExists(models.ItemRef{ID: 1, Type: models.ItemTypeProject}))
	require.True(t, snap.ItemExists(models.ItemRef{ID: 10, Type: models.ItemTypeWorkspace}))
	require.False(t, snap.ItemExists(models.ItemRef{ID: 99, Type: models.ItemTypeProject}))
	require.False(t, snap.ItemExists(models.ItemRef{ID: 1, Type: "folder"}))
}

func TestItemName(t *testing.T) {
	snap := fixtureSnapshot()
	require.Equal(t, "Launch", snap.ItemName(models.ItemRef{ID: 1, Type: models.ItemTypeProject}))
	require.Equal(t, "Ops", snap.ItemName(models.ItemRef{ID: 12, Type: models.ItemTypeWorkspace}))
	require.Equal(t, "", snap.ItemName(models.ItemRef{ID: 99, Type: models.ItemTypeProject}))
}

func TestApplyBumpsVersion(t *testing.T) {
	st := New(nil)
	require.Equal(t, uint64(0), st.Snapshot().Version)

	st.Apply(func(snap *Snapshot) {
		snap.Projects = upsert(snap.Projects, models.Project{ID: 1, Name: "First"})
	})
	require.Equal(t, uint64(1), st.Snapshot().Version)

	st.Apply(func(snap *Snapshot) {
		snap.Projects = upsert(snap.Projects, models.Project{ID: 1, Name: "Renamed"})
	})
	snap := st.Snapshot()
	require.Equal(t, uint64(2), snap.Version)
	require.Len(t, snap.Projects, 1)
	require.Equal(t, "Renamed", snap.Projects[0].Name)
}
