package localstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowdeskhq/flowdesk/internal/models"
)

func openTestStore(t *testing.T, onChange func()) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "flowdesk.db")
	s, err := Open(path, onChange)
	require.NoError(t, err)
	t.Cleanup(func() {
		s.Close()
	})
	return s
}

func TestCreateAll_AssignsSequentialIDs(t *testing.T) {
	s := openTestStore(t, nil)
	ctx := context.Background()

	created, failures, err := s.Projects().CreateAll(ctx, []models.Project{
		{Name: "First", Status: models.ProjectStatusActive, Category: models.CategoryWork, OwnerID: 1},
		{Name: "Second", Status: models.ProjectStatusActive, Category: models.CategoryWork, OwnerID: 1},
	})
	require.NoError(t, err)
	require.Empty(t, failures)
	require.Equal(t, uint64(1), created[0].ID)
	require.Equal(t, uint64(2), created[1].ID)
	require.False(t, created[0].CreatedAt.IsZero())

	// IDs keep counting across collections; the counter is shared.
	tasks, _, err := s.Tasks().CreateAll(ctx, []models.Task{
		{Title: "Third", Priority: models.PriorityMedium, Status: models.TaskStatusPending, OwnerID: 1},
	})
	require.NoError(t, err)
	require.Equal(t, uint64(3), tasks[0].ID)
}

func TestDataSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flowdesk.db")
	ctx := context.Background()

	s, err := Open(path, nil)
	require.NoError(t, err)
	_, _, err = s.Notes().CreateAll(ctx, []models.Note{
		{Title: "Persistent", Tags: models.Tags{"keep"}, OwnerID: 1},
	})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path, nil)
	require.NoError(t, err)
	defer s.Close()

	notes, err := s.Notes().FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	require.Equal(t, "Persistent", notes[0].Title)
	require.Equal(t, models.Tags{"keep"}, notes[0].Tags)
}

func TestUpdateAll_ReportsMissing(t *testing.T) {
	s := openTestStore(t, nil)
	ctx := context.Background()

	created, _, err := s.Projects().CreateAll(ctx, []models.Project{
		{Name: "Original", Status: models.ProjectStatusActive, Category: models.CategoryWork, OwnerID: 1},
	})
	require.NoError(t, err)

	rec := created[0]
	rec.Name = "Renamed"
	ghost := models.Project{ID: 42, Name: "Ghost", Status: models.ProjectStatusActive, Category: models.CategoryWork, OwnerID: 1}

	updated, failures, err := s.Projects().UpdateAll(ctx, []models.Project{rec, ghost})
	require.NoError(t, err)
	require.Len(t, updated, 1)
	require.Len(t, failures, 1)
	require.Equal(t, "record does not exist", failures[0].Reason)

	stored, err := s.Projects().FetchAll(ctx)
	require.NoError(t, err)
	require.Equal(t, "Renamed", stored[0].Name)
}

func TestDeleteAll(t *testing.T) {
	s := openTestStore(t, nil)
	ctx := context.Background()

	created, _, err := s.Tasks().CreateAll(ctx, []models.Task{
		{Title: "A", Priority: models.PriorityMedium, Status: models.TaskStatusPending, OwnerID: 1},
		{Title: "B", Priority: models.PriorityMedium, Status: models.TaskStatusPending, OwnerID: 1},
	})
	require.NoError(t, err)

	failures, err := s.Tasks().DeleteAll(ctx, []uint64{created[0].ID, 99})
	require.NoError(t, err)
	require.Len(t, failures, 1)
	require.Equal(t, uint64(99), failures[0].ID)

	remaining, err := s.Tasks().FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	require.Equal(t, "B", remaining[0].Title)
}

func TestOnChangeFiresPerWrite(t *testing.T) {
	var calls int
	s := openTestStore(t, func() { calls++ })
	ctx := context.Background()

	created, _, err := s.Projects().CreateAll(ctx, []models.Project{
		{Name: "Watched", Status: models.ProjectStatusActive, Category: models.CategoryWork, OwnerID: 1},
	})
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	_, err = s.Projects().FetchAll(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, calls, "reads must not fire the change callback")

	_, err = s.Projects().DeleteAll(ctx, []uint64{created[0].ID})
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}
