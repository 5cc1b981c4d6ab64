package gormadapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/flowdeskhq/flowdesk/internal/models"
)

func setupAdapter(t *testing.T) *Adapter {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Project{},
		&models.Task{},
		&models.Collaborator{},
		&models.Activity{},
	))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return New(db)
}

func TestCreateAll_AssignsIDs(t *testing.T) {
	ad := setupAdapter(t)
	ctx := context.Background()

	created, failures, err := ad.Projects().CreateAll(ctx, []models.Project{
		{Name: "One", Status: models.ProjectStatusActive, Category: models.CategoryWork, OwnerID: 1},
		{Name: "Two", Status: models.ProjectStatusActive, Category: models.CategoryWork, OwnerID: 1},
	})
	require.NoError(t, err)
	require.Empty(t, failures)
	require.Len(t, created, 2)
	require.NotZero(t, created[0].ID)
	require.NotEqual(t, created[0].ID, created[1].ID)
}

func TestCreateAll_StampsDomainTimestamps(t *testing.T) {
	ad := setupAdapter(t)
	ctx := context.Background()

	collabs, failures, err := ad.Collaborators().CreateAll(ctx, []models.Collaborator{
		{
			UserID:     2,
			Item:       models.ItemRef{ID: 1, Type: models.ItemTypeProject},
			Permission: models.PermissionEditor,
			InvitedBy:  1,
		},
	})
	require.NoError(t, err)
	require.Empty(t, failures)
	require.False(t, collabs[0].InvitedAt.IsZero())
	require.False(t, collabs[0].CreatedAt.IsZero())

	acts, failures, err := ad.Activities().CreateAll(ctx, []models.Activity{
		{UserID: 1, Action: "created", ItemName: "Launch", ItemType: "project"},
	})
	require.NoError(t, err)
	require.Empty(t, failures)
	require.False(t, acts[0].Timestamp.IsZero())

	// Stored form agrees with what was returned.
	stored, err := ad.Activities().FetchAll(ctx)
	require.NoError(t, err)
	require.False(t, stored[0].Timestamp.IsZero())
}

func TestUpdateAll_RefreshesUpdatedAt(t *testing.T) {
	ad := setupAdapter(t)
	ctx := context.Background()

	created, _, err := ad.Projects().CreateAll(ctx, []models.Project{
		{Name: "Stale", Status: models.ProjectStatusActive, Category: models.CategoryWork, OwnerID: 1},
	})
	require.NoError(t, err)

	rec := created[0]
	rec.Name = "Fresh"
	rec.UpdatedAt = rec.UpdatedAt.Add(-time.Hour)
	before := rec.UpdatedAt

	updated, failures, err := ad.Projects().UpdateAll(ctx, []models.Project{rec})
	require.NoError(t, err)
	require.Empty(t, failures)
	require.True(t, updated[0].UpdatedAt.After(before))
	require.Equal(t, created[0].CreatedAt, updated[0].CreatedAt)
}

func TestCreateAll_PartialFailure(t *testing.T) {
	ad := setupAdapter(t)
	ctx := context.Background()

	created, failures, err := ad.Projects().CreateAll(ctx, []models.Project{
		{Name: "Valid", Status: models.ProjectStatusActive, Category: models.CategoryWork, OwnerID: 1},
		{Status: models.ProjectStatusActive, Category: models.CategoryWork, OwnerID: 1}, // no name
		{Name: "Also valid", Status: models.ProjectStatusActive, Category: models.CategoryWork, OwnerID: 1},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)
	require.Len(t, failures, 1)
	require.Equal(t, 1, failures[0].Index)

	stored, err := ad.Projects().FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 2)
}

func TestUpdateAll_MissingRecord(t *testing.T) {
	ad := setupAdapter(t)
	ctx := context.Background()

	created, _, err := ad.Projects().CreateAll(ctx, []models.Project{
		{Name: "Existing", Status: models.ProjectStatusActive, Category: models.CategoryWork, OwnerID: 1},
	})
	require.NoError(t, err)

	existing := created[0]
	existing.Name = "Renamed"
	ghost := models.Project{ID: 9999, Name: "Ghost", Status: models.ProjectStatusActive, Category: models.CategoryWork, OwnerID: 1}

	updated, failures, err := ad.Projects().UpdateAll(ctx, []models.Project{existing, ghost})
	require.NoError(t, err)
	require.Len(t, updated, 1)
	require.Equal(t, "Renamed", updated[0].Name)
	require.Len(t, failures, 1)
	require.Equal(t, uint64(9999), failures[0].ID)
	require.Equal(t, "record does not exist", failures[0].Reason)
}

func TestUpdateAll_MissingIdentifier(t *testing.T) {
	ad := setupAdapter(t)

	_, failures, err := ad.Projects().UpdateAll(context.Background(), []models.Project{
		{Name: "No id", Status: models.ProjectStatusActive, Category: models.CategoryWork, OwnerID: 1},
	})
	require.NoError(t, err)
	require.Len(t, failures, 1)
	require.Equal(t, "missing identifier", failures[0].Reason)
}

func TestDeleteAll_ReportsMissing(t *testing.T) {
	ad := setupAdapter(t)
	ctx := context.Background()

	created, _, err := ad.Tasks().CreateAll(ctx, []models.Task{
		{Title: "Keep me honest", Priority: models.PriorityMedium, Status: models.TaskStatusPending, OwnerID: 1},
	})
	require.NoError(t, err)

	failures, err := ad.Tasks().DeleteAll(ctx, []uint64{created[0].ID, 4242})
	require.NoError(t, err)
	require.Len(t, failures, 1)
	require.Equal(t, uint64(4242), failures[0].ID)

	remaining, err := ad.Tasks().FetchAll(ctx)
	require.NoError(t, err)
	require.Empty(t, remaining)
}

func TestFetchAll_PropagatesQueryError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	boom := errors.New("connection lost")
	mock.ExpectQuery("SELECT").WillReturnError(boom)

	_, err = New(db).Projects().FetchAll(context.Background())
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}
