package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/flowdeskhq/flowdesk/internal/adapter/gormadapter"
	"github.com/flowdeskhq/flowdesk/internal/engine"
	"github.com/flowdeskhq/flowdesk/internal/events"
	"github.com/flowdeskhq/flowdesk/internal/middleware"
	"github.com/flowdeskhq/flowdesk/internal/models"
	"github.com/flowdeskhq/flowdesk/internal/selection"
	"github.com/flowdeskhq/flowdesk/internal/store"
)

type handlerTestEnv struct {
	router  *gin.Engine
	engine  *engine.Engine
	store   *store.Store
	cookies []*http.Cookie
}

func setupHandlerTest(t *testing.T) *handlerTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Workspace{},
		&models.Task{},
		&models.Note{},
		&models.Collaborator{},
		&models.Activity{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	ad := gormadapter.New(db)
	ctx := context.Background()
	_, failures, err := ad.Users().CreateAll(ctx, []models.User{
		{Name: "Alice", Email: "alice@example.com"},
		{Name: "Bob", Email: "bob@example.com"},
	})
	require.NoError(t, err)
	require.Empty(t, failures)

	st := store.New(ad)
	require.NoError(t, st.Load(ctx))

	bus := events.NewBus()
	eng := engine.New(st, selection.New(bus), bus, zerolog.Nop())
	h := New(eng, zerolog.Nop())

	r := gin.New()
	r.Use(sessions.Sessions("flowdesk_session", cookie.NewStore([]byte("test-secret"))))

	r.POST("/api/session", h.SignIn)
	r.GET("/api/session", middleware.RequireActor(), h.Me)
	r.DELETE("/api/session", h.SignOut)

	authed := r.Group("/api", middleware.RequireActor())
	{
		authed.GET("/projects", h.ListProjects)
		authed.POST("/projects", h.CreateProject)
		authed.GET("/projects/:id", h.GetProject)
		authed.PATCH("/projects/:id", h.UpdateProject)
		authed.DELETE("/projects/:id", h.DeleteProject)

		authed.GET("/workspaces", h.ListWorkspaces)
		authed.POST("/workspaces", h.CreateWorkspace)

		authed.GET("/tasks", h.ListTasks)
		authed.POST("/tasks", h.CreateTask)
		authed.POST("/tasks/:id/toggle", h.ToggleTask)
		authed.DELETE("/tasks/:id", h.DeleteTask)

		authed.GET("/notes", h.ListNotes)
		authed.POST("/notes", h.CreateNote)

		authed.GET("/users", h.ListUsers)

		authed.POST("/collaborators", h.InviteCollaborator)
		authed.GET("/collaborators", h.ListCollaborators)

		authed.GET("/selection", h.GetSelection)
		authed.PATCH("/selection", h.UpdateSelection)
	}

	env := &handlerTestEnv{router: r, engine: eng, store: st}

	w := env.do(t, http.MethodPost, "/api/session", map[string]any{"email": "alice@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	env.cookies = w.Result().Cookies()
	require.NotEmpty(t, env.cookies)

	return env
}

func (env *handlerTestEnv) do(t *testing.T, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range env.cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestSessionFlow(t *testing.T) {
	env := setupHandlerTest(t)

	w := env.do(t, http.MethodGet, "/api/session", nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[models.User](t, w)
	require.Equal(t, "alice@example.com", me.Email)
}

func TestSignIn_UnknownEmail(t *testing.T) {
	env := setupHandlerTest(t)
	env.cookies = nil

	w := env.do(t, http.MethodPost, "/api/session", map[string]any{"email": "ghost@example.com"})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	env := setupHandlerTest(t)
	env.cookies = nil

	w := env.do(t, http.MethodGet, "/api/projects", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProjectLifecycle(t *testing.T) {
	env := setupHandlerTest(t)

	w := env.do(t, http.MethodPost, "/api/projects", map[string]any{"name": "Launch"})
	require.Equal(t, http.StatusCreated, w.Code)
	project := decode[models.Project](t, w)
	require.Equal(t, models.ProjectStatusActive, project.Status)

	w = env.do(t, http.MethodPatch, "/api/projects/1", map[string]any{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, models.ProjectStatusCompleted, decode[models.Project](t, w).Status)

	w = env.do(t, http.MethodGet, "/api/projects?q=lau", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodDelete, "/api/projects/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/projects/1", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateProject_MissingName(t *testing.T) {
	env := setupHandlerTest(t)

	w := env.do(t, http.MethodPost, "/api/projects", map[string]any{"description": "no name"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskToggleEndpoint(t *testing.T) {
	env := setupHandlerTest(t)

	w := env.do(t, http.MethodPost, "/api/tasks", map[string]any{"title": "Flip me"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodPost, "/api/tasks/1/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]any](t, w)
	require.Equal(t, "completed", body["status"])

	w = env.do(t, http.MethodPost, "/api/tasks/1/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode[map[string]any](t, w)
	require.Equal(t, "pending", body["status"])
}

func TestTaskDueDateWireFormat(t *testing.T) {
	env := setupHandlerTest(t)

	w := env.do(t, http.MethodPost, "/api/tasks", map[string]any{
		"title":    "Deadline",
		"due_date": "2024-03-15",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decode[map[string]any](t, w)
	require.Equal(t, "2024-03-15", body["due_date"])

	w = env.do(t, http.MethodGet, "/api/tasks?due=2024-03-15", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[map[string]any](t, w)
	require.Equal(t, float64(1), list["total"])

	w = env.do(t, http.MethodGet, "/api/tasks?due=2024-03-14", nil)
	list = decode[map[string]any](t, w)
	require.Equal(t, float64(0), list["total"])

	w = env.do(t, http.MethodPost, "/api/tasks", map[string]any{
		"title":    "Bad date",
		"due_date": "15/03/2024",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubtaskDepthRejectedOverHTTP(t *testing.T) {
	env := setupHandlerTest(t)

	w := env.do(t, http.MethodPost, "/api/tasks", map[string]any{"title": "Parent"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodPost, "/api/tasks", map[string]any{"title": "Child", "parent_task_id": 1})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodPost, "/api/tasks", map[string]any{"title": "Grandchild", "parent_task_id": 2})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInviteCollaboratorOverHTTP(t *testing.T) {
	env := setupHandlerTest(t)

	w := env.do(t, http.MethodPost, "/api/projects", map[string]any{"name": "Shared"})
	require.Equal(t, http.StatusCreated, w.Code)

	invite := map[string]any{"email": "bob@example.com", "item_id": 1, "item_type": "project"}
	w = env.do(t, http.MethodPost, "/api/collaborators", invite)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodPost, "/api/collaborators", invite)
	require.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodPost, "/api/collaborators", map[string]any{
		"email": "ghost@example.com", "item_id": 1, "item_type": "project",
	})
	require.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/collaborators?item_id=1&item_type=project", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[map[string]any](t, w)
	require.Equal(t, float64(1), list["total"])
}

func TestSelectionEndpoint(t *testing.T) {
	env := setupHandlerTest(t)

	w := env.do(t, http.MethodPost, "/api/projects", map[string]any{"name": "Picked"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodPatch, "/api/selection", map[string]any{"project_id": 1, "active_tab": "projects"})
	require.Equal(t, http.StatusOK, w.Code)
	state := decode[selection.State](t, w)
	require.Equal(t, uint64(1), *state.ProjectID)
	require.Equal(t, selection.TabProjects, state.ActiveTab)

	// Deleting the selected project clears the selection.
	w = env.do(t, http.MethodDelete, "/api/projects/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/selection", nil)
	require.Equal(t, http.StatusOK, w.Code)
	state = decode[selection.State](t, w)
	require.Nil(t, state.ProjectID)

	w = env.do(t, http.MethodPatch, "/api/selection", map[string]any{"project_id": 999})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestListNotes_RecentlyModifiedFirst(t *testing.T) {
	env := setupHandlerTest(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	env.store.PutNotes([]models.Note{
		{ID: 101, Title: "Old", OwnerID: 1, CreatedAt: base, UpdatedAt: base},
		{ID: 102, Title: "Touched", OwnerID: 1, CreatedAt: base.Add(-time.Hour), UpdatedAt: base.Add(2 * time.Hour)},
		{ID: 103, Title: "Middle", OwnerID: 1, CreatedAt: base.Add(time.Hour), UpdatedAt: base.Add(time.Hour)},
	})

	w := env.do(t, http.MethodGet, "/api/notes", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Notes []models.Note `json:"notes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Notes, 3)
	require.Equal(t, "Touched", body.Notes[0].Title)
	require.Equal(t, "Middle", body.Notes[1].Title)
	require.Equal(t, "Old", body.Notes[2].Title)
}

func TestListUsers_NewestFirst(t *testing.T) {
	env := setupHandlerTest(t)

	// Later than the roster seeded in setup, so these two lead the list.
	base := time.Now().Add(time.Hour)
	env.store.PutUsers([]models.User{
		{ID: 201, Name: "Early", Email: "early@example.com", CreatedAt: base},
		{ID: 202, Name: "Latest", Email: "latest@example.com", CreatedAt: base.Add(time.Minute)},
	})

	w := env.do(t, http.MethodGet, "/api/users", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Users []models.User `json:"users"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.GreaterOrEqual(t, len(body.Users), 2)
	require.Equal(t, "Latest", body.Users[0].Name)
	require.Equal(t, "Early", body.Users[1].Name)
}

func TestNoteTagsOverHTTP(t *testing.T) {
	env := setupHandlerTest(t)

	w := env.do(t, http.MethodPost, "/api/notes", map[string]any{
		"title": "Tagged",
		"tags":  "work, urgent ,",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	note := decode[models.Note](t, w)
	require.Equal(t, models.Tags{"work", "urgent"}, note.Tags)

	w = env.do(t, http.MethodGet, "/api/notes?q=urgent", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[map[string]any](t, w)
	require.Equal(t, float64(1), list["total"])
}
