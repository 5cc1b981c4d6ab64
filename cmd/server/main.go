package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/flowdeskhq/flowdesk/internal/adapter"
	"github.com/flowdeskhq/flowdesk/internal/adapter/gormadapter"
	"github.com/flowdeskhq/flowdesk/internal/config"
	"github.com/flowdeskhq/flowdesk/internal/database"
	"github.com/flowdeskhq/flowdesk/internal/engine"
	"github.com/flowdeskhq/flowdesk/internal/events"
	"github.com/flowdeskhq/flowdesk/internal/handlers"
	"github.com/flowdeskhq/flowdesk/internal/localstore"
	"github.com/flowdeskhq/flowdesk/internal/middleware"
	"github.com/flowdeskhq/flowdesk/internal/models"
	"github.com/flowdeskhq/flowdesk/internal/selection"
	"github.com/flowdeskhq/flowdesk/internal/store"
	"github.com/flowdeskhq/flowdesk/internal/ws"
)

func main() {
	root := &cobra.Command{
		Use:   "flowdesk",
		Short: "FlowDesk productivity core",
	}
	root.AddCommand(serveCmd(), seedCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}

// openAdapter builds the persistence adapter for the configured storage
// mode. In local mode every successful write fires a data-changed event on
// the bus.
func openAdapter(cfg *config.Config, bus *events.Bus, log zerolog.Logger) (adapter.Adapter, func() error, error) {
	switch cfg.StorageMode {
	case config.StorageLocal:
		ls, err := localstore.Open(cfg.LocalStorePath, func() {
			bus.Publish(events.Event{Type: events.DataChanged, At: time.Now()})
		})
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("path", cfg.LocalStorePath).Msg("using local store")
		return ls, ls.Close, nil
	default:
		db, err := database.Connect(cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(db); err != nil {
			return nil, nil, err
		}
		log.Info().Str("driver", cfg.DBDriver).Msg("connected to database")
		return gormadapter.New(db), func() error { return nil }, nil
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := newLogger(cfg.LogLevel)
			gin.SetMode(cfg.GinMode)

			bus := events.NewBus()
			ad, closeAdapter, err := openAdapter(cfg, bus, log)
			if err != nil {
				return err
			}
			defer closeAdapter()

			st := store.New(ad)
			if err := st.Load(cmd.Context()); err != nil {
				return fmt.Errorf("failed to load snapshot: %w", err)
			}
			log.Info().Msg("snapshot loaded")

			sel := selection.New(bus)
			eng := engine.New(st, sel, bus, log)
			h := handlers.New(eng, log)

			r := gin.Default()

			sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
			isProduction := cfg.GinMode == "release"
			sessionStore.Options(sessions.Options{
				Path:     "/",
				MaxAge:   86400 * 7,
				HttpOnly: true,
				Secure:   isProduction,
				SameSite: 2,
			})
			r.Use(sessions.Sessions("flowdesk_session", sessionStore))

			r.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{"status": "ok"})
			})
			r.GET("/ws", ws.Handler(bus, log))

			api := r.Group("/api")
			{
				session := api.Group("/session")
				{
					session.POST("", h.SignIn)
					session.GET("", middleware.RequireActor(), h.Me)
					session.DELETE("", h.SignOut)
				}

				projects := api.Group("/projects")
				projects.Use(middleware.RequireActor())
				{
					projects.GET("", h.ListProjects)
					projects.POST("", h.CreateProject)
					projects.GET("/:id", h.GetProject)
					projects.PATCH("/:id", h.UpdateProject)
					projects.DELETE("/:id", h.DeleteProject)
				}

				workspaces := api.Group("/workspaces")
				workspaces.Use(middleware.RequireActor())
				{
					workspaces.GET("", h.ListWorkspaces)
					workspaces.POST("", h.CreateWorkspace)
					workspaces.GET("/:id", h.GetWorkspace)
					workspaces.PATCH("/:id", h.UpdateWorkspace)
					workspaces.DELETE("/:id", h.DeleteWorkspace)
				}

				tasks := api.Group("/tasks")
				tasks.Use(middleware.RequireActor())
				{
					tasks.GET("", h.ListTasks)
					tasks.POST("", h.CreateTask)
					tasks.GET("/:id", h.GetTask)
					tasks.PATCH("/:id", h.UpdateTask)
					tasks.POST("/:id/toggle", h.ToggleTask)
					tasks.DELETE("/:id", h.DeleteTask)
				}

				notes := api.Group("/notes")
				notes.Use(middleware.RequireActor())
				{
					notes.GET("", h.ListNotes)
					notes.POST("", h.CreateNote)
					notes.GET("/:id", h.GetNote)
					notes.PATCH("/:id", h.UpdateNote)
					notes.DELETE("/:id", h.DeleteNote)
				}

				users := api.Group("/users")
				users.Use(middleware.RequireActor())
				{
					users.GET("", h.ListUsers)
					users.GET("/:id", h.GetUser)
				}

				collaborators := api.Group("/collaborators")
				collaborators.Use(middleware.RequireActor())
				{
					collaborators.GET("", h.ListCollaborators)
					collaborators.POST("", h.InviteCollaborator)
					collaborators.DELETE("/:id", h.RemoveCollaborator)
				}

				activities := api.Group("/activities")
				activities.Use(middleware.RequireActor())
				{
					activities.GET("", h.ListActivities)
				}

				selected := api.Group("/selection")
				selected.Use(middleware.RequireActor())
				{
					selected.GET("", h.GetSelection)
					selected.PATCH("", h.UpdateSelection)
				}
			}

			log.Info().Str("addr", cfg.HTTPAddr).Msg("server starting")
			return r.Run(cfg.HTTPAddr)
		},
	}
}

// seedCmd loads the demo collaboration roster. Seeding is idempotent:
// users already present by email are left alone.
func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo user roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := newLogger(cfg.LogLevel)

			bus := events.NewBus()
			ad, closeAdapter, err := openAdapter(cfg, bus, log)
			if err != nil {
				return err
			}
			defer closeAdapter()

			return seedUsers(cmd.Context(), ad, log)
		},
	}
}

func demoUsers() []models.User {
	return []models.User{
		{Name: "Alice Johnson", Email: "alice@flowdesk.dev", Role: "Product Manager", IsOnline: true},
		{Name: "Bob Smith", Email: "bob@flowdesk.dev", Role: "Engineer", IsOnline: true},
		{Name: "Carol Williams", Email: "carol@flowdesk.dev", Role: "Designer"},
		{Name: "David Brown", Email: "david@flowdesk.dev", Role: "Engineer"},
		{Name: "Emma Davis", Email: "emma@flowdesk.dev", Role: "Marketing"},
	}
}

func seedUsers(ctx context.Context, ad adapter.Adapter, log zerolog.Logger) error {
	existing, err := ad.Users().FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch users: %w", err)
	}
	present := make(map[string]struct{}, len(existing))
	for _, u := range existing {
		present[u.Email] = struct{}{}
	}

	var missing []models.User
	for _, u := range demoUsers() {
		if _, ok := present[u.Email]; ok {
			continue
		}
		missing = append(missing, u)
	}
	if len(missing) == 0 {
		log.Info().Msg("roster already seeded")
		return nil
	}

	created, failures, err := ad.Users().CreateAll(ctx, missing)
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	if len(failures) > 0 {
		return fmt.Errorf("failed to seed users: %s", adapter.JoinFailures(failures))
	}
	log.Info().Int("count", len(created)).Msg("roster seeded")
	return nil
}
