// Package localstore is the local-mode persistence fallback: the entire
// snapshot is kept as one JSON blob under a fixed key in a SQLite
// key-value table. Writes replace the whole blob; reads deserialize it
// wholesale. After every successful write the store fires its change
// callback so other open views of the same data can refresh.
package localstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/flowdeskhq/flowdesk/internal/adapter"
	"github.com/flowdeskhq/flowdesk/internal/models"
)

const storageKey = "flowdesk-data"

// payload is the serialized form of the whole snapshot.
type payload struct {
	NextID        uint64                `json:"next_id"`
	Projects      []models.Project      `json:"projects"`
	Workspaces    []models.Workspace    `json:"workspaces"`
	Tasks         []models.Task         `json:"tasks"`
	Notes         []models.Note         `json:"notes"`
	Users         []models.User         `json:"users"`
	Collaborators []models.Collaborator `json:"collaborators"`
	Activities    []models.Activity     `json:"activities"`
}

// Store implements adapter.Adapter over a single-blob SQLite file.
type Store struct {
	db       *sql.DB
	mu       sync.Mutex
	onChange func()
	now      func() time.Time
}

// Open opens (creating if needed) the local store at path. onChange may be
// nil; when set it runs after every successful write.
func Open(path string, onChange func()) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (key TEXT PRIMARY KEY, value BLOB NOT NULL)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize local store: %w", err)
	}
	return &Store{db: db, onChange: onChange, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) load(ctx context.Context) (*payload, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, storageKey).Scan(&raw)
	if err == sql.ErrNoRows {
		return &payload{NextID: 1}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read local store: %w", err)
	}
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("failed to decode local store: %w", err)
	}
	if p.NextID == 0 {
		p.NextID = 1
	}
	return &p, nil
}

func (s *Store) save(ctx context.Context, p *payload) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode local store: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		storageKey, raw)
	if err != nil {
		return fmt.Errorf("failed to write local store: %w", err)
	}
	if s.onChange != nil {
		s.onChange()
	}
	return nil
}

func (s *Store) Projects() adapter.Collection[models.Project] {
	return &blobCollection[models.Project, *models.Project]{
		store: s,
		get:   func(p *payload) []models.Project { return p.Projects },
		set:   func(p *payload, v []models.Project) { p.Projects = v },
	}
}

func (s *Store) Workspaces() adapter.Collection[models.Workspace] {
	return &blobCollection[models.Workspace, *models.Workspace]{
		store: s,
		get:   func(p *payload) []models.Workspace { return p.Workspaces },
		set:   func(p *payload, v []models.Workspace) { p.Workspaces = v },
	}
}

func (s *Store) Tasks() adapter.Collection[models.Task] {
	return &blobCollection[models.Task, *models.Task]{
		store: s,
		get:   func(p *payload) []models.Task { return p.Tasks },
		set:   func(p *payload, v []models.Task) { p.Tasks = v },
	}
}

func (s *Store) Notes() adapter.Collection[models.Note] {
	return &blobCollection[models.Note, *models.Note]{
		store: s,
		get:   func(p *payload) []models.Note { return p.Notes },
		set:   func(p *payload, v []models.Note) { p.Notes = v },
	}
}

func (s *Store) Users() adapter.Collection[models.User] {
	return &blobCollection[models.User, *models.User]{
		store: s,
		get:   func(p *payload) []models.User { return p.Users },
		set:   func(p *payload, v []models.User) { p.Users = v },
	}
}

func (s *Store) Collaborators() adapter.Collection[models.Collaborator] {
	return &blobCollection[models.Collaborator, *models.Collaborator]{
		store: s,
		get:   func(p *payload) []models.Collaborator { return p.Collaborators },
		set:   func(p *payload, v []models.Collaborator) { p.Collaborators = v },
	}
}

func (s *Store) Activities() adapter.Collection[models.Activity] {
	return &blobCollection[models.Activity, *models.Activity]{
		store: s,
		get:   func(p *payload) []models.Activity { return p.Activities },
		set:   func(p *payload, v []models.Activity) { p.Activities = v },
	}
}

// blobCollection applies per-collection CRUD to the shared blob. The whole
// blob is rewritten once per batch call.
type blobCollection[T any, PT interface {
	*T
	models.Entity
}] struct {
	store *Store
	get   func(*payload) []T
	set   func(*payload, []T)
}

func (c *blobCollection[T, PT]) FetchAll(ctx context.Context) ([]T, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	p, err := c.store.load(ctx)
	if err != nil {
		return nil, err
	}
	return c.get(p), nil
}

func (c *blobCollection[T, PT]) CreateAll(ctx context.Context, records []T) ([]T, []adapter.RecordFailure, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	p, err := c.store.load(ctx)
	if err != nil {
		return nil, nil, err
	}

	now := c.store.now()
	list := c.get(p)
	created := make([]T, 0, len(records))
	var failures []adapter.RecordFailure

	for i := range records {
		rec := records[i]
		if err := PT(&rec).Validate(); err != nil {
			failures = append(failures, adapter.RecordFailure{Index: i, Reason: err.Error()})
			continue
		}
		PT(&rec).SetID(p.NextID)
		p.NextID++
		PT(&rec).Stamp(now)
		list = append(list, rec)
		created = append(created, rec)
	}

	c.set(p, list)
	if err := c.store.save(ctx, p); err != nil {
		return nil, nil, err
	}
	return created, failures, nil
}

func (c *blobCollection[T, PT]) UpdateAll(ctx context.Context, records []T) ([]T, []adapter.RecordFailure, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	p, err := c.store.load(ctx)
	if err != nil {
		return nil, nil, err
	}

	now := c.store.now()
	list := c.get(p)
	updated := make([]T, 0, len(records))
	var failures []adapter.RecordFailure

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

		pos := -1
		for j := range list {
			if PT(&list[j]).GetID() == id {
				pos = j
				break
			}
		}
		if pos < 0 {
			failures = append(failures, adapter.RecordFailure{Index: i, ID: id, Reason: "record does not exist"})
			continue
		}

		PT(&rec).Stamp(now)
		list[pos] = rec
		updated = append(updated, rec)
	}

	c.set(p, list)
	if err := c.store.save(ctx, p); err != nil {
		return nil, nil, err
	}
	return updated, failures, nil
}

func (c *blobCollection[T, PT]) DeleteAll(ctx context.Context, ids []uint64) ([]adapter.RecordFailure, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	p, err := c.store.load(ctx)
	if err != nil {
		return nil, err
	}

	list := c.get(p)
	var failures []adapter.RecordFailure

	for i, id := range ids {
		pos := -1
		for j := range list {
			if PT(&list[j]).GetID() == id {
				pos = j
				break
			}
		}
		if pos < 0 {
			failures = append(failures, adapter.RecordFailure{Index: i, ID: id, Reason: "record does not exist"})
			continue
		}
		list = append(list[:pos], list[pos+1:]...)
	}

	c.set(p, list)
	if err := c.store.save(ctx, p); err != nil {
		return nil, err
	}
	return failures, nil
}
