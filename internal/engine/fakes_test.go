package engine

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"minutebook/internal/apperr"
	"minutebook/internal/models"
)

// memStore is an in-memory stand-in for the PostgreSQL stores that keeps
// the same transactional guarantees: a template and its revision are
// written together or not at all.
type memStore struct {
	mu        sync.Mutex
	catalogs  []models.ModuleCatalog
	templates map[uuid.UUID]*models.Template
	revisions []models.TemplateRevision
	names     map[string]string
	clock     time.Time

	failRevision bool
	failNames    bool
	nameCalls    int
	latestCalls  int
	findCalls    int
}

func newMemStore() *memStore {
	return &memStore{
		templates: make(map[uuid.UUID]*models.Template),
		names:     map[string]string{"u1": "Ada", "u2": "Grace"},
		clock:     time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

// CatalogRepository

func (m *memStore) Create(ctx context.Context, workspaceID string, modules models.Modules) (*models.ModuleCatalog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := models.ModuleCatalog{ID: uuid.New(), WorkspaceID: workspaceID, Modules: modules.Clone(), CreatedAt: m.tick()}
	m.catalogs = append(m.catalogs, c)
	return &c, nil
}

func (m *memStore) Latest(ctx context.Context, workspaceID string) (*models.ModuleCatalog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latestCalls++
	var latest *models.ModuleCatalog
	for i := range m.catalogs {
		c := m.catalogs[i]
		if c.WorkspaceID != workspaceID {
			continue
		}
		if latest == nil || !c.CreatedAt.Before(latest.CreatedAt) {
			latest = &c
		}
	}
	return latest, nil
}

func (m *memStore) catalogCount(workspaceID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.catalogs {
		if c.WorkspaceID == workspaceID {
			n++
		}
	}
	return n
}

// templateRepo adapts memStore to TemplateRepository; the method names
// collide with the catalog side.
type templateRepo struct{ *memStore }

func (r templateRepo) countUsed(workspaceID string) int {
	n := 0
	for _, t := range r.templates {
		if t.WorkspaceID == workspaceID && t.IsUsed == models.Yes && t.IsDeleted == models.No {
			n++
		}
	}
	return n
}

func (r templateRepo) revise(t *models.Template) error {
	if r.failRevision {
		return errors.New("revision insert failed")
	}
	r.revisions = append(r.revisions, models.TemplateRevision{
		ID: uuid.New(), TemplateID: t.ID, Version: t.Version, Title: t.Title,
		Modules: t.Modules.Clone(), Description: t.Description, EditorID: t.EditorID,
		CreatedAt: t.UpdatedAt,
	})
	return nil
}

func (r templateRepo) Create(ctx context.Context, t *models.Template, usedLimit int) (*models.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.IsUsed == models.Yes && r.countUsed(t.WorkspaceID) >= usedLimit {
		return nil, apperr.Capacity(t.WorkspaceID, usedLimit)
	}
	c := *t
	c.ID = uuid.New()
	c.Modules = t.Modules.Clone()
	c.CreatedAt = r.tick()
	c.UpdatedAt = c.CreatedAt
	if err := r.revise(&c); err != nil {
		return nil, err
	}
	r.templates[c.ID] = &c
	out := c
	return &out, nil
}

func (r templateRepo) Update(ctx context.Context, t *models.Template) (*models.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.templates[t.ID]
	if !ok || cur.WorkspaceID != t.WorkspaceID {
		return nil, apperr.NotFound("template", t.ID.String())
	}
	next := *cur
	next.Version, next.Title, next.Description = t.Version, t.Title, t.Description
	next.Modules, next.EditorID, next.Preview = t.Modules.Clone(), t.EditorID, t.Preview
	next.UpdatedAt = r.tick()
	if err := r.revise(&next); err != nil {
		return nil, err
	}
	*cur = next
	out := next
	return &out, nil
}

func (r templateRepo) UpdateStatus(ctx context.Context, workspaceID string, id uuid.UUID, isUsed, isDeleted *models.YesNo, usedLimit int) (*models.TemplateStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.templates[id]
	if !ok || cur.WorkspaceID != workspaceID {
		return nil, apperr.NotFound("template", id.String())
	}
	if cur.IsDeleted == models.Yes {
		return nil, apperr.Conflict("template is already deleted", id.String())
	}
	next := *cur
	if isUsed != nil {
		next.IsUsed = *isUsed
	}
	if isDeleted != nil {
		next.IsDeleted = *isDeleted
	}
	if next.IsUsed == models.Yes && cur.IsUsed != models.Yes && next.IsDeleted == models.No &&
		r.countUsed(workspaceID) >= usedLimit {
		return nil, apperr.Capacity(workspaceID, usedLimit)
	}
	next.UpdatedAt = r.tick()
	*cur = next
	return cur.Status(), nil
}

func (r templateRepo) FindByID(ctx context.Context, workspaceID string, id uuid.UUID) (*models.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findCalls++
	t, ok := r.templates[id]
	if !ok || t.WorkspaceID != workspaceID {
		return nil, nil
	}
	out := *t
	return &out, nil
}

func (r templateRepo) List(ctx context.Context, workspaceID string, filter models.TemplateFilter) ([]models.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Template
	for _, t := range r.templates {
		if t.WorkspaceID != workspaceID {
			continue
		}
		if filter.IsUsed != nil && t.IsUsed != *filter.IsUsed {
			continue
		}
		if filter.IsDeleted != nil && t.IsDeleted != *filter.IsDeleted {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsUsed != out[j].IsUsed {
			return out[i].IsUsed > out[j].IsUsed
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (r templateRepo) ListByTemplateID(ctx context.Context, templateID uuid.UUID) ([]models.TemplateRevision, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.TemplateRevision
	for i := len(r.revisions) - 1; i >= 0; i-- {
		if r.revisions[i].TemplateID == templateID {
			out = append(out, r.revisions[i])
		}
	}
	return out, nil
}

func (m *memStore) DisplayNames(ctx context.Context, ids []string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nameCalls++
	if m.failNames {
		return nil, errors.New("identity service unavailable")
	}
	out := make(map[string]string)
	for _, id := range ids {
		if n, ok := m.names[id]; ok {
			out[id] = n
		}
	}
	return out, nil
}

func (m *memStore) revisionCount(templateID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.revisions {
		if r.TemplateID == templateID {
			n++
		}
	}
	return n
}

// mapCache is a CatalogCache backed by a map.
type mapCache struct {
	mu      sync.Mutex
	entries map[string]models.Modules
}

func (c *mapCache) Get(ctx context.Context, workspaceID string) (models.Modules, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.entries[workspaceID]
	return m.Clone(), ok
}

func (c *mapCache) Set(ctx context.Context, workspaceID string, modules models.Modules) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = make(map[string]models.Modules)
	}
	c.entries[workspaceID] = modules.Clone()
}

func (c *mapCache) Invalidate(ctx context.Context, workspaceID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, workspaceID)
}

func newTestEngine(opts Options) (*Engine, *memStore, *mapCache) {
	store := newMemStore()
	cache := &mapCache{}
	repo := templateRepo{store}
	e := New(Deps{
		Catalogs:  store,
		Templates: repo,
		Revisions: repo,
		Names:     store,
		Cache:     cache,
	}, opts)
	return e, store, cache
}
