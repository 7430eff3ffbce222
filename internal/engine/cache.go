// cache.go provides an in-process cache of workspace catalogs. It sits in
// front of the shared Valkey cache so hot workspaces skip the network hop
// on every validation. Entries expire after a short TTL because other
// replicas may write a newer snapshot.
package engine

import (
	"log/slog"
	"sync"
	"time"

	"minutebook/internal/models"
)

const defaultMemoTTL = 30 * time.Second

type memoEntry struct {
	modules models.Modules
	expires time.Time
}

// catalogMemo is a concurrency-safe in-memory cache keyed by workspace id.
type catalogMemo struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoEntry
}

func newCatalogMemo(ttl time.Duration) *catalogMemo {
	return &catalogMemo{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoEntry),
	}
}

// get returns a copy of the cached modules. Returns false on miss or expiry.
func (c *catalogMemo) get(workspaceID string) (models.Modules, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[workspaceID]
	if !ok || c.now().After(e.expires) {
		return nil, false
	}
	return e.modules.Clone(), true
}

// put stores a copy of modules for the workspace.
func (c *catalogMemo) put(workspaceID string, modules models.Modules) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[workspaceID] = memoEntry{modules: modules.Clone(), expires: c.now().Add(c.ttl)}
	slog.Debug("catalog memoized", "workspace_id", workspaceID, "size", len(c.entries))
}

// invalidate drops the workspace's entry.
func (c *catalogMemo) invalidate(workspaceID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, workspaceID)
}
