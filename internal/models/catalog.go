package models

import (
	"time"

	"github.com/google/uuid"
)

// ModuleCatalog is one immutable snapshot of the module keys a workspace
// may compose templates from. Snapshots are append-only; the most
// recently created one is authoritative.
type ModuleCatalog struct {
	ID          uuid.UUID `json:"id"`
	WorkspaceID string    `json:"workspaceId"`
	Modules     Modules   `json:"modules"`
	CreatedAt   time.Time `json:"createdAt"`
}

// KeySet returns the catalog's module keys as a lookup set.
func (c *ModuleCatalog) KeySet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.Modules))
	for _, m := range c.Modules {
		set[m.ModuleKey] = struct{}{}
	}
	return set
}
