package engine

import (
	"context"
	"log/slog"

	"minutebook/internal/models"
)

// Decorate replaces creator and editor ids with display names, resolved in
// a single lookup. Ids the lookup cannot resolve, or every id when the
// lookup fails, become models.UnknownUser.
func (e *Engine) Decorate(ctx context.Context, templates []models.Template) []models.TemplateView {
	views := make([]models.TemplateView, 0, len(templates))
	if len(templates) == 0 {
		return views
	}

	seen := make(map[string]struct{})
	var ids []string
	for _, t := range templates {
		for _, id := range []string{t.CreatorID, t.EditorID} {
			if _, ok := seen[id]; ok || id == "" {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	names, err := e.names.DisplayNames(ctx, ids)
	if err != nil {
		slog.Warn("display name lookup failed", "ids", len(ids), "error", err)
		names = nil
	}

	nameOf := func(id string) string {
		if n, ok := names[id]; ok && n != "" {
			return n
		}
		return models.UnknownUser
	}

	for _, t := range templates {
		views = append(views, models.TemplateView{
			ID:          t.ID,
			WorkspaceID: t.WorkspaceID,
			Version:     t.Version,
			Title:       t.Title,
			Modules:     t.Modules,
			Description: t.Description,
			Creator:     nameOf(t.CreatorID),
			Editor:      nameOf(t.EditorID),
			Preview:     t.Preview,
			IsUsed:      t.IsUsed,
			IsDeleted:   t.IsDeleted,
			CreatedAt:   t.CreatedAt,
			UpdatedAt:   t.UpdatedAt,
		})
	}
	return views
}
