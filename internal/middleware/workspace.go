// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"strings"
)

// Headers set by the upstream auth gateway once a caller is authenticated.
const (
	WorkspaceHeader = "X-Workspace-ID"
	ActorHeader     = "X-Actor-ID"
)

// maxIdentifierLen bounds workspace and actor ids taken from headers.
const maxIdentifierLen = 128

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	workspaceKey contextKey = "workspace"
	actorKey     contextKey = "actor"
)

// RequireWorkspace reads the workspace and actor ids supplied by the auth
// gateway and stores them in the request context. Requests missing either
// header are rejected with 401.
func RequireWorkspace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws := strings.TrimSpace(r.Header.Get(WorkspaceHeader))
		actor := strings.TrimSpace(r.Header.Get(ActorHeader))

		if ws == "" || actor == "" {
			writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "workspace and actor headers are required")
			return
		}
		if len(ws) > maxIdentifierLen || len(actor) > maxIdentifierLen {
			writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", "workspace or actor id is too long")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), ws, actor)))
	})
}

// WithIdentity returns a context carrying the workspace and actor ids.
func WithIdentity(ctx context.Context, workspaceID, actorID string) context.Context {
	ctx = context.WithValue(ctx, workspaceKey, workspaceID)
	return context.WithValue(ctx, actorKey, actorID)
}

// WorkspaceFromCtx returns the caller's workspace id, or "" if unset.
func WorkspaceFromCtx(ctx context.Context) string {
	v, _ := ctx.Value(workspaceKey).(string)
	return v
}

// ActorFromCtx returns the caller's actor id, or "" if unset.
func ActorFromCtx(ctx context.Context) string {
	v, _ := ctx.Value(actorKey).(string)
	return v
}
