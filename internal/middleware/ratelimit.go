// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// sweepInterval is how often idle callers are forgotten.
const sweepInterval = 5 * time.Minute

// RateLimiter caps requests per caller over a sliding window. Callers are
// keyed by workspace and actor when known, else by client IP.
type RateLimiter struct {
	mu      sync.Mutex
	callers map[string][]time.Time // request times inside the window, oldest first
	limit   int
	window  time.Duration
	now     func() time.Time
	stopCh  chan struct{}
}

// NewRateLimiter creates a rate limiter that allows limit requests per
// window and starts the background sweep of idle callers.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		callers: make(map[string][]time.Time),
		limit:   limit,
		window:  window,
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := rl.cleanup(); n > 0 {
					slog.Debug("rate limiter swept idle callers", "removed", n, "window", rl.window.String())
				}
			case <-rl.stopCh:
				return
			}
		}
	}()

	return rl
}

// Stop terminates the background sweep.
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// allow records a request for key if it fits in the window. When it does
// not, the returned duration is how long until the oldest request expires.
func (rl *RateLimiter) allow(key string) (bool, time.Duration) {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	times := pruneBefore(rl.callers[key], now.Add(-rl.window))
	if len(times) >= rl.limit {
		rl.callers[key] = times
		wait := rl.window
		if len(times) > 0 {
			wait = times[0].Add(rl.window).Sub(now)
		}
		return false, wait
	}

	rl.callers[key] = append(times, now)
	return true, 0
}

// cleanup forgets callers with no request inside the window and returns
// how many were removed.
func (rl *RateLimiter) cleanup() int {
	cutoff := rl.now().Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	for key, times := range rl.callers {
		if len(pruneBefore(times, cutoff)) == 0 {
			delete(rl.callers, key)
			removed++
		}
	}
	return removed
}

// pruneBefore drops the leading timestamps at or before cutoff.
func pruneBefore(times []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(times) && !times[i].After(cutoff) {
		i++
	}
	return times[i:]
}

// Middleware returns an HTTP middleware that rate-limits each caller.
// Mount it after RequireWorkspace so callers are keyed by identity.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := callerKey(r)
		ok, wait := rl.allow(key)
		if !ok {
			slog.Warn("rate limit exceeded",
				"caller", key,
				"workspace_id", WorkspaceFromCtx(r.Context()),
				"retry_after", wait.String(),
			)
			w.Header().Set("Retry-After", strconv.Itoa(retrySeconds(wait)))
			writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// retrySeconds rounds a wait up to whole seconds, never below one.
func retrySeconds(wait time.Duration) int {
	s := int(math.Ceil(wait.Seconds()))
	if s < 1 {
		return 1
	}
	return s
}

// callerKey identifies the caller for rate limiting.
func callerKey(r *http.Request) string {
	ctx := r.Context()
	if ws, actor := WorkspaceFromCtx(ctx), ActorFromCtx(ctx); ws != "" && actor != "" {
		return "actor:" + ws + "/" + actor
	}
	return "ip:" + clientIP(r)
}

// clientIP returns the leftmost X-Forwarded-For address, then X-Real-IP,
// then RemoteAddr without its port.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}
