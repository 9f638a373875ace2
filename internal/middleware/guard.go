package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Only the holder that set the lock may delete or extend it.
var (
	releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

	refreshScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)
)

// InFlightGuard allows at most one outstanding model call per session.
// A second submission while one is running is rejected, not queued.
//
// With a Redis client the slot is a SETNX lock shared by every replica.
// The holder keeps extending it while the call runs; lockTTL only bounds
// how long a crashed holder can keep a session busy.
type InFlightGuard struct {
	mu       sync.Mutex
	inFlight map[uuid.UUID]string
	redis    *redis.Client
	lockTTL  time.Duration
}

func NewInFlightGuard(redisClient *redis.Client, lockTTL time.Duration) *InFlightGuard {
	return &InFlightGuard{
		inFlight: make(map[uuid.UUID]string),
		redis:    redisClient,
		lockTTL:  lockTTL,
	}
}

func lockKey(sessionID uuid.UUID) string {
	return fmt.Sprintf("session_lock:%s", sessionID.String())
}

// TryAcquire takes the session's slot and returns the token that releases
// it. It reports false when a call is already outstanding.
func (g *InFlightGuard) TryAcquire(ctx context.Context, sessionID uuid.UUID) (string, bool, error) {
	token := uuid.NewString()

	if g.redis != nil {
		ok, err := g.redis.SetNX(ctx, lockKey(sessionID), token, g.lockTTL).Result()
		if err != nil || !ok {
			return "", false, err
		}
		return token, true, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.inFlight[sessionID]; busy {
		return "", false, nil
	}
	g.inFlight[sessionID] = token
	return token, true, nil
}

// Release frees the slot if token still holds it.
func (g *InFlightGuard) Release(ctx context.Context, sessionID uuid.UUID, token string) {
	if g.redis != nil {
		if err := releaseScript.Run(ctx, g.redis, []string{lockKey(sessionID)}, token).Err(); err != nil {
			slog.Warn("failed to release session lock", "session_id", sessionID, "error", err)
		}
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.inFlight[sessionID] == token {
		delete(g.inFlight, sessionID)
	}
}

// Refresh resets the lock TTL. It reports false when token no longer
// holds the slot.
func (g *InFlightGuard) Refresh(ctx context.Context, sessionID uuid.UUID, token string) (bool, error) {
	if g.redis == nil {
		g.mu.Lock()
		defer g.mu.Unlock()
		return g.inFlight[sessionID] == token, nil
	}

	n, err := refreshScript.Run(ctx, g.redis, []string{lockKey(sessionID)}, token, g.lockTTL.Milliseconds()).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// keepAlive refreshes a Redis lock until the returned stop func is called.
func (g *InFlightGuard) keepAlive(sessionID uuid.UUID, token string) (stop func()) {
	if g.redis == nil {
		return func() {}
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		ticker := time.NewTicker(g.lockTTL / 3)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				ok, err := g.Refresh(context.Background(), sessionID, token)
				if err != nil {
					slog.Warn("failed to refresh session lock", "session_id", sessionID, "error", err)
					continue
				}
				if !ok {
					slog.Warn("session lock lost while a call was outstanding", "session_id", sessionID)
					return
				}
			}
		}
	}()

	return func() {
		close(done)
		wg.Wait()
	}
}

// Busy reports whether the session is awaiting a reply.
func (g *InFlightGuard) Busy(ctx context.Context, sessionID uuid.UUID) bool {
	if g.redis != nil {
		n, err := g.redis.Exists(ctx, lockKey(sessionID)).Result()
		return err == nil && n > 0
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	_, busy := g.inFlight[sessionID]
	return busy
}

// Middleware must run after SessionAuth.Middleware.
func (g *InFlightGuard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := GetSessionID(r.Context())
		if sessionID == uuid.Nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing session", r)
			return
		}

		token, ok, err := g.TryAcquire(r.Context(), sessionID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to check session state", r)
			return
		}
		if !ok {
			writeError(w, http.StatusConflict, "BUSY", "A request for this session is already in progress", r)
			return
		}

		stop := g.keepAlive(sessionID, token)
		defer func() {
			stop()
			// Fresh context: the request context may already be cancelled.
			g.Release(context.Background(), sessionID, token)
		}()

		next.ServeHTTP(w, r)
	})
}
