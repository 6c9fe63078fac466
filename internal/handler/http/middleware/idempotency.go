package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/garmentworks/payroll-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
	"github.com/redis/go-redis/v9"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	ReplayedHeader    = "Idempotent-Replayed"

	// lockTTL bounds how long a crashed request can hold its key.
	lockTTL = 30 * time.Second
)

// cachedResponse is what a replay writes back.
type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        string `json:"body"`
}

// Idempotency replays the stored response of a request already completed
// under the same Idempotency-Key, and rejects a duplicate that arrives while
// the first is still running. Requests without the header, or with no Redis
// client configured, pass straight through. Redis failures fail open.
func Idempotency(rdb redis.Cmdable, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			idempKey := r.Header.Get(IdempotencyHeader)
			if rdb == nil || idempKey == "" || r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			cacheKey := idempotencyCacheKey(r, idempKey)
			lockKey := cacheKey + ":lock"

			val, err := rdb.Get(ctx, cacheKey).Result()
			switch {
			case err == nil:
				var cached cachedResponse
				if err := json.Unmarshal([]byte(val), &cached); err == nil {
					w.Header().Set("Content-Type", cached.ContentType)
					w.Header().Set(ReplayedHeader, "true")
					w.WriteHeader(cached.Status)
					_, _ = w.Write([]byte(cached.Body))
					return
				}
				slog.Warn("Discarding unreadable idempotency record", "key", cacheKey)
			case !errors.Is(err, redis.Nil):
				slog.Warn("Idempotency lookup failed, processing without guard", "key", cacheKey, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			acquired, err := rdb.SetNX(ctx, lockKey, "locked", lockTTL).Result()
			if err != nil {
				slog.Warn("Idempotency lock failed, processing without guard", "key", cacheKey, "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !acquired {
				response.Conflict(w, "A request with this Idempotency-Key is still being processed")
				return
			}

			rec := &recordingWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			// Server errors are not cached so the client may retry with the same key.
			if rec.status < http.StatusInternalServerError {
				payload, _ := json.Marshal(cachedResponse{
					Status:      rec.status,
					ContentType: rec.Header().Get("Content-Type"),
					Body:        rec.body.String(),
				})
				if err := rdb.Set(ctx, cacheKey, string(payload), ttl).Err(); err != nil {
					slog.Warn("Failed to store idempotent response", "key", cacheKey, "error", err)
				}
			}
			if err := rdb.Del(ctx, lockKey).Err(); err != nil {
				slog.Warn("Failed to release idempotency lock", "key", lockKey, "error", err)
			}
		})
	}
}

// idempotencyCacheKey scopes a key to the route and the calling user.
func idempotencyCacheKey(r *http.Request, idempKey string) string {
	userID := "anonymous"
	if _, claims, err := jwtauth.FromContext(r.Context()); err == nil {
		if id, ok := claims["user_id"].(string); ok && id != "" {
			userID = id
		}
	}
	return "idemp:" + r.URL.Path + ":" + userID + ":" + idempKey
}

type recordingWriter struct {
	http.ResponseWriter
	status      int
	body        bytes.Buffer
	wroteHeader bool
}

func (w *recordingWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.status = status
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}
