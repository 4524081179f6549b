package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/goamort/internal/usecase"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency keys.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayHeader marks a response served from the store.
	IdempotencyReplayHeader = "X-Idempotency-Replay"
)

// cachedResponse is what gets stored once a request succeeds.
type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// IdempotencyMiddleware handles request idempotency using Redis.
type IdempotencyMiddleware struct {
	store  usecase.IdempotencyStore
	ttl    time.Duration
	logger zerolog.Logger
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware.
// A non-positive ttl falls back to usecase.IdempotencyKeyTTL.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, ttl time.Duration, logger zerolog.Logger) *IdempotencyMiddleware {
	if ttl <= 0 {
		ttl = usecase.IdempotencyKeyTTL
	}
	return &IdempotencyMiddleware{store: store, ttl: ttl, logger: logger}
}

// Wrap wraps an http.Handler with idempotency checking.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only apply to mutating requests
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}

		exists, stored, err := m.store.CheckAndSet(r.Context(), key, nil, m.ttl)
		if err != nil {
			m.logger.Error().Err(err).Str("idempotency_key", key).Msg("idempotency check failed")
			writeJSONError(w, http.StatusInternalServerError, "idempotency check failed")
			return
		}

		if exists {
			if string(stored) == usecase.IdempotencyProcessing {
				writeJSONError(w, http.StatusConflict, "request with this idempotency key is in progress")
				return
			}
			m.replay(w, key, stored)
			return
		}

		// Capture response
		recorder := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}

		// Anything short of a stored success frees the key, panics included.
		saved := false
		defer func() {
			if saved {
				return
			}
			rec := recover()
			m.release(r.Context(), key)
			if rec != nil {
				panic(rec)
			}
		}()

		next.ServeHTTP(recorder, r)

		if recorder.statusCode < 200 || recorder.statusCode >= 300 {
			return
		}

		payload, err := json.Marshal(cachedResponse{
			Status:      recorder.statusCode,
			ContentType: recorder.Header().Get("Content-Type"),
			Body:        recorder.body.Bytes(),
		})
		if err == nil {
			ctx, cancel := detachedContext(r.Context())
			err = m.store.Update(ctx, key, payload, m.ttl)
			cancel()
		}
		if err != nil {
			m.logger.Warn().Err(err).Str("idempotency_key", key).Msg("failed to store idempotent response")
			return
		}
		saved = true
	})
}

func (m *IdempotencyMiddleware) release(parent context.Context, key string) {
	ctx, cancel := detachedContext(parent)
	defer cancel()

	if err := m.store.Release(ctx, key); err != nil {
		m.logger.Warn().Err(err).Str("idempotency_key", key).Msg("failed to release idempotency key")
	}
}

// detachedContext outlives the request, which may already be cancelled.
func detachedContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(parent), usecase.DefaultRepositoryTimeout)
}

func (m *IdempotencyMiddleware) replay(w http.ResponseWriter, key string, stored []byte) {
	var cached cachedResponse
	if err := json.Unmarshal(stored, &cached); err != nil {
		m.logger.Error().Err(err).Str("idempotency_key", key).Msg("corrupt idempotent response")
		writeJSONError(w, http.StatusInternalServerError, "idempotency check failed")
		return
	}

	if cached.ContentType != "" {
		w.Header().Set("Content-Type", cached.ContentType)
	}
	w.Header().Set(IdempotencyReplayHeader, "true")
	w.WriteHeader(cached.Status)
	w.Write(cached.Body)
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
