package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/logger"
)

const (
	headerAPIKey    = "X-API-Key"
	headerRequestID = "X-Request-ID"
)

type ctxKey struct{}

// apiKeyFromContext returns the key stored by requireAPIKey.
func apiKeyFromContext(ctx context.Context) string {
	key, _ := ctx.Value(ctxKey{}).(string)
	return key
}

// requestID reuses the caller's X-Request-ID or mints one, and hands it to
// the logger through the request context.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get(headerRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		w.Header().Set(headerRequestID, rid)
		next.ServeHTTP(w, r.WithContext(logger.WithRequestID(r.Context(), rid)))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

func accessLog(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			log.Info(r.Context(), "%s %s %d %s", r.Method, r.URL.Path, sw.status, time.Since(start))
		})
	}
}

// requireAPIKey rejects requests without X-API-Key. The key is only checked
// for presence; it becomes the caller's identity.
func requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimSpace(r.Header.Get(headerAPIKey))
		if key == "" {
			writeError(w, http.StatusUnauthorized, "Header X-API-Key mancante")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, key)))
	})
}
