package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/researchmatch/researchmatch-server/internal/auth"
	svcErr "github.com/researchmatch/researchmatch-server/internal/errors"
)

// Auth returns middleware that resolves the requester identity from the
// Authorization header and stores it on the request context. Requests
// without a valid bearer token are rejected before reaching the handler.
func Auth(jwtSecret string) mux.MiddlewareFunc {
	secret := []byte(jwtSecret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := auth.BearerToken(r)
			if !ok {
				svcErr.WriteHTTP(w, svcErr.ErrNotAuthenticated)
				return
			}
			claims, err := auth.ParseToken(secret, token)
			if err != nil {
				svcErr.WriteHTTP(w, svcErr.ErrNotAuthenticated)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), claims.UserID)))
		})
	}
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// RequestLogger logs one line per completed request.
func RequestLogger(log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
