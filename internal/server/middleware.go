package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/roach88/shiftgrid/internal/authz"
)

// statusRecorder captures the response status for request logs.
type statusRecorder struct {
	http.ResponseWriter
	status    int
	principal *authz.Principal
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		}
		if p := rec.principal; p != nil {
			attrs = append(attrs, "principal", p.ID, "role", p.Role.String())
		}
		s.logger.Info("request", attrs...)
	})
}

// authenticate resolves the principal once and enforces the policy.
// Public paths pass without credentials.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.policy.IsPublic(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		p, err := authz.PrincipalFromRequest(r)
		switch {
		case errors.Is(err, authz.ErrNoPrincipal):
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		case err != nil:
			s.logger.Debug("rejected credentials", "path", r.URL.Path, "error", err)
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		if !s.policy.Allowed(p, r.URL.Path) {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}

		if rec, ok := w.(*statusRecorder); ok {
			rec.principal = &p
		}
		next.ServeHTTP(w, r.WithContext(authz.WithPrincipal(r.Context(), p)))
	})
}
