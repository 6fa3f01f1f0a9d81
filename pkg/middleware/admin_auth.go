package middleware

import (
	"net/http"
	"strings"

	"detailbay/pkg/auth"
	"detailbay/pkg/logger"
	"detailbay/pkg/sealer"

	"github.com/julienschmidt/httprouter"
)

// AdminAuth gates the admin surface. It expects "Authorization: Bearer
// <token>" where the token was issued by the login endpoint, and stores the
// resolved Principal on the request context.
func AdminAuth(s *sealer.Sealer, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				rejectUnauthorized(w, log, r, "Missing bearer token")
				return
			}

			adminID, err := s.Open(token)
			if err != nil {
				rejectUnauthorized(w, log, r, err.Error())
				return
			}

			ctx := auth.WithPrincipal(r.Context(), auth.Principal{AdminID: adminID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func rejectUnauthorized(w http.ResponseWriter, log *logger.Logger, r *http.Request, reason string) {
	log.Warn("Admin authentication failed",
		"request_id", RequestIDFrom(r.Context()),
		"reason", reason,
		"path", r.URL.Path,
		"method", r.Method,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
}

// AdminAuthHandle is the per-route form used to guard individual admin
// routes on a router that also serves public ones.
func AdminAuthHandle(s *sealer.Sealer, log *logger.Logger) func(httprouter.Handle) httprouter.Handle {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			token := extractBearerToken(r)
			if token == "" {
				rejectUnauthorized(w, log, r, "Missing bearer token")
				return
			}

			adminID, err := s.Open(token)
			if err != nil {
				rejectUnauthorized(w, log, r, err.Error())
				return
			}

			ctx := auth.WithPrincipal(r.Context(), auth.Principal{AdminID: adminID})
			next(w, r.WithContext(ctx), ps)
		}
	}
}
