package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/vitalixplus/storefront/api/responses"
	"github.com/vitalixplus/storefront/internal/session"
	pkgerrors "github.com/vitalixplus/storefront/pkg/errors"
	"github.com/vitalixplus/storefront/pkg/logger"
)

type sessionLoader interface {
	Get(ctx context.Context, id string) (session.Session, error)
}

// BearerToken extracts the session id from the Authorization header.
func BearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(raw) > 7 && strings.EqualFold(raw[:7], "bearer ") {
		raw = raw[7:]
	}
	return strings.TrimSpace(raw)
}

// Session resolves the bearer session id when one is presented. Requests without
// credentials pass through anonymously; unknown session ids are rejected.
func Session(loader sessionLoader, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := BearerToken(r)
			if id == "" {
				next.ServeHTTP(w, r)
				return
			}
			s, err := loader.Get(r.Context(), id)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			ctx := WithSession(r.Context(), s)
			if logg != nil {
				ctx = logg.WithUserID(ctx, s.UserID)
				ctx = logg.WithActorRole(ctx, s.Role.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession rejects anonymous requests.
func RequireSession(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := SessionFromContext(r.Context()); !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
