package middleware

import (
	"context"

	"github.com/vitalixplus/storefront/internal/session"
	"github.com/vitalixplus/storefront/pkg/enums"
)

type contextKey string

const (
	ctxClientID contextKey = "client_id"
	ctxSession  contextKey = "session"
)

// WithClientID injects the storefront client identifier into the context.
func WithClientID(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, ctxClientID, clientID)
}

func ClientIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxClientID).(string); ok {
		return v
	}
	return ""
}

// WithSession injects the resolved session into the context for downstream handlers.
func WithSession(ctx context.Context, s session.Session) context.Context {
	return context.WithValue(ctx, ctxSession, s)
}

func SessionFromContext(ctx context.Context) (session.Session, bool) {
	if ctx == nil {
		return session.Session{}, false
	}
	s, ok := ctx.Value(ctxSession).(session.Session)
	return s, ok
}

// RoleFromContext is RoleNone for anonymous requests.
func RoleFromContext(ctx context.Context) enums.Role {
	if s, ok := SessionFromContext(ctx); ok && s.Role.Authenticated() {
		return s.Role
	}
	return enums.RoleNone
}

func UserIDFromContext(ctx context.Context) int64 {
	if s, ok := SessionFromContext(ctx); ok {
		return s.UserID
	}
	return 0
}
