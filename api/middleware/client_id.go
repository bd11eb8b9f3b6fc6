package middleware

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"

	"github.com/vitalixplus/storefront/pkg/logger"
)

// ClientIDHeader carries the opaque per-browser identifier that keys cart state.
const ClientIDHeader = "X-Client-Id"

var clientIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{8,128}$`)

// ClientID reads X-Client-Id, issuing a fresh one when it is absent or malformed.
// The effective id is always echoed back so the storefront can persist it.
func ClientID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID := r.Header.Get(ClientIDHeader)
			if !clientIDPattern.MatchString(clientID) {
				clientID = uuid.NewString()
			}
			w.Header().Set(ClientIDHeader, clientID)

			ctx := WithClientID(r.Context(), clientID)
			if logg != nil {
				ctx = logg.WithClientID(ctx, clientID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
