package credentials

import (
	"context"
	"net/http"
)

// contextKey is a private type for context keys.
type contextKey int

const apiKeyContextKey contextKey = iota

// WithAPIKey stores a per-call API key override in the context.
func WithAPIKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, apiKeyContextKey, key)
}

// APIKeyFromContext retrieves the per-call API key override, or the
// empty string when the call carried none.
func APIKeyFromContext(ctx context.Context) string {
	key, _ := ctx.Value(apiKeyContextKey).(string)
	return key
}

// HTTPMiddleware extracts the Bauplan header from inbound requests and
// stashes its value in the request context for the resolver. Applied to
// the SSE and streamable HTTP handlers; stdio sessions have no headers
// and simply never carry an override.
func HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if value := NormalizeHeader(r.Header.Get(HeaderName)); value != "" {
			r = r.WithContext(WithAPIKey(r.Context(), value))
		}
		next.ServeHTTP(w, r)
	})
}
