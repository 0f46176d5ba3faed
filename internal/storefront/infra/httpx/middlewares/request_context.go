package middlewares

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// contextKey is an unexported type for context keys in this package, so keys
// cannot collide with other packages using the same string value.
type contextKey string

// ContextKeyRequestID is the context key carrying the request id assigned by
// chi's RequestID middleware, made available to handlers for logging.
const ContextKeyRequestID contextKey = "x-request-id"

// AttachRequestMetadata copies the chi request id into the request context
// under a typed key.
func AttachRequestMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetReqID(r.Context())
		ctx := context.WithValue(r.Context(), ContextKeyRequestID, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
