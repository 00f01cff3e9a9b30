// Package requestid carries the inbound request id through context.Context so
// that services below the HTTP layer can tag their logs and records.
package requestid

import "context"

type ctxKey struct{}

// Header is the response header carrying the id.
const Header = "X-Request-ID"

// WithContext returns a copy of ctx holding id.
func WithContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the id stored in ctx, or "".
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
