package rbac

import (
	"context"
	"log/slog"
)

// identityCtxKey is a private type to prevent collisions with other
// context keys.
type identityCtxKey struct{}

// WithIdentity adds the authenticated identity to the context.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, identity)
}

// IdentityFromContext retrieves the identity from the context.
// Returns nil, false if no identity is present.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityCtxKey{}).(*Identity)
	return identity, ok && identity != nil
}

// LoggerExtractor returns a logger context extractor that annotates log
// records with the acting user and tenant.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		identity, ok := IdentityFromContext(ctx)
		if !ok {
			return slog.Attr{}, false
		}
		return slog.Group("identity",
			slog.String("user_id", identity.ID.String()),
			slog.String("tenant_id", identity.TenantID.String()),
			slog.String("role", string(identity.Role)),
		), true
	}
}
