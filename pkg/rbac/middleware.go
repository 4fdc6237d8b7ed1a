package rbac

import "net/http"

// DenyHandler renders the response when access is denied. Guards must
// degrade gracefully: the fallback is a fixed denial page or payload,
// never a crash or an internal error leak.
type DenyHandler func(w http.ResponseWriter, r *http.Request)

// defaultDenyHandler writes a plain 403 response.
func defaultDenyHandler(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "access denied", http.StatusForbidden)
}

// RequirePermission creates middleware that admits the request only if
// the identity in the context may perform the action on the module.
// A missing identity denies, as does any ambiguity in resolution.
func RequirePermission(resolver *Resolver, module Module, action Action, deny DenyHandler) func(http.Handler) http.Handler {
	if deny == nil {
		deny = defaultDenyHandler
	}
	if resolver == nil {
		resolver = NewResolver()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok || !resolver.HasPermission(r.Context(), identity, module, action) {
				deny(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireModule creates middleware that admits the request only if the
// identity may view the module. Sugar for RequirePermission with
// ActionView.
func RequireModule(resolver *Resolver, module Module, deny DenyHandler) func(http.Handler) http.Handler {
	return RequirePermission(resolver, module, ActionView, deny)
}
