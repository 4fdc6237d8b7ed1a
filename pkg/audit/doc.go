// Package audit records administrative actions into a persistent audit
// trail. The role and assignment managers use it to keep a trace of
// who created, changed, deleted, assigned or revoked a custom role.
//
// Events flow through a Logger into a Storage implementation. Tenant
// and user attribution can be supplied per event or derived from the
// request context via extractors:
//
//	storage := audit.NewMemoryStorage()
//	logger := audit.NewLogger(storage,
//	    audit.WithTenantIDExtractor(tenantFromContext),
//	    audit.WithUserIDExtractor(userFromContext),
//	)
//
//	_ = logger.Log(ctx, "roles.create",
//	    audit.WithResource("custom_role", role.ID.String()),
//	    audit.WithMetadata("name", role.Name),
//	)
//
// Audit recording is best-effort from the caller's perspective: the
// managers log a warning and complete the mutation when the trail is
// unavailable.
package audit
