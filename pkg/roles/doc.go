// Package roles manages custom roles: tenant-owned, reusable permission
// bundles that administrators assign to staff through the assignment
// manager instead of editing each user's built-in role.
//
// A custom role is an arbitrary set of (module, action-set) pairs,
// optionally seeded from one of the catalog's role templates. Names are
// unique within a tenant; a role never leaves the tenant that created
// it. Updates replace fields wholesale - callers submit the complete
// new permission list, not a delta - so a racing edit is at worst
// last-writer-wins on the whole role.
//
//	svc := roles.NewService(store)
//	role, err := svc.CreateFromTemplate(ctx, tenantID, "Finance Manager", nil)
//	if err != nil { ... }
//
// Deleting a role cascades to its assignments at the store layer, so
// no assignment can reference a role that no longer exists.
package roles
