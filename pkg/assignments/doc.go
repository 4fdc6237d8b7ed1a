// Package assignments links users to custom roles within a tenant.
// Administrators use it to grant a bundle of permissions to specific
// staff without editing each user's built-in role.
//
// Every new assignment verifies that both the role and the user belong
// to the acting tenant. Assign is idempotent - repeating it for the
// same (role, user) pair returns the existing assignment - and Revoke
// of a pair that is not assigned is a no-op.
//
//	svc := assignments.NewService(store, roleStore, directory)
//	if _, err := svc.Assign(ctx, tenantID, roleID, userID); err != nil { ... }
//
// The service implements rbac.AssignmentSource, so a resolver built
// with rbac.WithAssignmentSource(svc) folds assigned role permissions
// into its authorization decisions.
package assignments
