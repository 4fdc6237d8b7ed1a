// Package rbac holds the permission catalog and the permission resolver
// for multi-tenant school administration applications.
//
// The catalog is static, process-wide configuration: the closed module
// and action enumerations, a default permission table with one entry per
// built-in role, and a library of role templates used to seed custom
// roles. None of it is mutable at runtime.
//
// The resolver computes an identity's effective permission set and
// answers point queries. Resolution precedence:
//
//  1. super_admin bypasses the tables and gets everything.
//  2. A non-empty per-identity override replaces the default table.
//  3. Otherwise the role's default table applies.
//
// Queries fail closed and never return errors: a missing identity, an
// unknown role, or a failing assignment lookup all resolve to deny.
// Every screen and mutation in the surrounding application is expected
// to ask the resolver before acting and to render a fallback on denial.
//
// Basic usage:
//
//	identity, _ := rbac.IdentityFromContext(ctx)
//	if !rbac.CanAccessModule(identity, rbac.ModuleFees) {
//	    // render the access denied fallback
//	}
//
// To also honor custom roles granted through the assignment manager,
// use a Resolver wired to an assignment source:
//
//	resolver := rbac.NewResolver(rbac.WithAssignmentSource(store))
//	if resolver.HasPermission(ctx, identity, rbac.ModuleFees, rbac.ActionEdit) {
//	    // proceed with the mutation
//	}
//
// The assignment source is consulted at decision time on every call;
// permission checks are cheap scans over small bounded lists and need
// no caching.
package rbac
