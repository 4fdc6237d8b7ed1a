// Package memstore provides in-memory implementations of the role and
// assignment store contracts, plus a user directory stub. It mirrors
// the constraints the database-backed stores enforce - per-tenant name
// uniqueness, unique assignment triples, cascade on role deletion - so
// service tests exercise the same semantics production backends have.
package memstore
