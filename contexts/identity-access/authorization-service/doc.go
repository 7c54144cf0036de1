// Package authorization holds the permission policy: pure predicates over a
// principal and, where relevant, a resource author.
//
// Layering:
// - domain/services: the predicates themselves, no dependencies beyond shared types
// - application: the Guard facade the HTTP layer and other modules consume
//
// Boundary notes:
// - Keep this module self-contained under identity-access context.
// - Predicates never touch storage; role and identity arrive on the principal.
package authorization
