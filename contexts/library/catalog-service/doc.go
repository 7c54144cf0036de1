// Package catalog owns the content library: resources, topics, ratings, and
// bookmarks.
//
// Layering:
// - domain: core entities, invariants, errors
// - application: the catalog service using explicit ports
// - ports: stable boundaries for persistence and the permission guard
// - adapters: concrete HTTP, memory, and postgres implementations
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - Keep this module self-contained under the library context.
// - Permission decisions come through the Guard port; the module never
//   inspects roles directly.
package catalog
