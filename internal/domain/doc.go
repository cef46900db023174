// Package domain defines the core entities of benchtrack.
//
// The two persisted entities are Account (a tracked benchmark account)
// and Article (a published piece owned by exactly one account). Accounts
// own articles through a cascade-delete foreign key; an article URL is
// unique within its owning account.
//
// # Reserved material library
//
// One account row is reserved as the "material library", a bucket for
// collected article material that belongs to no benchmark account. It is
// seeded at storage initialization and repositories refuse to delete it.
//
// # Field patches
//
// Partial updates are expressed as patch structs (AccountPatch,
// ArticlePatch) whose pointer fields distinguish "leave unchanged" (nil)
// from "set to this value". The sqlite repository maps a patch to a
// parameterized UPDATE in a fixed field order.
//
// # Errors
//
// Repository failures surface as the sentinel errors in errors.go,
// wrapped with context. Callers classify with errors.Is.
package domain
