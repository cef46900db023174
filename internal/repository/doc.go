// Package repository defines the data access interfaces for benchtrack.
//
// This package provides the repository abstraction layer for persisting
// and retrieving domain entities. The actual implementation is in the
// sqlite subpackage.
//
// # Interfaces
//
// Accounts covers CRUD, search, and aggregate statistics over benchmark
// accounts. Articles covers CRUD, batch operations, and filtered search
// over the articles owned by those accounts.
//
// # SQLite Implementation
//
// The sqlite implementation owns a single connection with foreign keys
// enabled. It handles:
//
// - Idempotent schema creation (tables, indexes, cascade foreign key)
// - Seeding of the reserved material-library account
// - Structured field patches mapped to parameterized updates
// - Scoped transactions for account deletes and article batches
//
// # Error contract
//
// Validation happens before any SQL runs; constraint violations are
// classified into the sentinel errors of the domain package. Nothing in
// this layer panics, and single-row lookups return (nil, nil) for
// absent records.
package repository
