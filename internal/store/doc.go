// Package store persists install dispatches and confirmed editor
// installations in SQLite.
//
// Each dispatch is keyed by the digest of its completion token, so the raw
// token never reaches disk. Redeeming a token marks its dispatch and records
// the installation in a single transaction. An installation is keyed by
// editor version and host, and a later confirmation replaces the earlier one.
//
// The schema is versioned through a schema_version table. A database written
// by a different schema version is rejected with ErrSchemaMismatch and must
// be deleted by the operator.
package store
