// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package: read-only access
// to subject profiles, records, milestones and export entitlements, plus the
// embedded goose schema migrations.
package postgres
