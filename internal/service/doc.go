// Package service contains the memory book use cases.
//
// BookService owns the editing sessions: one live book per id, each with its
// own lock and export.Orchestrator. Inputs come from the store interfaces
// (subject records, milestones, profile, entitlements), snapshots go to a
// store.DraftStore after every mutation, and lifecycle events are published
// through an events.EventEmitter.
//
// The service depends on domain types and store interfaces only. Concrete
// Postgres, Redis, converter and share adapters are wired in cmd/server.
package service
