// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the book engine: subject data (profile, records, milestones) and export
// entitlements are read-only inputs, while book drafts are written back
// after every edit.
package store
