// Package domain contains the core entities of the memory book: the records
// and milestones supplied by external stores, and the Book aggregate with its
// pages and cover. It is independent of storage, rendering and transport.
package domain
