// Package events provides types and interfaces for publishing book lifecycle
// events.
//
// Services emit events without knowing which handlers will process them. The
// primary components are:
// - BookEvent: something that happened to a book (generated, curated, exported)
// - EventHandler: Interface for components that can handle events
// - InMemoryEventEmitter: synchronous fan-out to registered handlers
package events
