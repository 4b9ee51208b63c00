// Package export sequences the two long-running book operations: generating
// the default photo book and exporting it as a PDF. Export runs entitlement
// check, rendering, conversion and sharing in that order, and both operations
// guarantee their busy flag is cleared however they exit.
package export
