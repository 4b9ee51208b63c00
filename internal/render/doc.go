// Package render turns a Book into a themed, paginated HTML document that an
// external converter can print to PDF without further lookups.
//
// The document is self-contained: styles are inlined from the theme registry,
// images are referenced by their media URIs, and every piece of user text
// (captions, titles, names, date-range labels) passes through html/template's
// contextual escaping. Dates use a locale long form and unparseable dates are
// passed through unchanged.
package render
