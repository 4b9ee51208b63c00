// Package api handles incoming HTTP requests, routing, request validation,
// and response formatting. It acts as an adapter between HTTP clients and
// service.BookService, translating service errors into status codes without
// leaking internal details.
package api
