// Package gateway exposes the lending engine over HTTP with fiber.
//
// The handlers are thin: they parse path ids, query strings and JSON bodies, call exactly one
// engine.Library method and render its result. Engine error kinds map to status codes in one
// place (errors.go), and every error body has the shape {"detail": "..."}.
package gateway
