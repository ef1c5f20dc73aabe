// Package http contains the REST handlers for the film analytics API.
// Handlers depend on narrow service interfaces, translate service sentinel
// errors into RFC 7807 problem responses through the central error handler,
// and wrap successful payloads in a uniform status/data/count envelope.
package http
