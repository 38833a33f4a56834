// Package api exposes lesson generation over HTTP. Handlers decode and
// validate requests, call the generation and lesson services, and map service
// errors to status codes and client-safe messages.
package api
