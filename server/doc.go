// Package server provides the local control server: a Gin engine with
// h2c support, the standard middleware stack and the default endpoints.
//
// # Middleware
//
// Built-in middleware (server/middleware):
//
//   - RequestID: request id generation and propagation
//   - RequestLogger: request logging with duration tracking
//   - CORS: cross-origin headers, off unless origins are configured
//   - BodySizeLimit: request body size limits
//   - Recovery: panic recovery with structured logging
//   - TokenAuth: optional shared bearer token
//   - RateLimit: per-client sliding window, used on command routes
//
// # Endpoints
//
// Built-in endpoints (server/endpoint):
//
//   - /health: component health aggregation
//   - /info: build information
//   - /metrics: runtime memory and goroutine counts
package server
