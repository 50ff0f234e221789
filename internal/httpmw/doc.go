// Package httpmw provides the HTTP middleware pipeline for the quoting
// server.
//
// Stages are composed in a fixed order in httpserver.NewHandler:
// panic recovery/error rendering, protective headers (CSP/HSTS, gated by
// config), static custom headers, CORS, request ID, client IP, per-IP
// rate limiting scoped to /api/, compression, body/query parsing with a
// size cap, input sanitization, request-scoped logging, then the router.
//
// Two orderings are load-bearing: the rate limiter runs before body
// parsing so rejected requests never pay parse cost, and sanitization
// runs after parsing but before dispatch so handlers only ever observe
// cleaned input.
package httpmw
