// Package ratelimit provides per-IP rate limiting with background
// eviction of stale entries.
//
// This is a single-instance, in-memory limiter for basic abuse
// prevention on the quoting API. It does not protect against distributed
// attacks or application-layer DoS that stays under the limit; use an
// upstream WAF or CDN for those.
package ratelimit
