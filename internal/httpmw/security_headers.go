package httpmw

import (
	"fmt"
	"net/http"
	"strings"
)

// Security note: CSRF protection is not implemented because it is not
// applicable. The API is stateless (no cookies, no sessions, no
// authentication) and the catalog endpoints are read-only.

// CSPDirective is a single Content-Security-Policy directive.
type CSPDirective struct {
	Name    string
	Sources []string
}

// HSTS configures Strict-Transport-Security.
type HSTS struct {
	MaxAgeSeconds     int
	IncludeSubDomains bool
	Preload           bool
}

// SecurityPolicy is the protective-headers configuration. It is decided
// once at startup; nothing here is computed per request.
type SecurityPolicy struct {
	CSP  []CSPDirective
	HSTS HSTS
}

// DefaultSecurityPolicy restricts every content source to same-origin
// and requires HTTPS for a year.
func DefaultSecurityPolicy() SecurityPolicy {
	self := []string{"'self'"}
	return SecurityPolicy{
		CSP: []CSPDirective{
			{Name: "default-src", Sources: self},
			{Name: "script-src", Sources: self},
			{Name: "style-src", Sources: self},
			{Name: "img-src", Sources: self},
			{Name: "font-src", Sources: self},
			{Name: "base-uri", Sources: self},
			{Name: "form-action", Sources: self},
			{Name: "frame-ancestors", Sources: []string{"'none'"}},
			{Name: "object-src", Sources: []string{"'none'"}},
			{Name: "upgrade-insecure-requests"},
		},
		HSTS: HSTS{MaxAgeSeconds: 31536000, IncludeSubDomains: true, Preload: true},
	}
}

func (p SecurityPolicy) renderCSP() string {
	parts := make([]string, 0, len(p.CSP))
	for _, d := range p.CSP {
		if len(d.Sources) == 0 {
			parts = append(parts, d.Name)
			continue
		}
		parts = append(parts, d.Name+" "+strings.Join(d.Sources, " "))
	}
	return strings.Join(parts, "; ")
}

func (p SecurityPolicy) renderHSTS() string {
	v := fmt.Sprintf("max-age=%d", p.HSTS.MaxAgeSeconds)
	if p.HSTS.IncludeSubDomains {
		v += "; includeSubDomains"
	}
	if p.HSTS.Preload {
		v += "; preload"
	}
	return v
}

// SecurityHeaders applies the protective headers on every response.
// Policy values are rendered once here, not per request. When the
// protective-headers config flag is off, httpserver omits this stage
// entirely; there is no degraded fallback set.
func SecurityHeaders(p SecurityPolicy) func(http.Handler) http.Handler {
	csp := p.renderCSP()
	hsts := p.renderHSTS()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Strict-Transport-Security", hsts)
			h.Set("Content-Security-Policy", csp)

			// Disable MIME sniffing
			h.Set("X-Content-Type-Options", "nosniff")
			// Old clickjacking protection, kept alongside frame-ancestors
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Permissions-Policy", "accelerometer=(), camera=(), geolocation=(), gyroscope=(), magnetometer=(), microphone=(), payment=(), usb=()")
			h.Set("X-Permitted-Cross-Domain-Policies", "none")
			h.Set("Cross-Origin-Opener-Policy", "same-origin")
			h.Set("Cross-Origin-Resource-Policy", "same-origin")

			next.ServeHTTP(w, r)
		})
	}
}

// CustomHeader is one entry of the static response-header mapping.
type CustomHeader struct {
	Name  string
	Value string
}

// CustomHeaders sets the configured static headers on every outgoing
// response, unconditionally, in the order given.
func CustomHeaders(headers []CustomHeader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if len(headers) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, h := range headers {
				w.Header().Set(h.Name, h.Value)
			}
			next.ServeHTTP(w, r)
		})
	}
}
