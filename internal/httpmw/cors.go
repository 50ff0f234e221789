package httpmw

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSOptions is the cross-origin policy, fixed at startup.
type CORSOptions struct {
	// AllowedOrigins is an exact-match list; the single entry "*" allows
	// any origin.
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	// MaxAgeSeconds caches preflight results client-side. 0 omits the header.
	MaxAgeSeconds int
}

func (o CORSOptions) allowOrigin(origin string) string {
	if origin == "" {
		return ""
	}
	for _, allowed := range o.AllowedOrigins {
		if allowed == "*" {
			return "*"
		}
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// CORS applies the allow/deny rules on every response and answers
// preflight OPTIONS requests with 204 without touching later stages.
// Requests from disallowed origins proceed without CORS headers; the
// browser enforces the denial.
func CORS(opts CORSOptions) func(http.Handler) http.Handler {
	if len(opts.AllowedMethods) == 0 {
		opts.AllowedMethods = []string{http.MethodGet, http.MethodHead, http.MethodOptions}
	}
	if len(opts.AllowedHeaders) == 0 {
		opts.AllowedHeaders = []string{"Accept", "Content-Type", "X-Request-Id"}
	}
	methods := strings.Join(opts.AllowedMethods, ", ")
	headers := strings.Join(opts.AllowedHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := opts.allowOrigin(r.Header.Get("Origin"))
			if origin != "" {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Methods", methods)
				h.Set("Access-Control-Allow-Headers", headers)
				if origin != "*" {
					h.Add("Vary", "Origin")
				}
				if opts.MaxAgeSeconds > 0 {
					h.Set("Access-Control-Max-Age", strconv.Itoa(opts.MaxAgeSeconds))
				}
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
