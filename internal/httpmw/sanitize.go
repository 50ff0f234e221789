package httpmw

import (
	"net/http"

	"github.com/procomfort/procomfort-quote/internal/sanitize"
)

// SanitizeRequest cleans every top-level string field of the parsed body
// and query in place. Must sit after ParseRequest (it operates on the
// parsed structures) and before the router (handlers must only see
// cleaned input). Nested body objects are not descended into; see
// sanitize.CleanMap.
func SanitizeRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if body := BodyFromContext(ctx); body != nil {
			sanitize.CleanMap(body)
		}
		if query := QueryFromContext(ctx); query != nil {
			sanitize.CleanValues(query)
		}
		next.ServeHTTP(w, r)
	})
}
