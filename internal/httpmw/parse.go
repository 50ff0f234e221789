package httpmw

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
)

// DefaultMaxBodyBytes caps request bodies at 10 MiB.
const DefaultMaxBodyBytes int64 = 10 << 20

type parsedBodyKey struct{}
type parsedQueryKey struct{}

// BodyFromContext returns the parsed request body object, or nil when
// the request carried none. The map is the same one the sanitization
// stage cleaned, so handlers only ever see sanitized values.
func BodyFromContext(ctx context.Context) map[string]any {
	m, _ := ctx.Value(parsedBodyKey{}).(map[string]any)
	return m
}

// QueryFromContext returns the parsed query parameters.
func QueryFromContext(ctx context.Context) url.Values {
	q, _ := ctx.Value(parsedQueryKey{}).(url.Values)
	return q
}

func withParsed(ctx context.Context, body map[string]any, query url.Values) context.Context {
	ctx = context.WithValue(ctx, parsedQueryKey{}, query)
	if body != nil {
		ctx = context.WithValue(ctx, parsedBodyKey{}, body)
	}
	return ctx
}

// ParseRequest decodes the request body (JSON object or urlencoded form)
// and the query string into structures later stages operate on. The body
// read is capped at maxBytes; oversized bodies fail here with 413 before
// sanitization or dispatch run. Malformed bodies fail with 400.
func ParseRequest(maxBytes int64) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			query := r.URL.Query()

			body, err := parseBody(w, r, maxBytes)
			if err != nil {
				var maxErr *http.MaxBytesError
				if errors.As(err, &maxErr) {
					WriteError(w, http.StatusRequestEntityTooLarge, ErrorBody{
						Error:   "Payload Too Large",
						Message: "The request body exceeds the maximum allowed size.",
					})
					return
				}
				WriteError(w, http.StatusBadRequest, ErrorBody{
					Error:   "Bad Request",
					Message: "The request body could not be parsed.",
				})
				return
			}

			next.ServeHTTP(w, r.WithContext(withParsed(r.Context(), body, query)))
		})
	}
}

// parseBody returns the decoded body object, nil when the request has no
// parseable body. Only top-level JSON objects and urlencoded forms are
// decoded; other content types pass through untouched.
func parseBody(w http.ResponseWriter, r *http.Request, maxBytes int64) (map[string]any, error) {
	if r.Body == nil || r.ContentLength == 0 {
		return nil, nil
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "application/json":
		var m map[string]any
		dec := json.NewDecoder(r.Body)
		if err := dec.Decode(&m); err != nil {
			if err == io.EOF {
				return nil, nil
			}
			return nil, err
		}
		return m, nil

	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		m := make(map[string]any, len(r.PostForm))
		for k, vs := range r.PostForm {
			if len(vs) > 0 {
				m[k] = vs[0]
			}
		}
		return m, nil
	}
	return nil, nil
}
