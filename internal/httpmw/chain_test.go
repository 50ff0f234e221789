package httpmw

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

// tagMW appends name on the way in and out so wrapping order is observable.
func tagMW(trace *[]string, name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*trace = append(*trace, name+">")
			next.ServeHTTP(w, r)
			*trace = append(*trace, "<"+name)
		})
	}
}

func TestChain_WrapsFirstArgOutermost(t *testing.T) {
	var trace []string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		trace = append(trace, "handler")
	})

	h := Chain(inner, tagMW(&trace, "headers"), tagMW(&trace, "ratelimit"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	want := []string{"headers>", "ratelimit>", "handler", "<ratelimit", "<headers"}
	if !reflect.DeepEqual(trace, want) {
		t.Fatalf("trace = %v, want %v", trace, want)
	}
}

func TestChain_EmptyAndNilEntries(t *testing.T) {
	var trace []string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		trace = append(trace, "handler")
	})

	// no middleware at all
	Chain(inner).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	if len(trace) != 1 {
		t.Fatalf("bare chain trace = %v", trace)
	}

	// nil entries are skipped, surviving ones still wrap
	trace = nil
	Chain(inner, nil, tagMW(&trace, "only"), nil).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	want := []string{"only>", "handler", "<only"}
	if !reflect.DeepEqual(trace, want) {
		t.Fatalf("trace = %v, want %v", trace, want)
	}
}
