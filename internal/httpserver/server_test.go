package httpserver

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/procomfort/procomfort-quote/internal/httpmw"
	"github.com/procomfort/procomfort-quote/internal/log"
	"github.com/procomfort/procomfort-quote/internal/ratelimit"
)

func defaultPolicy() *httpmw.SecurityPolicy {
	p := httpmw.DefaultSecurityPolicy()
	return &p
}

// newPipeline builds the full handler with a stub API route that records
// what the innermost handler observes.
func newPipeline(t *testing.T, mutate func(*Options), inner http.HandlerFunc) http.Handler {
	t.Helper()
	opts := &Options{
		Logger:         log.Nop(),
		UseRecoverMW:   true,
		SecurityPolicy: defaultPolicy(),
		CustomHeaders:  []httpmw.CustomHeader{{Name: "X-Powered-By", Value: "ProComfort"}},
		APIRoutes: func(r chi.Router) {
			r.Get("/api/quote/packages", inner)
			r.Post("/api/quote/echo", inner)
		},
	}
	if mutate != nil {
		mutate(opts)
	}
	return NewHandler(opts)
}

func TestHandler_NotFoundBody(t *testing.T) {
	h := newPipeline(t, nil, func(w http.ResponseWriter, r *http.Request) {})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/quote/unknown", http.NoBody))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var body httpmw.ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Error != "Not Found" {
		t.Fatalf("error = %q", body.Error)
	}
	if body.Message != "The requested resource was not found." {
		t.Fatalf("message = %q", body.Message)
	}
}

func TestHandler_HeadersOnEveryResponse(t *testing.T) {
	h := newPipeline(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// 200 from a real route, 404 from the catch-all: both must carry the
	// protective and custom headers
	paths := []string{"/api/quote/packages", "/definitely/not/here"}
	for _, p := range paths {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, p, http.NoBody))

		if got := rec.Header().Get("Strict-Transport-Security"); got == "" {
			t.Errorf("%s: HSTS header missing", p)
		}
		if got := rec.Header().Get("Content-Security-Policy"); got == "" {
			t.Errorf("%s: CSP header missing", p)
		}
		if got := rec.Header().Get("X-Powered-By"); got != "ProComfort" {
			t.Errorf("%s: X-Powered-By = %q", p, got)
		}
		if got := rec.Header().Get("X-Request-Id"); got == "" {
			t.Errorf("%s: X-Request-Id missing", p)
		}
	}
}

func TestHandler_NoSecurityPolicyOmitsHeaders(t *testing.T) {
	h := newPipeline(t, func(o *Options) { o.SecurityPolicy = nil }, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/quote/packages", http.NoBody))

	// disabled means absent, not a weaker default set
	if got := rec.Header().Get("Strict-Transport-Security"); got != "" {
		t.Fatalf("HSTS = %q, want absent", got)
	}
	if got := rec.Header().Get("Content-Security-Policy"); got != "" {
		t.Fatalf("CSP = %q, want absent", got)
	}
}

func TestHandler_RateLimitBeforeParseAndDispatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	limiter := ratelimit.New(ctx, ratelimit.WithRate(1, 1), ratelimit.WithTTL(time.Minute))

	var reached atomic.Int32
	h := newPipeline(t, func(o *Options) {
		o.RateLimitMW = limiter.Middleware
	}, func(w http.ResponseWriter, r *http.Request) {
		reached.Add(1)
		w.WriteHeader(http.StatusOK)
	})

	send := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/quote/echo", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "203.0.113.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	if rec := send(`{"a":"b"}`); rec.Code != http.StatusOK {
		t.Fatalf("first request: status = %d", rec.Code)
	}

	// budget exhausted: even a malformed body must come back 429, not
	// 400, because throttling happens before parsing
	rec := send(`{invalid json`)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: status = %d, want 429", rec.Code)
	}
	if got := reached.Load(); got != 1 {
		t.Fatalf("handler reached %d times, want 1", got)
	}

	var body httpmw.ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Error != "Too Many Requests" {
		t.Fatalf("error = %q", body.Error)
	}
}

func TestHandler_RateLimitSkipsPages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	limiter := ratelimit.New(ctx, ratelimit.WithRate(1, 1), ratelimit.WithTTL(time.Minute))

	h := newPipeline(t, func(o *Options) {
		o.RateLimitMW = limiter.Middleware
	}, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	send := func(path string) int {
		req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
		req.RemoteAddr = "203.0.113.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	// exhaust the API budget
	send("/api/quote/packages")
	if code := send("/api/quote/packages"); code != http.StatusTooManyRequests {
		t.Fatalf("api: status = %d, want 429", code)
	}

	// non-API paths keep flowing (404 here since no site handler is set)
	if code := send("/index.html"); code == http.StatusTooManyRequests {
		t.Fatal("page request was rate limited")
	}
}

func TestHandler_OversizeBody413BeforeDispatch(t *testing.T) {
	var reached atomic.Bool
	h := newPipeline(t, func(o *Options) {
		o.MaxBodyBytes = 128
	}, func(w http.ResponseWriter, r *http.Request) {
		reached.Store(true)
		w.WriteHeader(http.StatusOK)
	})

	big := `{"pad":"` + strings.Repeat("x", 1024) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/quote/echo", strings.NewReader(big))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rec.Code)
	}
	if reached.Load() {
		t.Fatal("handler must not run for oversize bodies")
	}

	var body httpmw.ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Error != "Payload Too Large" {
		t.Fatalf("error = %q", body.Error)
	}
}

func TestHandler_SanitizedInputReachesHandler(t *testing.T) {
	var gotBody map[string]any
	var gotQuery string
	h := newPipeline(t, nil, func(w http.ResponseWriter, r *http.Request) {
		gotBody = httpmw.BodyFromContext(r.Context())
		gotQuery = httpmw.QueryFromContext(r.Context()).Get("ref")
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/quote/echo?ref=%3Cad%3E", strings.NewReader(`{"name":"<img onerror='x'>Dana"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := gotBody["name"]; got != "img onerror=xDana" {
		t.Fatalf("body name = %q", got)
	}
	if gotQuery != "ad" {
		t.Fatalf("query ref = %q", gotQuery)
	}
}

func TestHandler_PanicBecomes500WithHeaders(t *testing.T) {
	h := newPipeline(t, nil, func(w http.ResponseWriter, r *http.Request) {
		panic("catalog blew up")
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/quote/packages", http.NoBody))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	// protective headers were applied before the panic unwound
	if got := rec.Header().Get("Strict-Transport-Security"); got == "" {
		t.Fatal("HSTS missing on 500 response")
	}

	var body httpmw.ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Error != "Internal Server Error" {
		t.Fatalf("error = %q", body.Error)
	}
	// non-production handler: detail included
	if body.Message == "" || body.Stack == "" {
		t.Fatalf("dev detail missing: %+v", body)
	}
}

func TestHandler_ProductionPanicIsGeneric(t *testing.T) {
	h := newPipeline(t, func(o *Options) { o.Production = true }, func(w http.ResponseWriter, r *http.Request) {
		panic("secret detail")
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/quote/packages", http.NoBody))

	var body httpmw.ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Message != "" || body.Stack != "" {
		t.Fatalf("production leaked detail: %+v", body)
	}
}

func TestHandler_CORSPreflight(t *testing.T) {
	var reached atomic.Bool
	h := newPipeline(t, func(o *Options) {
		o.CORSOptions = &httpmw.CORSOptions{AllowedOrigins: []string{"https://procomfort.example"}}
	}, func(w http.ResponseWriter, r *http.Request) {
		reached.Store(true)
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/quote/packages", http.NoBody)
	req.Header.Set("Origin", "https://procomfort.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if reached.Load() {
		t.Fatal("preflight must not dispatch")
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://procomfort.example" {
		t.Fatalf("Allow-Origin = %q", got)
	}
}

func TestHandler_CompressionCovers413(t *testing.T) {
	h := newPipeline(t, func(o *Options) {
		o.EnableCompression = true
		o.MaxBodyBytes = 64
	}, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write([]byte(`{"ok":true}`))
	})

	send := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/quote/echo", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept-Encoding", "gzip")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	if rec := send(`{"a":"b"}`); rec.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("200 Content-Encoding = %q, want gzip", rec.Header().Get("Content-Encoding"))
	}

	// the size-cap rejection happens inside the compression stage, so
	// its JSON body compresses too
	rec := send(`{"pad":"` + strings.Repeat("x", 256) + `"}`)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rec.Code)
	}
	if rec.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("413 Content-Encoding = %q, want gzip", rec.Header().Get("Content-Encoding"))
	}

	zr, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	plain, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	var body httpmw.ErrorBody
	if err := json.Unmarshal(plain, &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Error != "Payload Too Large" {
		t.Fatalf("error = %q", body.Error)
	}
}

func TestHandler_RateLimit429NotCompressed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	limiter := ratelimit.New(ctx, ratelimit.WithRate(1, 1), ratelimit.WithTTL(time.Minute))

	h := newPipeline(t, func(o *Options) {
		o.EnableCompression = true
		o.RateLimitMW = limiter.Middleware
	}, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/quote/packages", http.NoBody)
		req.Header.Set("Accept-Encoding", "gzip")
		req.RemoteAddr = "203.0.113.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	send()
	rec := send()
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	// the limiter short-circuits before the compression stage
	if enc := rec.Header().Get("Content-Encoding"); enc != "" {
		t.Fatalf("429 Content-Encoding = %q, want uncompressed", enc)
	}

	var body httpmw.ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Error != "Too Many Requests" {
		t.Fatalf("error = %q", body.Error)
	}
}

func TestNewServer_Timeouts(t *testing.T) {
	srv := NewServer(":0", http.NotFoundHandler())

	if srv.ReadHeaderTimeout != DefaultReadHeaderTimeout {
		t.Errorf("ReadHeaderTimeout = %v", srv.ReadHeaderTimeout)
	}
	if srv.ReadTimeout != DefaultReadTimeout {
		t.Errorf("ReadTimeout = %v", srv.ReadTimeout)
	}
	if srv.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("WriteTimeout = %v", srv.WriteTimeout)
	}
	if srv.IdleTimeout != DefaultIdleTimeout {
		t.Errorf("IdleTimeout = %v", srv.IdleTimeout)
	}
	if srv.MaxHeaderBytes != DefaultMaxHeaderBytes {
		t.Errorf("MaxHeaderBytes = %d", srv.MaxHeaderBytes)
	}
}
