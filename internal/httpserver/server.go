package httpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/procomfort/procomfort-quote/internal/httpmw"
	"github.com/procomfort/procomfort-quote/internal/xerrors"
)

// NewHandler builds the public HTTP handler: routes plus the request
// pipeline. main() owns *http.Server so it can do graceful shutdown.
//
// Stage order is load-bearing. Rate limiting runs before body parsing
// so throttled requests are rejected without reading the body, and
// sanitization runs after parsing so handlers only ever see cleaned
// input.
func NewHandler(opts *Options) http.Handler {
	// chi router
	r := chi.NewRouter()

	// Annotate logger and tracer with http.route from chi route pattern if trace is recording
	r.Use(httpmw.AnnotateHTTPRoute)

	// Access log middleware
	r.Use(httpmw.AccessLog())

	if opts.APIRoutes != nil {
		opts.APIRoutes(r)
	}

	// Catch-all handler: static pages, then the JSON 404 body
	if opts.SiteHandler != nil {
		r.NotFound(opts.SiteHandler.ServeHTTP)
		r.MethodNotAllowed(opts.SiteHandler.ServeHTTP)
	} else {
		r.NotFound(httpmw.NotFound)
		r.MethodNotAllowed(httpmw.NotFound)
	}

	// Middleware (outermost last in wrapping order)
	var h http.Handler = r

	// Request-scoped logging (inner so it sees trace_id, etc)
	h = httpmw.WithLogger(opts.Logger)(h)

	// Metrics middleware for prometheus instrumentation
	if opts.MetricsMW != nil {
		h = opts.MetricsMW(h)
	}

	// add trace-id headers to any requests with a recording trace
	h = httpmw.TraceResponseHeaders("X-Trace-Id", "X-Span-Id")(h)

	h = otelhttp.NewHandler(
		h,
		"http.server",
		otelhttp.WithFilter(func(r *http.Request) bool {
			return shouldTrace(r.URL.Path)
		}),
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			// AnnotateHTTPRoute will rename the span later to the final route pattern
			return r.Method + " " + r.URL.Path
		}),
		otelhttp.WithPublicEndpointFn(func(r *http.Request) bool { return true }),
	)

	// Scrub parsed body and query in place before dispatch
	h = httpmw.SanitizeRequest(h)

	// Parse and size-cap the body; oversize requests get 413 here,
	// before sanitization or routing ever run
	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = httpmw.DefaultMaxBodyBytes
	}
	h = httpmw.ParseRequest(maxBody)(h)

	// Compress text responses (HTML/CSS/JS/JSON/SVG). Sits between the
	// rate limiter and the parse stage so parse-stage rejections (413)
	// compress like any other response, while 429s short-circuit before
	// compression ever runs.
	if opts.EnableCompression {
		h = middleware.Compress(5,
			"text/html",
			"text/css",
			"application/javascript",
			"text/javascript",
			"application/json",
			"image/svg+xml",
			"image/x-icon",
		)(h)
	}

	// Rate limiting (after client IP mw so it uses resolved IP)
	if opts.RateLimitMW != nil {
		h = opts.RateLimitMW(h)
	}

	// Client IP resolution (must be before rate limiter and logging in middleware chain)
	h = httpmw.ClientIP(opts.ClientIPOpts)(h)

	// Request ID (outer so everything downstream sees it)
	h = httpmw.RequestID("X-Request-Id")(h)

	// CORS ahead of routing so preflights short-circuit without dispatch
	if opts.CORSOptions != nil {
		h = httpmw.CORS(*opts.CORSOptions)(h)
	}

	// Static and protective headers outermost so every response carries
	// them, including 404s, 429s, and recovered 500s
	if len(opts.CustomHeaders) > 0 {
		h = httpmw.CustomHeaders(opts.CustomHeaders)(h)
	}
	if opts.SecurityPolicy != nil {
		h = httpmw.SecurityHeaders(*opts.SecurityPolicy)(h)
	}

	// Recovery middleware to log panics and serve 500 response
	if opts.UseRecoverMW {
		h = httpmw.Recover(opts.Logger, opts.OnPanic, opts.Production)(h)
	}

	return h
}

// shouldTrace decides which request paths get traced.
func shouldTrace(p string) bool {
	// dont trace favicon/robots.txt
	if p == "/favicon.ico" || p == "/favicon.svg" || p == "/robots.txt" {
		return false
	}

	// dont trace static asset extensions
	ext := strings.ToLower(path.Ext(p))
	switch ext {
	case ".css", ".js", ".png", ".jpg", ".jpeg", ".webp", ".svg", ".ico", ".woff", ".woff2", ".map":
		return false
	}

	return true
}

// Server timeout defaults, shared with opshttp.
const (
	DefaultReadHeaderTimeout = 5 * time.Second
	DefaultReadTimeout       = 10 * time.Second
	DefaultWriteTimeout      = 10 * time.Second
	DefaultIdleTimeout       = 60 * time.Second
	DefaultMaxHeaderBytes    = 1 << 20 // 1 MB
)

func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
		ReadTimeout:       DefaultReadTimeout,
		WriteTimeout:      DefaultWriteTimeout,
		IdleTimeout:       DefaultIdleTimeout,
		MaxHeaderBytes:    DefaultMaxHeaderBytes,
	}
}

// Start public HTTP server
// Returns stop(ctx) for graceful shutdown
func Start(ctx context.Context, opts *Options) (func(context.Context) error, error) {
	port := opts.Port
	if port == 0 {
		port = 8080
	}
	addr := fmt.Sprintf(":%d", port)

	handler := NewHandler(opts)
	srv := NewServer(addr, handler)

	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp4", addr)
	if err != nil {
		return nil, xerrors.EnsureTrace(err)
	}

	go func() {
		opts.Logger.Info(ctx, "http server listening", "addr", addr)
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			opts.Logger.Error(ctx, err, "http server error")
		}
	}()

	var once sync.Once
	stop := func(sctx context.Context) (retErr error) {
		once.Do(func() {
			opts.Logger.Info(sctx, "http server shutting down")
			c, cancel := context.WithTimeout(sctx, 5*time.Second)
			defer cancel()
			retErr = srv.Shutdown(c)
		})
		return retErr
	}
	return stop, nil
}
