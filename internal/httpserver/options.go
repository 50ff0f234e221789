package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/procomfort/procomfort-quote/internal/httpmw"
	"github.com/procomfort/procomfort-quote/internal/log"
)

type Options struct {
	Logger log.Logger
	Port   int

	// Production selects generic 500 bodies; outside production the
	// recovered panic message and stack are included in the response.
	Production   bool
	UseRecoverMW bool
	OnPanic      func()

	// SecurityPolicy enables the protective-header stage when non-nil.
	// A nil policy omits the stage entirely, it does not emit defaults.
	SecurityPolicy *httpmw.SecurityPolicy

	// CustomHeaders are applied to every response in declaration order.
	CustomHeaders []httpmw.CustomHeader

	// CORSOptions enables the cross-origin stage when non-nil.
	CORSOptions *httpmw.CORSOptions

	ClientIPOpts httpmw.ClientIPOptions

	// RateLimitMW guards /api/ paths; nil disables rate limiting.
	RateLimitMW func(http.Handler) http.Handler

	MaxBodyBytes int64

	EnableCompression bool

	MetricsMW func(http.Handler) http.Handler

	// APIRoutes registers the JSON catalog endpoints on the router.
	APIRoutes func(chi.Router)

	// SiteHandler serves static pages and owns the 404 fallback.
	SiteHandler http.Handler
}
