// Package quotehttp serves the read-only quoting catalogs as JSON.
// Every handler is a constant lookup; the interesting behavior (headers,
// sanitization, rate limiting) lives in the middleware pipeline.
package quotehttp

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/procomfort/procomfort-quote/internal/catalog"
	"github.com/procomfort/procomfort-quote/internal/log"
)

// API registers the /api/quote endpoints.
type API struct {
	logger log.Logger
}

func NewAPI(logger log.Logger) *API {
	if logger == nil {
		logger = log.Nop()
	}
	return &API{logger: logger}
}

// RegisterRoutes attaches the catalog endpoints to the router.
func (api *API) RegisterRoutes(r chi.Router) {
	r.Get("/api/quote/packages", api.catalogHandler("packages", func() any { return catalog.Packages }))
	r.Get("/api/quote/additional-features", api.catalogHandler("additional-features", func() any { return catalog.AdditionalFeatures }))
	r.Get("/api/quote/components", api.catalogHandler("components", func() any { return catalog.SiteComponents }))
	r.Get("/api/quote/addon-services", api.catalogHandler("addon-services", func() any { return catalog.AddonServices }))
	r.Get("/api/quote/emergency-services", api.catalogHandler("emergency-services", func() any { return catalog.EmergencyServices }))
	r.Get("/api/quote/service-areas", api.catalogHandler("service-areas", func() any { return catalog.ServiceAreas }))
	r.Get("/api/quote/hvac-features", api.catalogHandler("hvac-features", func() any { return catalog.HVACFeatures }))
	r.Get("/api/quote/appliance-features", api.catalogHandler("appliance-features", func() any { return catalog.ApplianceFeatures }))
	r.Get("/api/quote/contact-features", api.catalogHandler("contact-features", func() any { return catalog.ContactFeatures }))
}

func (api *API) catalogHandler(name string, data func() any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		api.writeJSON(r.Context(), w, http.StatusOK, data())
		api.logger.Debug(r.Context(), "served catalog", "catalog", name)
	}
}

func (api *API) writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		api.logger.Warn(ctx, "failed to encode JSON response", "error", err)
	}
}
