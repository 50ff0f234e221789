// Package sitehandler serves the embedded marketing pages and static
// assets, and renders the JSON 404 for everything the route table does
// not know.
package sitehandler

import (
	"net/http"

	"github.com/procomfort/procomfort-quote/internal/httpmw"
)

type Handler struct {
	opts Options
}

func New(opts Options) (*Handler, error) {
	opts.setDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Handler{opts: opts}, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// pages and assets are read-only; anything else is a routing miss
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		httpmw.NotFound(w, r)
		return
	}

	file, isAsset, ok := resolvePath(r.URL.Path)
	if !ok || !existsFile(h.opts.Site, file) {
		httpmw.NotFound(w, r)
		return
	}

	if isAsset {
		w.Header().Set("Cache-Control", h.opts.AssetCacheControl)
	} else {
		w.Header().Set("Cache-Control", h.opts.HTMLCacheControl)
	}

	// ServeFileFS 301-redirects any request whose URL path ends in
	// /index.html, independent of the file argument. The resolver has
	// already validated and mapped the path, so hand off a neutral one.
	r2 := new(http.Request)
	*r2 = *r
	u := *r.URL
	u.Path = "/"
	r2.URL = &u

	http.ServeFileFS(w, r2, h.opts.Site, file)
}
