package sitehandler

import (
	"fmt"
	"io/fs"

	"github.com/procomfort/procomfort-quote/internal/log"
)

type Options struct {
	Logger log.Logger
	// Site is the root FS holding the marketing pages and the assets/
	// subtree.
	Site fs.FS

	// Cache policies by response kind.
	HTMLCacheControl  string // default: "no-cache"
	AssetCacheControl string // default: "public, max-age=31536000, immutable"
}

func (o *Options) setDefaults() {
	if o.Logger == nil {
		o.Logger = log.Nop()
	}
	if o.HTMLCacheControl == "" {
		o.HTMLCacheControl = "no-cache"
	}
	if o.AssetCacheControl == "" {
		o.AssetCacheControl = "public, max-age=31536000, immutable"
	}
}

func (o *Options) validate() error {
	if o.Site == nil {
		return fmt.Errorf("sitehandler: Site FS is nil")
	}
	// fail fast on boot if the bundle is mispackaged
	if _, err := fs.Stat(o.Site, "index.html"); err != nil {
		return fmt.Errorf("sitehandler: missing index.html in site FS: %w", err)
	}
	return nil
}
