// Package webassets embeds the marketing site so the binary ships as a
// single artifact with no filesystem layout requirements at runtime.
package webassets

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed site
var embedded embed.FS

// SiteFS returns the site root (pages at the top level, static files
// under assets/).
func SiteFS() fs.FS {
	sub, err := fs.Sub(embedded, "site")
	if err != nil {
		panic(fmt.Errorf("webassets: site subfs: %w", err))
	}
	return sub
}
