package sitehandler

import (
	"io/fs"
	"path"
	"strings"
)

// pages maps the fixed page routes to files in the site FS. Everything
// else under the FS is reachable only through /assets/.
var pages = map[string]string{
	"/":              "index.html",
	"/index.html":    "index.html",
	"/about-us.html": "about-us.html",
	"/success.html":  "success.html",
}

// resolvePath maps a URL path to a file inside the site FS.
// Returns the relative file path (no leading slash), whether it lives
// under assets/, and whether the mapping is valid.
func resolvePath(urlPath string) (file string, isAsset bool, ok bool) {
	p := urlPath
	if p == "" {
		p = "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}

	// reject ambiguous or unsafe paths outright
	if strings.Contains(p, "\x00") || strings.Contains(p, "\\") {
		return "", false, false
	}
	if hasDotSegments(p) {
		return "", false, false
	}

	clean := path.Clean(p)

	if file, found := pages[clean]; found {
		return file, false, true
	}

	if rest, found := strings.CutPrefix(clean, "/assets/"); found && rest != "" {
		return "assets/" + rest, true, true
	}

	return "", false, false
}

func hasDotSegments(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if seg == "." || seg == ".." {
			return true
		}
	}
	return false
}

func existsFile(fsys fs.FS, name string) bool {
	if name == "" || !fs.ValidPath(name) {
		return false
	}
	info, err := fs.Stat(fsys, name)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
