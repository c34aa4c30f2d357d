// Package web embeds the HTML templates and static assets served by the
// storefront.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates static
var files embed.FS

// Templates holds layout.html, the storefront pages, partials/ and admin/.
var Templates = mustSub("templates")

// Static holds the files served under /static/.
var Static = mustSub("static")

func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(files, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
