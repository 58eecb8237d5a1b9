// Package static embeds the built FaceDeck dashboard. The dist directory is
// produced by the frontend build; until it runs, dist holds only the
// placeholder page and the server falls back to its inline shell.
package static

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed all:dist/*
var dashboardFS embed.FS

// GetFileSystem returns the embedded dashboard as an http.FileSystem rooted
// at dist.
func GetFileSystem() http.FileSystem {
	fsys, err := fs.Sub(dashboardFS, "dist")
	if err != nil {
		panic(err)
	}
	return http.FS(fsys)
}

// HasDist reports whether a dashboard build is embedded.
func HasDist() bool {
	entries, err := fs.ReadDir(dashboardFS, "dist")
	if err != nil {
		return false
	}
	return len(entries) > 0
}
