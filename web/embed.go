package web

import (
	"embed"
	"io/fs"
)

// FS contains the embedded static assets.
// The patterns are relative to this file's directory (the 'web' directory).
//
//go:embed static/*
var FS embed.FS

// Static returns the static assets rooted at the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(FS, "static")
	if err != nil {
		panic(err) // static/ is embedded above, so this cannot fail.
	}
	return sub
}
