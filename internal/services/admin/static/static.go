// Package static embeds the admin stylesheet.
package static

import (
	"embed"
	"io/fs"
)

//go:embed main.css
var files embed.FS

// FS returns the embedded static files, rooted at the asset directory.
func FS() fs.FS {
	return files
}
