// Package httpmux mounts the admin handlers on the root mux.
package httpmux

import (
	"io/fs"
	"mime"
	"net/http"
	"path"

	"github.com/louisbranch/libraryadmin/internal/services/admin/routepath"
)

// MountStatic serves staticFS under routepath.StaticPrefix. Static assets are
// never routed through the navigation guard.
func MountStatic(rootMux *http.ServeMux, staticFS fs.FS) {
	if rootMux == nil || staticFS == nil {
		return
	}
	handler := http.StripPrefix(routepath.StaticPrefix, http.FileServer(http.FS(staticFS)))
	rootMux.Handle(routepath.StaticPrefix, withStaticMime(handler))
}

// MountSessionRoutes mounts the sign-in and sign-out form handlers.
func MountSessionRoutes(rootMux *http.ServeMux, login http.Handler, logout http.Handler) {
	if rootMux == nil {
		return
	}
	if login != nil {
		rootMux.Handle("POST "+routepath.Login, login)
	}
	if logout != nil {
		rootMux.Handle("POST "+routepath.Logout, logout)
	}
}

// MountNavigation mounts the history-mode navigation handler at the root.
func MountNavigation(rootMux *http.ServeMux, navigation http.Handler) {
	if rootMux == nil || navigation == nil {
		return
	}
	rootMux.Handle(routepath.Root, navigation)
}

// withStaticMime sets Content-Type from the file extension before the file
// server sniffs the body.
func withStaticMime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if contentType := mime.TypeByExtension(path.Ext(r.URL.Path)); contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		next.ServeHTTP(w, r)
	})
}
