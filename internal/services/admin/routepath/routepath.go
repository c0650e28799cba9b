package routepath

import "strings"

const (
	Root = "/"
)

const (
	StaticPrefix = "/static/"
	Stylesheet   = StaticPrefix + "main.css"
)

const (
	Login  = "/login"
	Logout = "/logout"
)

const (
	Dashboard  = "/dashboard"
	Users      = "/users"
	Books      = "/books"
	Categories = "/categories"
	Loans      = "/loans"
	Returns    = "/returns"
)

// Child joins a child route segment onto its parent path.
func Child(parent string, segment string) string {
	segment = strings.Trim(strings.TrimSpace(segment), "/")
	parent = strings.TrimRight(strings.TrimSpace(parent), "/")
	if segment == "" {
		if parent == "" {
			return Root
		}
		return parent
	}
	return parent + "/" + segment
}

// Normalize canonicalizes a request path for exact route matching.
func Normalize(raw string) string {
	path := strings.TrimSpace(raw)
	if path == "" {
		return Root
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	path = strings.TrimRight(path, "/")
	if path == "" {
		return Root
	}
	return path
}
