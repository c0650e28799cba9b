// Package routes owns the admin dashboard route table.
//
// The table is declared once as nested descriptors and compiled into a flat,
// immutable list of matches. Authentication requirements are resolved at
// compile time so every reachable route carries an explicit flag.
package routes

import (
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/libraryadmin/internal/services/admin/routepath"
)

// Route names referenced by the guard and the page layout.
const (
	NameLogin      = "AdminLogin"
	NameDashboard  = "Dashboard"
	NameUsers      = "Users"
	NameBooks      = "Books"
	NameCategories = "Categories"
	NameLoans      = "Loans"
	NameReturns    = "Returns"

	// NameRegister is reserved for a registration page. No route declares it;
	// the guard still bounces signed-in operators away from it.
	NameRegister = "AdminRegister"
)

// Component identifies the page rendered for a route.
type Component string

const (
	ComponentLayout     Component = "AdminLayout"
	ComponentLogin      Component = "AdminLogin"
	ComponentDashboard  Component = "Dashboard"
	ComponentUsers      Component = "UsersPage"
	ComponentBooks      Component = "BooksPage"
	ComponentCategories Component = "CategoryPage"
	ComponentLoans      Component = "LoansPage"
	ComponentReturns    Component = "ReturnsPage"
)

// AuthRequirement states whether a route needs a session token.
type AuthRequirement int

const (
	// AuthInherit takes the requirement of the nearest explicit ancestor.
	AuthInherit AuthRequirement = iota
	AuthRequired
	AuthPublic
)

func (a AuthRequirement) String() string {
	switch a {
	case AuthRequired:
		return "required"
	case AuthPublic:
		return "public"
	default:
		return "inherit"
	}
}

// Meta holds per-route metadata.
type Meta struct {
	Auth AuthRequirement
}

// Route is one declarative route descriptor.
type Route struct {
	Path      string
	Name      string
	Component Component
	// Redirect sends an exact match of Path to another path.
	Redirect string
	Meta     Meta
	Children []Route
}

// Match is the flattened, resolved view of a route descriptor.
type Match struct {
	Path         string
	Name         string
	Component    Component
	Layouts      []Component
	Redirect     string
	RequiresAuth bool
}

// IsZero reports whether m is the empty match.
func (m Match) IsZero() bool {
	return m.Path == "" && m.Name == "" && m.Component == ""
}

var (
	// ErrUnresolvedAuth reports a top-level route without an explicit auth requirement.
	ErrUnresolvedAuth = errors.New("route auth requirement is not resolvable")
	// ErrDuplicateName reports two routes sharing a name.
	ErrDuplicateName = errors.New("duplicate route name")
	// ErrDuplicatePath reports two routes resolving to the same path.
	ErrDuplicatePath = errors.New("duplicate route path")
	// ErrInvalidRoute reports a descriptor missing a path or a component.
	ErrInvalidRoute = errors.New("invalid route descriptor")
)

// Definitions returns the static admin route descriptors.
func Definitions() []Route {
	return []Route{
		{
			Path:      routepath.Login,
			Name:      NameLogin,
			Component: ComponentLogin,
			Meta:      Meta{Auth: AuthPublic},
		},
		{
			Path:      routepath.Root,
			Component: ComponentLayout,
			Redirect:  routepath.Dashboard,
			Meta:      Meta{Auth: AuthRequired},
			Children: []Route{
				{Path: "dashboard", Name: NameDashboard, Component: ComponentDashboard},
				{Path: "users", Name: NameUsers, Component: ComponentUsers},
				{Path: "books", Name: NameBooks, Component: ComponentBooks},
				{Path: "categories", Name: NameCategories, Component: ComponentCategories},
				{Path: "loans", Name: NameLoans, Component: ComponentLoans},
				{Path: "returns", Name: NameReturns, Component: ComponentReturns},
			},
		},
	}
}

// Table is a compiled route table. It is safe for concurrent use.
type Table struct {
	defs    []Route
	matches []Match
	byName  map[string]int
}

var defaultTable = MustCompile(Definitions())

// Default returns the compiled static admin route table.
func Default() *Table {
	return defaultTable
}

// MustCompile is like Compile but panics on an invalid table.
func MustCompile(defs []Route) *Table {
	table, err := Compile(defs)
	if err != nil {
		panic(fmt.Sprintf("compile routes: %v", err))
	}
	return table
}

// Compile flattens route descriptors and resolves inherited metadata.
func Compile(defs []Route) (*Table, error) {
	table := &Table{
		defs:   cloneRoutes(defs),
		byName: make(map[string]int),
	}
	seenPaths := make(map[string]struct{})
	var walk func(routes []Route, parentPath string, parentAuth AuthRequirement, layouts []Component) error
	walk = func(routes []Route, parentPath string, parentAuth AuthRequirement, layouts []Component) error {
		for _, route := range routes {
			if strings.TrimSpace(route.Path) == "" || route.Component == "" {
				return fmt.Errorf("%w: path %q component %q", ErrInvalidRoute, route.Path, route.Component)
			}
			auth := route.Meta.Auth
			if auth == AuthInherit {
				auth = parentAuth
			}
			if auth == AuthInherit {
				return fmt.Errorf("%w: %s", ErrUnresolvedAuth, route.Path)
			}

			fullPath := routepath.Normalize(route.Path)
			if parentPath != "" && !strings.HasPrefix(route.Path, "/") {
				fullPath = routepath.Child(parentPath, route.Path)
			}
			if _, ok := seenPaths[fullPath]; ok {
				return fmt.Errorf("%w: %s", ErrDuplicatePath, fullPath)
			}
			seenPaths[fullPath] = struct{}{}

			match := Match{
				Path:         fullPath,
				Name:         route.Name,
				Component:    route.Component,
				Layouts:      append([]Component(nil), layouts...),
				Redirect:     route.Redirect,
				RequiresAuth: auth == AuthRequired,
			}
			if match.Name != "" {
				if _, ok := table.byName[match.Name]; ok {
					return fmt.Errorf("%w: %s", ErrDuplicateName, match.Name)
				}
				table.byName[match.Name] = len(table.matches)
			}
			table.matches = append(table.matches, match)

			if len(route.Children) > 0 {
				childLayouts := append(append([]Component(nil), layouts...), route.Component)
				if err := walk(route.Children, fullPath, auth, childLayouts); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := walk(table.defs, "", AuthInherit, nil); err != nil {
		return nil, err
	}
	return table, nil
}

// Match returns the route whose full path equals the normalized path.
func (t *Table) Match(path string) (Match, bool) {
	if t == nil {
		return Match{}, false
	}
	path = routepath.Normalize(path)
	for _, match := range t.matches {
		if match.Path == path {
			return cloneMatch(match), true
		}
	}
	return Match{}, false
}

// ByName returns the named route.
func (t *Table) ByName(name string) (Match, bool) {
	if t == nil {
		return Match{}, false
	}
	idx, ok := t.byName[name]
	if !ok {
		return Match{}, false
	}
	return cloneMatch(t.matches[idx]), true
}

// Routes returns every compiled route in declaration order.
func (t *Table) Routes() []Match {
	if t == nil {
		return nil
	}
	out := make([]Match, 0, len(t.matches))
	for _, match := range t.matches {
		out = append(out, cloneMatch(match))
	}
	return out
}

// Definitions returns a deep copy of the descriptors the table was compiled from.
func (t *Table) Definitions() []Route {
	if t == nil {
		return nil
	}
	return cloneRoutes(t.defs)
}

func cloneMatch(m Match) Match {
	m.Layouts = append([]Component(nil), m.Layouts...)
	return m
}

func cloneRoutes(routes []Route) []Route {
	if routes == nil {
		return nil
	}
	out := make([]Route, len(routes))
	for i, route := range routes {
		out[i] = route
		out[i].Children = cloneRoutes(route.Children)
	}
	return out
}
