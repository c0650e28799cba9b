package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/louisbranch/libraryadmin/internal/services/admin/routepath"
	"github.com/louisbranch/libraryadmin/internal/services/admin/routes"
)

// LoginForm is the state of the sign-in form.
type LoginForm struct {
	Username string
	// ErrorKey is a catalog key shown above the form.
	ErrorKey string
}

// PageFunc builds the body component of one page.
type PageFunc func(page PageContext) templ.Component

var titleKeys = map[routes.Component]string{
	routes.ComponentLogin:      "admin.login.title",
	routes.ComponentDashboard:  "admin.nav.dashboard",
	routes.ComponentUsers:      "admin.nav.users",
	routes.ComponentBooks:      "admin.nav.books",
	routes.ComponentCategories: "admin.nav.categories",
	routes.ComponentLoans:      "admin.nav.loans",
	routes.ComponentReturns:    "admin.nav.returns",
}

var pages = map[routes.Component]PageFunc{
	routes.ComponentLogin:      func(page PageContext) templ.Component { return Login(page, LoginForm{}) },
	routes.ComponentDashboard:  Dashboard,
	routes.ComponentUsers:      UsersPage,
	routes.ComponentBooks:      BooksPage,
	routes.ComponentCategories: CategoryPage,
	routes.ComponentLoans:      LoansPage,
	routes.ComponentReturns:    ReturnsPage,
}

// TitleKey returns the catalog key for a page title, or "" for components
// without one.
func TitleKey(component routes.Component) string {
	return titleKeys[component]
}

// Page returns the body builder registered for component.
func Page(component routes.Component) (PageFunc, bool) {
	fn, ok := pages[component]
	return fn, ok
}

// Login renders the sign-in form.
func Login(page PageContext, form LoginForm) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		parts := []string{
			`<section class="admin-login" data-component="`, string(routes.ComponentLogin), `">`,
			`<h1>`, templ.EscapeString(T(page.Loc, "admin.login.title")), `</h1>`,
		}
		if form.ErrorKey != "" {
			parts = append(parts, `<p class="admin-error" role="alert">`, templ.EscapeString(T(page.Loc, form.ErrorKey)), `</p>`)
		}
		parts = append(parts,
			`<form method="post" action="`, templ.EscapeString(routepath.Login), `">`,
			`<label>`, templ.EscapeString(T(page.Loc, "admin.login.username")),
			`<input type="text" name="username" autocomplete="username" required value="`, templ.EscapeString(form.Username), `"></label>`,
			`<label>`, templ.EscapeString(T(page.Loc, "admin.login.password")),
			`<input type="password" name="password" autocomplete="current-password" required></label>`,
			`<button type="submit">`, templ.EscapeString(T(page.Loc, "admin.login.submit")), `</button>`,
			`</form></section>`,
		)
		return writeAll(w, parts...)
	})
}

// Dashboard renders the dashboard shell.
func Dashboard(page PageContext) templ.Component {
	return section(page, routes.ComponentDashboard)
}

// UsersPage renders the users shell.
func UsersPage(page PageContext) templ.Component {
	return section(page, routes.ComponentUsers)
}

// BooksPage renders the books shell.
func BooksPage(page PageContext) templ.Component {
	return section(page, routes.ComponentBooks)
}

// CategoryPage renders the categories shell.
func CategoryPage(page PageContext) templ.Component {
	return section(page, routes.ComponentCategories)
}

// LoansPage renders the loans shell.
func LoansPage(page PageContext) templ.Component {
	return section(page, routes.ComponentLoans)
}

// ReturnsPage renders the returns shell.
func ReturnsPage(page PageContext) templ.Component {
	return section(page, routes.ComponentReturns)
}

func section(page PageContext, component routes.Component) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return writeAll(w,
			`<section class="admin-page" data-component="`, templ.EscapeString(string(component)), `">`,
			`<h1>`, templ.EscapeString(T(page.Loc, TitleKey(component))), `</h1>`,
			`<p class="admin-empty">`, templ.EscapeString(T(page.Loc, "admin.page.empty")), `</p>`,
			`</section>`,
		)
	})
}
