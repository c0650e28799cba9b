// Package pages renders the admin page components for allowed navigations.
//
// Full navigations get the complete document, wrapped in each layout listed on
// the route. HTMX requests get the page body only, prefixed with a <title>
// element so the client can update the window title.
package pages

import (
	"context"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	admini18n "github.com/louisbranch/libraryadmin/internal/services/admin/i18n"
	"github.com/louisbranch/libraryadmin/internal/services/admin/routes"
	"github.com/louisbranch/libraryadmin/internal/services/admin/templates"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// HTMXHeader marks partial page requests.
const HTMXHeader = "HX-Request"

var languageKeys = map[string]string{
	"en":    "admin.lang.en",
	"pt-BR": "admin.lang.pt_br",
}

// Renderer renders route components. It implements router.PageRenderer.
type Renderer struct {
	table  *routes.Table
	logger *zap.Logger
}

// New returns a renderer whose navigation is built from table.
func New(table *routes.Table, logger *zap.Logger) *Renderer {
	if table == nil {
		table = routes.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{table: table, logger: logger}
}

// RenderPage writes the page registered for match.Component.
func (p *Renderer) RenderPage(w http.ResponseWriter, r *http.Request, match routes.Match) {
	build, ok := templates.Page(match.Component)
	if !ok {
		p.logger.Error("no page registered", zap.String("component", string(match.Component)))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	page := p.PageContext(w, r, match)
	p.serve(w, r, page, match, build(page), http.StatusOK)
}

// RenderLogin writes the sign-in page with form state and status.
func (p *Renderer) RenderLogin(w http.ResponseWriter, r *http.Request, form templates.LoginForm, status int) {
	match, ok := p.table.ByName(routes.NameLogin)
	if !ok {
		match = routes.Match{Component: routes.ComponentLogin}
	}
	page := p.PageContext(w, r, match)
	p.serve(w, r, page, match, templates.Login(page, form), status)
}

// PageContext builds the localized layout context for match. It persists a
// language picked through the query string.
func (p *Renderer) PageContext(w http.ResponseWriter, r *http.Request, match routes.Match) templates.PageContext {
	tag, persist := admini18n.ResolveTag(r)
	if persist {
		admini18n.SetLanguageCookie(w, tag)
	}
	printer := admini18n.Printer(tag)

	page := templates.PageContext{
		Lang:        tag.String(),
		Loc:         printer,
		CurrentPath: match.Path,
		Nav:         p.nav(printer, match),
		Languages:   languages(printer, tag, match.Path),
	}
	if key := templates.TitleKey(match.Component); key != "" {
		page.Title = printer.Sprintf(key)
	}
	return page
}

func (p *Renderer) serve(w http.ResponseWriter, r *http.Request, page templates.PageContext, match routes.Match, body templ.Component, status int) {
	if isHTMX(r) {
		p.handle(w, r, fragment(page.Title, body), status)
		return
	}
	p.handle(w, r, wrap(page, match, body), status)
}

// fragment renders body alone, prefixed with a <title> element.
func fragment(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, titleTag(title)); err != nil {
			return err
		}
		return body.Render(ctx, w)
	})
}

func (p *Renderer) handle(w http.ResponseWriter, r *http.Request, c templ.Component, status int) {
	templ.Handler(c,
		templ.WithStatus(status),
		templ.WithErrorHandler(func(r *http.Request, err error) http.Handler {
			p.logger.Error("render page", zap.String("path", r.URL.Path), zap.Error(err))
			return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			})
		}),
	).ServeHTTP(w, r)
}

// wrap applies layouts from the innermost outwards.
func wrap(page templates.PageContext, match routes.Match, body templ.Component) templ.Component {
	wrapped := false
	for i := len(match.Layouts) - 1; i >= 0; i-- {
		if match.Layouts[i] == routes.ComponentLayout {
			body = templates.Layout(page, body)
			wrapped = true
		}
	}
	if !wrapped {
		return templates.Document(page, body)
	}
	return body
}

// nav lists the named, non-redirecting children of the admin layout.
func (p *Renderer) nav(printer *message.Printer, current routes.Match) []templates.NavItem {
	var items []templates.NavItem
	for _, match := range p.table.Routes() {
		if match.Name == "" || match.Redirect != "" || !hasLayout(match, routes.ComponentLayout) {
			continue
		}
		label := match.Name
		if key := templates.TitleKey(match.Component); key != "" {
			label = printer.Sprintf(key)
		}
		items = append(items, templates.NavItem{
			Label:  label,
			Path:   match.Path,
			Active: match.Path == current.Path,
		})
	}
	return items
}

func languages(printer *message.Printer, active language.Tag, path string) []templates.LanguageOption {
	supported := admini18n.Supported()
	out := make([]templates.LanguageOption, 0, len(supported))
	for _, tag := range supported {
		label := tag.String()
		if key, ok := languageKeys[tag.String()]; ok {
			label = printer.Sprintf(key)
		}
		out = append(out, templates.LanguageOption{
			Tag:    tag.String(),
			Label:  label,
			URL:    (&url.URL{Path: path, RawQuery: url.Values{admini18n.LangParam: {tag.String()}}.Encode()}).String(),
			Active: tag == active,
		})
	}
	return out
}

func hasLayout(match routes.Match, layout routes.Component) bool {
	for _, l := range match.Layouts {
		if l == layout {
			return true
		}
	}
	return false
}

func isHTMX(r *http.Request) bool {
	return r != nil && strings.EqualFold(r.Header.Get(HTMXHeader), "true")
}

func titleTag(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}
	return "<title>" + html.EscapeString(title) + "</title>"
}
