package templates

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/louisbranch/libraryadmin/internal/services/admin/routepath"
)

// Document renders a bare HTML document around body.
func Document(page PageContext, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := writeHead(w, page); err != nil {
			return err
		}
		if err := writeAll(w, `<body class="admin-bare"><main class="admin-main">`); err != nil {
			return err
		}
		if err := renderBody(ctx, w, body); err != nil {
			return err
		}
		return writeAll(w, `</main></body></html>`)
	})
}

// Layout renders the signed-in shell: header, route navigation, sign-out
// form, and body.
func Layout(page PageContext, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := writeHead(w, page); err != nil {
			return err
		}
		if err := writeAll(w,
			`<body class="admin-layout"><header class="admin-header">`,
			`<a class="admin-brand" href="`, templ.EscapeString(routepath.Dashboard), `">`,
			templ.EscapeString(T(page.Loc, "admin.title")), `</a>`,
		); err != nil {
			return err
		}
		if err := writeNav(w, page.Nav); err != nil {
			return err
		}
		if err := writeLanguages(w, page.Languages); err != nil {
			return err
		}
		if err := writeAll(w,
			`<form class="admin-logout" method="post" action="`, templ.EscapeString(routepath.Logout), `">`,
			`<button type="submit">`, templ.EscapeString(T(page.Loc, "admin.nav.logout")), `</button></form>`,
			`</header><main class="admin-main">`,
		); err != nil {
			return err
		}
		if err := renderBody(ctx, w, body); err != nil {
			return err
		}
		return writeAll(w, `</main></body></html>`)
	})
}

func writeHead(w io.Writer, page PageContext) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}
	title := T(page.Loc, "admin.title")
	if page.Title != "" {
		title = page.Title + " | " + title
	}
	return writeAll(w,
		`<!doctype html><html lang="`, templ.EscapeString(lang), `"><head>`,
		`<meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`,
		`<title>`, templ.EscapeString(title), `</title>`,
		`<link rel="stylesheet" href="`, templ.EscapeString(routepath.Stylesheet), `">`,
		`</head>`,
	)
}

func writeNav(w io.Writer, items []NavItem) error {
	if len(items) == 0 {
		return nil
	}
	var b strings.Builder
	b.WriteString(`<nav class="admin-nav"><ul>`)
	for _, item := range items {
		b.WriteString(`<li><a href="`)
		b.WriteString(templ.EscapeString(item.Path))
		b.WriteString(`"`)
		if item.Active {
			b.WriteString(` class="active" aria-current="page"`)
		}
		b.WriteString(`>`)
		b.WriteString(templ.EscapeString(item.Label))
		b.WriteString(`</a></li>`)
	}
	b.WriteString(`</ul></nav>`)
	return writeAll(w, b.String())
}

func writeLanguages(w io.Writer, options []LanguageOption) error {
	if len(options) < 2 {
		return nil
	}
	var b strings.Builder
	b.WriteString(`<ul class="admin-languages">`)
	for _, option := range options {
		b.WriteString(`<li><a hreflang="`)
		b.WriteString(templ.EscapeString(option.Tag))
		b.WriteString(`" href="`)
		b.WriteString(templ.EscapeString(option.URL))
		b.WriteString(`"`)
		if option.Active {
			b.WriteString(` class="active"`)
		}
		b.WriteString(`>`)
		b.WriteString(templ.EscapeString(option.Label))
		b.WriteString(`</a></li>`)
	}
	b.WriteString(`</ul>`)
	return writeAll(w, b.String())
}

func renderBody(ctx context.Context, w io.Writer, body templ.Component) error {
	if body == nil {
		return nil
	}
	return body.Render(ctx, w)
}

func writeAll(w io.Writer, parts ...string) error {
	for _, part := range parts {
		if _, err := io.WriteString(w, part); err != nil {
			return err
		}
	}
	return nil
}
