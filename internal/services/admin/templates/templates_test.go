package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/louisbranch/libraryadmin/internal/services/admin/routes"
	"golang.org/x/text/message"
)

type fakeLocalizer struct {
	value string
}

func (f fakeLocalizer) Sprintf(key message.Reference, args ...any) string {
	return f.value
}

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func TestTranslateFallback(t *testing.T) {
	if T(nil, "hello") != "hello" {
		t.Fatal("expected key fallback")
	}
	if T(nil, message.Reference(123)) != "" {
		t.Fatal("expected empty string for non-string key")
	}
	if T(fakeLocalizer{value: "translated"}, "hello") != "translated" {
		t.Fatal("expected translated value")
	}
}

func TestEveryRoutedComponentHasAPage(t *testing.T) {
	for _, match := range routes.Default().Routes() {
		if match.Redirect != "" {
			continue
		}
		fn, ok := Page(match.Component)
		if !ok {
			t.Fatalf("no page for %s", match.Component)
		}
		body := render(t, fn(PageContext{}))
		if !strings.Contains(body, `data-component="`+string(match.Component)+`"`) {
			t.Fatalf("page %s body = %q", match.Component, body)
		}
		if TitleKey(match.Component) == "" {
			t.Fatalf("no title key for %s", match.Component)
		}
	}
	if _, ok := Page(routes.ComponentLayout); ok {
		t.Fatal("layout is not a page")
	}
}

func TestLayoutRendersNavigationAndLogout(t *testing.T) {
	page := PageContext{
		Lang:  "pt-BR",
		Title: "Livros",
		Nav: []NavItem{
			{Label: "Painel", Path: "/dashboard"},
			{Label: "Livros", Path: "/books", Active: true},
		},
		Languages: []LanguageOption{
			{Tag: "en", Label: "English", URL: "/books?lang=en"},
			{Tag: "pt-BR", Label: "Português", URL: "/books?lang=pt-BR", Active: true},
		},
	}
	out := render(t, Layout(page, BooksPage(page)))

	for _, want := range []string{
		`<html lang="pt-BR">`,
		`<title>Livros | admin.title</title>`,
		`<link rel="stylesheet" href="/static/main.css">`,
		`<a href="/books" class="active" aria-current="page">Livros</a>`,
		`<a href="/dashboard">Painel</a>`,
		`action="/logout"`,
		`data-component="BooksPage"`,
		`hreflang="pt-BR"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("layout missing %q in %s", want, out)
		}
	}
}

func TestDocumentOmitsNavigation(t *testing.T) {
	out := render(t, Document(PageContext{}, Login(PageContext{}, LoginForm{})))
	if strings.Contains(out, "admin-nav") || strings.Contains(out, "/logout") {
		t.Fatalf("document rendered layout chrome: %s", out)
	}
	if !strings.Contains(out, `<html lang="en">`) {
		t.Fatalf("expected default lang in %s", out)
	}
}

func TestLoginEscapesInputAndShowsError(t *testing.T) {
	out := render(t, Login(PageContext{}, LoginForm{Username: `"><script>`, ErrorKey: "admin.login.invalid"}))
	if strings.Contains(out, "<script>") {
		t.Fatalf("username was not escaped: %s", out)
	}
	if !strings.Contains(out, `role="alert">admin.login.invalid</p>`) {
		t.Fatalf("missing error: %s", out)
	}
	if !strings.Contains(out, `action="/login"`) {
		t.Fatalf("missing login action: %s", out)
	}
}

func TestLayoutWithNilBody(t *testing.T) {
	out := render(t, Layout(PageContext{}, nil))
	if !strings.HasSuffix(out, `<main class="admin-main"></main></body></html>`) {
		t.Fatalf("unexpected layout tail: %s", out)
	}
}
