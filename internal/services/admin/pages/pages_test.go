package pages

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	admini18n "github.com/louisbranch/libraryadmin/internal/services/admin/i18n"
	"github.com/louisbranch/libraryadmin/internal/services/admin/routes"
	"github.com/louisbranch/libraryadmin/internal/services/admin/templates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func mustMatch(t *testing.T, path string) routes.Match {
	t.Helper()
	match, ok := routes.Default().Match(path)
	require.True(t, ok, path)
	return match
}

func TestRenderPageWrapsLayout(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/books", nil)
	New(nil, nil).RenderPage(rec, req, mustMatch(t, "/books"))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `data-component="BooksPage"`)
	assert.Contains(t, body, `<title>Books | Library Admin</title>`)
	assert.Contains(t, body, `<a href="/books" class="active" aria-current="page">Books</a>`)
	for _, path := range []string{"/dashboard", "/users", "/categories", "/loans", "/returns"} {
		assert.Contains(t, body, `<a href="`+path+`">`)
	}
	assert.NotContains(t, body, `<a href="/login"`)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}

func TestRenderPageLoginUsesBareDocument(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	New(nil, nil).RenderPage(rec, httptest.NewRequest(http.MethodGet, "/login", nil), mustMatch(t, "/login"))

	body := rec.Body.String()
	assert.Contains(t, body, `data-component="AdminLogin"`)
	assert.NotContains(t, body, "admin-nav")
	assert.NotContains(t, body, `action="/logout"`)
}

func TestRenderPageLocalizes(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/loans?lang=pt-BR", nil)
	New(nil, nil).RenderPage(rec, req, mustMatch(t, "/loans"))

	body := rec.Body.String()
	assert.Contains(t, body, `<html lang="pt-BR">`)
	assert.Contains(t, body, "<h1>Empréstimos</h1>")

	cookies := (&http.Response{Header: rec.Header()}).Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, admini18n.LangCookieName, cookies[0].Name)
	assert.Equal(t, "pt-BR", cookies[0].Value)
}

func TestRenderPageHTMXReturnsFragment(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/returns", nil)
	req.Header.Set(HTMXHeader, "true")
	New(nil, nil).RenderPage(rec, req, mustMatch(t, "/returns"))

	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "<title>Returns</title>"), body)
	assert.Contains(t, body, `data-component="ReturnsPage"`)
	assert.NotContains(t, body, "<html")
}

func TestRenderPageUnknownComponent(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.ErrorLevel)
	rec := httptest.NewRecorder()
	New(nil, zap.New(core)).RenderPage(rec, httptest.NewRequest(http.MethodGet, "/x", nil), routes.Match{Path: "/x", Component: "Missing"})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 1, logs.FilterMessage("no page registered").Len())
}

func TestRenderLoginWithError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	New(nil, nil).RenderLogin(rec, httptest.NewRequest(http.MethodPost, "/login", nil),
		templates.LoginForm{Username: "librarian", ErrorKey: "admin.login.invalid"}, http.StatusUnauthorized)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Invalid username or password.")
	assert.Contains(t, body, `value="librarian"`)
}

func TestLanguageOptions(t *testing.T) {
	t.Parallel()

	page := New(nil, nil).PageContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/books", nil), mustMatch(t, "/books"))
	require.Len(t, page.Languages, 2)
	assert.Equal(t, "/books?lang=en", page.Languages[0].URL)
	assert.True(t, page.Languages[0].Active)
	assert.Equal(t, "/books?lang=pt-BR", page.Languages[1].URL)
	assert.False(t, page.Languages[1].Active)
}
