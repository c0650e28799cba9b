package router

import (
	"context"
	"errors"
	"testing"

	"github.com/louisbranch/libraryadmin/internal/services/admin/routes"
	"github.com/louisbranch/libraryadmin/internal/services/admin/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	r := New(nil)
	match, err := r.Resolve("/books/")
	require.NoError(t, err)
	assert.Equal(t, routes.ComponentBooks, match.Component)

	_, err = r.Resolve("/nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestNavigateScenarios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		token         string
		path          string
		wantPath      string
		wantComponent routes.Component
		wantHops      []Redirect
	}{
		{
			name:          "signed out user is sent to login",
			path:          "/users",
			wantPath:      "/login",
			wantComponent: routes.ComponentLogin,
			wantHops:      []Redirect{{From: "/users", To: "/login", Cause: CauseGuard}},
		},
		{
			name:          "signed in user skips login",
			token:         "abc123",
			path:          "/login",
			wantPath:      "/dashboard",
			wantComponent: routes.ComponentDashboard,
			wantHops:      []Redirect{{From: "/login", To: "/dashboard", Cause: CauseGuard}},
		},
		{
			name:          "signed in user opens books",
			token:         "abc123",
			path:          "/books",
			wantPath:      "/books",
			wantComponent: routes.ComponentBooks,
		},
		{
			name:          "root redirects to dashboard",
			token:         "abc123",
			path:          "/",
			wantPath:      "/dashboard",
			wantComponent: routes.ComponentDashboard,
			wantHops:      []Redirect{{From: "/", To: "/dashboard", Cause: CauseRoute}},
		},
		{
			name:          "signed out root ends on login",
			path:          "/",
			wantPath:      "/login",
			wantComponent: routes.ComponentLogin,
			wantHops: []Redirect{
				{From: "/", To: "/dashboard", Cause: CauseRoute},
				{From: "/dashboard", To: "/login", Cause: CauseGuard},
			},
		},
		{
			name:          "signed out login is allowed",
			path:          "/login",
			wantPath:      "/login",
			wantComponent: routes.ComponentLogin,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			res, err := New(nil).Navigate(context.Background(), session.NewMemory(tc.token), tc.path, routes.Match{})
			require.NoError(t, err)
			assert.Equal(t, tc.wantPath, res.Match.Path)
			assert.Equal(t, tc.wantComponent, res.Match.Component)
			assert.Equal(t, tc.wantHops, res.Redirects)
			assert.Equal(t, len(tc.wantHops) > 0, res.Redirected())
		})
	}
}

func TestNavigateEveryProtectedRoute(t *testing.T) {
	t.Parallel()

	r := New(nil)
	for _, match := range r.Table().Routes() {
		if !match.RequiresAuth || match.Redirect != "" {
			continue
		}

		signedOut, err := r.Navigate(context.Background(), nil, match.Path, routes.Match{})
		require.NoError(t, err)
		assert.Equal(t, "/login", signedOut.Match.Path, match.Path)

		signedIn, err := r.Navigate(context.Background(), session.NewMemory("abc123"), match.Path, routes.Match{})
		require.NoError(t, err)
		assert.Equal(t, match, signedIn.Match, match.Path)
		assert.False(t, signedIn.Redirected(), match.Path)
	}
}

func TestNavigateUnknownPath(t *testing.T) {
	t.Parallel()

	_, err := New(nil).Navigate(context.Background(), nil, "/missing", routes.Match{})
	require.ErrorIs(t, err, ErrNotFound)
}

type failingReader struct{}

func (failingReader) Token(context.Context) (string, error) {
	return "", errors.New("backend down")
}

func TestNavigateTreatsTokenErrorsAsSignedOut(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.WarnLevel)
	r := New(nil, WithLogger(zap.New(core)))

	res, err := r.Navigate(context.Background(), failingReader{}, "/books", routes.Match{})
	require.NoError(t, err)
	assert.Equal(t, "/login", res.Match.Path)
	// The guard runs on /books and again on the /login landing route.
	entries := logs.FilterMessage("read session token").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "/books", entries[0].ContextMap()["path"])
	assert.Equal(t, "/login", entries[1].ContextMap()["path"])
}

func TestNavigateStopsRedirectLoops(t *testing.T) {
	t.Parallel()

	table, err := routes.Compile([]routes.Route{
		{Path: "/a", Component: "A", Redirect: "/b", Meta: routes.Meta{Auth: routes.AuthPublic}},
		{Path: "/b", Component: "B", Redirect: "/a", Meta: routes.Meta{Auth: routes.AuthPublic}},
	})
	require.NoError(t, err)

	res, err := New(table, WithMaxRedirects(3)).Navigate(context.Background(), nil, "/a", routes.Match{})
	require.ErrorIs(t, err, ErrRedirectLoop)
	assert.Len(t, res.Redirects, 3)
}

func TestNavigateMissingLoginRoute(t *testing.T) {
	t.Parallel()

	table, err := routes.Compile([]routes.Route{
		{Path: "/secret", Component: "Secret", Meta: routes.Meta{Auth: routes.AuthRequired}},
	})
	require.NoError(t, err)

	_, err = New(table).Navigate(context.Background(), nil, "/secret", routes.Match{})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestNavigateStaticTableStaysWithinBound(t *testing.T) {
	t.Parallel()

	r := New(nil)
	for _, token := range []string{"", "abc123"} {
		for _, match := range r.Table().Routes() {
			res, err := r.Navigate(context.Background(), session.NewMemory(token), match.Path, routes.Match{})
			require.NoError(t, err, match.Path)
			assert.LessOrEqual(t, len(res.Redirects), 2, match.Path)
		}
	}
}

func TestOptionsIgnoreInvalidValues(t *testing.T) {
	t.Parallel()

	r := New(nil, WithLogger(nil), WithTracer(nil), WithMaxRedirects(0))
	assert.NotNil(t, r.logger)
	assert.NotNil(t, r.tracer)
	assert.Equal(t, DefaultMaxRedirects, r.maxRedirects)
	assert.Same(t, routes.Default(), r.Table())
}
