// Package router resolves navigations against the admin route table and runs
// the navigation guard on every attempt.
//
// A Router is an explicit value handed to the HTTP server. It holds no
// per-navigation state and is safe for concurrent use.
package router

import (
	"context"
	"errors"
	"fmt"

	"github.com/louisbranch/libraryadmin/internal/services/admin/guard"
	"github.com/louisbranch/libraryadmin/internal/services/admin/routepath"
	"github.com/louisbranch/libraryadmin/internal/services/admin/routes"
	"github.com/louisbranch/libraryadmin/internal/services/admin/session"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DefaultMaxRedirects bounds the redirect chain followed by Navigate.
const DefaultMaxRedirects = 8

const tracerName = "github.com/louisbranch/libraryadmin/internal/services/admin/router"

var (
	// ErrNotFound reports a path that matches no route.
	ErrNotFound = errors.New("route not found")
	// ErrRedirectLoop reports a redirect chain longer than the configured bound.
	ErrRedirectLoop = errors.New("too many redirects")
)

// Cause tells why a navigation was redirected.
type Cause string

const (
	// CauseRoute is a redirect declared on the matched route.
	CauseRoute Cause = "route"
	// CauseGuard is a redirect issued by the navigation guard.
	CauseGuard Cause = "guard"
)

// Redirect is one hop of a navigation.
type Redirect struct {
	From  string
	To    string
	Cause Cause
}

// Resolution is the outcome of an allowed navigation.
type Resolution struct {
	// Match is the route the navigation landed on.
	Match routes.Match
	// Redirects lists every hop taken to reach Match, in order.
	Redirects []Redirect
}

// Redirected reports whether the navigation landed away from the requested path.
func (r Resolution) Redirected() bool {
	return len(r.Redirects) > 0
}

// Router resolves navigations against a compiled route table.
type Router struct {
	table        *routes.Table
	logger       *zap.Logger
	tracer       trace.Tracer
	maxRedirects int
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the navigation logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithTracer sets the tracer used for navigation spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Router) {
		if tracer != nil {
			r.tracer = tracer
		}
	}
}

// WithMaxRedirects overrides DefaultMaxRedirects. Values below one are ignored.
func WithMaxRedirects(n int) Option {
	return func(r *Router) {
		if n > 0 {
			r.maxRedirects = n
		}
	}
}

// New builds a router over table, or over routes.Default() when table is nil.
func New(table *routes.Table, opts ...Option) *Router {
	if table == nil {
		table = routes.Default()
	}
	r := &Router{
		table:        table,
		logger:       zap.NewNop(),
		tracer:       otel.Tracer(tracerName),
		maxRedirects: DefaultMaxRedirects,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Table returns the route table the router resolves against.
func (r *Router) Table() *routes.Table {
	return r.table
}

// Resolve matches path against the route table without running the guard.
func (r *Router) Resolve(path string) (routes.Match, error) {
	match, ok := r.table.Match(path)
	if !ok {
		return routes.Match{}, fmt.Errorf("%w: %s", ErrNotFound, routepath.Normalize(path))
	}
	return match, nil
}

// Navigate resolves path and follows route redirects and guard redirects
// until a route is allowed. Route redirects run before the guard.
//
// A token read failure is logged and treated as a missing token.
func (r *Router) Navigate(ctx context.Context, tokens session.TokenReader, path string, from routes.Match) (Resolution, error) {
	var res Resolution
	current := routepath.Normalize(path)
	for {
		match, err := r.Resolve(current)
		if err != nil {
			return res, err
		}

		if match.Redirect != "" {
			next := routepath.Normalize(match.Redirect)
			if err := r.hop(&res, current, next, CauseRoute); err != nil {
				return res, err
			}
			current = next
			continue
		}

		decision, err := guard.Check(ctx, tokens, match, from)
		if err != nil {
			r.logger.Warn("read session token", zap.String("path", current), zap.Error(err))
			decision = guard.Decide(match, from, false)
		}
		if !decision.Redirected() {
			res.Match = match
			return res, nil
		}

		next, err := r.target(decision.Target)
		if err != nil {
			return res, err
		}
		r.logger.Debug("guard redirect",
			zap.String("from", current),
			zap.String("to", next),
			zap.Stringer("action", decision.Action),
		)
		if err := r.hop(&res, current, next, CauseGuard); err != nil {
			return res, err
		}
		current = next
	}
}

func (r *Router) hop(res *Resolution, from, to string, cause Cause) error {
	if len(res.Redirects) >= r.maxRedirects {
		return fmt.Errorf("%w: stopped at %s after %d hops", ErrRedirectLoop, from, len(res.Redirects))
	}
	res.Redirects = append(res.Redirects, Redirect{From: from, To: to, Cause: cause})
	return nil
}

func (r *Router) target(loc guard.Location) (string, error) {
	if loc.Name == "" {
		return routepath.Normalize(loc.Path), nil
	}
	match, ok := r.table.ByName(loc.Name)
	if !ok {
		return "", fmt.Errorf("%w: route name %s", ErrNotFound, loc.Name)
	}
	return match.Path, nil
}
