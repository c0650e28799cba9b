package router

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/louisbranch/libraryadmin/internal/services/admin/routes"
	"github.com/louisbranch/libraryadmin/internal/services/admin/session"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// PageRenderer writes the page for an allowed navigation.
type PageRenderer interface {
	RenderPage(w http.ResponseWriter, r *http.Request, match routes.Match)
}

// PageRendererFunc adapts a function to PageRenderer.
type PageRendererFunc func(w http.ResponseWriter, r *http.Request, match routes.Match)

// RenderPage calls f(w, r, match).
func (f PageRendererFunc) RenderPage(w http.ResponseWriter, r *http.Request, match routes.Match) {
	f(w, r, match)
}

// Handler serves history-mode navigations. Unknown paths get 404, redirected
// navigations get 302 Found to the landing path, and allowed navigations are
// rendered by pages.
func (r *Router) Handler(binder session.Binder, pages PageRenderer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet && req.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		if redirectTrailingSlash(w, req) {
			return
		}

		ctx, span := r.tracer.Start(req.Context(), "admin.navigate",
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attribute.String("admin.path", req.URL.Path)),
		)
		defer span.End()

		var tokens session.TokenReader
		if binder != nil {
			tokens = binder.Bind(w, req)
		}
		from := r.referrer(req)

		res, err := r.Navigate(ctx, tokens, req.URL.Path, from)
		if err != nil {
			span.RecordError(err)
			switch {
			case errors.Is(err, ErrNotFound):
				span.SetAttributes(attribute.Int("http.status_code", http.StatusNotFound))
				http.NotFound(w, req)
			default:
				span.SetStatus(codes.Error, err.Error())
				r.logger.Error("navigate", zap.String("path", req.URL.Path), zap.Error(err))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
			return
		}

		span.SetAttributes(
			attribute.String("admin.route", res.Match.Name),
			attribute.String("admin.component", string(res.Match.Component)),
			attribute.Int("admin.redirects", len(res.Redirects)),
		)
		if res.Redirected() {
			r.logger.Debug("navigation redirected",
				zap.String("path", req.URL.Path),
				zap.String("location", res.Match.Path),
			)
			http.Redirect(w, req, res.Match.Path, http.StatusFound)
			return
		}

		r.logger.Debug("navigation allowed", zap.String("path", req.URL.Path), zap.String("route", res.Match.Name))
		if pages == nil {
			http.Error(w, http.StatusText(http.StatusNotImplemented), http.StatusNotImplemented)
			return
		}
		pages.RenderPage(w, req.WithContext(ctx), res.Match)
	})
}

// referrer resolves the same-origin Referer into the route being left.
func (r *Router) referrer(req *http.Request) routes.Match {
	raw := strings.TrimSpace(req.Referer())
	if raw == "" {
		return routes.Match{}
	}
	ref, err := url.Parse(raw)
	if err != nil || (ref.Host != "" && ref.Host != req.Host) {
		return routes.Match{}
	}
	match, ok := r.table.Match(ref.Path)
	if !ok {
		return routes.Match{}
	}
	return match
}

// redirectTrailingSlash canonicalizes paths by stripping trailing "/"
// characters. It reports whether a redirect was written.
func redirectTrailingSlash(w http.ResponseWriter, r *http.Request) bool {
	original := r.URL.Path
	canonical := strings.TrimRight(original, "/")
	if canonical == "" {
		canonical = "/"
	}
	if canonical == original {
		return false
	}
	target := canonical
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusMovedPermanently)
	return true
}
