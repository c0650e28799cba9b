package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/louisbranch/libraryadmin/internal/platform/timeouts"
	"github.com/louisbranch/libraryadmin/internal/services/admin/auth"
	"github.com/louisbranch/libraryadmin/internal/services/admin/pages"
	"github.com/louisbranch/libraryadmin/internal/services/admin/router"
	"github.com/louisbranch/libraryadmin/internal/services/admin/session"
	"github.com/louisbranch/libraryadmin/internal/services/admin/static"
	"github.com/louisbranch/libraryadmin/internal/services/admin/transport/httpmux"
	"go.uber.org/zap"
)

// DefaultHTTPAddr is the listen address when none is configured.
const DefaultHTTPAddr = ":8082"

// Config holds the collaborators of the admin server.
type Config struct {
	HTTPAddr string
	// Router resolves navigations. Defaults to a router over the static table.
	Router *router.Router
	// Binder yields the per-request token store. Defaults to cookies.
	Binder session.Binder
	// Authenticator signs operators in. Nil disables sign-in.
	Authenticator auth.Authenticator
	Logger        *zap.Logger
	// Closers are released by Close, in order.
	Closers []io.Closer
}

// Server hosts the admin dashboard over HTTP.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	logger     *zap.Logger
	closers    []io.Closer
}

// NewServer wires the admin handlers.
func NewServer(cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		httpAddr = DefaultHTTPAddr
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	nav := cfg.Router
	if nav == nil {
		nav = router.New(nil, router.WithLogger(logger))
	}
	binder := cfg.Binder
	if binder == nil {
		binder = session.CookieBinder{}
	}

	renderer := pages.New(nav.Table(), logger)
	rootMux := http.NewServeMux()
	httpmux.MountStatic(rootMux, static.FS())
	httpmux.MountSessionRoutes(rootMux,
		auth.LoginHandler(cfg.Authenticator, binder, renderer, logger),
		auth.LogoutHandler(binder, logger),
	)
	httpmux.MountNavigation(rootMux, nav.Handler(binder, renderer))

	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           rootMux,
			ReadHeaderTimeout: timeouts.ReadHeader,
			IdleTimeout:       timeouts.Idle,
		},
		logger:  logger,
		closers: cfg.Closers,
	}, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe runs the HTTP server until the context ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("admin server is nil")
	}
	listener, err := net.Listen("tcp", s.httpAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.httpAddr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve runs the HTTP server on listener until the context ends, then shuts
// down gracefully.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	if s == nil {
		return errors.New("admin server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	serveErr := make(chan error, 1)
	s.logger.Info("admin listening", zap.String("addr", listener.Addr().String()))
	go func() {
		serveErr <- s.httpServer.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		<-serveErr
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases the configured closers.
func (s *Server) Close() {
	if s == nil {
		return
	}
	for _, closer := range s.closers {
		if closer == nil {
			continue
		}
		if err := closer.Close(); err != nil {
			s.logger.Warn("close admin resource", zap.Error(err))
		}
	}
	s.closers = nil
}
