// Package admin implements the library admin command line.
package admin

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	platformcmd "github.com/louisbranch/libraryadmin/internal/platform/cmd"
	"github.com/louisbranch/libraryadmin/internal/platform/logging"
	"github.com/louisbranch/libraryadmin/internal/platform/timeouts"
	"github.com/louisbranch/libraryadmin/internal/services/admin"
	"github.com/louisbranch/libraryadmin/internal/services/admin/auth"
	"github.com/louisbranch/libraryadmin/internal/services/admin/router"
	"github.com/louisbranch/libraryadmin/internal/services/admin/session"
	"github.com/louisbranch/libraryadmin/internal/services/admin/storage/memory"
	"github.com/louisbranch/libraryadmin/internal/services/admin/storage/redis"
	"github.com/louisbranch/libraryadmin/internal/services/admin/storage/sqlite"
	"go.uber.org/zap"
)

// Run starts the admin server and blocks until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	options := platformcmd.RunOptions{OTelEndpoint: cfg.OTelEndpoint, Logger: logger}
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceAdmin, options, func(ctx context.Context) error {
		server, err := newServer(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve admin: %w", err)
		}
		return nil
	})
}

func newIssuer(cfg Config) (*auth.Issuer, error) {
	issuer, err := auth.NewIssuer(auth.Config{
		Username:     cfg.OperatorUsername,
		PasswordHash: cfg.OperatorPasswordHash,
		Secret:       cfg.TokenSecret,
		TTL:          cfg.TokenTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("init operator auth: %w", err)
	}
	return issuer, nil
}

func newServer(ctx context.Context, cfg Config, logger *zap.Logger) (*admin.Server, error) {
	issuer, err := newIssuer(cfg)
	if err != nil {
		return nil, err
	}
	if !issuer.Enabled() {
		logger.Warn("operator sign-in is disabled; set an operator username and password hash")
	}

	binder, closer, err := openBinder(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("session backend ready", zap.String("backend", cfg.SessionBackend))
	var closers []io.Closer
	if closer != nil {
		closers = append(closers, closer)
	}

	server, err := admin.NewServer(admin.Config{
		HTTPAddr:      cfg.HTTPAddr,
		Router:        router.New(nil, router.WithLogger(logger)),
		Binder:        binder,
		Authenticator: issuer,
		Logger:        logger,
		Closers:       closers,
	})
	if err != nil {
		for _, c := range closers {
			_ = c.Close()
		}
		return nil, fmt.Errorf("init admin server: %w", err)
	}
	return server, nil
}

// openBinder returns the session binder for the configured backend and the
// resource to release on shutdown, if any.
func openBinder(ctx context.Context, cfg Config) (session.Binder, io.Closer, error) {
	switch cfg.SessionBackend {
	case "", BackendCookie:
		return session.CookieBinder{Secure: cfg.SecureCookies}, nil, nil
	case BackendMemory:
		store := memory.New()
		return session.StoreBinder{Store: store, Secure: cfg.SecureCookies}, store, nil
	case BackendSQLite:
		if dir := filepath.Dir(filepath.Clean(cfg.DBPath)); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("create storage dir: %w", err)
			}
		}
		store, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return session.StoreBinder{Store: store, Secure: cfg.SecureCookies}, store, nil
	case BackendRedis:
		dialCtx, cancel := context.WithTimeout(ctx, timeouts.BackendDial)
		defer cancel()
		store, err := redis.Dial(dialCtx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, redis.Options{TTL: cfg.SessionTTL})
		if err != nil {
			return nil, nil, fmt.Errorf("open redis store: %w", err)
		}
		return session.StoreBinder{Store: store, Secure: cfg.SecureCookies}, store, nil
	default:
		return nil, nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}
}
