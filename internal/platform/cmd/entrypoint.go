// Package cmd holds startup helpers shared by command entry points.
package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/libraryadmin/internal/platform/otel"
	"go.uber.org/zap"
)

const defaultOTelShutdownTimeout = 5 * time.Second

// ServiceAdmin names the admin dashboard in telemetry.
const ServiceAdmin = "library-admin"

// RunOptions controls shared entrypoint behavior for service commands.
type RunOptions struct {
	// OTelEndpoint is the OTLP/HTTP collector URL. Empty disables tracing.
	OTelEndpoint string
	// ShutdownTimeout sets the timeout used when stopping telemetry.
	ShutdownTimeout time.Duration
	Logger          *zap.Logger
}

// RunWithTelemetry configures tracing and executes a service run loop.
func RunWithTelemetry(ctx context.Context, service string, options RunOptions, run func(context.Context) error) error {
	service = strings.TrimSpace(service)
	if service == "" {
		return fmt.Errorf("service name is required")
	}
	if run == nil {
		return fmt.Errorf("run function is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	shutdown, err := otel.Setup(ctx, service, options.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		shutdownTimeout := options.ShutdownTimeout
		if shutdownTimeout <= 0 {
			shutdownTimeout = defaultOTelShutdownTimeout
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Warn("otel shutdown", zap.String("service", service), zap.Error(err))
		}
	}()
	return run(ctx)
}
