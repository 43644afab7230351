package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"

	"github.com/ghuser/exportdesk/pkg/config"
	"github.com/ghuser/exportdesk/pkg/logger"
)

const sentryFlushTimeout = 2 * time.Second

// SetupSentry enables crash and error reporting. An empty DSN leaves the
// SDK disabled and every capture a no-op.
func SetupSentry(cfg *config.Config) error {
	if cfg.SentryDSN == "" {
		return nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		Release:          fmt.Sprintf("%s@%s", cfg.ServiceName, cfg.ServiceVersion),
		ServerName:       cfg.ServiceName,
		AttachStacktrace: true,
		TracesSampleRate: 0.2,
	})
	if err != nil {
		return fmt.Errorf("sentry init: %w", err)
	}
	return nil
}

func SentryFlush() { sentry.Flush(sentryFlushTimeout) }

// SentryMiddleware gives each request its own hub and reports panics, then
// re-panics for logger.Recovery to answer the request.
func SentryMiddleware() func(http.Handler) http.Handler {
	return sentryhttp.New(sentryhttp.Options{Repanic: true, Timeout: sentryFlushTimeout}).Handle
}

// CaptureError reports err on the request hub (or the global one), tagged
// with the order reference bound in ctx.
func CaptureError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		if ref, ok := logger.OrderRefFromContext(ctx); ok {
			scope.SetTag("order_ref", ref)
		}
		hub.CaptureException(err)
	})
}
