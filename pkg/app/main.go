package app

import (
	"github.com/gorilla/sessions"

	"github.com/ghuser/exportdesk/pkg/cache"
	"github.com/ghuser/exportdesk/pkg/config"
	"github.com/ghuser/exportdesk/pkg/database"
	"github.com/ghuser/exportdesk/pkg/events"
	"github.com/ghuser/exportdesk/pkg/logger"
	"github.com/ghuser/exportdesk/pkg/telemetry"
	"github.com/ghuser/exportdesk/pkg/workflows"
)

// Application holds shared infrastructure dependencies for all services.
// Pass to all service route registration calls during server initialization.
//
// Logging: app.Logger is backed by a trace-aware handler. Use slog's context
// methods and trace_id, span_id, request_id and order_ref are injected automatically:
//
//	ctx = logger.WithOrderRef(ctx, order.Reference)
//	app.Logger.InfoContext(ctx, "allocation saved", "cargo_count", n)
//
// Use app.Logger.Info/Error (no context) only for startup and shutdown messages.
type Application struct {
	Config         *config.Config
	Db             *database.Database
	Logger         logger.Logger
	EventBus       *events.EventBus
	Redis          *cache.RedisClient        // nil when Redis is not configured
	TemporalClient *workflows.TemporalClient // nil when Temporal is disabled
	Metrics        *telemetry.OrderMetrics
	SessionStore   sessions.Store // Redis-backed session store; nil in worker process
}
