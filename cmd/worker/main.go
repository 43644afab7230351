package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.temporal.io/sdk/worker"

	"github.com/ghuser/exportdesk/pkg/app"
	"github.com/ghuser/exportdesk/pkg/cache"
	"github.com/ghuser/exportdesk/pkg/config"
	"github.com/ghuser/exportdesk/pkg/database"
	"github.com/ghuser/exportdesk/pkg/events"
	"github.com/ghuser/exportdesk/pkg/logger"
	"github.com/ghuser/exportdesk/pkg/telemetry"
	"github.com/ghuser/exportdesk/pkg/workflows"
	appsvcs "github.com/ghuser/exportdesk/services/order/application/services"
	orderWorkflows "github.com/ghuser/exportdesk/services/order/application/workflows"
	orderEvents "github.com/ghuser/exportdesk/services/order/domain/events"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)
	log.Debug("configuration loaded", "config", cfg.String())

	ctx := context.Background()

	tel, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer tel.Shutdown(ctx) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer pool.Close()
	log.Info("database pool connected")

	eventBus, err := events.NewEventBus(cfg, log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	redisClient, err := cache.NewRedisClient(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer redisClient.Close() //nolint:errcheck
	log.Info("redis connected")

	var temporalClient *workflows.TemporalClient
	if cfg.TemporalEnabled {
		temporalClient, err = workflows.NewTemporalClient(ctx, cfg, log)
		if err != nil {
			log.Error("failed to initialize temporal client", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer temporalClient.Close()
	}

	appConfig := &app.Application{
		Config:         cfg,
		Db:             pool,
		Logger:         log,
		EventBus:       eventBus,
		Redis:          redisClient,
		TemporalClient: temporalClient,
		Metrics:        tel.Orders,
	}
	svcs := appsvcs.New(appConfig)

	if err := registerSubscribers(appConfig, svcs); err != nil {
		log.Error("failed to register subscribers", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	runCtx, stopRouter := context.WithCancel(ctx)
	defer stopRouter()
	go func() {
		if err := eventBus.Run(runCtx); err != nil {
			log.Error("event router stopped", "error", err)
		}
	}()

	var tw worker.Worker
	if temporalClient != nil {
		tw = temporalClient.NewWorker()
		orderWorkflows.Register(tw, svcs.Order)
		if err := tw.Start(); err != nil {
			log.Error("failed to start temporal worker", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		log.Info("temporal worker started", "task_queue", temporalClient.TaskQueue)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	if tw != nil {
		tw.Stop()
	}
	stopRouter()

	// EventBus.Close() (via defer) waits up to 30s for in-flight handlers.
	log.Info("worker stopped")
}

// registerSubscribers wires all domain event handlers. Retries, panic
// recovery and the poison queue are applied by the bus.
func registerSubscribers(a *app.Application, svcs *appsvcs.Services) error {
	handlers := map[string]events.Handler{
		orderEvents.TopicOrderAllocationSaved: handleAllocationSaved(a, svcs),
		orderEvents.TopicOrderStatusChanged:   handleStatusChanged(a),
	}
	topics := make([]string, 0, len(handlers))
	for topic, handler := range handlers {
		if err := a.EventBus.AddHandler(topic, handler); err != nil {
			return err
		}
		topics = append(topics, topic)
	}
	a.Logger.Info("event subscribers registered", "topics", topics, "poison_topic", events.PoisonTopic)
	return nil
}

// handleAllocationSaved rebuilds the cached shipment documents for the order.
// Handlers must be idempotent: a failing event is delivered up to 3 times.
func handleAllocationSaved(a *app.Application, svcs *appsvcs.Services) events.Handler {
	return func(ctx context.Context, msg *message.Message) error {
		evt, err := events.DecodeJSON[orderEvents.AllocationSavedEvent](msg)
		if err != nil {
			return err
		}
		if err := svcs.Order.RefreshDocuments(ctx, evt.OrgID, evt.Reference); err != nil {
			// Documents are rebuilt on the next read miss; do not fail the handler.
			a.Logger.WarnContext(ctx, "document refresh failed", "error", err)
			telemetry.CaptureError(ctx, err)
			return nil
		}
		a.Logger.InfoContext(ctx, "shipment documents refreshed",
			"cargo_count", evt.CargoCount, "total_kg", evt.TotalKg)
		return nil
	}
}

func handleStatusChanged(a *app.Application) events.Handler {
	return func(ctx context.Context, msg *message.Message) error {
		evt, err := events.DecodeJSON[orderEvents.OrderStatusChangedEvent](msg)
		if err != nil {
			return err
		}
		a.Logger.InfoContext(ctx, "order status changed",
			"from", evt.From, "to", evt.To,
			"shortfall", evt.Shortfall, "confirmed_by", evt.ConfirmedBy)
		return nil
	}
}
