// Package workflows connects the services to Temporal, which runs the
// durable confirmation timers.
package workflows

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	"go.temporal.io/sdk/interceptor"
	temporallog "go.temporal.io/sdk/log"

	"github.com/ghuser/exportdesk/pkg/config"
	"github.com/ghuser/exportdesk/pkg/logger"
)

const instrumentationName = "github.com/ghuser/exportdesk/pkg/workflows"

// TemporalClient is a Temporal connection bound to the order task queue.
type TemporalClient struct {
	Client    client.Client
	Namespace string
	TaskQueue string
	log       logger.Logger
}

// NewTemporalClient dials Temporal with tracing and SDK metrics reported
// through the global OpenTelemetry providers.
func NewTemporalClient(ctx context.Context, cfg *config.Config, log logger.Logger) (*TemporalClient, error) {
	tracing, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{
		Tracer: otel.Tracer(instrumentationName),
	})
	if err != nil {
		return nil, fmt.Errorf("temporal: tracing interceptor: %w", err)
	}
	log = log.With("component", "temporal")

	c, err := client.DialContext(ctx, client.Options{
		HostPort:  cfg.TemporalHostPort,
		Namespace: cfg.TemporalNamespace,
		Identity:  cfg.ServiceName,
		Logger:    &temporalLogger{log: log},
		MetricsHandler: temporalotel.NewMetricsHandler(temporalotel.MetricsHandlerOptions{
			Meter: otel.Meter(instrumentationName),
		}),
		Interceptors: []interceptor.ClientInterceptor{tracing},
	})
	if err != nil {
		return nil, fmt.Errorf("temporal: dial %s: %w", cfg.TemporalHostPort, err)
	}
	log.Info("temporal client connected",
		"host_port", cfg.TemporalHostPort, "namespace", cfg.TemporalNamespace, "task_queue", cfg.TemporalTaskQueue)

	return &TemporalClient{
		Client:    c,
		Namespace: cfg.TemporalNamespace,
		TaskQueue: cfg.TemporalTaskQueue,
		log:       log,
	}, nil
}

func (tc *TemporalClient) Close() {
	tc.Client.Close()
	tc.log.Info("temporal client closed")
}

// temporalLogger forwards SDK logs to logger.Logger.
type temporalLogger struct{ log logger.Logger }

var (
	_ temporallog.Logger     = (*temporalLogger)(nil)
	_ temporallog.WithLogger = (*temporalLogger)(nil)
)

func (l *temporalLogger) Debug(msg string, keyvals ...any) { l.log.Debug(msg, keyvals...) }
func (l *temporalLogger) Info(msg string, keyvals ...any)  { l.log.Info(msg, keyvals...) }
func (l *temporalLogger) Warn(msg string, keyvals ...any)  { l.log.Warn(msg, keyvals...) }
func (l *temporalLogger) Error(msg string, keyvals ...any) { l.log.Error(msg, keyvals...) }

func (l *temporalLogger) With(keyvals ...any) temporallog.Logger {
	return &temporalLogger{log: l.log.With(keyvals...)}
}
