// Package events carries order domain events over Postgres using Watermill's
// SQL transport.
//
// Publishing happens inside the repository transaction (PublishTx), so an
// event exists only if the order write committed. In the API process the
// events go through the forwarder queue and a background forwarder moves
// them to their real topic.
//
// Consuming happens in the worker through a Watermill router. Every handler
// is wrapped, outermost first, by: poison queue, retry (3 attempts, 1s then
// 2s apart), panic recovery and trace/order_ref restoration. A message that
// still fails after the retries lands on PoisonTopic and is acked.
//
// All worker instances share one consumer group, so each event is handled once.
package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/ghuser/exportdesk/pkg/config"
	"github.com/ghuser/exportdesk/pkg/logger"
)

const (
	shutdownTimeout = 30 * time.Second
	forwarderTopic  = "_forwarder_queue"

	// PoisonTopic receives order events whose handler kept failing.
	PoisonTopic = "order.events_poison"
)

// Handler processes one event. The context carries the publisher's trace and
// the order reference the event was published for.
type Handler func(ctx context.Context, msg *message.Message) error

// EventBus publishes order events transactionally and routes them to handlers.
type EventBus struct {
	db         *sql.DB
	publisher  message.Publisher // plain SQL publisher; poison queue and forwarder output
	subscriber message.Subscriber
	router     *message.Router // created on the first AddHandler
	fwd        *forwarder.Forwarder
	retry      middleware.Retry
	wlog       watermill.LoggerAdapter
	log        logger.Logger

	useForwarder bool
}

// NewEventBus returns a bus for the worker: it publishes straight to topics
// and consumes with the "<service>-consumer" group.
func NewEventBus(cfg *config.Config, log logger.Logger) (*EventBus, error) {
	return open(cfg, log, false)
}

// NewEventBusWithForwarder returns a bus for the API process. PublishTx
// envelopes events onto the forwarder queue; call StartForwarder to deliver them.
func NewEventBusWithForwarder(cfg *config.Config, log logger.Logger) (*EventBus, error) {
	return open(cfg, log, true)
}

func open(cfg *config.Config, log logger.Logger, useForwarder bool) (*EventBus, error) {
	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("events: open db: %w", err)
	}
	wlog := &slogAdapter{log: log}

	pub, err := newSQLPublisher(db, true, wlog)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	sub, err := newSQLSubscriber(db, cfg.ServiceName+"-consumer", wlog)
	if err != nil {
		_ = pub.Close()
		_ = db.Close()
		return nil, err
	}

	q := newBus(pub, sub, log)
	q.db = db
	q.useForwarder = useForwarder
	return q, nil
}

// newBus wires a bus over any Watermill transport.
func newBus(pub message.Publisher, sub message.Subscriber, log logger.Logger) *EventBus {
	wlog := &slogAdapter{log: log}
	return &EventBus{
		publisher:  pub,
		subscriber: sub,
		log:        log,
		wlog:       wlog,
		retry: middleware.Retry{
			MaxRetries:      2,
			InitialInterval: time.Second,
			Multiplier:      2,
			Logger:          wlog,
		},
	}
}

func newSQLPublisher(db *sql.DB, initSchema bool, wlog watermill.LoggerAdapter) (*watermillsql.Publisher, error) {
	pub, err := watermillsql.NewPublisher(db, publisherConfig(initSchema), wlog)
	if err != nil {
		return nil, fmt.Errorf("events: new publisher: %w", err)
	}
	return pub, nil
}

func publisherConfig(initSchema bool) watermillsql.PublisherConfig {
	return watermillsql.PublisherConfig{
		SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
		AutoInitializeSchema: initSchema,
	}
}

func newSQLSubscriber(db *sql.DB, group string, wlog watermill.LoggerAdapter) (*watermillsql.Subscriber, error) {
	sub, err := watermillsql.NewSubscriber(db, watermillsql.SubscriberConfig{
		SchemaAdapter:    watermillsql.DefaultPostgreSQLSchema{},
		OffsetsAdapter:   watermillsql.DefaultPostgreSQLOffsetsAdapter{},
		InitializeSchema: true,
		ConsumerGroup:    group,
	}, wlog)
	if err != nil {
		return nil, fmt.Errorf("events: new subscriber %s: %w", group, err)
	}
	return sub, nil
}

// StartForwarder runs the forwarder that drains the outbox queue into the
// real topics. It returns once the forwarder is running.
func (q *EventBus) StartForwarder(ctx context.Context) error {
	switch {
	case !q.useForwarder:
		return errors.New("events: StartForwarder on a bus without forwarder")
	case q.fwd != nil:
		return errors.New("events: forwarder already started")
	}

	fwdSub, err := newSQLSubscriber(q.db, "forwarder-consumer", q.wlog)
	if err != nil {
		return err
	}
	fwd, err := forwarder.NewForwarder(fwdSub, q.publisher, q.wlog, forwarder.Config{
		ForwarderTopic: forwarderTopic,
	})
	if err != nil {
		_ = fwdSub.Close()
		return fmt.Errorf("events: create forwarder: %w", err)
	}
	q.fwd = fwd

	go func() {
		if err := fwd.Run(ctx); err != nil {
			q.log.ErrorContext(ctx, "events: forwarder stopped", "error", err)
		}
	}()

	select {
	case <-fwd.Running():
		q.log.InfoContext(ctx, "events: forwarder started")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("events: waiting for forwarder: %w", ctx.Err())
	}
}

// NewTxPublisher returns a publisher whose writes belong to tx. On a
// forwarder bus the messages are enveloped for the forwarder queue.
func (q *EventBus) NewTxPublisher(tx *sql.Tx) (message.Publisher, error) {
	// Tables exist once the bus has started, so the tx publisher skips schema setup.
	pub, err := watermillsql.NewPublisher(tx, publisherConfig(false), q.wlog)
	if err != nil {
		return nil, fmt.Errorf("events: new tx publisher: %w", err)
	}
	if q.useForwarder {
		return forwarder.NewPublisher(pub, forwarder.PublisherConfig{ForwarderTopic: forwarderTopic}), nil
	}
	return pub, nil
}

// AddHandler subscribes h to topic. Call before Run.
func (q *EventBus) AddHandler(topic string, h Handler) error {
	if q.router == nil {
		if err := q.newRouter(); err != nil {
			return err
		}
	}
	q.router.AddNoPublisherHandler(topic+"_handler", topic, q.subscriber, func(msg *message.Message) error {
		return h(msg.Context(), msg)
	})
	return nil
}

func (q *EventBus) newRouter() error {
	r, err := message.NewRouter(message.RouterConfig{CloseTimeout: shutdownTimeout}, q.wlog)
	if err != nil {
		return fmt.Errorf("events: new router: %w", err)
	}
	poison, err := middleware.PoisonQueue(q.publisher, PoisonTopic)
	if err != nil {
		return fmt.Errorf("events: poison queue: %w", err)
	}
	r.AddMiddleware(poison, q.retry.Middleware, middleware.Recoverer, restoreContext)
	q.router = r
	return nil
}

// Run consumes until ctx is cancelled or Close is called.
func (q *EventBus) Run(ctx context.Context) error {
	if q.router == nil {
		return errors.New("events: Run without handlers")
	}
	return q.router.Run(ctx)
}

// Running is closed once every handler is subscribed.
func (q *EventBus) Running() <-chan struct{} {
	if q.router == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return q.router.Running()
}

// Ping checks the event store connection.
func (q *EventBus) Ping(ctx context.Context) error {
	if q.db == nil {
		return nil
	}
	if err := q.db.PingContext(ctx); err != nil {
		return fmt.Errorf("events: ping db: %w", err)
	}
	return nil
}

// Close stops the router (waiting up to 30s for in-flight handlers), the
// forwarder and the transport, then closes the database handle.
func (q *EventBus) Close() error {
	var errs []error
	if q.router != nil {
		errs = append(errs, q.router.Close())
	}
	if q.fwd != nil {
		errs = append(errs, q.fwd.Close())
	}
	errs = append(errs, q.subscriber.Close(), q.publisher.Close())
	if q.db != nil {
		errs = append(errs, q.db.Close())
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("events: close: %w", err)
	}
	return nil
}

// slogAdapter bridges logger.Logger to watermill.LoggerAdapter.
type slogAdapter struct{ log logger.Logger }

func (a *slogAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.log.Error(msg, append(fieldsToArgs(fields), "error", err)...)
}
func (a *slogAdapter) Info(msg string, fields watermill.LogFields) {
	a.log.Info(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) Debug(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) Trace(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &slogAdapter{log: a.log.With(fieldsToArgs(fields)...)}
}

func fieldsToArgs(fields watermill.LogFields) []any {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return args
}
