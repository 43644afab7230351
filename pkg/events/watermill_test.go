package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/ghuser/exportdesk/pkg/logger"
)

const testTopic = "order.allocation_saved"

func setupTracer() *sdktrace.TracerProvider {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tp
}

// newTestBus returns a bus over an in-memory transport with fast retries.
func newTestBus(t *testing.T) (*EventBus, *gochannel.GoChannel) {
	t.Helper()
	pubsub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 16}, watermill.NopLogger{})
	bus := newBus(pubsub, pubsub, logger.Discard())
	bus.retry.InitialInterval = time.Millisecond
	t.Cleanup(func() { _ = bus.Close() })
	return bus, pubsub
}

func runBus(t *testing.T, bus *EventBus) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = bus.Run(ctx) }()
	select {
	case <-bus.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("router did not start")
	}
}

func publish(t *testing.T, ctx context.Context, pub message.Publisher) *message.Message {
	t.Helper()
	msg, err := NewJSONMessage(ctx, testTopic, samplePayload{Reference: "CMD-1", CargoCount: 1})
	if err != nil {
		t.Fatalf("NewJSONMessage: %v", err)
	}
	if err := pub.Publish(testTopic, msg); err != nil {
		t.Fatalf("publish: %v", err)
	}
	return msg
}

func TestHandler_RetriedUntilSuccessWithRestoredContext(t *testing.T) {
	tp := setupTracer()
	defer tp.Shutdown(context.Background()) //nolint:errcheck

	bus, pubsub := newTestBus(t)
	var calls atomic.Int32
	seen := make(chan context.Context, 1)
	if err := bus.AddHandler(testTopic, func(ctx context.Context, _ *message.Message) error {
		if calls.Add(1) < 3 {
			return errors.New("read model unavailable")
		}
		seen <- ctx
		return nil
	}); err != nil {
		t.Fatalf("AddHandler: %v", err)
	}
	runBus(t, bus)

	ctx, span := otel.Tracer("test").Start(context.Background(), "save allocation")
	defer span.End()
	publish(t, logger.WithOrderRef(ctx, "CMD-1"), pubsub)

	select {
	case got := <-seen:
		if calls.Load() != 3 {
			t.Errorf("expected 3 attempts, got %d", calls.Load())
		}
		if ref, _ := logger.OrderRefFromContext(got); ref != "CMD-1" {
			t.Errorf("order_ref: got %q", ref)
		}
		if trace.SpanContextFromContext(got).TraceID() != span.SpanContext().TraceID() {
			t.Error("handler context lost the publisher trace")
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("handler never succeeded, attempts=%d", calls.Load())
	}
}

func TestHandler_PoisonedAfterRetries(t *testing.T) {
	bus, pubsub := newTestBus(t)
	poisoned, err := pubsub.Subscribe(context.Background(), PoisonTopic)
	if err != nil {
		t.Fatalf("subscribe poison: %v", err)
	}

	var calls atomic.Int32
	if err := bus.AddHandler(testTopic, func(context.Context, *message.Message) error {
		calls.Add(1)
		return errors.New("always failing")
	}); err != nil {
		t.Fatalf("AddHandler: %v", err)
	}
	runBus(t, bus)

	sent := publish(t, context.Background(), pubsub)

	select {
	case msg := <-poisoned:
		msg.Ack()
		if msg.UUID != sent.UUID {
			t.Errorf("poisoned message %s, want %s", msg.UUID, sent.UUID)
		}
		if calls.Load() != 3 {
			t.Errorf("expected 3 attempts before poisoning, got %d", calls.Load())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("message never reached the poison topic")
	}
}

func TestHandler_PanicIsRetried(t *testing.T) {
	bus, pubsub := newTestBus(t)
	var calls atomic.Int32
	done := make(chan struct{})
	if err := bus.AddHandler(testTopic, func(context.Context, *message.Message) error {
		if calls.Add(1) == 1 {
			panic("nil cargo")
		}
		close(done)
		return nil
	}); err != nil {
		t.Fatalf("AddHandler: %v", err)
	}
	runBus(t, bus)

	publish(t, context.Background(), pubsub)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not retried after panic")
	}
}

func TestRun_WithoutHandlers(t *testing.T) {
	bus, _ := newTestBus(t)
	if err := bus.Run(context.Background()); err == nil {
		t.Fatal("expected error when no handler is registered")
	}
}

func TestStartForwarder_NonForwarderMode(t *testing.T) {
	bus, _ := newTestBus(t)
	if err := bus.StartForwarder(context.Background()); err == nil {
		t.Fatal("expected error for non-forwarder EventBus")
	}
}
