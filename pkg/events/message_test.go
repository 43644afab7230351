package events

import (
	"context"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"

	"github.com/ghuser/exportdesk/pkg/logger"
)

type samplePayload struct {
	Reference  string `json:"reference"`
	CargoCount int    `json:"cargo_count"`
}

func TestNewJSONMessage_RoundTrip(t *testing.T) {
	msg, err := NewJSONMessage(context.Background(), "order.allocation_saved", samplePayload{Reference: "CMD-9", CargoCount: 2})
	if err != nil {
		t.Fatalf("NewJSONMessage: %v", err)
	}
	if msg.UUID == "" {
		t.Fatal("expected a message UUID")
	}
	if EventType(msg) != "order.allocation_saved" {
		t.Errorf("event type: got %q", EventType(msg))
	}

	got, err := DecodeJSON[samplePayload](msg)
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if got.Reference != "CMD-9" || got.CargoCount != 2 {
		t.Errorf("unexpected payload: %+v", got)
	}
}

func TestNewJSONMessage_InjectsTraceContext(t *testing.T) {
	tp := setupTracer()
	defer tp.Shutdown(context.Background()) //nolint:errcheck

	ctx, span := otel.Tracer("test").Start(context.Background(), "save")
	defer span.End()

	msg, err := NewJSONMessage(ctx, "order.created", samplePayload{})
	if err != nil {
		t.Fatalf("NewJSONMessage: %v", err)
	}
	if msg.Metadata.Get("traceparent") == "" {
		t.Error("expected traceparent metadata")
	}
}

func TestDecodeJSON_InvalidPayload(t *testing.T) {
	msg := message.NewMessage("id", []byte("{not json"))
	if _, err := DecodeJSON[samplePayload](msg); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestNewJSONMessage_UnmarshalablePayload(t *testing.T) {
	if _, err := NewJSONMessage(context.Background(), "x", make(chan int)); err == nil {
		t.Fatal("expected marshal error for channel payload")
	}
}

func TestNewJSONMessage_CarriesOrderRef(t *testing.T) {
	ctx := logger.WithOrderRef(context.Background(), "CMD-7")
	msg, err := NewJSONMessage(ctx, "order.status_changed", samplePayload{})
	if err != nil {
		t.Fatalf("NewJSONMessage: %v", err)
	}
	if got := msg.Metadata.Get("order_ref"); got != "CMD-7" {
		t.Errorf("order_ref metadata: got %q", got)
	}
}
