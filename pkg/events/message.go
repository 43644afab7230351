package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/ghuser/exportdesk/pkg/logger"
)

const (
	// metadataEventType names the payload type so consumers can skip unknown shapes.
	metadataEventType = "event_type"
	metadataOrderRef  = "order_ref"
)

// NewJSONMessage marshals payload into a message with a fresh UUID.
// eventType is stored in metadata under "event_type". The trace of ctx and
// the order reference bound with logger.WithOrderRef travel in metadata too.
func NewJSONMessage(ctx context.Context, eventType string, payload any) (*message.Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("events: marshal %s: %w", eventType, err)
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set(metadataEventType, eventType)
	if ref, ok := logger.OrderRefFromContext(ctx); ok {
		msg.Metadata.Set(metadataOrderRef, ref)
	}

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for k, v := range carrier {
		msg.Metadata.Set(k, v)
	}
	return msg, nil
}

// DecodeJSON unmarshals a message payload into T.
func DecodeJSON[T any](msg *message.Message) (T, error) {
	var v T
	if err := json.Unmarshal(msg.Payload, &v); err != nil {
		return v, fmt.Errorf("events: decode message %s: %w", msg.UUID, err)
	}
	return v, nil
}

// EventType returns the payload type recorded by NewJSONMessage.
func EventType(msg *message.Message) string {
	return msg.Metadata.Get(metadataEventType)
}

// PublishTx publishes payload to topic inside tx, so the event is only
// visible once the surrounding business transaction commits.
func (q *EventBus) PublishTx(ctx context.Context, tx *sql.Tx, topic string, payload any) error {
	pub, err := q.NewTxPublisher(tx)
	if err != nil {
		return err
	}
	msg, err := NewJSONMessage(ctx, topic, payload)
	if err != nil {
		return err
	}
	if err := pub.Publish(topic, msg); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish to %s in tx: %w", topic, err)
	}
	return nil
}

// restoreContext gives the handler a context carrying the publisher's trace
// and order reference taken from message metadata.
func restoreContext(h message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		ctx := otel.GetTextMapPropagator().Extract(msg.Context(), propagation.MapCarrier(msg.Metadata))
		if ref := msg.Metadata.Get(metadataOrderRef); ref != "" {
			ctx = logger.WithOrderRef(ctx, ref)
		}
		msg.SetContext(ctx)
		return h(msg)
	}
}
