package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/exportdesk/services/order/domain/models"
)

const (
	// ItemDefaultsTTL bounds how long last-used shipment metadata survives.
	ItemDefaultsTTL = 30 * 24 * time.Hour
)

// ItemDefaultsStore keeps the last-used shipment metadata per order reference.
// Values are stored as a Redis hash, one field per metadata attribute.
// Key format: "exportdesk:item-defaults:{orgID}:{reference}"
type ItemDefaultsStore struct {
	client *RedisClient
	ttl    time.Duration
}

// NewItemDefaultsStore creates an ItemDefaultsStore backed by the given RedisClient.
func NewItemDefaultsStore(r *RedisClient) *ItemDefaultsStore {
	return &ItemDefaultsStore{client: r, ttl: ItemDefaultsTTL}
}

// Get returns the stored metadata. ok is false when nothing has been stored yet.
func (s *ItemDefaultsStore) Get(ctx context.Context, orgID uuid.UUID, reference string) (models.ShipmentMetadata, bool, error) {
	vals, err := s.client.Client().HGetAll(ctx, s.key(orgID, reference)).Result()
	if err != nil {
		return models.ShipmentMetadata{}, false, fmt.Errorf("defaults get: %w", err)
	}
	if len(vals) == 0 {
		return models.ShipmentMetadata{}, false, nil
	}
	return models.ShipmentMetadata{
		ContainerNumber: vals["container_number"],
		SealNumber:      vals["seal_number"],
		BatchNumber:     vals["batch_number"],
		ProductionDate:  vals["production_date"],
		ExpiryDate:      vals["expiry_date"],
	}, true, nil
}

// Set replaces the stored metadata and refreshes the TTL in one pipeline.
func (s *ItemDefaultsStore) Set(ctx context.Context, orgID uuid.UUID, reference string, meta models.ShipmentMetadata) error {
	key := s.key(orgID, reference)
	pipe := s.client.Client().TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key,
		"container_number", meta.ContainerNumber,
		"seal_number", meta.SealNumber,
		"batch_number", meta.BatchNumber,
		"production_date", meta.ProductionDate,
		"expiry_date", meta.ExpiryDate,
	)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("defaults set: %w", err)
	}
	return nil
}

func (s *ItemDefaultsStore) key(orgID uuid.UUID, reference string) string {
	return orderKey(kindItemDefaults, orgID, reference)
}
