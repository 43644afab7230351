package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	domainsvcs "github.com/ghuser/exportdesk/services/order/domain/services"
)

const (
	// DocumentCacheTTL is the time-to-live for cached shipment documents.
	DocumentCacheTTL = 24 * time.Hour
)

// ErrCacheMiss is returned when a key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// DocumentCache is the shipment-document read model, rebuilt by the worker
// whenever an allocation is saved.
// Key format: "exportdesk:documents:{orgID}:{reference}"
type DocumentCache struct {
	client *RedisClient
}

// NewDocumentCache creates a DocumentCache backed by the given RedisClient.
func NewDocumentCache(r *RedisClient) *DocumentCache {
	return &DocumentCache{client: r}
}

// Get returns the cached documents or ErrCacheMiss.
func (c *DocumentCache) Get(ctx context.Context, orgID uuid.UUID, reference string) ([]domainsvcs.CargoDocument, error) {
	raw, err := c.client.Client().Get(ctx, c.key(orgID, reference)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("documents get: %w", err)
	}
	var docs []domainsvcs.CargoDocument
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("documents decode: %w", err)
	}
	return docs, nil
}

// Set stores docs with DocumentCacheTTL.
func (c *DocumentCache) Set(ctx context.Context, orgID uuid.UUID, reference string, docs []domainsvcs.CargoDocument) error {
	raw, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("documents encode: %w", err)
	}
	if err := c.client.Client().Set(ctx, c.key(orgID, reference), raw, DocumentCacheTTL).Err(); err != nil {
		return fmt.Errorf("documents set: %w", err)
	}
	return nil
}

// Delete drops the cached documents for an order.
func (c *DocumentCache) Delete(ctx context.Context, orgID uuid.UUID, reference string) error {
	if err := c.client.Client().Del(ctx, c.key(orgID, reference)).Err(); err != nil {
		return fmt.Errorf("documents delete: %w", err)
	}
	return nil
}

func (c *DocumentCache) key(orgID uuid.UUID, reference string) string {
	return orderKey(kindDocuments, orgID, reference)
}
