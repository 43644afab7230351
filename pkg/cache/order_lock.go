package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/google/uuid"
)

const orderLockTTL = 30 * time.Second

// ErrLockNotObtained is returned when another request holds the order lock.
var ErrLockNotObtained = errors.New("order lock held by another request")

// OrderLocker serialises writes to one order across API instances.
// Key format: "exportdesk:order-lock:{orgID}:{reference}"
type OrderLocker struct {
	locker *redislock.Client
	ttl    time.Duration
}

// NewOrderLocker creates an OrderLocker on top of the given RedisClient.
func NewOrderLocker(r *RedisClient) *OrderLocker {
	return &OrderLocker{locker: redislock.New(r.Client()), ttl: orderLockTTL}
}

// Acquire takes the order lock without waiting. The returned release func
// must be called once the write has finished.
func (l *OrderLocker) Acquire(ctx context.Context, orgID uuid.UUID, reference string) (func(), error) {
	lock, err := l.locker.Obtain(ctx, orderKey(kindOrderLock, orgID, reference), l.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrLockNotObtained
	}
	if err != nil {
		return nil, fmt.Errorf("obtain order lock: %w", err)
	}
	return func() {
		_ = lock.Release(context.WithoutCancel(ctx))
	}, nil
}
