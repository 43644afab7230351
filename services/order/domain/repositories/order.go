package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/exportdesk/services/order/domain/models"
)

// QueryOpts contains pagination parameters for list queries.
type QueryOpts struct {
	Limit  int // Maximum number of records to return
	Offset int // Number of records to skip
}

// OrderRepository is the persistence interface for the Order aggregate.
// The domain layer owns this interface; infrastructure implements it.
type OrderRepository interface {
	// Create persists a new Order with its lines and cargo.
	Create(ctx context.Context, order *models.Order) error

	// GetByReference loads an order with lines and cargo. Returns ErrOrderNotFound if missing.
	GetByReference(ctx context.Context, orgID uuid.UUID, reference string) (*models.Order, error)

	// FindByOrgID retrieves a page of orders (without cargo) and the total count.
	FindByOrgID(ctx context.Context, orgID uuid.UUID, opts QueryOpts) ([]*models.Order, int, error)

	// SaveLines replaces the order lines and header fields, including status.
	SaveLines(ctx context.Context, order *models.Order) error

	// SaveAllocation replaces every cargo and allocated item of the order in one transaction.
	SaveAllocation(ctx context.Context, order *models.Order) error

	// UpdateStatus persists a status transition from `from` to order.Status.
	// Implementations must not overwrite a status that changed concurrently.
	UpdateStatus(ctx context.Context, order *models.Order, from models.OrderStatus) error
}

// StockLedger is the read-only port to the external inventory backend.
type StockLedger interface {
	// Snapshot returns availability for the given keys. Keys the backend does
	// not know are absent from the snapshot (treated as zero available).
	Snapshot(ctx context.Context, orgID uuid.UUID, keys []models.LineKey) (models.StockSnapshot, error)
}

// ItemDefaultsStore keeps the last-used shipment metadata per order reference.
type ItemDefaultsStore interface {
	Get(ctx context.Context, orgID uuid.UUID, reference string) (models.ShipmentMetadata, bool, error)
	Set(ctx context.Context, orgID uuid.UUID, reference string, meta models.ShipmentMetadata) error
}
