package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgcache "github.com/ghuser/exportdesk/pkg/cache"
	"github.com/ghuser/exportdesk/pkg/logger"
	orderdomain "github.com/ghuser/exportdesk/services/order/domain"
	"github.com/ghuser/exportdesk/services/order/domain/models"
	domainsvcs "github.com/ghuser/exportdesk/services/order/domain/services"
)

// EditOp names one allocation engine operation.
type EditOp string

const (
	EditSetQuantity    EditOp = "set_quantity"
	EditAddItem        EditOp = "add_item"
	EditRemoveItem     EditOp = "remove_item"
	EditSetLine        EditOp = "set_line"
	EditUpdateMetadata EditOp = "update_metadata"
	EditAddCargo       EditOp = "add_cargo"
	EditRemoveCargo    EditOp = "remove_cargo"
)

// AllocationEdit is one staged change. Which fields are read depends on Op.
// Metadata nil on add_item means "use the stored item defaults".
type AllocationEdit struct {
	Op         EditOp
	CargoIndex int
	ItemIndex  int
	QuantityKg decimal.Decimal
	Key        models.LineKey
	Metadata   *models.ShipmentMetadata
	Cargo      models.Cargo
}

// AllocationView is a staged allocation snapshot with its derived figures.
// CargoIndex and ItemIndex point at the row an add operation created, or are -1.
type AllocationView struct {
	Order      *models.Order
	Cargos     []models.Cargo
	Capacities map[models.LineKey]domainsvcs.Capacity
	Summaries  []domainsvcs.CargoSummary
	CargoIndex int
	ItemIndex  int
}

func newAllocationView(order *models.Order, engine *domainsvcs.AllocationEngine) *AllocationView {
	cargos := engine.Cargos()
	summaries := make([]domainsvcs.CargoSummary, len(cargos))
	for i, c := range cargos {
		summaries[i] = domainsvcs.SummarizeCargo(c)
	}
	return &AllocationView{
		Order:      order,
		Cargos:     cargos,
		Capacities: engine.Capacities(),
		Summaries:  summaries,
		CargoIndex: -1,
		ItemIndex:  -1,
	}
}

// GetAllocation returns the persisted allocation as a fresh staging copy.
func (s *OrderService) GetAllocation(ctx context.Context, orgID uuid.UUID, reference string) (*AllocationView, error) {
	order, err := s.load(ctx, orgID, reference)
	if err != nil {
		return nil, err
	}
	return newAllocationView(order, domainsvcs.NewAllocationEngine(order, nil)), nil
}

// ApplyAllocationEdit applies edit to the client-held staged cargos (the
// persisted ones when staged is nil) and returns the new snapshot. Nothing
// is persisted. A rejected edit returns the engine error and no view.
func (s *OrderService) ApplyAllocationEdit(ctx context.Context, orgID uuid.UUID, reference string, staged []models.Cargo, edit AllocationEdit) (*AllocationView, error) {
	order, err := s.loadEditable(ctx, orgID, reference)
	if err != nil {
		return nil, err
	}
	ctx = logger.WithOrderRef(ctx, order.Reference)

	engine := domainsvcs.NewAllocationEngine(order, staged)
	cargoIndex, itemIndex := -1, -1

	switch edit.Op {
	case EditSetQuantity:
		err = engine.SetAllocatedQuantity(edit.CargoIndex, edit.ItemIndex, edit.QuantityKg)
	case EditAddItem:
		meta := s.itemDefaults(ctx, order, edit.Metadata)
		cargoIndex = edit.CargoIndex
		itemIndex, err = engine.AddItem(edit.CargoIndex, domainsvcs.ItemDefaults{Key: edit.Key, Metadata: meta})
	case EditRemoveItem:
		err = engine.RemoveItem(edit.CargoIndex, edit.ItemIndex)
	case EditSetLine:
		err = engine.SetItemLine(edit.CargoIndex, edit.ItemIndex, edit.Key)
	case EditUpdateMetadata:
		if edit.Metadata == nil {
			return nil, fmt.Errorf("%w: update_metadata needs metadata", orderdomain.ErrInvalidOrder)
		}
		if err = engine.UpdateMetadata(edit.CargoIndex, edit.ItemIndex, *edit.Metadata); err == nil {
			s.rememberDefaults(ctx, order, *edit.Metadata)
		}
	case EditAddCargo:
		cargoIndex = engine.AddCargo(edit.Cargo)
	case EditRemoveCargo:
		err = engine.RemoveCargo(edit.CargoIndex)
	default:
		return nil, fmt.Errorf("%w: unknown allocation edit %q", orderdomain.ErrInvalidOrder, edit.Op)
	}
	if err != nil {
		reason := editRejectReason(err)
		s.Metrics.EditRejected(ctx, reason)
		s.Log.InfoContext(ctx, "allocation edit rejected", "op", edit.Op, "reason", reason)
		return nil, err
	}

	view := newAllocationView(order, engine)
	view.CargoIndex, view.ItemIndex = cargoIndex, itemIndex
	return view, nil
}

// SaveAllocation validates the staged cargos over the whole snapshot and
// persists them in one transaction. Every over-allocated key is reported and
// nothing is written when any exists. The repository repeats the check
// against the locked stored lines.
func (s *OrderService) SaveAllocation(ctx context.Context, orgID uuid.UUID, reference string, staged []models.Cargo) (*models.Order, error) {
	ctx = logger.WithOrderRef(ctx, reference)
	release, err := s.lock(ctx, orgID, reference)
	if err != nil {
		return nil, err
	}
	defer release()

	order, err := s.loadEditable(ctx, orgID, reference)
	if err != nil {
		return nil, err
	}

	cargos, err := domainsvcs.NewAllocationEngine(order, staged).Commit()
	if err != nil {
		s.saveBlocked(ctx, err)
		return nil, err
	}
	saved := *order
	saved.Cargos = models.EnsureCargo(cargos)

	if err := s.Repo.SaveAllocation(ctx, &saved); err != nil {
		s.saveBlocked(ctx, err)
		return nil, fmt.Errorf("save allocation: %w", err)
	}
	s.invalidateDocuments(ctx, &saved)
	s.Log.InfoContext(ctx, "allocation saved", "cargo_count", len(saved.Cargos))
	return &saved, nil
}

// Documents returns the shipment-document input for every persisted cargo.
// Reads go through the document cache; a miss is rebuilt from Postgres.
// Only RefreshDocuments fills the cache.
func (s *OrderService) Documents(ctx context.Context, orgID uuid.UUID, reference string) ([]domainsvcs.CargoDocument, error) {
	ctx = logger.WithOrderRef(ctx, reference)
	if s.DocCache != nil {
		docs, err := s.DocCache.Get(ctx, orgID, reference)
		if err == nil {
			return docs, nil
		}
		if !errors.Is(err, pkgcache.ErrCacheMiss) {
			s.Log.WarnContext(ctx, "document cache read failed", "error", err)
		}
	}

	order, err := s.load(ctx, orgID, reference)
	if err != nil {
		return nil, err
	}
	return domainsvcs.BuildShipmentDocuments(order), nil
}

// RefreshDocuments rebuilds the cached documents from the stored order.
// The worker calls it for every order.allocation_saved event.
func (s *OrderService) RefreshDocuments(ctx context.Context, orgID uuid.UUID, reference string) error {
	if s.DocCache == nil {
		return nil
	}
	order, err := s.load(ctx, orgID, reference)
	if err != nil {
		return err
	}
	if err := s.DocCache.Set(ctx, orgID, order.Reference, domainsvcs.BuildShipmentDocuments(order)); err != nil {
		return fmt.Errorf("refresh documents: %w", err)
	}
	return nil
}

// GetItemDefaults returns the last-used shipment metadata for the order.
func (s *OrderService) GetItemDefaults(ctx context.Context, orgID uuid.UUID, reference string) (models.ShipmentMetadata, error) {
	order, err := s.load(ctx, orgID, reference)
	if err != nil {
		return models.ShipmentMetadata{}, err
	}
	if s.Defaults == nil {
		return models.ShipmentMetadata{}, nil
	}
	meta, _, err := s.Defaults.Get(ctx, orgID, order.Reference)
	if err != nil {
		return models.ShipmentMetadata{}, fmt.Errorf("get item defaults: %w", err)
	}
	return meta, nil
}

// SetItemDefaults stores meta as the order's default shipment metadata.
func (s *OrderService) SetItemDefaults(ctx context.Context, orgID uuid.UUID, reference string, meta models.ShipmentMetadata) error {
	order, err := s.loadEditable(ctx, orgID, reference)
	if err != nil {
		return err
	}
	if s.Defaults == nil {
		s.Log.WarnContext(logger.WithOrderRef(ctx, order.Reference), "item defaults not stored, no side-store configured")
		return nil
	}
	if err := s.Defaults.Set(ctx, orgID, order.Reference, meta); err != nil {
		return fmt.Errorf("set item defaults: %w", err)
	}
	return nil
}

// itemDefaults returns explicit when given (and remembers it), otherwise the stored defaults.
func (s *OrderService) itemDefaults(ctx context.Context, order *models.Order, explicit *models.ShipmentMetadata) models.ShipmentMetadata {
	if explicit != nil {
		s.rememberDefaults(ctx, order, *explicit)
		return *explicit
	}
	if s.Defaults == nil {
		return models.ShipmentMetadata{}
	}
	meta, _, err := s.Defaults.Get(ctx, order.OrgID, order.Reference)
	if err != nil {
		s.Log.WarnContext(ctx, "item defaults read failed", "error", err)
		return models.ShipmentMetadata{}
	}
	return meta
}

func (s *OrderService) rememberDefaults(ctx context.Context, order *models.Order, meta models.ShipmentMetadata) {
	if s.Defaults == nil || meta == (models.ShipmentMetadata{}) {
		return
	}
	if err := s.Defaults.Set(ctx, order.OrgID, order.Reference, meta); err != nil {
		s.Log.WarnContext(ctx, "item defaults write failed", "error", err)
	}
}

func (s *OrderService) invalidateDocuments(ctx context.Context, order *models.Order) {
	if s.DocCache == nil {
		return
	}
	if err := s.DocCache.Delete(ctx, order.OrgID, order.Reference); err != nil {
		s.Log.WarnContext(ctx, "document cache invalidation failed", "error", err)
	}
}

func editRejectReason(err error) string {
	switch {
	case errors.Is(err, orderdomain.ErrQuantityExceedsAvailable):
		return "quantity_exceeds_available"
	case errors.Is(err, orderdomain.ErrUnknownLine):
		return "unknown_line"
	case errors.Is(err, orderdomain.ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, orderdomain.ErrCargoNotFound):
		return "cargo_not_found"
	default:
		return "other"
	}
}
