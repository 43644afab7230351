package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/ghuser/exportdesk/pkg/database"
	"github.com/ghuser/exportdesk/pkg/events"
	orderdomain "github.com/ghuser/exportdesk/services/order/domain"
	domainevents "github.com/ghuser/exportdesk/services/order/domain/events"
	"github.com/ghuser/exportdesk/services/order/domain/models"
	"github.com/ghuser/exportdesk/services/order/domain/repositories"
	domainsvcs "github.com/ghuser/exportdesk/services/order/domain/services"
	"github.com/ghuser/exportdesk/services/order/infrastructure/persistence/postgres/db"
)

const uniqueViolation = "23505"

// OrderRepository implements repositories.OrderRepository against PostgreSQL.
type OrderRepository struct {
	db  *database.Database
	bus *events.EventBus
}

// NewOrderRepository returns an OrderRepository backed by the given connection pool
// and event bus. The bus publishes order events in the same transaction as the write.
func NewOrderRepository(database *database.Database, bus *events.EventBus) *OrderRepository {
	return &OrderRepository{db: database, bus: bus}
}

// Create persists a new Order with its lines and cargo and publishes OrderCreatedEvent.
// Returns ErrOrderAlreadyExists when the reference is taken within the org.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	order.Normalize()
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		q := db.New(tx)
		if err := q.InsertOrder(ctx, db.InsertOrderParams{
			ID:                 order.ID,
			OrgID:              order.OrgID,
			Reference:          order.Reference,
			Currency:           order.Currency,
			OrderType:          string(order.Type),
			Status:             string(order.Status),
			Incoterm:           order.Export.Incoterm,
			PortOfLoading:      order.Export.PortOfLoading,
			PortOfDischarge:    order.Export.PortOfDischarge,
			DestinationCountry: order.Export.DestinationCountry,
			ConfirmedBy:        order.ConfirmedBy,
			CreatedAt:          order.CreatedAt,
			UpdatedAt:          order.UpdatedAt,
		}); err != nil {
			if isUniqueViolation(err) {
				return orderdomain.ErrOrderAlreadyExists
			}
			return fmt.Errorf("insert order: %w", err)
		}

		if err := insertLines(ctx, q, order); err != nil {
			return err
		}
		if err := insertCargos(ctx, q, order.ID, order.Lines, order.Cargos); err != nil {
			return err
		}

		return r.publish(ctx, tx, domainevents.TopicOrderCreated, domainevents.OrderCreatedEvent{
			EventID:    uuid.New(),
			Version:    1,
			OrderID:    order.ID,
			OrgID:      order.OrgID,
			Reference:  order.Reference,
			OrderType:  string(order.Type),
			LineCount:  len(order.Lines),
			OccurredAt: order.CreatedAt,
		})
	})
}

// GetByReference loads an order with lines and cargo. Returns ErrOrderNotFound if missing.
func (r *OrderRepository) GetByReference(ctx context.Context, orgID uuid.UUID, reference string) (*models.Order, error) {
	q := db.New(r.db.DB())
	row, err := q.GetOrderByReference(ctx, db.GetOrderByReferenceParams{OrgID: orgID, Reference: reference})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, orderdomain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("query order: %w", err)
	}
	return loadOrder(ctx, q, row, true)
}

// FindByOrgID retrieves a page of orders with their lines and the total count for the org.
func (r *OrderRepository) FindByOrgID(ctx context.Context, orgID uuid.UUID, opts repositories.QueryOpts) ([]*models.Order, int, error) {
	q := db.New(r.db.DB())

	rows, err := q.FindOrdersByOrgID(ctx, db.FindOrdersByOrgIDParams{
		OrgID:  orgID,
		Limit:  int32(opts.Limit),
		Offset: int32(opts.Offset),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("query orders: %w", err)
	}

	total, err := q.CountOrdersByOrgID(ctx, orgID)
	if err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	orders := make([]*models.Order, 0, len(rows))
	for _, row := range rows {
		o, err := loadOrder(ctx, q, row, false)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	return orders, int(total), nil
}

// SaveLines replaces the order lines and header fields under a row lock.
// Delivered orders are rejected with ErrOrderLocked. The new lines are
// checked against the cargos stored at lock time, so a line cannot shrink
// below an allocation saved concurrently; violations come back as
// OverAllocationErrors and nothing is written.
func (r *OrderRepository) SaveLines(ctx context.Context, order *models.Order) error {
	order.Normalize()
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		q := db.New(tx)
		stored, err := lockOrder(ctx, q, order.OrgID, order.Reference)
		if err != nil {
			return err
		}
		if models.OrderStatus(stored.Status) == models.StatusDelivered {
			return orderdomain.ErrOrderLocked
		}

		current, err := loadOrder(ctx, q, stored, true)
		if err != nil {
			return err
		}
		if violations := domainsvcs.ValidateBeforeSave(order, current.Cargos); len(violations) > 0 {
			return violations
		}
		order.Cargos = current.Cargos

		order.UpdatedAt = time.Now().UTC()
		if _, err := q.UpdateOrderHeader(ctx, db.UpdateOrderHeaderParams{
			ID:                 stored.ID,
			OrgID:              stored.OrgID,
			Currency:           order.Currency,
			OrderType:          string(order.Type),
			Status:             string(order.Status),
			Incoterm:           order.Export.Incoterm,
			PortOfLoading:      order.Export.PortOfLoading,
			PortOfDischarge:    order.Export.PortOfDischarge,
			DestinationCountry: order.Export.DestinationCountry,
			ConfirmedBy:        order.ConfirmedBy,
			UpdatedAt:          order.UpdatedAt,
		}); err != nil {
			return fmt.Errorf("update order: %w", err)
		}

		if err := q.DeleteOrderLines(ctx, stored.ID); err != nil {
			return fmt.Errorf("delete order lines: %w", err)
		}
		if err := insertLines(ctx, q, order); err != nil {
			return err
		}

		if from := models.OrderStatus(stored.Status); from != order.Status {
			return r.publishStatusChanged(ctx, tx, order, from)
		}
		return nil
	})
}

// SaveAllocation replaces every cargo and allocated item of the order in one
// transaction. The order row is locked and the snapshot is re-validated
// against the stored lines, so concurrent saves cannot jointly over-allocate.
func (r *OrderRepository) SaveAllocation(ctx context.Context, order *models.Order) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		q := db.New(tx)
		stored, err := lockOrder(ctx, q, order.OrgID, order.Reference)
		if err != nil {
			return err
		}
		if models.OrderStatus(stored.Status) == models.StatusDelivered {
			return orderdomain.ErrOrderLocked
		}

		current, err := loadOrder(ctx, q, stored, false)
		if err != nil {
			return err
		}
		if violations := domainsvcs.ValidateBeforeSave(current, order.Cargos); len(violations) > 0 {
			return violations
		}
		cargos := domainsvcs.PersistableCargos(order.Cargos)

		if err := q.DeleteCargos(ctx, stored.ID); err != nil {
			return fmt.Errorf("delete cargos: %w", err)
		}
		if err := insertCargos(ctx, q, stored.ID, current.Lines, cargos); err != nil {
			return err
		}
		order.Cargos = cargos

		totalKg := decimal.Zero
		var totalCartons int64
		for _, c := range cargos {
			s := domainsvcs.SummarizeCargo(c)
			totalKg = totalKg.Add(s.TotalKg)
			totalCartons += s.TotalCartons
		}
		return r.publish(ctx, tx, domainevents.TopicOrderAllocationSaved, domainevents.AllocationSavedEvent{
			EventID:      uuid.New(),
			Version:      1,
			OrderID:      stored.ID,
			OrgID:        stored.OrgID,
			Reference:    stored.Reference,
			CargoCount:   len(cargos),
			TotalKg:      totalKg.String(),
			TotalCartons: totalCartons,
			OccurredAt:   time.Now().UTC(),
		})
	})
}

// UpdateStatus persists order.Status only if the stored status still equals from.
// A concurrent change surfaces as ErrInvalidTransition.
func (r *OrderRepository) UpdateStatus(ctx context.Context, order *models.Order, from models.OrderStatus) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		q := db.New(tx)
		order.UpdatedAt = time.Now().UTC()
		n, err := q.UpdateOrderStatus(ctx, db.UpdateOrderStatusParams{
			ID:          order.ID,
			OrgID:       order.OrgID,
			FromStatus:  string(from),
			ToStatus:    string(order.Status),
			ConfirmedBy: order.ConfirmedBy,
			UpdatedAt:   order.UpdatedAt,
		})
		if err != nil {
			return fmt.Errorf("update order status: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("%w: order %s is no longer %s", orderdomain.ErrInvalidTransition, order.Reference, from)
		}
		return r.publishStatusChanged(ctx, tx, order, from)
	})
}

func (r *OrderRepository) publishStatusChanged(ctx context.Context, tx *sql.Tx, order *models.Order, from models.OrderStatus) error {
	return r.publish(ctx, tx, domainevents.TopicOrderStatusChanged, domainevents.OrderStatusChangedEvent{
		EventID:     uuid.New(),
		Version:     1,
		OrderID:     order.ID,
		OrgID:       order.OrgID,
		Reference:   order.Reference,
		From:        string(from),
		To:          string(order.Status),
		Shortfall:   order.Status == models.StatusMissingQuantity,
		ConfirmedBy: order.ConfirmedBy,
		OccurredAt:  order.UpdatedAt,
	})
}

func (r *OrderRepository) publish(ctx context.Context, tx *sql.Tx, topic string, payload any) error {
	if r.bus == nil {
		return nil
	}
	if err := r.bus.PublishTx(ctx, tx, topic, payload); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

func lockOrder(ctx context.Context, q *db.Queries, orgID uuid.UUID, reference string) (db.OrderOrder, error) {
	row, err := q.LockOrderByReference(ctx, db.GetOrderByReferenceParams{OrgID: orgID, Reference: reference})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return db.OrderOrder{}, orderdomain.ErrOrderNotFound
		}
		return db.OrderOrder{}, fmt.Errorf("lock order: %w", err)
	}
	return row, nil
}

func insertLines(ctx context.Context, q *db.Queries, order *models.Order) error {
	for i, l := range order.Lines {
		if err := q.InsertOrderLine(ctx, db.InsertOrderLineParams{
			OrderID:     order.ID,
			Position:    int32(i),
			ArticleID:   l.ArticleID,
			DepotID:     l.DepotID,
			ArticleName: l.ArticleName,
			DepotName:   l.DepotName,
			OrderedKg:   l.OrderedKg,
			UnitPrice:   l.UnitPrice,
			KgPerCarton: l.KgPerCarton,
		}); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %s", orderdomain.ErrDuplicateLineItem, l.Key())
			}
			return fmt.Errorf("insert order line %d: %w", i, err)
		}
	}
	return nil
}

// insertCargos writes cargos and their items. Carton counts are re-derived
// from the stored line packing so persisted values match the quantity.
func insertCargos(ctx context.Context, q *db.Queries, orderID uuid.UUID, lines []models.OrderLine, cargos []models.Cargo) error {
	packing := make(map[models.LineKey]models.OrderLine, len(lines))
	for _, l := range lines {
		packing[l.Key()] = l
	}
	for ci, c := range models.EnsureCargo(cargos) {
		if err := q.InsertCargo(ctx, db.InsertCargoParams{
			OrderID:         orderID,
			Position:        int32(ci),
			CarrierName:     c.CarrierName,
			ContainerNumber: c.ContainerNumber,
			SealNumber:      c.SealNumber,
			CartonWeightKg:  c.CartonWeightKg,
		}); err != nil {
			return fmt.Errorf("insert cargo %d: %w", ci, err)
		}
		for ii, it := range c.Items {
			if it.Placeholder() {
				continue
			}
			if err := q.InsertAllocatedItem(ctx, db.InsertAllocatedItemParams{
				OrderID:         orderID,
				CargoPosition:   int32(ci),
				Position:        int32(ii),
				ArticleID:       it.ArticleID,
				DepotID:         it.DepotID,
				AllocatedKg:     it.AllocatedKg,
				CartonCount:     models.CartonsForKg(it.AllocatedKg, packing[it.Key()].KgPerCarton),
				ContainerNumber: it.Metadata.ContainerNumber,
				SealNumber:      it.Metadata.SealNumber,
				BatchNumber:     it.Metadata.BatchNumber,
				ProductionDate:  it.Metadata.ProductionDate,
				ExpiryDate:      it.Metadata.ExpiryDate,
			}); err != nil {
				return fmt.Errorf("insert allocated item %d/%d: %w", ci, ii, err)
			}
		}
	}
	return nil
}

// loadOrder assembles the aggregate from its rows. Cargo is loaded when withCargo is set.
func loadOrder(ctx context.Context, q *db.Queries, row db.OrderOrder, withCargo bool) (*models.Order, error) {
	o := rowToOrder(row)

	lines, err := q.ListOrderLines(ctx, row.ID)
	if err != nil {
		return nil, fmt.Errorf("query order lines: %w", err)
	}
	o.Lines = make([]models.OrderLine, len(lines))
	for i, l := range lines {
		o.Lines[i] = rowToLine(l)
	}

	if !withCargo {
		o.Cargos = nil
		return o, nil
	}

	cargoRows, err := q.ListCargos(ctx, row.ID)
	if err != nil {
		return nil, fmt.Errorf("query cargos: %w", err)
	}
	itemRows, err := q.ListAllocatedItems(ctx, row.ID)
	if err != nil {
		return nil, fmt.Errorf("query allocated items: %w", err)
	}
	o.Cargos = rowsToCargos(cargoRows, itemRows)
	return o, nil
}

// rowToOrder maps a db.OrderOrder to a domain models.Order.
func rowToOrder(row db.OrderOrder) *models.Order {
	return &models.Order{
		ID:        row.ID,
		OrgID:     row.OrgID,
		Reference: row.Reference,
		Currency:  row.Currency,
		Type:      models.OrderType(row.OrderType),
		Status:    models.OrderStatus(row.Status),
		Export: models.ExportDetails{
			Incoterm:           row.Incoterm,
			PortOfLoading:      row.PortOfLoading,
			PortOfDischarge:    row.PortOfDischarge,
			DestinationCountry: row.DestinationCountry,
		},
		ConfirmedBy: row.ConfirmedBy,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func rowToLine(row db.OrderLine) models.OrderLine {
	return models.OrderLine{
		ArticleID:   row.ArticleID,
		DepotID:     row.DepotID,
		ArticleName: row.ArticleName,
		DepotName:   row.DepotName,
		OrderedKg:   row.OrderedKg,
		UnitPrice:   row.UnitPrice,
		KgPerCarton: row.KgPerCarton,
	}
}

// rowsToCargos groups items under their cargo by position. Items are
// expected ordered by (cargo_position, position). An order without cargo
// rows gets one blank cargo.
func rowsToCargos(cargoRows []db.OrderCargo, itemRows []db.OrderAllocatedItem) []models.Cargo {
	cargos := make([]models.Cargo, len(cargoRows))
	index := make(map[int32]int, len(cargoRows))
	for i, c := range cargoRows {
		index[c.Position] = i
		cargos[i] = models.Cargo{
			CarrierName:     c.CarrierName,
			ContainerNumber: c.ContainerNumber,
			SealNumber:      c.SealNumber,
			CartonWeightKg:  c.CartonWeightKg,
		}
	}
	for _, it := range itemRows {
		ci, ok := index[it.CargoPosition]
		if !ok {
			continue
		}
		cargos[ci].Items = append(cargos[ci].Items, models.AllocatedItem{
			ArticleID:   it.ArticleID,
			DepotID:     it.DepotID,
			AllocatedKg: it.AllocatedKg,
			CartonCount: it.CartonCount,
			Metadata: models.ShipmentMetadata{
				ContainerNumber: it.ContainerNumber,
				SealNumber:      it.SealNumber,
				BatchNumber:     it.BatchNumber,
				ProductionDate:  it.ProductionDate,
				ExpiryDate:      it.ExpiryDate,
			},
		})
	}
	return models.EnsureCargo(cargos)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
