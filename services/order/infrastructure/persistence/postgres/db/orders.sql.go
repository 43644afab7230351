package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const orderColumns = `id, org_id, reference, currency, order_type, status, incoterm, port_of_loading,
       port_of_discharge, destination_country, confirmed_by, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (OrderOrder, error) {
	var i OrderOrder
	err := row.Scan(
		&i.ID,
		&i.OrgID,
		&i.Reference,
		&i.Currency,
		&i.OrderType,
		&i.Status,
		&i.Incoterm,
		&i.PortOfLoading,
		&i.PortOfDischarge,
		&i.DestinationCountry,
		&i.ConfirmedBy,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const insertOrder = `-- name: InsertOrder :exec
INSERT INTO orders (` + orderColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
`

type InsertOrderParams struct {
	ID                 uuid.UUID
	OrgID              uuid.UUID
	Reference          string
	Currency           string
	OrderType          string
	Status             string
	Incoterm           string
	PortOfLoading      string
	PortOfDischarge    string
	DestinationCountry string
	ConfirmedBy        string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (q *Queries) InsertOrder(ctx context.Context, arg InsertOrderParams) error {
	_, err := q.db.ExecContext(ctx, insertOrder,
		arg.ID,
		arg.OrgID,
		arg.Reference,
		arg.Currency,
		arg.OrderType,
		arg.Status,
		arg.Incoterm,
		arg.PortOfLoading,
		arg.PortOfDischarge,
		arg.DestinationCountry,
		arg.ConfirmedBy,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const getOrderByReference = `-- name: GetOrderByReference :one
SELECT ` + orderColumns + `
FROM orders
WHERE org_id = $1 AND reference = $2
`

type GetOrderByReferenceParams struct {
	OrgID     uuid.UUID
	Reference string
}

func (q *Queries) GetOrderByReference(ctx context.Context, arg GetOrderByReferenceParams) (OrderOrder, error) {
	return scanOrder(q.db.QueryRowContext(ctx, getOrderByReference, arg.OrgID, arg.Reference))
}

const lockOrderByReference = `-- name: LockOrderByReference :one
SELECT ` + orderColumns + `
FROM orders
WHERE org_id = $1 AND reference = $2
FOR UPDATE
`

// LockOrderByReference must run inside a transaction. The row lock is held until commit.
func (q *Queries) LockOrderByReference(ctx context.Context, arg GetOrderByReferenceParams) (OrderOrder, error) {
	return scanOrder(q.db.QueryRowContext(ctx, lockOrderByReference, arg.OrgID, arg.Reference))
}

const findOrdersByOrgID = `-- name: FindOrdersByOrgID :many
SELECT ` + orderColumns + `
FROM orders
WHERE org_id = $1
ORDER BY created_at DESC, reference
LIMIT $2 OFFSET $3
`

type FindOrdersByOrgIDParams struct {
	OrgID  uuid.UUID
	Limit  int32
	Offset int32
}

func (q *Queries) FindOrdersByOrgID(ctx context.Context, arg FindOrdersByOrgIDParams) ([]OrderOrder, error) {
	rows, err := q.db.QueryContext(ctx, findOrdersByOrgID, arg.OrgID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []OrderOrder
	for rows.Next() {
		i, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countOrdersByOrgID = `-- name: CountOrdersByOrgID :one
SELECT count(*) FROM orders WHERE org_id = $1
`

func (q *Queries) CountOrdersByOrgID(ctx context.Context, orgID uuid.UUID) (int64, error) {
	row := q.db.QueryRowContext(ctx, countOrdersByOrgID, orgID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const updateOrderHeader = `-- name: UpdateOrderHeader :execrows
UPDATE orders
SET currency = $3,
    order_type = $4,
    status = $5,
    incoterm = $6,
    port_of_loading = $7,
    port_of_discharge = $8,
    destination_country = $9,
    confirmed_by = $10,
    updated_at = $11
WHERE id = $1 AND org_id = $2
`

type UpdateOrderHeaderParams struct {
	ID                 uuid.UUID
	OrgID              uuid.UUID
	Currency           string
	OrderType          string
	Status             string
	Incoterm           string
	PortOfLoading      string
	PortOfDischarge    string
	DestinationCountry string
	ConfirmedBy        string
	UpdatedAt          time.Time
}

func (q *Queries) UpdateOrderHeader(ctx context.Context, arg UpdateOrderHeaderParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateOrderHeader,
		arg.ID,
		arg.OrgID,
		arg.Currency,
		arg.OrderType,
		arg.Status,
		arg.Incoterm,
		arg.PortOfLoading,
		arg.PortOfDischarge,
		arg.DestinationCountry,
		arg.ConfirmedBy,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const updateOrderStatus = `-- name: UpdateOrderStatus :execrows
UPDATE orders
SET status = $4, confirmed_by = $5, updated_at = $6
WHERE id = $1 AND org_id = $2 AND status = $3
`

type UpdateOrderStatusParams struct {
	ID          uuid.UUID
	OrgID       uuid.UUID
	FromStatus  string
	ToStatus    string
	ConfirmedBy string
	UpdatedAt   time.Time
}

func (q *Queries) UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateOrderStatus,
		arg.ID,
		arg.OrgID,
		arg.FromStatus,
		arg.ToStatus,
		arg.ConfirmedBy,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listOrderLines = `-- name: ListOrderLines :many
SELECT order_id, position, article_id, depot_id, article_name, depot_name, ordered_kg, unit_price, kg_per_carton
FROM order_lines
WHERE order_id = $1
ORDER BY position
`

func (q *Queries) ListOrderLines(ctx context.Context, orderID uuid.UUID) ([]OrderLine, error) {
	rows, err := q.db.QueryContext(ctx, listOrderLines, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []OrderLine
	for rows.Next() {
		var i OrderLine
		if err := rows.Scan(
			&i.OrderID,
			&i.Position,
			&i.ArticleID,
			&i.DepotID,
			&i.ArticleName,
			&i.DepotName,
			&i.OrderedKg,
			&i.UnitPrice,
			&i.KgPerCarton,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteOrderLines = `-- name: DeleteOrderLines :exec
DELETE FROM order_lines WHERE order_id = $1
`

func (q *Queries) DeleteOrderLines(ctx context.Context, orderID uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, deleteOrderLines, orderID)
	return err
}

const insertOrderLine = `-- name: InsertOrderLine :exec
INSERT INTO order_lines (order_id, position, article_id, depot_id, article_name, depot_name, ordered_kg, unit_price, kg_per_carton)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

type InsertOrderLineParams struct {
	OrderID     uuid.UUID
	Position    int32
	ArticleID   string
	DepotID     string
	ArticleName string
	DepotName   string
	OrderedKg   decimal.Decimal
	UnitPrice   decimal.Decimal
	KgPerCarton decimal.Decimal
}

func (q *Queries) InsertOrderLine(ctx context.Context, arg InsertOrderLineParams) error {
	_, err := q.db.ExecContext(ctx, insertOrderLine,
		arg.OrderID,
		arg.Position,
		arg.ArticleID,
		arg.DepotID,
		arg.ArticleName,
		arg.DepotName,
		arg.OrderedKg,
		arg.UnitPrice,
		arg.KgPerCarton,
	)
	return err
}

const listCargos = `-- name: ListCargos :many
SELECT order_id, position, carrier_name, container_number, seal_number, carton_weight_kg
FROM cargos
WHERE order_id = $1
ORDER BY position
`

func (q *Queries) ListCargos(ctx context.Context, orderID uuid.UUID) ([]OrderCargo, error) {
	rows, err := q.db.QueryContext(ctx, listCargos, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []OrderCargo
	for rows.Next() {
		var i OrderCargo
		if err := rows.Scan(
			&i.OrderID,
			&i.Position,
			&i.CarrierName,
			&i.ContainerNumber,
			&i.SealNumber,
			&i.CartonWeightKg,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listAllocatedItems = `-- name: ListAllocatedItems :many
SELECT order_id, cargo_position, position, article_id, depot_id, allocated_kg, carton_count,
       container_number, seal_number, batch_number, production_date, expiry_date
FROM allocated_items
WHERE order_id = $1
ORDER BY cargo_position, position
`

func (q *Queries) ListAllocatedItems(ctx context.Context, orderID uuid.UUID) ([]OrderAllocatedItem, error) {
	rows, err := q.db.QueryContext(ctx, listAllocatedItems, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []OrderAllocatedItem
	for rows.Next() {
		var i OrderAllocatedItem
		if err := rows.Scan(
			&i.OrderID,
			&i.CargoPosition,
			&i.Position,
			&i.ArticleID,
			&i.DepotID,
			&i.AllocatedKg,
			&i.CartonCount,
			&i.ContainerNumber,
			&i.SealNumber,
			&i.BatchNumber,
			&i.ProductionDate,
			&i.ExpiryDate,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteCargos = `-- name: DeleteCargos :exec
DELETE FROM cargos WHERE order_id = $1
`

// DeleteCargos also removes allocated items through ON DELETE CASCADE.
func (q *Queries) DeleteCargos(ctx context.Context, orderID uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, deleteCargos, orderID)
	return err
}

const insertCargo = `-- name: InsertCargo :exec
INSERT INTO cargos (order_id, position, carrier_name, container_number, seal_number, carton_weight_kg)
VALUES ($1, $2, $3, $4, $5, $6)
`

type InsertCargoParams struct {
	OrderID         uuid.UUID
	Position        int32
	CarrierName     string
	ContainerNumber string
	SealNumber      string
	CartonWeightKg  decimal.Decimal
}

func (q *Queries) InsertCargo(ctx context.Context, arg InsertCargoParams) error {
	_, err := q.db.ExecContext(ctx, insertCargo,
		arg.OrderID,
		arg.Position,
		arg.CarrierName,
		arg.ContainerNumber,
		arg.SealNumber,
		arg.CartonWeightKg,
	)
	return err
}

const insertAllocatedItem = `-- name: InsertAllocatedItem :exec
INSERT INTO allocated_items (order_id, cargo_position, position, article_id, depot_id, allocated_kg, carton_count,
                             container_number, seal_number, batch_number, production_date, expiry_date)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`

type InsertAllocatedItemParams struct {
	OrderID         uuid.UUID
	CargoPosition   int32
	Position        int32
	ArticleID       string
	DepotID         string
	AllocatedKg     decimal.Decimal
	CartonCount     int64
	ContainerNumber string
	SealNumber      string
	BatchNumber     string
	ProductionDate  string
	ExpiryDate      string
}

func (q *Queries) InsertAllocatedItem(ctx context.Context, arg InsertAllocatedItemParams) error {
	_, err := q.db.ExecContext(ctx, insertAllocatedItem,
		arg.OrderID,
		arg.CargoPosition,
		arg.Position,
		arg.ArticleID,
		arg.DepotID,
		arg.AllocatedKg,
		arg.CartonCount,
		arg.ContainerNumber,
		arg.SealNumber,
		arg.BatchNumber,
		arg.ProductionDate,
		arg.ExpiryDate,
	)
	return err
}
