package models

import "github.com/shopspring/decimal"

// ShipmentMetadata is free-form per-item shipping data. It never affects quantities.
type ShipmentMetadata struct {
	ContainerNumber string `json:"container_number,omitempty"`
	SealNumber      string `json:"seal_number,omitempty"`
	BatchNumber     string `json:"batch_number,omitempty"`
	ProductionDate  string `json:"production_date,omitempty"`
	ExpiryDate      string `json:"expiry_date,omitempty"`
}

// AllocatedItem is the portion of one order line loaded into one cargo.
// CartonCount is derived from AllocatedKg and is only ever set by the allocation engine.
type AllocatedItem struct {
	ArticleID   string
	DepotID     string
	AllocatedKg decimal.Decimal
	CartonCount int64
	Metadata    ShipmentMetadata
}

// Key returns the order line key this item draws from.
func (i AllocatedItem) Key() LineKey {
	return LineKey{ArticleID: i.ArticleID, DepotID: i.DepotID}
}

// Placeholder reports whether the item is an empty row that must not be persisted.
func (i AllocatedItem) Placeholder() bool {
	return i.Key().IsZero() || !i.AllocatedKg.IsPositive()
}

// Cargo is one shipping container on an order.
type Cargo struct {
	CarrierName     string
	ContainerNumber string
	SealNumber      string
	CartonWeightKg  decimal.Decimal // empty-carton weight used for gross weight
	Items           []AllocatedItem
}

// Clone returns a deep copy so staging edits never touch the source.
func (c Cargo) Clone() Cargo {
	out := c
	out.Items = make([]AllocatedItem, len(c.Items))
	copy(out.Items, c.Items)
	return out
}

// CloneCargos deep-copies a cargo collection.
func CloneCargos(cargos []Cargo) []Cargo {
	out := make([]Cargo, len(cargos))
	for i, c := range cargos {
		out[i] = c.Clone()
	}
	return out
}

// EnsureCargo returns cargos, or a single blank cargo when it is empty.
func EnsureCargo(cargos []Cargo) []Cargo {
	if len(cargos) == 0 {
		return []Cargo{{}}
	}
	return cargos
}
