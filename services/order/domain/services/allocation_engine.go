package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	orderdomain "github.com/ghuser/exportdesk/services/order/domain"
	"github.com/ghuser/exportdesk/services/order/domain/models"
)

// Capacity is what remains allocatable for one order line.
// Cartons is floored: only whole cartons that fit are reported.
type Capacity struct {
	Kg      decimal.Decimal `json:"kg"`
	Cartons int64           `json:"cartons"`
}

// CargoSummary holds the per-cargo totals reused verbatim by shipping documents.
type CargoSummary struct {
	TotalKg      decimal.Decimal `json:"total_kg"`
	TotalCartons int64           `json:"total_cartons"`
	LineCount    int             `json:"line_count"`
}

// ItemDefaults seeds a new allocated item. Key may be empty for a row the
// user has not yet pointed at a line.
type ItemDefaults struct {
	Key      models.LineKey
	Metadata models.ShipmentMetadata
}

// AllocatedKg sums allocated kg for key across every item of every cargo.
func AllocatedKg(key models.LineKey, cargos []models.Cargo) decimal.Decimal {
	total := decimal.Zero
	for _, c := range cargos {
		for _, it := range c.Items {
			if it.Key() == key {
				total = total.Add(it.AllocatedKg)
			}
		}
	}
	return total
}

// AvailableToAllocate returns the ordered quantity of line minus everything
// already allocated to its key, the item being edited included.
func AvailableToAllocate(line models.OrderLine, cargos []models.Cargo) Capacity {
	remaining := line.OrderedKg.Sub(AllocatedKg(line.Key(), cargos))
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	return Capacity{
		Kg:      remaining,
		Cartons: models.FullCartonsForKg(remaining, line.KgPerCarton),
	}
}

// SummarizeCargo totals one cargo.
func SummarizeCargo(cargo models.Cargo) CargoSummary {
	s := CargoSummary{TotalKg: decimal.Zero, LineCount: len(cargo.Items)}
	for _, it := range cargo.Items {
		s.TotalKg = s.TotalKg.Add(it.AllocatedKg)
		s.TotalCartons += it.CartonCount
	}
	return s
}

// ValidateBeforeSave recomputes allocated totals over the full snapshot and
// reports every key allocated beyond its ordered quantity. Allocations against
// keys the order does not contain are reported with a zero ordered quantity.
// The result is empty when the snapshot may be persisted.
func ValidateBeforeSave(order *models.Order, cargos []models.Cargo) orderdomain.OverAllocationErrors {
	var errs orderdomain.OverAllocationErrors

	known := make(map[models.LineKey]bool, len(order.Lines))
	for _, line := range order.Lines {
		known[line.Key()] = true
		allocated := AllocatedKg(line.Key(), cargos)
		if allocated.GreaterThan(line.OrderedKg) {
			errs = append(errs, orderdomain.OverAllocation{
				ArticleID:    line.ArticleID,
				DepotID:      line.DepotID,
				ArticleLabel: line.ArticleLabel(),
				DepotLabel:   line.DepotLabel(),
				OrderedKg:    line.OrderedKg,
				AllocatedKg:  allocated,
				ExcessKg:     allocated.Sub(line.OrderedKg),
			})
		}
	}

	seen := make(map[models.LineKey]bool)
	for _, c := range cargos {
		for _, it := range c.Items {
			k := it.Key()
			if k.IsZero() || known[k] || seen[k] {
				continue
			}
			seen[k] = true
			allocated := AllocatedKg(k, cargos)
			if !allocated.IsPositive() {
				continue
			}
			errs = append(errs, orderdomain.OverAllocation{
				ArticleID:    k.ArticleID,
				DepotID:      k.DepotID,
				ArticleLabel: k.ArticleID,
				DepotLabel:   k.DepotID,
				OrderedKg:    decimal.Zero,
				AllocatedKg:  allocated,
				ExcessKg:     allocated,
			})
		}
	}
	return errs
}

// CheckQuantities rejects staged values that cannot be stored as given:
// negative or over-precise allocated quantities and carton weights.
func CheckQuantities(cargos []models.Cargo) error {
	for ci, c := range cargos {
		if c.CartonWeightKg.IsNegative() || !models.WithinScale(c.CartonWeightKg, models.KgScale) {
			return fmt.Errorf("%w: cargo %d carton weight %s kg", orderdomain.ErrInvalidQuantity, ci, c.CartonWeightKg)
		}
		for ii, it := range c.Items {
			if it.AllocatedKg.IsNegative() || !models.WithinScale(it.AllocatedKg, models.KgScale) {
				return fmt.Errorf("%w: cargo %d item %d: %s kg", orderdomain.ErrInvalidQuantity, ci, ii, it.AllocatedKg)
			}
		}
	}
	return nil
}

// PersistableCargos drops placeholder rows (no article, no depot, or no
// quantity) and reinstates a blank cargo if none remain.
func PersistableCargos(cargos []models.Cargo) []models.Cargo {
	out := make([]models.Cargo, 0, len(cargos))
	for _, c := range cargos {
		kept := c
		kept.Items = make([]models.AllocatedItem, 0, len(c.Items))
		for _, it := range c.Items {
			if it.Placeholder() {
				continue
			}
			kept.Items = append(kept.Items, it)
		}
		out = append(out, kept)
	}
	return models.EnsureCargo(out)
}

// AllocationEngine edits a staging copy of an order's cargo allocations.
// Every quantity change goes through SetAllocatedQuantity so derived carton
// counts never drift from their source quantity. The order itself is never
// modified; callers persist Cargos() after Commit succeeds.
//
// Not safe for concurrent use.
type AllocationEngine struct {
	order  *models.Order
	lines  map[models.LineKey]models.OrderLine
	cargos []models.Cargo
}

// NewAllocationEngine stages a copy of staged (or of the order's own cargos when staged is nil).
// Carton counts are re-derived on load.
func NewAllocationEngine(order *models.Order, staged []models.Cargo) *AllocationEngine {
	if staged == nil {
		staged = order.Cargos
	}
	e := &AllocationEngine{
		order:  order,
		lines:  make(map[models.LineKey]models.OrderLine, len(order.Lines)),
		cargos: models.CloneCargos(models.EnsureCargo(staged)),
	}
	for _, l := range order.Lines {
		e.lines[l.Key()] = l
	}
	for ci := range e.cargos {
		for ii := range e.cargos[ci].Items {
			e.rederive(ci, ii)
		}
	}
	return e
}

// Cargos returns a copy of the staged cargo collection.
func (e *AllocationEngine) Cargos() []models.Cargo {
	return models.CloneCargos(e.cargos)
}

// AvailableToAllocate reports remaining capacity for key over the staged snapshot.
func (e *AllocationEngine) AvailableToAllocate(key models.LineKey) (Capacity, error) {
	line, ok := e.lines[key]
	if !ok {
		return Capacity{}, fmt.Errorf("%w: %s", orderdomain.ErrUnknownLine, key)
	}
	return AvailableToAllocate(line, e.cargos), nil
}

// Capacities reports remaining capacity for every order line, keyed by line.
func (e *AllocationEngine) Capacities() map[models.LineKey]Capacity {
	out := make(map[models.LineKey]Capacity, len(e.order.Lines))
	for _, l := range e.order.Lines {
		out[l.Key()] = AvailableToAllocate(l, e.cargos)
	}
	return out
}

// SetAllocatedQuantity is the single gate for quantity edits. The new
// quantity must not exceed AvailableToAllocate for the item's key; on
// rejection a *QuantityExceedsAvailableError is returned and nothing changes.
func (e *AllocationEngine) SetAllocatedQuantity(cargoIndex, itemIndex int, newKg decimal.Decimal) error {
	item, err := e.item(cargoIndex, itemIndex)
	if err != nil {
		return err
	}
	if newKg.IsNegative() || !models.WithinScale(newKg, models.KgScale) {
		return fmt.Errorf("%w: %s kg", orderdomain.ErrInvalidQuantity, newKg)
	}
	line, ok := e.lines[item.Key()]
	if !ok {
		return fmt.Errorf("%w: %s", orderdomain.ErrUnknownLine, item.Key())
	}

	capacity := AvailableToAllocate(line, e.cargos)
	if newKg.GreaterThan(capacity.Kg) {
		return &orderdomain.QuantityExceedsAvailableError{
			ArticleID:   line.ArticleID,
			DepotID:     line.DepotID,
			RequestedKg: newKg,
			MaxKg:       capacity.Kg,
			MaxCartons:  capacity.Cartons,
		}
	}

	e.cargos[cargoIndex].Items[itemIndex].AllocatedKg = newKg
	e.rederive(cargoIndex, itemIndex)
	return nil
}

// AddItem appends a zero-quantity item to the addressed cargo and returns its index.
// A non-empty defaults.Key must name an order line.
func (e *AllocationEngine) AddItem(cargoIndex int, defaults ItemDefaults) (int, error) {
	if cargoIndex < 0 || cargoIndex >= len(e.cargos) {
		return 0, fmt.Errorf("%w: cargo %d", orderdomain.ErrCargoNotFound, cargoIndex)
	}
	if !defaults.Key.IsZero() {
		if _, ok := e.lines[defaults.Key]; !ok {
			return 0, fmt.Errorf("%w: %s", orderdomain.ErrUnknownLine, defaults.Key)
		}
	}
	e.cargos[cargoIndex].Items = append(e.cargos[cargoIndex].Items, models.AllocatedItem{
		ArticleID:   defaults.Key.ArticleID,
		DepotID:     defaults.Key.DepotID,
		AllocatedKg: decimal.Zero,
		Metadata:    defaults.Metadata,
	})
	return len(e.cargos[cargoIndex].Items) - 1, nil
}

// SetItemLine points an item at a different order line. The item's current
// quantity must fit in the new line's remaining capacity.
func (e *AllocationEngine) SetItemLine(cargoIndex, itemIndex int, key models.LineKey) error {
	item, err := e.item(cargoIndex, itemIndex)
	if err != nil {
		return err
	}
	if item.Key() == key {
		return nil
	}
	line, ok := e.lines[key]
	if !ok {
		return fmt.Errorf("%w: %s", orderdomain.ErrUnknownLine, key)
	}
	capacity := AvailableToAllocate(line, e.cargos)
	if item.AllocatedKg.GreaterThan(capacity.Kg) {
		return &orderdomain.QuantityExceedsAvailableError{
			ArticleID:   line.ArticleID,
			DepotID:     line.DepotID,
			RequestedKg: item.AllocatedKg,
			MaxKg:       capacity.Kg,
			MaxCartons:  capacity.Cartons,
		}
	}
	e.cargos[cargoIndex].Items[itemIndex].ArticleID = key.ArticleID
	e.cargos[cargoIndex].Items[itemIndex].DepotID = key.DepotID
	e.rederive(cargoIndex, itemIndex)
	return nil
}

// UpdateMetadata replaces an item's shipment metadata.
func (e *AllocationEngine) UpdateMetadata(cargoIndex, itemIndex int, meta models.ShipmentMetadata) error {
	if _, err := e.item(cargoIndex, itemIndex); err != nil {
		return err
	}
	e.cargos[cargoIndex].Items[itemIndex].Metadata = meta
	return nil
}

// RemoveItem deletes an item. Removal only frees capacity, so nothing is re-checked.
func (e *AllocationEngine) RemoveItem(cargoIndex, itemIndex int) error {
	if _, err := e.item(cargoIndex, itemIndex); err != nil {
		return err
	}
	items := e.cargos[cargoIndex].Items
	e.cargos[cargoIndex].Items = append(items[:itemIndex:itemIndex], items[itemIndex+1:]...)
	return nil
}

// AddCargo appends a cargo header with no items and returns its index.
func (e *AllocationEngine) AddCargo(header models.Cargo) int {
	header.Items = nil
	e.cargos = append(e.cargos, header)
	return len(e.cargos) - 1
}

// RemoveCargo deletes a cargo and its items. A blank cargo is reinstated when the last one goes.
func (e *AllocationEngine) RemoveCargo(cargoIndex int) error {
	if cargoIndex < 0 || cargoIndex >= len(e.cargos) {
		return fmt.Errorf("%w: cargo %d", orderdomain.ErrCargoNotFound, cargoIndex)
	}
	e.cargos = append(e.cargos[:cargoIndex:cargoIndex], e.cargos[cargoIndex+1:]...)
	e.cargos = models.EnsureCargo(e.cargos)
	return nil
}

// Summary totals the cargo at cargoIndex.
func (e *AllocationEngine) Summary(cargoIndex int) (CargoSummary, error) {
	if cargoIndex < 0 || cargoIndex >= len(e.cargos) {
		return CargoSummary{}, fmt.Errorf("%w: cargo %d", orderdomain.ErrCargoNotFound, cargoIndex)
	}
	return SummarizeCargo(e.cargos[cargoIndex]), nil
}

// Commit runs the authoritative save-time validation over the staged
// snapshot. On success it returns the cargos to persist with placeholder
// rows removed. Invalid quantities fail with ErrInvalidQuantity and excess
// allocation with OverAllocationErrors; either way nothing is meant to be
// persisted.
func (e *AllocationEngine) Commit() ([]models.Cargo, error) {
	if err := CheckQuantities(e.cargos); err != nil {
		return nil, err
	}
	if errs := ValidateBeforeSave(e.order, e.cargos); len(errs) > 0 {
		return nil, errs
	}
	return PersistableCargos(e.cargos), nil
}

func (e *AllocationEngine) item(cargoIndex, itemIndex int) (models.AllocatedItem, error) {
	if cargoIndex < 0 || cargoIndex >= len(e.cargos) {
		return models.AllocatedItem{}, fmt.Errorf("%w: cargo %d", orderdomain.ErrCargoNotFound, cargoIndex)
	}
	items := e.cargos[cargoIndex].Items
	if itemIndex < 0 || itemIndex >= len(items) {
		return models.AllocatedItem{}, fmt.Errorf("%w: cargo %d item %d", orderdomain.ErrCargoNotFound, cargoIndex, itemIndex)
	}
	return items[itemIndex], nil
}

// rederive recomputes the item's carton count from its quantity and line packing constant.
func (e *AllocationEngine) rederive(cargoIndex, itemIndex int) {
	it := &e.cargos[cargoIndex].Items[itemIndex]
	kgPerCarton := decimal.Zero
	if line, ok := e.lines[it.Key()]; ok {
		kgPerCarton = line.KgPerCarton
	}
	it.CartonCount = models.CartonsForKg(it.AllocatedKg, kgPerCarton)
}
