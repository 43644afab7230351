package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderType distinguishes export orders from local sales. LOCAL orders carry no export details.
type OrderType string

const (
	OrderTypeExport OrderType = "EXPORT"
	OrderTypeLocal  OrderType = "LOCAL"
)

// Valid reports whether t is a known order type.
func (t OrderType) Valid() bool {
	return t == OrderTypeExport || t == OrderTypeLocal
}

// OrderStatus is the persisted lifecycle state of an order.
type OrderStatus string

const (
	StatusDraft                OrderStatus = "draft"
	StatusAwaitingConfirmation OrderStatus = "awaiting_confirmation"
	StatusSubmitted            OrderStatus = "submitted"
	StatusMissingQuantity      OrderStatus = "missing_quantity"
	StatusDelivered            OrderStatus = "delivered"
)

// LineKey identifies an order line. An order holds at most one line per key.
type LineKey struct {
	ArticleID string `json:"article_id"`
	DepotID   string `json:"depot_id"`
}

// IsZero reports whether either half of the key is missing.
func (k LineKey) IsZero() bool {
	return k.ArticleID == "" || k.DepotID == ""
}

func (k LineKey) String() string {
	return k.ArticleID + "/" + k.DepotID
}

// OrderLine is one (article, depot, quantity, price) entry on an order.
type OrderLine struct {
	ArticleID   string
	DepotID     string
	ArticleName string
	DepotName   string
	OrderedKg   decimal.Decimal
	UnitPrice   decimal.Decimal
	KgPerCarton decimal.Decimal // zero means DefaultKgPerCarton
}

// Key returns the line's identity.
func (l OrderLine) Key() LineKey {
	return LineKey{ArticleID: l.ArticleID, DepotID: l.DepotID}
}

// CartonCount is the number of cartons the ordered quantity requires.
func (l OrderLine) CartonCount() int64 {
	return CartonsForKg(l.OrderedKg, l.KgPerCarton)
}

// LineTotal is ordered kg times unit price.
func (l OrderLine) LineTotal() decimal.Decimal {
	return l.OrderedKg.Mul(l.UnitPrice)
}

// ArticleLabel returns the article name, falling back to its ID.
func (l OrderLine) ArticleLabel() string {
	if l.ArticleName != "" {
		return l.ArticleName
	}
	return l.ArticleID
}

// DepotLabel returns the depot name, falling back to its ID.
func (l OrderLine) DepotLabel() string {
	if l.DepotName != "" {
		return l.DepotName
	}
	return l.DepotID
}

// ExportDetails holds fields that only apply to EXPORT orders.
type ExportDetails struct {
	Incoterm           string
	PortOfLoading      string
	PortOfDischarge    string
	DestinationCountry string
}

// Order is the aggregate root of the order bounded context.
type Order struct {
	ID          uuid.UUID
	OrgID       uuid.UUID // tenant scope; every query filters by it
	Reference   string
	Currency    string
	Type        OrderType
	Status      OrderStatus
	Export      ExportDetails
	Lines       []OrderLine
	Cargos      []Cargo
	ConfirmedBy string // operator who acknowledged a stock shortfall, if any
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewOrder constructs a draft Order with a generated ID and one blank cargo.
func NewOrder(orgID uuid.UUID, reference, currency string, orderType OrderType) (*Order, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, fmt.Errorf("order reference must not be empty")
	}
	if len(currency) != 3 {
		return nil, fmt.Errorf("currency must be a 3-letter code, got %q", currency)
	}
	if !orderType.Valid() {
		return nil, fmt.Errorf("unknown order type %q", orderType)
	}
	now := time.Now().UTC()
	return &Order{
		ID:        uuid.New(),
		OrgID:     orgID,
		Reference: reference,
		Currency:  strings.ToUpper(currency),
		Type:      orderType,
		Status:    StatusDraft,
		Cargos:    []Cargo{{}},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Locked reports whether the order has been delivered and must not change.
func (o *Order) Locked() bool {
	return o.Status == StatusDelivered
}

// Persisted reports whether the order has been submitted before, which puts
// stock checks in edit mode.
func (o *Order) Persisted() bool {
	return o.Status == StatusSubmitted || o.Status == StatusMissingQuantity
}

// Line returns the line for key, if any.
func (o *Order) Line(key LineKey) (OrderLine, bool) {
	for _, l := range o.Lines {
		if l.Key() == key {
			return l, true
		}
	}
	return OrderLine{}, false
}

// TotalPrice sums every line total.
func (o *Order) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

// Normalize clears export-only fields on LOCAL orders and reinstates a blank
// cargo when the collection is empty.
func (o *Order) Normalize() {
	if o.Type == OrderTypeLocal {
		o.Export = ExportDetails{}
	}
	o.Cargos = EnsureCargo(o.Cargos)
}
