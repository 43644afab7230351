package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Sentinel errors for the order domain. Use errors.Is() to check these.
var (
	// ErrOrderNotFound indicates the requested order does not exist.
	ErrOrderNotFound = errors.New("order not found")

	// ErrOrderAlreadyExists indicates an order with the same reference already exists for the org.
	ErrOrderAlreadyExists = errors.New("order already exists")

	// ErrInvalidOrder indicates the order violates structural constraints.
	ErrInvalidOrder = errors.New("invalid order")

	// ErrOrderLocked indicates the order is delivered and can no longer be edited.
	ErrOrderLocked = errors.New("order is locked")

	// ErrInvalidQuantity indicates a negative or otherwise unusable quantity.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrUnknownLine indicates an allocation references an (article, depot) pair the order does not contain.
	ErrUnknownLine = errors.New("no order line for article and depot")

	// ErrCargoNotFound indicates a cargo or allocated item index is out of range.
	ErrCargoNotFound = errors.New("cargo or allocated item not found")

	// ErrQuantityExceedsAvailable is wrapped by QuantityExceedsAvailableError.
	ErrQuantityExceedsAvailable = errors.New("quantity exceeds available")

	// ErrDuplicateLineItem is wrapped by DuplicateLineItemError.
	ErrDuplicateLineItem = errors.New("duplicate line item")

	// ErrOverAllocation is wrapped by OverAllocationErrors.
	ErrOverAllocation = errors.New("allocation exceeds ordered quantity")

	// ErrConfirmationRequired is wrapped by ConfirmationRequiredError.
	ErrConfirmationRequired = errors.New("stock shortfall requires confirmation")

	// ErrInvalidTransition indicates a submission step that is not allowed from the current status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrOrderBusy indicates another request is writing the same order.
	ErrOrderBusy = errors.New("order is being modified by another request")

	// ErrStockUnavailable indicates the inventory backend could not be reached.
	ErrStockUnavailable = errors.New("stock service unavailable")
)

// QuantityExceedsAvailableError is returned by the interactive allocation gate.
// Nothing is mutated when it is returned.
type QuantityExceedsAvailableError struct {
	ArticleID   string
	DepotID     string
	RequestedKg decimal.Decimal
	MaxKg       decimal.Decimal
	MaxCartons  int64
}

func (e *QuantityExceedsAvailableError) Error() string {
	return fmt.Sprintf("%s: article %s depot %s requested %s kg, at most %s kg (%d cartons) can be allocated",
		ErrQuantityExceedsAvailable, e.ArticleID, e.DepotID, e.RequestedKg, e.MaxKg, e.MaxCartons)
}

func (e *QuantityExceedsAvailableError) Unwrap() error { return ErrQuantityExceedsAvailable }

// ExistingLine identifies the order line a rejected change collided with.
type ExistingLine struct {
	Index       int
	ArticleID   string
	DepotID     string
	ArticleName string
	DepotName   string
}

// DuplicateLineItemError is returned when a line change would repeat an (article, depot) pair.
type DuplicateLineItemError struct {
	Existing ExistingLine
}

func (e *DuplicateLineItemError) Error() string {
	return fmt.Sprintf("%s: %s from %s is already on line %d, edit that line instead",
		ErrDuplicateLineItem, labelOr(e.Existing.ArticleName, e.Existing.ArticleID),
		labelOr(e.Existing.DepotName, e.Existing.DepotID), e.Existing.Index+1)
}

func (e *DuplicateLineItemError) Unwrap() error { return ErrDuplicateLineItem }

// OverAllocation reports one (article, depot) key whose allocations exceed the ordered quantity.
type OverAllocation struct {
	ArticleID    string          `json:"article_id"`
	DepotID      string          `json:"depot_id"`
	ArticleLabel string          `json:"article_label"`
	DepotLabel   string          `json:"depot_label"`
	OrderedKg    decimal.Decimal `json:"ordered_quantity_kg"`
	AllocatedKg  decimal.Decimal `json:"allocated_quantity_kg"`
	ExcessKg     decimal.Decimal `json:"excess_kg"`
}

// OverAllocationErrors is the exhaustive save-time violation list.
type OverAllocationErrors []OverAllocation

func (e OverAllocationErrors) Error() string {
	parts := make([]string, len(e))
	for i, o := range e {
		parts[i] = fmt.Sprintf("%s / %s: allocated %s kg of %s kg ordered (%s kg over)",
			o.ArticleLabel, o.DepotLabel, o.AllocatedKg, o.OrderedKg, o.ExcessKg)
	}
	return fmt.Sprintf("%s: %s", ErrOverAllocation, strings.Join(parts, "; "))
}

func (e OverAllocationErrors) Unwrap() error { return ErrOverAllocation }

// Severity classifies how well stock covers a requested quantity.
type Severity string

const (
	SeveritySufficient  Severity = "sufficient"
	SeverityPartial     Severity = "partial"
	SeverityUnavailable Severity = "unavailable"
)

// StockIssue is one line whose requested (or delta) quantity is not fully covered by stock.
type StockIssue struct {
	ArticleID    string          `json:"article_id"`
	DepotID      string          `json:"depot_id"`
	ArticleLabel string          `json:"article_label"`
	DepotLabel   string          `json:"depot_label"`
	RequestedKg  decimal.Decimal `json:"requested_kg"`
	AvailableKg  decimal.Decimal `json:"available_kg"`
	MissingKg    decimal.Decimal `json:"missing_kg"`
	Severity     Severity        `json:"severity"`
}

// ConfirmationRequiredError carries the shortfall list the user must acknowledge.
type ConfirmationRequiredError struct {
	Issues []StockIssue
}

func (e *ConfirmationRequiredError) Error() string {
	return fmt.Sprintf("%s: %d line(s) short of stock", ErrConfirmationRequired, len(e.Issues))
}

func (e *ConfirmationRequiredError) Unwrap() error { return ErrConfirmationRequired }

func labelOr(label, id string) string {
	if label != "" {
		return label
	}
	return id
}
