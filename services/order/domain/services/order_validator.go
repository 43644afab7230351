// Package services contains stateless domain services for the order bounded context:
// the allocation engine, duplicate line guard, stock sufficiency advisor,
// submission transitions and shipment document figures.
// They operate purely on domain types and have no infrastructure dependencies.
package services

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/ghuser/exportdesk/services/order/domain/models"
)

const maxReferenceLength = 64

// ValidateReference enforces the rules for order references:
//   - 1 to 64 characters
//   - No leading or trailing whitespace
//   - No control characters
//   - No "/" (references appear in URL paths)
func ValidateReference(ref string) error {
	if ref == "" {
		return fmt.Errorf("order reference must not be empty")
	}
	if len(ref) > maxReferenceLength {
		return fmt.Errorf("order reference must not exceed %d characters", maxReferenceLength)
	}
	if ref != strings.TrimSpace(ref) {
		return fmt.Errorf("order reference must not have leading or trailing whitespace")
	}
	for _, r := range ref {
		if unicode.IsControl(r) {
			return fmt.Errorf("order reference must not contain control characters")
		}
	}
	if strings.Contains(ref, "/") {
		return fmt.Errorf("order reference must not contain '/'")
	}
	return nil
}

// ValidateLine checks a single order line.
func ValidateLine(line models.OrderLine) error {
	if line.Key().IsZero() {
		return fmt.Errorf("line must name both an article and a depot")
	}
	if !line.OrderedKg.IsPositive() {
		return fmt.Errorf("line %s: ordered quantity must be positive", line.Key())
	}
	if line.UnitPrice.IsNegative() {
		return fmt.Errorf("line %s: unit price must not be negative", line.Key())
	}
	if line.KgPerCarton.IsNegative() {
		return fmt.Errorf("line %s: kg per carton must not be negative", line.Key())
	}
	if !models.WithinScale(line.OrderedKg, models.KgScale) || !models.WithinScale(line.KgPerCarton, models.KgScale) {
		return fmt.Errorf("line %s: weights allow at most %d decimal places", line.Key(), models.KgScale)
	}
	if !models.WithinScale(line.UnitPrice, models.PriceScale) {
		return fmt.Errorf("line %s: unit price allows at most %d decimal places", line.Key(), models.PriceScale)
	}
	return nil
}

// ValidateOrderForSave performs cross-field validation on a fully constructed
// Order before it is persisted. Duplicate lines are reported as
// *DuplicateLineItemError so callers can point at the existing line.
func ValidateOrderForSave(order *models.Order) error {
	if order == nil {
		return fmt.Errorf("order cannot be nil")
	}
	if err := ValidateReference(order.Reference); err != nil {
		return err
	}
	if order.OrgID == uuid.Nil {
		return fmt.Errorf("org_id must be set")
	}
	if order.ID == uuid.Nil {
		return fmt.Errorf("id must be set")
	}
	if !order.Type.Valid() {
		return fmt.Errorf("unknown order type %q", order.Type)
	}
	for _, l := range order.Lines {
		if err := ValidateLine(l); err != nil {
			return err
		}
	}
	return CheckLines(order.Lines)
}
