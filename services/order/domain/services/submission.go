package services

import (
	"fmt"
	"time"

	orderdomain "github.com/ghuser/exportdesk/services/order/domain"
	"github.com/ghuser/exportdesk/services/order/domain/models"
)

// Submission flow:
//
//	draft --(no issues)--> submitted
//	draft --(issues)--> awaiting_confirmation --confirm--> missing_quantity
//	                                          --cancel / expiry--> draft
//
// A stock shortfall never blocks submission outright; it only requires an
// explicit acknowledgement, after which the order carries missing_quantity.

// Submit moves a draft order forward. When issues is non-empty the order
// waits for confirmation and a *ConfirmationRequiredError is returned.
func Submit(order *models.Order, issues []orderdomain.StockIssue) error {
	if order.Status != models.StatusDraft {
		return fmt.Errorf("%w: cannot submit from %s", orderdomain.ErrInvalidTransition, order.Status)
	}
	if len(order.Lines) == 0 {
		return fmt.Errorf("%w: order has no lines", orderdomain.ErrInvalidOrder)
	}
	if len(issues) > 0 {
		transition(order, models.StatusAwaitingConfirmation)
		return &orderdomain.ConfirmationRequiredError{Issues: issues}
	}
	transition(order, models.StatusSubmitted)
	return nil
}

// Confirm records the user's acknowledgement of the current issues. issues
// must be re-collected against fresh stock; if the shortfall has gone the
// order is submitted normally.
func Confirm(order *models.Order, issues []orderdomain.StockIssue, operator string) error {
	if order.Status != models.StatusAwaitingConfirmation {
		return fmt.Errorf("%w: nothing to confirm in %s", orderdomain.ErrInvalidTransition, order.Status)
	}
	if len(issues) == 0 {
		transition(order, models.StatusSubmitted)
		return nil
	}
	order.ConfirmedBy = operator
	transition(order, models.StatusMissingQuantity)
	return nil
}

// CancelSubmission returns an order awaiting confirmation to draft.
func CancelSubmission(order *models.Order) error {
	if order.Status != models.StatusAwaitingConfirmation {
		return fmt.Errorf("%w: nothing to cancel in %s", orderdomain.ErrInvalidTransition, order.Status)
	}
	transition(order, models.StatusDraft)
	return nil
}

// ExpireConfirmation is CancelSubmission for timers: it reports false instead
// of failing when the order has already moved on.
func ExpireConfirmation(order *models.Order) bool {
	if order.Status != models.StatusAwaitingConfirmation {
		return false
	}
	transition(order, models.StatusDraft)
	return true
}

// ApplyRevision settles a line revision on an already submitted order.
// issues come from an edit-mode advisor. Without acknowledgement a
// non-empty list is returned as *ConfirmationRequiredError and the status is
// left alone.
func ApplyRevision(order *models.Order, issues []orderdomain.StockIssue, acknowledged bool, operator string) error {
	if len(issues) == 0 {
		return nil
	}
	if !acknowledged {
		return &orderdomain.ConfirmationRequiredError{Issues: issues}
	}
	order.ConfirmedBy = operator
	transition(order, models.StatusMissingQuantity)
	return nil
}

// MarkDelivered locks a submitted order.
func MarkDelivered(order *models.Order) error {
	if !order.Persisted() {
		return fmt.Errorf("%w: cannot deliver from %s", orderdomain.ErrInvalidTransition, order.Status)
	}
	transition(order, models.StatusDelivered)
	return nil
}

func transition(order *models.Order, to models.OrderStatus) {
	order.Status = to
	order.UpdatedAt = time.Now().UTC()
}
