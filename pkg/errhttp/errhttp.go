// Package errhttp maps domain sentinel errors to HTTP status codes.
// Add a case to mapErrorToStatus for each new domain sentinel error.
// Typed domain errors that carry data for the client are rendered with
// a "code" field and their payload next to "error".
package errhttp

import (
	"errors"
	"net/http"

	"github.com/ghuser/exportdesk/pkg/auth"
	"github.com/ghuser/exportdesk/pkg/httpx"
	orderdomain "github.com/ghuser/exportdesk/services/order/domain"
)

// WriteError maps err to an HTTP status code and writes a JSON error response.
// Uses errors.Is() so wrapped sentinel errors are matched correctly.
// Defaults to 500 Internal Server Error for unrecognized errors.
func WriteError(w http.ResponseWriter, err error) {
	status := mapErrorToStatus(err)
	if body, ok := typedBody(err); ok {
		httpx.JSON(w, status, body)
		return
	}
	httpx.JSONError(w, status, err.Error())
}

// IsInternal reports whether err maps to 500, i.e. it is not a known domain
// or auth error and should be reported to error tracking.
func IsInternal(err error) bool {
	return mapErrorToStatus(err) == http.StatusInternalServerError
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, auth.ErrOrgIDNotFound), errors.Is(err, auth.ErrOperatorNotFound):
		return http.StatusUnauthorized // 401
	case errors.Is(err, orderdomain.ErrOrderNotFound), errors.Is(err, orderdomain.ErrCargoNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, orderdomain.ErrOrderAlreadyExists),
		errors.Is(err, orderdomain.ErrDuplicateLineItem),
		errors.Is(err, orderdomain.ErrConfirmationRequired),
		errors.Is(err, orderdomain.ErrInvalidTransition),
		errors.Is(err, orderdomain.ErrOrderBusy):
		return http.StatusConflict // 409
	case errors.Is(err, orderdomain.ErrOrderLocked):
		return http.StatusLocked // 423
	case errors.Is(err, orderdomain.ErrInvalidOrder),
		errors.Is(err, orderdomain.ErrInvalidQuantity),
		errors.Is(err, orderdomain.ErrUnknownLine),
		errors.Is(err, orderdomain.ErrQuantityExceedsAvailable),
		errors.Is(err, orderdomain.ErrOverAllocation):
		return http.StatusUnprocessableEntity // 422
	case errors.Is(err, orderdomain.ErrStockUnavailable):
		return http.StatusServiceUnavailable // 503
	default:
		return http.StatusInternalServerError // 500
	}
}

type existingLineBody struct {
	Index       int    `json:"index"`
	ArticleID   string `json:"article_id"`
	DepotID     string `json:"depot_id"`
	ArticleName string `json:"article_name,omitempty"`
	DepotName   string `json:"depot_name,omitempty"`
}

func typedBody(err error) (map[string]any, bool) {
	var exceeded *orderdomain.QuantityExceedsAvailableError
	if errors.As(err, &exceeded) {
		return map[string]any{
			"error":        err.Error(),
			"code":         "quantity_exceeds_available",
			"article_id":   exceeded.ArticleID,
			"depot_id":     exceeded.DepotID,
			"requested_kg": exceeded.RequestedKg,
			"max_kg":       exceeded.MaxKg,
			"max_cartons":  exceeded.MaxCartons,
		}, true
	}

	var dup *orderdomain.DuplicateLineItemError
	if errors.As(err, &dup) {
		return map[string]any{
			"error": err.Error(),
			"code":  "duplicate_line_item",
			"existing_line": existingLineBody{
				Index:       dup.Existing.Index,
				ArticleID:   dup.Existing.ArticleID,
				DepotID:     dup.Existing.DepotID,
				ArticleName: dup.Existing.ArticleName,
				DepotName:   dup.Existing.DepotName,
			},
		}, true
	}

	var overs orderdomain.OverAllocationErrors
	if errors.As(err, &overs) {
		return map[string]any{
			"error":      orderdomain.ErrOverAllocation.Error(),
			"code":       "over_allocation",
			"violations": []orderdomain.OverAllocation(overs),
		}, true
	}

	var confirm *orderdomain.ConfirmationRequiredError
	if errors.As(err, &confirm) {
		return map[string]any{
			"error":  err.Error(),
			"code":   "confirmation_required",
			"issues": confirm.Issues,
		}, true
	}

	return nil, false
}
