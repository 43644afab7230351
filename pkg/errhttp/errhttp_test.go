package errhttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ghuser/exportdesk/pkg/auth"
	orderdomain "github.com/ghuser/exportdesk/services/order/domain"
)

func TestWriteError_StatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"ErrOrderNotFound", orderdomain.ErrOrderNotFound, http.StatusNotFound},
		{"ErrCargoNotFound", orderdomain.ErrCargoNotFound, http.StatusNotFound},
		{"ErrOrderAlreadyExists", orderdomain.ErrOrderAlreadyExists, http.StatusConflict},
		{"ErrInvalidTransition", orderdomain.ErrInvalidTransition, http.StatusConflict},
		{"ErrOrderLocked", orderdomain.ErrOrderLocked, http.StatusLocked},
		{"ErrOrderBusy", orderdomain.ErrOrderBusy, http.StatusConflict},
		{"ErrStockUnavailable", fmt.Errorf("snapshot: %w", orderdomain.ErrStockUnavailable), http.StatusServiceUnavailable},
		{"ErrInvalidOrder", orderdomain.ErrInvalidOrder, http.StatusUnprocessableEntity},
		{"ErrUnknownLine", orderdomain.ErrUnknownLine, http.StatusUnprocessableEntity},
		{"missing org", auth.ErrOrgIDNotFound, http.StatusUnauthorized},
		{"wrapped ErrOrderNotFound", fmt.Errorf("get order: %w", orderdomain.ErrOrderNotFound), http.StatusNotFound},
		{"wrapped ErrInvalidQuantity", fmt.Errorf("%w: -1 kg", orderdomain.ErrInvalidQuantity), http.StatusUnprocessableEntity},
		{"quantity gate", &orderdomain.QuantityExceedsAvailableError{}, http.StatusUnprocessableEntity},
		{"duplicate line", &orderdomain.DuplicateLineItemError{}, http.StatusConflict},
		{"over allocation", orderdomain.OverAllocationErrors{{ArticleID: "A"}}, http.StatusUnprocessableEntity},
		{"confirmation", &orderdomain.ConfirmationRequiredError{}, http.StatusConflict},
		{"unknown error", errors.New("something unexpected"), http.StatusInternalServerError},
		{"generic wrapped error", fmt.Errorf("context: %w", errors.New("db down")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.err)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestIsInternal(t *testing.T) {
	if IsInternal(fmt.Errorf("get order: %w", orderdomain.ErrOrderNotFound)) {
		t.Fatal("not found must not be internal")
	}
	if IsInternal(orderdomain.ErrStockUnavailable) {
		t.Fatal("stock outage is reported as 503, not internal")
	}
	if !IsInternal(errors.New("connection reset")) {
		t.Fatal("unknown errors are internal")
	}
}

func TestWriteError_JSONBody(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, orderdomain.ErrOrderNotFound)

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body is not valid JSON: %v", err)
	}
	if _, ok := body["error"]; !ok {
		t.Fatal("response body missing 'error' key")
	}
	if ct := w.Header().Get("Content-Type"); ct == "" {
		t.Fatal("Content-Type header not set")
	}
}

func TestWriteError_QuantityPayload(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, fmt.Errorf("edit: %w", &orderdomain.QuantityExceedsAvailableError{
		ArticleID:   "A",
		DepotID:     "D",
		RequestedKg: decimal.NewFromInt(60),
		MaxKg:       decimal.NewFromInt(55),
		MaxCartons:  2,
	}))

	var body struct {
		Code       string `json:"code"`
		MaxKg      string `json:"max_kg"`
		MaxCartons int64  `json:"max_cartons"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body is not valid JSON: %v", err)
	}
	if body.Code != "quantity_exceeds_available" || body.MaxKg != "55" || body.MaxCartons != 2 {
		t.Fatalf("unexpected payload: %s", w.Body.String())
	}
}

func TestWriteError_OverAllocationPayload(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, orderdomain.OverAllocationErrors{
		{ArticleID: "A", DepotID: "D", ArticleLabel: "Dates", DepotLabel: "Tozeur",
			OrderedKg: decimal.NewFromInt(100), AllocatedKg: decimal.NewFromInt(120), ExcessKg: decimal.NewFromInt(20)},
	})

	var body struct {
		Code       string `json:"code"`
		Violations []struct {
			ArticleLabel string `json:"article_label"`
			ExcessKg     string `json:"excess_kg"`
		} `json:"violations"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body is not valid JSON: %v", err)
	}
	if body.Code != "over_allocation" || len(body.Violations) != 1 || body.Violations[0].ExcessKg != "20" {
		t.Fatalf("unexpected payload: %s", w.Body.String())
	}
}

func TestWriteError_DuplicatePayload(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, &orderdomain.DuplicateLineItemError{Existing: orderdomain.ExistingLine{Index: 1, ArticleID: "A", DepotID: "X", ArticleName: "Olive oil"}})

	var body struct {
		Code         string `json:"code"`
		ExistingLine struct {
			Index       int    `json:"index"`
			ArticleName string `json:"article_name"`
		} `json:"existing_line"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body is not valid JSON: %v", err)
	}
	if body.Code != "duplicate_line_item" || body.ExistingLine.Index != 1 || body.ExistingLine.ArticleName != "Olive oil" {
		t.Fatalf("unexpected payload: %s", w.Body.String())
	}
}
