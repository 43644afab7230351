// Package stock implements the StockLedger port over the inventory service's HTTP API.
package stock

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ghuser/exportdesk/pkg/logger"
	orderdomain "github.com/ghuser/exportdesk/services/order/domain"
	"github.com/ghuser/exportdesk/services/order/domain/models"
)

const (
	availabilityPath = "/api/v1/stock/availability"
	healthPath       = "/healthz"

	breakerName             = "stock-ledger"
	breakerMaxRequests      = 3
	breakerInterval         = 60 * time.Second
	breakerOpenTimeout      = 30 * time.Second
	breakerFailureThreshold = 5
)

// errClientRequest marks 4xx answers. They do not count as breaker failures.
var errClientRequest = errors.New("stock service rejected request")

type availabilityRequest struct {
	OrgID uuid.UUID        `json:"org_id"`
	Keys  []models.LineKey `json:"keys"`
}

type availabilityResponse struct {
	Entries []models.StockEntry `json:"entries"`
}

// HTTPLedger fetches stock availability from the inventory service.
// Calls go through a circuit breaker; while it is open Snapshot fails fast
// with ErrStockUnavailable. A 4xx answer is also reported as
// ErrStockUnavailable but does not count toward opening the breaker.
type HTTPLedger struct {
	baseURL    string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
	log        logger.Logger
}

// NewHTTPLedger returns a ledger for the service at baseURL. timeout bounds each request.
func NewHTTPLedger(baseURL string, timeout time.Duration, log logger.Logger) *HTTPLedger {
	l := &HTTPLedger{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log: log,
	}
	l.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: breakerMaxRequests,
		Interval:    breakerInterval,
		Timeout:     breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errClientRequest)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})
	return l
}

// Snapshot returns availability for keys. An empty key set makes no request.
func (l *HTTPLedger) Snapshot(ctx context.Context, orgID uuid.UUID, keys []models.LineKey) (models.StockSnapshot, error) {
	if len(keys) == 0 {
		return models.StockSnapshot{}, nil
	}

	body, err := json.Marshal(availabilityRequest{OrgID: orgID, Keys: keys})
	if err != nil {
		return nil, fmt.Errorf("encode availability request: %w", err)
	}

	result, err := l.cb.Execute(func() (interface{}, error) {
		return l.fetch(ctx, body)
	})
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		l.log.WarnContext(ctx, "stock ledger circuit open", "state", l.cb.State().String())
		return nil, fmt.Errorf("%w: %w", orderdomain.ErrStockUnavailable, err)
	case errors.Is(err, errClientRequest):
		l.log.ErrorContext(ctx, "stock ledger rejected availability request", "error", err)
		return nil, fmt.Errorf("%w: %w", orderdomain.ErrStockUnavailable, err)
	case err != nil:
		return nil, fmt.Errorf("%w: %w", orderdomain.ErrStockUnavailable, err)
	}

	return models.NewStockSnapshot(result.([]models.StockEntry)), nil
}

func (l *HTTPLedger) fetch(ctx context.Context, body []byte) ([]models.StockEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.baseURL+availabilityPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch availability: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	switch {
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", errClientRequest, resp.StatusCode, strings.TrimSpace(string(msg)))
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("stock service returned status %d", resp.StatusCode)
	}

	var out availabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode availability response: %w", err)
	}
	return out.Entries, nil
}

// Ping checks the inventory service health endpoint.
func (l *HTTPLedger) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+healthPath, nil)
	if err != nil {
		return fmt.Errorf("stock ping: %w", err)
	}
	resp, err := l.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("stock ping: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("stock ping: status %d", resp.StatusCode)
	}
	return nil
}
