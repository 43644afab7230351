package httpx

import (
	"context"
	"net/http"
	"time"
)

// HealthChecker is satisfied by any infrastructure dependency that exposes
// a Ping method (database.Database, RedisClient, EventBus and the stock
// ledger client all qualify).
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthChecks holds the set of dependencies to probe in the health endpoint.
// StockLedger is optional; a nil checker is reported as "disabled".
type HealthChecks struct {
	Database    HealthChecker
	Redis       HealthChecker
	EventBus    HealthChecker
	StockLedger HealthChecker
}

type healthResponse struct {
	Status      string `json:"status"`
	Database    string `json:"database"`
	Redis       string `json:"redis"`
	EventBus    string `json:"event_bus"`
	StockLedger string `json:"stock_ledger"`
}

// HealthHandler returns an http.HandlerFunc that probes all registered
// HealthCheckers and reports degraded status if any of them fail.
func HealthHandler(checks HealthChecks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok"}
		probe := func(c HealthChecker, field *string) {
			switch {
			case c == nil:
				*field = "disabled"
			case c.Ping(ctx) != nil:
				resp.Status = "degraded"
				*field = "unreachable"
			default:
				*field = "ok"
			}
		}
		probe(checks.Database, &resp.Database)
		probe(checks.Redis, &resp.Redis)
		probe(checks.EventBus, &resp.EventBus)
		probe(checks.StockLedger, &resp.StockLedger)

		status := http.StatusOK
		if resp.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		JSON(w, status, resp)
	}
}
