package stock

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghuser/exportdesk/pkg/logger"
	orderdomain "github.com/ghuser/exportdesk/services/order/domain"
	"github.com/ghuser/exportdesk/services/order/domain/models"
)

var keyAD = models.LineKey{ArticleID: "A", DepotID: "D"}

func TestHTTPLedger_Snapshot(t *testing.T) {
	orgID := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, availabilityPath, r.URL.Path)

		var req availabilityRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, orgID, req.OrgID)
		assert.Equal(t, []models.LineKey{keyAD}, req.Keys)

		_, _ = w.Write([]byte(`{"entries":[{"article_id":"A","depot_id":"D","available_quantity_kg":"30.5"}]}`))
	}))
	defer srv.Close()

	ledger := NewHTTPLedger(srv.URL+"/", time.Second, logger.Discard())
	snap, err := ledger.Snapshot(context.Background(), orgID, []models.LineKey{keyAD})
	require.NoError(t, err)
	assert.True(t, snap.Available(keyAD).Equal(decimal.RequireFromString("30.5")))
	assert.True(t, snap.Available(models.LineKey{ArticleID: "B", DepotID: "D"}).IsZero())
}

func TestHTTPLedger_NoKeysSkipsRequest(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	snap, err := NewHTTPLedger(srv.URL, time.Second, logger.Discard()).Snapshot(context.Background(), uuid.New(), nil)
	require.NoError(t, err)
	assert.Empty(t, snap)
	assert.Zero(t, calls.Load())
}

func TestHTTPLedger_ServerErrorsTripBreaker(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	ledger := NewHTTPLedger(srv.URL, time.Second, logger.Discard())
	for i := 0; i < breakerFailureThreshold; i++ {
		_, err := ledger.Snapshot(context.Background(), uuid.New(), []models.LineKey{keyAD})
		require.ErrorIs(t, err, orderdomain.ErrStockUnavailable)
	}

	_, err := ledger.Snapshot(context.Background(), uuid.New(), []models.LineKey{keyAD})
	require.ErrorIs(t, err, orderdomain.ErrStockUnavailable)
	assert.Equal(t, int32(breakerFailureThreshold), calls.Load(), "open breaker must not reach the server")
}

func TestHTTPLedger_ClientErrorsDoNotTripBreaker(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "unknown org", http.StatusBadRequest)
	}))
	defer srv.Close()

	ledger := NewHTTPLedger(srv.URL, time.Second, logger.Discard())
	for i := 0; i < breakerFailureThreshold+2; i++ {
		_, err := ledger.Snapshot(context.Background(), uuid.New(), []models.LineKey{keyAD})
		require.ErrorIs(t, err, orderdomain.ErrStockUnavailable)
		assert.True(t, errors.Is(err, errClientRequest))
	}
	assert.Equal(t, int32(breakerFailureThreshold+2), calls.Load(), "breaker stays closed on 4xx")
	assert.Equal(t, gobreaker.StateClosed, ledger.cb.State())
}

func TestHTTPLedger_Ping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != healthPath {
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	assert.NoError(t, NewHTTPLedger(srv.URL, time.Second, logger.Discard()).Ping(context.Background()))
	srv.Close()
	assert.Error(t, NewHTTPLedger(srv.URL, time.Second, logger.Discard()).Ping(context.Background()))
}
