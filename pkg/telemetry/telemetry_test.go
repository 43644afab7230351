package telemetry

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ghuser/exportdesk/pkg/config"
)

func baseConfig() *config.Config {
	return &config.Config{
		ServiceName:    "exportdesk-test",
		ServiceVersion: "test",
		Environment:    "testing",
	}
}

func TestSetup_WithoutOtlpEndpoint(t *testing.T) {
	tel, err := Setup(context.Background(), baseConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tel.MetricsHandler == nil || tel.Orders == nil {
		t.Fatal("expected metrics handler and order metrics")
	}
	if err := tel.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_MetricsEndpointExposesOrderCounters(t *testing.T) {
	tel, err := Setup(context.Background(), baseConfig())
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer tel.Shutdown(context.Background()) //nolint:errcheck

	tel.Orders.EditRejected(context.Background(), "quantity_exceeds_available")

	rr := httptest.NewRecorder()
	tel.MetricsHandler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.Contains(ct, "text/plain") {
		t.Errorf("expected text/plain content-type, got %q", ct)
	}

	body, _ := io.ReadAll(rr.Body)
	for _, want := range []string{"allocation_edits_rejected_total", `reason="quantity_exceeds_available"`, "go_goroutines"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("/metrics missing %s", want)
		}
	}
}

// Each Setup owns its registry, so repeated setups in one process do not collide.
func TestSetup_Twice(t *testing.T) {
	for range 2 {
		tel, err := Setup(context.Background(), baseConfig())
		if err != nil {
			t.Fatalf("setup: %v", err)
		}
		_ = tel.Shutdown(context.Background())
	}
}
