package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghuser/exportdesk/pkg/database"
	"github.com/ghuser/exportdesk/pkg/logger"
	"github.com/ghuser/exportdesk/pkg/migrator"
	orderdomain "github.com/ghuser/exportdesk/services/order/domain"
	"github.com/ghuser/exportdesk/services/order/domain/models"
	"github.com/ghuser/exportdesk/services/order/domain/repositories"
	"github.com/ghuser/exportdesk/services/order/infrastructure/persistence/postgres/db"
)

func kg(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestRowsToCargos(t *testing.T) {
	orderID := uuid.New()
	cargos := rowsToCargos(
		[]db.OrderCargo{
			{OrderID: orderID, Position: 0, ContainerNumber: "C1"},
			{OrderID: orderID, Position: 1, ContainerNumber: "C2"},
		},
		[]db.OrderAllocatedItem{
			{CargoPosition: 0, Position: 0, ArticleID: "A", DepotID: "D", AllocatedKg: kg("45"), CartonCount: 3},
			{CargoPosition: 1, Position: 0, ArticleID: "B", DepotID: "D", AllocatedKg: kg("10"), CartonCount: 1, BatchNumber: "B7"},
			{CargoPosition: 1, Position: 1, ArticleID: "A", DepotID: "D", AllocatedKg: kg("5"), CartonCount: 1},
			{CargoPosition: 9, Position: 0, ArticleID: "X", DepotID: "D", AllocatedKg: kg("1")},
		},
	)

	require.Len(t, cargos, 2)
	assert.Equal(t, "C1", cargos[0].ContainerNumber)
	require.Len(t, cargos[0].Items, 1)
	require.Len(t, cargos[1].Items, 2)
	assert.Equal(t, "B7", cargos[1].Items[0].Metadata.BatchNumber)
	assert.Equal(t, "5", cargos[1].Items[1].AllocatedKg.String())
}

func TestRowsToCargos_EmptyReinstatesBlankCargo(t *testing.T) {
	cargos := rowsToCargos(nil, nil)
	require.Len(t, cargos, 1)
	assert.Empty(t, cargos[0].Items)
}

func TestRowToOrder(t *testing.T) {
	row := db.OrderOrder{
		ID:            uuid.New(),
		OrgID:         uuid.New(),
		Reference:     "CMD-1",
		Currency:      "EUR",
		OrderType:     "EXPORT",
		Status:        "missing_quantity",
		Incoterm:      "FOB",
		PortOfLoading: "Rades",
		ConfirmedBy:   "nadia",
	}
	o := rowToOrder(row)
	assert.Equal(t, models.OrderTypeExport, o.Type)
	assert.Equal(t, models.StatusMissingQuantity, o.Status)
	assert.Equal(t, "FOB", o.Export.Incoterm)
	assert.Equal(t, "Rades", o.Export.PortOfLoading)
	assert.Equal(t, "nadia", o.ConfirmedBy)
}

// TestOrderRepository_Integration requires a running PostgreSQL instance.
// Set DATABASE_URL to run it; migrations are applied from migrations/order.
func TestOrderRepository_Integration(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	log := logger.Discard()
	require.NoError(t, migrator.RunMigrations(ctx, url, os.DirFS("../../../../../migrations/order"), log))

	pool, err := database.NewPool(ctx, url, log)
	require.NoError(t, err)
	defer pool.Close() //nolint:errcheck

	repo := NewOrderRepository(pool, nil)
	orgID := uuid.New()

	order, err := models.NewOrder(orgID, "CMD-"+uuid.NewString()[:8], "EUR", models.OrderTypeExport)
	require.NoError(t, err)
	order.Lines = []models.OrderLine{
		{ArticleID: "A", DepotID: "D", OrderedKg: kg("100"), UnitPrice: kg("2.5"), KgPerCarton: kg("20")},
	}

	t.Run("create and reload", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, order))
		got, err := repo.GetByReference(ctx, orgID, order.Reference)
		require.NoError(t, err)
		require.Len(t, got.Lines, 1)
		assert.True(t, got.Lines[0].OrderedKg.Equal(kg("100")))
		require.Len(t, got.Cargos, 1)
	})

	t.Run("duplicate reference", func(t *testing.T) {
		dup, err := models.NewOrder(orgID, order.Reference, "EUR", models.OrderTypeExport)
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Create(ctx, dup), orderdomain.ErrOrderAlreadyExists)
	})

	t.Run("allocation within ordered quantity", func(t *testing.T) {
		order.Cargos = []models.Cargo{{
			ContainerNumber: "CMAU1234567",
			Items:           []models.AllocatedItem{{ArticleID: "A", DepotID: "D", AllocatedKg: kg("55")}},
		}}
		require.NoError(t, repo.SaveAllocation(ctx, order))

		got, err := repo.GetByReference(ctx, orgID, order.Reference)
		require.NoError(t, err)
		require.Len(t, got.Cargos[0].Items, 1)
		assert.Equal(t, int64(3), got.Cargos[0].Items[0].CartonCount)
	})

	t.Run("over-allocation is rejected and nothing persists", func(t *testing.T) {
		order.Cargos = []models.Cargo{
			{Items: []models.AllocatedItem{{ArticleID: "A", DepotID: "D", AllocatedKg: kg("60")}}},
			{Items: []models.AllocatedItem{{ArticleID: "A", DepotID: "D", AllocatedKg: kg("60")}}},
		}
		err := repo.SaveAllocation(ctx, order)
		var overs orderdomain.OverAllocationErrors
		require.True(t, errors.As(err, &overs))
		assert.Equal(t, "20", overs[0].ExcessKg.String())

		got, err := repo.GetByReference(ctx, orgID, order.Reference)
		require.NoError(t, err)
		assert.Len(t, got.Cargos, 1)
	})

	t.Run("lines cannot shrink below a stored allocation", func(t *testing.T) {
		// Edited from a view that predates the 55 kg allocation above.
		stale := *order
		stale.Cargos = []models.Cargo{{}}
		stale.Lines = []models.OrderLine{
			{ArticleID: "A", DepotID: "D", OrderedKg: kg("40"), UnitPrice: kg("2.5"), KgPerCarton: kg("20")},
		}
		err := repo.SaveLines(ctx, &stale)
		var overs orderdomain.OverAllocationErrors
		require.True(t, errors.As(err, &overs))
		assert.Equal(t, "15", overs[0].ExcessKg.String())

		got, err := repo.GetByReference(ctx, orgID, order.Reference)
		require.NoError(t, err)
		assert.True(t, got.Lines[0].OrderedKg.Equal(kg("100")))

		stale.Lines[0].OrderedKg = kg("55")
		require.NoError(t, repo.SaveLines(ctx, &stale))
		require.Len(t, stale.Cargos[0].Items, 1)
		assert.True(t, stale.Cargos[0].Items[0].AllocatedKg.Equal(kg("55")))
	})

	t.Run("status compare-and-set", func(t *testing.T) {
		order.Status = models.StatusSubmitted
		require.NoError(t, repo.UpdateStatus(ctx, order, models.StatusDraft))
		order.Status = models.StatusMissingQuantity
		assert.ErrorIs(t, repo.UpdateStatus(ctx, order, models.StatusDraft), orderdomain.ErrInvalidTransition)
	})

	t.Run("list", func(t *testing.T) {
		orders, total, err := repo.FindByOrgID(ctx, orgID, repositories.QueryOpts{Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, orders, 1)
		assert.Len(t, orders[0].Lines, 1)
	})
}
