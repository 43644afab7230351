package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder(t *testing.T) {
	orgID := uuid.New()

	t.Run("builds a draft with one blank cargo", func(t *testing.T) {
		before := time.Now().UTC()
		o, err := NewOrder(orgID, "CMD-2024-001", "usd", OrderTypeExport)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, o.ID)
		assert.Equal(t, orgID, o.OrgID)
		assert.Equal(t, "USD", o.Currency)
		assert.Equal(t, StatusDraft, o.Status)
		assert.Len(t, o.Cargos, 1)
		assert.False(t, o.CreatedAt.Before(before))
	})

	t.Run("trims reference", func(t *testing.T) {
		o, err := NewOrder(orgID, "  CMD-7 ", "EUR", OrderTypeLocal)
		require.NoError(t, err)
		assert.Equal(t, "CMD-7", o.Reference)
	})

	t.Run("rejects empty reference", func(t *testing.T) {
		_, err := NewOrder(orgID, "   ", "EUR", OrderTypeLocal)
		assert.Error(t, err)
	})

	t.Run("rejects bad currency", func(t *testing.T) {
		_, err := NewOrder(orgID, "CMD-1", "EURO", OrderTypeExport)
		assert.Error(t, err)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := NewOrder(orgID, "CMD-1", "EUR", OrderType("IMPORT"))
		assert.Error(t, err)
	})
}

func TestOrderLine_Derived(t *testing.T) {
	line := OrderLine{
		ArticleID: "A",
		DepotID:   "D",
		OrderedKg: decimal.RequireFromString("105"),
		UnitPrice: decimal.RequireFromString("2.5"),
	}
	assert.Equal(t, int64(6), line.CartonCount())
	assert.Equal(t, "262.5", line.LineTotal().String())
	assert.Equal(t, LineKey{ArticleID: "A", DepotID: "D"}, line.Key())
	assert.Equal(t, "A", line.ArticleLabel())

	line.ArticleName = "Dates Deglet Nour"
	line.DepotName = "Tozeur"
	assert.Equal(t, "Dates Deglet Nour", line.ArticleLabel())
	assert.Equal(t, "Tozeur", line.DepotLabel())
}

func TestOrder_TotalPrice(t *testing.T) {
	o := &Order{Lines: []OrderLine{
		{ArticleID: "A", DepotID: "D", OrderedKg: decimal.NewFromInt(100), UnitPrice: decimal.RequireFromString("1.2")},
		{ArticleID: "B", DepotID: "D", OrderedKg: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(3)},
	}}
	assert.Equal(t, "150", o.TotalPrice().String())
}

func TestOrder_Normalize(t *testing.T) {
	t.Run("local order drops export details", func(t *testing.T) {
		o := &Order{Type: OrderTypeLocal, Export: ExportDetails{Incoterm: "FOB", PortOfLoading: "Rades"}}
		o.Normalize()
		assert.Equal(t, ExportDetails{}, o.Export)
		assert.Len(t, o.Cargos, 1)
	})

	t.Run("export order keeps export details", func(t *testing.T) {
		o := &Order{Type: OrderTypeExport, Export: ExportDetails{Incoterm: "CIF"}, Cargos: []Cargo{{}, {}}}
		o.Normalize()
		assert.Equal(t, "CIF", o.Export.Incoterm)
		assert.Len(t, o.Cargos, 2)
	})
}

func TestOrder_StatusPredicates(t *testing.T) {
	o := &Order{Status: StatusDelivered}
	assert.True(t, o.Locked())
	assert.False(t, o.Persisted())

	o.Status = StatusMissingQuantity
	assert.True(t, o.Persisted())
	assert.False(t, o.Locked())
}

func TestStockSnapshot(t *testing.T) {
	s := NewStockSnapshot([]StockEntry{
		{ArticleID: "A", DepotID: "D", AvailableKg: decimal.NewFromInt(30)},
		{ArticleID: "A", DepotID: "D", AvailableKg: decimal.NewFromInt(5)},
		{ArticleID: "B", DepotID: "D", AvailableKg: decimal.NewFromInt(-4)},
	})
	assert.Equal(t, "35", s.Available(LineKey{"A", "D"}).String())
	assert.True(t, s.Available(LineKey{"B", "D"}).IsZero())
	assert.True(t, s.Available(LineKey{"C", "D"}).IsZero())
}

func TestCargo_CloneIsDeep(t *testing.T) {
	c := Cargo{Items: []AllocatedItem{{ArticleID: "A", DepotID: "D", AllocatedKg: decimal.NewFromInt(1)}}}
	cp := c.Clone()
	cp.Items[0].AllocatedKg = decimal.NewFromInt(9)
	assert.Equal(t, "1", c.Items[0].AllocatedKg.String())
}

func TestAllocatedItem_Placeholder(t *testing.T) {
	assert.True(t, AllocatedItem{}.Placeholder())
	assert.True(t, AllocatedItem{ArticleID: "A", DepotID: "D"}.Placeholder())
	assert.True(t, AllocatedItem{ArticleID: "A", AllocatedKg: decimal.NewFromInt(3)}.Placeholder())
	assert.False(t, AllocatedItem{ArticleID: "A", DepotID: "D", AllocatedKg: decimal.NewFromInt(3)}.Placeholder())
}
