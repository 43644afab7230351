package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghuser/exportdesk/services/order/domain/models"
)

func TestBuildShipmentDocuments(t *testing.T) {
	order := testOrder(line(keyAD, "100"), line(keyBD, "50"))
	order.Lines[0].ArticleName = "Dates"
	order.Lines[0].DepotName = "Tozeur"

	withOverride := item(keyBD, "15")
	withOverride.Metadata = models.ShipmentMetadata{ContainerNumber: "MSKU0000001", BatchNumber: "B7"}

	order.Cargos = []models.Cargo{{
		CarrierName:     "CMA CGM",
		ContainerNumber: "CMAU1234567",
		SealNumber:      "SEAL-9",
		CartonWeightKg:  kg("0.5"),
		Items:           []models.AllocatedItem{item(keyAD, "55"), withOverride},
	}}
	// Carton counts come from the engine; documents must reuse them.
	order.Cargos = NewAllocationEngine(order, nil).Cargos()

	docs := BuildShipmentDocuments(order)
	require.Len(t, docs, 1)
	doc := docs[0]

	assert.Equal(t, "70", doc.TotalNetWeightKg.String())
	assert.Equal(t, int64(4), doc.TotalCartons)
	assert.Equal(t, "72", doc.TotalGrossWeightKg.String())

	require.Len(t, doc.LineItems, 2)
	assert.Equal(t, "Dates", doc.LineItems[0].ArticleLabel)
	assert.Equal(t, "Tozeur", doc.LineItems[0].DepotLabel)
	assert.Equal(t, "CMAU1234567", doc.LineItems[0].ContainerNumber)
	assert.Equal(t, "SEAL-9", doc.LineItems[0].SealNumber)
	assert.Equal(t, int64(3), doc.LineItems[0].Cartons)
	assert.Equal(t, "56.5", doc.LineItems[0].GrossWeightKg.String())

	assert.Equal(t, "MSKU0000001", doc.LineItems[1].ContainerNumber)
	assert.Equal(t, "SEAL-9", doc.LineItems[1].SealNumber)
	assert.Equal(t, "B7", doc.LineItems[1].BatchNumber)

	summary := SummarizeCargo(order.Cargos[0])
	assert.True(t, summary.TotalKg.Equal(doc.TotalNetWeightKg))
	assert.Equal(t, summary.TotalCartons, doc.TotalCartons)
}

func TestBuildShipmentDocuments_EmptyCargo(t *testing.T) {
	docs := BuildShipmentDocuments(testOrder(line(keyAD, "10")))
	require.Len(t, docs, 1)
	assert.True(t, docs[0].TotalNetWeightKg.IsZero())
	assert.Empty(t, docs[0].LineItems)
}
