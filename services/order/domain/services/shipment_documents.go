package services

import (
	"github.com/shopspring/decimal"

	"github.com/ghuser/exportdesk/services/order/domain/models"
)

// DocumentLine is one allocated item as printed on packing lists and certificates.
type DocumentLine struct {
	ArticleID       string          `json:"article_id"`
	DepotID         string          `json:"depot_id"`
	ArticleLabel    string          `json:"article_label"`
	DepotLabel      string          `json:"depot_label"`
	NetWeightKg     decimal.Decimal `json:"net_weight_kg"`
	Cartons         int64           `json:"cartons"`
	GrossWeightKg   decimal.Decimal `json:"gross_weight_kg"`
	ContainerNumber string          `json:"container_number"`
	SealNumber      string          `json:"seal_number"`
	BatchNumber     string          `json:"batch_number,omitempty"`
	ProductionDate  string          `json:"production_date,omitempty"`
	ExpiryDate      string          `json:"expiry_date,omitempty"`
}

// CargoDocument is the figure set a document renderer must reproduce as-is.
type CargoDocument struct {
	CarrierName        string          `json:"carrier_name"`
	ContainerNumber    string          `json:"container_number"`
	SealNumber         string          `json:"seal_number"`
	TotalNetWeightKg   decimal.Decimal `json:"total_net_weight_kg"`
	TotalCartons       int64           `json:"total_cartons"`
	TotalGrossWeightKg decimal.Decimal `json:"total_gross_weight_kg"`
	LineItems          []DocumentLine  `json:"line_items"`
}

// BuildShipmentDocuments derives document figures from a persisted allocation.
// Gross weight is computed once per cargo from its totals, so line gross
// weights are informative and the cargo total is authoritative.
func BuildShipmentDocuments(order *models.Order) []CargoDocument {
	docs := make([]CargoDocument, 0, len(order.Cargos))
	for _, c := range order.Cargos {
		summary := SummarizeCargo(c)
		doc := CargoDocument{
			CarrierName:        c.CarrierName,
			ContainerNumber:    c.ContainerNumber,
			SealNumber:         c.SealNumber,
			TotalNetWeightKg:   summary.TotalKg,
			TotalCartons:       summary.TotalCartons,
			TotalGrossWeightKg: models.GrossWeight(summary.TotalKg, summary.TotalCartons, c.CartonWeightKg),
			LineItems:          make([]DocumentLine, 0, len(c.Items)),
		}
		for _, it := range c.Items {
			articleLabel, depotLabel := it.ArticleID, it.DepotID
			if line, ok := order.Line(it.Key()); ok {
				articleLabel, depotLabel = line.ArticleLabel(), line.DepotLabel()
			}
			doc.LineItems = append(doc.LineItems, DocumentLine{
				ArticleID:       it.ArticleID,
				DepotID:         it.DepotID,
				ArticleLabel:    articleLabel,
				DepotLabel:      depotLabel,
				NetWeightKg:     it.AllocatedKg,
				Cartons:         it.CartonCount,
				GrossWeightKg:   models.GrossWeight(it.AllocatedKg, it.CartonCount, c.CartonWeightKg),
				ContainerNumber: firstNonEmpty(it.Metadata.ContainerNumber, c.ContainerNumber),
				SealNumber:      firstNonEmpty(it.Metadata.SealNumber, c.SealNumber),
				BatchNumber:     it.Metadata.BatchNumber,
				ProductionDate:  it.Metadata.ProductionDate,
				ExpiryDate:      it.Metadata.ExpiryDate,
			})
		}
		docs = append(docs, doc)
	}
	return docs
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
