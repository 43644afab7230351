package handlers

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appsvcs "github.com/ghuser/exportdesk/services/order/application/services"
	"github.com/ghuser/exportdesk/services/order/domain/models"
	domainsvcs "github.com/ghuser/exportdesk/services/order/domain/services"
)

// Quantities and prices travel as decimal strings ("12.5"). Plain JSON
// numbers are accepted on input.

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"order not found"`
} // @name ErrorResponse

// OrderLineDTO is one order line.
type OrderLineDTO struct {
	ArticleID   string          `json:"article_id"          validate:"required,max=64"  example:"ART-DATES-1KG"`
	DepotID     string          `json:"depot_id"            validate:"required,max=64"  example:"TOZEUR"`
	ArticleName string          `json:"article_name,omitempty" validate:"max=255"       example:"Deglet Nour dates 1kg"`
	DepotName   string          `json:"depot_name,omitempty"   validate:"max=255"       example:"Tozeur warehouse"`
	OrderedKg   decimal.Decimal `json:"ordered_quantity_kg" validate:"dgt=0,dscale=3"  swaggertype:"string" example:"100"`
	UnitPrice   decimal.Decimal `json:"unit_price"          validate:"dgte=0,dscale=4" swaggertype:"string" example:"4.20"`
	KgPerCarton decimal.Decimal `json:"kg_per_carton"       validate:"dgte=0,dscale=3" swaggertype:"string" example:"20"`
	// Response only.
	Cartons   int64           `json:"cartons,omitempty"    example:"5"`
	LineTotal decimal.Decimal `json:"line_total"           swaggertype:"string" example:"420"`
} // @name OrderLine

func (d OrderLineDTO) toModel() models.OrderLine {
	return models.OrderLine{
		ArticleID:   d.ArticleID,
		DepotID:     d.DepotID,
		ArticleName: d.ArticleName,
		DepotName:   d.DepotName,
		OrderedKg:   d.OrderedKg,
		UnitPrice:   d.UnitPrice,
		KgPerCarton: d.KgPerCarton,
	}
}

func linesToModel(in []OrderLineDTO) []models.OrderLine {
	out := make([]models.OrderLine, len(in))
	for i, d := range in {
		out[i] = d.toModel()
	}
	return out
}

func lineFromModel(l models.OrderLine) OrderLineDTO {
	return OrderLineDTO{
		ArticleID:   l.ArticleID,
		DepotID:     l.DepotID,
		ArticleName: l.ArticleName,
		DepotName:   l.DepotName,
		OrderedKg:   l.OrderedKg,
		UnitPrice:   l.UnitPrice,
		KgPerCarton: l.KgPerCarton,
		Cartons:     l.CartonCount(),
		LineTotal:   l.LineTotal(),
	}
}

// ExportDetailsDTO holds the EXPORT-only header fields.
type ExportDetailsDTO struct {
	Incoterm           string `json:"incoterm,omitempty"            validate:"max=16"  example:"FOB"`
	PortOfLoading      string `json:"port_of_loading,omitempty"     validate:"max=128" example:"Rades"`
	PortOfDischarge    string `json:"port_of_discharge,omitempty"   validate:"max=128" example:"Marseille"`
	DestinationCountry string `json:"destination_country,omitempty" validate:"max=64" example:"FR"`
} // @name ExportDetails

func (d ExportDetailsDTO) toModel() models.ExportDetails {
	return models.ExportDetails(d)
}

// ShipmentMetadataDTO is per-item shipping data. Container and seal override the cargo's.
type ShipmentMetadataDTO struct {
	ContainerNumber string `json:"container_number_override,omitempty" validate:"max=64" example:"MSKU0000001"`
	SealNumber      string `json:"seal_number_override,omitempty"      validate:"max=64" example:"SEAL-9"`
	BatchNumber     string `json:"batch_number,omitempty"              validate:"max=64" example:"B7"`
	ProductionDate  string `json:"production_date,omitempty"           validate:"max=32" example:"2024-10-01"`
	ExpiryDate      string `json:"expiry_date,omitempty"               validate:"max=32" example:"2025-10-01"`
} // @name ShipmentMetadata

func (d ShipmentMetadataDTO) toModel() models.ShipmentMetadata {
	return models.ShipmentMetadata(d)
}

// AllocatedItemDTO is the part of one order line loaded into one cargo.
// Rows with no article, no depot or no quantity are dropped on save.
type AllocatedItemDTO struct {
	ArticleID   string          `json:"article_id"            validate:"max=64" example:"ART-DATES-1KG"`
	DepotID     string          `json:"depot_id"              validate:"max=64" example:"TOZEUR"`
	AllocatedKg decimal.Decimal `json:"allocated_quantity_kg" validate:"dgte=0,dscale=3" swaggertype:"string" example:"55"`
	// Derived from the quantity; ignored on input.
	CartonCount int64 `json:"carton_count" example:"3"`
	ShipmentMetadataDTO
} // @name AllocatedItem

// CargoDTO is one shipping container. Older clients send a bare container
// number string instead of an object; both shapes decode into CargoDTO.
type CargoDTO struct {
	CarrierName     string             `json:"carrier_name,omitempty"     validate:"max=128" example:"CMA CGM"`
	ContainerNumber string             `json:"container_number,omitempty" validate:"max=64"  example:"CMAU1234567"`
	SealNumber      string             `json:"seal_number,omitempty"      validate:"max=64"  example:"SEAL-1"`
	CartonWeightKg  decimal.Decimal    `json:"carton_weight_kg"           validate:"dgte=0,dscale=3" swaggertype:"string" example:"0.5"`
	Items           []AllocatedItemDTO `json:"allocated_items"            validate:"dive"`
} // @name Cargo

// UnmarshalJSON accepts a cargo object or a bare container number string.
func (c *CargoDTO) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var container string
		if err := json.Unmarshal(b, &container); err != nil {
			return err
		}
		*c = CargoDTO{ContainerNumber: strings.TrimSpace(container)}
		return nil
	}
	type plain CargoDTO
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*c = CargoDTO(p)
	return nil
}

func (d CargoDTO) toModel() models.Cargo {
	c := models.Cargo{
		CarrierName:     d.CarrierName,
		ContainerNumber: d.ContainerNumber,
		SealNumber:      d.SealNumber,
		CartonWeightKg:  d.CartonWeightKg,
		Items:           make([]models.AllocatedItem, len(d.Items)),
	}
	for i, it := range d.Items {
		c.Items[i] = models.AllocatedItem{
			ArticleID:   it.ArticleID,
			DepotID:     it.DepotID,
			AllocatedKg: it.AllocatedKg,
			Metadata:    it.ShipmentMetadataDTO.toModel(),
		}
	}
	return c
}

// cargosToModel keeps nil as nil: no cargo in the request means "use the stored allocation".
func cargosToModel(in []CargoDTO) []models.Cargo {
	if in == nil {
		return nil
	}
	out := make([]models.Cargo, len(in))
	for i, d := range in {
		out[i] = d.toModel()
	}
	return out
}

func cargoFromModel(c models.Cargo) CargoDTO {
	d := CargoDTO{
		CarrierName:     c.CarrierName,
		ContainerNumber: c.ContainerNumber,
		SealNumber:      c.SealNumber,
		CartonWeightKg:  c.CartonWeightKg,
		Items:           make([]AllocatedItemDTO, len(c.Items)),
	}
	for i, it := range c.Items {
		d.Items[i] = AllocatedItemDTO{
			ArticleID:           it.ArticleID,
			DepotID:             it.DepotID,
			AllocatedKg:         it.AllocatedKg,
			CartonCount:         it.CartonCount,
			ShipmentMetadataDTO: ShipmentMetadataDTO(it.Metadata),
		}
	}
	return d
}

func cargosFromModel(in []models.Cargo) []CargoDTO {
	out := make([]CargoDTO, len(in))
	for i, c := range in {
		out[i] = cargoFromModel(c)
	}
	return out
}

// OrderResponse is the full order representation.
type OrderResponse struct {
	ID          uuid.UUID        `json:"id"           example:"123e4567-e89b-12d3-a456-426614174000"`
	OrgID       uuid.UUID        `json:"org_id"       example:"550e8400-e29b-41d4-a716-446655440000"`
	Reference   string           `json:"reference"    example:"CMD-2024-001"`
	Currency    string           `json:"currency"     example:"EUR"`
	OrderType   string           `json:"order_type"   example:"EXPORT"`
	Status      string           `json:"status"       example:"draft"`
	Export      ExportDetailsDTO `json:"export"`
	Lines       []OrderLineDTO   `json:"items"`
	Cargos      []CargoDTO       `json:"cargo,omitempty"`
	TotalPrice  decimal.Decimal  `json:"total_price"  swaggertype:"string" example:"420"`
	ConfirmedBy string           `json:"confirmed_by,omitempty" example:"amira"`
	CreatedAt   time.Time        `json:"created_at"   example:"2024-01-15T10:30:00Z"`
	UpdatedAt   time.Time        `json:"updated_at"   example:"2024-01-15T10:30:00Z"`
} // @name Order

func orderFromModel(o *models.Order) OrderResponse {
	lines := make([]OrderLineDTO, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = lineFromModel(l)
	}
	var cargos []CargoDTO
	if o.Cargos != nil {
		cargos = cargosFromModel(o.Cargos)
	}
	return OrderResponse{
		ID:          o.ID,
		OrgID:       o.OrgID,
		Reference:   o.Reference,
		Currency:    o.Currency,
		OrderType:   string(o.Type),
		Status:      string(o.Status),
		Export:      ExportDetailsDTO(o.Export),
		Lines:       lines,
		Cargos:      cargos,
		TotalPrice:  o.TotalPrice(),
		ConfirmedBy: o.ConfirmedBy,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

// CapacityDTO is what remains allocatable for one order line. Cartons is floored.
type CapacityDTO struct {
	ArticleID string          `json:"article_id" example:"ART-DATES-1KG"`
	DepotID   string          `json:"depot_id"   example:"TOZEUR"`
	Kg        decimal.Decimal `json:"kg"         swaggertype:"string" example:"55"`
	Cartons   int64           `json:"cartons"    example:"2"`
} // @name Capacity

// CargoSummaryDTO totals one cargo.
type CargoSummaryDTO struct {
	TotalKg      decimal.Decimal `json:"total_kg"      swaggertype:"string" example:"55"`
	TotalCartons int64           `json:"total_cartons" example:"3"`
	LineCount    int             `json:"line_count"    example:"1"`
} // @name CargoSummary

// AllocationResponse is a staged (or stored) allocation with its derived figures.
// cargo_index and item_index point at the row created by an add edit, or are -1.
type AllocationResponse struct {
	Reference  string            `json:"reference"   example:"CMD-2024-001"`
	Status     string            `json:"status"      example:"draft"`
	Cargos     []CargoDTO        `json:"cargo"`
	Capacities []CapacityDTO     `json:"capacities"`
	Summaries  []CargoSummaryDTO `json:"summaries"`
	CargoIndex int               `json:"cargo_index" example:"-1"`
	ItemIndex  int               `json:"item_index"  example:"-1"`
} // @name Allocation

func allocationFromView(v *appsvcs.AllocationView) AllocationResponse {
	caps := make([]CapacityDTO, 0, len(v.Order.Lines))
	for _, l := range v.Order.Lines {
		c := v.Capacities[l.Key()]
		caps = append(caps, CapacityDTO{ArticleID: l.ArticleID, DepotID: l.DepotID, Kg: c.Kg, Cartons: c.Cartons})
	}
	sums := make([]CargoSummaryDTO, len(v.Summaries))
	for i, s := range v.Summaries {
		sums[i] = CargoSummaryDTO{TotalKg: s.TotalKg, TotalCartons: s.TotalCartons, LineCount: s.LineCount}
	}
	return AllocationResponse{
		Reference:  v.Order.Reference,
		Status:     string(v.Order.Status),
		Cargos:     cargosFromModel(v.Cargos),
		Capacities: caps,
		Summaries:  sums,
		CargoIndex: v.CargoIndex,
		ItemIndex:  v.ItemIndex,
	}
}

// DocumentsResponse wraps the per-cargo shipment document figures.
type DocumentsResponse struct {
	Reference string                     `json:"reference" example:"CMD-2024-001"`
	Cargos    []domainsvcs.CargoDocument `json:"cargo"`
} // @name ShipmentDocuments
