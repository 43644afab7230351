package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/ghuser/exportdesk/pkg/httpx"
	pkgvalidator "github.com/ghuser/exportdesk/pkg/validator"
	appsvcs "github.com/ghuser/exportdesk/services/order/application/services"
	"github.com/ghuser/exportdesk/services/order/domain/models"
)

// AllocationEditRequest applies one operation to a staged allocation.
// cargo is the client's current staging copy; omit it to start from the stored allocation.
// Which of the other fields are read depends on op:
//
//	set_quantity     cargo_index, item_index, quantity_kg
//	add_item         cargo_index, article_id, depot_id (optional), metadata (optional, defaults to the stored item defaults)
//	remove_item      cargo_index, item_index
//	set_line         cargo_index, item_index, article_id, depot_id
//	update_metadata  cargo_index, item_index, metadata
//	add_cargo        new_cargo
//	remove_cargo     cargo_index
type AllocationEditRequest struct {
	Op         string               `json:"op"          validate:"required,oneof=set_quantity add_item remove_item set_line update_metadata add_cargo remove_cargo" example:"set_quantity"`
	Cargos     []CargoDTO           `json:"cargo"       validate:"dive"`
	CargoIndex int                  `json:"cargo_index" example:"0"`
	ItemIndex  int                  `json:"item_index"  example:"0"`
	QuantityKg decimal.Decimal      `json:"quantity_kg" swaggertype:"string" example:"55"`
	ArticleID  string               `json:"article_id"  validate:"max=64" example:"ART-DATES-1KG"`
	DepotID    string               `json:"depot_id"    validate:"max=64" example:"TOZEUR"`
	Metadata   *ShipmentMetadataDTO `json:"metadata,omitempty"`
	NewCargo   *CargoDTO            `json:"new_cargo,omitempty"`
} // @name AllocationEditRequest

func (req *AllocationEditRequest) toEdit() appsvcs.AllocationEdit {
	edit := appsvcs.AllocationEdit{
		Op:         appsvcs.EditOp(req.Op),
		CargoIndex: req.CargoIndex,
		ItemIndex:  req.ItemIndex,
		QuantityKg: req.QuantityKg,
		Key:        models.LineKey{ArticleID: req.ArticleID, DepotID: req.DepotID},
	}
	if req.Metadata != nil {
		meta := req.Metadata.toModel()
		edit.Metadata = &meta
	}
	if req.NewCargo != nil {
		edit.Cargo = req.NewCargo.toModel()
	}
	return edit
}

// SaveAllocationRequest carries the staged allocation to persist.
type SaveAllocationRequest struct {
	Cargos []CargoDTO `json:"cargo" validate:"dive"`
} // @name SaveAllocationRequest

// GetAllocationHandler handles GET /orders/{ref}/allocation.
type GetAllocationHandler struct {
	svc *appsvcs.Services
}

// NewGetAllocationHandler returns a GetAllocationHandler backed by the given services.
func NewGetAllocationHandler(svc *appsvcs.Services) *GetAllocationHandler {
	return &GetAllocationHandler{svc: svc}
}

// Execute returns the stored allocation with per-line remaining capacity.
//
//	@Summary	Get cargo allocation
//	@Tags		allocation
//	@Produce	json
//	@Param		ref	path		string	true	"Order reference"
//	@Success	200	{object}	AllocationResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/orders/{ref}/allocation [get]
func (h *GetAllocationHandler) Execute(w http.ResponseWriter, r *http.Request) {
	orgID, ref, ok := scope(w, r)
	if !ok {
		return
	}
	view, err := h.svc.Order.GetAllocation(r.Context(), orgID, ref)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, allocationFromView(view))
}

// PostAllocationEditHandler handles POST /orders/{ref}/allocation/edits.
type PostAllocationEditHandler struct {
	svc *appsvcs.Services
}

// NewPostAllocationEditHandler returns a PostAllocationEditHandler backed by the given services.
func NewPostAllocationEditHandler(svc *appsvcs.Services) *PostAllocationEditHandler {
	return &PostAllocationEditHandler{svc: svc}
}

// Execute applies one edit to the staged allocation and returns the new
// staging copy. Nothing is persisted. A quantity above the remaining
// capacity is refused with 422 quantity_exceeds_available carrying max_kg and max_cartons.
//
//	@Summary	Stage an allocation edit
//	@Tags		allocation
//	@Accept		json
//	@Produce	json
//	@Param		ref		path		string					true	"Order reference"
//	@Param		request	body		AllocationEditRequest	true	"Edit"
//	@Success	200		{object}	AllocationResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	422		{object}	ErrorResponse
//	@Failure	423		{object}	ErrorResponse
//	@Router		/orders/{ref}/allocation/edits [post]
func (h *PostAllocationEditHandler) Execute(w http.ResponseWriter, r *http.Request) {
	orgID, ref, ok := scope(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[AllocationEditRequest](w, r)
	if !ok {
		return
	}
	view, err := h.svc.Order.ApplyAllocationEdit(r.Context(), orgID, ref, cargosToModel(req.Cargos), req.toEdit())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, allocationFromView(view))
}

// PutAllocationHandler handles PUT /orders/{ref}/allocation.
type PutAllocationHandler struct {
	svc *appsvcs.Services
}

// NewPutAllocationHandler returns a PutAllocationHandler backed by the given services.
func NewPutAllocationHandler(svc *appsvcs.Services) *PutAllocationHandler {
	return &PutAllocationHandler{svc: svc}
}

// Execute persists the staged allocation. Empty placeholder rows are
// dropped. When any (article, depot) is allocated beyond its ordered
// quantity nothing is saved and 422 over_allocation lists every violation.
//
//	@Summary	Save cargo allocation
//	@Tags		allocation
//	@Accept		json
//	@Produce	json
//	@Param		ref		path		string					true	"Order reference"
//	@Param		request	body		SaveAllocationRequest	true	"Staged allocation"
//	@Success	200		{object}	OrderResponse
//	@Failure	409		{object}	ErrorResponse
//	@Failure	422		{object}	ErrorResponse
//	@Failure	423		{object}	ErrorResponse
//	@Router		/orders/{ref}/allocation [put]
func (h *PutAllocationHandler) Execute(w http.ResponseWriter, r *http.Request) {
	orgID, ref, ok := scope(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[SaveAllocationRequest](w, r)
	if !ok {
		return
	}
	staged := cargosToModel(req.Cargos)
	if staged == nil {
		staged = []models.Cargo{}
	}
	order, err := h.svc.Order.SaveAllocation(r.Context(), orgID, ref, staged)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, orderFromModel(order))
}
