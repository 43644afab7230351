package handlers

import (
	"net/http"

	"github.com/ghuser/exportdesk/pkg/httpx"
	pkgvalidator "github.com/ghuser/exportdesk/pkg/validator"
	appsvcs "github.com/ghuser/exportdesk/services/order/application/services"
)

// GetDocumentsHandler handles GET /orders/{ref}/documents.
type GetDocumentsHandler struct {
	svc *appsvcs.Services
}

// NewGetDocumentsHandler returns a GetDocumentsHandler backed by the given services.
func NewGetDocumentsHandler(svc *appsvcs.Services) *GetDocumentsHandler {
	return &GetDocumentsHandler{svc: svc}
}

// Execute returns packing-list figures per cargo, taken from the saved allocation.
//
//	@Summary	Shipment document figures
//	@Tags		documents
//	@Produce	json
//	@Param		ref	path		string	true	"Order reference"
//	@Success	200	{object}	DocumentsResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/orders/{ref}/documents [get]
func (h *GetDocumentsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	orgID, ref, ok := scope(w, r)
	if !ok {
		return
	}
	docs, err := h.svc.Order.Documents(r.Context(), orgID, ref)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, DocumentsResponse{Reference: ref, Cargos: docs})
}

// GetItemDefaultsHandler handles GET /orders/{ref}/item-defaults.
type GetItemDefaultsHandler struct {
	svc *appsvcs.Services
}

// NewGetItemDefaultsHandler returns a GetItemDefaultsHandler backed by the given services.
func NewGetItemDefaultsHandler(svc *appsvcs.Services) *GetItemDefaultsHandler {
	return &GetItemDefaultsHandler{svc: svc}
}

// Execute returns the shipment metadata new allocated items start with.
//
//	@Summary	Get item defaults
//	@Tags		allocation
//	@Produce	json
//	@Param		ref	path		string	true	"Order reference"
//	@Success	200	{object}	ShipmentMetadataDTO
//	@Failure	404	{object}	ErrorResponse
//	@Router		/orders/{ref}/item-defaults [get]
func (h *GetItemDefaultsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	orgID, ref, ok := scope(w, r)
	if !ok {
		return
	}
	meta, err := h.svc.Order.GetItemDefaults(r.Context(), orgID, ref)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ShipmentMetadataDTO(meta))
}

// PutItemDefaultsHandler handles PUT /orders/{ref}/item-defaults.
type PutItemDefaultsHandler struct {
	svc *appsvcs.Services
}

// NewPutItemDefaultsHandler returns a PutItemDefaultsHandler backed by the given services.
func NewPutItemDefaultsHandler(svc *appsvcs.Services) *PutItemDefaultsHandler {
	return &PutItemDefaultsHandler{svc: svc}
}

// Execute stores the shipment metadata new allocated items start with.
//
//	@Summary	Set item defaults
//	@Tags		allocation
//	@Accept		json
//	@Param		ref		path	string				true	"Order reference"
//	@Param		request	body	ShipmentMetadataDTO	true	"Defaults"
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Failure	423	{object}	ErrorResponse
//	@Router		/orders/{ref}/item-defaults [put]
func (h *PutItemDefaultsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	orgID, ref, ok := scope(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[ShipmentMetadataDTO](w, r)
	if !ok {
		return
	}
	if err := h.svc.Order.SetItemDefaults(r.Context(), orgID, ref, req.toModel()); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
