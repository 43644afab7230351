package handlers

import (
	"net/http"

	"github.com/ghuser/exportdesk/pkg/httpx"
	pkgvalidator "github.com/ghuser/exportdesk/pkg/validator"
	appsvcs "github.com/ghuser/exportdesk/services/order/application/services"
	"github.com/ghuser/exportdesk/services/order/domain/models"
	"github.com/ghuser/exportdesk/services/order/domain/repositories"
)

// CreateOrderRequest is the request body for POST /orders.
type CreateOrderRequest struct {
	Reference string           `json:"reference"  validate:"required,max=64"          example:"CMD-2024-001"`
	Currency  string           `json:"currency"   validate:"required,len=3"           example:"EUR"`
	OrderType string           `json:"order_type" validate:"required,oneof=EXPORT LOCAL" example:"EXPORT"`
	Export    ExportDetailsDTO `json:"export"`
	Lines     []OrderLineDTO   `json:"items"      validate:"dive"`
	Cargos    []CargoDTO       `json:"cargo"      validate:"dive"`
} // @name CreateOrderRequest

// PostOrderHandler handles POST /orders requests.
type PostOrderHandler struct {
	svc *appsvcs.Services
}

// NewPostOrderHandler returns a PostOrderHandler backed by the given services.
func NewPostOrderHandler(svc *appsvcs.Services) *PostOrderHandler {
	return &PostOrderHandler{svc: svc}
}

// Execute creates a new draft order.
//
//	@Summary		Create order
//	@Description	Creates a draft order. Cargo is optional; when given it must not exceed ordered quantities. A cargo entry may be a bare container number string.
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateOrderRequest	true	"Order creation request"
//	@Success		201		{object}	OrderResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/orders [post]
func (h *PostOrderHandler) Execute(w http.ResponseWriter, r *http.Request) {
	orgID, _, ok := scope(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[CreateOrderRequest](w, r)
	if !ok {
		return
	}

	order, err := h.svc.Order.Create(r.Context(), orgID, appsvcs.CreateOrderInput{
		Reference: req.Reference,
		Currency:  req.Currency,
		Type:      models.OrderType(req.OrderType),
		Export:    req.Export.toModel(),
		Lines:     linesToModel(req.Lines),
		Cargos:    cargosToModel(req.Cargos),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, orderFromModel(order))
}

// GetOrderHandler handles GET /orders/{ref}.
type GetOrderHandler struct {
	svc *appsvcs.Services
}

// NewGetOrderHandler returns a GetOrderHandler backed by the given services.
func NewGetOrderHandler(svc *appsvcs.Services) *GetOrderHandler {
	return &GetOrderHandler{svc: svc}
}

// Execute returns one order with lines and cargo.
//
//	@Summary	Get order
//	@Tags		orders
//	@Produce	json
//	@Param		ref	path		string	true	"Order reference"
//	@Success	200	{object}	OrderResponse
//	@Failure	401	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/orders/{ref} [get]
func (h *GetOrderHandler) Execute(w http.ResponseWriter, r *http.Request) {
	orgID, ref, ok := scope(w, r)
	if !ok {
		return
	}
	order, err := h.svc.Order.Get(r.Context(), orgID, ref)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, orderFromModel(order))
}

// ListOrdersHandler handles GET /orders.
type ListOrdersHandler struct {
	svc *appsvcs.Services
}

// NewListOrdersHandler returns a ListOrdersHandler backed by the given services.
func NewListOrdersHandler(svc *appsvcs.Services) *ListOrdersHandler {
	return &ListOrdersHandler{svc: svc}
}

// Execute lists the caller's orders, newest first, without cargo.
//
//	@Summary	List orders
//	@Tags		orders
//	@Produce	json
//	@Param		limit	query		int	false	"Page size (max 100)"	default(20)
//	@Param		offset	query		int	false	"Rows to skip"			default(0)
//	@Success	200		{object}	httpx.Page[OrderResponse]
//	@Failure	401		{object}	ErrorResponse
//	@Router		/orders [get]
func (h *ListOrdersHandler) Execute(w http.ResponseWriter, r *http.Request) {
	orgID, _, ok := scope(w, r)
	if !ok {
		return
	}
	limit, offset := pagination(r)
	orders, total, err := h.svc.Order.List(r.Context(), orgID, repositories.QueryOpts{Limit: limit, Offset: offset})
	if err != nil {
		writeError(w, r, err)
		return
	}
	items := make([]OrderResponse, len(orders))
	for i, o := range orders {
		items[i] = orderFromModel(o)
	}
	httpx.JSONPage(w, items, total, limit, offset)
}
