package handlers

import (
	"net/http"

	"github.com/ghuser/exportdesk/pkg/httpx"
	appsvcs "github.com/ghuser/exportdesk/services/order/application/services"
)

// SubmitHandler handles POST /orders/{ref}/submit.
type SubmitHandler struct {
	svc *appsvcs.Services
}

// NewSubmitHandler returns a SubmitHandler backed by the given services.
func NewSubmitHandler(svc *appsvcs.Services) *SubmitHandler {
	return &SubmitHandler{svc: svc}
}

// Execute submits a draft order. When stock is short the order moves to
// awaiting_confirmation and 409 is returned with code confirmation_required
// and the issue list; confirm or cancel it next.
//
//	@Summary	Submit order
//	@Tags		submission
//	@Produce	json
//	@Param		ref	path		string	true	"Order reference"
//	@Success	200	{object}	OrderResponse
//	@Failure	409	{object}	ErrorResponse
//	@Failure	422	{object}	ErrorResponse
//	@Failure	503	{object}	ErrorResponse
//	@Router		/orders/{ref}/submit [post]
func (h *SubmitHandler) Execute(w http.ResponseWriter, r *http.Request) {
	orgID, ref, ok := scope(w, r)
	if !ok {
		return
	}
	order, err := h.svc.Order.Submit(r.Context(), orgID, ref)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, orderFromModel(order))
}

// ConfirmHandler handles POST /orders/{ref}/confirm.
type ConfirmHandler struct {
	svc *appsvcs.Services
}

// NewConfirmHandler returns a ConfirmHandler backed by the given services.
func NewConfirmHandler(svc *appsvcs.Services) *ConfirmHandler {
	return &ConfirmHandler{svc: svc}
}

// Execute acknowledges the shortfall of an order awaiting confirmation.
// The signed-in operator is recorded on the order.
//
//	@Summary	Confirm submission with shortfall
//	@Tags		submission
//	@Produce	json
//	@Param		ref	path		string	true	"Order reference"
//	@Success	200	{object}	OrderResponse
//	@Failure	401	{object}	ErrorResponse
//	@Failure	409	{object}	ErrorResponse
//	@Router		/orders/{ref}/confirm [post]
func (h *ConfirmHandler) Execute(w http.ResponseWriter, r *http.Request) {
	orgID, ref, ok := scope(w, r)
	if !ok {
		return
	}
	op, ok := operator(w, r)
	if !ok {
		return
	}
	order, err := h.svc.Order.Confirm(r.Context(), orgID, ref, op)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, orderFromModel(order))
}

// CancelSubmissionHandler handles POST /orders/{ref}/cancel-submission.
type CancelSubmissionHandler struct {
	svc *appsvcs.Services
}

// NewCancelSubmissionHandler returns a CancelSubmissionHandler backed by the given services.
func NewCancelSubmissionHandler(svc *appsvcs.Services) *CancelSubmissionHandler {
	return &CancelSubmissionHandler{svc: svc}
}

// Execute returns an order awaiting confirmation to draft.
//
//	@Summary	Cancel pending submission
//	@Tags		submission
//	@Produce	json
//	@Param		ref	path		string	true	"Order reference"
//	@Success	200	{object}	OrderResponse
//	@Failure	409	{object}	ErrorResponse
//	@Router		/orders/{ref}/cancel-submission [post]
func (h *CancelSubmissionHandler) Execute(w http.ResponseWriter, r *http.Request) {
	orgID, ref, ok := scope(w, r)
	if !ok {
		return
	}
	order, err := h.svc.Order.CancelSubmission(r.Context(), orgID, ref)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, orderFromModel(order))
}

// DeliverHandler handles POST /orders/{ref}/deliver.
type DeliverHandler struct {
	svc *appsvcs.Services
}

// NewDeliverHandler returns a DeliverHandler backed by the given services.
func NewDeliverHandler(svc *appsvcs.Services) *DeliverHandler {
	return &DeliverHandler{svc: svc}
}

// Execute marks a submitted order delivered. Delivered orders are read-only.
//
//	@Summary	Mark order delivered
//	@Tags		submission
//	@Produce	json
//	@Param		ref	path		string	true	"Order reference"
//	@Success	200	{object}	OrderResponse
//	@Failure	409	{object}	ErrorResponse
//	@Failure	423	{object}	ErrorResponse
//	@Router		/orders/{ref}/deliver [post]
func (h *DeliverHandler) Execute(w http.ResponseWriter, r *http.Request) {
	orgID, ref, ok := scope(w, r)
	if !ok {
		return
	}
	order, err := h.svc.Order.MarkDelivered(r.Context(), orgID, ref)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, orderFromModel(order))
}
