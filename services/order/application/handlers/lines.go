package handlers

import (
	"net/http"

	"github.com/ghuser/exportdesk/pkg/httpx"
	pkgvalidator "github.com/ghuser/exportdesk/pkg/validator"
	appsvcs "github.com/ghuser/exportdesk/services/order/application/services"
	"github.com/ghuser/exportdesk/services/order/domain/models"
)

// ReviseLinesRequest replaces every line of an order. On a submitted order
// only quantity increases are checked against stock; a shortfall is refused
// with 409 unless acknowledge_shortfall is set.
type ReviseLinesRequest struct {
	Lines                []OrderLineDTO    `json:"items"                 validate:"dive"`
	Export               *ExportDetailsDTO `json:"export,omitempty"`
	Currency             string            `json:"currency,omitempty"    validate:"omitempty,len=3" example:"EUR"`
	AcknowledgeShortfall bool              `json:"acknowledge_shortfall" example:"false"`
} // @name ReviseLinesRequest

// LineRequest adds or replaces a single line.
type LineRequest struct {
	OrderLineDTO
	AcknowledgeShortfall bool `json:"acknowledge_shortfall" example:"false"`
} // @name LineRequest

// acknowledgedBy returns the operator when ack is set; acknowledging needs a signed-in operator.
func acknowledgedBy(w http.ResponseWriter, r *http.Request, ack bool) (string, bool) {
	if !ack {
		return "", true
	}
	return operator(w, r)
}

// PutLinesHandler handles PUT /orders/{ref}/lines.
type PutLinesHandler struct {
	svc *appsvcs.Services
}

// NewPutLinesHandler returns a PutLinesHandler backed by the given services.
func NewPutLinesHandler(svc *appsvcs.Services) *PutLinesHandler {
	return &PutLinesHandler{svc: svc}
}

// Execute replaces the order lines.
//
//	@Summary		Replace order lines
//	@Description	Duplicate (article, depot) pairs are rejected naming the existing line. Lines cannot drop below the quantity already allocated to cargo.
//	@Tags			lines
//	@Accept			json
//	@Produce		json
//	@Param			ref		path		string				true	"Order reference"
//	@Param			request	body		ReviseLinesRequest	true	"New lines"
//	@Success		200		{object}	OrderResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Failure		423		{object}	ErrorResponse
//	@Router			/orders/{ref}/lines [put]
func (h *PutLinesHandler) Execute(w http.ResponseWriter, r *http.Request) {
	orgID, ref, ok := scope(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[ReviseLinesRequest](w, r)
	if !ok {
		return
	}
	op, ok := acknowledgedBy(w, r, req.AcknowledgeShortfall)
	if !ok {
		return
	}

	rev := appsvcs.LinesRevision{
		Lines:       linesToModel(req.Lines),
		Currency:    req.Currency,
		Acknowledge: req.AcknowledgeShortfall,
		Operator:    op,
	}
	if req.Export != nil {
		export := req.Export.toModel()
		rev.Export = &export
	}
	order, err := h.svc.Order.ReviseLines(r.Context(), orgID, ref, rev)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, orderFromModel(order))
}

// PostLineHandler handles POST /orders/{ref}/lines.
type PostLineHandler struct {
	svc *appsvcs.Services
}

// NewPostLineHandler returns a PostLineHandler backed by the given services.
func NewPostLineHandler(svc *appsvcs.Services) *PostLineHandler {
	return &PostLineHandler{svc: svc}
}

// Execute appends a line.
//
//	@Summary	Add order line
//	@Tags		lines
//	@Accept		json
//	@Produce	json
//	@Param		ref		path		string		true	"Order reference"
//	@Param		request	body		LineRequest	true	"Line"
//	@Success	201		{object}	OrderResponse
//	@Failure	409		{object}	ErrorResponse
//	@Failure	422		{object}	ErrorResponse
//	@Router		/orders/{ref}/lines [post]
func (h *PostLineHandler) Execute(w http.ResponseWriter, r *http.Request) {
	orgID, ref, ok := scope(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[LineRequest](w, r)
	if !ok {
		return
	}
	op, ok := acknowledgedBy(w, r, req.AcknowledgeShortfall)
	if !ok {
		return
	}
	order, err := h.svc.Order.AddLine(r.Context(), orgID, ref, req.OrderLineDTO.toModel(), req.AcknowledgeShortfall, op)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, orderFromModel(order))
}

// PutLineHandler handles PUT /orders/{ref}/lines/{index}.
type PutLineHandler struct {
	svc *appsvcs.Services
}

// NewPutLineHandler returns a PutLineHandler backed by the given services.
func NewPutLineHandler(svc *appsvcs.Services) *PutLineHandler {
	return &PutLineHandler{svc: svc}
}

// Execute replaces the line at index.
//
//	@Summary	Update order line
//	@Tags		lines
//	@Accept		json
//	@Produce	json
//	@Param		ref		path		string		true	"Order reference"
//	@Param		index	path		int			true	"Line index"
//	@Param		request	body		LineRequest	true	"Line"
//	@Success	200		{object}	OrderResponse
//	@Failure	409		{object}	ErrorResponse
//	@Failure	422		{object}	ErrorResponse
//	@Router		/orders/{ref}/lines/{index} [put]
func (h *PutLineHandler) Execute(w http.ResponseWriter, r *http.Request) {
	orgID, ref, ok := scope(w, r)
	if !ok {
		return
	}
	index, ok := lineIndex(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[LineRequest](w, r)
	if !ok {
		return
	}
	op, ok := acknowledgedBy(w, r, req.AcknowledgeShortfall)
	if !ok {
		return
	}
	order, err := h.svc.Order.UpdateLine(r.Context(), orgID, ref, index, req.OrderLineDTO.toModel(), req.AcknowledgeShortfall, op)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, orderFromModel(order))
}

// DeleteLineHandler handles DELETE /orders/{ref}/lines/{index}.
type DeleteLineHandler struct {
	svc *appsvcs.Services
}

// NewDeleteLineHandler returns a DeleteLineHandler backed by the given services.
func NewDeleteLineHandler(svc *appsvcs.Services) *DeleteLineHandler {
	return &DeleteLineHandler{svc: svc}
}

// Execute removes the line at index.
//
//	@Summary	Remove order line
//	@Tags		lines
//	@Produce	json
//	@Param		ref		path		string	true	"Order reference"
//	@Param		index	path		int		true	"Line index"
//	@Success	200		{object}	OrderResponse
//	@Failure	422		{object}	ErrorResponse
//	@Router		/orders/{ref}/lines/{index} [delete]
func (h *DeleteLineHandler) Execute(w http.ResponseWriter, r *http.Request) {
	orgID, ref, ok := scope(w, r)
	if !ok {
		return
	}
	index, ok := lineIndex(w, r)
	if !ok {
		return
	}
	order, err := h.svc.Order.RemoveLine(r.Context(), orgID, ref, index)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, orderFromModel(order))
}

// StockCheckRequest optionally carries proposed lines to preview.
type StockCheckRequest struct {
	Lines []OrderLineDTO `json:"items" validate:"dive"`
} // @name StockCheckRequest

// StockCheckResponse lists lines short of stock. An empty list means the order can be submitted directly.
type StockCheckResponse struct {
	Issues []IssueDTO `json:"issues"`
} // @name StockCheckResponse

// IssueDTO is one stock shortfall.
type IssueDTO struct {
	ArticleID    string `json:"article_id"    example:"ART-DATES-1KG"`
	DepotID      string `json:"depot_id"      example:"TOZEUR"`
	ArticleLabel string `json:"article_label" example:"Deglet Nour dates 1kg"`
	DepotLabel   string `json:"depot_label"   example:"Tozeur warehouse"`
	RequestedKg  string `json:"requested_kg"  example:"100"`
	AvailableKg  string `json:"available_kg"  example:"30"`
	MissingKg    string `json:"missing_kg"    example:"70"`
	Severity     string `json:"severity"      example:"partial"`
} // @name StockIssue

// StockCheckHandler handles POST /orders/{ref}/stock-check.
type StockCheckHandler struct {
	svc *appsvcs.Services
}

// NewStockCheckHandler returns a StockCheckHandler backed by the given services.
func NewStockCheckHandler(svc *appsvcs.Services) *StockCheckHandler {
	return &StockCheckHandler{svc: svc}
}

// Execute previews stock issues. Without a body the stored lines are checked
// in full; with items they are checked as a line revision would be.
//
//	@Summary	Preview stock sufficiency
//	@Tags		submission
//	@Accept		json
//	@Produce	json
//	@Param		ref		path		string				true	"Order reference"
//	@Param		request	body		StockCheckRequest	false	"Proposed lines"
//	@Success	200		{object}	StockCheckResponse
//	@Failure	503		{object}	ErrorResponse
//	@Router		/orders/{ref}/stock-check [post]
func (h *StockCheckHandler) Execute(w http.ResponseWriter, r *http.Request) {
	orgID, ref, ok := scope(w, r)
	if !ok {
		return
	}
	var proposed []models.OrderLine
	if r.ContentLength != 0 {
		req, ok := pkgvalidator.ValidateRequest[StockCheckRequest](w, r)
		if !ok {
			return
		}
		if req.Lines != nil {
			proposed = linesToModel(req.Lines)
		}
	}
	issues, err := h.svc.Order.CheckStock(r.Context(), orgID, ref, proposed)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := StockCheckResponse{Issues: make([]IssueDTO, len(issues))}
	for i, is := range issues {
		out.Issues[i] = IssueDTO{
			ArticleID:    is.ArticleID,
			DepotID:      is.DepotID,
			ArticleLabel: is.ArticleLabel,
			DepotLabel:   is.DepotLabel,
			RequestedKg:  is.RequestedKg.String(),
			AvailableKg:  is.AvailableKg.String(),
			MissingKg:    is.MissingKg.String(),
			Severity:     string(is.Severity),
		}
	}
	httpx.JSON(w, http.StatusOK, out)
}
