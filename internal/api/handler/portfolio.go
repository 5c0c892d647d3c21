// internal/api/handler/portfolio.go
package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"portfolio-tracker/internal/api/types"
	"portfolio-tracker/internal/domain"
	"portfolio-tracker/internal/service"
	"portfolio-tracker/internal/util"
)

// PortfolioHandler handles HTTP requests related to a user's holdings.
// All routes sit behind RequireAuth.
type PortfolioHandler struct {
	responder
	service service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(svc service.PortfolioService, logger *slog.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		responder: responder{logger: logger},
		service:   svc,
	}
}

// AddStockRequest represents the request body for adding a holding.
type AddStockRequest struct {
	StockName string          `json:"stock_name"`
	Quantity  decimal.Decimal `json:"quantity"`
	BuyPrice  decimal.Decimal `json:"buy_price"`
}

// AddStock records a new holding.
// POST /api/portfolio/stocks
func (h *PortfolioHandler) AddStock(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		h.respondWithError(w, util.ErrUnauthorized)
		return
	}

	var req AddStockRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}

	pos, err := h.service.AddHolding(r.Context(), user.ID, req.StockName, req.Quantity, req.BuyPrice)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, types.NewHoldingResponse(*pos))
}

// ListStocks returns every holding of the user, priced.
// GET /api/portfolio/stocks
func (h *PortfolioHandler) ListStocks(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		h.respondWithError(w, util.ErrUnauthorized)
		return
	}

	positions, err := h.service.ListHoldings(r.Context(), user.ID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, types.NewHoldingResponses(positions))
}

// GetStock returns one holding.
// GET /api/portfolio/stocks/{stockID}
func (h *PortfolioHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		h.respondWithError(w, util.ErrUnauthorized)
		return
	}
	stockID, err := stockIDParam(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	pos, err := h.service.GetHolding(r.Context(), user.ID, stockID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, types.NewHoldingResponse(*pos))
}

// UpdateStock applies a partial update; absent fields keep their value.
// PUT /api/portfolio/stocks/{stockID}
func (h *PortfolioHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		h.respondWithError(w, util.ErrUnauthorized)
		return
	}
	stockID, err := stockIDParam(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	var patch domain.HoldingPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		h.respondWithError(w, err)
		return
	}

	pos, err := h.service.UpdateHolding(r.Context(), user.ID, stockID, patch)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, types.NewHoldingResponse(*pos))
}

// DeleteStock removes one holding.
// DELETE /api/portfolio/stocks/{stockID}
func (h *PortfolioHandler) DeleteStock(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		h.respondWithError(w, util.ErrUnauthorized)
		return
	}
	stockID, err := stockIDParam(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	if err := h.service.DeleteHolding(r.Context(), user.ID, stockID); err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, types.MessageResponse{Message: "Stock deleted successfully"})
}

// Summary returns portfolio totals and every priced holding.
// GET /api/portfolio/summary
func (h *PortfolioHandler) Summary(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		h.respondWithError(w, util.ErrUnauthorized)
		return
	}

	summary, err := h.service.Summary(r.Context(), user.ID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, types.NewSummaryResponse(*summary))
}

func stockIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "stockID"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid stock ID format", util.ErrInvalidInput)
	}
	return id, nil
}
