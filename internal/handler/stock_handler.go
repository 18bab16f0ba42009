package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"stockfolio/backend/internal/service"
)

type createStockRequest struct {
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	PricePerUnit      float64 `json:"price_per_unit"`
	AvailableQuantity int     `json:"available_quantity"`
	Category          string  `json:"category"`
}

func (h *Handler) CreateStock(w http.ResponseWriter, r *http.Request) {
	var req createStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, nil, "invalid request body")
		return
	}

	stock, err := h.stockSvc.Create(r.Context(), currentUser(r), service.CreateStockInput{
		Name:              req.Name,
		Description:       req.Description,
		PricePerUnit:      req.PricePerUnit,
		AvailableQuantity: req.AvailableQuantity,
		Category:          req.Category,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, stock, "Stock has been created")
}

type buyStockRequest struct {
	StockID   string `json:"stockid"`
	TotalUnit int    `json:"total_unit"`
}

func (h *Handler) BuyStock(w http.ResponseWriter, r *http.Request) {
	var req buyStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, nil, "invalid request body")
		return
	}

	result, err := h.stockSvc.Buy(r.Context(), currentUser(r).ID, req.StockID, req.TotalUnit)
	if err != nil {
		writeError(w, err)
		return
	}

	message := fmt.Sprintf("Payment successful for %s by %s", result.Stock.Name, result.User.Name)
	writeJSON(w, http.StatusOK, result, message)
}

type updateStockRequest struct {
	StockID  string  `json:"stockid"`
	NewPrice float64 `json:"new_price"`
}

func (h *Handler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	var req updateStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, nil, "invalid request body")
		return
	}

	oldPrice, stock, err := h.stockSvc.UpdatePrice(r.Context(), currentUser(r), req.StockID, req.NewPrice)
	if err != nil {
		writeError(w, err)
		return
	}

	message := fmt.Sprintf("Price updated from %g to %g", oldPrice, stock.PricePerUnit)
	writeJSON(w, http.StatusOK, stock.PricePerUnit, message)
}

func (h *Handler) GetStockDetail(w http.ResponseWriter, r *http.Request) {
	stock, err := h.stockSvc.Detail(r.Context(), r.URL.Query().Get("stockid"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stock, "Stock detail fetched")
}

func (h *Handler) GetAllStocks(w http.ResponseWriter, r *http.Request) {
	stocks, err := h.stockSvc.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stocks, "All stocks fetched successfully")
}

func (h *Handler) SearchStock(w http.ResponseWriter, r *http.Request) {
	stocks, err := h.stockSvc.Search(r.Context(), r.URL.Query().Get("searchQuery"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stocks, "Data fetched successfully")
}
