package handlers

import (
	"encoding/json"
	"errors"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"

	"github.com/bimakw/dexag-provider/internal/domain/entities"
	"github.com/bimakw/dexag-provider/internal/domain/services"
)

// SwapHandler handles swap initiation and order-status requests
type SwapHandler struct {
	provider services.Provider
}

// NewSwapHandler creates a new swap handler
func NewSwapHandler(provider services.Provider) *SwapHandler {
	return &SwapHandler{provider: provider}
}

// SwapRequest represents a swap initiation request
type SwapRequest struct {
	FromToken   string `json:"fromToken"`
	ToToken     string `json:"toToken"`
	FromAmount  string `json:"fromAmount"` // base units
	FromAddress string `json:"fromAddress"`
	Venue       string `json:"venue,omitempty"`
}

// OrderStatusResponse represents an order status response
type OrderStatusResponse struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// StartSwap handles POST /api/v1/swap
func (h *SwapHandler) StartSwap(w http.ResponseWriter, r *http.Request) {
	var req SwapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_body", "request body is not valid JSON")
		return
	}

	if req.FromToken == "" || req.ToToken == "" || req.FromAmount == "" {
		h.writeError(w, http.StatusBadRequest, "missing_params", "fromToken, toToken, and fromAmount are required")
		return
	}
	if !common.IsHexAddress(req.FromAddress) {
		h.writeError(w, http.StatusBadRequest, "invalid_address", "fromAddress is not a valid address")
		return
	}
	fromAmount, ok := new(big.Int).SetString(req.FromAmount, 10)
	if !ok || fromAmount.Sign() <= 0 {
		h.writeError(w, http.StatusBadRequest, "invalid_amount", "fromAmount must be a positive integer in base units")
		return
	}

	pending, err := h.provider.StartSwap(r.Context(), entities.SwapRequest{
		FromToken:   req.FromToken,
		ToToken:     req.ToToken,
		FromAmount:  fromAmount,
		FromAddress: common.HexToAddress(req.FromAddress),
		Venue:       req.Venue,
	})
	if err != nil {
		switch {
		case errors.Is(err, entities.ErrUnknownToken):
			h.writeError(w, http.StatusBadRequest, "unknown_token", err.Error())
		case errors.Is(err, services.ErrSwapAborted):
			h.writeError(w, http.StatusBadGateway, "swap_aborted", "the quote service rejected the swap attempt")
		default:
			h.writeError(w, http.StatusInternalServerError, "swap_failed", err.Error())
		}
		return
	}

	h.writeJSON(w, http.StatusOK, pending)
}

// GetOrderStatus handles GET /api/v1/orders/{orderID}/status
func (h *SwapHandler) GetOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	if orderID == "" {
		h.writeError(w, http.StatusBadRequest, "missing_order_id", "orderID is required")
		return
	}

	status, err := h.provider.GetOrderStatus(r.Context(), orderID)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "status_unavailable", err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, OrderStatusResponse{
		OrderID: orderID,
		Status:  string(status),
	})
}

func (h *SwapHandler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *SwapHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	h.writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: message,
	})
}
