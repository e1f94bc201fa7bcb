package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/bimakw/dexag-provider/internal/domain/entities"
	"github.com/bimakw/dexag-provider/internal/domain/services"
)

// RateHandler handles rate and currency-list requests
type RateHandler struct {
	provider services.Provider
}

// NewRateHandler creates a new rate handler
func NewRateHandler(provider services.Provider) *RateHandler {
	return &RateHandler{provider: provider}
}

// RateResponse represents a rate response
type RateResponse struct {
	Rates []entities.RateQuote `json:"rates"`
}

// CurrenciesResponse represents the tradable currency list
type CurrenciesResponse struct {
	Currencies []CurrencyEntry `json:"currencies"`
}

// CurrencyEntry is one tradable currency
type CurrencyEntry struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Address  string `json:"address,omitempty"`
	Decimals uint8  `json:"decimals"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// GetRate handles GET /api/v1/rate
func (h *RateHandler) GetRate(w http.ResponseWriter, r *http.Request) {
	fromToken := r.URL.Query().Get("from")
	toToken := r.URL.Query().Get("to")
	amount := r.URL.Query().Get("amount")

	if fromToken == "" || toToken == "" || amount == "" {
		h.writeError(w, http.StatusBadRequest, "missing_params", "from, to, and amount are required")
		return
	}

	if !h.provider.ValidSwap(fromToken, toToken) {
		h.writeError(w, http.StatusBadRequest, "unsupported_pair", "one or both tokens are not tradable through this provider")
		return
	}

	rates, err := h.provider.GetRate(r.Context(), fromToken, toToken, amount)
	if err != nil {
		h.writeError(w, http.StatusBadGateway, "rate_unavailable", err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, RateResponse{Rates: rates})
}

// GetCurrencies handles GET /api/v1/currencies
func (h *RateHandler) GetCurrencies(w http.ResponseWriter, r *http.Request) {
	tokens := h.provider.Currencies()

	currencies := make([]CurrencyEntry, 0, len(tokens))
	for _, token := range tokens {
		entry := CurrencyEntry{
			Symbol:   token.Symbol,
			Name:     token.Name,
			Decimals: token.Decimals,
		}
		if !token.IsNative() {
			entry.Address = token.Address.Hex()
		}
		currencies = append(currencies, entry)
	}

	h.writeJSON(w, http.StatusOK, CurrenciesResponse{Currencies: currencies})
}

func (h *RateHandler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *RateHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	h.writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: message,
	})
}
