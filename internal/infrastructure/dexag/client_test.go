package dexag

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/price", r.URL.Path)
		assert.Equal(t, "ETH", r.URL.Query().Get("from"))
		assert.Equal(t, "DAI", r.URL.Query().Get("to"))
		assert.Equal(t, "1.5", r.URL.Query().Get("fromAmount"))
		assert.Equal(t, "all", r.URL.Query().Get("dex"))
		json.NewEncoder(w).Encode([]PriceQuote{
			{Dex: "ag", Price: "2990.1"},
			{Dex: "uniswap", Price: "2989.5"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	quotes, err := client.GetPrice(context.Background(), "ETH", "DAI", "1.5")
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, "ag", quotes[0].Dex)
	assert.Equal(t, "2990.1", quotes[0].Price)
}

func TestCreateTransaction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/trade", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req TradeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "uniswap", req.Dex)
		assert.Equal(t, "ETH", req.FromToken)

		json.NewEncoder(w).Encode(TradeResponse{
			Trade: Trade{
				To:    "0x0000000000000000000000000000000000000001",
				Data:  "0xdeadbeef",
				Value: "1500000000000000000",
			},
			Metadata: TradeMetadata{
				Query: TradeQuery{ToAmount: "2990"},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	trade, err := client.CreateTransaction(context.Background(), TradeRequest{
		Dex:         "uniswap",
		FromToken:   "ETH",
		ToToken:     "DAI",
		FromAmount:  "1.5",
		FromAddress: "0x0000000000000000000000000000000000000002",
	})
	require.NoError(t, err)
	assert.Equal(t, "0xdeadbeef", trade.Trade.Data)
	assert.Equal(t, "2990", trade.Metadata.Query.ToAmount)
}

func TestCreateTransactionServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(TradeResponse{Error: "insufficient liquidity"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.CreateTransaction(context.Background(), TradeRequest{Dex: "ag"})
	assert.ErrorIs(t, err, ErrQuoteService)
	assert.Contains(t, err.Error(), "insufficient liquidity")
}

func TestSupportedDexes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/dexes", r.URL.Path)
		json.NewEncoder(w).Encode([]string{"ag", "uniswap", "curvefi"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	dexes, err := client.SupportedDexes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"ag", "uniswap", "curvefi"}, dexes)
}

func TestSupportedDexesHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.SupportedDexes(context.Background())
	assert.Error(t, err)
}

func TestSupportedCurrencies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/token-list-full", r.URL.Path)
		w.Write([]byte(`[{"symbol":"ETH","name":"Ether","decimals":18},{"symbol":"DAI","name":"Dai Stablecoin","address":"0x6B175474E89094C44Da98b954EedeAC495271d0F","decimals":18}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	currencies, err := client.SupportedCurrencies(context.Background())
	require.NoError(t, err)
	require.Len(t, currencies, 2)
	assert.Equal(t, "DAI", currencies[1].Symbol)
	assert.Equal(t, uint8(18), currencies[1].Decimals)
}
