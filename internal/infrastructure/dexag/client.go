package dexag

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bimakw/dexag-provider/internal/domain/entities"
)

// ErrQuoteService is returned when the aggregator reports a failure for a
// trade request. The swap attempt must abort; no partial transaction list
// is ever produced from a failed trade response.
var ErrQuoteService = errors.New("quote service error")

// DefaultBaseURL is the aggregator API endpoint
const DefaultBaseURL = "https://api-v2.dex.ag"

// Client talks to the dex.ag aggregator API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new aggregator API client
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// PriceQuote is one venue's price for a pair as returned by the price
// endpoint
type PriceQuote struct {
	Dex   string `json:"dex"`
	Price string `json:"price"`
}

// Trade is the raw swap call returned by the trade endpoint
type Trade struct {
	To    string `json:"to"`
	Data  string `json:"data"`
	Value string `json:"value"`
}

// TradeInput describes the token the user spends
type TradeInput struct {
	Address string `json:"address"`
	Amount  string `json:"amount"`
	Spender string `json:"spender,omitempty"`
}

// TradeQuery echoes the resolved quote for the trade
type TradeQuery struct {
	ToAmount string `json:"toAmount"`
}

// TradeMetadata carries the trade's input token, resolved amounts and an
// optional suggested gas price. Input is absent for native-asset swaps.
type TradeMetadata struct {
	Input    *TradeInput `json:"input,omitempty"`
	Query    TradeQuery  `json:"query"`
	GasPrice string      `json:"gasPrice,omitempty"`
}

// TradeResponse is the full trade endpoint response. Error is set when the
// service could not construct the trade.
type TradeResponse struct {
	Trade    Trade         `json:"trade"`
	Metadata TradeMetadata `json:"metadata"`
	Error    string        `json:"error,omitempty"`
}

// TradeRequest asks the aggregator to construct a swap through one venue
type TradeRequest struct {
	Dex         string `json:"dex"`
	FromToken   string `json:"from"`
	ToToken     string `json:"to"`
	FromAmount  string `json:"fromAmount"`
	FromAddress string `json:"fromAddress"`
}

// GetPrice fetches candidate prices for a pair from every venue
func (c *Client) GetPrice(ctx context.Context, fromToken, toToken, fromAmount string) ([]PriceQuote, error) {
	query := url.Values{}
	query.Set("from", fromToken)
	query.Set("to", toToken)
	query.Set("fromAmount", fromAmount)
	query.Set("dex", "all")

	var quotes []PriceQuote
	if err := c.get(ctx, "/price?"+query.Encode(), &quotes); err != nil {
		return nil, fmt.Errorf("failed to get price: %w", err)
	}
	return quotes, nil
}

// CreateTransaction asks the aggregator to build the swap call for one
// venue. A service-reported error is returned as ErrQuoteService.
func (c *Client) CreateTransaction(ctx context.Context, req TradeRequest) (*TradeResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode trade request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/trade", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("trade request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read trade response: %w", err)
	}

	var trade TradeResponse
	if err := json.Unmarshal(data, &trade); err != nil {
		return nil, fmt.Errorf("failed to parse trade response: %w", err)
	}
	if trade.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrQuoteService, trade.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: trade endpoint returned status %d", ErrQuoteService, resp.StatusCode)
	}

	return &trade, nil
}

// SupportedDexes fetches the venue allowlist
func (c *Client) SupportedDexes(ctx context.Context) ([]string, error) {
	var dexes []string
	if err := c.get(ctx, "/dexes", &dexes); err != nil {
		return nil, fmt.Errorf("failed to get supported dexes: %w", err)
	}
	return dexes, nil
}

// SupportedCurrencies fetches the tradable token list
func (c *Client) SupportedCurrencies(ctx context.Context) ([]entities.TokenConfig, error) {
	var currencies []entities.TokenConfig
	if err := c.get(ctx, "/token-list-full", &currencies); err != nil {
		return nil, fmt.Errorf("failed to get supported currencies: %w", err)
	}
	return currencies, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API returned status code %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
