package entities

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ErrUnknownToken is returned when a symbol is not present in the registry.
// Lookups never default to zero decimals; an unregistered token is fatal to
// the current operation.
var ErrUnknownToken = errors.New("token not included in dexag list of tokens")

// NativeSymbol is the base currency of the network. It has no contract
// address and never requires an allowance.
const NativeSymbol = "ETH"

// Token describes one tradable asset
type Token struct {
	Symbol   string         `json:"symbol"`
	Name     string         `json:"name"`
	Address  common.Address `json:"address"`
	Decimals uint8          `json:"decimals"`
}

// IsNative reports whether the token is the network's base currency
// (address is the zero sentinel).
func (t Token) IsNative() bool {
	return t.Address == (common.Address{})
}

// ETH is the native asset sentinel
var ETH = Token{
	Symbol:   "ETH",
	Name:     "Ether",
	Decimals: 18,
}

// WETH is the canonical Wrapped Ether token on Ethereum mainnet
var WETH = Token{
	Address:  common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"),
	Symbol:   "WETH",
	Name:     "Wrapped Ether",
	Decimals: 18,
}

// USDC is USD Coin on Ethereum mainnet
var USDC = Token{
	Address:  common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"),
	Symbol:   "USDC",
	Name:     "USD Coin",
	Decimals: 6,
}

// USDT is Tether USD on Ethereum mainnet
var USDT = Token{
	Address:  common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7"),
	Symbol:   "USDT",
	Name:     "Tether USD",
	Decimals: 6,
}

// DAI is Dai Stablecoin on Ethereum mainnet
var DAI = Token{
	Address:  common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F"),
	Symbol:   "DAI",
	Name:     "Dai Stablecoin",
	Decimals: 18,
}

// TokenConfig represents one token entry as served by the aggregator's
// supported-currencies endpoint
type TokenConfig struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals uint8  `json:"decimals"`
}

// TokenRegistry holds tradable tokens indexed by symbol
type TokenRegistry struct {
	bySymbol map[string]Token
	all      []Token
}

// NewTokenRegistry creates an empty token registry
func NewTokenRegistry() *TokenRegistry {
	return &TokenRegistry{
		bySymbol: make(map[string]Token),
	}
}

// LoadFromConfigs validates and registers a fetched currency list. Entries
// must carry a symbol and either a valid hex contract address or the native
// symbol with no address; anything else is rejected so a malformed feed
// cannot poison decimal lookups.
func (r *TokenRegistry) LoadFromConfigs(configs []TokenConfig) error {
	for _, tc := range configs {
		if tc.Symbol == "" {
			return fmt.Errorf("currency entry with empty symbol")
		}
		token := Token{
			Symbol:   tc.Symbol,
			Name:     tc.Name,
			Decimals: tc.Decimals,
		}
		switch {
		case tc.Symbol == NativeSymbol && tc.Address == "":
			// native sentinel keeps the zero address
		case common.IsHexAddress(tc.Address):
			token.Address = common.HexToAddress(tc.Address)
		default:
			return fmt.Errorf("currency %s has invalid address %q", tc.Symbol, tc.Address)
		}
		r.Register(token)
	}
	return nil
}

// Register adds a token to the registry
func (r *TokenRegistry) Register(token Token) {
	if _, exists := r.bySymbol[token.Symbol]; !exists {
		r.all = append(r.all, token)
	}
	r.bySymbol[token.Symbol] = token
}

// Get returns a token by symbol, or ErrUnknownToken
func (r *TokenRegistry) Get(symbol string) (Token, error) {
	token, ok := r.bySymbol[symbol]
	if !ok {
		return Token{}, fmt.Errorf("token [%s]: %w", symbol, ErrUnknownToken)
	}
	return token, nil
}

// Has reports whether a symbol is registered
func (r *TokenRegistry) Has(symbol string) bool {
	_, ok := r.bySymbol[symbol]
	return ok
}

// GetAll returns all registered tokens
func (r *TokenRegistry) GetAll() []Token {
	return r.all
}

// Count returns the number of registered tokens
func (r *TokenRegistry) Count() int {
	return len(r.all)
}

// DefaultRegistry returns a registry with the bundled default tokens.
// Used as fallback when the supported-currencies fetch fails at startup.
func DefaultRegistry() *TokenRegistry {
	r := NewTokenRegistry()
	r.Register(ETH)
	r.Register(WETH)
	r.Register(USDC)
	r.Register(USDT)
	r.Register(DAI)
	return r
}
