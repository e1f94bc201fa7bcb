package services

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bimakw/dexag-provider/internal/domain/entities"
	"github.com/bimakw/dexag-provider/internal/infrastructure/cache"
	"github.com/bimakw/dexag-provider/internal/infrastructure/dexag"
)

// ProviderName identifies this provider to the wallet host
const ProviderName = "dexag"

// SwapValidFor is the validity window stamped on every pending swap
const SwapValidFor = 10 * time.Minute

const (
	venuesCacheTTL = 10 * time.Minute
	ratesCacheTTL  = 10 * time.Second
)

// AggregatorAPI is the external quote and transaction-construction service
type AggregatorAPI interface {
	GetPrice(ctx context.Context, fromToken, toToken, fromAmount string) ([]dexag.PriceQuote, error)
	CreateTransaction(ctx context.Context, req dexag.TradeRequest) (*dexag.TradeResponse, error)
	SupportedDexes(ctx context.Context) ([]string, error)
	SupportedCurrencies(ctx context.Context) ([]entities.TokenConfig, error)
}

// GasPricer suggests a network gas price for swap calls whose trade
// metadata does not carry one.
type GasPricer interface {
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
}

// SwapService is the dexag swap provider: it quotes rates through the
// aggregator and, on commit, assembles the approval and swap transactions
// for one swap attempt.
type SwapService struct {
	api       AggregatorAPI
	planner   *ApprovalPlanner
	assembler *TxAssembler
	spenders  SpenderResolver
	gasPrices GasPricer
	cache     cache.Cache
	notifier  Notifier
	log       zerolog.Logger

	mu       sync.RWMutex
	registry *entities.TokenRegistry
	venues   []string
	hasRates bool
}

// NewSwapService creates the provider. The bundled venue allowlist and
// token registry are installed up front so the service is usable before
// Ready completes; Ready replaces them with live data when it can.
func NewSwapService(
	api AggregatorAPI,
	planner *ApprovalPlanner,
	assembler *TxAssembler,
	spenders SpenderResolver,
	gasPrices GasPricer,
	c cache.Cache,
	notifier Notifier,
	log zerolog.Logger,
) *SwapService {
	return &SwapService{
		api:       api,
		planner:   planner,
		assembler: assembler,
		spenders:  spenders,
		gasPrices: gasPrices,
		cache:     c,
		notifier:  notifier,
		log:       log.With().Str("provider", ProviderName).Logger(),
		registry:  dexag.DefaultCurrencies(),
		venues:    dexag.DefaultSupportedDexes,
	}
}

// Name returns the provider identifier
func (s *SwapService) Name() string {
	return ProviderName
}

// IsDex reports that this is a DEX-type provider rather than a
// custodial/fiat one
func (s *SwapService) IsDex() bool {
	return true
}

// Ready performs the second phase of initialization: it loads the supported
// venue allowlist and the tradable currency list. Both fetches fail soft to
// the bundled defaults; failures are logged and never surfaced to the user.
// The host must await Ready before trusting rate or currency data.
func (s *SwapService) Ready(ctx context.Context) {
	s.loadVenues(ctx)
	s.loadCurrencies(ctx)
}

func (s *SwapService) loadVenues(ctx context.Context) {
	if s.cache != nil {
		if venues, err := s.cache.GetVenues(ctx, cache.VenuesCacheKey()); err == nil && len(venues) > 0 {
			s.mu.Lock()
			s.venues = venues
			s.mu.Unlock()
			return
		}
	}

	venues, err := s.api.SupportedDexes(ctx)
	if err != nil || len(venues) == 0 {
		s.log.Warn().Err(err).Msg("supported-dexes fetch failed, keeping bundled venue list")
		return
	}

	s.mu.Lock()
	s.venues = venues
	s.mu.Unlock()

	if s.cache != nil {
		_ = s.cache.SetVenues(ctx, cache.VenuesCacheKey(), venues, venuesCacheTTL)
	}
}

func (s *SwapService) loadCurrencies(ctx context.Context) {
	configs, err := s.api.SupportedCurrencies(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("supported-currencies fetch failed, keeping bundled token list")
		return
	}

	registry := entities.NewTokenRegistry()
	if err := registry.LoadFromConfigs(configs); err != nil {
		s.log.Warn().Err(err).Msg("supported-currencies list rejected, keeping bundled token list")
		return
	}
	if registry.Count() == 0 {
		s.log.Warn().Msg("supported-currencies list empty, keeping bundled token list")
		return
	}

	s.mu.Lock()
	s.registry = registry
	s.hasRates = true
	s.mu.Unlock()

	s.log.Info().Int("currencies", registry.Count()).Msg("currency list loaded")
}

// RatesRetrieved reports whether live currency data has landed
func (s *SwapService) RatesRetrieved() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasRates && s.registry.Count() > 0
}

// Currencies returns the tradable token list
func (s *SwapService) Currencies() []entities.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry.GetAll()
}

// ValidSwap reports whether both symbols are tradable through this provider
func (s *SwapService) ValidSwap(fromToken, toToken string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry.Has(fromToken) && s.registry.Has(toToken)
}

// Registry returns the current token registry
func (s *SwapService) Registry() *entities.TokenRegistry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry
}

// GetRate fetches candidate rates for a pair. Every quoted venue is
// reported: venues missing from the allowlist keep their entry but carry
// rate 0, so the caller can see the quote exists without treating it as
// executable.
func (s *SwapService) GetRate(ctx context.Context, fromToken, toToken, fromAmount string) ([]entities.RateQuote, error) {
	cacheKey := cache.RatesCacheKey(fromToken, toToken, fromAmount)
	if s.cache != nil {
		if rates, err := s.cache.GetRates(ctx, cacheKey); err == nil && rates != nil {
			return rates, nil
		}
	}

	quotes, err := s.api.GetPrice(ctx, fromToken, toToken, fromAmount)
	if err != nil {
		return nil, fmt.Errorf("failed to get rate for %s/%s: %w", fromToken, toToken, err)
	}

	rates := make([]entities.RateQuote, 0, len(quotes))
	for _, quote := range quotes {
		rate := "0"
		if s.venueSupported(quote.Dex) {
			rate = quote.Price
		}
		provider := quote.Dex
		if provider == dexag.AggregatorVenue {
			provider = ProviderName
		}
		rates = append(rates, entities.RateQuote{
			FromToken: fromToken,
			ToToken:   toToken,
			Provider:  provider,
			Rate:      rate,
			Source:    ProviderName,
		})
	}

	if s.cache != nil {
		_ = s.cache.SetRates(ctx, cacheKey, rates, ratesCacheTTL)
	}

	return rates, nil
}

// StartSwap runs one swap attempt end to end: obtain the trade from the
// aggregator, plan approvals against the current allowance, and assemble
// the transaction sequence. Any quote-service failure aborts the attempt;
// the caller retries by invoking StartSwap again.
func (s *SwapService) StartSwap(ctx context.Context, req entities.SwapRequest) (*entities.PendingSwap, error) {
	fromToken, err := s.Registry().Get(req.FromToken)
	if err != nil {
		s.log.Error().Err(err).Str("token", req.FromToken).Msg("unknown from token")
		return nil, err
	}

	fromHuman, err := s.Registry().ToHumanUnits(req.FromToken, req.FromAmount.String())
	if err != nil {
		return nil, err
	}

	venue := req.Venue
	if venue == "" {
		venue = dexag.AggregatorVenue
	} else if !s.venueSupported(venue) {
		// A venue the aggregator no longer lists still has a quote path
		// through the aggregator's own routing.
		s.log.Info().
			Str("requested", req.Venue).
			Str("substituted", dexag.AggregatorVenue).
			Msg("requested venue unsupported, falling back to aggregator venue")
		venue = dexag.AggregatorVenue
	}

	trade, err := s.api.CreateTransaction(ctx, dexag.TradeRequest{
		Dex:         venue,
		FromToken:   req.FromToken,
		ToToken:     req.ToToken,
		FromAmount:  fromHuman,
		FromAddress: req.FromAddress.Hex(),
	})
	if err != nil {
		s.log.Error().Err(err).Str("venue", venue).Msg("transaction construction failed")
		s.notifier.Notify(err)
		return nil, ErrSwapAborted
	}

	// The gas policy keys on the venue the caller asked for: a trade
	// rerouted through the aggregator still executes that venue's pools.
	gasVenue := venue
	if req.Venue != "" {
		gasVenue = req.Venue
	}

	route, err := s.parseRoute(gasVenue, trade)
	if err != nil {
		return nil, err
	}

	if route.GasPrice == nil && s.gasPrices != nil {
		if gasPrice, err := s.gasPrices.SuggestGasPrice(ctx); err == nil {
			route.GasPrice = gasPrice
		} else {
			s.log.Warn().Err(err).Msg("gas price suggestion failed, leaving gas price unset")
		}
	}

	transactions, err := s.planTransactions(ctx, fromToken, req, trade, route)
	if err != nil {
		return nil, err
	}

	// A committed trade stales the quote it was built from; drop the cached
	// rate for this pair and amount so the next lookup refetches.
	if s.cache != nil {
		_ = s.cache.Delete(ctx, cache.RatesCacheKey(req.FromToken, req.ToToken, fromHuman))
	}

	// The recorded spender prefers the explicit metadata spender and falls
	// back to the swap call's destination.
	spender := route.To
	if route.Spender != (common.Address{}) {
		spender = route.Spender
	}

	return &entities.PendingSwap{
		ID:               uuid.NewString(),
		FromToken:        req.FromToken,
		ToToken:          req.ToToken,
		ProviderReceives: fromHuman,
		ProviderSends:    route.ToAmount,
		SpenderAddress:   spender,
		Transactions:     transactions,
		Status:           entities.StatusPending,
		ValidFor:         SwapValidFor,
		Timestamp:        time.Now().UTC(),
		IsDex:            s.IsDex(),
	}, nil
}

// GetOrderStatus reports the provider-side status of an order. This
// provider hands the transactions to the wallet and never advances them
// past pending.
func (s *SwapService) GetOrderStatus(ctx context.Context, orderID string) (entities.SwapStatus, error) {
	return entities.StatusPending, nil
}

func (s *SwapService) planTransactions(ctx context.Context, fromToken entities.Token, req entities.SwapRequest, trade *dexag.TradeResponse, route *entities.Route) ([]entities.Transaction, error) {
	var approvals []entities.Transaction

	if !fromToken.IsNative() {
		// Allowance checks and approvals target the canonical approval
		// handler behind the proxy, not the per-trade spender.
		handler, err := s.spenders.ApprovalHandler(ctx)
		if err != nil {
			return nil, err
		}

		tokenAddr := fromToken.Address
		required := req.FromAmount
		if trade.Metadata.Input != nil {
			if common.IsHexAddress(trade.Metadata.Input.Address) {
				tokenAddr = common.HexToAddress(trade.Metadata.Input.Address)
			}
			if amount, err := parseBig(trade.Metadata.Input.Amount); err == nil && amount.Sign() > 0 {
				required = amount
			}
		}

		// The allowance must be read on the contract the approval will be
		// issued against, which the trade metadata may override.
		planToken := fromToken
		planToken.Address = tokenAddr
		decision, err := s.planner.PlanApproval(ctx, planToken, req.FromAddress, handler, required)
		if err != nil {
			return nil, err
		}

		approvals = s.assembler.BuildApprovalTxs(tokenAddr, handler, required, decision)
	}

	return s.assembler.AssembleSwapTransactions(approvals, route), nil
}

func (s *SwapService) parseRoute(venue string, trade *dexag.TradeResponse) (*entities.Route, error) {
	if !common.IsHexAddress(trade.Trade.To) {
		return nil, fmt.Errorf("trade destination is not a valid address: %q", trade.Trade.To)
	}

	data, err := decodeHex(trade.Trade.Data)
	if err != nil {
		return nil, fmt.Errorf("invalid trade calldata: %w", err)
	}

	value, err := parseBig(trade.Trade.Value)
	if err != nil {
		return nil, fmt.Errorf("invalid trade value: %w", err)
	}

	route := &entities.Route{
		VenueID:  venue,
		To:       common.HexToAddress(trade.Trade.To),
		Data:     data,
		Value:    value,
		ToAmount: trade.Metadata.Query.ToAmount,
	}

	if trade.Metadata.Input != nil && common.IsHexAddress(trade.Metadata.Input.Spender) {
		route.Spender = common.HexToAddress(trade.Metadata.Input.Spender)
	}
	if trade.Metadata.GasPrice != "" {
		gasPrice, err := parseBig(trade.Metadata.GasPrice)
		if err != nil {
			return nil, fmt.Errorf("invalid gas price: %w", err)
		}
		route.GasPrice = gasPrice
	}

	return route, nil
}

func (s *SwapService) venueSupported(venue string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.venues {
		if v == venue {
			return true
		}
	}
	return false
}

// parseBig parses a decimal or 0x-prefixed hex integer string; empty means
// zero
func parseBig(value string) (*big.Int, error) {
	if value == "" {
		return new(big.Int), nil
	}
	if strings.HasPrefix(value, "0x") || strings.HasPrefix(value, "0X") {
		return hexutil.DecodeBig(value)
	}
	parsed, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("not an integer: %q", value)
	}
	return parsed, nil
}

func decodeHex(value string) ([]byte, error) {
	if value == "" {
		return nil, nil
	}
	if !strings.HasPrefix(value, "0x") {
		value = "0x" + value
	}
	return hexutil.Decode(value)
}
