package entities

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// SwapStatus is the lifecycle state of a pending swap. This provider only
// ever produces "pending"; later transitions belong to the wallet host.
type SwapStatus string

const (
	StatusPending SwapStatus = "pending"
)

// SwapRequest describes one swap attempt. Immutable once passed in.
type SwapRequest struct {
	FromToken   string         `json:"fromToken"`
	ToToken     string         `json:"toToken"`
	FromAmount  *big.Int       `json:"fromAmount"` // base units
	FromAddress common.Address `json:"fromAddress"`
	Venue       string         `json:"venue,omitempty"` // preferred venue, optional
}

// Route is one priced, executable route produced by the aggregator's
// transaction-construction service.
type Route struct {
	VenueID  string
	To       common.Address
	Data     []byte
	Value    *big.Int
	Spender  common.Address // zero when the service supplied none
	ToAmount string         // base units the venue quotes back
	GasPrice *big.Int       // optional service-suggested gas price
}

// ApprovalDecision is the outcome of the approval planner: whether a fresh
// approval is required, and whether the existing non-zero allowance must be
// reset to zero first.
type ApprovalDecision struct {
	NeedsApproval bool `json:"needsApproval"`
	NeedsReset    bool `json:"needsReset"`
}

// RateQuote is one venue's quoted rate for a pair
type RateQuote struct {
	FromToken string `json:"fromToken"`
	ToToken   string `json:"toToken"`
	Provider  string `json:"provider"`
	Rate      string `json:"rate"`
	Source    string `json:"source"`
}

// PendingSwap is the provider's primary deliverable: the ordered transaction
// sequence for one swap, plus the metadata the wallet needs to present and
// broadcast it.
type PendingSwap struct {
	ID               string         `json:"id"`
	FromToken        string         `json:"fromToken"`
	ToToken          string         `json:"toToken"`
	ProviderReceives string         `json:"providerReceives"`
	ProviderSends    string         `json:"providerSends"`
	SpenderAddress   common.Address `json:"spenderAddress"`
	Transactions     []Transaction  `json:"transactions"`
	Status           SwapStatus     `json:"status"`
	ValidFor         time.Duration  `json:"validFor"`
	Timestamp        time.Time      `json:"timestamp"`
	IsDex            bool           `json:"isDex"`
}
