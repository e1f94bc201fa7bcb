package services

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/bimakw/dexag-provider/internal/domain/entities"
	"github.com/bimakw/dexag-provider/internal/infrastructure/ethereum"
)

// approveGasLimit is the fixed gas limit set on the fresh approval when it
// follows a reset; the reset+approve pair costs more than a lone approval
// and wallet estimation against the pre-reset state undershoots it.
const approveGasLimit = 50000

// Fixed swap gas limits applied when approval transactions precede the
// swap. Estimation would run against pre-approval state and fail, so known
// heavy venues get a higher fixed limit.
var swapGasByVenue = map[string]uint64{
	"curvefi": 2000000,
	"zero_x":  1000000,
}

// defaultSwapGas is the fixed swap gas limit for venues without a known
// gas profile
const defaultSwapGas = 500000

// TxAssembler combines planned approvals with the swap call into the
// ordered, deduplicated transaction sequence the wallet signs.
type TxAssembler struct{}

// NewTxAssembler creates a new transaction assembler
func NewTxAssembler() *TxAssembler {
	return &TxAssembler{}
}

// BuildApprovalTxs encodes the approval transaction(s) the decision calls
// for. A reset approval for amount zero always precedes the fresh approval.
func (a *TxAssembler) BuildApprovalTxs(token, spender common.Address, required *big.Int, decision entities.ApprovalDecision) []entities.Transaction {
	if !decision.NeedsApproval {
		return nil
	}

	var txs []entities.Transaction
	if decision.NeedsReset {
		txs = append(txs, approveTx(token, spender, new(big.Int), false))
		txs = append(txs, approveTx(token, spender, required, true))
	} else {
		txs = append(txs, approveTx(token, spender, required, false))
	}
	return txs
}

// AssembleSwapTransactions appends the swap call after the approvals and
// returns the final ordered list, collapsing duplicate (to, data, value)
// entries while preserving first-seen order. When approvals are present the
// swap gas is fixed by venue policy; otherwise it is left unset for the
// wallet to estimate.
func (a *TxAssembler) AssembleSwapTransactions(approvals []entities.Transaction, route *entities.Route) []entities.Transaction {
	swapTx := entities.Transaction{
		To:    route.To,
		Data:  route.Data,
		Value: (*hexutil.Big)(bigOrZero(route.Value)),
	}
	if route.GasPrice != nil {
		swapTx.GasPrice = (*hexutil.Big)(route.GasPrice)
	}
	if len(approvals) > 0 {
		swapTx.Gas = SwapGasForVenue(route.VenueID)
	}

	list := entities.NewTxList()
	for _, tx := range approvals {
		list.Append(tx)
	}
	list.Append(swapTx)

	return list.Items()
}

// SwapGasForVenue returns the fixed swap gas limit for a venue
func SwapGasForVenue(venueID string) uint64 {
	if gas, ok := swapGasByVenue[venueID]; ok {
		return gas
	}
	return defaultSwapGas
}

func approveTx(token, spender common.Address, amount *big.Int, higherGasLimit bool) entities.Transaction {
	tx := entities.Transaction{
		To:    token,
		Data:  ethereum.PackApprove(spender, amount),
		Value: (*hexutil.Big)(new(big.Int)),
	}
	if higherGasLimit {
		tx.Gas = approveGasLimit
	}
	return tx
}

func bigOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
