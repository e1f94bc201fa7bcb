package services

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bimakw/dexag-provider/internal/domain/entities"
	"github.com/bimakw/dexag-provider/internal/infrastructure/ethereum"
)

var (
	testToken  = common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")
	testRouter = common.HexToAddress("0x00000000000000000000000000000000000000CC")
)

func testRoute(venue string) *entities.Route {
	return &entities.Route{
		VenueID: venue,
		To:      testRouter,
		Data:    []byte{0xde, 0xad, 0xbe, 0xef},
		Value:   big.NewInt(0),
	}
}

func TestBuildApprovalTxsNone(t *testing.T) {
	assembler := NewTxAssembler()
	txs := assembler.BuildApprovalTxs(testToken, testSpender, big.NewInt(1000), entities.ApprovalDecision{})
	assert.Empty(t, txs)
}

func TestBuildApprovalTxsFreshApproval(t *testing.T) {
	assembler := NewTxAssembler()
	txs := assembler.BuildApprovalTxs(testToken, testSpender, big.NewInt(1000), entities.ApprovalDecision{NeedsApproval: true})

	require.Len(t, txs, 1)
	assert.Equal(t, testToken, txs[0].To)
	assert.Equal(t, "0", txs[0].BigValue().String())
	assert.Equal(t, []byte(ethereum.PackApprove(testSpender, big.NewInt(1000))), []byte(txs[0].Data))
	assert.Zero(t, txs[0].Gas, "a lone approval leaves gas to wallet estimation")
}

func TestBuildApprovalTxsResetThenApprove(t *testing.T) {
	assembler := NewTxAssembler()
	txs := assembler.BuildApprovalTxs(testToken, testSpender, big.NewInt(1000), entities.ApprovalDecision{NeedsApproval: true, NeedsReset: true})

	require.Len(t, txs, 2)
	// Reset to zero strictly first
	assert.Equal(t, []byte(ethereum.PackApprove(testSpender, big.NewInt(0))), []byte(txs[0].Data))
	assert.Zero(t, txs[0].Gas)
	// Then the fresh approval with the elevated fixed gas limit
	assert.Equal(t, []byte(ethereum.PackApprove(testSpender, big.NewInt(1000))), []byte(txs[1].Data))
	assert.Equal(t, uint64(approveGasLimit), txs[1].Gas)
}

func TestBuildApprovalTxsResetAndApproveDifferEvenForZeroRequired(t *testing.T) {
	assembler := NewTxAssembler()
	txs := assembler.BuildApprovalTxs(testToken, testSpender, big.NewInt(0), entities.ApprovalDecision{NeedsApproval: true, NeedsReset: true})

	require.Len(t, txs, 2)
	// Both encode approve(spender, 0) and so share an identity; assembly
	// must still collapse them rather than emit the same call twice.
	assert.Equal(t, txs[0].Key(), txs[1].Key())

	final := assembler.AssembleSwapTransactions(txs, testRoute("ag"))
	assert.Len(t, final, 2, "duplicate approvals collapse, swap call appended")
}

func TestAssembleSwapTransactionsOrdering(t *testing.T) {
	assembler := NewTxAssembler()
	approvals := assembler.BuildApprovalTxs(testToken, testSpender, big.NewInt(1000), entities.ApprovalDecision{NeedsApproval: true, NeedsReset: true})

	final := assembler.AssembleSwapTransactions(approvals, testRoute("ag"))
	require.Len(t, final, 3)
	assert.Equal(t, []byte(ethereum.PackApprove(testSpender, big.NewInt(0))), []byte(final[0].Data))
	assert.Equal(t, []byte(ethereum.PackApprove(testSpender, big.NewInt(1000))), []byte(final[1].Data))
	assert.Equal(t, testRouter, final[2].To)
}

func TestAssembleSwapTransactionsGasPolicy(t *testing.T) {
	assembler := NewTxAssembler()
	approvals := assembler.BuildApprovalTxs(testToken, testSpender, big.NewInt(1000), entities.ApprovalDecision{NeedsApproval: true})

	tests := []struct {
		venue string
		gas   uint64
	}{
		{venue: "curvefi", gas: 2000000},
		{venue: "zero_x", gas: 1000000},
		{venue: "uniswap", gas: 500000},
		{venue: "ag", gas: 500000},
	}

	for _, tt := range tests {
		t.Run(tt.venue, func(t *testing.T) {
			final := assembler.AssembleSwapTransactions(approvals, testRoute(tt.venue))
			require.Len(t, final, 2)
			assert.Equal(t, tt.gas, final[1].Gas)
		})
	}
}

func TestAssembleSwapTransactionsNoApprovalsLeavesGasUnset(t *testing.T) {
	assembler := NewTxAssembler()
	final := assembler.AssembleSwapTransactions(nil, testRoute("curvefi"))

	require.Len(t, final, 1)
	assert.Zero(t, final[0].Gas, "without approvals the wallet estimates swap gas")
}

func TestAssembleSwapTransactionsCopiesGasPrice(t *testing.T) {
	assembler := NewTxAssembler()

	route := testRoute("ag")
	route.GasPrice = big.NewInt(42_000_000_000)
	final := assembler.AssembleSwapTransactions(nil, route)
	require.Len(t, final, 1)
	require.NotNil(t, final[0].GasPrice)
	assert.Equal(t, "42000000000", final[0].GasPrice.ToInt().String())

	final = assembler.AssembleSwapTransactions(nil, testRoute("ag"))
	assert.Nil(t, final[0].GasPrice, "gas price only set when metadata provides one")
}
