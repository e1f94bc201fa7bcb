package ethereum

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackApprove(t *testing.T) {
	spender := common.HexToAddress("0x00000000000000000000000000000000000000BB")
	amount := big.NewInt(1000)

	data := PackApprove(spender, amount)
	require.Len(t, data, 68)

	assert.Equal(t, approveSelector, data[0:4])
	assert.Equal(t, spender.Bytes(), data[16:36])
	assert.Equal(t, amount, new(big.Int).SetBytes(data[36:68]))
}

func TestPackApproveZeroAmount(t *testing.T) {
	spender := common.HexToAddress("0x00000000000000000000000000000000000000BB")

	data := PackApprove(spender, new(big.Int))
	require.Len(t, data, 68)
	assert.Equal(t, int64(0), new(big.Int).SetBytes(data[36:68]).Int64())
}

func TestPackApproveLargeAmount(t *testing.T) {
	spender := common.HexToAddress("0x00000000000000000000000000000000000000BB")
	amount, ok := new(big.Int).SetString("115792089237316195423570985008687907853269984665640564039457584007913129639935", 10) // 2^256-1
	require.True(t, ok)

	data := PackApprove(spender, amount)
	require.Len(t, data, 68)
	assert.Equal(t, amount, new(big.Int).SetBytes(data[36:68]))
}
