package ethereum

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

// ERC-20 and proxy function selectors (first 4 bytes of the keccak256 hash
// of the function signature)
var (
	// approve(address,uint256) returns (bool)
	approveSelector = common.Hex2Bytes("095ea7b3")
	// allowance(address,address) returns (uint256)
	allowanceSelector = common.Hex2Bytes("dd62ed3e")
	// approvalHandler() returns (address)
	approvalHandlerSelector = common.Hex2Bytes("2922a751")
)

// ProxyContractAddress is the aggregator's fixed proxy contract. Its
// approvalHandler() view call resolves the canonical spender that allowance
// checks and approvals must target.
var ProxyContractAddress = common.HexToAddress("0x745DaA146934B27e3F0b6bFf1A6e36b9B90FB131")

// ERC20Caller reads token allowances and encodes approval calls
type ERC20Caller struct {
	ethClient *Client
	proxy     common.Address
}

// NewERC20Caller creates a new ERC-20 caller against the default proxy
func NewERC20Caller(ethClient *Client) *ERC20Caller {
	return &ERC20Caller{
		ethClient: ethClient,
		proxy:     ProxyContractAddress,
	}
}

// Allowance reads the current on-chain allowance for (owner, spender) on the
// given token contract. The read is always fresh; allowances are never
// cached because on-chain state can change between swaps.
func (c *ERC20Caller) Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	// Encode allowance(owner, spender)
	data := make([]byte, 68)
	copy(data[0:4], allowanceSelector)
	copy(data[16:36], owner.Bytes())
	copy(data[48:68], spender.Bytes())

	result, err := c.ethClient.CallContract(ctx, ethereum.CallMsg{
		To:   &token,
		Data: data,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read allowance for %s: %w", token.Hex(), err)
	}
	if len(result) < 32 {
		return nil, fmt.Errorf("unexpected allowance response length %d", len(result))
	}

	return new(big.Int).SetBytes(result[:32]), nil
}

// ApprovalHandler resolves the canonical spender address from the proxy
// contract
func (c *ERC20Caller) ApprovalHandler(ctx context.Context) (common.Address, error) {
	result, err := c.ethClient.CallContract(ctx, ethereum.CallMsg{
		To:   &c.proxy,
		Data: approvalHandlerSelector,
	})
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to resolve approval handler: %w", err)
	}
	if len(result) < 32 {
		return common.Address{}, fmt.Errorf("unexpected approval handler response length %d", len(result))
	}

	return common.BytesToAddress(result[12:32]), nil
}

// PackApprove encodes the calldata for approve(spender, amount)
func PackApprove(spender common.Address, amount *big.Int) []byte {
	data := make([]byte, 68)
	copy(data[0:4], approveSelector)
	copy(data[16:36], spender.Bytes())
	amount.FillBytes(data[36:68])
	return data
}
