package services

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/bimakw/dexag-provider/internal/domain/entities"
)

// AllowanceReader reads the current on-chain spend allowance for
// (owner, spender) on a token contract.
type AllowanceReader interface {
	Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error)
}

// SpenderResolver resolves the canonical approval-handler address that
// allowance checks and approvals must target.
type SpenderResolver interface {
	ApprovalHandler(ctx context.Context) (common.Address, error)
}

// ApprovalPlanner decides whether a swap needs a token approval and whether
// an existing non-zero allowance must first be reset to zero. Updating a
// non-zero ERC-20 allowance directly is vulnerable to the approval
// front-running race, so an insufficient allowance is always reset before
// the new value is set.
type ApprovalPlanner struct {
	allowances AllowanceReader
}

// NewApprovalPlanner creates a new approval planner
func NewApprovalPlanner(allowances AllowanceReader) *ApprovalPlanner {
	return &ApprovalPlanner{allowances: allowances}
}

// PlanApproval computes the approval decision for one swap. The allowance
// is read fresh on every call; the decision itself performs no writes.
func (p *ApprovalPlanner) PlanApproval(ctx context.Context, token entities.Token, owner, spender common.Address, required *big.Int) (entities.ApprovalDecision, error) {
	// Native transfers carry value, not allowance
	if token.IsNative() {
		return entities.ApprovalDecision{}, nil
	}

	allowance, err := p.allowances.Allowance(ctx, token.Address, owner, spender)
	if err != nil {
		return entities.ApprovalDecision{}, fmt.Errorf("failed to plan approval for %s: %w", token.Symbol, err)
	}

	if allowance.Sign() > 0 {
		if allowance.Cmp(required) < 0 {
			return entities.ApprovalDecision{NeedsApproval: true, NeedsReset: true}, nil
		}
		return entities.ApprovalDecision{}, nil
	}

	return entities.ApprovalDecision{NeedsApproval: true}, nil
}
