package services

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bimakw/dexag-provider/internal/domain/entities"
)

// mockAllowanceReader is a mock AllowanceReader for testing
type mockAllowanceReader struct {
	allowance *big.Int
	err       error
	calls     int
	lastToken common.Address
}

func (m *mockAllowanceReader) Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	m.calls++
	m.lastToken = token
	return m.allowance, m.err
}

var (
	testOwner   = common.HexToAddress("0x00000000000000000000000000000000000000AA")
	testSpender = common.HexToAddress("0x00000000000000000000000000000000000000BB")
)

func TestPlanApproval(t *testing.T) {
	tests := []struct {
		name      string
		allowance *big.Int
		required  *big.Int
		want      entities.ApprovalDecision
	}{
		{
			name:      "zero allowance needs fresh approval",
			allowance: big.NewInt(0),
			required:  big.NewInt(1000),
			want:      entities.ApprovalDecision{NeedsApproval: true, NeedsReset: false},
		},
		{
			name:      "insufficient allowance needs reset then approval",
			allowance: big.NewInt(500),
			required:  big.NewInt(1000),
			want:      entities.ApprovalDecision{NeedsApproval: true, NeedsReset: true},
		},
		{
			name:      "sufficient allowance needs nothing",
			allowance: big.NewInt(2000),
			required:  big.NewInt(1000),
			want:      entities.ApprovalDecision{NeedsApproval: false, NeedsReset: false},
		},
		{
			name:      "exact allowance is sufficient",
			allowance: big.NewInt(1000),
			required:  big.NewInt(1000),
			want:      entities.ApprovalDecision{NeedsApproval: false, NeedsReset: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			planner := NewApprovalPlanner(&mockAllowanceReader{allowance: tt.allowance})
			got, err := planner.PlanApproval(context.Background(), entities.DAI, testOwner, testSpender, tt.required)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlanApprovalNativeSkipsAllowanceRead(t *testing.T) {
	reader := &mockAllowanceReader{allowance: big.NewInt(0)}
	planner := NewApprovalPlanner(reader)

	got, err := planner.PlanApproval(context.Background(), entities.ETH, testOwner, testSpender, big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, entities.ApprovalDecision{}, got)
	assert.Equal(t, 0, reader.calls, "native asset must not trigger an allowance read")
}

func TestPlanApprovalReadsFreshEachCall(t *testing.T) {
	reader := &mockAllowanceReader{allowance: big.NewInt(0)}
	planner := NewApprovalPlanner(reader)

	for i := 0; i < 3; i++ {
		_, err := planner.PlanApproval(context.Background(), entities.DAI, testOwner, testSpender, big.NewInt(1))
		require.NoError(t, err)
	}
	assert.Equal(t, 3, reader.calls)
}

func TestPlanApprovalPropagatesReadError(t *testing.T) {
	readErr := errors.New("rpc down")
	planner := NewApprovalPlanner(&mockAllowanceReader{err: readErr})

	_, err := planner.PlanApproval(context.Background(), entities.DAI, testOwner, testSpender, big.NewInt(1))
	assert.ErrorIs(t, err, readErr)
}
