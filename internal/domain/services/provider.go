package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/bimakw/dexag-provider/internal/domain/entities"
)

// ErrSwapAborted is the control-flow abort raised when the quote service
// rejects a swap attempt. The caller retries by re-invoking the whole flow;
// no retry happens inside the provider.
var ErrSwapAborted = errors.New("abort")

// Provider is the capability set every swap backend exposes to the wallet
// host. The host dispatches through this interface; it never inspects the
// concrete provider type.
type Provider interface {
	Name() string
	IsDex() bool
	GetRate(ctx context.Context, fromToken, toToken, fromAmount string) ([]entities.RateQuote, error)
	StartSwap(ctx context.Context, req entities.SwapRequest) (*entities.PendingSwap, error)
	GetOrderStatus(ctx context.Context, orderID string) (entities.SwapStatus, error)
	Currencies() []entities.Token
	ValidSwap(fromToken, toToken string) bool
}

// Notifier surfaces user-visible failures to the host's notification
// channel (the wallet's toast/alert surface).
type Notifier interface {
	Notify(err error)
}

// LogNotifier reports user-visible failures through the structured log.
// Hosts with a real notification surface supply their own Notifier.
type LogNotifier struct {
	Log zerolog.Logger
}

// Notify logs the failure at error level
func (n LogNotifier) Notify(err error) {
	n.Log.Error().Err(err).Msg("swap provider notification")
}
