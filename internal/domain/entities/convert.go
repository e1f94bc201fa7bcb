package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ToBaseUnits converts a human-readable amount to the token's smallest
// integer unit, truncating toward zero. The token must be registered;
// decimals are never assumed.
func (r *TokenRegistry) ToBaseUnits(symbol, humanAmount string) (string, error) {
	token, err := r.Get(symbol)
	if err != nil {
		return "", err
	}
	amount, err := decimal.NewFromString(humanAmount)
	if err != nil {
		return "", fmt.Errorf("invalid amount %q: %w", humanAmount, err)
	}
	return amount.Shift(int32(token.Decimals)).Truncate(0).String(), nil
}

// ToHumanUnits converts a base-unit amount to a human-readable decimal
// string.
func (r *TokenRegistry) ToHumanUnits(symbol, baseAmount string) (string, error) {
	token, err := r.Get(symbol)
	if err != nil {
		return "", err
	}
	amount, err := decimal.NewFromString(baseAmount)
	if err != nil {
		return "", fmt.Errorf("invalid amount %q: %w", baseAmount, err)
	}
	return amount.Shift(-int32(token.Decimals)).String(), nil
}
