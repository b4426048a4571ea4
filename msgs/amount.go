package msgs

import (
	"regexp"
	"strings"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// An integer quantity followed by a denomination, e.g. "100stake" or "-5 uatom".
var amountPattern = regexp.MustCompile(`^(-?[0-9]+)\s*([a-zA-Z][a-zA-Z0-9/:._-]*)$`)

// NewAmount builds a coin from a decimal integer quantity and a denomination.
func NewAmount(quantity, denom string) (sdk.Coin, error) {
	amount, ok := math.NewIntFromString(strings.TrimSpace(quantity))
	if !ok {
		return sdk.Coin{}, ErrInvalidMessage.Wrapf("amount %q is not an integer", quantity)
	}

	coin := sdk.Coin{Denom: strings.TrimSpace(denom), Amount: amount}
	if err := validateCoin("amount", coin); err != nil {
		return sdk.Coin{}, err
	}
	return coin, nil
}

// ParseAmount parses "<quantity><denom>", e.g. "100stake".
func ParseAmount(raw string) (sdk.Coin, error) {
	matches := amountPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if len(matches) != 3 {
		return sdk.Coin{}, ErrInvalidMessage.Wrapf("amount %q must look like 100stake", raw)
	}
	return NewAmount(matches[1], matches[2])
}

// ParseAmounts parses a comma separated list of amounts, e.g. "100stake,5uatom".
func ParseAmounts(raw string) (sdk.Coins, error) {
	coins := sdk.Coins{}
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}

		coin, err := ParseAmount(part)
		if err != nil {
			return nil, err
		}
		coins = append(coins, coin)
	}
	return coins, nil
}

func validateCoin(field string, coin sdk.Coin) error {
	if strings.TrimSpace(coin.Denom) == "" {
		return ErrInvalidMessage.Wrapf("%s has an empty denomination", field)
	}
	if coin.Amount.IsNil() {
		return ErrInvalidMessage.Wrapf("%s has no quantity", field)
	}
	if coin.Amount.IsNegative() {
		return ErrInvalidMessage.Wrapf("%s must not be negative, got %s%s", field, coin.Amount, coin.Denom)
	}
	return nil
}

func validateCoins(field string, coins []sdk.Coin) error {
	for _, coin := range coins {
		if err := validateCoin(field, coin); err != nil {
			return err
		}
	}
	return nil
}

func validateAddress(field, address string) error {
	if strings.TrimSpace(address) == "" {
		return ErrInvalidMessage.Wrapf("%s address is empty", field)
	}
	return nil
}

// sortedCoins copies and sorts coins without the validation panics of sdk.NewCoins.
func sortedCoins(coins []sdk.Coin) sdk.Coins {
	sorted := make(sdk.Coins, len(coins))
	copy(sorted, coins)
	return sorted.Sort()
}
