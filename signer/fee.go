package signer

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/albacanete/cosmos-sandbox/msgs"
)

// Fee is what one submission pays. A zero GasLimit asks the signer to simulate.
type Fee struct {
	Amount   sdk.Coins
	GasLimit uint64
}

// ParseFee builds a Fee from an amount list such as "500stake". An empty amount pays nothing.
func ParseFee(amount string, gasLimit uint64) (Fee, error) {
	coins, err := msgs.ParseAmounts(amount)
	if err != nil {
		return Fee{}, err
	}

	sorted := sdk.Coins(coins).Sort()
	if err := sorted.Validate(); err != nil {
		return Fee{}, msgs.ErrInvalidMessage.Wrapf("fee %q: %s", amount, err)
	}

	return Fee{
		Amount:   sorted,
		GasLimit: gasLimit,
	}, nil
}

func (f Fee) String() string {
	if f.GasLimit == 0 {
		return fmt.Sprintf("%s (simulated gas)", f.Amount)
	}
	return fmt.Sprintf("%s (gas %d)", f.Amount, f.GasLimit)
}
