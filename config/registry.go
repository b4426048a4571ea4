package config

import (
	"fmt"
	"math"

	"github.com/albacanete/cosmos-sandbox/msgs"
	"github.com/albacanete/cosmos-sandbox/registry"
)

// Gas assumed when pricing a registry fee for a simulated transaction.
const registryFeeGasEstimate = 200000

// ApplyChainInfo fills chain specific values from a registry entry. The registry decides the
// prefix and coin type. The chain id and node are only filled when empty, the node with the
// registry's first endpoint for the configured transport. The fee is repriced when it is not
// already paid in the chain's fee token.
func (c *Configuration) ApplyChainInfo(info *registry.ChainInfo) {
	if c.ChainID == "" {
		c.ChainID = info.ChainID
	}
	if c.Node == "" {
		if endpoint, ok := info.Endpoint(c.Transport); ok {
			c.Node = endpoint
		}
	}
	c.AddressPrefix = info.Bech32Prefix
	if info.Slip44 > 0 {
		c.CoinType = uint32(info.Slip44)
	}

	feeToken, ok := info.FeeToken()
	if !ok {
		return
	}
	if fee, err := msgs.ParseAmounts(c.FeeAmount); err == nil {
		for _, coin := range fee {
			if coin.Denom == feeToken.Denom {
				return
			}
		}
	}

	gasPrice := feeToken.FixedMinGasPrice
	if gasPrice == 0 {
		gasPrice = feeToken.AverageGasPrice
	}
	if gasPrice == 0 {
		gasPrice = feeToken.LowGasPrice
	}

	gas := c.GasLimit
	if gas == 0 {
		gas = registryFeeGasEstimate
	}
	c.FeeAmount = fmt.Sprintf("%d%s", uint64(math.Ceil(float64(gas)*gasPrice)), feeToken.Denom)
}
