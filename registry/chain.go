package registry

import (
	"encoding/json"
	"strings"
)

type Token struct {
	Denom string `json:"denom"`
}

type FeeToken struct {
	Denom string `json:"denom"`

	FixedMinGasPrice float64 `json:"fixed_min_gas_price"`
	LowGasPrice      float64 `json:"low_gas_price"`
	AverageGasPrice  float64 `json:"average_gas_price"`
	HighGasPrice     float64 `json:"high_gas_price"`
}

type Fee struct {
	FeeTokens []FeeToken `json:"fee_tokens"`
}

type Staking struct {
	StakingTokens []Token `json:"staking_tokens"`
}

type APIAddress struct {
	Address  string `json:"address"`
	Provider string `json:"provider"`
}

type APIs struct {
	RPC  []APIAddress `json:"rpc"`
	Rest []APIAddress `json:"rest"`
	GRPC []APIAddress `json:"grpc"`
}

type Explorer struct {
	Kind        string `json:"kind"`
	URL         string `json:"url"`
	TxPage      string `json:"tx_page"`
	AccountPage string `json:"account_page,omitempty"`
}

// ChainInfo is the subset of a chain registry chain.json the sandbox reads.
type ChainInfo struct {
	ChainName    string     `json:"chain_name"`
	Status       string     `json:"status"`
	NetworkType  string     `json:"network_type"`
	PrettyName   string     `json:"pretty_name"`
	ChainID      string     `json:"chain_id"`
	Bech32Prefix string     `json:"bech32_prefix"`
	KeyAlgos     []string   `json:"key_algos"`
	Slip44       int        `json:"slip44"`
	Fees         Fee        `json:"fees"`
	Staking      Staking    `json:"staking"`
	APIs         APIs       `json:"apis"`
	Explorers    []Explorer `json:"explorers"`
}

// FeeToken returns the fee token matching the staking denom, else the first listed one.
func (c *ChainInfo) FeeToken() (*FeeToken, bool) {
	if len(c.Fees.FeeTokens) == 0 {
		return nil, false
	}

	for _, stakingToken := range c.Staking.StakingTokens {
		for i := range c.Fees.FeeTokens {
			if c.Fees.FeeTokens[i].Denom == stakingToken.Denom {
				return &c.Fees.FeeTokens[i], true
			}
		}
	}
	return &c.Fees.FeeTokens[0], true
}

// Endpoint returns the first advertised endpoint for transport "rpc" or "grpc".
func (c *ChainInfo) Endpoint(transport string) (string, bool) {
	addresses := c.APIs.RPC
	if transport == "grpc" {
		addresses = c.APIs.GRPC
	}
	if len(addresses) == 0 {
		return "", false
	}
	return addresses[0].Address, true
}

// TxPage links to a transaction in the first explorer that has a tx page.
func (c *ChainInfo) TxPage(hash string) (string, bool) {
	for _, explorer := range c.Explorers {
		if explorer.TxPage != "" {
			return replaceTxHash(explorer.TxPage, hash), true
		}
	}
	return "", false
}

func parseChainResponse(responseBytes []byte) (*ChainInfo, error) {
	// Unmarshal the JSON data into the ChainInfo struct
	var chainInfo ChainInfo
	err := json.Unmarshal(responseBytes, &chainInfo)
	if err != nil {
		return nil, err
	}
	return &chainInfo, nil
}

// Explorers write the placeholder as ${txHash}.
func replaceTxHash(page, hash string) string {
	return strings.ReplaceAll(page, "${txHash}", hash)
}
