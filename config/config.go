package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	sdkerrors "cosmossdk.io/errors"

	"github.com/albacanete/cosmos-sandbox/msgs"
	"github.com/albacanete/cosmos-sandbox/rpc"
)

const ConfigFilename = "sandbox.yml"

var ErrInvalidConfig = sdkerrors.Register("sandbox-config", 1, "invalid configuration")

// Configuration is configuration for the sandbox.
type Configuration struct {
	Node      string `yaml:"node" comment:"Node endpoint. A CometBFT RPC url for the rpc transport, host:port for grpc. Leave empty with chain_name to use the registry's endpoint. Ex. 'http://127.0.0.1:26657'"`
	Transport string `yaml:"transport" comment:"How to talk to the node: 'rpc' (CometBFT RPC) or 'grpc'"`
	ChainID   string `yaml:"chain_id" comment:"Expected chain id. When set, the node must report the same id. Ex. 'theta-testnet-001'"`
	ChainName string `yaml:"chain_name" comment:"Optional chain registry name used to fill prefix, coin type and fee denom. Ex. 'cosmoshubtestnet'"`

	AddressPrefix  string `yaml:"address_prefix" comment:"Bech32 prefix of account addresses"`
	CoinType       uint32 `yaml:"coin_type" comment:"BIP-44 coin type used to derive keys from a mnemonic"`
	HDAccount      uint32 `yaml:"hd_account" comment:"BIP-44 account used to derive keys from a mnemonic"`
	HDIndex        uint32 `yaml:"hd_index" comment:"BIP-44 address index used to derive keys from a mnemonic"`
	CredentialFile string `yaml:"credential_file" comment:"File holding a mnemonic or a hex private key"`

	FeeAmount     string  `yaml:"fee_amount" comment:"Fee paid by every transaction. Ex. '500stake'"`
	GasLimit      uint64  `yaml:"gas_limit" comment:"Gas limit of every transaction. 0 simulates the transaction and applies gas_adjustment"`
	GasAdjustment float64 `yaml:"gas_adjustment" comment:"Multiplier applied to simulated gas"`
	Memo          string  `yaml:"memo" comment:"An optional memo to include in transactions"`

	TimeoutSeconds     uint `yaml:"timeout_seconds" comment:"Deadline for every network call"`
	TxPollDelaySeconds uint `yaml:"tx_poll_delay_seconds" comment:"How long to delay between attempts to poll for a tx being included in a block"`
	TxPollAttempts     uint `yaml:"tx_poll_attempts" comment:"How many attempts to poll for a tx being included before giving up. 0 does not wait"`

	ReportBalances bool `yaml:"report_balances" comment:"If true, balances of both parties are printed before and after a transfer"`

	HealthChecksUUID     string `yaml:"health_checks_uuid" comment:"A healthchecks.io check uuid. If empty, no pings will be delivered."`
	HealthChecksBaseUrl  string `yaml:"health_checks_base_url" comment:"The base url for health check pings"`
	ChainRegistryBaseUrl string `yaml:"chain_registry_base_url" comment:"The base url for the chain registry"`
}

// Default returns the configuration used for keys missing from the file.
func Default() *Configuration {
	return &Configuration{
		Node:      "http://127.0.0.1:26657",
		Transport: rpc.TransportRPC,

		AddressPrefix:  "cosmos",
		CoinType:       118,
		CredentialFile: "~/.sandbox/mnemonic.txt",

		FeeAmount:     "500stake",
		GasLimit:      200000,
		GasAdjustment: 1.3,

		TimeoutSeconds:     30,
		TxPollDelaySeconds: 2,
		TxPollAttempts:     15,

		HealthChecksBaseUrl:  "https://hc-ping.com",
		ChainRegistryBaseUrl: "https://proxy.atomscan.com/directory",
	}
}

func (c *Configuration) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c *Configuration) TxPollDelay() time.Duration {
	return time.Duration(c.TxPollDelaySeconds) * time.Second
}

func (c *Configuration) VersionedMemo(version string) string {
	if c.Memo == "" {
		return ""
	}
	return fmt.Sprintf("%s | cosmos-sandbox %s", c.Memo, version)
}

// Validate reports every problem at once.
func (c *Configuration) Validate() error {
	var errs error
	required := func(field string) error { return fmt.Errorf("%s is required", field) }

	if strings.TrimSpace(c.Node) == "" {
		errs = errors.Join(errs, required("node"))
	} else if c.Transport != rpc.TransportGRPC {
		if parsed, err := url.Parse(c.Node); err != nil || parsed.Scheme == "" || parsed.Host == "" {
			errs = errors.Join(errs, fmt.Errorf("node %q is not a url", c.Node))
		}
	}

	switch c.Transport {
	case rpc.TransportRPC, rpc.TransportGRPC:
	default:
		errs = errors.Join(errs, fmt.Errorf("transport %q must be %q or %q", c.Transport, rpc.TransportRPC, rpc.TransportGRPC))
	}

	if strings.TrimSpace(c.AddressPrefix) == "" {
		errs = errors.Join(errs, required("address_prefix"))
	}
	if strings.TrimSpace(c.CredentialFile) == "" {
		errs = errors.Join(errs, required("credential_file"))
	}
	if _, err := msgs.ParseAmounts(c.FeeAmount); err != nil {
		errs = errors.Join(errs, fmt.Errorf("fee_amount: %s", err))
	}
	if c.GasLimit == 0 && c.GasAdjustment <= 0 {
		errs = errors.Join(errs, errors.New("gas_adjustment must be positive when gas_limit is 0"))
	}
	if c.TimeoutSeconds == 0 {
		errs = errors.Join(errs, errors.New("timeout_seconds must be positive"))
	}
	if c.TxPollAttempts > 0 && c.TxPollDelaySeconds == 0 {
		errs = errors.Join(errs, errors.New("tx_poll_delay_seconds must be positive when tx_poll_attempts is set"))
	}

	if errs != nil {
		return ErrInvalidConfig.Wrap(errs.Error())
	}
	return nil
}
