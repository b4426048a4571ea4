package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/albacanete/cosmos-sandbox/config"
	"github.com/albacanete/cosmos-sandbox/registry"
)

func TestDefaultsAreValid(t *testing.T) {
	require.NoError(t, config.Default().Validate())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	loaded, found, err := config.Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	require.False(t, found)
	require.Equal(t, config.Default().Node, loaded.Node)
	require.Equal(t, 30*time.Second, loaded.Timeout())
}

func TestLoadOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.ConfigFilename)
	content := strings.Join([]string{
		"node: https://rpc.sentry-01.theta-testnet.polypore.xyz:443",
		"chain_id: theta-testnet-001",
		"fee_amount: 5000uatom",
		"gas_limit: 0",
		"tx_poll_attempts: 3",
		"report_balances: true",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	loaded, found, err := config.Load(path)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "theta-testnet-001", loaded.ChainID)
	require.Equal(t, "5000uatom", loaded.FeeAmount)
	require.Zero(t, loaded.GasLimit)
	require.Equal(t, uint(3), loaded.TxPollAttempts)
	require.True(t, loaded.ReportBalances)

	// Untouched keys keep their defaults.
	require.Equal(t, "cosmos", loaded.AddressPrefix)
	require.Equal(t, uint32(118), loaded.CoinType)
	require.NoError(t, loaded.Validate())
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.ConfigFilename)
	require.NoError(t, os.WriteFile(path, []byte("nodes: http://127.0.0.1:26657\n"), 0o600))

	_, _, err := config.Load(path)
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestValidateJoinsProblems(t *testing.T) {
	c := config.Default()
	c.Node = ""
	c.Transport = "carrier-pigeon"
	c.FeeAmount = "-1stake"
	c.TimeoutSeconds = 0

	err := c.Validate()
	require.ErrorIs(t, err, config.ErrInvalidConfig)
	require.Contains(t, err.Error(), "node is required")
	require.Contains(t, err.Error(), "carrier-pigeon")
	require.Contains(t, err.Error(), "fee_amount")
	require.Contains(t, err.Error(), "timeout_seconds")
}

func TestValidateNodeURL(t *testing.T) {
	c := config.Default()
	c.Node = "127.0.0.1:26657"
	require.ErrorIs(t, c.Validate(), config.ErrInvalidConfig)

	// gRPC targets are host:port.
	c.Transport = "grpc"
	c.Node = "127.0.0.1:9090"
	require.NoError(t, c.Validate())
}

func TestExpandHomeDir(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	require.Equal(t, filepath.Join(home, ".sandbox", "sandbox.yml"), config.ExpandHomeDir(config.DefaultPath()))
	require.Equal(t, "/etc/sandbox.yml", config.ExpandHomeDir("/etc/sandbox.yml"))
}

func TestInitializeWritesCommentedTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", config.ConfigFilename)
	require.NoError(t, config.Initialize(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "# This is the configuration file for cosmos-sandbox")
	require.Contains(t, string(data), "# Fee paid by every transaction.")
	require.Contains(t, string(data), "node: http://127.0.0.1:26657")

	loaded, found, err := config.Load(path)
	require.NoError(t, err)
	require.True(t, found)
	require.NoError(t, loaded.Validate())

	require.ErrorIs(t, config.Initialize(path), config.ErrInvalidConfig)
}

func TestVersionedMemo(t *testing.T) {
	c := config.Default()
	require.Empty(t, c.VersionedMemo("v1.0.0"))

	c.Memo = "sandbox run"
	require.Equal(t, "sandbox run | cosmos-sandbox v1.0.0", c.VersionedMemo("v1.0.0"))
}

func TestApplyChainInfo(t *testing.T) {
	info := &registry.ChainInfo{
		ChainID:      "elgafar-1",
		Bech32Prefix: "stars",
		Slip44:       118,
		Fees: registry.Fee{FeeTokens: []registry.FeeToken{
			{Denom: "ustars", AverageGasPrice: 0.04},
		}},
	}

	c := config.Default()
	c.ApplyChainInfo(info)
	require.Equal(t, "elgafar-1", c.ChainID)
	require.Equal(t, "stars", c.AddressPrefix)
	require.Equal(t, uint32(118), c.CoinType)
	require.Equal(t, "8000ustars", c.FeeAmount)
	require.Equal(t, "http://127.0.0.1:26657", c.Node)

	// Explicit values paid in the fee token are kept.
	c = config.Default()
	c.ChainID = "custom-1"
	c.FeeAmount = "1ustars"
	c.ApplyChainInfo(info)
	require.Equal(t, "custom-1", c.ChainID)
	require.Equal(t, "1ustars", c.FeeAmount)
}

func TestApplyChainInfoFillsEmptyNode(t *testing.T) {
	info := &registry.ChainInfo{
		Bech32Prefix: "stars",
		APIs: registry.APIs{
			RPC:  []registry.APIAddress{{Address: "https://rpc.elgafar-1.stargaze-apis.com"}},
			GRPC: []registry.APIAddress{{Address: "grpc.elgafar-1.stargaze-apis.com:443"}},
		},
	}

	c := config.Default()
	c.Node = ""
	c.ApplyChainInfo(info)
	require.Equal(t, "https://rpc.elgafar-1.stargaze-apis.com", c.Node)

	c = config.Default()
	c.Node = ""
	c.Transport = "grpc"
	c.ApplyChainInfo(info)
	require.Equal(t, "grpc.elgafar-1.stargaze-apis.com:443", c.Node)
	require.NoError(t, c.Validate())
}
