package registry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sdkerrors "cosmossdk.io/errors"

	"github.com/albacanete/cosmos-sandbox/log"
)

var ErrRegistry = sdkerrors.Register("sandbox-registry", 1, "chain registry lookup failed")

const defaultRequestTimeout = 10 * time.Second

// RegistryClient reads chain.json documents from a cosmos.directory style chain registry.
type RegistryClient struct {
	baseUrl    string
	httpClient *http.Client

	log *log.Logger
}

func NewRegistryClient(baseUrl string, log *log.Logger) *RegistryClient {
	return &RegistryClient{
		baseUrl:    strings.TrimSuffix(baseUrl, "/"),
		httpClient: &http.Client{Timeout: defaultRequestTimeout},

		log: log,
	}
}

func (rc *RegistryClient) GetChainInfo(ctx context.Context, chainName string) (*ChainInfo, error) {
	if strings.TrimSpace(chainName) == "" {
		return nil, ErrRegistry.Wrap("chain name is required")
	}

	chainUrl := fmt.Sprintf("%s/%s/chain.json", rc.baseUrl, url.PathEscape(chainName))
	bytes, err := rc.makeRequest(ctx, chainUrl)
	if err != nil {
		return nil, ErrRegistry.Wrapf("%s: %s", chainName, err)
	}

	chainInfo, err := parseChainResponse(bytes)
	if err != nil {
		return nil, ErrRegistry.Wrapf("%s: malformed chain.json: %s", chainName, err)
	}
	if chainInfo.Bech32Prefix == "" {
		return nil, ErrRegistry.Wrapf("%s: chain.json has no bech32_prefix", chainName)
	}

	rc.log.Debug().Str("chain_name", chainName).Str("chain_id", chainInfo.ChainID).Str("prefix", chainInfo.Bech32Prefix).Msg("Loaded chain registry entry")
	return chainInfo, nil
}

func (rc *RegistryClient) makeRequest(ctx context.Context, requestUrl string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestUrl, nil)
	if err != nil {
		return nil, err
	}

	resp, err := rc.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received non-OK HTTP status: %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
