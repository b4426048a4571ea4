package rpc

import (
	"context"
	"encoding/hex"
	"errors"
	"strings"

	cmtbytes "github.com/cometbft/cometbft/libs/bytes"
	rpchttp "github.com/cometbft/cometbft/rpc/client/http"
	coretypes "github.com/cometbft/cometbft/rpc/core/types"
	cmttypes "github.com/cometbft/cometbft/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	"github.com/cosmos/gogoproto/proto"

	"github.com/albacanete/cosmos-sandbox/log"
)

// gRPC method paths served through ABCI queries.
const (
	allBalancesPath = "/cosmos.bank.v1beta1.Query/AllBalances"
	accountPath     = "/cosmos.auth.v1beta1.Query/Account"
	simulatePath    = "/cosmos.tx.v1beta1.Service/Simulate"
)

// cometNode is the part of the CometBFT RPC client the sandbox uses.
type cometNode interface {
	Status(ctx context.Context) (*coretypes.ResultStatus, error)
	ABCIQuery(ctx context.Context, path string, data cmtbytes.HexBytes) (*coretypes.ResultABCIQuery, error)
	Tx(ctx context.Context, hash []byte, prove bool) (*coretypes.ResultTx, error)
	BroadcastTxSync(ctx context.Context, tx cmttypes.Tx) (*coretypes.ResultBroadcastTx, error)
}

// cometClient talks to a node over CometBFT RPC, e.g. http://127.0.0.1:26657.
type cometClient struct {
	cdc  *codec.ProtoCodec
	node cometNode

	log *log.Logger
}

// Ensure that cometClient implements RpcClient
var _ RpcClient = (*cometClient)(nil)

// NewCometClient makes a new RpcClient speaking CometBFT RPC to nodeUrl.
func NewCometClient(nodeUrl string, cdc *codec.ProtoCodec, log *log.Logger) (RpcClient, error) {
	node, err := rpchttp.New(nodeUrl, "/websocket")
	if err != nil {
		log.Error().Str("node", nodeUrl).Err(err).Msg("Unable to create CometBFT RPC client")
		return nil, ErrConnection.Wrapf("node %s: %s", nodeUrl, err)
	}

	return newCometClient(node, cdc, log), nil
}

func newCometClient(node cometNode, cdc *codec.ProtoCodec, log *log.Logger) *cometClient {
	return &cometClient{
		cdc:  cdc,
		node: node,
		log:  log,
	}
}

func (c *cometClient) GetChainID(ctx context.Context) (string, error) {
	status, err := c.node.Status(ctx)
	if err != nil {
		return "", connectionError(err, "status")
	}
	return status.NodeInfo.Network, nil
}

func (c *cometClient) GetHeight(ctx context.Context) (int64, error) {
	status, err := c.node.Status(ctx)
	if err != nil {
		return 0, connectionError(err, "status")
	}
	return status.SyncInfo.LatestBlockHeight, nil
}

func (c *cometClient) GetBalances(ctx context.Context, address string) (sdk.Coins, error) {
	request := &banktypes.QueryAllBalancesRequest{Address: address}
	response := &banktypes.QueryAllBalancesResponse{}
	if err := c.query(ctx, allBalancesPath, request, response); err != nil {
		return nil, err
	}

	return response.Balances, nil
}

func (c *cometClient) GetAccountData(ctx context.Context, address string) (*AccountData, error) {
	request := &authtypes.QueryAccountRequest{Address: address}
	response := &authtypes.QueryAccountResponse{}
	if err := c.query(ctx, accountPath, request, response); err != nil {
		if errors.Is(err, ErrQuery) && strings.Contains(err.Error(), "not found") {
			return nil, ErrAccountNotFound.Wrapf("account %s", address)
		}
		return nil, err
	}

	// Deserialize response
	var account authtypes.AccountI
	if err := c.cdc.UnpackAny(response.Account, &account); err != nil {
		return nil, ErrQuery.Wrapf("account %s: %s", address, err)
	}

	return &AccountData{
		Address:       address,
		AccountNumber: account.GetAccountNumber(),
		Sequence:      account.GetSequence(),
	}, nil
}

func (c *cometClient) SimulateTx(ctx context.Context, txBytes []byte) (*SimulationResult, error) {
	request := &txtypes.SimulateRequest{TxBytes: txBytes}
	response := &txtypes.SimulateResponse{}
	if err := c.query(ctx, simulatePath, request, response); err != nil {
		return nil, err
	}
	if response.GasInfo == nil {
		return nil, ErrQuery.Wrap("simulation returned no gas info")
	}

	return &SimulationResult{
		GasWanted: response.GasInfo.GasWanted,
		GasUsed:   response.GasInfo.GasUsed,
	}, nil
}

func (c *cometClient) GetTx(ctx context.Context, hash string) (*IndexedTx, error) {
	normalized, err := NormalizeHash(hash)
	if err != nil {
		return nil, err
	}
	hashBytes, _ := hex.DecodeString(normalized)

	result, err := c.node.Tx(ctx, hashBytes, false)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return nil, ErrTxNotFound.Wrapf("hash %s", normalized)
		}
		return nil, connectionError(err, "tx")
	}

	return &IndexedTx{
		Result: TxResult{
			Hash:      normalized,
			Height:    result.Height,
			Code:      result.TxResult.Code,
			Codespace: result.TxResult.Codespace,
			GasWanted: result.TxResult.GasWanted,
			GasUsed:   result.TxResult.GasUsed,
			RawLog:    result.TxResult.Log,
		},
		Bytes: result.Tx,
	}, nil
}

func (c *cometClient) Broadcast(ctx context.Context, txBytes []byte) (*TxResult, error) {
	response, err := c.node.BroadcastTxSync(ctx, txBytes)
	if err != nil {
		return nil, connectionError(err, "broadcast")
	}

	hash := response.Hash.String()
	if hash == "" {
		hash = strings.ToUpper(hex.EncodeToString(cmttypes.Tx(txBytes).Hash()))
	}

	return &TxResult{
		Hash:      hash,
		Code:      response.Code,
		Codespace: response.Codespace,
		RawLog:    response.Log,
	}, nil
}

// query runs a gRPC method through an ABCI query and decodes the answer into response.
func (c *cometClient) query(ctx context.Context, path string, request, response proto.Message) error {
	data, err := proto.Marshal(request)
	if err != nil {
		return ErrQuery.Wrapf("%s: encode request: %s", path, err)
	}

	result, err := c.node.ABCIQuery(ctx, path, data)
	if err != nil {
		return connectionError(err, path)
	}
	if !result.Response.IsOK() {
		c.log.Debug().Str("path", path).Uint32("code", result.Response.Code).Str("codespace", result.Response.Codespace).Msg("Query rejected")
		return ErrQuery.Wrapf("%s: code %d: %s", path, result.Response.Code, result.Response.Log)
	}

	if err := proto.Unmarshal(result.Response.Value, response); err != nil {
		return ErrConnection.Wrapf("%s: malformed response: %s", path, err)
	}
	return nil
}
