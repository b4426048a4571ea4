package rpc

import (
	"context"
	"crypto/tls"
	"strings"

	"github.com/cosmos/cosmos-sdk/client/grpc/tmservice"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/query"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/albacanete/cosmos-sandbox/log"
)

// Page size to use
const pageSize = 100

// grpcClientImpl talks to a node over the Cosmos SDK gRPC services.
type grpcClientImpl struct {
	cdc *codec.ProtoCodec

	authClient   authtypes.QueryClient
	bankClient   banktypes.QueryClient
	tmClient     tmservice.ServiceClient
	txClient     txtypes.ServiceClient
	sessionClose func() error

	log *log.Logger
}

// Ensure that grpcClientImpl implements RpcClient
var _ RpcClient = (*grpcClientImpl)(nil)

// NewGrpcClient makes a new RpcClient speaking gRPC to nodeGrpcUri. A https:// prefix selects TLS.
func NewGrpcClient(nodeGrpcUri string, cdc *codec.ProtoCodec, log *log.Logger) (RpcClient, error) {
	conn, err := dial(nodeGrpcUri, cdc)
	if err != nil {
		log.Error().Str("grpc_url", nodeGrpcUri).Err(err).Msg("Unable to connect to gRPC")
		return nil, ErrConnection.Wrapf("grpc %s: %s", nodeGrpcUri, err)
	}

	return NewGrpcClientWithConn(conn, cdc, log), nil
}

// NewGrpcClientWithConn wraps an existing connection.
func NewGrpcClientWithConn(conn *grpc.ClientConn, cdc *codec.ProtoCodec, log *log.Logger) RpcClient {
	return &grpcClientImpl{
		cdc: cdc,

		authClient:   authtypes.NewQueryClient(conn),
		bankClient:   banktypes.NewQueryClient(conn),
		tmClient:     tmservice.NewServiceClient(conn),
		txClient:     txtypes.NewServiceClient(conn),
		sessionClose: conn.Close,

		log: log,
	}
}

func dial(target string, cdc *codec.ProtoCodec) (*grpc.ClientConn, error) {
	transportCredentials := insecure.NewCredentials()
	switch {
	case strings.HasPrefix(target, "https://"):
		target = strings.TrimPrefix(target, "https://")
		transportCredentials = credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})
	case strings.HasPrefix(target, "http://"):
		target = strings.TrimPrefix(target, "http://")
	}

	return grpc.Dial(
		target,
		grpc.WithTransportCredentials(transportCredentials),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(cdc.GRPCCodec())),
	)
}

func (r *grpcClientImpl) GetChainID(ctx context.Context) (string, error) {
	response, err := r.tmClient.GetNodeInfo(ctx, &tmservice.GetNodeInfoRequest{})
	if err != nil {
		return "", grpcError(err, "node info")
	}
	if response.DefaultNodeInfo == nil {
		return "", ErrConnection.Wrap("node info: empty response")
	}
	return response.DefaultNodeInfo.Network, nil
}

func (r *grpcClientImpl) GetHeight(ctx context.Context) (int64, error) {
	response, err := r.tmClient.GetLatestBlock(ctx, &tmservice.GetLatestBlockRequest{})
	if err != nil {
		return 0, grpcError(err, "latest block")
	}
	if response.SdkBlock != nil {
		return response.SdkBlock.Header.Height, nil
	}
	if response.Block != nil {
		return response.Block.Header.Height, nil
	}
	return 0, ErrConnection.Wrap("latest block: empty response")
}

func (r *grpcClientImpl) GetBalances(ctx context.Context, address string) (sdk.Coins, error) {
	balances := sdk.Coins{}

	// Loop through all pages
	var nextKey []byte
	for {
		request := &banktypes.QueryAllBalancesRequest{
			Address: address,
			Pagination: &query.PageRequest{
				Key:   nextKey,
				Limit: pageSize,
			},
		}

		response, err := r.bankClient.AllBalances(ctx, request)
		if err != nil {
			return nil, grpcError(err, "balances")
		}

		balances = append(balances, response.Balances...)
		r.log.Debug().Int("num_in_page", len(response.Balances)).Int("total_fetched", len(balances)).Msg("Fetched page of balances")

		// Update next key or break out of loop if we have finished
		if response.Pagination == nil || len(response.Pagination.NextKey) == 0 {
			break
		}
		nextKey = response.Pagination.NextKey
	}

	return balances, nil
}

func (r *grpcClientImpl) GetAccountData(ctx context.Context, address string) (*AccountData, error) {
	// Make a query
	res, err := r.authClient.Account(ctx, &authtypes.QueryAccountRequest{Address: address})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrAccountNotFound.Wrapf("account %s", address)
		}
		return nil, grpcError(err, "account "+address)
	}

	// Deserialize response
	var account authtypes.AccountI
	if err := r.cdc.UnpackAny(res.Account, &account); err != nil {
		return nil, ErrQuery.Wrapf("account %s: %s", address, err)
	}

	return &AccountData{
		Address:       address,
		AccountNumber: account.GetAccountNumber(),
		Sequence:      account.GetSequence(),
	}, nil
}

func (r *grpcClientImpl) SimulateTx(ctx context.Context, txBytes []byte) (*SimulationResult, error) {
	response, err := r.txClient.Simulate(ctx, &txtypes.SimulateRequest{TxBytes: txBytes})
	if err != nil {
		return nil, grpcError(err, "simulate")
	}
	if response.GasInfo == nil {
		return nil, ErrQuery.Wrap("simulation returned no gas info")
	}

	return &SimulationResult{
		GasWanted: response.GasInfo.GasWanted,
		GasUsed:   response.GasInfo.GasUsed,
	}, nil
}

func (r *grpcClientImpl) GetTx(ctx context.Context, hash string) (*IndexedTx, error) {
	normalized, err := NormalizeHash(hash)
	if err != nil {
		return nil, err
	}

	response, err := r.txClient.GetTx(ctx, &txtypes.GetTxRequest{Hash: normalized})
	if err != nil {
		if status.Code(err) == codes.NotFound || strings.Contains(err.Error(), "not found") {
			return nil, ErrTxNotFound.Wrapf("hash %s", normalized)
		}
		return nil, grpcError(err, "tx")
	}
	if response.TxResponse == nil || response.Tx == nil {
		return nil, ErrTxNotFound.Wrapf("hash %s", normalized)
	}

	txBytes, err := r.reencode(response.Tx)
	if err != nil {
		return nil, err
	}

	txResponse := response.TxResponse
	return &IndexedTx{
		Result: TxResult{
			Hash:      normalized,
			Height:    txResponse.Height,
			Code:      txResponse.Code,
			Codespace: txResponse.Codespace,
			GasWanted: txResponse.GasWanted,
			GasUsed:   txResponse.GasUsed,
			RawLog:    txResponse.RawLog,
		},
		Bytes: txBytes,
	}, nil
}

// reencode turns the decoded tx returned by the service back into raw bytes so both transports
// hand the same shape to the decoder.
func (r *grpcClientImpl) reencode(tx *txtypes.Tx) ([]byte, error) {
	bodyBytes, err := r.cdc.Marshal(tx.Body)
	if err != nil {
		return nil, ErrConnection.Wrapf("tx body: %s", err)
	}
	authInfoBytes, err := r.cdc.Marshal(tx.AuthInfo)
	if err != nil {
		return nil, ErrConnection.Wrapf("tx auth info: %s", err)
	}

	raw := &txtypes.TxRaw{
		BodyBytes:     bodyBytes,
		AuthInfoBytes: authInfoBytes,
		Signatures:    tx.Signatures,
	}
	return r.cdc.Marshal(raw)
}

// Broadcast submits the tx in sync mode. Inclusion polling lives in the signer.
func (r *grpcClientImpl) Broadcast(ctx context.Context, txBytes []byte) (*TxResult, error) {
	response, err := r.txClient.BroadcastTx(ctx, &txtypes.BroadcastTxRequest{
		Mode:    txtypes.BroadcastMode_BROADCAST_MODE_SYNC,
		TxBytes: txBytes,
	})
	if err != nil {
		return nil, grpcError(err, "broadcast")
	}
	if response.TxResponse == nil {
		return nil, ErrConnection.Wrap("broadcast: empty response")
	}

	return &TxResult{
		Hash:      strings.ToUpper(response.TxResponse.TxHash),
		Height:    response.TxResponse.Height,
		Code:      response.TxResponse.Code,
		Codespace: response.TxResponse.Codespace,
		GasWanted: response.TxResponse.GasWanted,
		GasUsed:   response.TxResponse.GasUsed,
		RawLog:    response.TxResponse.RawLog,
	}, nil
}

// Close releases the underlying connection.
func (r *grpcClientImpl) Close() error {
	return r.sessionClose()
}

// grpcError separates rejected queries from transport failures.
func grpcError(err error, operation string) error {
	switch status.Code(err) {
	case codes.NotFound, codes.InvalidArgument, codes.FailedPrecondition:
		return ErrQuery.Wrapf("%s: %s", operation, status.Convert(err).Message())
	default:
		return connectionError(err, operation)
	}
}
