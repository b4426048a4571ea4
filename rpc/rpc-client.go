package rpc

import (
	"context"
	"errors"

	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/albacanete/cosmos-sandbox/log"
)

// RpcClient is the transport level view of a node. Implementations talk either CometBFT RPC or gRPC.
type RpcClient interface {
	GetChainID(ctx context.Context) (string, error)
	GetHeight(ctx context.Context) (int64, error)
	GetBalances(ctx context.Context, address string) (sdk.Coins, error)
	GetTx(ctx context.Context, hash string) (*IndexedTx, error)
	GetAccountData(ctx context.Context, address string) (*AccountData, error)

	SimulateTx(ctx context.Context, txBytes []byte) (*SimulationResult, error)

	// Broadcast submits txBytes once and returns the mempool verdict. It never waits for inclusion.
	Broadcast(ctx context.Context, txBytes []byte) (*TxResult, error)
}

// Transport names accepted by NewClient.
const (
	TransportRPC  = "rpc"
	TransportGRPC = "grpc"
)

// NewClient picks the RpcClient implementation for transport. An empty transport means CometBFT RPC.
func NewClient(transport, node string, cdc *codec.ProtoCodec, log *log.Logger) (RpcClient, error) {
	switch transport {
	case "", TransportRPC:
		return NewCometClient(node, cdc, log)
	case TransportGRPC:
		return NewGrpcClient(node, cdc, log)
	default:
		return nil, ErrConnection.Wrapf("unknown transport %q", transport)
	}
}

// connectionError wraps a transport failure, keeping deadline expiry recognisable.
func connectionError(err error, operation string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrConnection.Wrapf("%s: timed out: %s", operation, err)
	}
	return ErrConnection.Wrapf("%s: %s", operation, err)
}
