package rpc

import (
	"context"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/albacanete/cosmos-sandbox/log"
	"github.com/albacanete/cosmos-sandbox/msgs"
)

// ChainReader answers read-only questions about the chain. Every call is bounded by timeout.
type ChainReader struct {
	client  RpcClient
	timeout time.Duration

	log *log.Logger
}

func NewChainReader(client RpcClient, timeout time.Duration, log *log.Logger) *ChainReader {
	return &ChainReader{
		client:  client,
		timeout: timeout,
		log:     log,
	}
}

// Client returns the transport shared with the submitter.
func (r *ChainReader) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *ChainReader) ChainID(ctx context.Context) (string, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.client.GetChainID(ctx)
}

func (r *ChainReader) Height(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.client.GetHeight(ctx)
}

func (r *ChainReader) Balances(ctx context.Context, address string) (sdk.Coins, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	balances, err := r.client.GetBalances(ctx, address)
	if err != nil {
		return nil, err
	}
	return balances.Sort(), nil
}

// Transaction fetches an included transaction by hex hash.
func (r *ChainReader) Transaction(ctx context.Context, hash string) (*IndexedTx, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.client.GetTx(ctx, hash)
	if err != nil {
		return nil, err
	}
	r.log.Debug().Str("tx_hash", tx.Result.Hash).Int64("height", tx.Result.Height).Msg("Fetched transaction")
	return tx, nil
}

// DecodedTransaction fetches a transaction and decodes its messages.
func (r *ChainReader) DecodedTransaction(ctx context.Context, hash string) (*IndexedTx, *msgs.DecodedTx, error) {
	tx, err := r.Transaction(ctx, hash)
	if err != nil {
		return nil, nil, err
	}

	decoded, err := msgs.DecodeTx(tx.Bytes)
	if err != nil {
		return nil, nil, err
	}
	return tx, decoded, nil
}

// TransferSender returns the sender of the transfer carried as the first message of the
// transaction. The address is returned exactly as recorded on chain.
func (r *ChainReader) TransferSender(ctx context.Context, hash string) (string, error) {
	_, decoded, err := r.DecodedTransaction(ctx, hash)
	if err != nil {
		return "", err
	}

	sender, err := msgs.FirstTransferSender(decoded)
	if err != nil {
		return "", err
	}
	r.log.Info().Str("tx_hash", hash).Str("address", sender).Msg("Resolved transfer sender")
	return sender, nil
}
