package signer

import (
	"context"
	"errors"
	"math"
	"regexp"
	"time"

	sdkmath "cosmossdk.io/math"
	retry "github.com/avast/retry-go/v4"
	"github.com/cosmos/cosmos-sdk/client"
	cosmostx "github.com/cosmos/cosmos-sdk/client/tx"
	"github.com/cosmos/cosmos-sdk/codec"
	"github.com/cosmos/cosmos-sdk/types/tx/signing"
	authsigning "github.com/cosmos/cosmos-sdk/x/auth/signing"
	txauth "github.com/cosmos/cosmos-sdk/x/auth/tx"

	"github.com/albacanete/cosmos-sandbox/crypto"
	"github.com/albacanete/cosmos-sandbox/log"
	"github.com/albacanete/cosmos-sandbox/msgs"
	"github.com/albacanete/cosmos-sandbox/rpc"
)

// Some chains report the fee floor in the CheckTx log, e.g.
// "provided fee < minimum global fee (12345aevmos). Please increase the gas price".
var minGlobalFeePattern = regexp.MustCompile(`(\d+)\w+\)\. Please increase`)

const (
	defaultGasAdjustment = 1.3
	defaultTimeout       = 30 * time.Second
)

type Signer struct {
	cdc      *codec.ProtoCodec
	txConfig client.TxConfig

	rpcClient rpc.RpcClient

	gasAdjustment float64

	chainID       string
	addressPrefix string
	memo          string

	timeout      time.Duration
	pollDelay    time.Duration
	pollAttempts uint

	bytesSigner crypto.BytesSigner

	log *log.Logger
}

type Option func(*Signer)

// WithGasAdjustment scales simulated gas. Only used when a fee carries no gas limit.
func WithGasAdjustment(gasAdjustment float64) Option {
	return func(s *Signer) {
		if gasAdjustment > 0 {
			s.gasAdjustment = gasAdjustment
		}
	}
}

// WithTimeout bounds every network call made while submitting.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Signer) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithInclusionPolling makes SignAndBroadcast wait for the transaction to land in a block, polling
// attempts times with delay in between. Zero attempts returns right after the broadcast.
func WithInclusionPolling(delay time.Duration, attempts uint) Option {
	return func(s *Signer) {
		s.pollDelay = delay
		s.pollAttempts = attempts
	}
}

func NewSigner(
	cdc *codec.ProtoCodec,
	rpcClient rpc.RpcClient,
	bytesSigner crypto.BytesSigner,
	chainID string,
	addressPrefix string,
	memo string,
	log *log.Logger,
	opts ...Option,
) *Signer {
	s := &Signer{
		cdc:      cdc,
		txConfig: txauth.NewTxConfig(cdc, txauth.DefaultSignModes),

		rpcClient: rpcClient,

		gasAdjustment: defaultGasAdjustment,

		chainID:       chainID,
		addressPrefix: addressPrefix,
		memo:          memo,

		timeout: defaultTimeout,

		bytesSigner: bytesSigner,

		log: log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SignAndBroadcast signs messages, in order, into one transaction paid by fee and broadcasts it
// exactly once. A rejected transaction is never resubmitted.
func (s *Signer) SignAndBroadcast(
	ctx context.Context,
	signerAddress string,
	messages []msgs.Message,
	fee Fee,
) (*rpc.TxResult, error) {
	if len(messages) == 0 {
		return nil, ErrSigning.Wrap("transaction has no messages")
	}

	// The credential must control signerAddress.
	address := s.bytesSigner.GetAddress(s.addressPrefix)
	if address == "" || address != signerAddress {
		return nil, ErrSigning.Wrapf("credential controls %s, not %s", address, signerAddress)
	}

	// Get account data
	accountData, err := s.getAccountData(ctx, address)
	if err != nil {
		s.log.Error().Err(err).Str("address", address).Msg("Error getting account data")
		return nil, err
	}

	// Start building a tx
	factory := cosmostx.Factory{}.WithChainID(s.chainID).WithTxConfig(s.txConfig)
	txb, err := factory.BuildUnsignedTx(msgs.SDKMsgs(messages)...)
	if err != nil {
		return nil, ErrSigning.Wrapf("build transaction: %s", err)
	}
	txb.SetMemo(s.memo)
	txb.SetFeeAmount(fee.Amount)

	// Direct mode signs over the signer infos, so they must be in place before the sign bytes are taken.
	if err := s.setPlaceholderSignature(txb, accountData); err != nil {
		return nil, err
	}

	gasLimit := fee.GasLimit
	if gasLimit == 0 {
		gasLimit, err = s.simulate(ctx, txb)
		if err != nil {
			return nil, err
		}
	}
	txb.SetGasLimit(gasLimit)

	// Sign the tx
	signedTx, err := s.signTx(txb, accountData)
	if err != nil {
		return nil, ErrSigning.Wrap(err.Error())
	}

	s.log.Info().Str("address", address).Int("messages", len(messages)).Str("fee", fee.Amount.String()).Uint64("gas_limit", gasLimit).Uint64("sequence", accountData.Sequence).Msg("Broadcasting transaction")

	broadcastCtx, cancel := context.WithTimeout(ctx, s.timeout)
	result, err := s.rpcClient.Broadcast(broadcastCtx, signedTx)
	cancel()
	if err != nil {
		s.log.Error().Err(err).Msg("Error broadcasting transaction")
		return nil, err
	}

	if !result.Succeeded() {
		s.log.Warn().Str("tx_hash", result.Hash).Uint32("code", result.Code).Str("codespace", result.Codespace).Msg("Transaction rejected")
		return result, s.rejection(result)
	}
	s.log.Info().Str("tx_hash", result.Hash).Msg("Transaction accepted into mempool")

	if s.pollAttempts == 0 {
		return result, nil
	}
	return s.waitForInclusion(ctx, result)
}

func (s *Signer) getAccountData(ctx context.Context, address string) (*rpc.AccountData, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	accountData, err := s.rpcClient.GetAccountData(ctx, address)
	if err != nil {
		if errors.Is(err, rpc.ErrConnection) {
			return nil, err
		}
		// Addresses that never received funds have no account.
		if errors.Is(err, rpc.ErrAccountNotFound) {
			return nil, ErrBroadcast.Wrapf("account %s does not exist on chain (no funds)", address)
		}
		return nil, ErrSigning.Wrapf("account data for %s: %s", address, err)
	}
	return accountData, nil
}

func (s *Signer) setPlaceholderSignature(txb client.TxBuilder, accountData *rpc.AccountData) error {
	signatureProto := signing.SignatureV2{
		PubKey: s.bytesSigner.GetPublicKey(),
		Data: &signing.SingleSignatureData{
			SignMode:  signing.SignMode_SIGN_MODE_DIRECT,
			Signature: nil,
		},
		Sequence: accountData.Sequence,
	}
	if err := txb.SetSignatures(signatureProto); err != nil {
		return ErrSigning.Wrapf("placeholder signature: %s", err)
	}
	return nil
}

// simulate runs the tx with its empty signature and scales the gas it used.
func (s *Signer) simulate(ctx context.Context, txb client.TxBuilder) (uint64, error) {
	txBytes, err := s.txConfig.TxEncoder()(txb.GetTx())
	if err != nil {
		return 0, ErrSigning.Wrapf("encode for simulation: %s", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	simulationResult, err := s.rpcClient.SimulateTx(ctx, txBytes)
	if err != nil {
		if errors.Is(err, rpc.ErrConnection) {
			return 0, err
		}
		return 0, ErrBroadcast.Wrapf("simulation failed: %s", err)
	}

	gasLimit := uint64(math.Ceil(float64(simulationResult.GasUsed) * s.gasAdjustment))
	s.log.Debug().Uint64("gas_used", simulationResult.GasUsed).Float64("gas_adjustment", s.gasAdjustment).Uint64("gas_limit", gasLimit).Msg("Simulated transaction")
	return gasLimit, nil
}

func (s *Signer) signTx(
	txb client.TxBuilder,
	accountData *rpc.AccountData,
) ([]byte, error) {
	// Form signing data
	signerData := authsigning.SignerData{
		ChainID:       s.chainID,
		Sequence:      accountData.Sequence,
		AccountNumber: accountData.AccountNumber,
	}

	// Encode to bytes to sign
	signMode := signing.SignMode_SIGN_MODE_DIRECT
	unsignedTxBytes, err := s.txConfig.SignModeHandler().GetSignBytes(signMode, signerData, txb.GetTx())
	if err != nil {
		return nil, err
	}

	// Sign the bytes
	signatureBytes, err := s.bytesSigner.SignBytes(unsignedTxBytes)
	if err != nil {
		return nil, err
	}

	// Reconstruct the signature proto
	signatureData := &signing.SingleSignatureData{
		SignMode:  signMode,
		Signature: signatureBytes,
	}
	signatureProto := signing.SignatureV2{
		PubKey:   s.bytesSigner.GetPublicKey(),
		Data:     signatureData,
		Sequence: accountData.Sequence,
	}
	if err := txb.SetSignatures(signatureProto); err != nil {
		return nil, err
	}

	// Encode to bytes
	encoder := s.txConfig.TxEncoder()
	return encoder(txb.GetTx())
}

// waitForInclusion polls for the transaction until it is in a block or attempts run out.
func (s *Signer) waitForInclusion(ctx context.Context, broadcast *rpc.TxResult) (*rpc.TxResult, error) {
	s.log.Info().Str("tx_hash", broadcast.Hash).Msg("💤 Transaction sent, waiting for inclusion...")

	var included *rpc.IndexedTx
	err := retry.Do(func() error {
		pollCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		tx, err := s.rpcClient.GetTx(pollCtx, broadcast.Hash)
		if err != nil {
			return err
		}
		included = tx
		return nil
	},
		retry.Context(ctx),
		retry.Attempts(s.pollAttempts),
		retry.Delay(s.pollDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			s.log.Debug().Str("tx_hash", broadcast.Hash).Uint("attempt", n+1).Uint("max_attempts", s.pollAttempts).Err(err).Msg("Transaction still not included")
		}),
	)
	if err != nil {
		s.log.Warn().Str("tx_hash", broadcast.Hash).Err(err).Msg("Transaction broadcast but not seen in a block")
		return broadcast, rpc.ErrConnection.Wrapf("transaction %s was broadcast but not included after %d polls; it may still land", broadcast.Hash, s.pollAttempts)
	}

	result := included.Result
	result.Hash = broadcast.Hash
	if !result.Succeeded() {
		s.log.Warn().Str("tx_hash", result.Hash).Int64("height", result.Height).Uint32("code", result.Code).Msg("Transaction failed in block")
		return &result, s.rejection(&result)
	}

	s.log.Info().Str("tx_hash", result.Hash).Int64("height", result.Height).Int64("gas_used", result.GasUsed).Msg("✅ Transaction confirmed")
	return &result, nil
}

// rejection turns a non-zero result code into ErrBroadcast, surfacing a minimum fee when the
// node reported one.
func (s *Signer) rejection(result *rpc.TxResult) error {
	if minFee, ok := extractMinGlobalFee(result.RawLog); ok {
		return ErrBroadcast.Wrapf("code %d (%s): %s; minimum global fee is %s", result.Code, result.Codespace, result.RawLog, minFee)
	}
	return ErrBroadcast.Wrapf("code %d (%s): %s", result.Code, result.Codespace, result.RawLog)
}

// extractMinGlobalFee reads the fee floor in base units. 18 decimal denoms overflow int64.
func extractMinGlobalFee(rawLog string) (sdkmath.Int, bool) {
	matches := minGlobalFeePattern.FindStringSubmatch(rawLog)
	if len(matches) < 2 {
		return sdkmath.Int{}, false
	}

	return sdkmath.NewIntFromString(matches[1])
}
