package sandbox

import (
	"context"

	"github.com/albacanete/cosmos-sandbox/codec"
	"github.com/albacanete/cosmos-sandbox/config"
	"github.com/albacanete/cosmos-sandbox/crypto"
	"github.com/albacanete/cosmos-sandbox/log"
	"github.com/albacanete/cosmos-sandbox/rpc"
	"github.com/albacanete/cosmos-sandbox/signer"
)

// Session holds everything one run needs: the credential, its address and one connection to the
// node, reused by every operation.
type Session struct {
	cfg *config.Configuration

	credential *crypto.Credential
	address    string
	chainID    string

	reader *rpc.ChainReader
	signer *signer.Signer
	fee    signer.Fee

	closer func() error

	log *log.Logger
}

type sessionOptions struct {
	client     rpc.RpcClient
	credential *crypto.Credential
}

type Option func(*sessionOptions)

// WithClient skips dialing the configured node and uses client instead.
func WithClient(client rpc.RpcClient) Option {
	return func(o *sessionOptions) {
		o.client = client
	}
}

// WithCredential skips reading the credential file.
func WithCredential(credential *crypto.Credential) Option {
	return func(o *sessionOptions) {
		o.credential = credential
	}
}

// NewSession loads the credential, resolves its address, connects to the node and checks the
// node serves the configured chain.
func NewSession(ctx context.Context, cfg *config.Configuration, logger *log.Logger, opts ...Option) (*Session, error) {
	options := &sessionOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// 1. Credential
	credential := options.credential
	if credential == nil {
		loaded, err := crypto.LoadCredential(
			cfg.CredentialFile,
			crypto.WithPrefix(cfg.AddressPrefix),
			crypto.WithHDPath(cfg.CoinType, cfg.HDAccount, cfg.HDIndex),
		)
		if err != nil {
			logger.Error().Err(err).Str("credential_file", cfg.CredentialFile).Msg("Failed to load credential")
			return nil, stageError(StageCredential, err)
		}
		credential = loaded
	}

	// 2. Address
	address, err := crypto.ResolveAddress(credential, 0)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to resolve address")
		return nil, stageError(StageCredential, err)
	}
	logger.Info().Str("address", address).Str("source", string(credential.Source())).Msg("🔑 Loaded credential")

	// 3. Connection
	cdc := codec.GetCodec()
	client := options.client
	if client == nil {
		client, err = rpc.NewClient(cfg.Transport, cfg.Node, cdc, logger)
		if err != nil {
			logger.Error().Err(err).Str("node", cfg.Node).Msg("Failed to connect")
			return nil, stageError(StageConnect, err)
		}
	}
	closer := func() error { return nil }
	if closable, ok := client.(interface{ Close() error }); ok {
		closer = closable.Close
	}

	reader := rpc.NewChainReader(client, cfg.Timeout(), logger)
	chainID, err := reader.ChainID(ctx)
	if err != nil {
		logger.Error().Err(err).Str("node", cfg.Node).Str("address", address).Msg("Failed to reach node")
		_ = closer()
		return nil, stageError(StageConnect, err)
	}
	if cfg.ChainID != "" && cfg.ChainID != chainID {
		_ = closer()
		return nil, stageError(StageConnect, ErrChainMismatch.Wrapf("expected %s, node reports %s", cfg.ChainID, chainID))
	}
	logger.Info().Str("chain_id", chainID).Str("node", cfg.Node).Str("transport", cfg.Transport).Msg("🔌 Connected")

	// 4. Submitter
	fee, err := signer.ParseFee(cfg.FeeAmount, cfg.GasLimit)
	if err != nil {
		_ = closer()
		return nil, stageError(StageBuild, err)
	}
	txSigner := signer.NewSigner(
		cdc,
		client,
		credential,
		chainID,
		cfg.AddressPrefix,
		cfg.Memo,
		logger,
		signer.WithGasAdjustment(cfg.GasAdjustment),
		signer.WithTimeout(cfg.Timeout()),
		signer.WithInclusionPolling(cfg.TxPollDelay(), cfg.TxPollAttempts),
	)

	return &Session{
		cfg: cfg,

		credential: credential,
		address:    address,
		chainID:    chainID,

		reader: reader,
		signer: txSigner,
		fee:    fee,

		closer: closer,

		log: logger,
	}, nil
}

func (s *Session) Address() string {
	return s.address
}

func (s *Session) ChainID() string {
	return s.chainID
}

func (s *Session) Fee() signer.Fee {
	return s.fee
}

// Close releases the connection to the node.
func (s *Session) Close() error {
	return s.closer()
}
