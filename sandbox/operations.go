package sandbox

import (
	"context"
	"strings"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/bech32"
	"github.com/cosmos/cosmos-sdk/x/evidence/exported"

	"github.com/albacanete/cosmos-sandbox/msgs"
	"github.com/albacanete/cosmos-sandbox/rpc"
)

// TxReferencePrefix marks a counterparty given as the hash of a transfer, e.g. "tx:689DF3...".
// The transfer's sender becomes the counterparty.
const TxReferencePrefix = "tx:"

const validatorOperatorSuffix = "valoper"

type Status struct {
	ChainID string
	Height  int64
	Address string
	Node    string
}

// BalanceReport is one address's balances around a transaction.
type BalanceReport struct {
	Address string
	Before  sdk.Coins
	After   sdk.Coins
}

// Receipt is what a submission returns: the node's result plus balance reports when enabled.
type Receipt struct {
	Result   *rpc.TxResult
	Balances []BalanceReport
}

func (s *Session) Status(ctx context.Context) (*Status, error) {
	height, err := s.reader.Height(ctx)
	if err != nil {
		return nil, stageError(StageQuery, err)
	}

	return &Status{
		ChainID: s.chainID,
		Height:  height,
		Address: s.address,
		Node:    s.cfg.Node,
	}, nil
}

// Balances of address, or of the session's own address when address is empty.
func (s *Session) Balances(ctx context.Context, address string) (sdk.Coins, error) {
	if address == "" {
		address = s.address
	}

	balances, err := s.reader.Balances(ctx, address)
	if err != nil {
		return nil, stageError(StageQuery, err)
	}
	return balances, nil
}

// Transaction fetches and decodes a transaction.
func (s *Session) Transaction(ctx context.Context, hash string) (*rpc.IndexedTx, *msgs.DecodedTx, error) {
	tx, decoded, err := s.reader.DecodedTransaction(ctx, hash)
	if err != nil {
		return nil, nil, stageError(StageQuery, err)
	}
	return tx, decoded, nil
}

func (s *Session) TransferSender(ctx context.Context, hash string) (string, error) {
	sender, err := s.reader.TransferSender(ctx, hash)
	if err != nil {
		return "", stageError(StageQuery, err)
	}
	return sender, nil
}

// Send transfers amount from the session's address to recipient, which may be a tx reference.
func (s *Session) Send(ctx context.Context, recipient string, amount ...sdk.Coin) (*Receipt, error) {
	to, err := s.resolveCounterparty(ctx, recipient)
	if err != nil {
		return nil, err
	}

	message, err := msgs.NewTransfer(s.address, to, amount...)
	if err != nil {
		return nil, stageError(StageBuild, err)
	}

	var before []BalanceReport
	if s.cfg.ReportBalances {
		before, err = s.balanceReports(ctx, s.address, to)
		if err != nil {
			return nil, err
		}
	}

	receipt, err := s.Submit(ctx, message)
	if err != nil {
		return receipt, err
	}

	if s.cfg.ReportBalances {
		receipt.Balances = s.completeReports(ctx, before)
	}
	return receipt, nil
}

// Delegate stakes amount with validator. A tx reference resolves to the transfer sender's
// operator address.
func (s *Session) Delegate(ctx context.Context, validator string, amount sdk.Coin) (*Receipt, error) {
	to, err := s.resolveCounterparty(ctx, validator)
	if err != nil {
		return nil, err
	}
	if strings.HasPrefix(validator, TxReferencePrefix) {
		to, err = s.operatorAddress(to)
		if err != nil {
			return nil, stageError(StageBuild, err)
		}
	}

	message, err := msgs.NewDelegate(s.address, to, amount)
	if err != nil {
		return nil, stageError(StageBuild, err)
	}
	return s.Submit(ctx, message)
}

// Propose submits a text governance proposal with an initial deposit.
func (s *Session) Propose(ctx context.Context, title, description string, deposit ...sdk.Coin) (*Receipt, error) {
	message, err := msgs.NewSubmitProposal(s.address, msgs.NewTextContent(title, description), deposit...)
	if err != nil {
		return nil, stageError(StageBuild, err)
	}
	return s.Submit(ctx, message)
}

func (s *Session) SubmitEvidence(ctx context.Context, evidence exported.Evidence) (*Receipt, error) {
	message, err := msgs.NewSubmitEvidence(s.address, evidence)
	if err != nil {
		return nil, stageError(StageBuild, err)
	}
	return s.Submit(ctx, message)
}

// Submit signs messages, in order, into a single transaction from the session's address.
// A returned receipt may accompany an error when the node answered with a failure code.
func (s *Session) Submit(ctx context.Context, messages ...msgs.Message) (*Receipt, error) {
	result, err := s.signer.SignAndBroadcast(ctx, s.address, messages, s.fee)
	if err != nil {
		var receipt *Receipt
		if result != nil {
			receipt = &Receipt{Result: result}
		}
		return receipt, stageError(StageSubmit, err)
	}
	return &Receipt{Result: result}, nil
}

func (s *Session) resolveCounterparty(ctx context.Context, counterparty string) (string, error) {
	counterparty = strings.TrimSpace(counterparty)
	hash, isReference := strings.CutPrefix(counterparty, TxReferencePrefix)
	if !isReference {
		return counterparty, nil
	}

	if strings.TrimSpace(hash) == "" {
		return "", stageError(StageBuild, ErrCounterparty.Wrap("tx reference has no hash"))
	}
	sender, err := s.TransferSender(ctx, hash)
	if err != nil {
		return "", err
	}
	s.log.Info().Str("tx_hash", hash).Str("counterparty", sender).Msg("Resolved counterparty")
	return sender, nil
}

// operatorAddress re-encodes an account address with the validator operator prefix.
func (s *Session) operatorAddress(address string) (string, error) {
	operatorPrefix := s.cfg.AddressPrefix + validatorOperatorSuffix

	hrp, data, err := bech32.DecodeAndConvert(address)
	if err != nil {
		return "", ErrCounterparty.Wrapf("%s is not a bech32 address: %s", address, err)
	}
	if hrp == operatorPrefix {
		return address, nil
	}

	operator, err := bech32.ConvertAndEncode(operatorPrefix, data)
	if err != nil {
		return "", ErrCounterparty.Wrapf("encode %s as %s: %s", address, operatorPrefix, err)
	}
	return operator, nil
}

func (s *Session) balanceReports(ctx context.Context, addresses ...string) ([]BalanceReport, error) {
	reports := make([]BalanceReport, 0, len(addresses))
	for _, address := range addresses {
		balances, err := s.Balances(ctx, address)
		if err != nil {
			s.log.Error().Err(err).Str("address", address).Msg("Failed to read balances before submitting")
			return nil, err
		}
		s.log.Info().Str("address", address).Str("balances", balances.String()).Msg("Balance before")
		reports = append(reports, BalanceReport{Address: address, Before: balances})
	}
	return reports, nil
}

// completeReports fills the after balances. The transaction already went through, so a failed
// read is logged and leaves After empty.
func (s *Session) completeReports(ctx context.Context, reports []BalanceReport) []BalanceReport {
	for i := range reports {
		balances, err := s.Balances(ctx, reports[i].Address)
		if err != nil {
			s.log.Warn().Err(err).Str("address", reports[i].Address).Msg("Failed to read balances after submitting")
			continue
		}
		s.log.Info().Str("address", reports[i].Address).Str("balances", balances.String()).Msg("Balance after")
		reports[i].After = balances
	}
	return reports
}
