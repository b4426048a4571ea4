package msgs

import (
	"time"

	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	"github.com/cosmos/cosmos-sdk/x/evidence/exported"
	evidencetypes "github.com/cosmos/cosmos-sdk/x/evidence/types"
	govv1beta1 "github.com/cosmos/cosmos-sdk/x/gov/types/v1beta1"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"
	"github.com/cosmos/gogoproto/proto"
)

// Kind is the kind of a message.
type Kind string

const (
	KindTransfer       Kind = "transfer"
	KindDelegate       Kind = "delegate"
	KindSubmitProposal Kind = "submit-proposal"
	KindSubmitEvidence Kind = "submit-evidence"
)

// Type URLs expected by the chain for each built in kind.
const (
	TypeURLTransfer       = "/cosmos.bank.v1beta1.MsgSend"
	TypeURLDelegate       = "/cosmos.staking.v1beta1.MsgDelegate"
	TypeURLSubmitProposal = "/cosmos.gov.v1beta1.MsgSubmitProposal"
	TypeURLSubmitEvidence = "/cosmos.evidence.v1beta1.MsgSubmitEvidence"
)

// Message is one typed message ready to be placed in a transaction.
type Message interface {
	// Kind returns the kind of message that is being represented
	Kind() Kind
	// TypeURL is the protobuf type identifier the chain routes on
	TypeURL() string
	// Signer is the address expected to sign for the message
	Signer() string
	// Msg returns the SDK message to encode
	Msg() sdk.Msg
}

// message is the single implementation behind every kind. The wrapped sdk.Msg is built once by
// the constructors and never handed out for mutation.
type message struct {
	kind   Kind
	signer string
	msg    sdk.Msg
}

func (m *message) Kind() Kind      { return m.kind }
func (m *message) TypeURL() string { return sdk.MsgTypeURL(m.msg) }
func (m *message) Signer() string  { return m.signer }
func (m *message) Msg() sdk.Msg    { return m.msg }

// NewTransfer builds a bank send of amount from one address to another.
func NewTransfer(from, to string, amount ...sdk.Coin) (Message, error) {
	if err := validateAddress("sender", from); err != nil {
		return nil, err
	}
	if err := validateAddress("recipient", to); err != nil {
		return nil, err
	}
	if len(amount) == 0 {
		return nil, ErrInvalidMessage.Wrap("transfer needs at least one amount")
	}
	if err := validateCoins("amount", amount); err != nil {
		return nil, err
	}

	return &message{
		kind:   KindTransfer,
		signer: from,
		msg: &banktypes.MsgSend{
			FromAddress: from,
			ToAddress:   to,
			Amount:      sortedCoins(amount),
		},
	}, nil
}

// NewDelegate builds a staking delegation of amount from delegator to validator.
func NewDelegate(delegator, validator string, amount sdk.Coin) (Message, error) {
	if err := validateAddress("delegator", delegator); err != nil {
		return nil, err
	}
	if err := validateAddress("validator", validator); err != nil {
		return nil, err
	}
	if err := validateCoin("amount", amount); err != nil {
		return nil, err
	}

	return &message{
		kind:   KindDelegate,
		signer: delegator,
		msg: &stakingtypes.MsgDelegate{
			DelegatorAddress: delegator,
			ValidatorAddress: validator,
			Amount:           amount,
		},
	}, nil
}

// NewTextContent returns plain text governance proposal content.
func NewTextContent(title, description string) govv1beta1.Content {
	return govv1beta1.NewTextProposal(title, description)
}

// NewSubmitProposal builds a legacy governance proposal with an initial deposit.
func NewSubmitProposal(proposer string, content govv1beta1.Content, deposit ...sdk.Coin) (Message, error) {
	if err := validateAddress("proposer", proposer); err != nil {
		return nil, err
	}
	if content == nil {
		return nil, ErrInvalidMessage.Wrap("proposal content is empty")
	}
	if err := validateCoins("deposit", deposit); err != nil {
		return nil, err
	}

	protoContent, ok := content.(proto.Message)
	if !ok {
		return nil, ErrInvalidMessage.Wrapf("proposal content %T is not a protobuf message", content)
	}
	contentAny, err := codectypes.NewAnyWithValue(protoContent)
	if err != nil {
		return nil, ErrInvalidMessage.Wrapf("pack proposal content: %s", err)
	}

	return &message{
		kind:   KindSubmitProposal,
		signer: proposer,
		msg: &govv1beta1.MsgSubmitProposal{
			Content:        contentAny,
			InitialDeposit: sortedCoins(deposit),
			Proposer:       proposer,
		},
	}, nil
}

// NewEquivocation returns double signing evidence against a consensus address.
func NewEquivocation(height, power int64, consensusAddress string, at time.Time) *evidencetypes.Equivocation {
	return &evidencetypes.Equivocation{
		Height:           height,
		Time:             at.UTC(),
		Power:            power,
		ConsensusAddress: consensusAddress,
	}
}

// NewSubmitEvidence builds a misbehaviour report carrying evidence.
func NewSubmitEvidence(submitter string, evidence exported.Evidence) (Message, error) {
	if err := validateAddress("submitter", submitter); err != nil {
		return nil, err
	}
	if evidence == nil {
		return nil, ErrInvalidMessage.Wrap("evidence is empty")
	}
	if equivocation, ok := evidence.(*evidencetypes.Equivocation); ok {
		if err := validateAddress("consensus", equivocation.ConsensusAddress); err != nil {
			return nil, err
		}
		if equivocation.Height < 1 {
			return nil, ErrInvalidMessage.Wrapf("evidence height must be positive, got %d", equivocation.Height)
		}
	}

	evidenceAny, err := codectypes.NewAnyWithValue(evidence)
	if err != nil {
		return nil, ErrInvalidMessage.Wrapf("pack evidence: %s", err)
	}

	return &message{
		kind:   KindSubmitEvidence,
		signer: submitter,
		msg: &evidencetypes.MsgSubmitEvidence{
			Submitter: submitter,
			Evidence:  evidenceAny,
		},
	}, nil
}

// NewMessage wraps any SDK message under a caller chosen kind, so new kinds can be submitted
// without touching the signer.
func NewMessage(kind Kind, signer string, msg sdk.Msg) (Message, error) {
	if kind == "" {
		return nil, ErrInvalidMessage.Wrap("message kind is empty")
	}
	if err := validateAddress("signer", signer); err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, ErrInvalidMessage.Wrap("message is empty")
	}

	return &message{kind: kind, signer: signer, msg: msg}, nil
}

// SDKMsgs unwraps messages, preserving order.
func SDKMsgs(messages []Message) []sdk.Msg {
	sdkMsgs := make([]sdk.Msg, 0, len(messages))
	for _, m := range messages {
		sdkMsgs = append(sdkMsgs, m.Msg())
	}
	return sdkMsgs
}
