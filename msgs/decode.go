package msgs

import (
	"fmt"
	"sync"

	sdk "github.com/cosmos/cosmos-sdk/types"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	evidencetypes "github.com/cosmos/cosmos-sdk/x/evidence/types"
	govv1beta1 "github.com/cosmos/cosmos-sdk/x/gov/types/v1beta1"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"
	"github.com/cosmos/gogoproto/proto"
)

// MsgFactory returns an empty message to decode into.
type MsgFactory func() sdk.Msg

var (
	decodersMu sync.RWMutex
	decoders   = map[string]MsgFactory{
		TypeURLTransfer:       func() sdk.Msg { return &banktypes.MsgSend{} },
		TypeURLDelegate:       func() sdk.Msg { return &stakingtypes.MsgDelegate{} },
		TypeURLSubmitProposal: func() sdk.Msg { return &govv1beta1.MsgSubmitProposal{} },
		TypeURLSubmitEvidence: func() sdk.Msg { return &evidencetypes.MsgSubmitEvidence{} },
	}
)

// Register makes DecodeTx understand messages with typeURL.
func Register(typeURL string, factory MsgFactory) {
	decodersMu.Lock()
	defer decodersMu.Unlock()

	decoders[typeURL] = factory
}

func lookupDecoder(typeURL string) (MsgFactory, bool) {
	decodersMu.RLock()
	defer decodersMu.RUnlock()

	factory, ok := decoders[typeURL]
	return factory, ok
}

// DecodedTx is a transaction split into its messages, memo and fee.
type DecodedTx struct {
	Messages []sdk.Msg
	TypeURLs []string
	Memo     string
	Fee      sdk.Coins
	GasLimit uint64
}

// DecodeTx decodes raw transaction bytes. Every message type must be registered; an unknown type
// URL fails the whole decode.
func DecodeTx(txBytes []byte) (*DecodedTx, error) {
	var raw txtypes.TxRaw
	if err := raw.Unmarshal(txBytes); err != nil {
		return nil, ErrDecode.Wrapf("tx envelope: %s", err)
	}

	var body txtypes.TxBody
	if err := body.Unmarshal(raw.BodyBytes); err != nil {
		return nil, ErrDecode.Wrapf("tx body: %s", err)
	}

	var authInfo txtypes.AuthInfo
	if err := authInfo.Unmarshal(raw.AuthInfoBytes); err != nil {
		return nil, ErrDecode.Wrapf("tx auth info: %s", err)
	}

	decoded := &DecodedTx{
		Messages: make([]sdk.Msg, 0, len(body.Messages)),
		TypeURLs: make([]string, 0, len(body.Messages)),
		Memo:     body.Memo,
	}
	if authInfo.Fee != nil {
		decoded.Fee = authInfo.Fee.Amount
		decoded.GasLimit = authInfo.Fee.GasLimit
	}

	for i, msgAny := range body.Messages {
		if msgAny == nil {
			return nil, ErrDecode.Wrapf("message %d is empty", i)
		}

		factory, ok := lookupDecoder(msgAny.TypeUrl)
		if !ok {
			return nil, ErrDecode.Wrapf("unsupported message type %s", msgAny.TypeUrl)
		}

		msg := factory()
		if err := proto.Unmarshal(msgAny.Value, msg); err != nil {
			return nil, ErrDecode.Wrapf("message %d (%s): %s", i, msgAny.TypeUrl, err)
		}

		decoded.Messages = append(decoded.Messages, msg)
		decoded.TypeURLs = append(decoded.TypeURLs, msgAny.TypeUrl)
	}

	return decoded, nil
}

// FirstTransferSender returns the sender of the first message, which must be a transfer.
func FirstTransferSender(decoded *DecodedTx) (string, error) {
	if decoded == nil || len(decoded.Messages) == 0 {
		return "", ErrDecode.Wrap("transaction has no messages")
	}

	send, ok := decoded.Messages[0].(*banktypes.MsgSend)
	if !ok {
		return "", ErrDecode.Wrapf("first message is %s, not %s", decoded.TypeURLs[0], TypeURLTransfer)
	}
	return send.FromAddress, nil
}

// Describe renders a decoded message on one line for status output.
func Describe(msg sdk.Msg) string {
	switch m := msg.(type) {
	case *banktypes.MsgSend:
		return fmt.Sprintf("%s: %s -> %s (%s)", KindTransfer, m.FromAddress, m.ToAddress, m.Amount)
	case *stakingtypes.MsgDelegate:
		return fmt.Sprintf("%s: %s -> %s (%s)", KindDelegate, m.DelegatorAddress, m.ValidatorAddress, m.Amount)
	case *govv1beta1.MsgSubmitProposal:
		return fmt.Sprintf("%s: proposer %s, deposit %s", KindSubmitProposal, m.Proposer, m.InitialDeposit)
	case *evidencetypes.MsgSubmitEvidence:
		return fmt.Sprintf("%s: submitter %s", KindSubmitEvidence, m.Submitter)
	default:
		return sdk.MsgTypeURL(msg)
	}
}
