package msgs_test

import (
	"testing"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	evidencetypes "github.com/cosmos/cosmos-sdk/x/evidence/types"
	govv1beta1 "github.com/cosmos/cosmos-sdk/x/gov/types/v1beta1"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/albacanete/cosmos-sandbox/msgs"
)

const (
	alice     = "cosmos19rl4cm2hmr8afy4kldpxz3fka4jguq0auqdal4"
	bob       = "cosmos1ygl5ju8vggh76e2p8fyqc7ka4xm65n32ju9ml2"
	validator = "cosmosvaloper1ygl5ju8vggh76e2p8fyqc7ka4xm65n32hg3wne"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw      string
		expected sdk.Coin
		wantErr  bool
	}{
		{raw: "100stake", expected: sdk.NewInt64Coin("stake", 100)},
		{raw: " 500 uatom ", expected: sdk.NewInt64Coin("uatom", 500)},
		{raw: "0stake", expected: sdk.NewInt64Coin("stake", 0)},
		{raw: "-100stake", wantErr: true},
		{raw: "100", wantErr: true},
		{raw: "stake", wantErr: true},
		{raw: "1.5stake", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.raw, func(t *testing.T) {
			coin, err := msgs.ParseAmount(test.raw)
			if test.wantErr {
				require.ErrorIs(t, err, msgs.ErrInvalidMessage)
				return
			}
			require.NoError(t, err)
			require.Equal(t, test.expected.String(), coin.String())
		})
	}
}

func TestParseAmounts(t *testing.T) {
	coins, err := msgs.ParseAmounts("100stake, 5uatom")
	require.NoError(t, err)
	require.Len(t, coins, 2)

	coins, err = msgs.ParseAmounts("")
	require.NoError(t, err)
	require.Empty(t, coins)

	_, err = msgs.ParseAmounts("100stake,-1uatom")
	require.ErrorIs(t, err, msgs.ErrInvalidMessage)
}

func TestNewAmount(t *testing.T) {
	coin, err := msgs.NewAmount("100000", "uatom")
	require.NoError(t, err)
	require.Equal(t, "100000uatom", coin.String())

	_, err = msgs.NewAmount("-1", "uatom")
	require.ErrorIs(t, err, msgs.ErrInvalidMessage)

	_, err = msgs.NewAmount("1", " ")
	require.ErrorIs(t, err, msgs.ErrInvalidMessage)

	_, err = msgs.NewAmount("one", "uatom")
	require.ErrorIs(t, err, msgs.ErrInvalidMessage)
}

func TestNewTransfer(t *testing.T) {
	message, err := msgs.NewTransfer(alice, bob, sdk.NewInt64Coin("stake", 100))
	require.NoError(t, err)

	require.Equal(t, msgs.KindTransfer, message.Kind())
	require.Equal(t, msgs.TypeURLTransfer, message.TypeURL())
	require.Equal(t, alice, message.Signer())

	send, ok := message.Msg().(*banktypes.MsgSend)
	require.True(t, ok)
	require.Equal(t, alice, send.FromAddress)
	require.Equal(t, bob, send.ToAddress)
	require.Equal(t, "100stake", send.Amount.String())
}

func TestNewTransferSortsWithoutMutatingInput(t *testing.T) {
	amount := []sdk.Coin{sdk.NewInt64Coin("uatom", 5), sdk.NewInt64Coin("stake", 1)}

	message, err := msgs.NewTransfer(alice, bob, amount...)
	require.NoError(t, err)

	require.Equal(t, "uatom", amount[0].Denom)
	require.Equal(t, "1stake,5uatom", message.Msg().(*banktypes.MsgSend).Amount.String())
}

func TestBuilderValidation(t *testing.T) {
	negative := sdk.Coin{Denom: "stake", Amount: math.NewInt(-100)}
	noDenom := sdk.Coin{Amount: math.NewInt(100)}
	noQuantity := sdk.Coin{Denom: "stake"}
	stake := sdk.NewInt64Coin("stake", 100)
	evidence := msgs.NewEquivocation(10, 100, "cosmosvalcons1ygl5ju8vggh76e2p8fyqc7ka4xm65n32rmzjlc", time.Now())

	tests := []struct {
		name  string
		build func() (msgs.Message, error)
	}{
		{name: "transfer negative amount", build: func() (msgs.Message, error) { return msgs.NewTransfer(alice, bob, negative) }},
		{name: "transfer empty denom", build: func() (msgs.Message, error) { return msgs.NewTransfer(alice, bob, noDenom) }},
		{name: "transfer nil quantity", build: func() (msgs.Message, error) { return msgs.NewTransfer(alice, bob, noQuantity) }},
		{name: "transfer without amount", build: func() (msgs.Message, error) { return msgs.NewTransfer(alice, bob) }},
		{name: "transfer empty sender", build: func() (msgs.Message, error) { return msgs.NewTransfer("", bob, stake) }},
		{name: "transfer empty recipient", build: func() (msgs.Message, error) { return msgs.NewTransfer(alice, " ", stake) }},
		{name: "delegate negative amount", build: func() (msgs.Message, error) { return msgs.NewDelegate(alice, validator, negative) }},
		{name: "delegate empty validator", build: func() (msgs.Message, error) { return msgs.NewDelegate(alice, "", stake) }},
		{name: "proposal negative deposit", build: func() (msgs.Message, error) {
			return msgs.NewSubmitProposal(alice, msgs.NewTextContent("t", "d"), negative)
		}},
		{name: "proposal nil content", build: func() (msgs.Message, error) { return msgs.NewSubmitProposal(alice, nil, stake) }},
		{name: "proposal empty proposer", build: func() (msgs.Message, error) {
			return msgs.NewSubmitProposal("", msgs.NewTextContent("t", "d"), stake)
		}},
		{name: "evidence empty submitter", build: func() (msgs.Message, error) { return msgs.NewSubmitEvidence("", evidence) }},
		{name: "evidence nil", build: func() (msgs.Message, error) { return msgs.NewSubmitEvidence(alice, nil) }},
		{name: "evidence zero height", build: func() (msgs.Message, error) {
			return msgs.NewSubmitEvidence(alice, msgs.NewEquivocation(0, 1, "cosmosvalcons1xyz", time.Now()))
		}},
		{name: "evidence empty consensus address", build: func() (msgs.Message, error) {
			return msgs.NewSubmitEvidence(alice, msgs.NewEquivocation(1, 1, "", time.Now()))
		}},
		{name: "custom empty kind", build: func() (msgs.Message, error) {
			return msgs.NewMessage("", alice, &banktypes.MsgSend{})
		}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			message, err := test.build()
			require.ErrorIs(t, err, msgs.ErrInvalidMessage)
			require.Nil(t, message)
		})
	}
}

func TestNewDelegate(t *testing.T) {
	message, err := msgs.NewDelegate(alice, validator, sdk.NewInt64Coin("uatom", 1000))
	require.NoError(t, err)
	require.Equal(t, msgs.TypeURLDelegate, message.TypeURL())

	delegate := message.Msg().(*stakingtypes.MsgDelegate)
	require.Equal(t, alice, delegate.DelegatorAddress)
	require.Equal(t, validator, delegate.ValidatorAddress)
	require.Equal(t, "1000uatom", delegate.Amount.String())
}

func TestNewSubmitProposal(t *testing.T) {
	title := uuid.NewString()
	message, err := msgs.NewSubmitProposal(alice, msgs.NewTextContent(title, "sandbox"), sdk.NewInt64Coin("uatom", 500))
	require.NoError(t, err)
	require.Equal(t, msgs.TypeURLSubmitProposal, message.TypeURL())

	proposal := message.Msg().(*govv1beta1.MsgSubmitProposal)
	require.Equal(t, alice, proposal.Proposer)
	require.Equal(t, "/cosmos.gov.v1beta1.TextProposal", proposal.Content.TypeUrl)
	require.Equal(t, "500uatom", proposal.InitialDeposit.String())

	var content govv1beta1.TextProposal
	require.NoError(t, content.Unmarshal(proposal.Content.Value))
	require.Equal(t, title, content.Title)
}

func TestNewSubmitEvidence(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	evidence := msgs.NewEquivocation(42, 10, "cosmosvalcons1ygl5ju8vggh76e2p8fyqc7ka4xm65n32rmzjlc", at)

	message, err := msgs.NewSubmitEvidence(alice, evidence)
	require.NoError(t, err)
	require.Equal(t, msgs.TypeURLSubmitEvidence, message.TypeURL())
	require.Equal(t, msgs.KindSubmitEvidence, message.Kind())

	submit := message.Msg().(*evidencetypes.MsgSubmitEvidence)
	require.Equal(t, alice, submit.Submitter)
	require.Equal(t, "/cosmos.evidence.v1beta1.Equivocation", submit.Evidence.TypeUrl)

	var decoded evidencetypes.Equivocation
	require.NoError(t, decoded.Unmarshal(submit.Evidence.Value))
	require.Equal(t, int64(42), decoded.Height)
	require.True(t, at.Equal(decoded.Time))
}

func TestNewMessageCustomKind(t *testing.T) {
	undelegate := &stakingtypes.MsgUndelegate{
		DelegatorAddress: alice,
		ValidatorAddress: validator,
		Amount:           sdk.NewInt64Coin("uatom", 1),
	}

	message, err := msgs.NewMessage("undelegate", alice, undelegate)
	require.NoError(t, err)
	require.Equal(t, msgs.Kind("undelegate"), message.Kind())
	require.Equal(t, "/cosmos.staking.v1beta1.MsgUndelegate", message.TypeURL())
	require.Len(t, msgs.SDKMsgs([]msgs.Message{message}), 1)
}
