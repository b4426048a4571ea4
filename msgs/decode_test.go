package msgs_test

import (
	"testing"
	"time"

	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"
	"github.com/stretchr/testify/require"

	"github.com/albacanete/cosmos-sandbox/codec"
	"github.com/albacanete/cosmos-sandbox/msgs"
)

func encodeTx(t *testing.T, memo string, fee sdk.Coins, gas uint64, messages ...msgs.Message) []byte {
	t.Helper()

	txConfig := codec.GetTxConfig()
	builder := txConfig.NewTxBuilder()
	require.NoError(t, builder.SetMsgs(msgs.SDKMsgs(messages)...))
	builder.SetMemo(memo)
	builder.SetFeeAmount(fee)
	builder.SetGasLimit(gas)

	txBytes, err := txConfig.TxEncoder()(builder.GetTx())
	require.NoError(t, err)
	return txBytes
}

func rawTx(t *testing.T, messages ...*codectypes.Any) []byte {
	t.Helper()

	body := txtypes.TxBody{Messages: messages}
	bodyBytes, err := body.Marshal()
	require.NoError(t, err)

	authInfo := txtypes.AuthInfo{Fee: &txtypes.Fee{GasLimit: 1}}
	authInfoBytes, err := authInfo.Marshal()
	require.NoError(t, err)

	raw := txtypes.TxRaw{BodyBytes: bodyBytes, AuthInfoBytes: authInfoBytes}
	txBytes, err := raw.Marshal()
	require.NoError(t, err)
	return txBytes
}

func TestDecodeTx(t *testing.T) {
	transfer, err := msgs.NewTransfer(alice, bob, sdk.NewInt64Coin("stake", 100))
	require.NoError(t, err)
	delegate, err := msgs.NewDelegate(alice, validator, sdk.NewInt64Coin("stake", 7))
	require.NoError(t, err)
	proposal, err := msgs.NewSubmitProposal(alice, msgs.NewTextContent("title", "description"), sdk.NewInt64Coin("stake", 1))
	require.NoError(t, err)
	evidence, err := msgs.NewSubmitEvidence(alice, msgs.NewEquivocation(3, 1, "cosmosvalcons1ygl5ju8vggh76e2p8fyqc7ka4xm65n32rmzjlc", time.Now()))
	require.NoError(t, err)

	fee := sdk.NewCoins(sdk.NewInt64Coin("stake", 500))
	txBytes := encodeTx(t, "sandbox", fee, 200000, transfer, delegate, proposal, evidence)

	decoded, err := msgs.DecodeTx(txBytes)
	require.NoError(t, err)

	require.Equal(t, "sandbox", decoded.Memo)
	require.Equal(t, uint64(200000), decoded.GasLimit)
	require.Equal(t, "500stake", decoded.Fee.String())
	require.Equal(t, []string{
		msgs.TypeURLTransfer,
		msgs.TypeURLDelegate,
		msgs.TypeURLSubmitProposal,
		msgs.TypeURLSubmitEvidence,
	}, decoded.TypeURLs)

	send := decoded.Messages[0].(*banktypes.MsgSend)
	require.Equal(t, bob, send.ToAddress)
	require.Equal(t, "100stake", send.Amount.String())

	delegation := decoded.Messages[1].(*stakingtypes.MsgDelegate)
	require.Equal(t, validator, delegation.ValidatorAddress)
}

func TestDecodeTxUnknownType(t *testing.T) {
	txBytes := rawTx(t, &codectypes.Any{TypeUrl: "/cosmos.authz.v1beta1.MsgExec"})

	_, err := msgs.DecodeTx(txBytes)
	require.ErrorIs(t, err, msgs.ErrDecode)
	require.Contains(t, err.Error(), "/cosmos.authz.v1beta1.MsgExec")
}

func TestDecodeTxGarbage(t *testing.T) {
	_, err := msgs.DecodeTx([]byte{0xff, 0xff, 0xff})
	require.ErrorIs(t, err, msgs.ErrDecode)
}

func TestRegisterExtendsDecoder(t *testing.T) {
	typeURL := "/cosmos.staking.v1beta1.MsgUndelegate"
	undelegate := &stakingtypes.MsgUndelegate{
		DelegatorAddress: alice,
		ValidatorAddress: validator,
		Amount:           sdk.NewInt64Coin("stake", 3),
	}
	value, err := undelegate.Marshal()
	require.NoError(t, err)
	txBytes := rawTx(t, &codectypes.Any{TypeUrl: typeURL, Value: value})

	msgs.Register(typeURL, func() sdk.Msg { return &stakingtypes.MsgUndelegate{} })

	decoded, err := msgs.DecodeTx(txBytes)
	require.NoError(t, err)
	require.Equal(t, validator, decoded.Messages[0].(*stakingtypes.MsgUndelegate).ValidatorAddress)
	require.Contains(t, msgs.Describe(decoded.Messages[0]), "MsgUndelegate")
}

func TestFirstTransferSender(t *testing.T) {
	transfer, err := msgs.NewTransfer(alice, bob, sdk.NewInt64Coin("stake", 100))
	require.NoError(t, err)

	decoded, err := msgs.DecodeTx(encodeTx(t, "", nil, 1, transfer))
	require.NoError(t, err)

	sender, err := msgs.FirstTransferSender(decoded)
	require.NoError(t, err)
	require.Equal(t, alice, sender)
	require.Contains(t, msgs.Describe(decoded.Messages[0]), bob)
}

func TestFirstTransferSenderRejectsOtherKinds(t *testing.T) {
	delegate, err := msgs.NewDelegate(alice, validator, sdk.NewInt64Coin("stake", 7))
	require.NoError(t, err)

	decoded, err := msgs.DecodeTx(encodeTx(t, "", nil, 1, delegate))
	require.NoError(t, err)

	_, err = msgs.FirstTransferSender(decoded)
	require.ErrorIs(t, err, msgs.ErrDecode)

	_, err = msgs.FirstTransferSender(&msgs.DecodedTx{})
	require.ErrorIs(t, err, msgs.ErrDecode)
}
