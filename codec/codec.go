package codec

import (
	"sync"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/codec"
	txauth "github.com/cosmos/cosmos-sdk/x/auth/tx"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	evidencetypes "github.com/cosmos/cosmos-sdk/x/evidence/types"
	govv1beta1 "github.com/cosmos/cosmos-sdk/x/gov/types/v1beta1"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"
)

// Provides a singleton codec that can be used across the application

// Mutex to initialize the codec exactly once
var initCodecOnce sync.Once

// The codec
var cdc *codec.ProtoCodec = nil

func GetCodec() *codec.ProtoCodec {
	initCodecOnce.Do(func() {
		interfaceRegistry := codectypes.NewInterfaceRegistry()

		authtypes.RegisterInterfaces(interfaceRegistry)
		cryptotypes.RegisterInterfaces(interfaceRegistry)
		banktypes.RegisterInterfaces(interfaceRegistry)
		stakingtypes.RegisterInterfaces(interfaceRegistry)
		govv1beta1.RegisterInterfaces(interfaceRegistry)
		evidencetypes.RegisterInterfaces(interfaceRegistry)

		cdc = codec.NewProtoCodec(interfaceRegistry)
	})

	return cdc
}

// GetTxConfig returns a direct-sign tx config bound to the singleton codec.
func GetTxConfig() client.TxConfig {
	return txauth.NewTxConfig(GetCodec(), txauth.DefaultSignModes)
}
