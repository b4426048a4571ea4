package signer

import sdkerrors "cosmossdk.io/errors"

var (
	codespace    = "sandbox-signer"
	ErrSigning   = sdkerrors.Register(codespace, 1, "unable to sign transaction")
	ErrBroadcast = sdkerrors.Register(codespace, 2, "transaction rejected by node")
)
