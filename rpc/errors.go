package rpc

import sdkerrors "cosmossdk.io/errors"

var (
	codespace          = "sandbox-rpc"
	ErrConnection      = sdkerrors.Register(codespace, 1, "unable to reach node")
	ErrTxNotFound      = sdkerrors.Register(codespace, 2, "transaction not found")
	ErrQuery           = sdkerrors.Register(codespace, 3, "query rejected by node")
	ErrAccountNotFound = sdkerrors.Register(codespace, 4, "account not found")
)
