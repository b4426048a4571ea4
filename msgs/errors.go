package msgs

import sdkerrors "cosmossdk.io/errors"

var (
	codespace         = "sandbox-msgs"
	ErrInvalidMessage = sdkerrors.Register(codespace, 1, "invalid message")
	ErrDecode         = sdkerrors.Register(codespace, 2, "unable to decode transaction")
)
