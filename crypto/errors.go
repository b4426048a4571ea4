package crypto

import sdkerrors "cosmossdk.io/errors"

var (
	codespace         = "sandbox-crypto"
	ErrCredentialLoad = sdkerrors.Register(codespace, 1, "unable to load credential")
	ErrNoAccount      = sdkerrors.Register(codespace, 2, "credential yields no account")
	ErrMnemonic       = sdkerrors.Register(codespace, 3, "unable to generate mnemonic")
)
