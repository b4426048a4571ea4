package crypto

import (
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	"github.com/cosmos/cosmos-sdk/types/bech32"
)

// BytesSigner signs arbitrary bytes and reports the account it controls.
type BytesSigner interface {
	GetAddress(prefix string) string
	GetPublicKey() cryptotypes.PubKey
	SignBytes(bytes []byte) ([]byte, error)
	Accounts() []Account
}

// Account is an address controlled by a credential together with its public key.
type Account struct {
	Address string
	PubKey  cryptotypes.PubKey
}

// ResolveAddress returns the address of the account at index.
func ResolveAddress(signer BytesSigner, index int) (string, error) {
	accounts := signer.Accounts()
	if len(accounts) == 0 {
		return "", ErrNoAccount
	}
	if index < 0 || index >= len(accounts) {
		return "", ErrNoAccount.Wrapf("index %d out of range, credential has %d account(s)", index, len(accounts))
	}

	return accounts[index].Address, nil
}

func bech32Address(prefix string, pubKey cryptotypes.PubKey) (string, error) {
	return bech32.ConvertAndEncode(prefix, pubKey.Address().Bytes())
}
