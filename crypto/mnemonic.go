package crypto

import (
	"os"

	"github.com/tyler-smith/go-bip39"
)

// 256 bits of entropy yield a 24 word mnemonic.
const mnemonicEntropyBits = 256

// GenerateMnemonic returns a fresh 24 word BIP-39 mnemonic.
func GenerateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(mnemonicEntropyBits)
	if err != nil {
		return "", ErrMnemonic.Wrap(err.Error())
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", ErrMnemonic.Wrap(err.Error())
	}
	return mnemonic, nil
}

// WriteMnemonic writes mnemonic to a new file at path with no trailing newline. Existing files
// are never overwritten.
func WriteMnemonic(path, mnemonic string) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return ErrMnemonic.Wrapf("create %s: %s", path, err)
	}
	defer file.Close()

	if _, err := file.WriteString(mnemonic); err != nil {
		return ErrMnemonic.Wrapf("write %s: %s", path, err)
	}
	return nil
}
