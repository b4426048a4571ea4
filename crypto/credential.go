package crypto

import (
	"bytes"
	"encoding/hex"
	"os"
	"strings"

	"github.com/cosmos/cosmos-sdk/crypto/hd"
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	"github.com/tyler-smith/go-bip39"
)

const (
	DefaultPrefix   = "cosmos"
	DefaultCoinType = 118

	privateKeyLength = 32
)

// Source names where a credential's key material came from.
type Source string

const (
	SourceMnemonic   Source = "mnemonic"
	SourcePrivateKey Source = "private_key"
)

// Credential is a single secp256k1 key loaded from a mnemonic or a raw private key.
type Credential struct {
	privKey cryptotypes.PrivKey
	source  Source

	prefix string
	hdPath string
}

var _ BytesSigner = (*Credential)(nil)

type credentialOptions struct {
	prefix   string
	coinType uint32
	account  uint32
	index    uint32
}

// CredentialOption configures derivation of a credential.
type CredentialOption func(*credentialOptions)

// WithPrefix sets the bech32 prefix used for the credential's accounts.
func WithPrefix(prefix string) CredentialOption {
	return func(o *credentialOptions) {
		o.prefix = prefix
	}
}

// WithHDPath sets the BIP-44 coin type, account and address index used when deriving from a
// mnemonic. It has no effect on raw private keys.
func WithHDPath(coinType, account, index uint32) CredentialOption {
	return func(o *credentialOptions) {
		o.coinType = coinType
		o.account = account
		o.index = index
	}
}

// LoadCredential reads a mnemonic or a hex encoded private key from path.
//
// Surrounding whitespace, including a trailing newline, is stripped and runs of whitespace
// between mnemonic words are collapsed before parsing.
func LoadCredential(path string, opts ...CredentialOption) (*Credential, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrCredentialLoad.Wrapf("read %s: %s", path, err)
	}

	credential, err := ParseCredential(string(data), opts...)
	if err != nil {
		return nil, ErrCredentialLoad.Wrapf("parse %s: %s", path, err)
	}
	return credential, nil
}

// ParseCredential parses raw credential file content. See LoadCredential.
func ParseCredential(content string, opts ...CredentialOption) (*Credential, error) {
	words := strings.Fields(content)
	switch len(words) {
	case 0:
		return nil, ErrCredentialLoad.Wrap("credential is empty")
	case 1:
		return NewCredentialFromHex(words[0], opts...)
	default:
		return NewCredentialFromMnemonic(strings.Join(words, " "), opts...)
	}
}

// NewCredentialFromMnemonic derives a secp256k1 key from a BIP-39 mnemonic.
func NewCredentialFromMnemonic(mnemonic string, opts ...CredentialOption) (*Credential, error) {
	options := applyOptions(opts)

	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrCredentialLoad.Wrap("invalid mnemonic")
	}

	hdPath := hd.CreateHDPath(options.coinType, options.account, options.index).String()
	derivedKey, err := hd.Secp256k1.Derive()(mnemonic, "", hdPath)
	if err != nil {
		return nil, ErrCredentialLoad.Wrapf("derive key at %s: %s", hdPath, err)
	}

	return &Credential{
		privKey: hd.Secp256k1.Generate()(derivedKey),
		source:  SourceMnemonic,
		prefix:  options.prefix,
		hdPath:  hdPath,
	}, nil
}

// NewCredentialFromHex wraps a hex encoded 32 byte secp256k1 private key. A 0x prefix is allowed.
func NewCredentialFromHex(rawKey string, opts ...CredentialOption) (*Credential, error) {
	options := applyOptions(opts)

	rawKey = strings.TrimPrefix(strings.TrimPrefix(rawKey, "0x"), "0X")
	keyBytes, err := hex.DecodeString(rawKey)
	if err != nil {
		return nil, ErrCredentialLoad.Wrapf("private key is not hex: %s", err)
	}
	if len(keyBytes) != privateKeyLength {
		return nil, ErrCredentialLoad.Wrapf("private key must be %d bytes, got %d", privateKeyLength, len(keyBytes))
	}
	if bytes.Equal(keyBytes, make([]byte, privateKeyLength)) {
		return nil, ErrCredentialLoad.Wrap("private key is zero")
	}

	return &Credential{
		privKey: &secp256k1.PrivKey{Key: keyBytes},
		source:  SourcePrivateKey,
		prefix:  options.prefix,
	}, nil
}

func applyOptions(opts []CredentialOption) *credentialOptions {
	options := &credentialOptions{
		prefix:   DefaultPrefix,
		coinType: DefaultCoinType,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// Source reports whether the credential came from a mnemonic or a raw key.
func (c *Credential) Source() Source {
	return c.source
}

// HDPath is empty for raw private keys.
func (c *Credential) HDPath() string {
	return c.hdPath
}

// Accounts lists the accounts controlled by the credential. A single key yields one account.
func (c *Credential) Accounts() []Account {
	if c.privKey == nil {
		return nil
	}

	pubKey := c.privKey.PubKey()
	address, err := bech32Address(c.prefix, pubKey)
	if err != nil {
		return nil
	}

	return []Account{{Address: address, PubKey: pubKey}}
}

// GetAddress returns the credential's address under an arbitrary prefix.
func (c *Credential) GetAddress(prefix string) string {
	if c.privKey == nil {
		return ""
	}
	address, err := bech32Address(prefix, c.privKey.PubKey())
	if err != nil {
		return ""
	}
	return address
}

// GetPublicKey is nil for a credential that holds no key.
func (c *Credential) GetPublicKey() cryptotypes.PubKey {
	if c.privKey == nil {
		return nil
	}
	return c.privKey.PubKey()
}

func (c *Credential) SignBytes(msg []byte) ([]byte, error) {
	if c.privKey == nil {
		return nil, ErrNoAccount.Wrap("credential holds no key")
	}
	return c.privKey.Sign(msg)
}
