package crypto_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	"github.com/stretchr/testify/require"

	"github.com/albacanete/cosmos-sandbox/crypto"
)

const (
	testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	testAddress  = "cosmos19rl4cm2hmr8afy4kldpxz3fka4jguq0auqdal4"

	testPrivateKeyHex = "1c2b3d4e5f60718293a4b5c6d7e8f90112233445566778899aabbccddeeff001"
)

func writeCredentialFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "credential.key")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadCredentialFromMnemonic(t *testing.T) {
	path := writeCredentialFile(t, testMnemonic)

	credential, err := crypto.LoadCredential(path)
	require.NoError(t, err)
	require.Equal(t, crypto.SourceMnemonic, credential.Source())
	require.Equal(t, "m/44'/118'/0'/0/0", credential.HDPath())

	address, err := crypto.ResolveAddress(credential, 0)
	require.NoError(t, err)
	require.Equal(t, testAddress, address)
}

func TestMnemonicDerivationIsDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		mnemonic, err := crypto.GenerateMnemonic()
		require.NoError(t, err)
		require.Len(t, strings.Fields(mnemonic), 24)

		first, err := crypto.NewCredentialFromMnemonic(mnemonic)
		require.NoError(t, err)
		second, err := crypto.NewCredentialFromMnemonic(mnemonic)
		require.NoError(t, err)

		require.Equal(t, first.Accounts()[0].Address, second.Accounts()[0].Address)
		require.True(t, first.GetPublicKey().Equals(second.GetPublicKey()))
	}
}

func TestLoadCredentialStripsWhitespace(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "trailing newline", content: testMnemonic + "\n"},
		{name: "windows line ending", content: testMnemonic + "\r\n"},
		{name: "leading and trailing spaces", content: "  " + testMnemonic + "  "},
		{name: "doubled inner spaces", content: strings.ReplaceAll(testMnemonic, " ", "  ")},
		{name: "words on separate lines", content: strings.ReplaceAll(testMnemonic, " ", "\n")},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			credential, err := crypto.LoadCredential(writeCredentialFile(t, test.content))
			require.NoError(t, err)
			require.Equal(t, testAddress, credential.Accounts()[0].Address)
		})
	}
}

func TestLoadCredentialFromPrivateKey(t *testing.T) {
	plain, err := crypto.LoadCredential(writeCredentialFile(t, testPrivateKeyHex))
	require.NoError(t, err)
	require.Equal(t, crypto.SourcePrivateKey, plain.Source())
	require.Empty(t, plain.HDPath())

	prefixed, err := crypto.LoadCredential(writeCredentialFile(t, "0x"+testPrivateKeyHex+"\n"))
	require.NoError(t, err)

	require.Equal(t, plain.Accounts()[0].Address, prefixed.Accounts()[0].Address)
	require.True(t, strings.HasPrefix(plain.Accounts()[0].Address, "cosmos1"))
}

func TestLoadCredentialErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "empty", content: ""},
		{name: "only whitespace", content: " \n\t "},
		{name: "bad checksum", content: strings.Replace(testMnemonic, "about", "abandon", 1)},
		{name: "unknown word", content: strings.Replace(testMnemonic, "about", "sandbox", 1)},
		{name: "not hex", content: "zz2b3d4e5f60718293a4b5c6d7e8f90112233445566778899aabbccddeeff001"},
		{name: "short key", content: "1c2b3d4e"},
		{name: "zero key", content: strings.Repeat("00", 32)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := crypto.LoadCredential(writeCredentialFile(t, test.content))
			require.ErrorIs(t, err, crypto.ErrCredentialLoad)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := crypto.LoadCredential(filepath.Join(t.TempDir(), "missing.key"))
		require.ErrorIs(t, err, crypto.ErrCredentialLoad)
	})
}

func TestCredentialOptions(t *testing.T) {
	defaultCredential, err := crypto.NewCredentialFromMnemonic(testMnemonic)
	require.NoError(t, err)

	prefixed, err := crypto.NewCredentialFromMnemonic(testMnemonic, crypto.WithPrefix("osmo"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(prefixed.Accounts()[0].Address, "osmo1"))
	require.Equal(t, defaultCredential.GetAddress("osmo"), prefixed.Accounts()[0].Address)

	otherIndex, err := crypto.NewCredentialFromMnemonic(testMnemonic, crypto.WithHDPath(118, 0, 1))
	require.NoError(t, err)
	require.Equal(t, "m/44'/118'/0'/0/1", otherIndex.HDPath())
	require.NotEqual(t, defaultCredential.Accounts()[0].Address, otherIndex.Accounts()[0].Address)
}

func TestSignBytesVerifies(t *testing.T) {
	credential, err := crypto.NewCredentialFromHex(testPrivateKeyHex)
	require.NoError(t, err)

	message := []byte("sign me")
	signature, err := credential.SignBytes(message)
	require.NoError(t, err)

	pubKey, ok := credential.GetPublicKey().(*secp256k1.PubKey)
	require.True(t, ok)
	require.True(t, pubKey.VerifySignature(message, signature))
}

func TestResolveAddress(t *testing.T) {
	credential, err := crypto.NewCredentialFromMnemonic(testMnemonic)
	require.NoError(t, err)

	_, err = crypto.ResolveAddress(credential, 1)
	require.ErrorIs(t, err, crypto.ErrNoAccount)

	_, err = crypto.ResolveAddress(&crypto.Credential{}, 0)
	require.ErrorIs(t, err, crypto.ErrNoAccount)
}

func TestEmptyCredential(t *testing.T) {
	empty := &crypto.Credential{}

	require.Empty(t, empty.Accounts())
	require.Empty(t, empty.GetAddress("cosmos"))
	require.Nil(t, empty.GetPublicKey())

	_, err := empty.SignBytes([]byte("sign me"))
	require.ErrorIs(t, err, crypto.ErrNoAccount)
}

func TestWriteMnemonic(t *testing.T) {
	mnemonic, err := crypto.GenerateMnemonic()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "user.mnemonic.key")
	require.NoError(t, crypto.WriteMnemonic(path, mnemonic))

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, mnemonic, string(written))
	require.False(t, strings.HasSuffix(string(written), "\n"))

	err = crypto.WriteMnemonic(path, mnemonic)
	require.ErrorIs(t, err, crypto.ErrMnemonic)
}
