package rpc

import (
	"encoding/hex"
	"strings"
)

type AccountData struct {
	Address       string
	AccountNumber uint64
	Sequence      uint64
}

type SimulationResult struct {
	GasWanted uint64
	GasUsed   uint64
}

// TxResult is the node's verdict on a transaction. Code 0 means success.
type TxResult struct {
	Hash      string
	Height    int64
	Code      uint32
	Codespace string
	GasWanted int64
	GasUsed   int64
	RawLog    string
}

// Succeeded reports whether the node accepted the transaction.
func (r *TxResult) Succeeded() bool {
	return r.Code == 0
}

// IndexedTx is a transaction that was included in a block, with its raw bytes.
type IndexedTx struct {
	Result TxResult
	Bytes  []byte
}

// NormalizeHash upper-cases a hex transaction hash and strips an optional 0x prefix.
func NormalizeHash(hash string) (string, error) {
	hash = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(hash), "0x"), "0X")
	decoded, err := hex.DecodeString(hash)
	if err != nil || len(decoded) == 0 {
		return "", ErrTxNotFound.Wrapf("malformed transaction hash %q", hash)
	}
	return strings.ToUpper(hash), nil
}
