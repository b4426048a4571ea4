// Package testnode provides an in-memory rpc.RpcClient that behaves like a small single-validator
// chain: balances move on transfer, sequences advance on every accepted broadcast and included
// transactions can be fetched back by hash.
package testnode

import (
	"context"
	"fmt"
	"sync"

	cmttypes "github.com/cometbft/cometbft/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	evidencetypes "github.com/cosmos/cosmos-sdk/x/evidence/types"
	govv1beta1 "github.com/cosmos/cosmos-sdk/x/gov/types/v1beta1"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"

	"github.com/albacanete/cosmos-sandbox/msgs"
	"github.com/albacanete/cosmos-sandbox/rpc"
)

// DefaultChainID is the chain id reported when none is set.
const DefaultChainID = "sandbox-testnet-1"

// Code of the SDK's ErrInsufficientFunds.
const insufficientFundsCode = 5

// Node is a fake chain. The exported fields tune its behaviour; set them before use.
type Node struct {
	mu sync.Mutex

	ChainID string
	Height  int64

	// Err, when set, is returned by every call as a connection failure.
	Err error

	// SimulatedGas is reported by SimulateTx.
	SimulatedGas uint64

	// CheckTx verdict returned by Broadcast. A non-zero code keeps the tx out of blocks.
	CheckTxCode      uint32
	CheckTxCodespace string
	CheckTxLog       string

	// DeliverTx verdict recorded for included transactions.
	DeliverTxCode uint32
	DeliverTxLog  string
	GasUsed       int64

	// PendingPolls is the number of GetTx misses before a broadcast tx shows up.
	PendingPolls int

	balances map[string]sdk.Coins
	accounts map[string]*rpc.AccountData
	txs      map[string]*rpc.IndexedTx
	pending  map[string]int

	Broadcasts [][]byte
	Simulated  [][]byte
}

// Ensure that Node implements RpcClient
var _ rpc.RpcClient = (*Node)(nil)

// New returns a node at height 1 with no accounts.
func New() *Node {
	return &Node{
		ChainID:      DefaultChainID,
		Height:       1,
		SimulatedGas: 80000,
		GasUsed:      65000,
		balances:     map[string]sdk.Coins{},
		accounts:     map[string]*rpc.AccountData{},
		txs:          map[string]*rpc.IndexedTx{},
		pending:      map[string]int{},
	}
}

// Fund credits address with coins and creates its account when missing.
func (n *Node) Fund(address string, coins ...sdk.Coin) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.balances[address] = n.balances[address].Add(coins...)
	if _, ok := n.accounts[address]; !ok {
		n.accounts[address] = &rpc.AccountData{
			Address:       address,
			AccountNumber: uint64(len(n.accounts)),
		}
	}
}

// AddTx stores txBytes as included at the current height and returns its hash.
func (n *Node) AddTx(txBytes []byte) string {
	n.mu.Lock()
	defer n.mu.Unlock()

	hash := hashOf(txBytes)
	n.txs[hash] = &rpc.IndexedTx{
		Result: rpc.TxResult{Hash: hash, Height: n.Height, GasUsed: n.GasUsed},
		Bytes:  txBytes,
	}
	return hash
}

// Sequence returns the next sequence expected from address.
func (n *Node) Sequence(address string) uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	if account, ok := n.accounts[address]; ok {
		return account.Sequence
	}
	return 0
}

func (n *Node) GetChainID(ctx context.Context) (string, error) {
	if err := n.check(ctx); err != nil {
		return "", err
	}
	return n.ChainID, nil
}

func (n *Node) GetHeight(ctx context.Context) (int64, error) {
	if err := n.check(ctx); err != nil {
		return 0, err
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	return n.Height, nil
}

func (n *Node) GetBalances(ctx context.Context, address string) (sdk.Coins, error) {
	if err := n.check(ctx); err != nil {
		return nil, err
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	return sdk.NewCoins(n.balances[address]...), nil
}

func (n *Node) GetTx(ctx context.Context, hash string) (*rpc.IndexedTx, error) {
	if err := n.check(ctx); err != nil {
		return nil, err
	}
	normalized, err := rpc.NormalizeHash(hash)
	if err != nil {
		return nil, err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if remaining := n.pending[normalized]; remaining > 0 {
		n.pending[normalized] = remaining - 1
		return nil, rpc.ErrTxNotFound.Wrapf("hash %s", normalized)
	}

	tx, ok := n.txs[normalized]
	if !ok {
		return nil, rpc.ErrTxNotFound.Wrapf("hash %s", normalized)
	}
	copied := *tx
	return &copied, nil
}

func (n *Node) GetAccountData(ctx context.Context, address string) (*rpc.AccountData, error) {
	if err := n.check(ctx); err != nil {
		return nil, err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	account, ok := n.accounts[address]
	if !ok {
		return nil, rpc.ErrAccountNotFound.Wrapf("account %s", address)
	}
	copied := *account
	return &copied, nil
}

func (n *Node) SimulateTx(ctx context.Context, txBytes []byte) (*rpc.SimulationResult, error) {
	if err := n.check(ctx); err != nil {
		return nil, err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	n.Simulated = append(n.Simulated, txBytes)
	return &rpc.SimulationResult{GasUsed: n.SimulatedGas}, nil
}

// Broadcast runs a CheckTx against the canned verdict, then checks that every sender can cover its
// transfers and the fee. Accepted transactions pay the fee and are executed at the next height:
// transfers move balances and the signer's sequence advances even when DeliverTx fails.
func (n *Node) Broadcast(ctx context.Context, txBytes []byte) (*rpc.TxResult, error) {
	if err := n.check(ctx); err != nil {
		return nil, err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	n.Broadcasts = append(n.Broadcasts, txBytes)
	hash := hashOf(txBytes)

	result := &rpc.TxResult{
		Hash:      hash,
		Code:      n.CheckTxCode,
		Codespace: n.CheckTxCodespace,
		RawLog:    n.CheckTxLog,
	}
	if n.CheckTxCode != 0 {
		return result, nil
	}

	decoded, err := msgs.DecodeTx(txBytes)
	if err != nil {
		return nil, fmt.Errorf("test node cannot decode broadcast: %w", err)
	}

	spent, payer := spending(decoded)
	for address, amount := range spent {
		if !n.balances[address].IsAllGTE(amount) {
			result.Code = insufficientFundsCode
			result.Codespace = "sdk"
			result.RawLog = fmt.Sprintf("spendable balance %s is smaller than %s: insufficient funds", n.balances[address], amount)
			return result, nil
		}
	}

	n.Height++
	if payer != "" {
		n.balances[payer], _ = n.balances[payer].SafeSub(decoded.Fee...)
	}
	if n.DeliverTxCode == 0 {
		n.execute(decoded)
	}
	for _, signer := range signersOf(decoded) {
		if account, ok := n.accounts[signer]; ok {
			account.Sequence++
		}
	}

	n.txs[hash] = &rpc.IndexedTx{
		Result: rpc.TxResult{
			Hash:      hash,
			Height:    n.Height,
			Code:      n.DeliverTxCode,
			GasWanted: int64(decoded.GasLimit),
			GasUsed:   n.GasUsed,
			RawLog:    n.DeliverTxLog,
		},
		Bytes: txBytes,
	}
	n.pending[hash] = n.PendingPolls

	return result, nil
}

func (n *Node) execute(decoded *msgs.DecodedTx) {
	for _, msg := range decoded.Messages {
		send, ok := msg.(*banktypes.MsgSend)
		if !ok {
			continue
		}
		n.balances[send.FromAddress], _ = n.balances[send.FromAddress].SafeSub(send.Amount...)
		n.balances[send.ToAddress] = n.balances[send.ToAddress].Add(send.Amount...)
	}
}

func (n *Node) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return rpc.ErrConnection.Wrapf("context: %s", err)
	}
	if n.Err != nil {
		return rpc.ErrConnection.Wrapf("test node: %s", n.Err)
	}
	return nil
}

// spending sums what each address must hold: its transfers plus, for the first signer, the fee.
func spending(decoded *msgs.DecodedTx) (map[string]sdk.Coins, string) {
	spent := map[string]sdk.Coins{}
	payer := ""
	if signers := signersOf(decoded); len(signers) > 0 && !decoded.Fee.IsZero() {
		payer = signers[0]
		spent[payer] = spent[payer].Add(decoded.Fee...)
	}
	for _, msg := range decoded.Messages {
		if send, ok := msg.(*banktypes.MsgSend); ok {
			spent[send.FromAddress] = spent[send.FromAddress].Add(send.Amount...)
		}
	}
	return spent, payer
}

// signersOf returns the distinct signers of the decoded messages, in order.
func signersOf(decoded *msgs.DecodedTx) []string {
	seen := map[string]bool{}
	signers := []string{}
	for _, msg := range decoded.Messages {
		var signer string
		switch m := msg.(type) {
		case *banktypes.MsgSend:
			signer = m.FromAddress
		case *stakingtypes.MsgDelegate:
			signer = m.DelegatorAddress
		case *govv1beta1.MsgSubmitProposal:
			signer = m.Proposer
		case *evidencetypes.MsgSubmitEvidence:
			signer = m.Submitter
		}
		if signer != "" && !seen[signer] {
			seen[signer] = true
			signers = append(signers, signer)
		}
	}
	return signers
}

func hashOf(txBytes []byte) string {
	return fmt.Sprintf("%X", cmttypes.Tx(txBytes).Hash())
}
