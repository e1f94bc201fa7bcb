package entities

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Transaction is one unsigned call the wallet must sign and broadcast.
// Gas and GasPrice are optional; when Gas is zero the wallet estimates it.
type Transaction struct {
	To       common.Address `json:"to"`
	Data     hexutil.Bytes  `json:"data"`
	Value    *hexutil.Big   `json:"value"`
	Gas      uint64         `json:"gas,omitempty"`
	GasPrice *hexutil.Big   `json:"gasPrice,omitempty"`
}

// Key returns the transaction's identity: two transactions with the same
// to, data and value are the same transaction regardless of gas fields.
func (t Transaction) Key() string {
	value := "0"
	if t.Value != nil {
		value = t.Value.ToInt().String()
	}
	return t.To.Hex() + ":" + t.Data.String() + ":" + value
}

// BigValue returns the transaction value as a big.Int, treating nil as zero.
func (t Transaction) BigValue() *big.Int {
	if t.Value == nil {
		return new(big.Int)
	}
	return t.Value.ToInt()
}

// TxList is an ordered transaction sequence that collapses duplicates by
// identity. Insertion order of first occurrence is preserved, so approvals
// appended before the swap call stay ahead of it.
type TxList struct {
	txs  []Transaction
	seen map[string]struct{}
}

// NewTxList creates an empty transaction list
func NewTxList() *TxList {
	return &TxList{seen: make(map[string]struct{})}
}

// Append adds a transaction unless an identical one is already present.
// It reports whether the transaction was inserted.
func (l *TxList) Append(tx Transaction) bool {
	key := tx.Key()
	if _, dup := l.seen[key]; dup {
		return false
	}
	l.seen[key] = struct{}{}
	l.txs = append(l.txs, tx)
	return true
}

// Items returns the ordered transactions
func (l *TxList) Items() []Transaction {
	return l.txs
}

// Len returns the number of distinct transactions
func (l *TxList) Len() int {
	return len(l.txs)
}
