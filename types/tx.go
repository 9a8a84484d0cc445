package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Transaction is a row-shaped view of a node transaction plus its
// receipt-derived fields, keyed to its containing block by BlockHash.
// The invariant the Persister upholds: for a given stored block hash, the
// set of Transaction rows is exactly the node's reported set at persist
// time (spec.md §3).
type Transaction struct {
	BlockHash   common.Hash
	BlockNumber uint64
	Hash        common.Hash
	Nonce       uint64
	Index       uint

	From     common.Address
	To       *common.Address `rlp:"nil"` // nil means contract creation
	Value    *big.Int
	GasPrice *big.Int
	Gas      uint64
	Input    []byte

	// Receipt-derived fields. Status and ContractAddress are absent (the
	// Persister skips the transaction) until the node's receipt is
	// available; see Persister step F.
	Status          uint64
	ContractAddress *common.Address

	V, R, S *big.Int
}

// Log belongs to a Transaction by TransactionHash. LogID is assigned by the
// store on insert and handed to the decoder.
type Log struct {
	LogID int64

	TransactionHash common.Hash
	BlockNumber     uint64
	LogIndex        uint

	Address common.Address
	Data    []byte

	// Topics is normalised to a fixed 4-element vector with zero hashes for
	// missing slots (spec.md §9, "Log topics arity"), so the insert query
	// signature is stable regardless of how many of the node's 0-4 reported
	// topics are present. NTopics reports how many leading slots are
	// populated.
	Topics [4]common.Hash
	NTopics int
}
