package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Block is the canonical unit persisted by the Cache Monitor. It mirrors the
// subset of an execution node's header fields the store needs, plus the
// derived TransactionCount the Reconciler uses to detect stale or replaced
// transaction sets.
type Block struct {
	BlockchainID string

	Number     uint64
	Hash       common.Hash `json:"hash"             gencodec:"required"`
	ParentHash common.Hash `json:"parentHash"       gencodec:"required"`

	Nonce            uint64
	GasLimit         uint64
	GasUsed          uint64
	Timestamp        uint64
	Sha3Uncles       common.Hash `json:"sha3Uncles"       gencodec:"required"`
	LogsBloom        []byte      `json:"logsBloom"        gencodec:"required"`
	TransactionsRoot common.Hash `json:"transactionsRoot" gencodec:"required"`
	ReceiptsRoot     common.Hash `json:"receiptsRoot"     gencodec:"required"`
	StateRoot        common.Hash `json:"stateRoot"        gencodec:"required"`
	MixHash          common.Hash `json:"mixHash"`
	Miner            common.Address
	Difficulty       *big.Int
	ExtraData        []byte
	Size             uint64

	// TransactionCount is the de-facto count recorded alongside this block
	// row at insert time; the Reconciler compares it against both the
	// freshly fetched block's transaction count and the height's summed
	// transaction-row count across all block rows at that height.
	TransactionCount int

	// UncleHashes are the ommer hashes reported by the node for this block.
	// Empty means no ommer rows are inserted.
	UncleHashes []common.Hash
}

// Ommer is the (nibling_hash, ommer_hash) relation recorded for an uncle.
type Ommer struct {
	BlockchainID string
	NiblingHash  common.Hash
	OmmerHash    common.Hash
}
