package monitor

import (
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"

	cachetypes "github.com/ethereum-mive/evmcache/types"
)

// blockToRow converts a fetched node block into the store row shape.
// transactionCount is filled in by the caller once persistTransactions
// reports how many rows it actually wrote (see persister.go).
func blockToRow(blockchainID string, b *gethtypes.Block, transactionCount int) *cachetypes.Block {
	uncles := b.Uncles()
	uncleHashes := make([]common.Hash, len(uncles))
	for i, u := range uncles {
		uncleHashes[i] = u.Hash()
	}
	return &cachetypes.Block{
		BlockchainID:     blockchainID,
		Number:           b.NumberU64(),
		Hash:             b.Hash(),
		ParentHash:       b.ParentHash(),
		Nonce:            b.Nonce(),
		GasLimit:         b.GasLimit(),
		GasUsed:          b.GasUsed(),
		Timestamp:        b.Time(),
		Sha3Uncles:       b.UncleHash(),
		LogsBloom:        b.Bloom().Bytes(),
		TransactionsRoot: b.TxHash(),
		ReceiptsRoot:     b.ReceiptHash(),
		StateRoot:        b.Root(),
		MixHash:          b.MixDigest(),
		Miner:            b.Coinbase(),
		Difficulty:       b.Difficulty(),
		ExtraData:        b.Extra(),
		Size:             uint64(b.Size()),
		TransactionCount: transactionCount,
		UncleHashes:      uncleHashes,
	}
}

// transactionToRow converts a node transaction plus its receipt into the
// store row shape. The sender is recovered via signer rather than trusting
// any node-reported "from" field, matching how the teacher's RPC layer
// derives it (core/types.Sender).
func transactionToRow(block *gethtypes.Block, t *gethtypes.Transaction, receipt *gethtypes.Receipt, index uint, signer gethtypes.Signer) *cachetypes.Transaction {
	from, err := gethtypes.Sender(signer, t)
	if err != nil {
		from = common.Address{}
	}
	v, r, s := t.RawSignatureValues()
	row := &cachetypes.Transaction{
		BlockHash:   block.Hash(),
		BlockNumber: block.NumberU64(),
		Hash:        t.Hash(),
		Nonce:       t.Nonce(),
		Index:       index,
		From:        from,
		To:          t.To(),
		Value:       t.Value(),
		GasPrice:    t.GasPrice(),
		Gas:         t.Gas(),
		Input:       t.Data(),
		Status:      receipt.Status,
		V:           v,
		R:           r,
		S:           s,
	}
	if receipt.ContractAddress != (common.Address{}) {
		addr := receipt.ContractAddress
		row.ContractAddress = &addr
	}
	return row
}

// logToRow converts one receipt log into the store row shape, normalising
// its topic vector to the fixed 4-element form (spec.md §9's "log topics
// arity" design note).
func logToRow(txHash common.Hash, l *gethtypes.Log) *cachetypes.Log {
	row := &cachetypes.Log{
		TransactionHash: txHash,
		BlockNumber:     l.BlockNumber,
		LogIndex:        uint(l.Index),
		Address:         l.Address,
		Data:            l.Data,
		NTopics:         len(l.Topics),
	}
	for i, t := range l.Topics {
		if i >= 4 {
			break
		}
		row.Topics[i] = t
	}
	return row
}
