package store

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v4"

	"github.com/ethereum-mive/evmcache/types"
)

// This file implements the query contract of spec.md §6, identified by
// intent rather than by the teacher's Read<Thing>/Write<Thing> key-value
// naming (store/accessors.go is grounded on that file's shape — one
// function per named operation — rewritten against SQL instead of an
// ethdb.KeyValueWriter).

// GetLatestBlock returns the highest stored block number for blockchainID,
// or ok=false if the chain has no rows yet (spec.md §6).
func (s *Store) GetLatestBlock(ctx context.Context, blockchainID string) (number uint64, ok bool, err error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	row := s.pool.QueryRow(ctx, `SELECT max(number) FROM blocks WHERE blockchain_id = $1`, blockchainID)
	var n *int64
	if err := row.Scan(&n); err != nil {
		return 0, false, fmt.Errorf("store: get latest block: %w", err)
	}
	if n == nil {
		return 0, false, nil
	}
	return uint64(*n), true, nil
}

// GetBlockByHash returns the stored transaction count for (blockchainID,
// hash), or ok=false if no row with that hash exists.
func (s *Store) GetBlockByHash(ctx context.Context, blockchainID string, hash common.Hash) (transactionCount int, ok bool, err error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	row := s.pool.QueryRow(ctx,
		`SELECT transaction_count FROM blocks WHERE blockchain_id = $1 AND hash = $2`,
		blockchainID, hash.Bytes())
	if err := row.Scan(&transactionCount); err != nil {
		if err == pgx.ErrNoRows {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("store: get block by hash: %w", err)
	}
	return transactionCount, true, nil
}

// GetBlockTransactionCount sums transaction_count across every block row
// stored at number (there may be more than one across a reorg's history).
func (s *Store) GetBlockTransactionCount(ctx context.Context, blockchainID string, number uint64) (int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	row := s.pool.QueryRow(ctx,
		`SELECT coalesce(sum(transaction_count), 0) FROM blocks WHERE blockchain_id = $1 AND number = $2`,
		blockchainID, int64(number))
	var total int
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("store: get block transaction count: %w", err)
	}
	return total, nil
}

// AddBlock inserts a block row within tx. rowsAffected is always 0 or 1; the
// Persister treats 0 as fatal (spec.md §4.4 step A).
func AddBlock(ctx context.Context, tx *Tx, b *types.Block) (rowsAffected int64, err error) {
	tag, err := tx.Exec(ctx, `
		INSERT INTO blocks (
			blockchain_id, number, hash, parent_hash, nonce, gas_limit, gas_used,
			"timestamp", sha3_uncles, logs_bloom, transactions_root, receipts_root,
			state_root, mix_hash, miner, difficulty, extra_data, size, transaction_count
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
		ON CONFLICT (blockchain_id, hash) DO NOTHING`,
		b.BlockchainID, int64(b.Number), b.Hash.Bytes(), b.ParentHash.Bytes(),
		int64(b.Nonce), int64(b.GasLimit), int64(b.GasUsed), int64(b.Timestamp),
		b.Sha3Uncles.Bytes(), b.LogsBloom, b.TransactionsRoot.Bytes(), b.ReceiptsRoot.Bytes(),
		b.StateRoot.Bytes(), b.MixHash.Bytes(), b.Miner.Bytes(), b.Difficulty.String(),
		b.ExtraData, int64(b.Size), b.TransactionCount)
	if err != nil {
		return 0, fmt.Errorf("store: add block: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteBlock removes the block row at (blockchainID, number). Used by
// Flush-on-start (spec.md §4.6); the Reconciler's rewrite path never
// deletes the block row itself (spec.md §4.3 step 2).
func DeleteBlock(ctx context.Context, tx *Tx, blockchainID string, number uint64) error {
	_, err := tx.Exec(ctx, `DELETE FROM blocks WHERE blockchain_id = $1 AND number = $2`,
		blockchainID, int64(number))
	if err != nil {
		return fmt.Errorf("store: delete block: %w", err)
	}
	return nil
}

// DeleteOmmers removes every ommer row whose nibling is a block stored at
// (blockchainID, number).
func DeleteOmmers(ctx context.Context, tx *Tx, blockchainID string, number uint64) error {
	_, err := tx.Exec(ctx, `
		DELETE FROM ommers WHERE blockchain_id = $1 AND nibling_hash IN (
			SELECT hash FROM blocks WHERE blockchain_id = $1 AND number = $2
		)`, blockchainID, int64(number))
	if err != nil {
		return fmt.Errorf("store: delete ommers: %w", err)
	}
	return nil
}

// AddOmmer inserts one (nibling_hash, ommer_hash) relation.
func AddOmmer(ctx context.Context, tx *Tx, o *types.Ommer) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO ommers (blockchain_id, nibling_hash, ommer_hash) VALUES ($1,$2,$3)
		ON CONFLICT (blockchain_id, nibling_hash, ommer_hash) DO NOTHING`,
		o.BlockchainID, o.NiblingHash.Bytes(), o.OmmerHash.Bytes())
	if err != nil {
		return fmt.Errorf("store: add ommer: %w", err)
	}
	return nil
}

// DeleteTransactions removes every transaction row at (blockchainID,
// number). It does not touch the logs table: there is no foreign-key
// cascade (logs are keyed by transaction hash, which outlives the
// transaction row it names), so callers run DeleteLogs for the same height
// first.
func DeleteTransactions(ctx context.Context, tx *Tx, blockchainID string, number uint64) error {
	_, err := tx.Exec(ctx, `DELETE FROM transactions WHERE blockchain_id = $1 AND block_number = $2`,
		blockchainID, int64(number))
	if err != nil {
		return fmt.Errorf("store: delete transactions: %w", err)
	}
	return nil
}

// AddTransaction inserts one transaction row. rowsAffected == 0 is fatal
// (spec.md §4.4, "insert-failure within step F").
func AddTransaction(ctx context.Context, tx *Tx, blockchainID string, t *types.Transaction) (rowsAffected int64, err error) {
	var to, contractAddress []byte
	if t.To != nil {
		to = t.To.Bytes()
	}
	if t.ContractAddress != nil {
		contractAddress = t.ContractAddress.Bytes()
	}
	tag, err := tx.Exec(ctx, `
		INSERT INTO transactions (
			blockchain_id, block_hash, block_number, hash, nonce, "index",
			"from", "to", value, gas_price, gas, input, status,
			contract_address, v, r, s
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		ON CONFLICT (blockchain_id, block_hash, hash) DO UPDATE SET
			status = EXCLUDED.status, contract_address = EXCLUDED.contract_address`,
		blockchainID, t.BlockHash.Bytes(), int64(t.BlockNumber), t.Hash.Bytes(), int64(t.Nonce), int32(t.Index),
		t.From.Bytes(), to, t.Value.String(), t.GasPrice.String(), int64(t.Gas), t.Input, int32(t.Status),
		contractAddress, t.V.String(), t.R.String(), t.S.String())
	if err != nil {
		return 0, fmt.Errorf("store: add transaction: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteLogs removes every log row at (blockchainID, number) — spec.md §4.4
// step C.
func DeleteLogs(ctx context.Context, tx *Tx, blockchainID string, number uint64) error {
	_, err := tx.Exec(ctx, `DELETE FROM logs WHERE blockchain_id = $1 AND block_number = $2`,
		blockchainID, int64(number))
	if err != nil {
		return fmt.Errorf("store: delete logs: %w", err)
	}
	return nil
}

// DeleteLogsByTransactionHash removes every log row for hash — the
// defensive delete spec.md §4.4 step F performs before reinserting a
// transaction's logs, covering reinserted transactions whose log set
// changed between persist attempts.
func DeleteLogsByTransactionHash(ctx context.Context, tx *Tx, hash common.Hash) error {
	_, err := tx.Exec(ctx, `DELETE FROM logs WHERE transaction_hash = $1`, hash.Bytes())
	if err != nil {
		return fmt.Errorf("store: delete logs by transaction hash: %w", err)
	}
	return nil
}

// AddLog inserts one log row and returns the store-assigned log_id, which
// the caller passes to the decoder. The topic vector is always 4 elements
// (spec.md §9, "log topics arity"); slots beyond l.NTopics are NULL.
func AddLog(ctx context.Context, tx *Tx, blockchainID string, l *types.Log) (logID int64, rowsAffected int64, err error) {
	topics := make([]interface{}, 4)
	for i := 0; i < l.NTopics && i < 4; i++ {
		topics[i] = l.Topics[i].Bytes()
	}
	row := tx.QueryRow(ctx, `
		INSERT INTO logs (
			blockchain_id, transaction_hash, block_number, log_index, address, data,
			topic0, topic1, topic2, topic3
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING log_id`,
		blockchainID, l.TransactionHash.Bytes(), int64(l.BlockNumber), int32(l.LogIndex),
		l.Address.Bytes(), l.Data, topics[0], topics[1], topics[2], topics[3])
	if err := row.Scan(&logID); err != nil {
		if err == pgx.ErrNoRows {
			return 0, 0, nil
		}
		return 0, 0, fmt.Errorf("store: add log: %w", err)
	}
	return logID, 1, nil
}
