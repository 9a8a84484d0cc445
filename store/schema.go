package store

import "context"

// schemaDDL defines the table shapes for spec.md §3's data model. Rows are
// created by the Persister and deleted only by Flush-on-start or the
// Reconciler's stale-data branch.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS blocks (
	blockchain_id      TEXT        NOT NULL,
	number             BIGINT      NOT NULL,
	hash               BYTEA       NOT NULL,
	parent_hash        BYTEA       NOT NULL,
	nonce              BIGINT      NOT NULL,
	gas_limit          BIGINT      NOT NULL,
	gas_used           BIGINT      NOT NULL,
	"timestamp"        BIGINT      NOT NULL,
	sha3_uncles        BYTEA       NOT NULL,
	logs_bloom         BYTEA       NOT NULL,
	transactions_root  BYTEA       NOT NULL,
	receipts_root      BYTEA       NOT NULL,
	state_root         BYTEA       NOT NULL,
	mix_hash           BYTEA       NOT NULL,
	miner              BYTEA       NOT NULL,
	difficulty         NUMERIC     NOT NULL,
	extra_data         BYTEA       NOT NULL,
	size               BIGINT      NOT NULL,
	transaction_count  INT         NOT NULL,
	inserted_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (blockchain_id, hash)
);
CREATE INDEX IF NOT EXISTS blocks_blockchain_number_idx ON blocks (blockchain_id, number);

CREATE TABLE IF NOT EXISTS ommers (
	blockchain_id TEXT  NOT NULL,
	nibling_hash  BYTEA NOT NULL,
	ommer_hash    BYTEA NOT NULL,
	PRIMARY KEY (blockchain_id, nibling_hash, ommer_hash)
);

CREATE TABLE IF NOT EXISTS transactions (
	blockchain_id    TEXT    NOT NULL,
	block_hash       BYTEA   NOT NULL,
	block_number     BIGINT  NOT NULL,
	hash             BYTEA   NOT NULL,
	nonce            BIGINT  NOT NULL,
	"index"          INT     NOT NULL,
	"from"           BYTEA   NOT NULL,
	"to"             BYTEA,
	value            NUMERIC NOT NULL,
	gas_price        NUMERIC NOT NULL,
	gas              BIGINT  NOT NULL,
	input            BYTEA   NOT NULL,
	status           INT     NOT NULL,
	contract_address BYTEA,
	v                NUMERIC NOT NULL,
	r                NUMERIC NOT NULL,
	s                NUMERIC NOT NULL,
	PRIMARY KEY (blockchain_id, block_hash, hash)
);
CREATE INDEX IF NOT EXISTS transactions_blockchain_number_idx ON transactions (blockchain_id, block_number);

CREATE TABLE IF NOT EXISTS logs (
	log_id           BIGSERIAL PRIMARY KEY,
	blockchain_id    TEXT    NOT NULL,
	transaction_hash BYTEA   NOT NULL,
	block_number     BIGINT  NOT NULL,
	log_index        INT     NOT NULL,
	address          BYTEA   NOT NULL,
	data             BYTEA   NOT NULL,
	topic0           BYTEA,
	topic1           BYTEA,
	topic2           BYTEA,
	topic3           BYTEA
);
CREATE INDEX IF NOT EXISTS logs_blockchain_number_idx ON logs (blockchain_id, block_number);
CREATE INDEX IF NOT EXISTS logs_transaction_hash_idx ON logs (transaction_hash);

CREATE TABLE IF NOT EXISTS monitor_shutdown_marker (
	blockchain_id TEXT PRIMARY KEY,
	running       BOOLEAN     NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schemaDDL)
	return err
}
