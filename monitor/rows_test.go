package monitor

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func TestBlockToRow_CarriesUncleHashes(t *testing.T) {
	header := &gethtypes.Header{Number: big.NewInt(10), Difficulty: big.NewInt(1)}
	uncle := &gethtypes.Header{Number: big.NewInt(9), Difficulty: big.NewInt(1)}
	block := gethtypes.NewBlockWithHeader(header).WithBody(nil, []*gethtypes.Header{uncle})

	row := blockToRow("mainnet", block, 3)
	require.Equal(t, "mainnet", row.BlockchainID)
	require.Equal(t, uint64(10), row.Number)
	require.Equal(t, block.Hash(), row.Hash)
	require.Equal(t, 3, row.TransactionCount)
	require.Len(t, row.UncleHashes, 1)
	require.Equal(t, uncle.Hash(), row.UncleHashes[0])
}

func TestTransactionToRow_RecoversSenderAndSignature(t *testing.T) {
	header := &gethtypes.Header{Number: big.NewInt(1)}
	block := gethtypes.NewBlockWithHeader(header)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := gethtypes.NewEIP155Signer(big.NewInt(1))
	to := common.HexToAddress("0x00000000000000000000000000000000000042")
	tx, err := gethtypes.SignTx(
		gethtypes.NewTransaction(7, to, big.NewInt(100), 21000, big.NewInt(1), nil),
		signer, key)
	require.NoError(t, err)

	receipt := &gethtypes.Receipt{Status: gethtypes.ReceiptStatusSuccessful}

	row := transactionToRow(block, tx, receipt, 0, signer)
	require.Equal(t, tx.Hash(), row.Hash)
	require.Equal(t, uint64(7), row.Nonce)
	require.Equal(t, to, *row.To)
	require.Equal(t, uint64(gethtypes.ReceiptStatusSuccessful), row.Status)
	require.NotEqual(t, common.Address{}, row.From)
	require.NotNil(t, row.V)
	require.NotNil(t, row.R)
	require.NotNil(t, row.S)
}

func TestTransactionToRow_ContractCreation_SetsContractAddress(t *testing.T) {
	header := &gethtypes.Header{Number: big.NewInt(1)}
	block := gethtypes.NewBlockWithHeader(header)
	signer := gethtypes.NewEIP155Signer(big.NewInt(1))

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	tx, err := gethtypes.SignTx(
		gethtypes.NewContractCreation(0, big.NewInt(0), 21000, big.NewInt(1), nil),
		signer, key)
	require.NoError(t, err)

	contractAddr := common.HexToAddress("0x00000000000000000000000000000000000099")
	receipt := &gethtypes.Receipt{Status: gethtypes.ReceiptStatusSuccessful, ContractAddress: contractAddr}

	row := transactionToRow(block, tx, receipt, 0, signer)
	require.Nil(t, row.To)
	require.NotNil(t, row.ContractAddress)
	require.Equal(t, contractAddr, *row.ContractAddress)
}

func TestLogToRow_NormalizesTopicsToFourSlots(t *testing.T) {
	txHash := common.HexToHash("0xaa")
	l := &gethtypes.Log{
		BlockNumber: 5,
		Index:       2,
		Address:     common.HexToAddress("0x01"),
		Data:        []byte{1, 2, 3},
		Topics:      []common.Hash{common.HexToHash("0x1"), common.HexToHash("0x2")},
	}

	row := logToRow(txHash, l)
	require.Equal(t, txHash, row.TransactionHash)
	require.Equal(t, 2, row.NTopics)
	require.Equal(t, common.HexToHash("0x1"), row.Topics[0])
	require.Equal(t, common.HexToHash("0x2"), row.Topics[1])
	require.Equal(t, common.Hash{}, row.Topics[2])
	require.Equal(t, common.Hash{}, row.Topics[3])
}
