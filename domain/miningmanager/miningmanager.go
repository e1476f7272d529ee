package miningmanager

import (
	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/emberchain/emberd/domain/consensus/utils/transactionhelper"
	miningmanagermodel "github.com/emberchain/emberd/domain/miningmanager/model"
)

// MiningManager creates block templates for mining as well as maintaining
// known transactions that have not yet been added to any block
type MiningManager interface {
	GetBlockTemplate(coinbaseData *externalapi.DomainCoinbaseData) (*externalapi.DomainBlock, error)
	HandleChainChange(chainChange *externalapi.ChainChange) error
	ValidateAndInsertTransaction(transaction *externalapi.DomainTransaction) error
	TransactionCount() int
}

type miningManager struct {
	consensus            miningmanagermodel.Consensus
	mempool              miningmanagermodel.Mempool
	blockTemplateBuilder miningmanagermodel.BlockTemplateBuilder
}

// GetBlockTemplate creates a block template for a miner to consume
func (mm *miningManager) GetBlockTemplate(
	coinbaseData *externalapi.DomainCoinbaseData) (*externalapi.DomainBlock, error) {

	return mm.blockTemplateBuilder.GetBlockTemplate(coinbaseData)
}

// HandleChainChange aligns the transaction pool with a change to the
// active chain: transactions the new chain blocks confirmed leave the
// pool, and transactions from disconnected blocks are readmitted where
// still valid
func (mm *miningManager) HandleChainChange(chainChange *externalapi.ChainChange) error {
	for _, addedBlockHash := range chainChange.AddedChainBlockHashes {
		block, err := mm.consensus.GetBlock(addedBlockHash)
		if err != nil {
			return err
		}
		err = mm.mempool.HandleNewBlockTransactions(block.Transactions)
		if err != nil {
			return err
		}
	}

	// Removed hashes are ordered tip-down. Readmission runs bottom-up so
	// parent transactions reenter the pool before their spenders.
	for i := len(chainChange.RemovedChainBlockHashes) - 1; i >= 0; i-- {
		block, err := mm.consensus.GetBlock(chainChange.RemovedChainBlockHashes[i])
		if err != nil {
			return err
		}
		if len(block.Transactions) > transactionhelper.CoinbaseTransactionIndex+1 {
			mm.mempool.ReadmitTransactions(block.Transactions[transactionhelper.CoinbaseTransactionIndex+1:])
		}
	}
	return nil
}

// ValidateAndInsertTransaction validates the given transaction, and adds
// it to the set of known transactions that have not yet been added to any
// block
func (mm *miningManager) ValidateAndInsertTransaction(transaction *externalapi.DomainTransaction) error {
	return mm.mempool.ValidateAndInsertTransaction(transaction)
}

// TransactionCount returns the number of transactions in the pool
func (mm *miningManager) TransactionCount() int {
	return mm.mempool.TransactionCount()
}
