package consensus

import (
	"sync"
	"time"

	"github.com/emberchain/emberd/domain/consensus/model"
	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/emberchain/emberd/domain/consensus/utils/constants"
	"github.com/emberchain/emberd/domain/consensus/utils/merkle"
)

// Consensus maintains the current core state of the node
type Consensus interface {
	ValidateAndInsertBlock(block *externalapi.DomainBlock) (*externalapi.ChainChange, error)
	ValidateTransactionAndPopulateWithConsensusData(transaction *externalapi.DomainTransaction) error
	BuildBlock(coinbaseData *externalapi.DomainCoinbaseData,
		transactions []*externalapi.DomainTransaction) (*externalapi.DomainBlock, error)

	GetBlock(blockHash *externalapi.DomainHash) (*externalapi.DomainBlock, error)
	GetBlockInfo(blockHash *externalapi.DomainHash) (*externalapi.BlockInfo, error)
	GetVirtualInfo() (*externalapi.VirtualInfo, error)
	GetVirtualUTXOEntry(outpoint *externalapi.DomainOutpoint) (externalapi.UTXOEntry, bool, error)
	GetTips() ([]*externalapi.DomainHash, error)
}

type consensus struct {
	lock            sync.Mutex
	databaseContext model.DBManager

	blockProcessor        model.BlockProcessor
	consensusStateManager model.ConsensusStateManager
	transactionValidator  model.TransactionValidator
	coinbaseManager       model.CoinbaseManager
	timeSource            model.TimeSource

	blockStore          model.BlockStore
	blockStatusStore    model.BlockStatusStore
	blockIndexStore     model.BlockIndexStore
	tipsStore           model.TipsStore
	multisetStore       model.MultisetStore
	consensusStateStore model.ConsensusStateStore
}

// ValidateAndInsertBlock validates the given block and, if valid, applies it
// to the current state
func (s *consensus) ValidateAndInsertBlock(block *externalapi.DomainBlock) (*externalapi.ChainChange, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.blockProcessor.ValidateAndInsertBlock(block)
}

// ValidateTransactionAndPopulateWithConsensusData validates the given
// transaction in isolation and against the virtual UTXO set, and populates
// it with any missing consensus data: UTXO entries, fee and mass
func (s *consensus) ValidateTransactionAndPopulateWithConsensusData(transaction *externalapi.DomainTransaction) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	err := s.transactionValidator.ValidateTransactionInIsolation(transaction)
	if err != nil {
		return err
	}
	return s.consensusStateManager.ValidateTransactionAgainstVirtual(transaction)
}

// BuildBlock builds a block over the current tip containing the given
// transactions, topped with a coinbase built from the given coinbase data.
// The transactions are expected to carry populated fees. The returned block
// satisfies every consensus rule except proof of work.
func (s *consensus) BuildBlock(coinbaseData *externalapi.DomainCoinbaseData,
	transactions []*externalapi.DomainTransaction) (*externalapi.DomainBlock, error) {

	s.lock.Lock()
	defer s.lock.Unlock()

	virtualData, err := s.consensusStateManager.VirtualData()
	if err != nil {
		return nil, err
	}

	var totalFees uint64
	for _, transaction := range transactions {
		totalFees += transaction.Fee
	}
	coinbaseTransaction, err := s.coinbaseManager.CreateCoinbaseTransaction(
		virtualData.NextBlockHeight, totalFees, coinbaseData)
	if err != nil {
		return nil, err
	}

	blockTransactions := make([]*externalapi.DomainTransaction, 0, len(transactions)+1)
	blockTransactions = append(blockTransactions, coinbaseTransaction)
	blockTransactions = append(blockTransactions, transactions...)

	timeInMilliseconds := s.timeSource.Now().UnixNano() / int64(time.Millisecond)
	if timeInMilliseconds <= virtualData.PastMedianTime {
		timeInMilliseconds = virtualData.PastMedianTime + 1
	}

	return &externalapi.DomainBlock{
		Header: &externalapi.DomainBlockHeader{
			Version:            constants.MaxBlockVersion,
			ParentHash:         *virtualData.TipHash,
			HashMerkleRoot:     *merkle.CalculateHashMerkleRoot(blockTransactions),
			TimeInMilliseconds: timeInMilliseconds,
			Bits:               virtualData.NextRequiredDifficulty,
			Nonce:              0,
		},
		Transactions: blockTransactions,
	}, nil
}

// GetBlock returns the block with the given hash
func (s *consensus) GetBlock(blockHash *externalapi.DomainHash) (*externalapi.DomainBlock, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.blockStore.Block(s.databaseContext, blockHash)
}

// GetBlockInfo returns the validation state and chain position of the block
// with the given hash
func (s *consensus) GetBlockInfo(blockHash *externalapi.DomainHash) (*externalapi.BlockInfo, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	blockInfo := &externalapi.BlockInfo{}

	exists, err := s.blockStatusStore.Exists(s.databaseContext, blockHash)
	if err != nil {
		return nil, err
	}
	if !exists {
		return blockInfo, nil
	}
	blockInfo.Exists = true

	blockInfo.Status, err = s.blockStatusStore.Get(s.databaseContext, blockHash)
	if err != nil {
		return nil, err
	}

	hasNode, err := s.blockIndexStore.Has(s.databaseContext, blockHash)
	if err != nil {
		return nil, err
	}
	if hasNode {
		node, err := s.blockIndexStore.Get(s.databaseContext, blockHash)
		if err != nil {
			return nil, err
		}
		blockInfo.Height = node.Height
		blockInfo.ChainWork = node.ChainWork
	}

	if blockInfo.Status == externalapi.StatusConnected {
		ms, err := s.multisetStore.Get(s.databaseContext, blockHash)
		if err != nil {
			return nil, err
		}
		blockInfo.MultisetHash = ms.Hash()
	}

	return blockInfo, nil
}

// GetVirtualInfo returns the point a next block would be built on
func (s *consensus) GetVirtualInfo() (*externalapi.VirtualInfo, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	virtualData, err := s.consensusStateManager.VirtualData()
	if err != nil {
		return nil, err
	}
	return &externalapi.VirtualInfo{
		TipHash:                virtualData.TipHash,
		NextBlockHeight:        virtualData.NextBlockHeight,
		PastMedianTime:         virtualData.PastMedianTime,
		NextRequiredDifficulty: virtualData.NextRequiredDifficulty,
	}, nil
}

// GetVirtualUTXOEntry returns the UTXO entry of the given outpoint in the
// virtual UTXO set, or false if it is not there
func (s *consensus) GetVirtualUTXOEntry(outpoint *externalapi.DomainOutpoint) (externalapi.UTXOEntry, bool, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.consensusStateStore.UTXOByOutpoint(s.databaseContext, outpoint)
}

// GetTips returns the hashes of all the blocks no other known block builds
// on top of
func (s *consensus) GetTips() ([]*externalapi.DomainHash, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.tipsStore.Tips(s.databaseContext)
}
