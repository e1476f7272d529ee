package mempool

import (
	"sync"

	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/emberchain/emberd/domain/consensus/utils/consensushashing"
	miningmanagermodel "github.com/emberchain/emberd/domain/miningmanager/model"
)

// mempool maintains a set of fully validated transactions that are
// candidates for inclusion in the next block
type mempool struct {
	mtx sync.RWMutex

	config    *Config
	consensus miningmanagermodel.Consensus

	transactionsPool *transactionsPool
	mempoolUTXOSet   *mempoolUTXOSet
}

// New constructs a new mempool
func New(config *Config, consensus miningmanagermodel.Consensus) miningmanagermodel.Mempool {
	mp := &mempool{
		config:    config,
		consensus: consensus,
	}
	mp.transactionsPool = newTransactionsPool(mp)
	mp.mempoolUTXOSet = newMempoolUTXOSet(mp)
	return mp
}

// ValidateAndInsertTransaction validates the given transaction and, if it
// passes consensus validation and pool policy, adds it to the pool
func (mp *mempool) ValidateAndInsertTransaction(transaction *externalapi.DomainTransaction) error {
	mp.mtx.Lock()
	defer mp.mtx.Unlock()

	return mp.validateAndInsertTransaction(transaction)
}

// HandleNewBlockTransactions removes from the pool the transactions that
// the given block confirmed, along with any pooled transactions that
// double spend against them
func (mp *mempool) HandleNewBlockTransactions(blockTransactions []*externalapi.DomainTransaction) error {
	mp.mtx.Lock()
	defer mp.mtx.Unlock()

	return mp.handleNewBlockTransactions(blockTransactions)
}

// ReadmitTransactions attempts to return the given transactions, normally
// ones a reorg disconnected, into the pool. Transactions that are no
// longer valid are quietly dropped.
func (mp *mempool) ReadmitTransactions(transactions []*externalapi.DomainTransaction) {
	mp.mtx.Lock()
	defer mp.mtx.Unlock()

	for _, transaction := range transactions {
		readmitted := transaction.Clone()
		for _, input := range readmitted.Inputs {
			input.UTXOEntry = nil
		}
		err := mp.validateAndInsertTransaction(readmitted)
		if err != nil {
			log.Debugf("Failed to readmit transaction %s: %s",
				consensushashing.TransactionID(transaction), err)
		}
	}
}

// BlockCandidateTransactions returns clones of the pooled transactions
// whose inputs are all confirmed, ordered from the highest fee rate down
func (mp *mempool) BlockCandidateTransactions() []*externalapi.DomainTransaction {
	mp.mtx.RLock()
	defer mp.mtx.RUnlock()

	ordered := mp.transactionsPool.transactionsOrderedByFeeRate
	candidates := make([]*externalapi.DomainTransaction, 0, ordered.Len())
	for i := ordered.Len() - 1; i >= 0; i-- {
		mempoolTransaction := ordered.GetByIndex(i)
		if len(mempoolTransaction.ParentTransactionsInPool) > 0 {
			continue
		}
		candidates = append(candidates, mempoolTransaction.Transaction.Clone())
	}
	return candidates
}

// TransactionCount returns the number of transactions in the pool
func (mp *mempool) TransactionCount() int {
	mp.mtx.RLock()
	defer mp.mtx.RUnlock()

	return len(mp.transactionsPool.allTransactions)
}
