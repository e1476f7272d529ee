package mempool

import (
	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/emberchain/emberd/domain/miningmanager/mempool/model"
)

type transactionsPool struct {
	mempool                      *mempool
	allTransactions              model.IDToTransaction
	transactionsOrderedByFeeRate *model.TransactionsOrderedByFeeRate
	totalMass                    uint64
}

func newTransactionsPool(mp *mempool) *transactionsPool {
	return &transactionsPool{
		mempool:                      mp,
		allTransactions:              model.IDToTransaction{},
		transactionsOrderedByFeeRate: &model.TransactionsOrderedByFeeRate{},
	}
}

// this function MUST be called with the mempool mutex locked for writes
func (tp *transactionsPool) addTransaction(transaction *externalapi.DomainTransaction,
	parentTransactionsInPool model.OutpointToTransaction) (*model.MempoolTransaction, error) {

	mempoolTransaction := model.NewMempoolTransaction(transaction, parentTransactionsInPool)

	tp.allTransactions[*mempoolTransaction.TransactionID()] = mempoolTransaction
	tp.mempool.mempoolUTXOSet.addTransaction(mempoolTransaction)
	err := tp.transactionsOrderedByFeeRate.Push(mempoolTransaction)
	if err != nil {
		return nil, err
	}
	tp.totalMass += transaction.Mass

	return mempoolTransaction, nil
}

// this function MUST be called with the mempool mutex locked for writes
func (tp *transactionsPool) removeMempoolTransaction(transaction *model.MempoolTransaction) error {
	delete(tp.allTransactions, *transaction.TransactionID())
	tp.mempool.mempoolUTXOSet.removeTransaction(transaction)
	tp.totalMass -= transaction.Transaction.Mass

	return tp.transactionsOrderedByFeeRate.Remove(transaction)
}

// directRedeemers returns the pooled transactions that spend any output of
// the given transaction
//
// this function MUST be called with the mempool mutex locked for reads
func (tp *transactionsPool) directRedeemers(transaction *model.MempoolTransaction) []*model.MempoolTransaction {
	seen := make(map[externalapi.DomainTransactionID]struct{})
	var redeemers []*model.MempoolTransaction

	transactionID := transaction.TransactionID()
	for i := range transaction.Transaction.Outputs {
		outpoint := externalapi.NewDomainOutpoint(transactionID, uint32(i))
		redeemer, ok := tp.mempool.mempoolUTXOSet.transactionByPreviousOutpoint[*outpoint]
		if !ok {
			continue
		}
		redeemerID := *redeemer.TransactionID()
		if _, alreadySeen := seen[redeemerID]; alreadySeen {
			continue
		}
		seen[redeemerID] = struct{}{}
		redeemers = append(redeemers, redeemer)
	}
	return redeemers
}

// getRedeemers returns every pooled transaction that directly or
// transitively spends an output of the given transaction
//
// this function MUST be called with the mempool mutex locked for reads
func (tp *transactionsPool) getRedeemers(transaction *model.MempoolTransaction) []*model.MempoolTransaction {
	queue := []*model.MempoolTransaction{transaction}
	seen := map[externalapi.DomainTransactionID]struct{}{*transaction.TransactionID(): {}}
	var redeemers []*model.MempoolTransaction

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, redeemer := range tp.directRedeemers(current) {
			redeemerID := *redeemer.TransactionID()
			if _, alreadySeen := seen[redeemerID]; alreadySeen {
				continue
			}
			seen[redeemerID] = struct{}{}
			redeemers = append(redeemers, redeemer)
			queue = append(queue, redeemer)
		}
	}
	return redeemers
}

// countAncestors returns the number of pooled transactions the given
// parent set directly or transitively depends on
//
// this function MUST be called with the mempool mutex locked for reads
func (tp *transactionsPool) countAncestors(parentTransactionsInPool model.OutpointToTransaction) int {
	seen := make(map[externalapi.DomainTransactionID]struct{})
	var queue []*model.MempoolTransaction
	for _, parent := range parentTransactionsInPool {
		parentID := *parent.TransactionID()
		if _, alreadySeen := seen[parentID]; alreadySeen {
			continue
		}
		seen[parentID] = struct{}{}
		queue = append(queue, parent)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, grandparent := range current.ParentTransactionsInPool {
			grandparentID := *grandparent.TransactionID()
			if _, alreadySeen := seen[grandparentID]; alreadySeen {
				continue
			}
			seen[grandparentID] = struct{}{}
			queue = append(queue, grandparent)
		}
	}
	return len(seen)
}

// limitPoolSize evicts the lowest-fee-rate transactions, along with their
// redeemers, until the pool is within its mass and count budgets
//
// this function MUST be called with the mempool mutex locked for writes
func (tp *transactionsPool) limitPoolSize() error {
	for (tp.totalMass > tp.mempool.config.MaximumPoolMass ||
		len(tp.allTransactions) > tp.mempool.config.MaximumTransactionCount) &&
		tp.transactionsOrderedByFeeRate.Len() > 0 {

		lowest := tp.transactionsOrderedByFeeRate.GetByIndex(0)
		log.Debugf("Evicting transaction %s (fee rate %f) to keep the pool within its budget",
			lowest.TransactionID(), lowest.FeeRate())
		err := tp.mempool.removeTransaction(lowest.TransactionID(), true)
		if err != nil {
			return err
		}
	}
	return nil
}
