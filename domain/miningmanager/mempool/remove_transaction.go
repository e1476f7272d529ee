package mempool

import (
	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/emberchain/emberd/domain/miningmanager/mempool/model"
)

// removeTransaction removes the transaction with the given ID from the
// pool. When removeRedeemers is true, every pooled transaction that spends
// its outputs, directly or transitively, is removed with it; otherwise the
// redeemers stay and their inputs are considered resolved outside the pool.
//
// this function MUST be called with the mempool mutex locked for writes
func (mp *mempool) removeTransaction(transactionID *externalapi.DomainTransactionID, removeRedeemers bool) error {
	mempoolTransaction, ok := mp.transactionsPool.allTransactions[*transactionID]
	if !ok {
		return nil
	}

	transactionsToRemove := []*model.MempoolTransaction{mempoolTransaction}
	if removeRedeemers {
		transactionsToRemove = append(transactionsToRemove,
			mp.transactionsPool.getRedeemers(mempoolTransaction)...)
	} else {
		for _, redeemer := range mp.transactionsPool.directRedeemers(mempoolTransaction) {
			for outpoint, parent := range redeemer.ParentTransactionsInPool {
				if parent.TransactionID().Equal(transactionID) {
					delete(redeemer.ParentTransactionsInPool, outpoint)
				}
			}
		}
	}

	for _, transactionToRemove := range transactionsToRemove {
		err := mp.transactionsPool.removeMempoolTransaction(transactionToRemove)
		if err != nil {
			return err
		}
	}
	return nil
}
