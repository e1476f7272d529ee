package mempool

import (
	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/emberchain/emberd/domain/consensus/utils/consensushashing"
	"github.com/emberchain/emberd/domain/consensus/utils/transactionhelper"
)

// this function MUST be called with the mempool mutex locked for writes
func (mp *mempool) handleNewBlockTransactions(blockTransactions []*externalapi.DomainTransaction) error {
	for i, transaction := range blockTransactions {
		if i == transactionhelper.CoinbaseTransactionIndex {
			continue
		}

		transactionID := consensushashing.TransactionID(transaction)
		err := mp.removeTransaction(transactionID, false)
		if err != nil {
			return err
		}

		// Pooled transactions that spend the same outpoints the block just
		// spent can never be mined anymore.
		for _, doubleSpend := range mp.mempoolUTXOSet.findDoubleSpends(transaction) {
			err = mp.removeTransaction(doubleSpend.TransactionID(), true)
			if err != nil {
				return err
			}
		}
	}
	return nil
}
