package mempool

import (
	"fmt"

	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/emberchain/emberd/domain/consensus/ruleerrors"
	"github.com/emberchain/emberd/domain/consensus/utils/consensushashing"
	"github.com/emberchain/emberd/domain/consensus/utils/constants"
	"github.com/emberchain/emberd/domain/miningmanager/mempool/model"
	"github.com/pkg/errors"
)

// this function MUST be called with the mempool mutex locked for writes
func (mp *mempool) validateAndInsertTransaction(transaction *externalapi.DomainTransaction) error {
	transactionID := consensushashing.TransactionID(transaction)
	if _, ok := mp.transactionsPool.allTransactions[*transactionID]; ok {
		return txRuleError(RejectDuplicate,
			fmt.Sprintf("transaction %s is already in the pool", transactionID))
	}

	doubleSpends := mp.mempoolUTXOSet.findDoubleSpends(transaction)

	parentsInPool := mp.fillInputsFromPool(transaction)
	err := mp.consensus.ValidateTransactionAndPopulateWithConsensusData(transaction)
	if err != nil {
		clearInputEntries(transaction)

		missingOutpointsErr := ruleerrors.ErrMissingTxOut{}
		if errors.As(err, &missingOutpointsErr) {
			return txRuleError(RejectMissingInputs,
				fmt.Sprintf("transaction %s spends unknown outpoints %v",
					transactionID, missingOutpointsErr.MissingOutpoints))
		}
		var ruleErr ruleerrors.RuleError
		if errors.As(err, &ruleErr) {
			return txRuleError(RejectInvalid,
				fmt.Sprintf("transaction %s is invalid: %s", transactionID, err))
		}
		return err
	}

	err = mp.checkTransactionFee(transaction)
	if err != nil {
		return err
	}

	ancestorCount := mp.transactionsPool.countAncestors(parentsInPool)
	if ancestorCount > mp.config.MaximumAncestorCount {
		return txRuleError(RejectChainTooLong,
			fmt.Sprintf("transaction %s has %d unconfirmed ancestors, more than the maximum of %d",
				transactionID, ancestorCount, mp.config.MaximumAncestorCount))
	}

	if len(doubleSpends) > 0 {
		err = mp.validateReplacement(transaction, doubleSpends)
		if err != nil {
			return err
		}
		for _, doubleSpend := range doubleSpends {
			log.Debugf("Replacing transaction %s with %s", doubleSpend.TransactionID(), transactionID)
			err = mp.removeTransaction(doubleSpend.TransactionID(), true)
			if err != nil {
				return err
			}
		}
	}

	_, err = mp.transactionsPool.addTransaction(transaction, parentsInPool)
	if err != nil {
		return err
	}

	log.Debugf("Accepted transaction %s into the pool, %d transactions pooled",
		transactionID, len(mp.transactionsPool.allTransactions))
	return mp.transactionsPool.limitPoolSize()
}

// fillInputsFromPool populates the transaction's inputs that spend outputs
// of pooled transactions, and returns the spent parent transactions by
// outpoint. Inputs not found in the pool are left for consensus to resolve.
//
// this function MUST be called with the mempool mutex locked for reads
func (mp *mempool) fillInputsFromPool(transaction *externalapi.DomainTransaction) model.OutpointToTransaction {
	parentsInPool := model.OutpointToTransaction{}
	for _, input := range transaction.Inputs {
		input.UTXOEntry = nil
		entry, ok := mp.mempoolUTXOSet.poolUnspentOutputEntry(&input.PreviousOutpoint)
		if !ok {
			continue
		}
		parent, ok := mp.transactionsPool.allTransactions[input.PreviousOutpoint.TransactionID]
		if !ok {
			continue
		}
		input.UTXOEntry = entry
		parentsInPool[input.PreviousOutpoint] = parent
	}
	return parentsInPool
}

func clearInputEntries(transaction *externalapi.DomainTransaction) {
	for _, input := range transaction.Inputs {
		input.UTXOEntry = nil
	}
}

// checkTransactionFee enforces the minimum relay fee rate
//
// this function MUST be called with the mempool mutex locked for reads
func (mp *mempool) checkTransactionFee(transaction *externalapi.DomainTransaction) error {
	minimumFee := mp.minimumRequiredTransactionRelayFee(transaction.Mass)
	if transaction.Fee < minimumFee {
		return txRuleError(RejectInsufficientFee,
			fmt.Sprintf("transaction %s pays a fee of %d which is under the required amount of %d",
				consensushashing.TransactionID(transaction), transaction.Fee, minimumFee))
	}
	return nil
}

// minimumRequiredTransactionRelayFee returns the minimum fee in spark a
// transaction of the given mass must pay to be accepted into the pool
func (mp *mempool) minimumRequiredTransactionRelayFee(mass uint64) uint64 {
	minimumFee := (mass * mp.config.MinimumRelayTransactionFee) / 1000
	if minimumFee == 0 && mp.config.MinimumRelayTransactionFee > 0 {
		minimumFee = 1
	}
	if minimumFee > constants.MaxSpark {
		minimumFee = constants.MaxSpark
	}
	return minimumFee
}

// validateReplacement decides whether the given transaction may replace
// the pooled transactions it conflicts with: its fee rate must be strictly
// higher than every conflict's, and its total fee must exceed the total
// fee of everything the replacement would evict, redeemers included
//
// this function MUST be called with the mempool mutex locked for reads
func (mp *mempool) validateReplacement(transaction *externalapi.DomainTransaction,
	doubleSpends []*model.MempoolTransaction) error {

	transactionID := consensushashing.TransactionID(transaction)
	newFeeRate := float64(transaction.Fee) / float64(transaction.Mass)

	var evictedFees uint64
	evicted := make(map[externalapi.DomainTransactionID]struct{})
	for _, doubleSpend := range doubleSpends {
		if newFeeRate <= doubleSpend.FeeRate() {
			return txRuleError(RejectInsufficientFee,
				fmt.Sprintf("transaction %s has fee rate %f which does not exceed the rate %f of "+
					"conflicting transaction %s",
					transactionID, newFeeRate, doubleSpend.FeeRate(), doubleSpend.TransactionID()))
		}

		for _, toEvict := range append([]*model.MempoolTransaction{doubleSpend},
			mp.transactionsPool.getRedeemers(doubleSpend)...) {

			toEvictID := *toEvict.TransactionID()
			if _, alreadyCounted := evicted[toEvictID]; alreadyCounted {
				continue
			}
			evicted[toEvictID] = struct{}{}
			evictedFees += toEvict.Transaction.Fee
		}
	}

	if transaction.Fee <= evictedFees {
		return txRuleError(RejectInsufficientFee,
			fmt.Sprintf("transaction %s pays %d in fees which does not exceed the %d paid by the "+
				"%d transactions it would evict",
				transactionID, transaction.Fee, evictedFees, len(evicted)))
	}
	return nil
}
