package model

import (
	"sort"

	"github.com/pkg/errors"
)

// TransactionsOrderedByFeeRate represents a set of MempoolTransactions
// ordered by their fee / mass rate, lowest first
type TransactionsOrderedByFeeRate struct {
	slice []*MempoolTransaction
}

// Len returns the number of transactions in the set
func (tobf *TransactionsOrderedByFeeRate) Len() int {
	return len(tobf.slice)
}

// GetByIndex returns the transaction in the given index
func (tobf *TransactionsOrderedByFeeRate) GetByIndex(index int) *MempoolTransaction {
	return tobf.slice[index]
}

// Push inserts a transaction into the set, placing it in the correct place
// to preserve order
func (tobf *TransactionsOrderedByFeeRate) Push(transaction *MempoolTransaction) error {
	index, err := tobf.findTransactionIndex(transaction)
	if err != nil {
		return err
	}

	tobf.slice = append(tobf.slice[:index],
		append([]*MempoolTransaction{transaction}, tobf.slice[index:]...)...)

	return nil
}

// Remove removes the given transaction from the set. Returns an error if
// the transaction does not exist in the set, or if it does not have mass
// filled in.
func (tobf *TransactionsOrderedByFeeRate) Remove(transaction *MempoolTransaction) error {
	index, err := tobf.findTransactionIndex(transaction)
	if err != nil {
		return err
	}

	txID := transaction.TransactionID()
	if index == len(tobf.slice) || !tobf.slice[index].TransactionID().Equal(txID) {
		return errors.Errorf("couldn't find %s in the ordered transaction set", txID)
	}

	return tobf.RemoveAtIndex(index)
}

// RemoveAtIndex removes the transaction at the given index. Returns an
// error in case of an out-of-bounds index.
func (tobf *TransactionsOrderedByFeeRate) RemoveAtIndex(index int) error {
	if index < 0 || index > len(tobf.slice)-1 {
		return errors.Errorf("index %d is out of bounds of this TransactionsOrderedByFeeRate", index)
	}
	tobf.slice = append(tobf.slice[:index], tobf.slice[index+1:]...)
	return nil
}

// findTransactionIndex finds the given transaction inside the list of
// transactions ordered by fee rate, with the transaction ID as a
// tie-breaker. A fee of zero is a legal populated value when the relay
// fee rate is configured to zero, so only the mass is required.
func (tobf *TransactionsOrderedByFeeRate) findTransactionIndex(transaction *MempoolTransaction) (int, error) {
	if transaction.Transaction.Mass == 0 {
		return 0, errors.Errorf("findTransactionIndex expects a transaction with populated mass")
	}
	txID := transaction.TransactionID()
	txFeeRate := transaction.FeeRate()

	return sort.Search(len(tobf.slice), func(i int) bool {
		elementFeeRate := tobf.slice[i].FeeRate()
		if elementFeeRate > txFeeRate {
			return true
		}
		if elementFeeRate == txFeeRate && txID.LessOrEqual(tobf.slice[i].TransactionID()) {
			return true
		}
		return false
	}), nil
}
