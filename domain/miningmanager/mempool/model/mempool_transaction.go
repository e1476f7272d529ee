package model

import (
	"math"

	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/emberchain/emberd/domain/consensus/utils/consensushashing"
)

// UnacceptedBlockHeight marks UTXO entries of outputs that were created by
// pooled transactions and are therefore not in any block yet
const UnacceptedBlockHeight = uint64(math.MaxUint64)

// MempoolTransaction represents a transaction inside the main transactions
// pool. Its fee and mass are populated.
type MempoolTransaction struct {
	Transaction              *externalapi.DomainTransaction
	ParentTransactionsInPool OutpointToTransaction
}

// NewMempoolTransaction constructs a new MempoolTransaction
func NewMempoolTransaction(transaction *externalapi.DomainTransaction,
	parentTransactionsInPool OutpointToTransaction) *MempoolTransaction {

	return &MempoolTransaction{
		Transaction:              transaction,
		ParentTransactionsInPool: parentTransactionsInPool,
	}
}

// TransactionID returns the ID of this MempoolTransaction
func (mt *MempoolTransaction) TransactionID() *externalapi.DomainTransactionID {
	return consensushashing.TransactionID(mt.Transaction)
}

// FeeRate returns the fee this transaction pays per unit of its mass
func (mt *MempoolTransaction) FeeRate() float64 {
	return float64(mt.Transaction.Fee) / float64(mt.Transaction.Mass)
}
