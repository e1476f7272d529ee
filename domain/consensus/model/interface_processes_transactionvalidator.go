package model

import "github.com/emberchain/emberd/domain/consensus/model/externalapi"

// TransactionValidator exposes a set of validation classes, after which
// it's possible to determine whether a transaction is valid
type TransactionValidator interface {
	ValidateTransactionInIsolation(transaction *externalapi.DomainTransaction) error

	// ValidateTransactionInContextAndPopulateFee resolves the
	// transaction's inputs against the given view, validates it in that
	// context and populates its UTXOEntry and Fee fields. The checks run
	// in a fixed order and stop at the first failure; on failure the
	// view is left untouched.
	ValidateTransactionInContextAndPopulateFee(transaction *externalapi.DomainTransaction,
		utxoView UTXOView, povBlockHeight uint64, povPastMedianTime int64) error
}
