package consensushashing

import (
	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/emberchain/emberd/domain/consensus/utils/hashes"
	"github.com/emberchain/emberd/domain/consensus/utils/serialization"
	"github.com/pkg/errors"
)

// TransactionID returns the ID of the given transaction. A transaction ID
// is calculated over the transaction with its unlocking scripts zeroed
// out, so the ID does not change when witnesses are attached.
func TransactionID(transaction *externalapi.DomainTransaction) *externalapi.DomainTransactionID {
	writer := hashes.NewTransactionIDWriter()
	err := serialization.SerializeTransaction(writer, transaction, false)
	if err != nil {
		panic(errors.Wrap(err, "this should never happen. Hash digest should never return an error"))
	}
	transactionID := externalapi.DomainTransactionID(*writer.Finalize())
	return &transactionID
}

// TransactionIDs converts the given slice of DomainTransactions to a
// corresponding slice of DomainTransactionIDs
func TransactionIDs(txs []*externalapi.DomainTransaction) []*externalapi.DomainTransactionID {
	txIDs := make([]*externalapi.DomainTransactionID, len(txs))
	for i, tx := range txs {
		txIDs[i] = TransactionID(tx)
	}
	return txIDs
}

// TransactionHash returns the hash of the given transaction, calculated
// over the full encoding including unlocking scripts.
func TransactionHash(transaction *externalapi.DomainTransaction) *externalapi.DomainHash {
	writer := hashes.NewTransactionHashWriter()
	err := serialization.SerializeTransaction(writer, transaction, true)
	if err != nil {
		panic(errors.Wrap(err, "this should never happen. Hash digest should never return an error"))
	}
	return writer.Finalize()
}
