package transactionhelper

import (
	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
)

// CoinbaseTransactionIndex is the index of the coinbase transaction within
// its block
const CoinbaseTransactionIndex = 0

// IsCoinBase determines whether or not a transaction is a coinbase. A
// coinbase is a special transaction created by miners that has no inputs.
// This is represented in the block chain by a transaction with an empty
// inputs slice.
func IsCoinBase(tx *externalapi.DomainTransaction) bool {
	return len(tx.Inputs) == 0
}

// NewNativeTransaction returns a new transaction with the given inputs and
// outputs and zeroed computed fields
func NewNativeTransaction(version uint16, inputs []*externalapi.DomainTransactionInput,
	outputs []*externalapi.DomainTransactionOutput) *externalapi.DomainTransaction {

	return &externalapi.DomainTransaction{
		Version:  version,
		Inputs:   inputs,
		Outputs:  outputs,
		LockTime: 0,
		Payload:  []byte{},
		Fee:      0,
		Mass:     0,
	}
}
