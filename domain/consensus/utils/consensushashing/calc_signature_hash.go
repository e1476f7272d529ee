package consensushashing

import (
	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/emberchain/emberd/domain/consensus/utils/hashes"
	"github.com/emberchain/emberd/domain/consensus/utils/serialization"
	"github.com/pkg/errors"
)

// CalculateSignatureHash calculates the hash that an input's unlocking
// signature commits to: the transaction with all unlocking scripts zeroed
// out, followed by the index of the signed input and the value and locking
// script of the entry it spends. The spent entry must be populated on the
// input.
func CalculateSignatureHash(tx *externalapi.DomainTransaction, inputIndex int) (*externalapi.DomainHash, error) {
	if inputIndex < 0 || inputIndex >= len(tx.Inputs) {
		return nil, errors.Errorf("input index %d is out of range for a transaction with %d inputs",
			inputIndex, len(tx.Inputs))
	}
	input := tx.Inputs[inputIndex]
	if input.UTXOEntry == nil {
		return nil, errors.Errorf("input %d of transaction %s has no populated UTXO entry",
			inputIndex, TransactionID(tx))
	}

	writer := hashes.NewTransactionSigningHashWriter()
	err := serialization.SerializeTransaction(writer, tx, false)
	if err != nil {
		return nil, err
	}
	err = serialization.WriteElements(writer, uint64(inputIndex), input.UTXOEntry.Amount())
	if err != nil {
		return nil, err
	}
	err = serialization.WriteVarBytes(writer, input.UTXOEntry.ScriptPublicKey())
	if err != nil {
		return nil, err
	}

	return writer.Finalize(), nil
}
