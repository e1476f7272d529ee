package transactionvalidator

import (
	"math"

	"github.com/emberchain/emberd/domain/consensus/model"
	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/emberchain/emberd/domain/consensus/ruleerrors"
	"github.com/emberchain/emberd/domain/consensus/utils/constants"
	"github.com/pkg/errors"
)

// ValidateTransactionInContextAndPopulateFee resolves the transaction's
// inputs against the given view and validates it in that context. The
// checks run in a fixed order and stop at the first failure:
// missing inputs, coinbase maturity, input value bounds, fee sign,
// finality, script verification. On success the transaction's UTXOEntry
// and Fee fields are populated.
func (v *transactionValidator) ValidateTransactionInContextAndPopulateFee(tx *externalapi.DomainTransaction,
	utxoView model.UTXOView, povBlockHeight uint64, povPastMedianTime int64) error {

	err := v.populateTransactionWithUTXOEntries(tx, utxoView)
	if err != nil {
		return err
	}
	err = v.checkTransactionCoinbaseMaturity(tx, povBlockHeight)
	if err != nil {
		return err
	}
	totalSparkIn, err := v.checkTransactionInputAmounts(tx)
	if err != nil {
		return err
	}
	totalSparkOut, err := v.checkTransactionOutputAmounts(tx, totalSparkIn)
	if err != nil {
		return err
	}
	tx.Fee = totalSparkIn - totalSparkOut

	err = v.checkTransactionFinality(tx, povBlockHeight, povPastMedianTime)
	if err != nil {
		return err
	}

	return v.validateTransactionScripts(tx)
}

func (v *transactionValidator) populateTransactionWithUTXOEntries(tx *externalapi.DomainTransaction,
	utxoView model.UTXOView) error {

	var missingOutpoints []*externalapi.DomainOutpoint
	for _, input := range tx.Inputs {
		// Inputs that already carry an entry were populated by the caller,
		// typically with an output of another unconfirmed transaction.
		if input.UTXOEntry != nil {
			continue
		}
		entry, ok, err := utxoView.UTXOByOutpoint(&input.PreviousOutpoint)
		if err != nil {
			return err
		}
		if !ok {
			missingOutpoints = append(missingOutpoints, &input.PreviousOutpoint)
			continue
		}
		input.UTXOEntry = entry
	}
	if len(missingOutpoints) > 0 {
		return ruleerrors.NewErrMissingTxOut(missingOutpoints)
	}
	return nil
}

func (v *transactionValidator) checkTransactionCoinbaseMaturity(tx *externalapi.DomainTransaction,
	povBlockHeight uint64) error {

	var immatureOutpoints []*externalapi.DomainOutpoint
	for _, input := range tx.Inputs {
		entry := input.UTXOEntry
		if !entry.IsCoinbase() {
			continue
		}
		if povBlockHeight-entry.BlockHeight() < v.blockCoinbaseMaturity {
			immatureOutpoints = append(immatureOutpoints, &input.PreviousOutpoint)
		}
	}
	if len(immatureOutpoints) > 0 {
		return errors.Wrapf(ruleerrors.ErrImmatureSpend,
			"tried to spend coinbase outputs %v at height %d before required maturity of %d blocks",
			immatureOutpoints, povBlockHeight, v.blockCoinbaseMaturity)
	}
	return nil
}

func (v *transactionValidator) checkTransactionInputAmounts(tx *externalapi.DomainTransaction) (uint64, error) {
	var totalSparkIn uint64
	for _, input := range tx.Inputs {
		amount := input.UTXOEntry.Amount()
		if amount > constants.MaxSpark {
			return 0, errors.Wrapf(ruleerrors.ErrBadTxOutValue,
				"spent output value of %d is higher than the maximum allowed value of %d",
				amount, constants.MaxSpark)
		}

		newTotalSparkIn := totalSparkIn + amount
		if newTotalSparkIn < totalSparkIn || newTotalSparkIn > constants.MaxSpark {
			return 0, errors.Wrapf(ruleerrors.ErrBadTxOutValue,
				"total value of all transaction inputs exceeds the maximum allowed value of %d",
				constants.MaxSpark)
		}
		totalSparkIn = newTotalSparkIn
	}
	return totalSparkIn, nil
}

func (v *transactionValidator) checkTransactionOutputAmounts(tx *externalapi.DomainTransaction,
	totalSparkIn uint64) (uint64, error) {

	var totalSparkOut uint64
	for _, output := range tx.Outputs {
		// Output values were already bounds-checked in isolation, so the
		// sum cannot overflow here.
		totalSparkOut += output.Value
	}
	if totalSparkIn < totalSparkOut {
		return 0, errors.Wrapf(ruleerrors.ErrSpendTooHigh,
			"total value of all transaction inputs for the transaction is %d which is less "+
				"than the amount spent of %d", totalSparkIn, totalSparkOut)
	}
	return totalSparkOut, nil
}

func (v *transactionValidator) checkTransactionFinality(tx *externalapi.DomainTransaction,
	povBlockHeight uint64, povPastMedianTime int64) error {

	// Lock time of zero means the transaction is finalized.
	if tx.LockTime == 0 {
		return nil
	}

	// The lock time field of a transaction is either a block height at
	// which the transaction is finalized or a timestamp depending on if
	// the value is before the constants.LockTimeThreshold. When it is
	// under the threshold it is a block height.
	var blockTimeOrHeight uint64
	if tx.LockTime < constants.LockTimeThreshold {
		blockTimeOrHeight = povBlockHeight
	} else {
		blockTimeOrHeight = uint64(povPastMedianTime)
	}
	if tx.LockTime < blockTimeOrHeight {
		return nil
	}

	// At this point, the transaction's lock time hasn't occurred yet, but
	// the transaction might still be finalized if the sequence number for
	// all transaction inputs is maxed out.
	for _, input := range tx.Inputs {
		if input.Sequence != math.MaxUint64 {
			return errors.Wrapf(ruleerrors.ErrUnfinalizedTx,
				"transaction is not finalized: lock time %d has not passed", tx.LockTime)
		}
	}
	return nil
}

func (v *transactionValidator) validateTransactionScripts(tx *externalapi.DomainTransaction) error {
	for i := range tx.Inputs {
		err := v.scriptEngine.VerifyInput(tx, i)
		if err != nil {
			return err
		}
	}
	return nil
}
