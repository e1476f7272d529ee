package transactionvalidator

import (
	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/emberchain/emberd/domain/consensus/ruleerrors"
	"github.com/emberchain/emberd/domain/consensus/utils/constants"
	"github.com/emberchain/emberd/domain/consensus/utils/estimatedsize"
	"github.com/emberchain/emberd/domain/consensus/utils/transactionhelper"
	"github.com/pkg/errors"
)

// ValidateTransactionInIsolation validates the parts of the transaction
// that can be validated context-free and populates its Mass field
func (v *transactionValidator) ValidateTransactionInIsolation(tx *externalapi.DomainTransaction) error {
	err := v.checkTransactionVersion(tx)
	if err != nil {
		return err
	}
	err = v.checkTransactionInputCount(tx)
	if err != nil {
		return err
	}
	err = v.checkTransactionOutputCount(tx)
	if err != nil {
		return err
	}
	err = v.checkTransactionOutputsValues(tx)
	if err != nil {
		return err
	}
	err = v.checkDuplicateTransactionInputs(tx)
	if err != nil {
		return err
	}
	err = v.checkCoinbasePayloadLength(tx)
	if err != nil {
		return err
	}
	return v.checkTransactionMass(tx)
}

func (v *transactionValidator) checkTransactionVersion(tx *externalapi.DomainTransaction) error {
	if tx.Version > constants.MaxTransactionVersion {
		return errors.Wrapf(ruleerrors.ErrTransactionVersionIsUnknown,
			"transaction version %d is unknown, max known version is %d",
			tx.Version, constants.MaxTransactionVersion)
	}
	return nil
}

func (v *transactionValidator) checkTransactionInputCount(tx *externalapi.DomainTransaction) error {
	// A coinbase has no inputs. Any other transaction must have at least
	// one.
	if !transactionhelper.IsCoinBase(tx) && len(tx.Inputs) == 0 {
		return errors.Wrapf(ruleerrors.ErrNoTxInputs, "transaction has no inputs")
	}
	return nil
}

func (v *transactionValidator) checkTransactionOutputCount(tx *externalapi.DomainTransaction) error {
	if transactionhelper.IsCoinBase(tx) {
		return nil
	}
	if len(tx.Outputs) == 0 {
		return errors.Wrapf(ruleerrors.ErrNoTxOutputs, "transaction has no outputs")
	}
	return nil
}

func (v *transactionValidator) checkTransactionOutputsValues(tx *externalapi.DomainTransaction) error {
	var totalSpark uint64
	for _, output := range tx.Outputs {
		if output.Value > constants.MaxSpark {
			return errors.Wrapf(ruleerrors.ErrBadTxOutValue,
				"transaction output value of %d is higher than the maximum allowed value of %d",
				output.Value, constants.MaxSpark)
		}

		// Binary arithmetic over uint64 wraps around, so the sum is
		// checked for overflow after every addition.
		newTotalSpark := totalSpark + output.Value
		if newTotalSpark < totalSpark {
			return errors.Wrapf(ruleerrors.ErrBadTxOutValue,
				"total value of all transaction outputs overflows the maximum allowed value")
		}
		totalSpark = newTotalSpark
		if totalSpark > constants.MaxSpark {
			return errors.Wrapf(ruleerrors.ErrBadTxOutValue,
				"total value of all transaction outputs is %d which is higher than the maximum allowed value of %d",
				totalSpark, constants.MaxSpark)
		}
	}
	return nil
}

func (v *transactionValidator) checkDuplicateTransactionInputs(tx *externalapi.DomainTransaction) error {
	existingOutpoints := make(map[externalapi.DomainOutpoint]struct{}, len(tx.Inputs))
	for _, input := range tx.Inputs {
		if _, exists := existingOutpoints[input.PreviousOutpoint]; exists {
			return errors.Wrapf(ruleerrors.ErrDuplicateTxInputs,
				"transaction contains duplicate inputs of outpoint %s", input.PreviousOutpoint)
		}
		existingOutpoints[input.PreviousOutpoint] = struct{}{}
	}
	return nil
}

func (v *transactionValidator) checkCoinbasePayloadLength(tx *externalapi.DomainTransaction) error {
	if !transactionhelper.IsCoinBase(tx) {
		return nil
	}
	if uint64(len(tx.Payload)) > constants.MaxCoinbasePayloadLength {
		return errors.Wrapf(ruleerrors.ErrBadCoinbasePayloadLen,
			"coinbase payload is %d bytes long, the maximum allowed is %d",
			len(tx.Payload), constants.MaxCoinbasePayloadLength)
	}
	return nil
}

func (v *transactionValidator) checkTransactionMass(tx *externalapi.DomainTransaction) error {
	tx.Mass = estimatedsize.TransactionEstimatedSerializedSize(tx)
	if tx.Mass > v.maxTransactionMass {
		return errors.Wrapf(ruleerrors.ErrTxMassTooHigh,
			"transaction mass of %d is higher than the maximum allowed mass of %d",
			tx.Mass, v.maxTransactionMass)
	}
	return nil
}
