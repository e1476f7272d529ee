package ruleerrors

import (
	"fmt"

	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// These constants are used to identify a specific RuleError.
var (
	// ErrDuplicateBlock indicates a block with the same hash already
	// exists.
	ErrDuplicateBlock = newRuleError("ErrDuplicateBlock")

	// ErrKnownInvalid indicates that this block has already been found
	// invalid and is rejected without re-validation.
	ErrKnownInvalid = newRuleError("ErrKnownInvalid")

	// ErrTimeTooOld indicates the block timestamp is not strictly greater
	// than the median time of the trailing ancestor window.
	ErrTimeTooOld = newRuleError("ErrTimeTooOld")

	// ErrTimeTooMuchInTheFuture indicates that the block timestamp is too
	// far ahead of the adjusted time.
	ErrTimeTooMuchInTheFuture = newRuleError("ErrTimeTooMuchInTheFuture")

	// ErrUnexpectedDifficulty indicates specified bits do not align with
	// the expected value either because it doesn't match the calculated
	// value based on difficulty rules.
	ErrUnexpectedDifficulty = newRuleError("ErrUnexpectedDifficulty")

	// ErrTargetTooHigh indicates specified bits do not align with
	// the expected value either because it is above the valid
	// range.
	ErrTargetTooHigh = newRuleError("ErrTargetTooHigh")

	// ErrNegativeTarget indicates the target encoded by the bits field is
	// negative.
	ErrNegativeTarget = newRuleError("ErrNegativeTarget")

	// ErrInvalidPoW indicates that the block proof-of-work is invalid.
	ErrInvalidPoW = newRuleError("ErrInvalidPoW")

	// ErrBadMerkleRoot indicates the calculated merkle root does not match
	// the expected value.
	ErrBadMerkleRoot = newRuleError("ErrBadMerkleRoot")

	// ErrNoTransactions indicates the block does not have at least one
	// transaction. A valid block must have at least the coinbase
	// transaction.
	ErrNoTransactions = newRuleError("ErrNoTransactions")

	// ErrNoTxInputs indicates a transaction does not have any inputs. A
	// valid transaction must have at least one input.
	ErrNoTxInputs = newRuleError("ErrNoTxInputs")

	// ErrNoTxOutputs indicates a transaction does not have any outputs.
	ErrNoTxOutputs = newRuleError("ErrNoTxOutputs")

	// ErrBadTxOutValue indicates an output value for a transaction is
	// invalid in some way such as being out of range.
	ErrBadTxOutValue = newRuleError("ErrBadTxOutValue")

	// ErrDuplicateTxInputs indicates a transaction references the same
	// input more than once.
	ErrDuplicateTxInputs = newRuleError("ErrDuplicateTxInputs")

	// ErrDoubleSpendInSameBlock indicates a transaction
	// that spends an output that was already spent by another
	// transaction in the same block.
	ErrDoubleSpendInSameBlock = newRuleError("ErrDoubleSpendInSameBlock")

	// ErrDuplicateTx indicates a block contains an identical transaction
	// (or at least two transactions which hash to the same value). A
	// valid block may only contain unique transactions.
	ErrDuplicateTx = newRuleError("ErrDuplicateTx")

	// ErrImmatureSpend indicates a transaction is attempting to spend a
	// coinbase that has not yet reached the required maturity.
	ErrImmatureSpend = newRuleError("ErrImmatureSpend")

	// ErrSpendTooHigh indicates a transaction is attempting to spend more
	// value than the sum of all of its inputs.
	ErrSpendTooHigh = newRuleError("ErrSpendTooHigh")

	// ErrUnfinalizedTx indicates a transaction has not been finalized.
	// A valid block may only contain finalized transactions.
	ErrUnfinalizedTx = newRuleError("ErrUnfinalizedTx")

	// ErrFirstTxNotCoinbase indicates the first transaction in a block
	// is not a coinbase transaction.
	ErrFirstTxNotCoinbase = newRuleError("ErrFirstTxNotCoinbase")

	// ErrMultipleCoinbases indicates a block contains more than one
	// coinbase transaction.
	ErrMultipleCoinbases = newRuleError("ErrMultipleCoinbases")

	// ErrBadCoinbasePayloadLen indicates the length of the payload
	// for a coinbase transaction is too high.
	ErrBadCoinbasePayloadLen = newRuleError("ErrBadCoinbasePayloadLen")

	// ErrBadCoinbaseAmount indicates the amount a coinbase transaction
	// pays is larger than the subsidy plus the accumulated fees of the
	// block that contains it.
	ErrBadCoinbaseAmount = newRuleError("ErrBadCoinbaseAmount")

	// ErrScriptMalformed indicates a transaction script is malformed in
	// some way. For example, it might be longer than the maximum allowed
	// length or fail to parse.
	ErrScriptMalformed = newRuleError("ErrScriptMalformed")

	// ErrScriptValidation indicates the result of executing a transaction
	// script failed, such as a signature verification failure.
	ErrScriptValidation = newRuleError("ErrScriptValidation")

	// ErrInvalidAncestorBlock indicates that an ancestor of this block has
	// already failed validation.
	ErrInvalidAncestorBlock = newRuleError("ErrInvalidAncestorBlock")

	// ErrBlockMassTooHigh indicates the mass of a block exceeds the
	// maximum allowed limits.
	ErrBlockMassTooHigh = newRuleError("ErrBlockMassTooHigh")

	// ErrTxMassTooHigh indicates the mass of a transaction exceeds the
	// maximum allowed limits.
	ErrTxMassTooHigh = newRuleError("ErrTxMassTooHigh")

	// ErrBlockVersionIsUnknown indicates that the block version is
	// unknown.
	ErrBlockVersionIsUnknown = newRuleError("ErrBlockVersionIsUnknown")

	// ErrTransactionVersionIsUnknown indicates that the transaction
	// version is unknown.
	ErrTransactionVersionIsUnknown = newRuleError("ErrTransactionVersionIsUnknown")

	// ErrDuplicateOutput indicates an attempt to add an output to the
	// UTXO set while an unspent entry already exists at the same
	// outpoint. This guards against transaction-hash replay.
	ErrDuplicateOutput = newRuleError("ErrDuplicateOutput")
)

// RuleError identifies a rule violation. It is used to indicate that
// processing of a block or transaction failed due to one of the many
// validation rules. The caller can use type assertions to determine if a
// failure was specifically due to a rule violation.
type RuleError struct {
	message string
	inner   error
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	if e.inner != nil {
		return e.message + ": " + e.inner.Error()
	}
	return e.message
}

// Unwrap satisfies the errors.Unwrap interface
func (e RuleError) Unwrap() error {
	return e.inner
}

// Cause satisfies the github.com/pkg/errors.Cause interface
func (e RuleError) Cause() error {
	return e.inner
}

func newRuleError(message string) RuleError {
	return RuleError{message: message, inner: nil}
}

// ErrMissingTxOut indicates a transaction output referenced by an input
// either does not exist or has already been spent. It is a retryable
// contextual failure: the same transaction may become valid once the
// referenced outputs appear.
type ErrMissingTxOut struct {
	MissingOutpoints []*externalapi.DomainOutpoint
}

func (e ErrMissingTxOut) Error() string {
	return fmt.Sprintf("missing the following outpoints: %v", e.MissingOutpoints)
}

// NewErrMissingTxOut creates a new ErrMissingTxOut error wrapped in a RuleError
func NewErrMissingTxOut(missingOutpoints []*externalapi.DomainOutpoint) error {
	return errors.WithStack(RuleError{
		message: "ErrMissingTxOut",
		inner:   ErrMissingTxOut{missingOutpoints},
	})
}

// ErrMissingParent indicates a block points to an unknown parent. It is a
// retryable contextual failure: the block may become connectable once the
// parent arrives.
type ErrMissingParent struct {
	MissingParentHash *externalapi.DomainHash
}

func (e ErrMissingParent) Error() string {
	return fmt.Sprintf("missing parent hash: %s", e.MissingParentHash)
}

// NewErrMissingParent creates a new ErrMissingParent error wrapped in a RuleError
func NewErrMissingParent(missingParentHash *externalapi.DomainHash) error {
	return errors.WithStack(RuleError{
		message: "ErrMissingParent",
		inner:   ErrMissingParent{missingParentHash},
	})
}
