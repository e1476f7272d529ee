package mempool

import (
	"fmt"
)

// RejectCode represents a numeric value by which the mempool indicates
// why a transaction was rejected.
type RejectCode uint8

// These constants define the various supported reject codes.
const (
	RejectInvalid         RejectCode = 0x10
	RejectDuplicate       RejectCode = 0x12
	RejectMissingInputs   RejectCode = 0x20
	RejectDoubleSpend     RejectCode = 0x21
	RejectChainTooLong    RejectCode = 0x22
	RejectInsufficientFee RejectCode = 0x42
)

var rejectCodeStrings = map[RejectCode]string{
	RejectInvalid:         "REJECT_INVALID",
	RejectDuplicate:       "REJECT_DUPLICATE",
	RejectMissingInputs:   "REJECT_MISSING_INPUTS",
	RejectDoubleSpend:     "REJECT_DOUBLE_SPEND",
	RejectChainTooLong:    "REJECT_CHAIN_TOO_LONG",
	RejectInsufficientFee: "REJECT_INSUFFICIENTFEE",
}

// String returns the RejectCode in human-readable form.
func (code RejectCode) String() string {
	if s, ok := rejectCodeStrings[code]; ok {
		return s
	}
	return fmt.Sprintf("Unknown RejectCode (%d)", uint8(code))
}

// TxRuleError identifies a mempool policy violation. It is local to the
// pool: a transaction rejected with a TxRuleError is not consensus-invalid
// and may be accepted under a different pool state or policy.
type TxRuleError struct {
	RejectCode  RejectCode
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e TxRuleError) Error() string {
	return e.Description
}

// txRuleError creates a TxRuleError given a set of arguments.
func txRuleError(c RejectCode, desc string) TxRuleError {
	return TxRuleError{RejectCode: c, Description: desc}
}
