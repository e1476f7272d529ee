package transactionvalidator

import (
	"github.com/emberchain/emberd/domain/consensus/model"
)

// transactionValidator exposes a set of validation classes, after which
// it's possible to determine whether a transaction is valid
type transactionValidator struct {
	blockCoinbaseMaturity uint64
	maxTransactionMass    uint64

	scriptEngine model.ScriptEngine
}

// New instantiates a new TransactionValidator
func New(blockCoinbaseMaturity uint64,
	maxTransactionMass uint64,
	scriptEngine model.ScriptEngine) model.TransactionValidator {

	return &transactionValidator{
		blockCoinbaseMaturity: blockCoinbaseMaturity,
		maxTransactionMass:    maxTransactionMass,
		scriptEngine:          scriptEngine,
	}
}
