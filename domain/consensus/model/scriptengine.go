package model

import "github.com/emberchain/emberd/domain/consensus/model/externalapi"

// ScriptEngine verifies that an input's unlocking script satisfies the
// locking script of the entry it spends. The input's UTXOEntry must be
// populated before verification.
type ScriptEngine interface {
	VerifyInput(transaction *externalapi.DomainTransaction, inputIndex int) error
}
