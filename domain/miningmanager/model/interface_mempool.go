package model

import (
	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
)

// Mempool maintains a set of known transactions that have not yet been
// added to any block
type Mempool interface {
	ValidateAndInsertTransaction(transaction *externalapi.DomainTransaction) error
	HandleNewBlockTransactions(blockTransactions []*externalapi.DomainTransaction) error
	ReadmitTransactions(transactions []*externalapi.DomainTransaction)
	BlockCandidateTransactions() []*externalapi.DomainTransaction
	TransactionCount() int
}

// BlockTemplateBuilder builds block templates for miners to consume
type BlockTemplateBuilder interface {
	GetBlockTemplate(coinbaseData *externalapi.DomainCoinbaseData) (*externalapi.DomainBlock, error)
}
