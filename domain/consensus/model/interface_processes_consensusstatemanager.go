package model

import "github.com/emberchain/emberd/domain/consensus/model/externalapi"

// ConsensusStateManager manages the node's consensus state: the active
// chain, the virtual UTXO set and reorganizations between competing tips
type ConsensusStateManager interface {
	AddBlock(blockHash *externalapi.DomainHash) (*externalapi.ChainChange, error)
	PopulateTransactionWithUTXOEntries(transaction *externalapi.DomainTransaction) error
	ValidateTransactionAgainstVirtual(transaction *externalapi.DomainTransaction) error
	VirtualData() (*VirtualData, error)
}

// VirtualData describes the point a next block would be built on: the
// active tip and the parameters a block on top of it must satisfy.
type VirtualData struct {
	TipHash                *externalapi.DomainHash
	NextBlockHeight        uint64
	PastMedianTime         int64
	NextRequiredDifficulty uint32
}
