package model

import (
	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
)

// Consensus is the part of the consensus the mining manager needs: enough
// to validate pooled transactions against the virtual state and to build
// block templates over the current tip.
type Consensus interface {
	ValidateTransactionAndPopulateWithConsensusData(transaction *externalapi.DomainTransaction) error
	BuildBlock(coinbaseData *externalapi.DomainCoinbaseData,
		transactions []*externalapi.DomainTransaction) (*externalapi.DomainBlock, error)
	GetVirtualInfo() (*externalapi.VirtualInfo, error)
	GetVirtualUTXOEntry(outpoint *externalapi.DomainOutpoint) (externalapi.UTXOEntry, bool, error)
	GetBlock(blockHash *externalapi.DomainHash) (*externalapi.DomainBlock, error)
}
