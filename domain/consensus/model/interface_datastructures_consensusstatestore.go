package model

import "github.com/emberchain/emberd/domain/consensus/model/externalapi"

// ConsensusStateStore represents a store for the current consensus state:
// the virtual UTXO set and the active tip marker. Both are staged together
// and land in the database in the same transaction.
type ConsensusStateStore interface {
	Store
	StageVirtualUTXODiff(virtualUTXODiff externalapi.UTXODiff) error
	StageTip(tipHash *externalapi.DomainHash)
	Tip(dbContext DBContext) (*externalapi.DomainHash, error)
	UTXOByOutpoint(dbContext DBContext, outpoint *externalapi.DomainOutpoint) (externalapi.UTXOEntry, bool, error)
}
