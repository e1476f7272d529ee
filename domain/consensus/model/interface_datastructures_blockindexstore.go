package model

import "github.com/emberchain/emberd/domain/consensus/model/externalapi"

// BlockIndexStore represents a store of per-block chain topology records
type BlockIndexStore interface {
	Store
	Stage(blockHash *externalapi.DomainHash, node *BlockIndexNode)
	Get(dbContext DBContext, blockHash *externalapi.DomainHash) (*BlockIndexNode, error)
	Has(dbContext DBContext, blockHash *externalapi.DomainHash) (bool, error)
}
