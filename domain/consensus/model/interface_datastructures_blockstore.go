package model

import "github.com/emberchain/emberd/domain/consensus/model/externalapi"

// BlockStore represents a store of blocks
type BlockStore interface {
	Store
	Stage(blockHash *externalapi.DomainHash, block *externalapi.DomainBlock)
	Block(dbContext DBContext, blockHash *externalapi.DomainHash) (*externalapi.DomainBlock, error)
	BlockHeader(dbContext DBContext, blockHash *externalapi.DomainHash) (*externalapi.DomainBlockHeader, error)
	HasBlock(dbContext DBContext, blockHash *externalapi.DomainHash) (bool, error)
}
