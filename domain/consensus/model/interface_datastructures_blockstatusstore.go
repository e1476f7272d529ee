package model

import "github.com/emberchain/emberd/domain/consensus/model/externalapi"

// BlockStatusStore represents a store of block validation statuses
type BlockStatusStore interface {
	Store
	Stage(blockHash *externalapi.DomainHash, blockStatus externalapi.BlockStatus)
	Get(dbContext DBContext, blockHash *externalapi.DomainHash) (externalapi.BlockStatus, error)
	Exists(dbContext DBContext, blockHash *externalapi.DomainHash) (bool, error)
}
