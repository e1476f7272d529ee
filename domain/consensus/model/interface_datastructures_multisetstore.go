package model

import "github.com/emberchain/emberd/domain/consensus/model/externalapi"

// MultisetStore represents a store of per-block UTXO set multisets
type MultisetStore interface {
	Store
	Stage(blockHash *externalapi.DomainHash, multiset Multiset)
	Get(dbContext DBContext, blockHash *externalapi.DomainHash) (Multiset, error)
}
