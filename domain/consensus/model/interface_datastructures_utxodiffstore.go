package model

import "github.com/emberchain/emberd/domain/consensus/model/externalapi"

// UTXODiffStore represents a store of per-block UTXO diffs. The diff of a
// connected block is the undo log a reorganization replays in reverse.
type UTXODiffStore interface {
	Store
	Stage(blockHash *externalapi.DomainHash, utxoDiff externalapi.UTXODiff)
	UTXODiff(dbContext DBContext, blockHash *externalapi.DomainHash) (externalapi.UTXODiff, error)
	Has(dbContext DBContext, blockHash *externalapi.DomainHash) (bool, error)
}
