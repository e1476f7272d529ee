package utxodiffstore

import (
	"github.com/emberchain/emberd/domain/consensus/model"
	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/emberchain/emberd/domain/consensus/utils/utxo"
	"github.com/emberchain/emberd/infrastructure/db/database"
)

var bucket = database.MakeBucket([]byte("utxo-diffs"))

// utxoDiffStore represents a store of per-block UTXO diffs
type utxoDiffStore struct {
	staging map[externalapi.DomainHash]externalapi.UTXODiff
}

// New instantiates a new UTXODiffStore
func New() model.UTXODiffStore {
	return &utxoDiffStore{
		staging: make(map[externalapi.DomainHash]externalapi.UTXODiff),
	}
}

// Stage stages the given utxoDiff for the given blockHash
func (uds *utxoDiffStore) Stage(blockHash *externalapi.DomainHash, utxoDiff externalapi.UTXODiff) {
	uds.staging[*blockHash] = utxoDiff
}

func (uds *utxoDiffStore) IsStaged() bool {
	return len(uds.staging) != 0
}

func (uds *utxoDiffStore) Discard() {
	uds.staging = make(map[externalapi.DomainHash]externalapi.UTXODiff)
}

func (uds *utxoDiffStore) Commit(dbTx model.DBTransaction) error {
	for hash, diff := range uds.staging {
		hash := hash
		diffBytes, err := utxo.SerializeUTXODiff(diff)
		if err != nil {
			return err
		}
		err = dbTx.Put(hashAsKey(&hash), diffBytes)
		if err != nil {
			return err
		}
	}

	uds.Discard()
	return nil
}

// UTXODiff gets the utxoDiff associated with the given blockHash
func (uds *utxoDiffStore) UTXODiff(dbContext model.DBContext, blockHash *externalapi.DomainHash) (externalapi.UTXODiff, error) {
	if diff, ok := uds.staging[*blockHash]; ok {
		return diff, nil
	}

	diffBytes, err := dbContext.Get(hashAsKey(blockHash))
	if err != nil {
		return nil, err
	}

	return utxo.DeserializeUTXODiff(diffBytes)
}

// Has returns whether a utxoDiff for the given blockHash exists
func (uds *utxoDiffStore) Has(dbContext model.DBContext, blockHash *externalapi.DomainHash) (bool, error) {
	if _, ok := uds.staging[*blockHash]; ok {
		return true, nil
	}

	return dbContext.Has(hashAsKey(blockHash))
}

func hashAsKey(hash *externalapi.DomainHash) []byte {
	return bucket.Key(hash[:]).Bytes()
}
