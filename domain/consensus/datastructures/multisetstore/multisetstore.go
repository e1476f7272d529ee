package multisetstore

import (
	"github.com/emberchain/emberd/domain/consensus/model"
	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/emberchain/emberd/domain/consensus/utils/multiset"
	"github.com/emberchain/emberd/infrastructure/db/database"
)

var bucket = database.MakeBucket([]byte("multisets"))

// multisetStore represents a store of per-block UTXO multisets
type multisetStore struct {
	staging map[externalapi.DomainHash]model.Multiset
}

// New instantiates a new MultisetStore
func New() model.MultisetStore {
	return &multisetStore{
		staging: make(map[externalapi.DomainHash]model.Multiset),
	}
}

// Stage stages the given multiset for the given blockHash
func (ms *multisetStore) Stage(blockHash *externalapi.DomainHash, multiset model.Multiset) {
	ms.staging[*blockHash] = multiset.Clone()
}

func (ms *multisetStore) IsStaged() bool {
	return len(ms.staging) != 0
}

func (ms *multisetStore) Discard() {
	ms.staging = make(map[externalapi.DomainHash]model.Multiset)
}

func (ms *multisetStore) Commit(dbTx model.DBTransaction) error {
	for hash, stagedMultiset := range ms.staging {
		hash := hash
		err := dbTx.Put(hashAsKey(&hash), stagedMultiset.Serialize())
		if err != nil {
			return err
		}
	}

	ms.Discard()
	return nil
}

// Get gets the multiset associated with the given blockHash
func (ms *multisetStore) Get(dbContext model.DBContext, blockHash *externalapi.DomainHash) (model.Multiset, error) {
	if stagedMultiset, ok := ms.staging[*blockHash]; ok {
		return stagedMultiset.Clone(), nil
	}

	multisetBytes, err := dbContext.Get(hashAsKey(blockHash))
	if err != nil {
		return nil, err
	}

	return multiset.FromBytes(multisetBytes)
}

func hashAsKey(hash *externalapi.DomainHash) []byte {
	return bucket.Key(hash[:]).Bytes()
}
