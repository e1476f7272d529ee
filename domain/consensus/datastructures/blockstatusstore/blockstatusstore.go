package blockstatusstore

import (
	"github.com/emberchain/emberd/domain/consensus/model"
	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/emberchain/emberd/infrastructure/db/database"
	"github.com/pkg/errors"
)

var bucket = database.MakeBucket([]byte("block-statuses"))

// blockStatusStore represents a store of BlockStatuses
type blockStatusStore struct {
	staging map[externalapi.DomainHash]externalapi.BlockStatus
}

// New instantiates a new BlockStatusStore
func New() model.BlockStatusStore {
	return &blockStatusStore{
		staging: make(map[externalapi.DomainHash]externalapi.BlockStatus),
	}
}

// Stage stages the given blockStatus for the given blockHash
func (bss *blockStatusStore) Stage(blockHash *externalapi.DomainHash, blockStatus externalapi.BlockStatus) {
	bss.staging[*blockHash] = blockStatus
}

func (bss *blockStatusStore) IsStaged() bool {
	return len(bss.staging) != 0
}

func (bss *blockStatusStore) Discard() {
	bss.staging = make(map[externalapi.DomainHash]externalapi.BlockStatus)
}

func (bss *blockStatusStore) Commit(dbTx model.DBTransaction) error {
	for hash, status := range bss.staging {
		hash := hash
		err := dbTx.Put(hashAsKey(&hash), []byte{byte(status)})
		if err != nil {
			return err
		}
	}

	bss.Discard()
	return nil
}

// Get gets the blockStatus associated with the given blockHash
func (bss *blockStatusStore) Get(dbContext model.DBContext, blockHash *externalapi.DomainHash) (externalapi.BlockStatus, error) {
	if status, ok := bss.staging[*blockHash]; ok {
		return status, nil
	}

	statusBytes, err := dbContext.Get(hashAsKey(blockHash))
	if err != nil {
		return 0, err
	}
	if len(statusBytes) != 1 {
		return 0, errors.Errorf("block status for %s is %d bytes long, expected 1", blockHash, len(statusBytes))
	}

	return externalapi.BlockStatus(statusBytes[0]), nil
}

// Exists returns true if the blockStatus for the given blockHash exists
func (bss *blockStatusStore) Exists(dbContext model.DBContext, blockHash *externalapi.DomainHash) (bool, error) {
	if _, ok := bss.staging[*blockHash]; ok {
		return true, nil
	}

	return dbContext.Has(hashAsKey(blockHash))
}

func hashAsKey(hash *externalapi.DomainHash) []byte {
	return bucket.Key(hash[:]).Bytes()
}
