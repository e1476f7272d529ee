package blockstore

import (
	"bytes"

	"github.com/emberchain/emberd/domain/consensus/model"
	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/emberchain/emberd/domain/consensus/utils/serialization"
	"github.com/emberchain/emberd/infrastructure/db/database"
)

var bucket = database.MakeBucket([]byte("blocks"))

// blockStore represents a store of blocks
type blockStore struct {
	staging map[externalapi.DomainHash]*externalapi.DomainBlock
}

// New instantiates a new BlockStore
func New() model.BlockStore {
	return &blockStore{
		staging: make(map[externalapi.DomainHash]*externalapi.DomainBlock),
	}
}

// Stage stages the given block for the given blockHash
func (bs *blockStore) Stage(blockHash *externalapi.DomainHash, block *externalapi.DomainBlock) {
	bs.staging[*blockHash] = block.Clone()
}

func (bs *blockStore) IsStaged() bool {
	return len(bs.staging) != 0
}

func (bs *blockStore) Discard() {
	bs.staging = make(map[externalapi.DomainHash]*externalapi.DomainBlock)
}

func (bs *blockStore) Commit(dbTx model.DBTransaction) error {
	for hash, block := range bs.staging {
		hash := hash
		blockBytes, err := serializeBlock(block)
		if err != nil {
			return err
		}
		err = dbTx.Put(hashAsKey(&hash), blockBytes)
		if err != nil {
			return err
		}
	}

	bs.Discard()
	return nil
}

// Block gets the block associated with the given blockHash
func (bs *blockStore) Block(dbContext model.DBContext, blockHash *externalapi.DomainHash) (*externalapi.DomainBlock, error) {
	if block, ok := bs.staging[*blockHash]; ok {
		return block.Clone(), nil
	}

	blockBytes, err := dbContext.Get(hashAsKey(blockHash))
	if err != nil {
		return nil, err
	}

	return deserializeBlock(blockBytes)
}

// BlockHeader gets the header of the block associated with the given
// blockHash
func (bs *blockStore) BlockHeader(dbContext model.DBContext, blockHash *externalapi.DomainHash) (*externalapi.DomainBlockHeader, error) {
	block, err := bs.Block(dbContext, blockHash)
	if err != nil {
		return nil, err
	}
	return block.Header, nil
}

// HasBlock returns whether a block associated with the given blockHash
// exists
func (bs *blockStore) HasBlock(dbContext model.DBContext, blockHash *externalapi.DomainHash) (bool, error) {
	if _, ok := bs.staging[*blockHash]; ok {
		return true, nil
	}

	return dbContext.Has(hashAsKey(blockHash))
}

func hashAsKey(hash *externalapi.DomainHash) []byte {
	return bucket.Key(hash[:]).Bytes()
}

func serializeBlock(block *externalapi.DomainBlock) ([]byte, error) {
	w := &bytes.Buffer{}
	err := serialization.SerializeBlock(w, block)
	if err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func deserializeBlock(blockBytes []byte) (*externalapi.DomainBlock, error) {
	r := bytes.NewReader(blockBytes)
	return serialization.DeserializeBlock(r)
}
