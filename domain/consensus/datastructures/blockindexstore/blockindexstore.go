package blockindexstore

import (
	"bytes"
	"math/big"

	"github.com/emberchain/emberd/domain/consensus/model"
	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/emberchain/emberd/domain/consensus/utils/serialization"
	"github.com/emberchain/emberd/infrastructure/db/database"
)

var bucket = database.MakeBucket([]byte("block-index"))

// blockIndexStore represents a store of block chain-topology records
type blockIndexStore struct {
	staging map[externalapi.DomainHash]*model.BlockIndexNode
}

// New instantiates a new BlockIndexStore
func New() model.BlockIndexStore {
	return &blockIndexStore{
		staging: make(map[externalapi.DomainHash]*model.BlockIndexNode),
	}
}

// Stage stages the given node for the given blockHash
func (bis *blockIndexStore) Stage(blockHash *externalapi.DomainHash, node *model.BlockIndexNode) {
	bis.staging[*blockHash] = node.Clone()
}

func (bis *blockIndexStore) IsStaged() bool {
	return len(bis.staging) != 0
}

func (bis *blockIndexStore) Discard() {
	bis.staging = make(map[externalapi.DomainHash]*model.BlockIndexNode)
}

func (bis *blockIndexStore) Commit(dbTx model.DBTransaction) error {
	for hash, node := range bis.staging {
		hash := hash
		nodeBytes, err := serializeNode(node)
		if err != nil {
			return err
		}
		err = dbTx.Put(hashAsKey(&hash), nodeBytes)
		if err != nil {
			return err
		}
	}

	bis.Discard()
	return nil
}

// Get gets the node associated with the given blockHash
func (bis *blockIndexStore) Get(dbContext model.DBContext, blockHash *externalapi.DomainHash) (*model.BlockIndexNode, error) {
	if node, ok := bis.staging[*blockHash]; ok {
		return node.Clone(), nil
	}

	nodeBytes, err := dbContext.Get(hashAsKey(blockHash))
	if err != nil {
		return nil, err
	}

	return deserializeNode(nodeBytes)
}

// Has returns whether a node for the given blockHash exists
func (bis *blockIndexStore) Has(dbContext model.DBContext, blockHash *externalapi.DomainHash) (bool, error) {
	if _, ok := bis.staging[*blockHash]; ok {
		return true, nil
	}

	return dbContext.Has(hashAsKey(blockHash))
}

func hashAsKey(hash *externalapi.DomainHash) []byte {
	return bucket.Key(hash[:]).Bytes()
}

func serializeNode(node *model.BlockIndexNode) ([]byte, error) {
	w := &bytes.Buffer{}
	err := serialization.WriteElements(w, node.ParentHash, node.Height)
	if err != nil {
		return nil, err
	}
	err = serialization.WriteVarBytes(w, node.ChainWork.Bytes())
	if err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func deserializeNode(nodeBytes []byte) (*model.BlockIndexNode, error) {
	r := bytes.NewReader(nodeBytes)
	parentHash := &externalapi.DomainHash{}
	var height uint64
	err := serialization.ReadElements(r, parentHash, &height)
	if err != nil {
		return nil, err
	}
	chainWorkBytes, err := serialization.ReadVarBytes(r, maxChainWorkLength)
	if err != nil {
		return nil, err
	}

	return &model.BlockIndexNode{
		ParentHash: parentHash,
		Height:     height,
		ChainWork:  new(big.Int).SetBytes(chainWorkBytes),
	}, nil
}

const maxChainWorkLength = 64
