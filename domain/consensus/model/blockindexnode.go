package model

import (
	"math/big"

	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
)

// BlockIndexNode is the chain-topology record kept per block: its parent,
// its height and the cumulative work of the chain ending at it.
type BlockIndexNode struct {
	ParentHash *externalapi.DomainHash
	Height     uint64
	ChainWork  *big.Int
}

// Clone returns a clone of BlockIndexNode
func (bin *BlockIndexNode) Clone() *BlockIndexNode {
	return &BlockIndexNode{
		ParentHash: bin.ParentHash.Clone(),
		Height:     bin.Height,
		ChainWork:  new(big.Int).Set(bin.ChainWork),
	}
}
