package externalapi

import "math/big"

// BlockInfo contains various information about a specific block
type BlockInfo struct {
	Exists       bool
	Status       BlockStatus
	Height       uint64
	ChainWork    *big.Int
	MultisetHash *DomainHash
}

// Clone returns a clone of BlockInfo
func (bi *BlockInfo) Clone() *BlockInfo {
	clone := &BlockInfo{
		Exists: bi.Exists,
		Status: bi.Status,
		Height: bi.Height,
	}
	if bi.ChainWork != nil {
		clone.ChainWork = new(big.Int).Set(bi.ChainWork)
	}
	if bi.MultisetHash != nil {
		clone.MultisetHash = bi.MultisetHash.Clone()
	}
	return clone
}
