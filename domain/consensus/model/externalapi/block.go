package externalapi

// DomainBlock represents an Ember block
type DomainBlock struct {
	Header       *DomainBlockHeader
	Transactions []*DomainTransaction
}

// Clone returns a clone of DomainBlock
func (block *DomainBlock) Clone() *DomainBlock {
	transactionsClone := make([]*DomainTransaction, len(block.Transactions))
	for i, tx := range block.Transactions {
		transactionsClone[i] = tx.Clone()
	}

	return &DomainBlock{
		Header:       block.Header.Clone(),
		Transactions: transactionsClone,
	}
}

// DomainBlockHeader represents the header part of an Ember block
type DomainBlockHeader struct {
	Version            uint16
	ParentHash         DomainHash
	HashMerkleRoot     DomainHash
	TimeInMilliseconds int64
	Bits               uint32
	Nonce              uint64
}

// Clone returns a clone of DomainBlockHeader
func (header *DomainBlockHeader) Clone() *DomainBlockHeader {
	headerClone := *header
	return &headerClone
}

// IsGenesis returns whether this header declares no parent.
func (header *DomainBlockHeader) IsGenesis() bool {
	return header.ParentHash == ZeroHash
}
