package externalapi

// ChainChange describes the set of changes the active chain underwent as a
// result of inserting a block: blocks that were disconnected from the
// active chain, blocks that were connected to it, and the new tip. It is
// consumed by the admission pool and by out-of-process collaborators such
// as wallet notifiers.
type ChainChange struct {
	RemovedChainBlockHashes []*DomainHash
	AddedChainBlockHashes   []*DomainHash
	NewTip                  *DomainHash
}

// HasChanges returns whether the chain change describes any actual change
// to the active chain.
func (cc *ChainChange) HasChanges() bool {
	return len(cc.AddedChainBlockHashes) > 0 || len(cc.RemovedChainBlockHashes) > 0
}
