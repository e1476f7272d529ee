package externalapi

// VirtualInfo represents information about the virtual block: the point a
// next block would be built on top of the current tip
type VirtualInfo struct {
	TipHash                *DomainHash
	NextBlockHeight        uint64
	PastMedianTime         int64
	NextRequiredDifficulty uint32
}
