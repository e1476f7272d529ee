package pastmediantimemanager

import (
	"sort"

	"github.com/emberchain/emberd/domain/consensus/model"
	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
)

// pastMedianTimeManager provides a method to resolve the past median time
// of a block from the timestamps of its trailing ancestor window
type pastMedianTimeManager struct {
	windowSize int

	databaseContext model.DBManager
	blockStore      model.BlockStore
}

// New instantiates a new PastMedianTimeManager
func New(windowSize int,
	databaseContext model.DBManager,
	blockStore model.BlockStore) model.PastMedianTimeManager {

	return &pastMedianTimeManager{
		windowSize:      windowSize,
		databaseContext: databaseContext,
		blockStore:      blockStore,
	}
}

// PastMedianTime returns the median timestamp of the window of blocks
// ending at blockHash, inclusive. Chains shorter than the window use every
// block they have.
func (pmtm *pastMedianTimeManager) PastMedianTime(blockHash *externalapi.DomainHash) (int64, error) {
	timestamps := make([]int64, 0, pmtm.windowSize)

	currentHash := blockHash
	for len(timestamps) < pmtm.windowSize {
		header, err := pmtm.blockStore.BlockHeader(pmtm.databaseContext, currentHash)
		if err != nil {
			return 0, err
		}
		timestamps = append(timestamps, header.TimeInMilliseconds)

		if header.IsGenesis() {
			break
		}
		currentHash = &header.ParentHash
	}

	sort.Slice(timestamps, func(i, j int) bool {
		return timestamps[i] < timestamps[j]
	})

	return timestamps[len(timestamps)/2], nil
}
