package difficultymanager

import (
	"math"
	"math/big"
	"time"

	"github.com/emberchain/emberd/domain/consensus/model"
	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/emberchain/emberd/domain/consensus/utils/pow"
)

// difficultyManager resolves the required difficulty of a block from a
// trailing window of its ancestors
type difficultyManager struct {
	powMax             *big.Int
	powMaxBits         uint32
	windowSize         int
	targetTimePerBlock time.Duration

	databaseContext model.DBManager
	blockStore      model.BlockStore
}

// New instantiates a new DifficultyManager
func New(powMax *big.Int,
	powMaxBits uint32,
	windowSize int,
	targetTimePerBlock time.Duration,
	databaseContext model.DBManager,
	blockStore model.BlockStore) model.DifficultyManager {

	return &difficultyManager{
		powMax:             powMax,
		powMaxBits:         powMaxBits,
		windowSize:         windowSize,
		targetTimePerBlock: targetTimePerBlock,
		databaseContext:    databaseContext,
		blockStore:         blockStore,
	}
}

// RequiredDifficulty returns the difficulty bits a block on top of
// parentHash must carry. The new target is the window's average target
// scaled by the ratio between the window's actual and expected duration.
func (dm *difficultyManager) RequiredDifficulty(parentHash *externalapi.DomainHash) (uint32, error) {
	// Fetch a window of windowSize + 1 headers so we have windowSize block
	// intervals. Chains too short for a full window use the maximum target.
	window, err := dm.headerWindow(parentHash, dm.windowSize+1)
	if err != nil {
		return 0, err
	}
	if len(window) < dm.windowSize+1 {
		return dm.powMaxBits, nil
	}

	windowMinTimestamp, windowMaxTimestamp := windowMinMaxTimestamps(window)

	// Drop the oldest header so the average covers windowSize targets.
	targetsWindow := window[:dm.windowSize]
	newTarget := averageWindowTarget(targetsWindow)
	newTarget.
		Mul(newTarget, big.NewInt(windowMaxTimestamp-windowMinTimestamp)).
		Div(newTarget, big.NewInt(dm.targetTimePerBlock.Milliseconds())).
		Div(newTarget, big.NewInt(int64(dm.windowSize)))
	if newTarget.Cmp(dm.powMax) > 0 {
		return dm.powMaxBits, nil
	}

	return pow.BigToCompact(newTarget), nil
}

func (dm *difficultyManager) headerWindow(startHash *externalapi.DomainHash, size int) (
	[]*externalapi.DomainBlockHeader, error) {

	window := make([]*externalapi.DomainBlockHeader, 0, size)
	currentHash := startHash
	for len(window) < size {
		header, err := dm.blockStore.BlockHeader(dm.databaseContext, currentHash)
		if err != nil {
			return nil, err
		}
		window = append(window, header)

		if header.IsGenesis() {
			break
		}
		currentHash = &header.ParentHash
	}
	return window, nil
}

func windowMinMaxTimestamps(window []*externalapi.DomainBlockHeader) (min, max int64) {
	min = math.MaxInt64
	max = 0
	for _, header := range window {
		if header.TimeInMilliseconds < min {
			min = header.TimeInMilliseconds
		}
		if header.TimeInMilliseconds > max {
			max = header.TimeInMilliseconds
		}
	}
	return
}

func averageWindowTarget(window []*externalapi.DomainBlockHeader) *big.Int {
	averageTarget := big.NewInt(0)
	for _, header := range window {
		target := pow.CompactToBig(header.Bits)
		averageTarget.Add(averageTarget, target)
	}
	return averageTarget.Div(averageTarget, big.NewInt(int64(len(window))))
}
