package blockvalidator

import (
	"math/big"
	"time"

	"github.com/emberchain/emberd/domain/consensus/model"
)

// blockValidator exposes a set of validation classes, after which
// it's possible to determine whether a block is valid
type blockValidator struct {
	powMax          *big.Int
	skipProofOfWork bool
	maxTimeOffset   time.Duration
	maxBlockMass    uint64

	databaseContext       model.DBManager
	timeSource            model.TimeSource
	difficultyManager     model.DifficultyManager
	pastMedianTimeManager model.PastMedianTimeManager
	transactionValidator  model.TransactionValidator
	blockStatusStore      model.BlockStatusStore
}

// New instantiates a new BlockValidator
func New(powMax *big.Int,
	skipProofOfWork bool,
	maxTimeOffset time.Duration,
	maxBlockMass uint64,
	databaseContext model.DBManager,
	timeSource model.TimeSource,
	difficultyManager model.DifficultyManager,
	pastMedianTimeManager model.PastMedianTimeManager,
	transactionValidator model.TransactionValidator,
	blockStatusStore model.BlockStatusStore) model.BlockValidator {

	return &blockValidator{
		powMax:          powMax,
		skipProofOfWork: skipProofOfWork,
		maxTimeOffset:   maxTimeOffset,
		maxBlockMass:    maxBlockMass,

		databaseContext:       databaseContext,
		timeSource:            timeSource,
		difficultyManager:     difficultyManager,
		pastMedianTimeManager: pastMedianTimeManager,
		transactionValidator:  transactionValidator,
		blockStatusStore:      blockStatusStore,
	}
}
