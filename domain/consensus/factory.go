package consensus

import (
	"github.com/emberchain/emberd/domain/chainconfig"
	"github.com/emberchain/emberd/domain/consensus/datastructures/blockindexstore"
	"github.com/emberchain/emberd/domain/consensus/datastructures/blockstatusstore"
	"github.com/emberchain/emberd/domain/consensus/datastructures/blockstore"
	"github.com/emberchain/emberd/domain/consensus/datastructures/consensusstatestore"
	"github.com/emberchain/emberd/domain/consensus/datastructures/multisetstore"
	"github.com/emberchain/emberd/domain/consensus/datastructures/tipsstore"
	"github.com/emberchain/emberd/domain/consensus/datastructures/utxodiffstore"
	"github.com/emberchain/emberd/domain/consensus/processes/blockprocessor"
	"github.com/emberchain/emberd/domain/consensus/processes/blockvalidator"
	"github.com/emberchain/emberd/domain/consensus/processes/coinbasemanager"
	"github.com/emberchain/emberd/domain/consensus/processes/consensusstatemanager"
	"github.com/emberchain/emberd/domain/consensus/processes/difficultymanager"
	"github.com/emberchain/emberd/domain/consensus/processes/pastmediantimemanager"
	"github.com/emberchain/emberd/domain/consensus/processes/transactionvalidator"
	"github.com/emberchain/emberd/domain/consensus/timesource"
	"github.com/emberchain/emberd/domain/consensus/utils/txscript"
	"github.com/emberchain/emberd/infrastructure/db/database"
)

// Factory instantiates new Consensuses
type Factory interface {
	NewConsensus(params *chainconfig.Params, db database.Database) (Consensus, error)
}

type factory struct{}

// NewFactory creates a new Consensus factory
func NewFactory() Factory {
	return &factory{}
}

// NewConsensus instantiates a new Consensus on top of the given database.
// On a fresh database the genesis block is validated and inserted, so the
// returned Consensus always has a tip.
func (f *factory) NewConsensus(params *chainconfig.Params, db database.Database) (Consensus, error) {
	// Data structures
	blockStore := blockstore.New()
	blockStatusStore := blockstatusstore.New()
	blockIndexStore := blockindexstore.New()
	tipsStore := tipsstore.New()
	utxoDiffStore := utxodiffstore.New()
	multisetStore := multisetstore.New()
	consensusStateStore := consensusstatestore.New()

	// Processes
	scriptEngine := txscript.NewEngine()
	timeSource := timesource.New()
	transactionValidator := transactionvalidator.New(
		params.BlockCoinbaseMaturity,
		params.MaxBlockMass,
		scriptEngine)
	pastMedianTimeManager := pastmediantimemanager.New(
		params.MedianTimeWindowSize,
		db,
		blockStore)
	difficultyManager := difficultymanager.New(
		params.PowMax,
		params.PowMaxBits,
		params.DifficultyAdjustmentWindowSize,
		params.TargetTimePerBlock,
		db,
		blockStore)
	coinbaseManager := coinbasemanager.New(
		params.BaseSubsidy,
		params.SubsidyHalvingInterval)
	blockValidator := blockvalidator.New(
		params.PowMax,
		params.SkipProofOfWork,
		params.MaxTimeOffset,
		params.MaxBlockMass,
		db,
		timeSource,
		difficultyManager,
		pastMedianTimeManager,
		transactionValidator,
		blockStatusStore)
	consensusStateManager := consensusstatemanager.New(
		db,
		blockStore,
		blockIndexStore,
		blockStatusStore,
		tipsStore,
		utxoDiffStore,
		multisetStore,
		consensusStateStore,
		transactionValidator,
		pastMedianTimeManager,
		difficultyManager,
		coinbaseManager)
	blockProcessor := blockprocessor.New(
		params.GenesisHash,
		db,
		blockValidator,
		consensusStateManager,
		blockStore,
		blockStatusStore,
		blockIndexStore,
		tipsStore,
		utxoDiffStore,
		multisetStore,
		consensusStateStore)

	c := &consensus{
		databaseContext: db,

		blockProcessor:        blockProcessor,
		consensusStateManager: consensusStateManager,
		transactionValidator:  transactionValidator,
		coinbaseManager:       coinbaseManager,
		timeSource:            timeSource,

		blockStore:          blockStore,
		blockStatusStore:    blockStatusStore,
		blockIndexStore:     blockIndexStore,
		tipsStore:           tipsStore,
		multisetStore:       multisetStore,
		consensusStateStore: consensusStateStore,
	}

	hasGenesis, err := blockStore.HasBlock(db, params.GenesisHash)
	if err != nil {
		return nil, err
	}
	if !hasGenesis {
		_, err := c.ValidateAndInsertBlock(params.GenesisBlock)
		if err != nil {
			return nil, err
		}
	}

	return c, nil
}
