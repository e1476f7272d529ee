package blockprocessor

import (
	"github.com/emberchain/emberd/domain/consensus/model"
	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
)

// maxPendingBlocks bounds the number of blocks held in memory while they
// wait for a missing parent. Past the bound the oldest waiters are evicted.
const maxPendingBlocks = 512

// blockProcessor drives a block through the validation pipeline and, when
// the block passes, commits the resulting state change atomically.
type blockProcessor struct {
	genesisHash     *externalapi.DomainHash
	databaseContext model.DBManager

	blockValidator        model.BlockValidator
	consensusStateManager model.ConsensusStateManager

	blockStore          model.BlockStore
	blockStatusStore    model.BlockStatusStore
	blockIndexStore     model.BlockIndexStore
	tipsStore           model.TipsStore
	utxoDiffStore       model.UTXODiffStore
	multisetStore       model.MultisetStore
	consensusStateStore model.ConsensusStateStore

	stores []model.Store

	// pendingBlocks holds blocks whose parent has not been seen yet,
	// keyed by the missing parent's hash. pendingOrder tracks arrival
	// order for eviction.
	pendingBlocks map[externalapi.DomainHash][]*externalapi.DomainBlock
	pendingOrder  []externalapi.DomainHash
	pendingCount  int

	// fatalError latches a failed database commit. The in-memory staging
	// is already lost at that point, so the processor refuses any further
	// mutation until the process is restarted.
	fatalError error
}

// New instantiates a new BlockProcessor
func New(genesisHash *externalapi.DomainHash,
	databaseContext model.DBManager,
	blockValidator model.BlockValidator,
	consensusStateManager model.ConsensusStateManager,
	blockStore model.BlockStore,
	blockStatusStore model.BlockStatusStore,
	blockIndexStore model.BlockIndexStore,
	tipsStore model.TipsStore,
	utxoDiffStore model.UTXODiffStore,
	multisetStore model.MultisetStore,
	consensusStateStore model.ConsensusStateStore) model.BlockProcessor {

	return &blockProcessor{
		genesisHash:     genesisHash,
		databaseContext: databaseContext,

		blockValidator:        blockValidator,
		consensusStateManager: consensusStateManager,

		blockStore:          blockStore,
		blockStatusStore:    blockStatusStore,
		blockIndexStore:     blockIndexStore,
		tipsStore:           tipsStore,
		utxoDiffStore:       utxoDiffStore,
		multisetStore:       multisetStore,
		consensusStateStore: consensusStateStore,

		stores: []model.Store{
			blockStore,
			blockStatusStore,
			blockIndexStore,
			tipsStore,
			utxoDiffStore,
			multisetStore,
			consensusStateStore,
		},

		pendingBlocks: make(map[externalapi.DomainHash][]*externalapi.DomainBlock),
	}
}
