package consensusstatemanager

import (
	"github.com/emberchain/emberd/domain/consensus/model"
	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/emberchain/emberd/domain/consensus/ruleerrors"
)

// consensusStateManager manages the node's consensus state: the active
// chain, the virtual UTXO set and reorganizations between competing tips
type consensusStateManager struct {
	databaseContext model.DBManager

	blockStore          model.BlockStore
	blockIndexStore     model.BlockIndexStore
	blockStatusStore    model.BlockStatusStore
	tipsStore           model.TipsStore
	utxoDiffStore       model.UTXODiffStore
	multisetStore       model.MultisetStore
	consensusStateStore model.ConsensusStateStore

	transactionValidator  model.TransactionValidator
	pastMedianTimeManager model.PastMedianTimeManager
	difficultyManager     model.DifficultyManager
	coinbaseManager       model.CoinbaseManager
}

// New instantiates a new ConsensusStateManager
func New(databaseContext model.DBManager,
	blockStore model.BlockStore,
	blockIndexStore model.BlockIndexStore,
	blockStatusStore model.BlockStatusStore,
	tipsStore model.TipsStore,
	utxoDiffStore model.UTXODiffStore,
	multisetStore model.MultisetStore,
	consensusStateStore model.ConsensusStateStore,
	transactionValidator model.TransactionValidator,
	pastMedianTimeManager model.PastMedianTimeManager,
	difficultyManager model.DifficultyManager,
	coinbaseManager model.CoinbaseManager) model.ConsensusStateManager {

	return &consensusStateManager{
		databaseContext: databaseContext,

		blockStore:          blockStore,
		blockIndexStore:     blockIndexStore,
		blockStatusStore:    blockStatusStore,
		tipsStore:           tipsStore,
		utxoDiffStore:       utxoDiffStore,
		multisetStore:       multisetStore,
		consensusStateStore: consensusStateStore,

		transactionValidator:  transactionValidator,
		pastMedianTimeManager: pastMedianTimeManager,
		difficultyManager:     difficultyManager,
		coinbaseManager:       coinbaseManager,
	}
}

// PopulateTransactionWithUTXOEntries populates the transaction's inputs
// with the virtual UTXO entries they spend
func (csm *consensusStateManager) PopulateTransactionWithUTXOEntries(transaction *externalapi.DomainTransaction) error {
	view := csm.virtualUTXOView()

	var missingOutpoints []*externalapi.DomainOutpoint
	for _, input := range transaction.Inputs {
		entry, ok, err := view.UTXOByOutpoint(&input.PreviousOutpoint)
		if err != nil {
			return err
		}
		if !ok {
			missingOutpoints = append(missingOutpoints, &input.PreviousOutpoint)
			continue
		}
		input.UTXOEntry = entry
	}
	if len(missingOutpoints) > 0 {
		return ruleerrors.NewErrMissingTxOut(missingOutpoints)
	}
	return nil
}

// ValidateTransactionAgainstVirtual validates the transaction against the
// virtual UTXO set and populates its inputs, fee and mass. Inputs that
// already carry a UTXO entry keep it, which lets callers pre-populate
// entries for outputs that are not yet in the virtual set.
func (csm *consensusStateManager) ValidateTransactionAgainstVirtual(transaction *externalapi.DomainTransaction) error {
	virtualData, err := csm.VirtualData()
	if err != nil {
		return err
	}
	return csm.transactionValidator.ValidateTransactionInContextAndPopulateFee(
		transaction, csm.virtualUTXOView(), virtualData.NextBlockHeight, virtualData.PastMedianTime)
}

// VirtualData returns the point a next block would be built on
func (csm *consensusStateManager) VirtualData() (*model.VirtualData, error) {
	tipHash, err := csm.consensusStateStore.Tip(csm.databaseContext)
	if err != nil {
		return nil, err
	}
	tipNode, err := csm.blockIndexStore.Get(csm.databaseContext, tipHash)
	if err != nil {
		return nil, err
	}
	pastMedianTime, err := csm.pastMedianTimeManager.PastMedianTime(tipHash)
	if err != nil {
		return nil, err
	}
	nextRequiredDifficulty, err := csm.difficultyManager.RequiredDifficulty(tipHash)
	if err != nil {
		return nil, err
	}

	return &model.VirtualData{
		TipHash:                tipHash,
		NextBlockHeight:        tipNode.Height + 1,
		PastMedianTime:         pastMedianTime,
		NextRequiredDifficulty: nextRequiredDifficulty,
	}, nil
}
