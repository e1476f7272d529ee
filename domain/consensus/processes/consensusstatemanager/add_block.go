package consensusstatemanager

import (
	"github.com/emberchain/emberd/domain/consensus/model"
	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/emberchain/emberd/domain/consensus/ruleerrors"
	"github.com/emberchain/emberd/domain/consensus/utils/multiset"
	"github.com/emberchain/emberd/domain/consensus/utils/utxo"
	"github.com/emberchain/emberd/infrastructure/db/database"
	"github.com/pkg/errors"
)

// AddBlock resolves what the given block means for the active chain. The
// block's body has already been validated in isolation and its index node
// staged. If the block's chain carries strictly more cumulative work than
// the current tip, the state is rolled to it, reorganizing away from the
// old chain when needed. Everything is staged in memory; the caller
// commits atomically.
func (csm *consensusStateManager) AddBlock(blockHash *externalapi.DomainHash) (*externalapi.ChainChange, error) {
	node, err := csm.blockIndexStore.Get(csm.databaseContext, blockHash)
	if err != nil {
		return nil, err
	}

	currentTipHash, err := csm.consensusStateStore.Tip(csm.databaseContext)
	if database.IsNotFoundError(err) {
		// No tip yet, so this is the genesis block.
		return csm.connectGenesis(blockHash)
	}
	if err != nil {
		return nil, err
	}

	err = csm.updateTips(blockHash, node.ParentHash)
	if err != nil {
		return nil, err
	}

	currentTipNode, err := csm.blockIndexStore.Get(csm.databaseContext, currentTipHash)
	if err != nil {
		return nil, err
	}
	if node.ChainWork.Cmp(currentTipNode.ChainWork) <= 0 {
		// Ties go to the incumbent chain. The block stays on its side
		// chain until it accumulates strictly more work.
		return &externalapi.ChainChange{NewTip: currentTipHash}, nil
	}

	return csm.reorganizeChain(blockHash, currentTipHash)
}

func (csm *consensusStateManager) connectGenesis(genesisHash *externalapi.DomainHash) (*externalapi.ChainChange, error) {
	block, err := csm.blockStore.Block(csm.databaseContext, genesisHash)
	if err != nil {
		return nil, err
	}

	blockDiff, _, err := csm.verifyAndBuildBlockDiff(block, 0, csm.virtualUTXOView())
	if err != nil {
		return nil, csm.handleConnectFailure(err, []*externalapi.DomainHash{genesisHash}, 0)
	}
	ms, err := csm.buildBlockMultiset(multiset.New(), blockDiff)
	if err != nil {
		return nil, err
	}

	csm.utxoDiffStore.Stage(genesisHash, blockDiff)
	csm.multisetStore.Stage(genesisHash, ms)
	csm.blockStatusStore.Stage(genesisHash, externalapi.StatusConnected)
	csm.tipsStore.Stage([]*externalapi.DomainHash{genesisHash})
	err = csm.consensusStateStore.StageVirtualUTXODiff(blockDiff)
	if err != nil {
		return nil, err
	}
	csm.consensusStateStore.StageTip(genesisHash)

	return &externalapi.ChainChange{
		AddedChainBlockHashes: []*externalapi.DomainHash{genesisHash},
		NewTip:                genesisHash,
	}, nil
}

// updateTips replaces the block's parent with the block in the tip set.
// A block extending a non-tip block simply becomes a new tip alongside
// the existing ones.
func (csm *consensusStateManager) updateTips(blockHash *externalapi.DomainHash, parentHash *externalapi.DomainHash) error {
	currentTips, err := csm.tipsStore.Tips(csm.databaseContext)
	if err != nil {
		return err
	}

	newTips := make([]*externalapi.DomainHash, 0, len(currentTips)+1)
	for _, tip := range currentTips {
		if !tip.Equal(parentHash) {
			newTips = append(newTips, tip)
		}
	}
	newTips = append(newTips, blockHash)
	csm.tipsStore.Stage(newTips)
	return nil
}

// reorganizeChain rolls the consensus state from the current tip to the
// new tip. Extending the current tip is the degenerate case with an empty
// disconnect path.
func (csm *consensusStateManager) reorganizeChain(newTipHash *externalapi.DomainHash,
	currentTipHash *externalapi.DomainHash) (*externalapi.ChainChange, error) {

	removedHashes, addedHashes, ancestorHash, err := csm.findReorgPaths(newTipHash, currentTipHash)
	if err != nil {
		return nil, err
	}

	accumulatedDiff := utxo.NewMutableUTXODiff()

	// Disconnect the old chain down to the common ancestor by reversing
	// each block's stored diff. No validation is needed on the way down.
	for _, removedHash := range removedHashes {
		blockDiff, err := csm.utxoDiffStore.UTXODiff(csm.databaseContext, removedHash)
		if err != nil {
			return nil, err
		}
		err = accumulatedDiff.WithDiffInPlace(blockDiff.Reversed())
		if err != nil {
			return nil, err
		}
	}

	ms, err := csm.multisetStore.Get(csm.databaseContext, ancestorHash)
	if err != nil {
		return nil, err
	}

	// Connect the new chain upward from the ancestor, fully validating
	// every block that has not been connected before.
	for i, addedHash := range addedHashes {
		blockDiff, blockMultiset, err := csm.connectChainBlock(addedHash, accumulatedDiff.ToImmutable(), ms)
		if err != nil {
			return nil, csm.handleConnectFailure(err, addedHashes, i)
		}
		err = accumulatedDiff.WithDiffInPlace(blockDiff)
		if err != nil {
			return nil, err
		}
		ms = blockMultiset
	}

	err = csm.consensusStateStore.StageVirtualUTXODiff(accumulatedDiff.ToImmutable())
	if err != nil {
		return nil, err
	}
	csm.consensusStateStore.StageTip(newTipHash)

	return &externalapi.ChainChange{
		RemovedChainBlockHashes: removedHashes,
		AddedChainBlockHashes:   addedHashes,
		NewTip:                  newTipHash,
	}, nil
}

// connectChainBlock validates the block on top of the accumulated view and
// stages its diff, multiset and Connected status. Blocks that were already
// connected once reuse their stored diff and multiset without revalidation:
// the view under them is by construction the same one they were validated
// against.
func (csm *consensusStateManager) connectChainBlock(blockHash *externalapi.DomainHash,
	accumulatedDiff externalapi.UTXODiff, parentMultiset model.Multiset) (externalapi.UTXODiff, model.Multiset, error) {

	status, err := csm.blockStatusStore.Get(csm.databaseContext, blockHash)
	if err != nil {
		return nil, nil, err
	}
	if status == externalapi.StatusConnected {
		blockDiff, err := csm.utxoDiffStore.UTXODiff(csm.databaseContext, blockHash)
		if err != nil {
			return nil, nil, err
		}
		blockMultiset, err := csm.multisetStore.Get(csm.databaseContext, blockHash)
		if err != nil {
			return nil, nil, err
		}
		return blockDiff, blockMultiset, nil
	}

	node, err := csm.blockIndexStore.Get(csm.databaseContext, blockHash)
	if err != nil {
		return nil, nil, err
	}
	block, err := csm.blockStore.Block(csm.databaseContext, blockHash)
	if err != nil {
		return nil, nil, err
	}

	baseView := newDiffUTXOView(csm.virtualUTXOView(), accumulatedDiff)
	blockDiff, _, err := csm.verifyAndBuildBlockDiff(block, node.Height, baseView)
	if err != nil {
		return nil, nil, err
	}
	blockMultiset, err := csm.buildBlockMultiset(parentMultiset, blockDiff)
	if err != nil {
		return nil, nil, err
	}

	csm.utxoDiffStore.Stage(blockHash, blockDiff)
	csm.multisetStore.Stage(blockHash, blockMultiset)
	csm.blockStatusStore.Stage(blockHash, externalapi.StatusConnected)
	return blockDiff, blockMultiset, nil
}

// findReorgPaths walks both chains back to their common ancestor. The
// removed path is ordered tip-down, the added path ancestor-up, both
// excluding the ancestor itself.
func (csm *consensusStateManager) findReorgPaths(newTipHash *externalapi.DomainHash,
	currentTipHash *externalapi.DomainHash) (removedHashes []*externalapi.DomainHash,
	addedHashes []*externalapi.DomainHash, ancestorHash *externalapi.DomainHash, err error) {

	currentHash, currentNode := currentTipHash, (*model.BlockIndexNode)(nil)
	newHash, newNode := newTipHash, (*model.BlockIndexNode)(nil)
	currentNode, err = csm.blockIndexStore.Get(csm.databaseContext, currentHash)
	if err != nil {
		return nil, nil, nil, err
	}
	newNode, err = csm.blockIndexStore.Get(csm.databaseContext, newHash)
	if err != nil {
		return nil, nil, nil, err
	}

	var addedReversed []*externalapi.DomainHash
	for currentNode.Height > newNode.Height {
		removedHashes = append(removedHashes, currentHash)
		currentHash = currentNode.ParentHash
		currentNode, err = csm.blockIndexStore.Get(csm.databaseContext, currentHash)
		if err != nil {
			return nil, nil, nil, err
		}
	}
	for newNode.Height > currentNode.Height {
		addedReversed = append(addedReversed, newHash)
		newHash = newNode.ParentHash
		newNode, err = csm.blockIndexStore.Get(csm.databaseContext, newHash)
		if err != nil {
			return nil, nil, nil, err
		}
	}
	for !currentHash.Equal(newHash) {
		removedHashes = append(removedHashes, currentHash)
		currentHash = currentNode.ParentHash
		currentNode, err = csm.blockIndexStore.Get(csm.databaseContext, currentHash)
		if err != nil {
			return nil, nil, nil, err
		}

		addedReversed = append(addedReversed, newHash)
		newHash = newNode.ParentHash
		newNode, err = csm.blockIndexStore.Get(csm.databaseContext, newHash)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	addedHashes = make([]*externalapi.DomainHash, 0, len(addedReversed))
	for i := len(addedReversed) - 1; i >= 0; i-- {
		addedHashes = append(addedHashes, addedReversed[i])
	}
	return removedHashes, addedHashes, currentHash, nil
}

// handleConnectFailure unwinds staged state after a block failed to
// connect. Blocks that connected earlier in the path drop their staged
// Connected status and keep their last committed one, so a later reorg
// onto them revalidates instead of reading diffs that were never stored.
// On a rule violation the failing block and every staged descendant on
// its branch are marked invalid; the committed state is untouched either
// way, leaving the old chain active.
func (csm *consensusStateManager) handleConnectFailure(err error,
	connectPath []*externalapi.DomainHash, failedIndex int) error {

	csm.consensusStateStore.Discard()
	csm.utxoDiffStore.Discard()
	csm.multisetStore.Discard()
	csm.tipsStore.Discard()
	csm.blockStatusStore.Discard()

	var ruleErr ruleerrors.RuleError
	if errors.As(err, &ruleErr) {
		for _, hash := range connectPath[failedIndex:] {
			csm.blockStatusStore.Stage(hash, externalapi.StatusInvalid)
		}
	}
	return err
}
