package blockprocessor

import (
	"math/big"

	"github.com/emberchain/emberd/domain/consensus/model"
	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/emberchain/emberd/domain/consensus/ruleerrors"
	"github.com/emberchain/emberd/domain/consensus/utils/consensushashing"
	"github.com/emberchain/emberd/domain/consensus/utils/pow"
	"github.com/pkg/errors"
)

// ValidateAndInsertBlock validates the given block and, if valid, inserts
// it into the store and rolls the consensus state forward. Insertion is
// all-or-nothing: either the block and every state change it implies are
// committed atomically, or nothing is.
func (bp *blockProcessor) ValidateAndInsertBlock(block *externalapi.DomainBlock) (*externalapi.ChainChange, error) {
	if bp.fatalError != nil {
		return nil, bp.fatalError
	}

	chainChange, err := bp.validateAndInsertBlock(block)
	if err != nil {
		return nil, err
	}

	// Blocks that were waiting on this one can now be processed.
	blockHash := consensushashing.BlockHash(block)
	pendingChainChange := bp.processPendingChildren(blockHash)
	if pendingChainChange != nil && pendingChainChange.HasChanges() {
		return pendingChainChange, nil
	}
	return chainChange, nil
}

func (bp *blockProcessor) validateAndInsertBlock(block *externalapi.DomainBlock) (*externalapi.ChainChange, error) {
	blockHash := consensushashing.BlockHash(block)

	err := bp.checkBlockStatus(blockHash)
	if err != nil {
		return nil, err
	}

	isGenesis := blockHash.Equal(bp.genesisHash)
	if !isGenesis {
		err = bp.blockValidator.ValidateHeaderInIsolation(block.Header)
		if err != nil {
			return nil, bp.markInvalid(blockHash, err)
		}
	}
	bp.blockStatusStore.Stage(blockHash, externalapi.StatusHeaderChecked)

	err = bp.blockValidator.ValidateBodyInIsolation(block)
	if err != nil {
		return nil, bp.markInvalid(blockHash, err)
	}
	bp.blockStatusStore.Stage(blockHash, externalapi.StatusStructurallyChecked)

	var node *model.BlockIndexNode
	if isGenesis {
		node = &model.BlockIndexNode{
			ParentHash: &block.Header.ParentHash,
			Height:     0,
			ChainWork:  pow.CalcWork(block.Header.Bits),
		}
	} else {
		parentHash := block.Header.ParentHash
		hasParent, err := bp.blockStore.HasBlock(bp.databaseContext, &parentHash)
		if err != nil {
			bp.discardAllChanges()
			return nil, err
		}
		if !hasParent {
			bp.discardAllChanges()
			bp.addPendingBlock(block)
			return nil, ruleerrors.NewErrMissingParent(&parentHash)
		}

		err = bp.blockValidator.ValidateHeaderInContext(block.Header)
		if err != nil {
			return nil, bp.markInvalid(blockHash, err)
		}

		parentNode, err := bp.blockIndexStore.Get(bp.databaseContext, &parentHash)
		if err != nil {
			bp.discardAllChanges()
			return nil, err
		}
		node = &model.BlockIndexNode{
			ParentHash: &parentHash,
			Height:     parentNode.Height + 1,
			ChainWork:  new(big.Int).Add(parentNode.ChainWork, pow.CalcWork(block.Header.Bits)),
		}
	}
	bp.blockStatusStore.Stage(blockHash, externalapi.StatusContextuallyValid)
	bp.blockStore.Stage(blockHash, block)
	bp.blockIndexStore.Stage(blockHash, node)

	chainChange, err := bp.consensusStateManager.AddBlock(blockHash)
	if err != nil {
		var ruleErr ruleerrors.RuleError
		if errors.As(err, &ruleErr) {
			// The state manager already unwound its staging and marked
			// the offending blocks invalid. Persist the statuses only.
			bp.blockStore.Discard()
			bp.blockIndexStore.Discard()
			commitErr := bp.commitAllChanges()
			if commitErr != nil {
				return nil, commitErr
			}
			return nil, err
		}
		bp.discardAllChanges()
		return nil, err
	}

	err = bp.commitAllChanges()
	if err != nil {
		return nil, err
	}

	log.Debugf("Accepted block %s at height %d, new tip %s",
		blockHash, node.Height, chainChange.NewTip)
	return chainChange, nil
}

// checkBlockStatus short-circuits blocks that were fully processed before
func (bp *blockProcessor) checkBlockStatus(blockHash *externalapi.DomainHash) error {
	exists, err := bp.blockStatusStore.Exists(bp.databaseContext, blockHash)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	status, err := bp.blockStatusStore.Get(bp.databaseContext, blockHash)
	if err != nil {
		return err
	}
	if status == externalapi.StatusInvalid {
		return errors.Wrapf(ruleerrors.ErrKnownInvalid, "block %s is a known invalid block", blockHash)
	}
	return errors.Wrapf(ruleerrors.ErrDuplicateBlock, "block %s already exists", blockHash)
}

// markInvalid persists the block's invalid status, discarding everything
// else that was staged for it, and returns the original validation error
func (bp *blockProcessor) markInvalid(blockHash *externalapi.DomainHash, validationErr error) error {
	bp.discardAllChanges()
	bp.blockStatusStore.Stage(blockHash, externalapi.StatusInvalid)
	err := bp.commitAllChanges()
	if err != nil {
		return err
	}
	log.Infof("Rejected block %s: %s", blockHash, validationErr)
	return validationErr
}

func (bp *blockProcessor) discardAllChanges() {
	for _, store := range bp.stores {
		store.Discard()
	}
}

// commitAllChanges flushes the staging of every store into a single
// database transaction. If the transaction itself fails to commit, the
// staging is already consumed and cannot be retried, so the processor
// latches the error and refuses further work.
func (bp *blockProcessor) commitAllChanges() error {
	dbTx, err := bp.databaseContext.Begin()
	if err != nil {
		bp.discardAllChanges()
		return err
	}
	defer dbTx.RollbackUnlessClosed()

	for _, store := range bp.stores {
		err = store.Commit(dbTx)
		if err != nil {
			bp.discardAllChanges()
			return err
		}
	}

	err = dbTx.Commit()
	if err != nil {
		bp.fatalError = errors.Wrap(err, "failed to commit the consensus state, refusing further blocks")
		return bp.fatalError
	}
	return nil
}

// addPendingBlock parks a block until its missing parent shows up
func (bp *blockProcessor) addPendingBlock(block *externalapi.DomainBlock) {
	parentHash := block.Header.ParentHash

	for bp.pendingCount >= maxPendingBlocks && len(bp.pendingOrder) > 0 {
		evictedParent := bp.pendingOrder[0]
		bp.pendingOrder = bp.pendingOrder[1:]
		evicted, ok := bp.pendingBlocks[evictedParent]
		if !ok {
			continue
		}
		delete(bp.pendingBlocks, evictedParent)
		bp.pendingCount -= len(evicted)
		log.Debugf("Evicted %d pending blocks waiting for parent %s", len(evicted), &evictedParent)
	}

	if _, ok := bp.pendingBlocks[parentHash]; !ok {
		bp.pendingOrder = append(bp.pendingOrder, parentHash)
	}
	bp.pendingBlocks[parentHash] = append(bp.pendingBlocks[parentHash], block)
	bp.pendingCount++
	log.Debugf("Block %s is pending on missing parent %s",
		consensushashing.BlockHash(block), &parentHash)
}

// processPendingChildren processes, depth first, every parked block whose
// wait ended with the given block's insertion. Returns the last chain
// change a descendant caused, if any.
func (bp *blockProcessor) processPendingChildren(blockHash *externalapi.DomainHash) *externalapi.ChainChange {
	children, ok := bp.pendingBlocks[*blockHash]
	if !ok {
		return nil
	}
	delete(bp.pendingBlocks, *blockHash)
	bp.pendingCount -= len(children)

	var lastChainChange *externalapi.ChainChange
	for _, child := range children {
		childHash := consensushashing.BlockHash(child)
		chainChange, err := bp.validateAndInsertBlock(child)
		if err != nil {
			log.Infof("Failed to process pending block %s: %s", childHash, err)
			continue
		}
		if chainChange != nil && chainChange.HasChanges() {
			lastChainChange = chainChange
		}
		if descendantChange := bp.processPendingChildren(childHash); descendantChange != nil {
			lastChainChange = descendantChange
		}
	}
	return lastChainChange
}
