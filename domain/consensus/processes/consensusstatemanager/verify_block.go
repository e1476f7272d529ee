package consensusstatemanager

import (
	"github.com/emberchain/emberd/domain/consensus/model"
	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/emberchain/emberd/domain/consensus/ruleerrors"
	"github.com/emberchain/emberd/domain/consensus/utils/consensushashing"
	"github.com/emberchain/emberd/domain/consensus/utils/transactionhelper"
	"github.com/emberchain/emberd/domain/consensus/utils/utxo"
	"github.com/pkg/errors"
)

// verifyAndBuildBlockDiff validates the block's transactions against the
// given base view and builds the block's UTXO diff. Transactions see the
// outputs of earlier transactions in the same block. Nothing is staged:
// a failure anywhere leaves every store untouched.
func (csm *consensusStateManager) verifyAndBuildBlockDiff(block *externalapi.DomainBlock,
	blockHeight uint64, baseView model.UTXOView) (externalapi.UTXODiff, uint64, error) {

	povPastMedianTime := block.Header.TimeInMilliseconds
	if !block.Header.IsGenesis() {
		var err error
		povPastMedianTime, err = csm.pastMedianTimeManager.PastMedianTime(&block.Header.ParentHash)
		if err != nil {
			return nil, 0, err
		}
	}

	blockDiff := utxo.NewMutableUTXODiff()
	var totalFees uint64
	for i, transaction := range block.Transactions {
		if i == transactionhelper.CoinbaseTransactionIndex {
			// The coinbase is validated last, once the block's total fees
			// are known.
			continue
		}

		// Entries populated by earlier admission runs are resolved anew
		// against this block's own view.
		for _, input := range transaction.Inputs {
			input.UTXOEntry = nil
		}

		view := newDiffUTXOView(baseView, blockDiff.ToImmutable())
		err := csm.transactionValidator.ValidateTransactionInContextAndPopulateFee(
			transaction, view, blockHeight, povPastMedianTime)
		if err != nil {
			return nil, 0, err
		}
		err = csm.checkTransactionOutputsNotColliding(transaction, view)
		if err != nil {
			return nil, 0, err
		}
		err = blockDiff.AddTransaction(transaction, blockHeight)
		if err != nil {
			return nil, 0, err
		}
		totalFees += transaction.Fee
	}

	coinbase := block.Transactions[transactionhelper.CoinbaseTransactionIndex]
	err := csm.coinbaseManager.ValidateCoinbaseTransactionInContext(coinbase, blockHeight, totalFees)
	if err != nil {
		return nil, 0, err
	}
	view := newDiffUTXOView(baseView, blockDiff.ToImmutable())
	err = csm.checkTransactionOutputsNotColliding(coinbase, view)
	if err != nil {
		return nil, 0, err
	}
	err = blockDiff.AddTransaction(coinbase, blockHeight)
	if err != nil {
		return nil, 0, err
	}

	return blockDiff.ToImmutable(), totalFees, nil
}

// checkTransactionOutputsNotColliding rejects a transaction that would
// recreate an outpoint that is still unspent in the view
func (csm *consensusStateManager) checkTransactionOutputsNotColliding(transaction *externalapi.DomainTransaction,
	view model.UTXOView) error {

	transactionID := consensushashing.TransactionID(transaction)
	for i := range transaction.Outputs {
		outpoint := externalapi.NewDomainOutpoint(transactionID, uint32(i))
		_, ok, err := view.UTXOByOutpoint(outpoint)
		if err != nil {
			return err
		}
		if ok {
			return errors.Wrapf(ruleerrors.ErrDuplicateOutput,
				"transaction output %s already exists unspent", outpoint)
		}
	}
	return nil
}

// buildBlockMultiset applies the block's diff to the parent's multiset
func (csm *consensusStateManager) buildBlockMultiset(parentMultiset model.Multiset,
	blockDiff externalapi.UTXODiff) (model.Multiset, error) {

	ms := parentMultiset.Clone()

	toRemoveIterator := blockDiff.ToRemove().Iterator()
	for toRemoveIterator.Next() {
		outpoint, entry, err := toRemoveIterator.Get()
		if err != nil {
			return nil, err
		}
		serializedUTXO, err := utxo.SerializeUTXO(outpoint, entry)
		if err != nil {
			return nil, err
		}
		ms.Remove(serializedUTXO)
	}

	toAddIterator := blockDiff.ToAdd().Iterator()
	for toAddIterator.Next() {
		outpoint, entry, err := toAddIterator.Get()
		if err != nil {
			return nil, err
		}
		serializedUTXO, err := utxo.SerializeUTXO(outpoint, entry)
		if err != nil {
			return nil, err
		}
		ms.Add(serializedUTXO)
	}

	return ms, nil
}
