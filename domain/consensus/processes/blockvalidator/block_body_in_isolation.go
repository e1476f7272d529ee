package blockvalidator

import (
	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/emberchain/emberd/domain/consensus/ruleerrors"
	"github.com/emberchain/emberd/domain/consensus/utils/consensushashing"
	"github.com/emberchain/emberd/domain/consensus/utils/merkle"
	"github.com/emberchain/emberd/domain/consensus/utils/transactionhelper"
	"github.com/pkg/errors"
)

// ValidateBodyInIsolation validates block bodies in isolation from the
// current consensus state
func (v *blockValidator) ValidateBodyInIsolation(block *externalapi.DomainBlock) error {
	err := v.checkBlockContainsAtLeastOneTransaction(block)
	if err != nil {
		return err
	}
	err = v.checkFirstBlockTransactionIsCoinbase(block)
	if err != nil {
		return err
	}
	err = v.checkBlockContainsOnlyOneCoinbase(block)
	if err != nil {
		return err
	}
	err = v.checkBlockHashMerkleRoot(block)
	if err != nil {
		return err
	}
	err = v.validateBlockTransactionsInIsolation(block)
	if err != nil {
		return err
	}
	err = v.checkBlockMass(block)
	if err != nil {
		return err
	}
	err = v.checkBlockDuplicateTransactions(block)
	if err != nil {
		return err
	}
	return v.checkBlockDoubleSpends(block)
}

func (v *blockValidator) checkBlockContainsAtLeastOneTransaction(block *externalapi.DomainBlock) error {
	if len(block.Transactions) == 0 {
		return errors.Wrapf(ruleerrors.ErrNoTransactions,
			"block does not contain any transactions")
	}
	return nil
}

func (v *blockValidator) checkFirstBlockTransactionIsCoinbase(block *externalapi.DomainBlock) error {
	if !transactionhelper.IsCoinBase(block.Transactions[transactionhelper.CoinbaseTransactionIndex]) {
		return errors.Wrapf(ruleerrors.ErrFirstTxNotCoinbase,
			"first transaction in block is not a coinbase")
	}
	return nil
}

func (v *blockValidator) checkBlockContainsOnlyOneCoinbase(block *externalapi.DomainBlock) error {
	for i, tx := range block.Transactions[transactionhelper.CoinbaseTransactionIndex+1:] {
		if transactionhelper.IsCoinBase(tx) {
			return errors.Wrapf(ruleerrors.ErrMultipleCoinbases,
				"block contains second coinbase at index %d", i+1)
		}
	}
	return nil
}

func (v *blockValidator) checkBlockHashMerkleRoot(block *externalapi.DomainBlock) error {
	calculatedHashMerkleRoot := merkle.CalculateHashMerkleRoot(block.Transactions)
	if !block.Header.HashMerkleRoot.Equal(calculatedHashMerkleRoot) {
		return errors.Wrapf(ruleerrors.ErrBadMerkleRoot,
			"block hash merkle root is invalid - block header indicates %s, but calculated value is %s",
			&block.Header.HashMerkleRoot, calculatedHashMerkleRoot)
	}
	return nil
}

func (v *blockValidator) validateBlockTransactionsInIsolation(block *externalapi.DomainBlock) error {
	for _, tx := range block.Transactions {
		err := v.transactionValidator.ValidateTransactionInIsolation(tx)
		if err != nil {
			return errors.Wrapf(err, "transaction %s failed isolation check",
				consensushashing.TransactionID(tx))
		}
	}
	return nil
}

func (v *blockValidator) checkBlockMass(block *externalapi.DomainBlock) error {
	var totalMass uint64
	for _, tx := range block.Transactions {
		// Mass was populated by the per-transaction isolation checks.
		totalMass += tx.Mass
		if totalMass > v.maxBlockMass {
			return errors.Wrapf(ruleerrors.ErrBlockMassTooHigh,
				"block exceeded the mass limit of %d", v.maxBlockMass)
		}
	}
	return nil
}

func (v *blockValidator) checkBlockDuplicateTransactions(block *externalapi.DomainBlock) error {
	existingTxIDs := make(map[externalapi.DomainTransactionID]struct{}, len(block.Transactions))
	for _, tx := range block.Transactions {
		id := *consensushashing.TransactionID(tx)
		if _, exists := existingTxIDs[id]; exists {
			return errors.Wrapf(ruleerrors.ErrDuplicateTx,
				"block contains duplicate transaction %s", id)
		}
		existingTxIDs[id] = struct{}{}
	}
	return nil
}

func (v *blockValidator) checkBlockDoubleSpends(block *externalapi.DomainBlock) error {
	usedOutpoints := make(map[externalapi.DomainOutpoint]*externalapi.DomainTransactionID)
	for _, tx := range block.Transactions {
		txID := consensushashing.TransactionID(tx)
		for _, input := range tx.Inputs {
			if spendingTxID, exists := usedOutpoints[input.PreviousOutpoint]; exists {
				return errors.Wrapf(ruleerrors.ErrDoubleSpendInSameBlock,
					"transaction %s spends outpoint %s that was already spent by transaction %s in this block",
					txID, input.PreviousOutpoint, spendingTxID)
			}
			usedOutpoints[input.PreviousOutpoint] = txID
		}
	}
	return nil
}
