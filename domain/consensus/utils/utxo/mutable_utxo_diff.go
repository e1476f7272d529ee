package utxo

import (
	"fmt"

	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/emberchain/emberd/domain/consensus/utils/consensushashing"
	"github.com/emberchain/emberd/domain/consensus/ruleerrors"
	"github.com/pkg/errors"
)

type mutableUTXODiff struct {
	toAdd    utxoCollection
	toRemove utxoCollection
}

// NewMutableUTXODiff creates an empty mutable UTXO-Diff
func NewMutableUTXODiff() externalapi.MutableUTXODiff {
	return newMutableUTXODiff()
}

func newMutableUTXODiff() *mutableUTXODiff {
	return &mutableUTXODiff{
		toAdd:    utxoCollection{},
		toRemove: utxoCollection{},
	}
}

func (mud *mutableUTXODiff) ToImmutable() externalapi.UTXODiff {
	return &utxoDiff{
		toAdd:    mud.toAdd.clone(),
		toRemove: mud.toRemove.clone(),
	}
}

func (mud *mutableUTXODiff) ToAdd() externalapi.UTXOCollection {
	return mud.toAdd
}

func (mud *mutableUTXODiff) ToRemove() externalapi.UTXOCollection {
	return mud.toRemove
}

// WithDiffInPlace applies other on top of this diff, so that the result
// describes the combined change of applying this diff and then other.
func (mud *mutableUTXODiff) WithDiffInPlace(other externalapi.UTXODiff) error {
	otherDiff, err := asUTXODiff(other)
	if err != nil {
		return err
	}

	for outpoint, entry := range otherDiff.toRemove {
		outpoint := outpoint
		if mud.toAdd.containsWithEqualEntry(&outpoint, entry) {
			// Removing an output this diff has added cancels out.
			mud.toAdd.remove(&outpoint)
			continue
		}
		if mud.toRemove.Contains(&outpoint) {
			return errors.Errorf(
				"withDiffInPlace: outpoint %s both in this.toRemove and in other.toRemove", outpoint)
		}
		mud.toRemove.add(&outpoint, entry)
	}

	for outpoint, entry := range otherDiff.toAdd {
		outpoint := outpoint
		if removedEntry, ok := mud.toRemove.Get(&outpoint); ok {
			// Re-adding an output this diff has removed cancels out when
			// the entries match. Otherwise the net effect is a replacement.
			mud.toRemove.remove(&outpoint)
			if !removedEntry.Equal(entry) {
				mud.toAdd.add(&outpoint, entry)
			}
			continue
		}
		if mud.toAdd.Contains(&outpoint) {
			return errors.Wrapf(ruleerrors.ErrDuplicateOutput,
				"withDiffInPlace: outpoint %s both in this.toAdd and in other.toAdd", outpoint)
		}
		mud.toAdd.add(&outpoint, entry)
	}

	return nil
}

// AddTransaction modifies the diff so that it reflects the effect of the
// given transaction: spent inputs become removed entries and created
// outputs become added entries at the given height. The transaction's
// inputs must have their UTXO entries populated.
func (mud *mutableUTXODiff) AddTransaction(transaction *externalapi.DomainTransaction, blockHeight uint64) error {
	for _, input := range transaction.Inputs {
		err := mud.removeEntry(&input.PreviousOutpoint, input.UTXOEntry)
		if err != nil {
			return err
		}
	}

	isCoinbase := len(transaction.Inputs) == 0
	transactionID := *consensushashing.TransactionID(transaction)
	for i, output := range transaction.Outputs {
		outpoint := &externalapi.DomainOutpoint{
			TransactionID: transactionID,
			Index:         uint32(i),
		}
		entry := NewUTXOEntry(output.Value, output.ScriptPublicKey, isCoinbase, blockHeight)
		err := mud.addEntry(outpoint, entry)
		if err != nil {
			return err
		}
	}

	return nil
}

func (mud *mutableUTXODiff) addEntry(outpoint *externalapi.DomainOutpoint, entry externalapi.UTXOEntry) error {
	if mud.toRemove.containsWithEqualEntry(outpoint, entry) {
		mud.toRemove.remove(outpoint)
		return nil
	}
	if mud.toAdd.Contains(outpoint) {
		return errors.Wrapf(ruleerrors.ErrDuplicateOutput, "addEntry: transaction output %s already exists", outpoint)
	}
	mud.toAdd.add(outpoint, entry)
	return nil
}

func (mud *mutableUTXODiff) removeEntry(outpoint *externalapi.DomainOutpoint, entry externalapi.UTXOEntry) error {
	if entry == nil {
		return errors.Errorf("removeEntry: outpoint %s has no populated UTXO entry", outpoint)
	}
	if mud.toAdd.containsWithEqualEntry(outpoint, entry) {
		mud.toAdd.remove(outpoint)
		return nil
	}
	if mud.toRemove.Contains(outpoint) {
		return errors.Errorf("removeEntry: transaction output %s is already spent", outpoint)
	}
	mud.toRemove.add(outpoint, entry)
	return nil
}

func (mud *mutableUTXODiff) clone() *mutableUTXODiff {
	return &mutableUTXODiff{
		toAdd:    mud.toAdd.clone(),
		toRemove: mud.toRemove.clone(),
	}
}

func (mud *mutableUTXODiff) String() string {
	return fmt.Sprintf("toAdd: %s; toRemove: %s", mud.toAdd, mud.toRemove)
}
