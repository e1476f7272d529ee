package utxo

import (
	"fmt"

	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

type utxoDiff struct {
	toAdd    utxoCollection
	toRemove utxoCollection
}

// NewUTXODiff creates an empty UTXODiff
func NewUTXODiff() externalapi.UTXODiff {
	return &utxoDiff{
		toAdd:    utxoCollection{},
		toRemove: utxoCollection{},
	}
}

// NewUTXODiffFromCollections returns a new UTXODiff with the given toAdd and toRemove collections
func NewUTXODiffFromCollections(toAdd, toRemove externalapi.UTXOCollection) (externalapi.UTXODiff, error) {
	add, ok := toAdd.(utxoCollection)
	if !ok {
		return nil, errors.New("toAdd is not of type utxoCollection")
	}
	remove, ok := toRemove.(utxoCollection)
	if !ok {
		return nil, errors.New("toRemove is not of type utxoCollection")
	}
	return &utxoDiff{
		toAdd:    add,
		toRemove: remove,
	}, nil
}

func (d *utxoDiff) ToAdd() externalapi.UTXOCollection {
	return d.toAdd
}

func (d *utxoDiff) ToRemove() externalapi.UTXOCollection {
	return d.toRemove
}

// Reversed returns a diff that undoes this diff: applied after it, the
// combined change is empty. Used to roll blocks back during reorgs.
func (d *utxoDiff) Reversed() externalapi.UTXODiff {
	return &utxoDiff{
		toAdd:    d.toRemove.clone(),
		toRemove: d.toAdd.clone(),
	}
}

func (d *utxoDiff) CloneMutable() externalapi.MutableUTXODiff {
	return &mutableUTXODiff{
		toAdd:    d.toAdd.clone(),
		toRemove: d.toRemove.clone(),
	}
}

func (d *utxoDiff) String() string {
	return fmt.Sprintf("toAdd: %s; toRemove: %s", d.toAdd, d.toRemove)
}

func asUTXODiff(diff externalapi.UTXODiff) (*utxoDiff, error) {
	concrete, ok := diff.(*utxoDiff)
	if !ok {
		return nil, errors.New("diff is not of type utxoDiff")
	}
	return concrete, nil
}
