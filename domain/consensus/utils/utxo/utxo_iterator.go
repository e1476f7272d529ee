package utxo

import (
	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

type utxoCollectionIterator struct {
	index int
	pairs []externalapi.OutpointAndUTXOEntryPair
}

// Iterator returns an iterator over a snapshot of the collection. Mutating
// the collection after the iterator was acquired does not affect it.
func (uc utxoCollection) Iterator() externalapi.ReadOnlyUTXOSetIterator {
	pairs := make([]externalapi.OutpointAndUTXOEntryPair, 0, len(uc))
	for outpoint, entry := range uc {
		outpointClone := outpoint
		pairs = append(pairs, externalapi.OutpointAndUTXOEntryPair{
			Outpoint:  &outpointClone,
			UTXOEntry: entry,
		})
	}
	return &utxoCollectionIterator{index: -1, pairs: pairs}
}

func (uci *utxoCollectionIterator) Next() bool {
	uci.index++
	return uci.index < len(uci.pairs)
}

func (uci *utxoCollectionIterator) Get() (outpoint *externalapi.DomainOutpoint, utxoEntry externalapi.UTXOEntry, err error) {
	if uci.index < 0 || uci.index >= len(uci.pairs) {
		return nil, nil, errors.New("utxo iterator is out of bounds")
	}
	pair := uci.pairs[uci.index]
	return pair.Outpoint, pair.UTXOEntry, nil
}
