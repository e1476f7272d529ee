package utxo

import (
	"strconv"
	"strings"

	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
)

type utxoCollection map[externalapi.DomainOutpoint]externalapi.UTXOEntry

// NewUTXOCollection constructs a UTXO collection from the given map
func NewUTXOCollection(utxoMap map[externalapi.DomainOutpoint]externalapi.UTXOEntry) externalapi.UTXOCollection {
	collection := make(utxoCollection, len(utxoMap))
	for outpoint, entry := range utxoMap {
		collection[outpoint] = entry
	}
	return collection
}

// Get returns the UTXOEntry represented by provided outpoint,
// and a boolean value indicating if said UTXOEntry is in the set or not
func (uc utxoCollection) Get(outpoint *externalapi.DomainOutpoint) (externalapi.UTXOEntry, bool) {
	entry, ok := uc[*outpoint]
	return entry, ok
}

// Contains returns a boolean value indicating whether a UTXO entry is in the set
func (uc utxoCollection) Contains(outpoint *externalapi.DomainOutpoint) bool {
	_, ok := uc[*outpoint]
	return ok
}

// Len returns the number of entries in the collection
func (uc utxoCollection) Len() int {
	return len(uc)
}

// add adds a new UTXO entry to this collection
func (uc utxoCollection) add(outpoint *externalapi.DomainOutpoint, entry externalapi.UTXOEntry) {
	uc[*outpoint] = entry
}

// remove removes a UTXO entry from this collection if it exists
func (uc utxoCollection) remove(outpoint *externalapi.DomainOutpoint) {
	delete(uc, *outpoint)
}

// containsWithEqualEntry returns whether the outpoint is in the collection
// mapped to an entry equal to the given one
func (uc utxoCollection) containsWithEqualEntry(outpoint *externalapi.DomainOutpoint, entry externalapi.UTXOEntry) bool {
	collectionEntry, ok := uc.Get(outpoint)
	return ok && collectionEntry.Equal(entry)
}

func (uc utxoCollection) clone() utxoCollection {
	clone := make(utxoCollection, len(uc))
	for outpoint, entry := range uc {
		clone[outpoint] = entry
	}
	return clone
}

func (uc utxoCollection) String() string {
	utxoStrings := make([]string, 0, len(uc))
	iterator := uc.Iterator()
	for iterator.Next() {
		outpoint, entry, _ := iterator.Get()
		utxoStrings = append(utxoStrings, outpoint.String()+" => "+amountString(entry))
	}
	return "[ " + strings.Join(utxoStrings, ", ") + " ]"
}

func amountString(entry externalapi.UTXOEntry) string {
	if entry == nil {
		return "<nil>"
	}
	return strconv.FormatUint(entry.Amount(), 10)
}
