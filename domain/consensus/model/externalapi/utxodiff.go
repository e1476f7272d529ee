package externalapi

// UTXOCollection represents a collection of UTXO entries, indexed by their
// outpoint
type UTXOCollection interface {
	Iterator() ReadOnlyUTXOSetIterator
	Get(outpoint *DomainOutpoint) (UTXOEntry, bool)
	Contains(outpoint *DomainOutpoint) bool
	Len() int
}

// UTXODiff represents the diff between two UTXO sets. It is the
// copy-on-write overlay the chainstate layers over its parent views:
// entries in ToAdd are fresh, entries in ToRemove are deleted, and
// everything else falls through to the parent unchanged.
type UTXODiff interface {
	ToAdd() UTXOCollection
	ToRemove() UTXOCollection
	Reversed() UTXODiff
	CloneMutable() MutableUTXODiff
}

// MutableUTXODiff represents a UTXO-Diff that can be mutated
type MutableUTXODiff interface {
	ToImmutable() UTXODiff

	ToAdd() UTXOCollection
	ToRemove() UTXOCollection

	WithDiffInPlace(other UTXODiff) error
	AddTransaction(transaction *DomainTransaction, blockHeight uint64) error
}

// ReadOnlyUTXOSetIterator is an iterator over all entries in a UTXO
// collection or set
type ReadOnlyUTXOSetIterator interface {
	Next() bool
	Get() (outpoint *DomainOutpoint, utxoEntry UTXOEntry, err error)
}
