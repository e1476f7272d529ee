package externalapi

// UTXOEntry houses details about an individual transaction output in a
// UTXO set such as whether or not it was contained in a coinbase tx, the
// height of the block that accepted the tx, its public key script, and how
// much it pays.
type UTXOEntry interface {
	Amount() uint64          // UTXO amount in spark
	ScriptPublicKey() []byte // The locking script for the output.
	BlockHeight() uint64     // Height of the block accepting the tx.
	IsCoinbase() bool
	Equal(other UTXOEntry) bool
}

// OutpointAndUTXOEntryPair is an outpoint along with its
// respective UTXO entry
type OutpointAndUTXOEntryPair struct {
	Outpoint  *DomainOutpoint
	UTXOEntry UTXOEntry
}
