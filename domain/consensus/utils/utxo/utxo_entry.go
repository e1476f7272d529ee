package utxo

import (
	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
)

type utxoEntry struct {
	amount          uint64
	scriptPublicKey []byte
	blockHeight     uint64
	isCoinbase      bool
}

// NewUTXOEntry creates a new utxoEntry representing the given txOut
func NewUTXOEntry(amount uint64, scriptPublicKey []byte, isCoinbase bool, blockHeight uint64) externalapi.UTXOEntry {
	scriptPublicKeyClone := make([]byte, len(scriptPublicKey))
	copy(scriptPublicKeyClone, scriptPublicKey)
	return &utxoEntry{
		amount:          amount,
		scriptPublicKey: scriptPublicKeyClone,
		blockHeight:     blockHeight,
		isCoinbase:      isCoinbase,
	}
}

func (u *utxoEntry) Amount() uint64 {
	return u.amount
}

func (u *utxoEntry) ScriptPublicKey() []byte {
	clone := make([]byte, len(u.scriptPublicKey))
	copy(clone, u.scriptPublicKey)
	return clone
}

func (u *utxoEntry) BlockHeight() uint64 {
	return u.blockHeight
}

func (u *utxoEntry) IsCoinbase() bool {
	return u.isCoinbase
}

// Equal returns whether entry equals to other
func (u *utxoEntry) Equal(other externalapi.UTXOEntry) bool {
	if u == nil || other == nil {
		return externalapi.UTXOEntry(u) == other
	}

	if u.Amount() != other.Amount() {
		return false
	}

	if u.BlockHeight() != other.BlockHeight() {
		return false
	}

	if u.IsCoinbase() != other.IsCoinbase() {
		return false
	}

	otherScript := other.ScriptPublicKey()
	if len(u.scriptPublicKey) != len(otherScript) {
		return false
	}
	for i, b := range u.scriptPublicKey {
		if b != otherScript[i] {
			return false
		}
	}
	return true
}
