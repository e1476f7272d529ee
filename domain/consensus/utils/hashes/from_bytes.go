package hashes

import (
	"math/big"

	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
)

// FromBytes creates a DomainHash from the given byte slice
func FromBytes(hashBytes []byte) (*externalapi.DomainHash, error) {
	return externalapi.NewDomainHashFromByteSlice(hashBytes)
}

// ToBig converts a externalapi.DomainHash into a big.Int that can be used
// to perform math comparisons.
func ToBig(hash *externalapi.DomainHash) *big.Int {
	// A Hash is in little-endian, but the big package wants the bytes in
	// big-endian, so reverse them.
	buf := *hash
	blen := len(buf)
	for i := 0; i < blen/2; i++ {
		buf[i], buf[blen-1-i] = buf[blen-1-i], buf[i]
	}

	return new(big.Int).SetBytes(buf[:])
}
