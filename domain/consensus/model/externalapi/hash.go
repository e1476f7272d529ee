package externalapi

import (
	"encoding/hex"

	"github.com/pkg/errors"
)

// DomainHashSize of array used to store hashes.
const DomainHashSize = 32

// DomainHash is the domain representation of a hash
type DomainHash [DomainHashSize]byte

// ZeroHash is the hash of all zeroes. It is the declared parent of a
// genesis block.
var ZeroHash = DomainHash{}

// NewDomainHashFromByteSlice constructs a DomainHash out of a byte slice.
// Returns an error if the length of the byte slice is not exactly
// DomainHashSize.
func NewDomainHashFromByteSlice(hashBytes []byte) (*DomainHash, error) {
	if len(hashBytes) != DomainHashSize {
		return nil, errors.Errorf("invalid hash size. Want: %d, got: %d",
			DomainHashSize, len(hashBytes))
	}
	var domainHash DomainHash
	copy(domainHash[:], hashBytes)
	return &domainHash, nil
}

// NewDomainHashFromString constructs a DomainHash out of a hex-encoded
// string.
func NewDomainHashFromString(hashString string) (*DomainHash, error) {
	expectedLength := DomainHashSize * 2
	if len(hashString) != expectedLength {
		return nil, errors.Errorf("hash string length is %d, while it should be %d",
			len(hashString), expectedLength)
	}

	hashBytes, err := hex.DecodeString(hashString)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return NewDomainHashFromByteSlice(hashBytes)
}

// String returns the Hash as the hexadecimal string of the hash.
func (hash DomainHash) String() string {
	return hex.EncodeToString(hash[:])
}

// Equal returns whether hash equals to other
func (hash *DomainHash) Equal(other *DomainHash) bool {
	if hash == nil || other == nil {
		return hash == other
	}

	return *hash == *other
}

// Less returns true if hash is less than other
func (hash *DomainHash) Less(other *DomainHash) bool {
	for i := range hash {
		if hash[i] != other[i] {
			return hash[i] < other[i]
		}
	}
	return false
}

// Clone clones the hash
func (hash *DomainHash) Clone() *DomainHash {
	hashClone := *hash
	return &hashClone
}

// CloneHashes returns a clone of the given hashes slice
func CloneHashes(hashes []*DomainHash) []*DomainHash {
	clone := make([]*DomainHash, len(hashes))
	for i, hash := range hashes {
		clone[i] = hash.Clone()
	}
	return clone
}

// HashesEqual returns whether the given hash slices are equal.
func HashesEqual(a, b []*DomainHash) bool {
	if len(a) != len(b) {
		return false
	}

	for i, hash := range a {
		if !hash.Equal(b[i]) {
			return false
		}
	}
	return true
}
