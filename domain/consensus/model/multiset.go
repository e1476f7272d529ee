package model

import "github.com/emberchain/emberd/domain/consensus/model/externalapi"

// Multiset is an incremental hash commitment over an unordered set of
// serialized UTXOs. Adding and removing the same element round-trips to
// the same hash, which is what makes it usable as a chain-state
// commitment across reorgs.
type Multiset interface {
	Add(data []byte)
	Remove(data []byte)
	Hash() *externalapi.DomainHash
	Serialize() []byte
	Clone() Multiset
}
