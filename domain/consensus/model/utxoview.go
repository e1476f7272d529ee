package model

import "github.com/emberchain/emberd/domain/consensus/model/externalapi"

// UTXOView is a read-only view of some UTXO set: the committed virtual
// set, the virtual set overlaid with a diff, or the mempool's view that
// also includes unconfirmed outputs.
type UTXOView interface {
	UTXOByOutpoint(outpoint *externalapi.DomainOutpoint) (externalapi.UTXOEntry, bool, error)
}
