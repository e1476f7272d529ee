package consensusstatestore

import (
	"github.com/emberchain/emberd/domain/consensus/model"
	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/emberchain/emberd/domain/consensus/utils/utxo"
	"github.com/emberchain/emberd/infrastructure/db/database"
)

var utxoSetBucket = database.MakeBucket([]byte("virtual-utxo-set"))
var tipKey = database.MakeBucket(nil).Key([]byte("virtual-tip"))

// consensusStateStore represents a store for the current consensus state:
// the virtual UTXO set and the active tip marker. Staged changes to both
// are committed within the same database transaction, which is what makes
// a chain mutation land atomically.
type consensusStateStore struct {
	stagedVirtualUTXODiff externalapi.MutableUTXODiff
	stagedTip             *externalapi.DomainHash
}

// New instantiates a new ConsensusStateStore
func New() model.ConsensusStateStore {
	return &consensusStateStore{
		stagedVirtualUTXODiff: utxo.NewMutableUTXODiff(),
	}
}

// StageVirtualUTXODiff stages the given diff on top of any already-staged
// changes to the virtual UTXO set
func (css *consensusStateStore) StageVirtualUTXODiff(virtualUTXODiff externalapi.UTXODiff) error {
	return css.stagedVirtualUTXODiff.WithDiffInPlace(virtualUTXODiff)
}

// StageTip stages the given hash as the active tip
func (css *consensusStateStore) StageTip(tipHash *externalapi.DomainHash) {
	css.stagedTip = tipHash.Clone()
}

func (css *consensusStateStore) IsStaged() bool {
	return css.stagedTip != nil ||
		css.stagedVirtualUTXODiff.ToAdd().Len() != 0 ||
		css.stagedVirtualUTXODiff.ToRemove().Len() != 0
}

func (css *consensusStateStore) Discard() {
	css.stagedVirtualUTXODiff = utxo.NewMutableUTXODiff()
	css.stagedTip = nil
}

func (css *consensusStateStore) Commit(dbTx model.DBTransaction) error {
	toRemoveIterator := css.stagedVirtualUTXODiff.ToRemove().Iterator()
	for toRemoveIterator.Next() {
		outpoint, _, err := toRemoveIterator.Get()
		if err != nil {
			return err
		}
		key, err := utxoKey(outpoint)
		if err != nil {
			return err
		}
		err = dbTx.Delete(key)
		if err != nil {
			return err
		}
	}

	toAddIterator := css.stagedVirtualUTXODiff.ToAdd().Iterator()
	for toAddIterator.Next() {
		outpoint, entry, err := toAddIterator.Get()
		if err != nil {
			return err
		}
		key, err := utxoKey(outpoint)
		if err != nil {
			return err
		}
		entryBytes, err := utxo.SerializeUTXOEntry(entry)
		if err != nil {
			return err
		}
		err = dbTx.Put(key, entryBytes)
		if err != nil {
			return err
		}
	}

	if css.stagedTip != nil {
		err := dbTx.Put(tipKey.Bytes(), css.stagedTip[:])
		if err != nil {
			return err
		}
	}

	css.Discard()
	return nil
}

// Tip returns the active tip. It returns a not-found error if no tip was
// ever committed, which happens only before the genesis block is inserted.
func (css *consensusStateStore) Tip(dbContext model.DBContext) (*externalapi.DomainHash, error) {
	if css.stagedTip != nil {
		return css.stagedTip.Clone(), nil
	}

	tipBytes, err := dbContext.Get(tipKey.Bytes())
	if err != nil {
		return nil, err
	}

	return externalapi.NewDomainHashFromByteSlice(tipBytes)
}

// UTXOByOutpoint returns the virtual UTXO entry for the given outpoint,
// staged changes included
func (css *consensusStateStore) UTXOByOutpoint(dbContext model.DBContext, outpoint *externalapi.DomainOutpoint) (
	externalapi.UTXOEntry, bool, error) {

	if css.stagedVirtualUTXODiff.ToRemove().Contains(outpoint) {
		return nil, false, nil
	}
	if entry, ok := css.stagedVirtualUTXODiff.ToAdd().Get(outpoint); ok {
		return entry, true, nil
	}

	key, err := utxoKey(outpoint)
	if err != nil {
		return nil, false, err
	}
	entryBytes, err := dbContext.Get(key)
	if database.IsNotFoundError(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	entry, err := utxo.DeserializeUTXOEntry(entryBytes)
	if err != nil {
		return nil, false, err
	}
	return entry, true, nil
}

func utxoKey(outpoint *externalapi.DomainOutpoint) ([]byte, error) {
	serializedOutpoint, err := utxo.SerializeOutpoint(outpoint)
	if err != nil {
		return nil, err
	}
	return utxoSetBucket.Key(serializedOutpoint).Bytes(), nil
}
