package consensusstatemanager

import (
	"github.com/emberchain/emberd/domain/consensus/model"
	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
)

// virtualUTXOView reads straight from the consensus state store, staged
// changes included
type virtualUTXOView struct {
	databaseContext     model.DBManager
	consensusStateStore model.ConsensusStateStore
}

func (csm *consensusStateManager) virtualUTXOView() model.UTXOView {
	return &virtualUTXOView{
		databaseContext:     csm.databaseContext,
		consensusStateStore: csm.consensusStateStore,
	}
}

func (v *virtualUTXOView) UTXOByOutpoint(outpoint *externalapi.DomainOutpoint) (externalapi.UTXOEntry, bool, error) {
	return v.consensusStateStore.UTXOByOutpoint(v.databaseContext, outpoint)
}

// diffUTXOView overlays a diff on top of a base view. Entries in the
// diff's toRemove are spent, entries in toAdd are fresh and everything
// else falls through to the base view.
type diffUTXOView struct {
	base model.UTXOView
	diff externalapi.UTXODiff
}

func newDiffUTXOView(base model.UTXOView, diff externalapi.UTXODiff) model.UTXOView {
	return &diffUTXOView{base: base, diff: diff}
}

func (v *diffUTXOView) UTXOByOutpoint(outpoint *externalapi.DomainOutpoint) (externalapi.UTXOEntry, bool, error) {
	if v.diff.ToRemove().Contains(outpoint) {
		return nil, false, nil
	}
	if entry, ok := v.diff.ToAdd().Get(outpoint); ok {
		return entry, true, nil
	}
	return v.base.UTXOByOutpoint(outpoint)
}
