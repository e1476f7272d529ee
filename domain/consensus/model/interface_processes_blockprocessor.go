package model

import "github.com/emberchain/emberd/domain/consensus/model/externalapi"

// BlockProcessor is responsible for processing incoming blocks: running
// them through the validation state machine, inserting them into the
// stores and handing them to the consensus state manager for chain
// selection.
type BlockProcessor interface {
	ValidateAndInsertBlock(block *externalapi.DomainBlock) (*externalapi.ChainChange, error)
}
