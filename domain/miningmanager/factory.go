package miningmanager

import (
	"github.com/emberchain/emberd/domain/miningmanager/blocktemplatebuilder"
	"github.com/emberchain/emberd/domain/miningmanager/mempool"
	miningmanagermodel "github.com/emberchain/emberd/domain/miningmanager/model"
)

// Factory instantiates new mining managers
type Factory interface {
	NewMiningManager(consensus miningmanagermodel.Consensus, config *mempool.Config,
		maximumBlockMass uint64) MiningManager
}

type factory struct{}

// NewMiningManager instantiates a new mining manager
func (f *factory) NewMiningManager(consensus miningmanagermodel.Consensus, config *mempool.Config,
	maximumBlockMass uint64) MiningManager {

	mempoolInstance := mempool.New(config, consensus)
	blockTemplateBuilder := blocktemplatebuilder.New(consensus, mempoolInstance, maximumBlockMass)

	return &miningManager{
		consensus:            consensus,
		mempool:              mempoolInstance,
		blockTemplateBuilder: blockTemplateBuilder,
	}
}

// NewFactory creates a new mining manager factory
func NewFactory() Factory {
	return &factory{}
}
