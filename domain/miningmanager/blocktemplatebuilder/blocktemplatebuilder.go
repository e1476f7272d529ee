package blocktemplatebuilder

import (
	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	miningmanagermodel "github.com/emberchain/emberd/domain/miningmanager/model"
)

// coinbaseMassReserve is the block mass set aside for the coinbase
// transaction the consensus builds on top of the selected transactions.
const coinbaseMassReserve = 1000

// blockTemplateBuilder creates block templates for a miner to consume
type blockTemplateBuilder struct {
	consensus        miningmanagermodel.Consensus
	mempool          miningmanagermodel.Mempool
	maximumBlockMass uint64
}

// New creates a new blockTemplateBuilder
func New(consensus miningmanagermodel.Consensus, mempool miningmanagermodel.Mempool,
	maximumBlockMass uint64) miningmanagermodel.BlockTemplateBuilder {

	return &blockTemplateBuilder{
		consensus:        consensus,
		mempool:          mempool,
		maximumBlockMass: maximumBlockMass,
	}
}

// GetBlockTemplate creates a block template over the current tip: pooled
// transactions are taken from the highest fee rate down until the block
// mass budget is exhausted, and the consensus tops them with a coinbase,
// merkle commitment, timestamp and difficulty. The returned block is valid
// in everything but proof of work.
func (btb *blockTemplateBuilder) GetBlockTemplate(
	coinbaseData *externalapi.DomainCoinbaseData) (*externalapi.DomainBlock, error) {

	candidates := btb.mempool.BlockCandidateTransactions()

	massBudget := btb.maximumBlockMass - coinbaseMassReserve
	var selected []*externalapi.DomainTransaction
	var totalMass uint64
	for _, candidate := range candidates {
		if totalMass+candidate.Mass > massBudget {
			continue
		}
		totalMass += candidate.Mass
		selected = append(selected, candidate)
	}

	return btb.consensus.BuildBlock(coinbaseData, selected)
}
