package domain

import (
	"github.com/emberchain/emberd/domain/chainconfig"
	"github.com/emberchain/emberd/domain/consensus"
	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/emberchain/emberd/domain/miningmanager"
	"github.com/emberchain/emberd/domain/miningmanager/mempool"
	infrastructuredatabase "github.com/emberchain/emberd/infrastructure/db/database"
)

// Domain provides a reference to the domain's external apis: the consensus
// and the mining manager, kept in step with each other
type Domain interface {
	Consensus() consensus.Consensus
	MiningManager() miningmanager.MiningManager
	InsertBlock(block *externalapi.DomainBlock) (*externalapi.ChainChange, error)
}

type domain struct {
	consensus     consensus.Consensus
	miningManager miningmanager.MiningManager
}

func (d *domain) Consensus() consensus.Consensus {
	return d.consensus
}

func (d *domain) MiningManager() miningmanager.MiningManager {
	return d.miningManager
}

// InsertBlock validates and inserts the given block into the consensus,
// and aligns the transaction pool with the resulting chain change
func (d *domain) InsertBlock(block *externalapi.DomainBlock) (*externalapi.ChainChange, error) {
	chainChange, err := d.consensus.ValidateAndInsertBlock(block)
	if err != nil {
		return nil, err
	}
	if chainChange.HasChanges() {
		err = d.miningManager.HandleChainChange(chainChange)
		if err != nil {
			return nil, err
		}
	}
	return chainChange, nil
}

// New instantiates a new instance of a Domain object over the given
// database
func New(params *chainconfig.Params, mempoolConfig *mempool.Config,
	db infrastructuredatabase.Database) (Domain, error) {

	consensusFactory := consensus.NewFactory()
	consensusInstance, err := consensusFactory.NewConsensus(params, db)
	if err != nil {
		return nil, err
	}

	miningManagerFactory := miningmanager.NewFactory()
	miningManager := miningManagerFactory.NewMiningManager(
		consensusInstance, mempoolConfig, params.MaxBlockMass)

	return &domain{
		consensus:     consensusInstance,
		miningManager: miningManager,
	}, nil
}
