package chainconfig

import (
	"math/big"
	"time"

	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/emberchain/emberd/domain/consensus/utils/constants"
	"github.com/emberchain/emberd/domain/consensus/utils/pow"
)

// Params defines an Ember network by its parameters. These parameters may be
// used by applications to differentiate networks as well as addresses
// and keys for one network from those intended for use on another network.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// GenesisBlock defines the first block of the chain.
	GenesisBlock *externalapi.DomainBlock

	// GenesisHash is the starting block hash.
	GenesisHash *externalapi.DomainHash

	// PowMax defines the highest allowed proof of work value for a block
	// as a uint256.
	PowMax *big.Int

	// PowMaxBits is PowMax in compact representation. It is also the
	// difficulty of the genesis block.
	PowMaxBits uint32

	// SkipProofOfWork defines whether proof of work should be checked.
	SkipProofOfWork bool

	// BlockCoinbaseMaturity is the number of blocks required before newly
	// mined coins can be spent.
	BlockCoinbaseMaturity uint64

	// SubsidyHalvingInterval is the interval of blocks at which the block
	// subsidy halves.
	SubsidyHalvingInterval uint64

	// BaseSubsidy is the starting subsidy amount for mined blocks, in
	// spark.
	BaseSubsidy uint64

	// TargetTimePerBlock is the desired amount of time to generate each
	// block.
	TargetTimePerBlock time.Duration

	// DifficultyAdjustmentWindowSize is the size of the window of previous
	// blocks the required difficulty of a block is derived from.
	DifficultyAdjustmentWindowSize int

	// MedianTimeWindowSize is the size of the window of previous blocks
	// a block's timestamp must exceed the median of.
	MedianTimeWindowSize int

	// MaxTimeOffset is the maximum amount a block's timestamp may be ahead
	// of the current time.
	MaxTimeOffset time.Duration

	// MaxBlockMass is the maximum mass a block is allowed to carry.
	MaxBlockMass uint64
}

const (
	mainnetPowMaxBits = uint32(0x1e00ffff)
	simnetPowMaxBits  = uint32(0x207fffff)
)

// MainnetParams defines the network parameters for the main Ember network.
var MainnetParams = Params{
	Name: "ember-mainnet",

	GenesisBlock: &genesisBlock,
	GenesisHash:  &genesisHash,

	PowMax:          pow.CompactToBig(mainnetPowMaxBits),
	PowMaxBits:      mainnetPowMaxBits,
	SkipProofOfWork: false,

	BlockCoinbaseMaturity:  100,
	SubsidyHalvingInterval: 210_000,
	BaseSubsidy:            50 * constants.SparkPerEmber,

	TargetTimePerBlock:             time.Minute,
	DifficultyAdjustmentWindowSize: 2640,
	MedianTimeWindowSize:           11,
	MaxTimeOffset:                  2 * time.Hour,
	MaxBlockMass:                   500_000,
}

// TestnetParams defines the network parameters for the test Ember network.
var TestnetParams = Params{
	Name: "ember-testnet",

	GenesisBlock: &testnetGenesisBlock,
	GenesisHash:  &testnetGenesisHash,

	PowMax:          pow.CompactToBig(simnetPowMaxBits),
	PowMaxBits:      simnetPowMaxBits,
	SkipProofOfWork: false,

	BlockCoinbaseMaturity:  100,
	SubsidyHalvingInterval: 210_000,
	BaseSubsidy:            50 * constants.SparkPerEmber,

	TargetTimePerBlock:             time.Minute,
	DifficultyAdjustmentWindowSize: 2640,
	MedianTimeWindowSize:           11,
	MaxTimeOffset:                  2 * time.Hour,
	MaxBlockMass:                   500_000,
}

// SimnetParams defines the network parameters for the simulation Ember
// network. This network is similar to the normal test network except it is
// intended for private use within a group of individuals doing simulation
// testing.
var SimnetParams = Params{
	Name: "ember-simnet",

	GenesisBlock: &simnetGenesisBlock,
	GenesisHash:  &simnetGenesisHash,

	PowMax:          pow.CompactToBig(simnetPowMaxBits),
	PowMaxBits:      simnetPowMaxBits,
	SkipProofOfWork: true,

	BlockCoinbaseMaturity:  10,
	SubsidyHalvingInterval: 210_000,
	BaseSubsidy:            50 * constants.SparkPerEmber,

	TargetTimePerBlock:             time.Millisecond,
	DifficultyAdjustmentWindowSize: 8,
	MedianTimeWindowSize:           11,
	MaxTimeOffset:                  2 * time.Hour,
	MaxBlockMass:                   500_000,
}
