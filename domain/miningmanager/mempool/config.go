package mempool

import (
	"github.com/emberchain/emberd/domain/chainconfig"
)

const (
	defaultMaximumTransactionCount = 100_000

	// defaultMaximumPoolMass is the pool's byte budget. Transaction mass
	// approximates serialized size, so the budget is denominated in mass.
	defaultMaximumPoolMass = 64 * 1024 * 1024

	// defaultMinimumRelayTransactionFee is in spark per kilomass.
	defaultMinimumRelayTransactionFee = uint64(1000)

	defaultMaximumAncestorCount = 25
)

// Config represents a mempool configuration
type Config struct {
	MaximumTransactionCount    int
	MaximumPoolMass            uint64
	MinimumRelayTransactionFee uint64
	MaximumAncestorCount       int
}

// DefaultConfig returns the default mempool configuration
func DefaultConfig(params *chainconfig.Params) *Config {
	return &Config{
		MaximumTransactionCount:    defaultMaximumTransactionCount,
		MaximumPoolMass:            defaultMaximumPoolMass,
		MinimumRelayTransactionFee: defaultMinimumRelayTransactionFee,
		MaximumAncestorCount:       defaultMaximumAncestorCount,
	}
}
