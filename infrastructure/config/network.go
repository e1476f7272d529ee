package config

import (
	"fmt"
	"os"

	"github.com/emberchain/emberd/domain/chainconfig"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

// NetworkFlags holds the network configuration, that is which network is
// selected.
type NetworkFlags struct {
	Testnet bool `long:"testnet" description:"Use the test network"`
	Simnet  bool `long:"simnet" description:"Use the simulation test network"`

	ActiveNetParams *chainconfig.Params
}

// ResolveNetwork parses the network command line arguments and sets
// ActiveNetParams accordingly. It returns an error if more than one
// network was selected.
func (networkFlags *NetworkFlags) ResolveNetwork(parser *flags.Parser) error {
	// The default network is mainnet.
	networkFlags.ActiveNetParams = &chainconfig.MainnetParams

	// Multiple networks can't be selected simultaneously.
	numNets := 0
	if networkFlags.Testnet {
		numNets++
		networkFlags.ActiveNetParams = &chainconfig.TestnetParams
	}
	if networkFlags.Simnet {
		numNets++
		networkFlags.ActiveNetParams = &chainconfig.SimnetParams
	}
	if numNets > 1 {
		err := errors.Errorf("multiple network parameters (testnet, simnet) cannot be used " +
			"together, please choose only one network")
		fmt.Fprintln(os.Stderr, err)
		parser.WriteHelp(os.Stderr)
		return err
	}

	return nil
}

// NetParams returns the ActiveNetParams
func (networkFlags *NetworkFlags) NetParams() *chainconfig.Params {
	return networkFlags.ActiveNetParams
}
