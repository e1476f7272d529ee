package chainconfig

import (
	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/emberchain/emberd/domain/consensus/utils/consensushashing"
	"github.com/emberchain/emberd/domain/consensus/utils/constants"
	"github.com/emberchain/emberd/domain/consensus/utils/merkle"
	"github.com/emberchain/emberd/domain/consensus/utils/transactionhelper"
)

// Genesis blocks are constructed rather than hardcoded: the merkle root and
// the block hash are derived from the coinbase payload at package init, so
// the genesis of each network is fully determined by the values below.

func newGenesisBlock(payload []byte, timeInMilliseconds int64, bits uint32) externalapi.DomainBlock {
	coinbase := transactionhelper.NewNativeTransaction(constants.MaxTransactionVersion, nil, nil)
	coinbase.Payload = payload

	transactions := []*externalapi.DomainTransaction{coinbase}
	return externalapi.DomainBlock{
		Header: &externalapi.DomainBlockHeader{
			Version:            constants.MaxBlockVersion,
			ParentHash:         externalapi.ZeroHash,
			HashMerkleRoot:     *merkle.CalculateHashMerkleRoot(transactions),
			TimeInMilliseconds: timeInMilliseconds,
			Bits:               bits,
			Nonce:              0,
		},
		Transactions: transactions,
	}
}

// genesisTimeInMilliseconds is 2024-01-01 00:00:00 UTC.
const genesisTimeInMilliseconds = int64(1704067200000)

var genesisBlock = newGenesisBlock(
	[]byte("ember-mainnet-genesis"), genesisTimeInMilliseconds, mainnetPowMaxBits)

var genesisHash = *consensushashing.BlockHash(&genesisBlock)

var testnetGenesisBlock = newGenesisBlock(
	[]byte("ember-testnet-genesis"), genesisTimeInMilliseconds, simnetPowMaxBits)

var testnetGenesisHash = *consensushashing.BlockHash(&testnetGenesisBlock)

var simnetGenesisBlock = newGenesisBlock(
	[]byte("ember-simnet-genesis"), genesisTimeInMilliseconds, simnetPowMaxBits)

var simnetGenesisHash = *consensushashing.BlockHash(&simnetGenesisBlock)
