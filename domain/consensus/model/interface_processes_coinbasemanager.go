package model

import "github.com/emberchain/emberd/domain/consensus/model/externalapi"

// CoinbaseManager exposes methods for handling blocks'
// coinbase transactions
type CoinbaseManager interface {
	CalcBlockSubsidy(blockHeight uint64) uint64
	CreateCoinbaseTransaction(blockHeight uint64, totalFees uint64,
		coinbaseData *externalapi.DomainCoinbaseData) (*externalapi.DomainTransaction, error)
	ValidateCoinbaseTransactionInContext(coinbaseTransaction *externalapi.DomainTransaction,
		blockHeight uint64, totalFees uint64) error
}
