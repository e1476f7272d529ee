package coinbasemanager

import (
	"bytes"

	"github.com/emberchain/emberd/domain/consensus/model"
	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/emberchain/emberd/domain/consensus/ruleerrors"
	"github.com/emberchain/emberd/domain/consensus/utils/constants"
	"github.com/emberchain/emberd/domain/consensus/utils/serialization"
	"github.com/emberchain/emberd/domain/consensus/utils/transactionhelper"
	"github.com/pkg/errors"
)

type coinbaseManager struct {
	baseSubsidy            uint64
	subsidyHalvingInterval uint64
}

// New instantiates a new CoinbaseManager
func New(baseSubsidy uint64, subsidyHalvingInterval uint64) model.CoinbaseManager {
	return &coinbaseManager{
		baseSubsidy:            baseSubsidy,
		subsidyHalvingInterval: subsidyHalvingInterval,
	}
}

// CalcBlockSubsidy returns the subsidy amount a block at the provided
// height should have. This is mainly used for determining how much the
// coinbase for newly generated blocks awards as well as validating the
// coinbase for blocks that have elapsed since relevant checkpoints.
//
// The subsidy is halved every SubsidyHalvingInterval blocks. Mathematically
// this is: baseSubsidy / 2^(height/SubsidyHalvingInterval)
func (cm *coinbaseManager) CalcBlockSubsidy(blockHeight uint64) uint64 {
	if cm.subsidyHalvingInterval == 0 {
		return cm.baseSubsidy
	}

	halvings := blockHeight / cm.subsidyHalvingInterval
	if halvings >= 64 {
		return 0
	}

	return cm.baseSubsidy >> uint(halvings)
}

// CreateCoinbaseTransaction returns a coinbase transaction paying the
// block subsidy plus the given total fees to the given script. The payload
// commits to the block height so coinbases of different heights never
// share a transaction ID.
func (cm *coinbaseManager) CreateCoinbaseTransaction(blockHeight uint64, totalFees uint64,
	coinbaseData *externalapi.DomainCoinbaseData) (*externalapi.DomainTransaction, error) {

	payload, err := serializeCoinbasePayload(blockHeight, coinbaseData)
	if err != nil {
		return nil, err
	}
	if uint64(len(payload)) > constants.MaxCoinbasePayloadLength {
		return nil, errors.Errorf("coinbase payload is %d bytes long, the maximum allowed is %d",
			len(payload), constants.MaxCoinbasePayloadLength)
	}

	coinbase := transactionhelper.NewNativeTransaction(constants.MaxTransactionVersion, nil,
		[]*externalapi.DomainTransactionOutput{{
			Value:           cm.CalcBlockSubsidy(blockHeight) + totalFees,
			ScriptPublicKey: coinbaseData.ScriptPublicKey,
		}})
	coinbase.Payload = payload
	return coinbase, nil
}

// ValidateCoinbaseTransactionInContext validates that the coinbase does
// not claim more than the block subsidy plus the fees of the block's
// transactions
func (cm *coinbaseManager) ValidateCoinbaseTransactionInContext(coinbaseTransaction *externalapi.DomainTransaction,
	blockHeight uint64, totalFees uint64) error {

	var totalOut uint64
	for _, output := range coinbaseTransaction.Outputs {
		totalOut += output.Value
	}

	expectedMaximum := cm.CalcBlockSubsidy(blockHeight) + totalFees
	if totalOut > expectedMaximum {
		return errors.Wrapf(ruleerrors.ErrBadCoinbaseAmount,
			"coinbase transaction for block pays %d which is more than expected maximum of %d",
			totalOut, expectedMaximum)
	}

	return nil
}

func serializeCoinbasePayload(blockHeight uint64, coinbaseData *externalapi.DomainCoinbaseData) ([]byte, error) {
	w := &bytes.Buffer{}
	err := serialization.WriteElement(w, blockHeight)
	if err != nil {
		return nil, err
	}
	_, err = w.Write(coinbaseData.ExtraData)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return w.Bytes(), nil
}
