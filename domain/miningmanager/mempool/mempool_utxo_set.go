package mempool

import (
	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/emberchain/emberd/domain/consensus/utils/utxo"
	"github.com/emberchain/emberd/domain/miningmanager/mempool/model"
)

// mempoolUTXOSet tracks the outputs pooled transactions create and the
// outpoints they spend, overlaying the virtual UTXO set for chained
// acceptance and double-spend detection within the pool
type mempoolUTXOSet struct {
	mempool *mempool

	poolUnspentOutputs            model.OutpointToUTXOEntry
	transactionByPreviousOutpoint model.OutpointToTransaction
}

func newMempoolUTXOSet(mp *mempool) *mempoolUTXOSet {
	return &mempoolUTXOSet{
		mempool: mp,

		poolUnspentOutputs:            model.OutpointToUTXOEntry{},
		transactionByPreviousOutpoint: model.OutpointToTransaction{},
	}
}

// this function MUST be called with the mempool mutex locked for writes
func (mpus *mempoolUTXOSet) addTransaction(transaction *model.MempoolTransaction) {
	for _, input := range transaction.Transaction.Inputs {
		mpus.transactionByPreviousOutpoint[input.PreviousOutpoint] = transaction
	}

	transactionID := transaction.TransactionID()
	for i, output := range transaction.Transaction.Outputs {
		outpoint := externalapi.NewDomainOutpoint(transactionID, uint32(i))
		mpus.poolUnspentOutputs[*outpoint] = utxo.NewUTXOEntry(
			output.Value, output.ScriptPublicKey, false, model.UnacceptedBlockHeight)
	}
}

// this function MUST be called with the mempool mutex locked for writes
func (mpus *mempoolUTXOSet) removeTransaction(transaction *model.MempoolTransaction) {
	for _, input := range transaction.Transaction.Inputs {
		delete(mpus.transactionByPreviousOutpoint, input.PreviousOutpoint)
	}

	transactionID := transaction.TransactionID()
	for i := range transaction.Transaction.Outputs {
		outpoint := externalapi.NewDomainOutpoint(transactionID, uint32(i))
		delete(mpus.poolUnspentOutputs, *outpoint)
	}
}

// poolUnspentOutputEntry returns the entry of the given outpoint if a
// pooled transaction created it and no pooled transaction spends it
func (mpus *mempoolUTXOSet) poolUnspentOutputEntry(outpoint *externalapi.DomainOutpoint) (externalapi.UTXOEntry, bool) {
	entry, ok := mpus.poolUnspentOutputs[*outpoint]
	if !ok {
		return nil, false
	}
	if _, spent := mpus.transactionByPreviousOutpoint[*outpoint]; spent {
		return nil, false
	}
	return entry, true
}

// findDoubleSpends returns the pooled transactions spending any of the
// outpoints the given transaction spends
func (mpus *mempoolUTXOSet) findDoubleSpends(transaction *externalapi.DomainTransaction) []*model.MempoolTransaction {
	seen := make(map[externalapi.DomainTransactionID]struct{})
	var doubleSpends []*model.MempoolTransaction

	for _, input := range transaction.Inputs {
		spender, ok := mpus.transactionByPreviousOutpoint[input.PreviousOutpoint]
		if !ok {
			continue
		}
		spenderID := *spender.TransactionID()
		if _, alreadySeen := seen[spenderID]; alreadySeen {
			continue
		}
		seen[spenderID] = struct{}{}
		doubleSpends = append(doubleSpends, spender)
	}
	return doubleSpends
}
