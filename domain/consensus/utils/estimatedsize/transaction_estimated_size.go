package estimatedsize

import (
	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
)

// TransactionEstimatedSerializedSize is the estimated size of a transaction in some
// serialization. This has to be deterministic, but not necessarily accurate, since
// it's only used as the size component in the transaction mass and block size limit
// calculation.
func TransactionEstimatedSerializedSize(tx *externalapi.DomainTransaction) uint64 {
	size := uint64(0)
	size += 2 // version (uint16)

	size += 8 // number of inputs (uint64)
	for _, input := range tx.Inputs {
		size += transactionInputEstimatedSerializedSize(input)
	}

	size += 8 // number of outputs (uint64)
	for _, output := range tx.Outputs {
		size += TransactionOutputEstimatedSerializedSize(output)
	}

	size += 8 // lock time (uint64)

	size += 8 // length of the payload (uint64)
	size += uint64(len(tx.Payload))

	return size
}

func transactionInputEstimatedSerializedSize(input *externalapi.DomainTransactionInput) uint64 {
	size := uint64(0)
	size += outpointEstimatedSerializedSize()

	size += 8 // length of signature script (uint64)
	size += uint64(len(input.SignatureScript))

	size += 8 // sequence (uint64)
	return size
}

func outpointEstimatedSerializedSize() uint64 {
	size := uint64(0)
	size += externalapi.DomainHashSize // ID
	size += 4                          // index (uint32)
	return size
}

// TransactionOutputEstimatedSerializedSize is the same as TransactionEstimatedSerializedSize but for outputs only
func TransactionOutputEstimatedSerializedSize(output *externalapi.DomainTransactionOutput) uint64 {
	size := uint64(0)
	size += 8 // value (uint64)
	size += 8 // length of script public key (uint64)
	size += uint64(len(output.ScriptPublicKey))
	return size
}

// BlockEstimatedSerializedSize returns the estimated serialized size of the
// given block, headers included
func BlockEstimatedSerializedSize(block *externalapi.DomainBlock) uint64 {
	size := uint64(0)
	size += headerEstimatedSerializedSize()

	size += 8 // number of transactions (uint64)
	for _, tx := range block.Transactions {
		size += TransactionEstimatedSerializedSize(tx)
	}
	return size
}

func headerEstimatedSerializedSize() uint64 {
	size := uint64(0)
	size += 2                              // version (uint16)
	size += externalapi.DomainHashSize     // parent hash
	size += externalapi.DomainHashSize     // merkle root
	size += 8                              // timestamp (int64)
	size += 4                              // bits (uint32)
	size += 8                              // nonce (uint64)
	return size
}
