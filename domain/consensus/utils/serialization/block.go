package serialization

import (
	"io"

	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// maxTransactionsPerBlock bounds the number of transactions a deserialized
// block may carry.
const maxTransactionsPerBlock = 1 << 20

// SerializeBlock writes block to w in the canonical consensus encoding.
func SerializeBlock(w io.Writer, block *externalapi.DomainBlock) error {
	err := SerializeHeader(w, block.Header)
	if err != nil {
		return err
	}

	err = WriteElement(w, uint64(len(block.Transactions)))
	if err != nil {
		return err
	}

	for _, tx := range block.Transactions {
		err := SerializeTransaction(w, tx, true)
		if err != nil {
			return err
		}
	}
	return nil
}

// DeserializeBlock reads a block from r in the canonical consensus
// encoding.
func DeserializeBlock(r io.Reader) (*externalapi.DomainBlock, error) {
	header, err := DeserializeHeader(r)
	if err != nil {
		return nil, err
	}

	var transactionCount uint64
	err = ReadElement(r, &transactionCount)
	if err != nil {
		return nil, err
	}
	if transactionCount > maxTransactionsPerBlock {
		return nil, errors.Errorf("block transaction count %d is larger than the maximum allowed", transactionCount)
	}

	transactions := make([]*externalapi.DomainTransaction, transactionCount)
	for i := uint64(0); i < transactionCount; i++ {
		transactions[i], err = DeserializeTransaction(r)
		if err != nil {
			return nil, err
		}
	}

	return &externalapi.DomainBlock{
		Header:       header,
		Transactions: transactions,
	}, nil
}
